package policies

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	erand "golang.org/x/exp/rand"

	"github.com/zeu5/cheese-rl/core"
)

// ActionList holds the actions a learning agent can choose from, in table column order
var ActionList = [2]core.Action{core.Left, core.Right}

// QTable is a dense position x action table of quality estimates
type QTable struct {
	table [][len(ActionList)]float32
}

// NewQTable creates a table for a board with the given number of positions.
// Every entry is an independent uniform draw from [0,1).
func NewQTable(positions int, rand *erand.Rand) *QTable {
	q := &QTable{
		table: make([][len(ActionList)]float32, positions),
	}
	for pos := range q.table {
		for i := range q.table[pos] {
			q.table[pos][i] = rand.Float32()
		}
	}
	return q
}

func actionID(action core.Action) int {
	for i, a := range ActionList {
		if a == action {
			return i
		}
	}
	panic(fmt.Sprintf("must be a real action, got %v", action))
}

func (q *QTable) Get(pos int, action core.Action) float32 {
	return q.table[pos][actionID(action)]
}

func (q *QTable) Set(pos int, action core.Action, val float32) {
	q.table[pos][actionID(action)] = val
}

// Max returns the best action for the position and its value.
//
// The scan starts from Left with a value of 0 and only moves on a strictly
// greater entry, so Left wins ties and rows where every entry is <= 0.
// In the latter case the returned value is 0 as well.
func (q *QTable) Max(pos int) (core.Action, float32) {
	maxID, maxVal := 0, float32(0)
	for id, val := range q.table[pos] {
		if val > maxVal {
			maxID = id
			maxVal = val
		}
	}
	return ActionList[maxID], maxVal
}

func (q *QTable) Size() int {
	return len(q.table)
}

// Values returns a copy of the table
func (q *QTable) Values() [][2]float32 {
	out := make([][2]float32, len(q.table))
	copy(out, q.table)
	return out
}

// Record writes the table as json lines, one per position
func (q *QTable) Record(path string) error {
	bs := new(bytes.Buffer)

	for pos, entries := range q.table {
		row := make(map[string]interface{})
		row["position"] = pos
		e := make(map[string]float32)
		for i, a := range ActionList {
			e[a.Hash()] = entries[i]
		}
		row["entries"] = e

		rowBS, err := json.Marshal(row)
		if err != nil {
			return err
		}
		bs.Write(rowBS)
		bs.Write([]byte("\n"))
	}

	return os.WriteFile(path, bs.Bytes(), 0644)
}
