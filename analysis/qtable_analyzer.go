package analysis

import (
	"fmt"
	"path"

	"github.com/rs/zerolog/log"

	"github.com/zeu5/cheese-rl/core"
	"github.com/zeu5/cheese-rl/util"
)

// ValueTable is implemented by agents that keep a position x action table
type ValueTable interface {
	Values() [][2]float32
}

type qTableSnapshot struct {
	Run     int          `json:"run"`
	Episode int          `json:"episode"`
	Runs    uint         `json:"runs"`
	Score   int          `json:"score"`
	Values  [][2]float32 `json:"values"`
}

// QTableAnalyzer appends a snapshot of the agent's table every interval
// completed episodes. Snapshots are for inspection only and never read back.
type QTableAnalyzer struct {
	file      string
	interval  int
	snapshots int
}

var _ core.Analyzer = &QTableAnalyzer{}

func NewQTableAnalyzer(savePath, exp string, run, interval int) *QTableAnalyzer {
	name := fmt.Sprintf("%d_qtable.jsonl", run)
	if exp != "" {
		name = fmt.Sprintf("%d_%s_qtable.jsonl", run, exp)
	}
	return &QTableAnalyzer{
		file:     path.Join(savePath, "qtables", name),
		interval: interval,
	}
}

func (q *QTableAnalyzer) Analyze(eCtx *core.EpisodeContext, _ *core.Trace) {
	if !eCtx.Complete || q.interval <= 0 || eCtx.Game == nil {
		return
	}
	if eCtx.Game.Runs()%uint(q.interval) != 0 {
		return
	}
	table, ok := eCtx.Agent.(ValueTable)
	if !ok {
		return
	}
	snapshot := &qTableSnapshot{
		Run:     eCtx.Run,
		Episode: eCtx.Episode,
		Runs:    eCtx.Game.Runs(),
		Score:   eCtx.Game.Score(),
		Values:  table.Values(),
	}
	if err := util.AppendJsonLine(q.file, snapshot); err != nil {
		log.Error().Err(err).Str("file", q.file).Msg("failed to record q table")
		return
	}
	q.snapshots++
	log.Debug().Uint("runs", snapshot.Runs).Str("file", q.file).Msg("recorded q table")
}

// DataSet is the number of snapshots written
func (q *QTableAnalyzer) DataSet() core.DataSet {
	return q.snapshots
}

func (q *QTableAnalyzer) Reset() {
	q.snapshots = 0
}

type QTableAnalyzerConstructor struct {
	savePath string
	interval int
}

var _ core.AnalyzerConstructor = &QTableAnalyzerConstructor{}

func NewQTableAnalyzerConstructor(savePath string, interval int) *QTableAnalyzerConstructor {
	return &QTableAnalyzerConstructor{
		savePath: savePath,
		interval: interval,
	}
}

func (c *QTableAnalyzerConstructor) NewAnalyzer(exp string, run int) core.Analyzer {
	return NewQTableAnalyzer(c.savePath, exp, run, c.interval)
}
