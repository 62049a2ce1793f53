// Package analysis holds per episode analyzers and the comparators that
// reduce their datasets across experiments.
package analysis

import (
	"bytes"
	"fmt"

	"github.com/zeu5/cheese-rl/core"
	"github.com/zeu5/cheese-rl/render"
)

// NoOpComparator is paired with analyzers that write their own output
type NoOpComparator struct{}

var _ core.Comparator = NoOpComparator{}

func (NoOpComparator) Compare(_ []string, _ []core.DataSet) {}

type NoOpComparatorConstructor struct{}

var _ core.ComparatorConstructor = NoOpComparatorConstructor{}

func NewNoOpComparatorConstructor() NoOpComparatorConstructor {
	return NoOpComparatorConstructor{}
}

func (NoOpComparatorConstructor) NewComparator(_ int) core.Comparator {
	return NoOpComparator{}
}

func stepToString(i int, step *core.Step) string {
	return fmt.Sprintf(
		"Step %d: %s %d -> %d, Result: %s, Reward: %d\n%s\n",
		i, step.Action, step.From, step.To, step.Result, step.ScoreDelta,
		render.Line(step.Board, step.Score, step.Runs),
	)
}

func traceToString(trace *core.Trace) string {
	buf := new(bytes.Buffer)
	for i := 0; i < trace.Len(); i++ {
		buf.WriteString(stepToString(i, trace.Step(i)))
	}
	return buf.String()
}
