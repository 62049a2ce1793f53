package analysis

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"path"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zeu5/cheese-rl/core"
)

// playEpisodes runs the game with a fixed action and feeds every episode to the analyzers
func playEpisodes(t *testing.T, maxRuns uint, action core.Action, agent core.Agent, analyzers map[string]core.Analyzer) *core.ExperimentResult {
	t.Helper()
	config := core.DefaultGameConfig()
	config.Termination = core.RunLimit{MaxRuns: maxRuns}
	g, err := config.NewGame()
	require.NoError(t, err)
	if agent == nil {
		agent = core.AgentFunc(func(g *core.Game) error {
			g.Update(action)
			return nil
		})
	}
	exp := &core.Experiment{Name: "test", Game: g, Agent: agent}
	return exp.Run(context.Background(), nil, analyzers)
}

type fixedTable struct {
	core.Agent
	values [][2]float32
}

func (f fixedTable) Values() [][2]float32 {
	return f.values
}

func TestOutcomeAnalyzer(t *testing.T) {
	t.Run("records completed episodes", func(t *testing.T) {
		a := NewOutcomeAnalyzer()
		playEpisodes(t, 2, core.Right, nil, map[string]core.Analyzer{"Outcomes": a})

		d := a.DataSet().(*outcomeDataset)
		require.Equal(t, []string{"Win", "Win", "Win"}, d.Outcomes)
		require.Equal(t, []int{9, 9, 9}, d.Steps)
		require.Equal(t, []int{1, 2, 3}, d.Scores)
		require.Equal(t, []float64{1, 1, 1}, d.WinRate)

		s := summarize(d)
		require.Equal(t, 3, s.Episodes)
		require.Equal(t, 1.0, s.WinRate)
		require.Equal(t, 9.0, s.MeanSteps)
		require.Equal(t, 0.0, s.StdDevSteps)
		require.Equal(t, 3, s.FinalScore)
	})

	t.Run("skips the partial trailing episode", func(t *testing.T) {
		a := NewOutcomeAnalyzer()
		partial := core.NewEpisodeContext(context.Background())
		partial.Trace.AddStep(&core.Step{Transition: core.Transition{Action: core.Right, Result: core.NextRound}})
		a.Analyze(partial, partial.Trace)
		require.Empty(t, a.DataSet().(*outcomeDataset).Outcomes)
	})

	t.Run("reset clears the dataset", func(t *testing.T) {
		a := NewOutcomeAnalyzer()
		playEpisodes(t, 0, core.Left, nil, map[string]core.Analyzer{"Outcomes": a})
		require.Equal(t, []string{"Loss"}, a.DataSet().(*outcomeDataset).Outcomes)
		a.Reset()
		require.Empty(t, a.DataSet().(*outcomeDataset).Outcomes)
	})

	t.Run("summary of an empty dataset", func(t *testing.T) {
		s := summarize(newOutcomeDataset())
		require.Equal(t, OutcomeSummary{}, s)
	})
}

func TestOutcomeComparator(t *testing.T) {
	dir := t.TempDir()
	win := NewOutcomeAnalyzer()
	lose := NewOutcomeAnalyzer()
	playEpisodes(t, 1, core.Right, nil, map[string]core.Analyzer{"Outcomes": win})
	playEpisodes(t, 1, core.Left, nil, map[string]core.Analyzer{"Outcomes": lose})

	NewOutcomeComparatorConstructor(dir).NewComparator(0).Compare(
		[]string{"right", "left", "missing"},
		[]core.DataSet{win.DataSet(), lose.DataSet(), nil},
	)

	require.FileExists(t, path.Join(dir, "0", "outcomes.html"))
	bs, err := os.ReadFile(path.Join(dir, "0", "outcomes.json"))
	require.NoError(t, err)
	summaries := make(map[string]OutcomeSummary)
	require.NoError(t, json.Unmarshal(bs, &summaries))
	require.Len(t, summaries, 2)
	require.Equal(t, 1.0, summaries["right"].WinRate)
	require.Equal(t, 0.0, summaries["left"].WinRate)
	require.Equal(t, -2, summaries["left"].FinalScore)
}

func TestEventAnalyzer(t *testing.T) {
	dir := t.TempDir()
	a := NewEventAnalyzer(dir, "exp", BoundaryHit(), InvalidInput(), LongEpisode(5))
	playEpisodes(t, 1, core.Right, nil, map[string]core.Analyzer{"Events": a})

	counts := a.DataSet().(map[string]int)
	require.Equal(t, 2, counts["long5"])
	require.Zero(t, counts["boundary"])
	require.Zero(t, counts["invalid"])
	require.FileExists(t, path.Join(dir, "events", "0_exp_long5_1.txt"))

	a.Reset()
	require.Empty(t, a.DataSet())
}

func TestPrintDebugAnalyzer(t *testing.T) {
	dir := t.TempDir()
	a := NewPrintDebugAnalyzerConstructor(dir, 1).NewAnalyzer("exp", 0)
	playEpisodes(t, 1, core.Left, nil, map[string]core.Analyzer{"Debug": a})

	require.NoFileExists(t, path.Join(dir, "traces", "0_exp_trace_0.txt"))
	bs, err := os.ReadFile(path.Join(dir, "traces", "0_exp_trace_1.txt"))
	require.NoError(t, err)
	require.Contains(t, string(bs), "Step 4: Left 1 -> 5, Result: Loss, Reward: -1")
}

func TestQTableAnalyzer(t *testing.T) {
	dir := t.TempDir()
	values := make([][2]float32, 16)
	values[3] = [2]float32{0.25, 0.75}
	mover := core.AgentFunc(func(g *core.Game) error {
		g.Update(core.Right)
		return nil
	})
	a := NewQTableAnalyzerConstructor(dir, 2).NewAnalyzer("exp", 0)
	playEpisodes(t, 4, core.Right, fixedTable{Agent: mover, values: values}, map[string]core.Analyzer{"QTables": a})

	// runs 2 and 4 of 5 completed episodes
	require.Equal(t, 2, a.DataSet())

	f, err := os.Open(path.Join(dir, "qtables", "0_exp_qtable.jsonl"))
	require.NoError(t, err)
	defer f.Close()
	lines := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		snapshot := &qTableSnapshot{}
		require.NoError(t, json.Unmarshal(scanner.Bytes(), snapshot))
		require.Equal(t, uint(2*(lines+1)), snapshot.Runs)
		require.Equal(t, [2]float32{0.25, 0.75}, snapshot.Values[3])
		lines++
	}
	require.Equal(t, 2, lines)
}
