package core

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// scripted replays the actions in order and then keeps repeating the last one
func scripted(actions ...Action) AgentFunc {
	i := 0
	return func(g *Game) error {
		a := actions[i]
		if i < len(actions)-1 {
			i++
		}
		g.Update(a)
		return nil
	}
}

type recordingAnalyzer struct {
	complete []bool
	lengths  []int
}

func (r *recordingAnalyzer) Analyze(eCtx *EpisodeContext, trace *Trace) {
	r.complete = append(r.complete, eCtx.Complete)
	r.lengths = append(r.lengths, trace.Len())
}

func (r *recordingAnalyzer) DataSet() DataSet {
	return len(r.complete)
}

func (r *recordingAnalyzer) Reset() {
	r.complete = nil
	r.lengths = nil
}

func TestExperimentRun(t *testing.T) {
	t.Run("runs until the run limit", func(t *testing.T) {
		g := newTestGame(t, WithTermination(RunLimit{MaxRuns: 1}))
		a := &recordingAnalyzer{}
		exp := &Experiment{Name: "right", Game: g, Agent: scripted(Right)}
		progress := new(bytes.Buffer)

		result := exp.Run(context.Background(), &RunConfig{Progress: progress}, map[string]Analyzer{"rec": a})

		require.NoError(t, result.Error)
		require.Equal(t, 2, result.CompletedEpisodes)
		require.Equal(t, 2, result.Wins)
		require.Equal(t, 0, result.Losses)
		require.Equal(t, 18, result.TotalSteps)
		require.Equal(t, 2, result.FinalScore)
		require.Equal(t, uint(2), result.Runs)
		require.Equal(t, []bool{true, true}, a.complete)
		require.Equal(t, []int{9, 9}, a.lengths)
		require.Equal(t, 2, result.Datasets["rec"])
		require.Contains(t, progress.String(), "Experiment: right, Run 0, Episode 1")
	})

	t.Run("counts boundary losses and invalid actions", func(t *testing.T) {
		g := newTestGame(t, WithTermination(RunLimit{MaxRuns: 0}))
		actions := []Action{Invalid, Left, Left, Left, Left, Left}
		exp := &Experiment{Game: g, Agent: scripted(actions...)}

		result := exp.Run(context.Background(), nil, nil)

		require.NoError(t, result.Error)
		require.Equal(t, 1, result.InvalidActions)
		require.Equal(t, 0, result.BoundaryLosses)
		require.Equal(t, 1, result.Losses)
		require.Equal(t, 1, result.CompletedEpisodes)
	})

	t.Run("observers see every transition", func(t *testing.T) {
		g := newTestGame(t, WithTermination(RunLimit{MaxRuns: 0}))
		seen := make([]Transition, 0)
		exp := &Experiment{
			Game:  g,
			Agent: scripted(Right),
			Observers: []Observer{ObserverFunc(func(_ *Game, tr Transition) {
				seen = append(seen, tr)
			})},
		}

		exp.Run(context.Background(), nil, nil)

		require.Len(t, seen, 9)
		require.True(t, seen[8].EpisodeEnded)
		require.Equal(t, Win, seen[8].Result)
	})

	t.Run("step limit stops a game that never ends", func(t *testing.T) {
		w, err := NewWorldState(4, nil, nil)
		require.NoError(t, err)
		g, err := NewGame(w, WithStartingPos(0))
		require.NoError(t, err)
		a := &recordingAnalyzer{}
		exp := &Experiment{Game: g, Agent: scripted(Left)}

		result := exp.Run(context.Background(), &RunConfig{MaxSteps: 10}, map[string]Analyzer{"rec": a})

		require.ErrorIs(t, result.Error, ErrStepLimit)
		require.Equal(t, 10, result.TotalSteps)
		require.Equal(t, 10, result.BoundaryLosses)
		require.Equal(t, 0, result.CompletedEpisodes)
		require.Equal(t, []bool{false}, a.complete, "partial episode should be analyzed once")
		require.Equal(t, []int{10}, a.lengths)
	})

	t.Run("quit ends the run", func(t *testing.T) {
		g := newTestGame(t)
		exp := &Experiment{Game: g, Agent: scripted(Right, Quit)}

		result := exp.Run(context.Background(), nil, nil)

		require.NoError(t, result.Error)
		require.Equal(t, 2, result.TotalSteps)
		require.True(t, g.QuitRequested())
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		exp := &Experiment{Game: newTestGame(t), Agent: scripted(Right)}

		result := exp.Run(ctx, nil, nil)

		require.ErrorIs(t, result.Error, ErrCancelled)
		require.Equal(t, 0, result.TotalSteps)
	})

	t.Run("agent errors are returned", func(t *testing.T) {
		broken := errors.New("broken pipe")
		exp := &Experiment{
			Name:  "broken",
			Game:  newTestGame(t),
			Agent: AgentFunc(func(*Game) error { return broken }),
		}

		result := exp.Run(context.Background(), nil, nil)

		require.ErrorIs(t, result.Error, broken)
		require.True(t, result.IsError())
	})
}

type rightConstructor struct{}

func (rightConstructor) NewAgent(_ *Game, _ int) Agent {
	return scripted(Right)
}

type countingAnalyzerConstructor struct{}

func (countingAnalyzerConstructor) NewAnalyzer(_ string, _ int) Analyzer {
	return &recordingAnalyzer{}
}

type capturingComparator struct {
	mu    *sync.Mutex
	calls map[int][]DataSet
	names map[int][]string
	run   int
}

func (c *capturingComparator) NewComparator(run int) Comparator {
	return &capturingComparator{mu: c.mu, calls: c.calls, names: c.names, run: run}
}

func (c *capturingComparator) Compare(names []string, datasets []DataSet) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls[c.run] = datasets
	c.names[c.run] = names
}

func newCapturingComparator() *capturingComparator {
	return &capturingComparator{
		mu:    new(sync.Mutex),
		calls: make(map[int][]DataSet),
		names: make(map[int][]string),
	}
}

func TestComparison(t *testing.T) {
	config := &GameConfig{
		Length:      16,
		Pits:        []int{0},
		Cheeses:     []int{14},
		StartingPos: 5,
		Termination: RunLimit{MaxRuns: 2},
	}

	t.Run("sequential", func(t *testing.T) {
		cmp := NewComparison()
		comparator := newCapturingComparator()
		cmp.AddAnalysis("rec", countingAnalyzerConstructor{}, comparator)
		cmp.AddExperiment(&ExperimentConfig{Name: "a", Game: config, Agent: rightConstructor{}})
		cmp.AddExperiment(&ExperimentConfig{Name: "b", Game: config, Agent: rightConstructor{}})

		cmp.Run(context.Background(), 2, &RunConfig{})

		require.Len(t, comparator.calls, 2)
		require.Equal(t, []string{"a", "b"}, comparator.names[1])
		require.Equal(t, []DataSet{3, 3}, comparator.calls[0])
	})

	t.Run("parallel keeps experiment order", func(t *testing.T) {
		cmp := NewParallelComparison()
		comparator := newCapturingComparator()
		cmp.AddAnalysis("rec", countingAnalyzerConstructor{}, comparator)
		for _, name := range []string{"a", "b", "c"} {
			cmp.AddExperiment(&ExperimentConfig{Name: name, Game: config, Agent: rightConstructor{}})
		}

		cmp.Run(context.Background(), 1, &RunConfig{Progress: new(bytes.Buffer)}, 2)

		require.Equal(t, []string{"a", "b", "c"}, comparator.names[0])
		require.Equal(t, []DataSet{3, 3, 3}, comparator.calls[0])
	})

	t.Run("bad game config is reported per experiment", func(t *testing.T) {
		cmp := NewComparison()
		comparator := newCapturingComparator()
		cmp.AddAnalysis("rec", countingAnalyzerConstructor{}, comparator)
		cmp.AddExperiment(&ExperimentConfig{Name: "bad", Game: &GameConfig{Length: 1}, Agent: rightConstructor{}})

		cmp.Run(context.Background(), 1, &RunConfig{})

		require.Equal(t, []DataSet{nil}, comparator.calls[0])
	})
}
