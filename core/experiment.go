package core

import (
	"io"
	"time"
)

type DataSet interface{}

type Analyzer interface {
	// Analyze is called once per episode with the trace of that episode
	Analyze(*EpisodeContext, *Trace)
	DataSet() DataSet
	Reset()
}

type AnalyzerConstructor interface {
	// new analyzer based on experiment name and run
	NewAnalyzer(string, int) Analyzer
}

type Comparator interface {
	Compare([]string, []DataSet)
}

type ComparatorConstructor interface {
	NewComparator(int) Comparator
}

// Observer sees every transition as it happens, e.g. to render the board
type Observer interface {
	Observe(*Game, Transition)
}

type ObserverFunc func(*Game, Transition)

func (f ObserverFunc) Observe(g *Game, t Transition) {
	f(g, t)
}

type RunConfig struct {
	// MaxSteps bounds the number of Act calls per experiment, 0 means unbounded
	MaxSteps int
	// Pacing is slept after every step. Presentation only.
	Pacing time.Duration
	// Progress receives one line per completed episode, nil discards them
	Progress io.Writer
}

// ExperimentConfig describes how to build an experiment for each run
type ExperimentConfig struct {
	Name  string
	Game  GameConstructor
	Agent AgentConstructor
}

// Build constructs a fresh game and agent for the given instance
func (c *ExperimentConfig) Build(instance int) (*Experiment, error) {
	game, err := c.Game.NewGame()
	if err != nil {
		return nil, err
	}
	return &Experiment{
		Name:  c.Name,
		Game:  game,
		Agent: c.Agent.NewAgent(game, instance),
	}, nil
}

type Experiment struct {
	Name      string
	Game      *Game
	Agent     Agent
	Observers []Observer
}

type Comparison struct {
	Experiments []*ExperimentConfig
	Analyzers   map[string]AnalyzerConstructor
	Comparators map[string]ComparatorConstructor
}

func NewComparison() *Comparison {
	return &Comparison{
		Analyzers:   make(map[string]AnalyzerConstructor),
		Comparators: make(map[string]ComparatorConstructor),
		Experiments: make([]*ExperimentConfig, 0),
	}
}

func (c *Comparison) AddExperiment(e *ExperimentConfig) {
	c.Experiments = append(c.Experiments, e)
}

func (c *Comparison) AddAnalysis(name string, a AnalyzerConstructor, cmp ComparatorConstructor) {
	c.Analyzers[name] = a
	c.Comparators[name] = cmp
}

// ParallelComparison runs the experiments of a comparison on a worker pool
type ParallelComparison struct {
	*Comparison
}

func NewParallelComparison() *ParallelComparison {
	return &ParallelComparison{
		Comparison: NewComparison(),
	}
}
