package common

import (
	"fmt"
	"os"
	"path"
	"strconv"
	"time"

	"github.com/spf13/pflag"

	"github.com/zeu5/cheese-rl/core"
	"github.com/zeu5/cheese-rl/policies"
	"github.com/zeu5/cheese-rl/util"
)

type Flags struct {
	BoardFlags
	AgentFlags
	RunFlags
	SavePath    string
	LogLevel    string
	Parallelism int
	Debug       bool
}

type BoardFlags struct {
	Length      int
	Pits        []int
	Cheeses     []int
	StartingPos int
	Termination string
	MaxRuns     uint
	ScoreLower  int
	ScoreUpper  int
}

type AgentFlags struct {
	LearningRate   float32
	DiscountFactor float32
	Exploration    string
	Epsilon        float32
	Seed           uint64
	InvalidInput   string
}

type RunFlags struct {
	NumRuns   int
	MaxSteps  int
	Pacing    time.Duration
	DumpEvery int
	NoRender  bool
}

// DefaultFlags reproduce the classic setup: a 16 cell board with the pit at
// 0, the cheese at 14, and a bot with alpha 0.2 and gamma 0.9.
// LOG_LEVEL and CHEESE_SEED from the environment override the defaults.
func DefaultFlags() *Flags {
	logLevel := "info"
	if lvl := os.Getenv("LOG_LEVEL"); lvl != "" {
		logLevel = lvl
	}
	seed := uint64(time.Now().UnixNano())
	if s, err := strconv.ParseUint(os.Getenv("CHEESE_SEED"), 10, 64); err == nil {
		seed = s
	}
	return &Flags{
		BoardFlags: BoardFlags{
			Length:      16,
			Pits:        []int{0},
			Cheeses:     []int{14},
			StartingPos: core.DefaultStartingPos,
			Termination: "run-limit",
			MaxRuns:     core.DefaultMaxRuns,
			ScoreLower:  core.DefaultScoreLower,
			ScoreUpper:  core.DefaultScoreUpper,
		},
		AgentFlags: AgentFlags{
			LearningRate:   policies.DefaultLearningRate,
			DiscountFactor: policies.DefaultDiscountFactor,
			Exploration:    "derived",
			Epsilon:        0.1,
			Seed:           seed,
			InvalidInput:   "reprompt",
		},
		RunFlags: RunFlags{
			NumRuns:   1,
			MaxSteps:  100000,
			Pacing:    200 * time.Millisecond,
			DumpEvery: 5,
		},
		SavePath:    "results",
		LogLevel:    logLevel,
		Parallelism: 4,
	}
}

// AddFlags binds the flags to the fields of f, using the current values as defaults
func AddFlags(fs *pflag.FlagSet, f *Flags) {
	fs.StringVar(&f.SavePath, "save-path", f.SavePath, "Path to save results")
	fs.StringVar(&f.LogLevel, "log-level", f.LogLevel, "Log level (trace, debug, info, warn, error)")
	fs.IntVar(&f.Parallelism, "parallelism", f.Parallelism, "Number of parallel experiments")
	fs.BoolVar(&f.Debug, "debug", f.Debug, "Record episode traces")

	fs.IntVar(&f.Length, "board-length", f.Length, "Number of cells on the board")
	fs.IntSliceVar(&f.Pits, "pit", f.Pits, "Indices of pit tiles")
	fs.IntSliceVar(&f.Cheeses, "cheese", f.Cheeses, "Indices of cheese tiles")
	fs.IntVar(&f.StartingPos, "start", f.StartingPos, "Starting position of the player")
	fs.StringVar(&f.Termination, "termination", f.Termination, "Termination policy (run-limit, score-bound)")
	fs.UintVar(&f.MaxRuns, "max-runs", f.MaxRuns, "Game ends once more episodes than this completed (run-limit)")
	fs.IntVar(&f.ScoreLower, "score-lower", f.ScoreLower, "Game ends at or below this score (score-bound)")
	fs.IntVar(&f.ScoreUpper, "score-upper", f.ScoreUpper, "Game ends at or above this score (score-bound)")

	fs.Float32Var(&f.LearningRate, "learning-rate", f.LearningRate, "Learning rate of the bot")
	fs.Float32Var(&f.DiscountFactor, "discount", f.DiscountFactor, "Discount factor of the bot")
	fs.StringVar(&f.Exploration, "exploration", f.Exploration, "Exploration of the bot (derived, constant)")
	fs.Float32Var(&f.Epsilon, "epsilon", f.Epsilon, "Exploration probability for constant exploration")
	fs.Uint64Var(&f.Seed, "seed", f.Seed, "Seed for the random sources of the agents")
	fs.StringVar(&f.InvalidInput, "invalid-input", f.InvalidInput, "What to do with unparsable input (reprompt, loss)")

	fs.IntVar(&f.NumRuns, "num-runs", f.NumRuns, "Number of runs")
	fs.IntVar(&f.MaxSteps, "max-steps", f.MaxSteps, "Maximum number of steps per experiment, 0 for no limit")
	fs.DurationVar(&f.Pacing, "pacing", f.Pacing, "Delay after every rendered bot step")
	fs.IntVar(&f.DumpEvery, "dump-every", f.DumpEvery, "Record the q table every this many episodes, 0 to disable")
	fs.BoolVar(&f.NoRender, "no-render", f.NoRender, "Show a status line instead of the board")
}

func (f *Flags) TerminationPolicy() (core.TerminationPolicy, error) {
	return core.ParseTermination(f.Termination, f.MaxRuns, f.ScoreLower, f.ScoreUpper)
}

func (f *Flags) GameConfig() (*core.GameConfig, error) {
	termination, err := f.TerminationPolicy()
	if err != nil {
		return nil, err
	}
	return &core.GameConfig{
		Length:      f.Length,
		Pits:        f.Pits,
		Cheeses:     f.Cheeses,
		StartingPos: f.StartingPos,
		Termination: termination,
	}, nil
}

func (f *Flags) ExplorationPolicy() (policies.Exploration, error) {
	return policies.ParseExploration(f.Exploration, f.Epsilon)
}

func (f *Flags) InvalidInputPolicy() (policies.InvalidInputPolicy, error) {
	return policies.ParseInvalidInputPolicy(f.InvalidInput)
}

// Validate checks the flags that do not depend on a command
func (f *Flags) Validate() error {
	if _, err := f.TerminationPolicy(); err != nil {
		return err
	}
	if _, err := f.ExplorationPolicy(); err != nil {
		return err
	}
	if _, err := f.InvalidInputPolicy(); err != nil {
		return err
	}
	if f.LearningRate <= 0 || f.LearningRate > 1 {
		return fmt.Errorf("learning rate %f outside (0,1]", f.LearningRate)
	}
	if f.DiscountFactor < 0 || f.DiscountFactor > 1 {
		return fmt.Errorf("discount factor %f outside [0,1]", f.DiscountFactor)
	}
	return nil
}

func (f *Flags) Record() error {
	return util.SaveJson(path.Join(f.SavePath, "config.json"), f)
}
