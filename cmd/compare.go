package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/zeu5/cheese-rl/analysis"
	"github.com/zeu5/cheese-rl/core"
	"github.com/zeu5/cheese-rl/policies"
)

func CompareCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "compare",
		Short: "Compare exploration strategies against a random baseline",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, done := interruptContext()
			defer done()

			gameConfig, err := flags.GameConfig()
			if err != nil {
				return err
			}
			// fail early on a bad board, every worker builds its own copy
			if _, err := gameConfig.NewGame(); err != nil {
				return err
			}

			cmp := core.NewParallelComparison()
			cmp.AddAnalysis("Outcomes", analysis.NewOutcomeAnalyzerConstructor(), analysis.NewOutcomeComparatorConstructor(flags.SavePath))
			if flags.DumpEvery > 0 {
				cmp.AddAnalysis("QTables", analysis.NewQTableAnalyzerConstructor(flags.SavePath, flags.DumpEvery), analysis.NewNoOpComparatorConstructor())
			}
			if flags.Debug {
				cmp.AddAnalysis("Events", analysis.NewEventAnalyzerConstructor(flags.SavePath, analysis.BoundaryHit(), analysis.LongEpisode(4*flags.Length)), analysis.NewNoOpComparatorConstructor())
				cmp.AddAnalysis("Debug", analysis.NewPrintDebugAnalyzerConstructor(flags.SavePath, int(flags.MaxRuns)-2), analysis.NewNoOpComparatorConstructor())
			}

			cmp.AddExperiment(&core.ExperimentConfig{
				Name:  "Derived",
				Game:  gameConfig,
				Agent: policies.NewQLearningBotConstructor(flags.LearningRate, flags.DiscountFactor, policies.DerivedExploration{}, flags.Seed),
			})
			cmp.AddExperiment(&core.ExperimentConfig{
				Name:  "Constant",
				Game:  gameConfig,
				Agent: policies.NewQLearningBotConstructor(flags.LearningRate, flags.DiscountFactor, policies.ConstantExploration{Value: flags.Epsilon}, flags.Seed),
			})
			cmp.AddExperiment(&core.ExperimentConfig{
				Name:  "Greedy",
				Game:  gameConfig,
				Agent: policies.NewQLearningBotConstructor(flags.LearningRate, flags.DiscountFactor, policies.ConstantExploration{Value: 0}, flags.Seed),
			})
			cmp.AddExperiment(&core.ExperimentConfig{
				Name:  "Random",
				Game:  gameConfig,
				Agent: &policies.RandomPolicyConstructor{Seed: flags.Seed},
			})

			cmp.Run(ctx, flags.NumRuns, &core.RunConfig{
				MaxSteps: flags.MaxSteps,
				Progress: os.Stdout,
			}, flags.Parallelism)
			return nil
		},
	}
}
