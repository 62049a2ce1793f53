package cmd

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	erand "golang.org/x/exp/rand"

	"github.com/zeu5/cheese-rl/analysis"
	"github.com/zeu5/cheese-rl/core"
	"github.com/zeu5/cheese-rl/policies"
	"github.com/zeu5/cheese-rl/render"
	"github.com/zeu5/cheese-rl/util"
)

func TrainCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "train",
		Short: "Let a Q-learning bot play a single game",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, done := interruptContext()
			defer done()

			gameConfig, err := flags.GameConfig()
			if err != nil {
				return err
			}
			game, err := gameConfig.NewGame()
			if err != nil {
				return err
			}
			exploration, err := flags.ExplorationPolicy()
			if err != nil {
				return err
			}

			bot := policies.NewQLearningBot(
				game,
				erand.New(erand.NewSource(flags.Seed)),
				policies.WithLearningRate(flags.LearningRate),
				policies.WithDiscountFactor(flags.DiscountFactor),
				policies.WithExploration(exploration),
			)
			exp := &core.Experiment{
				Name:  "qlearning",
				Game:  game,
				Agent: bot,
			}

			printer := render.NewPrinter(os.Stdout, render.ColorEnabled(os.Stdout))
			rConfig := &core.RunConfig{MaxSteps: flags.MaxSteps}
			if flags.NoRender {
				status := util.NewTerminalPrinter(os.Stdout, 100*time.Millisecond)
				line := status.NewOutput()
				exp.Observers = append(exp.Observers, core.ObserverFunc(func(g *core.Game, _ core.Transition) {
					line.Set(fmt.Sprintf("Score: %d | Run: %d | Epsilon: %.3f", g.Score(), g.Runs(), bot.ExplorationParam()))
				}))
				status.Start(ctx)
				defer status.Stop()
			} else {
				printer.Board(game)
				exp.Observers = append(exp.Observers, printer)
				rConfig.Pacing = flags.Pacing
			}

			analyzers := map[string]core.Analyzer{
				"Outcomes": analysis.NewOutcomeAnalyzer(),
			}
			if flags.DumpEvery > 0 {
				analyzers["QTables"] = analysis.NewQTableAnalyzer(flags.SavePath, exp.Name, 0, flags.DumpEvery)
			}
			if flags.Debug {
				analyzers["Events"] = analysis.NewEventAnalyzer(flags.SavePath, exp.Name, analysis.BoundaryHit(), analysis.LongEpisode(4*game.World().Len()))
				analyzers["Debug"] = analysis.NewPrintDebugAnalyzer(flags.SavePath, exp.Name, 0)
			}

			result := exp.Run(ctx, rConfig, analyzers)
			if result.Error != nil && !errors.Is(result.Error, core.ErrCancelled) && !errors.Is(result.Error, core.ErrStepLimit) {
				return result.Error
			}

			analysis.NewOutcomeComparator(flags.SavePath).Compare(
				[]string{exp.Name},
				[]core.DataSet{result.Datasets["Outcomes"]},
			)
			if err := bot.Table().Record(fmt.Sprintf("%s/final_qtable.jsonl", flags.SavePath)); err != nil {
				log.Error().Err(err).Msg("failed to record final q table")
			}
			if !flags.NoRender {
				printer.QTable(bot.Values())
			}
			log.Info().
				Int("episodes", result.CompletedEpisodes).
				Int("wins", result.Wins).
				Int("losses", result.Losses).
				Int("boundary", result.BoundaryLosses).
				Int("score", result.FinalScore).
				Msg("training finished")
			return nil
		},
	}
}
