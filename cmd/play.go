package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/zeu5/cheese-rl/analysis"
	"github.com/zeu5/cheese-rl/core"
	"github.com/zeu5/cheese-rl/policies"
	"github.com/zeu5/cheese-rl/render"
)

func PlayCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "play",
		Short: "Play the game from the keyboard",
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
			invalid, err := flags.InvalidInputPolicy()
			if err != nil {
				return err
			}

			printer := render.NewPrinter(os.Stdout, render.ColorEnabled(os.Stdout))
			printer.Board(game)
			exp := &core.Experiment{
				Name:      "human",
				Game:      game,
				Agent:     policies.NewHuman(os.Stdin, os.Stdout, invalid),
				Observers: []core.Observer{printer},
			}
			result := exp.Run(ctx, &core.RunConfig{MaxSteps: flags.MaxSteps}, map[string]core.Analyzer{
				"Outcomes": analysis.NewOutcomeAnalyzer(),
			})
			if result.Error != nil && !errors.Is(result.Error, core.ErrCancelled) {
				return result.Error
			}

			fmt.Fprintf(os.Stdout, "Episodes: %d, Wins: %d, Losses: %d, Score: %d\n",
				result.CompletedEpisodes, result.Wins, result.Losses, result.FinalScore)
			log.Info().Int("episodes", result.CompletedEpisodes).Int("score", result.FinalScore).Msg("game over")
			return nil
		},
	}
}
