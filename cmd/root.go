package cmd

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/zeu5/cheese-rl/cmd/common"
	"github.com/zeu5/cheese-rl/render"
)

func RootCommand() *cobra.Command {
	flags = common.DefaultFlags()
	cmd := &cobra.Command{
		Use:          "cheese",
		Short:        "Q-learning on a one dimensional board",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			setupLogging(flags.LogLevel)
			if err := flags.Validate(); err != nil {
				return err
			}
			return flags.Record()
		},
	}
	common.AddFlags(cmd.PersistentFlags(), flags)

	cmd.AddCommand(
		PlayCommand(),
		TrainCommand(),
		CompareCommand(),
	)

	return cmd
}

func setupLogging(level string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		log.Warn().Str("level", level).Msg("unknown log level, using info")
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	if render.ColorEnabled(os.Stderr) {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}
