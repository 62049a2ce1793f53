package common

import (
	"os"
	"path"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/zeu5/cheese-rl/core"
	"github.com/zeu5/cheese-rl/policies"
)

func parse(t *testing.T, args ...string) *Flags {
	t.Helper()
	f := DefaultFlags()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	AddFlags(fs, f)
	require.NoError(t, fs.Parse(args))
	return f
}

func TestDefaultFlags(t *testing.T) {
	t.Setenv("CHEESE_SEED", "42")
	t.Setenv("LOG_LEVEL", "debug")
	f := parse(t)

	require.NoError(t, f.Validate())
	require.Equal(t, uint64(42), f.Seed)
	require.Equal(t, "debug", f.LogLevel)

	config, err := f.GameConfig()
	require.NoError(t, err)
	require.Equal(t, core.DefaultGameConfig(), config)

	exploration, err := f.ExplorationPolicy()
	require.NoError(t, err)
	require.Equal(t, policies.DerivedExploration{}, exploration)
}

func TestFlagsOverride(t *testing.T) {
	f := parse(t,
		"--board-length", "8",
		"--pit", "0,7",
		"--cheese", "4",
		"--start", "2",
		"--termination", "score-bound",
		"--score-lower", "-3",
		"--score-upper", "3",
		"--exploration", "constant",
		"--epsilon", "0.05",
		"--invalid-input", "loss",
	)
	require.NoError(t, f.Validate())

	config, err := f.GameConfig()
	require.NoError(t, err)
	require.Equal(t, []int{0, 7}, config.Pits)
	require.Equal(t, core.ScoreBound{Lower: -3, Upper: 3}, config.Termination)
	g, err := config.NewGame()
	require.NoError(t, err)
	require.Equal(t, 2, g.PlayerPos())

	exploration, err := f.ExplorationPolicy()
	require.NoError(t, err)
	require.Equal(t, policies.ConstantExploration{Value: 0.05}, exploration)

	invalid, err := f.InvalidInputPolicy()
	require.NoError(t, err)
	require.Equal(t, policies.TreatAsLoss, invalid)
}

func TestValidate(t *testing.T) {
	cases := map[string][]string{
		"termination":   {"--termination", "never"},
		"exploration":   {"--exploration", "softmax"},
		"invalid input": {"--invalid-input", "ignore"},
		"learning rate": {"--learning-rate", "0"},
		"discount":      {"--discount", "1.5"},
	}
	for name, args := range cases {
		t.Run(name, func(t *testing.T) {
			require.Error(t, parse(t, args...).Validate())
		})
	}
}

func TestRecord(t *testing.T) {
	f := parse(t, "--save-path", path.Join(t.TempDir(), "out"))
	require.NoError(t, f.Record())
	_, err := os.Stat(path.Join(f.SavePath, "config.json"))
	require.NoError(t, err)
}
