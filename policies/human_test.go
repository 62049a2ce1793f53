package policies

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zeu5/cheese-rl/core"
)

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("terminal closed")
}

func TestParseAction(t *testing.T) {
	cases := map[string]core.Action{
		"a\n":     core.Left,
		"A\n":     core.Left,
		"dance\n": core.Right,
		"D":       core.Right,
		"q\n":     core.Quit,
		"Quit\n":  core.Quit,
		"x\n":     core.Invalid,
		"\n":      core.Invalid,
		" a\n":    core.Invalid,
	}
	for line, want := range cases {
		require.Equal(t, want, ParseAction(line), "line %q", line)
	}
}

func TestHuman(t *testing.T) {
	t.Run("applies the typed action", func(t *testing.T) {
		g := newGame(t)
		out := new(bytes.Buffer)
		h := NewHuman(strings.NewReader("d\n"), out, Reprompt)

		require.NoError(t, h.Act(g))
		require.Equal(t, 6, g.PlayerPos())
		require.Contains(t, out.String(), "Type 'A' to move left")
	})

	t.Run("reprompts on invalid input", func(t *testing.T) {
		g := newGame(t)
		out := new(bytes.Buffer)
		h := NewHuman(strings.NewReader("x\nhello\na\n"), out, Reprompt)

		require.NoError(t, h.Act(g))
		require.Equal(t, 4, g.PlayerPos())
		require.Equal(t, 3, strings.Count(out.String(), prompt))
	})

	t.Run("invalid input as a loss", func(t *testing.T) {
		g := newGame(t)
		h := NewHuman(strings.NewReader("x\n"), io.Discard, TreatAsLoss)

		require.NoError(t, h.Act(g))
		require.Equal(t, core.Invalid, g.Last().Action)
		require.Equal(t, core.Loss, g.Last().Result)
		require.Equal(t, 5, g.PlayerPos())
	})

	t.Run("quit", func(t *testing.T) {
		g := newGame(t)
		h := NewHuman(strings.NewReader("q\n"), io.Discard, Reprompt)

		require.NoError(t, h.Act(g))
		require.True(t, g.GameOver())
	})

	t.Run("last line without newline", func(t *testing.T) {
		g := newGame(t)
		h := NewHuman(strings.NewReader("a"), io.Discard, Reprompt)

		require.NoError(t, h.Act(g))
		require.Equal(t, 4, g.PlayerPos())
	})

	t.Run("end of input is an error", func(t *testing.T) {
		g := newGame(t)
		h := NewHuman(strings.NewReader(""), io.Discard, Reprompt)

		err := h.Act(g)
		require.ErrorIs(t, err, io.EOF)
		require.Equal(t, 5, g.PlayerPos())
	})

	t.Run("read errors are returned", func(t *testing.T) {
		h := NewHuman(failingReader{}, io.Discard, Reprompt)
		require.ErrorContains(t, h.Act(newGame(t)), "terminal closed")
	})
}

func TestParseInvalidInputPolicy(t *testing.T) {
	p, err := ParseInvalidInputPolicy("reprompt")
	require.NoError(t, err)
	require.Equal(t, Reprompt, p)

	p, err = ParseInvalidInputPolicy("loss")
	require.NoError(t, err)
	require.Equal(t, TreatAsLoss, p)

	_, err = ParseInvalidInputPolicy("ignore")
	require.ErrorIs(t, err, ErrUnknownInvalidInputPolicy)
}
