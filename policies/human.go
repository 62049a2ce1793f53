package policies

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/zeu5/cheese-rl/core"
)

var ErrUnknownInvalidInputPolicy = errors.New("unknown invalid input policy")

// InvalidInputPolicy decides what a human agent does with a line it cannot parse
type InvalidInputPolicy int

const (
	// Reprompt asks again until a valid action is typed
	Reprompt InvalidInputPolicy = iota
	// TreatAsLoss passes the invalid action on to the game, which scores it as a loss
	TreatAsLoss
)

func (p InvalidInputPolicy) String() string {
	if p == TreatAsLoss {
		return "loss"
	}
	return "reprompt"
}

func ParseInvalidInputPolicy(name string) (InvalidInputPolicy, error) {
	switch name {
	case "reprompt":
		return Reprompt, nil
	case "loss", "treat-as-loss":
		return TreatAsLoss, nil
	}
	return Reprompt, fmt.Errorf("%w: %q", ErrUnknownInvalidInputPolicy, name)
}

const prompt = "Type 'A' to move left, 'D' to move right, 'Q' to quit, and then press 'Enter'."

// ParseAction maps a line of input to an action by its first character
func ParseAction(line string) core.Action {
	line = strings.ToLower(line)
	switch {
	case strings.HasPrefix(line, "a"):
		return core.Left
	case strings.HasPrefix(line, "d"):
		return core.Right
	case strings.HasPrefix(line, "q"):
		return core.Quit
	}
	return core.Invalid
}

// Human reads one action per line from the input
type Human struct {
	in      *bufio.Reader
	out     io.Writer
	invalid InvalidInputPolicy
}

var _ core.Agent = &Human{}

func NewHuman(in io.Reader, out io.Writer, invalid InvalidInputPolicy) *Human {
	return &Human{
		in:      bufio.NewReader(in),
		out:     out,
		invalid: invalid,
	}
}

func (h *Human) Act(game *core.Game) error {
	for {
		fmt.Fprintln(h.out, prompt)
		line, err := h.in.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return fmt.Errorf("reading input: %w", err)
		}
		action := ParseAction(line)
		if action == core.Invalid && h.invalid == Reprompt {
			continue
		}
		game.Update(action)
		return nil
	}
}
