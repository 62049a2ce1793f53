package policies

import (
	"errors"
	"fmt"
)

var ErrUnknownExploration = errors.New("unknown exploration")

// Exploration gives the probability of picking a random action
type Exploration interface {
	Epsilon(runs uint) float32
	String() string
}

// DerivedExploration decays with the number of completed episodes: 1/runs.
// Before the first episode completes every move is exploratory.
type DerivedExploration struct{}

var _ Exploration = DerivedExploration{}

func (DerivedExploration) Epsilon(runs uint) float32 {
	if runs == 0 {
		return 1
	}
	return 1 / float32(runs)
}

func (DerivedExploration) String() string {
	return "derived"
}

// ConstantExploration uses the same probability throughout
type ConstantExploration struct {
	Value float32
}

var _ Exploration = ConstantExploration{}

func (c ConstantExploration) Epsilon(_ uint) float32 {
	return c.Value
}

func (c ConstantExploration) String() string {
	return fmt.Sprintf("constant(%.3f)", c.Value)
}

func ParseExploration(name string, epsilon float32) (Exploration, error) {
	switch name {
	case "derived":
		return DerivedExploration{}, nil
	case "constant":
		if epsilon < 0 || epsilon > 1 {
			return nil, fmt.Errorf("epsilon %f outside [0,1]", epsilon)
		}
		return ConstantExploration{Value: epsilon}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownExploration, name)
}
