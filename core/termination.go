package core

import (
	"errors"
	"fmt"
)

var ErrUnknownTermination = errors.New("unknown termination policy")

// TerminationPolicy decides when the whole game (not a single episode) is over.
// A quit always ends the game regardless of the policy.
type TerminationPolicy interface {
	Over(score int, runs uint) bool
	String() string
}

// RunLimit ends the game once more than MaxRuns episodes completed
type RunLimit struct {
	MaxRuns uint
}

var _ TerminationPolicy = RunLimit{}

func (r RunLimit) Over(_ int, runs uint) bool {
	return runs > r.MaxRuns
}

func (r RunLimit) String() string {
	return fmt.Sprintf("run-limit(%d)", r.MaxRuns)
}

// ScoreBound ends the game once the score reaches either bound
type ScoreBound struct {
	Lower int
	Upper int
}

var _ TerminationPolicy = ScoreBound{}

func (s ScoreBound) Over(score int, _ uint) bool {
	return score <= s.Lower || score >= s.Upper
}

func (s ScoreBound) String() string {
	return fmt.Sprintf("score-bound(%d,%d)", s.Lower, s.Upper)
}

const (
	DefaultMaxRuns    uint = 20
	DefaultScoreLower      = -5
	DefaultScoreUpper      = 5
)

func DefaultTermination() TerminationPolicy {
	return RunLimit{MaxRuns: DefaultMaxRuns}
}

// ParseTermination maps a configuration name to a policy
func ParseTermination(name string, maxRuns uint, lower, upper int) (TerminationPolicy, error) {
	switch name {
	case "run-limit", "runs":
		return RunLimit{MaxRuns: maxRuns}, nil
	case "score-bound", "score":
		if lower >= upper {
			return nil, fmt.Errorf("score bounds [%d, %d] are empty", lower, upper)
		}
		return ScoreBound{Lower: lower, Upper: upper}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownTermination, name)
}
