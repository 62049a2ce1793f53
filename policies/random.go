package policies

import (
	"fmt"

	erand "golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/sampleuv"

	"github.com/zeu5/cheese-rl/core"
)

// RandomPolicy moves left or right with equal probability. Used as a baseline.
type RandomPolicy struct {
	rand erand.Source
}

var _ core.Agent = &RandomPolicy{}

func NewRandomPolicy(src erand.Source) *RandomPolicy {
	return &RandomPolicy{
		rand: src,
	}
}

func (r *RandomPolicy) Act(game *core.Game) error {
	weights := make([]float64, len(ActionList))
	for i := range weights {
		weights[i] = 1
	}
	i, ok := sampleuv.NewWeighted(weights, r.rand).Take()
	if !ok {
		panic(fmt.Sprintf("no action sampled from %v", weights))
	}
	game.Update(ActionList[i])
	return nil
}

type RandomPolicyConstructor struct {
	Seed uint64
}

var _ core.AgentConstructor = &RandomPolicyConstructor{}

func (r *RandomPolicyConstructor) NewAgent(_ *core.Game, instance int) core.Agent {
	return NewRandomPolicy(erand.NewSource(r.Seed + uint64(instance)))
}
