package policies

import (
	"fmt"

	"github.com/rs/zerolog/log"
	erand "golang.org/x/exp/rand"

	"github.com/zeu5/cheese-rl/core"
)

const (
	DefaultLearningRate   float32 = 0.2
	DefaultDiscountFactor float32 = 0.9
)

type BotOption func(b *QLearningBot)

func WithLearningRate(alpha float32) BotOption {
	return func(b *QLearningBot) {
		b.learningRate = alpha
	}
}

func WithDiscountFactor(gamma float32) BotOption {
	return func(b *QLearningBot) {
		b.discountFactor = gamma
	}
}

func WithExploration(e Exploration) BotOption {
	return func(b *QLearningBot) {
		if e != nil {
			b.exploration = e
		}
	}
}

// QLearningBot is an epsilon-greedy tabular Q-learning agent
type QLearningBot struct {
	qTable         *QTable
	learningRate   float32
	discountFactor float32

	exploration      Exploration
	explorationParam float32

	rand *erand.Rand
}

var _ core.Agent = &QLearningBot{}

// NewQLearningBot sizes the table to the board of the game. The random
// source is owned by the bot from here on.
func NewQLearningBot(game *core.Game, rand *erand.Rand, options ...BotOption) *QLearningBot {
	b := &QLearningBot{
		learningRate:     DefaultLearningRate,
		discountFactor:   DefaultDiscountFactor,
		exploration:      DerivedExploration{},
		explorationParam: 1,
		rand:             rand,
	}
	for _, option := range options {
		option(b)
	}
	if b.learningRate <= 0 || b.learningRate > 1 {
		panic(fmt.Sprintf("learning rate %f outside (0,1]", b.learningRate))
	}
	if b.discountFactor < 0 || b.discountFactor > 1 {
		panic(fmt.Sprintf("discount factor %f outside [0,1]", b.discountFactor))
	}
	b.qTable = NewQTable(game.World().Len(), rand)
	return b
}

func (b *QLearningBot) Table() *QTable {
	return b.qTable
}

func (b *QLearningBot) Values() [][2]float32 {
	return b.qTable.Values()
}

// ExplorationParam is the epsilon used for the most recent action
func (b *QLearningBot) ExplorationParam() float32 {
	return b.explorationParam
}

func (b *QLearningBot) Act(game *core.Game) error {
	action := b.pickAction(game.PlayerPos(), game.Runs())

	oldScore := game.Score()
	oldPos := game.PlayerPos()
	game.Update(action)
	reward := float32(game.Score() - oldScore)

	// After a pit or cheese the game has already reset, so the new position
	// is the starting cell.
	b.update(oldPos, game.PlayerPos(), action, reward)
	return nil
}

// pickAction draws the exploration roll first and, only when exploring,
// the random action index.
func (b *QLearningBot) pickAction(pos int, runs uint) core.Action {
	b.explorationParam = b.exploration.Epsilon(runs)
	if b.rand.Float32() < b.explorationParam {
		return ActionList[b.rand.Intn(len(ActionList))]
	}
	best, _ := b.qTable.Max(pos)
	return best
}

func (b *QLearningBot) update(oldPos, newPos int, action core.Action, reward float32) {
	cur := b.qTable.Get(oldPos, action)
	_, bestNext := b.qTable.Max(newPos)
	next := tdUpdate(cur, reward, bestNext, b.learningRate, b.discountFactor)
	b.qTable.Set(oldPos, action, next)

	log.Trace().
		Int("pos", oldPos).
		Str("action", action.String()).
		Float32("reward", reward).
		Float32("old", cur).
		Float32("new", next).
		Msg("q update")
}

// tdUpdate blends the old estimate with the one step target
func tdUpdate(cur, reward, bestNext, alpha, gamma float32) float32 {
	return (1-alpha)*cur + alpha*(reward+gamma*bestNext)
}

type QLearningBotConstructor struct {
	alpha       float32
	gamma       float32
	exploration Exploration
	seed        uint64
}

var _ core.AgentConstructor = &QLearningBotConstructor{}

func NewQLearningBotConstructor(alpha, gamma float32, exploration Exploration, seed uint64) *QLearningBotConstructor {
	return &QLearningBotConstructor{
		alpha:       alpha,
		gamma:       gamma,
		exploration: exploration,
		seed:        seed,
	}
}

func (c *QLearningBotConstructor) NewAgent(game *core.Game, instance int) core.Agent {
	return NewQLearningBot(
		game,
		erand.New(erand.NewSource(c.seed+uint64(instance))),
		WithLearningRate(c.alpha),
		WithDiscountFactor(c.gamma),
		WithExploration(c.exploration),
	)
}
