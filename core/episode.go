package core

import "context"

// GameConstructor builds a fresh game for every experiment instance
type GameConstructor interface {
	NewGame() (*Game, error)
}

// GameConfig is the board construction input together with the game options
type GameConfig struct {
	Length      int
	Pits        []int
	Cheeses     []int
	StartingPos int
	Termination TerminationPolicy
}

var _ GameConstructor = &GameConfig{}

// DefaultGameConfig is the 16 cell board with a pit on the far left and a
// cheese near the right edge
func DefaultGameConfig() *GameConfig {
	return &GameConfig{
		Length:      16,
		Pits:        []int{0},
		Cheeses:     []int{14},
		StartingPos: DefaultStartingPos,
		Termination: DefaultTermination(),
	}
}

func (c *GameConfig) NewGame() (*Game, error) {
	world, err := NewWorldState(c.Length, c.Pits, c.Cheeses)
	if err != nil {
		return nil, err
	}
	return NewGame(world, WithStartingPos(c.StartingPos), WithTermination(c.Termination))
}

type EpisodeContext struct {
	Context       context.Context
	Episode       int
	Run           int
	StartTimeStep int
	// Complete is false for the trailing episode cut short by the end of the game
	Complete bool

	Game  *Game
	Agent Agent
	Trace *Trace
}

func NewEpisodeContext(ctx context.Context) *EpisodeContext {
	return &EpisodeContext{
		Context: ctx,
		Trace:   NewTrace(),
	}
}
