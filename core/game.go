package core

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
)

// DefaultStartingPos is where the player spawns unless configured otherwise
const DefaultStartingPos = 5

var ErrInvalidStart = errors.New("invalid starting position")

type GameOption func(g *Game)

func WithStartingPos(pos int) GameOption {
	return func(g *Game) {
		g.startingPos = pos
	}
}

func WithTermination(policy TerminationPolicy) GameOption {
	return func(g *Game) {
		if policy != nil {
			g.termination = policy
		}
	}
}

// Game owns the board and the episode bookkeeping.
// Update is the only way to change it.
type Game struct {
	world       *WorldState
	score       int
	runs        uint
	playerPos   int
	startingPos int
	quit        bool
	termination TerminationPolicy

	last Transition
}

// NewGame places the player on the board and returns a running game.
// The game takes ownership of world.
func NewGame(world *WorldState, options ...GameOption) (*Game, error) {
	g := &Game{
		world:       world,
		startingPos: DefaultStartingPos,
		termination: DefaultTermination(),
	}
	for _, option := range options {
		option(g)
	}
	if g.startingPos < 0 || g.startingPos >= world.Len() {
		return nil, fmt.Errorf("%w: %d on a board of %d", ErrInvalidStart, g.startingPos, world.Len())
	}
	if t := world.At(g.startingPos); t != Empty && t != Player {
		return nil, fmt.Errorf("%w: %d holds %s", ErrInvalidStart, g.startingPos, t)
	}
	g.playerPos = g.startingPos
	world.set(g.playerPos, Player)
	return g, nil
}

func (g *Game) World() *WorldState {
	return g.world
}

func (g *Game) Score() int {
	return g.score
}

func (g *Game) Runs() uint {
	return g.runs
}

func (g *Game) PlayerPos() int {
	return g.playerPos
}

func (g *Game) StartingPos() int {
	return g.startingPos
}

// QuitRequested reports whether a Quit action was applied
func (g *Game) QuitRequested() bool {
	return g.quit
}

func (g *Game) Termination() TerminationPolicy {
	return g.termination
}

// Last returns the transition produced by the most recent Update
func (g *Game) Last() Transition {
	return g.last
}

// GameOver reports whether the driver should stop calling agents
func (g *Game) GameOver() bool {
	return g.quit || g.termination.Over(g.score, g.runs)
}

// Update applies an action and reports its effect.
//
// Moving off the board is a Loss that overwrites the score with -1 but does
// not count as a completed episode and does not reset the board. Landing on
// a pit is the only other way to lose.
func (g *Game) Update(action Action) MoveResult {
	oldScore := g.score
	g.last = Transition{Action: action, From: g.playerPos}

	var result MoveResult
	switch action {
	case Quit:
		g.quit = true
		result = QuitResult
	case Invalid:
		log.Debug().Msg("invalid action")
		result = Loss
	case Left, Right:
		next := g.playerPos - 1
		if action == Right {
			next = g.playerPos + 1
		}
		if next < 0 || next >= g.world.Len() {
			log.Debug().Int("pos", g.playerPos).Str("action", action.String()).Msg("player leaving board")
			g.score = -1
			g.last.Boundary = true
			result = Loss
			break
		}
		g.world.set(g.playerPos, Empty)
		g.playerPos = next
		result = g.evaluateNewPos()
	default:
		panic(fmt.Sprintf("unhandled action %v", action))
	}

	g.last.To = g.playerPos
	g.last.Result = result
	g.last.ScoreDelta = g.score - oldScore
	return result
}

func (g *Game) evaluateNewPos() MoveResult {
	switch tile := g.world.At(g.playerPos); tile {
	case Cheese:
		g.win()
		return Win
	case Pit:
		g.lose()
		return Loss
	case Empty:
		g.world.set(g.playerPos, Player)
		return NextRound
	default:
		panic(fmt.Sprintf("unhandled tile type %v at %d", tile, g.playerPos))
	}
}

func (g *Game) win() {
	g.score += 1
	g.runs += 1
	g.reset()
	g.last.EpisodeEnded = true
	log.Debug().Int("score", g.score).Uint("runs", g.runs).Msg("you won")
}

func (g *Game) lose() {
	g.score -= 1
	g.runs += 1
	g.reset()
	g.last.EpisodeEnded = true
	log.Debug().Int("score", g.score).Uint("runs", g.runs).Msg("you lost")
}

// reset puts the player back on the starting cell. Pits and cheeses stay.
func (g *Game) reset() {
	g.world.set(g.startingPos, Player)
	g.playerPos = g.startingPos
}

func (g *Game) String() string {
	return fmt.Sprintf("#%s# | Score: %d | Run: %d", g.world, g.score, g.runs)
}
