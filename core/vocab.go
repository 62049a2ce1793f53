package core

import "fmt"

// Tile is the content of a single board cell
type Tile int

const (
	Empty Tile = iota
	Player
	Pit
	Cheese
)

func (t Tile) String() string {
	switch t {
	case Empty:
		return "Empty"
	case Player:
		return "Player"
	case Pit:
		return "Pit"
	case Cheese:
		return "Cheese"
	}
	return fmt.Sprintf("Tile(%d)", int(t))
}

// Symbol is the single character used when drawing the board
func (t Tile) Symbol() string {
	switch t {
	case Empty:
		return "="
	case Player:
		return "P"
	case Pit:
		return "O"
	case Cheese:
		return "C"
	}
	return "?"
}

type Action int

const (
	Left Action = iota
	Right
	Quit
	// Invalid marks external input that could not be parsed.
	// Learning agents never choose it.
	Invalid
)

func (a Action) String() string {
	switch a {
	case Left:
		return "Left"
	case Right:
		return "Right"
	case Quit:
		return "Quit"
	case Invalid:
		return "Invalid"
	}
	return fmt.Sprintf("Action(%d)", int(a))
}

func (a Action) Hash() string {
	return a.String()
}

// MoveResult describes the effect of one Game.Update call
type MoveResult int

const (
	NextRound MoveResult = iota
	Win
	Loss
	QuitResult
)

func (r MoveResult) String() string {
	switch r {
	case NextRound:
		return "NextRound"
	case Win:
		return "Win"
	case Loss:
		return "Loss"
	case QuitResult:
		return "Quit"
	}
	return fmt.Sprintf("MoveResult(%d)", int(r))
}

// Transition records a single Update call on the game
type Transition struct {
	Action     Action
	From       int
	To         int
	Result     MoveResult
	ScoreDelta int
	// Boundary is set when the move was rejected at the edge of the board
	Boundary bool
	// EpisodeEnded is set when the player landed on a Pit or Cheese tile
	// and the board was reset
	EpisodeEnded bool
}
