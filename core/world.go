package core

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrBoardTooShort       = errors.New("board needs at least two cells")
	ErrPlacementOutOfRange = errors.New("tile placement outside the board")
	ErrOverlappingTiles    = errors.New("cell holds both a pit and a cheese")
)

// WorldState is the board. Only Game mutates it.
type WorldState struct {
	tiles []Tile
}

// NewWorldState creates a board of the given length with pits and cheeses
// placed at the given indices. All other cells are empty.
func NewWorldState(length int, pits, cheeses []int) (*WorldState, error) {
	if length < 2 {
		return nil, fmt.Errorf("%w: length %d", ErrBoardTooShort, length)
	}
	tiles := make([]Tile, length)
	for _, p := range pits {
		if p < 0 || p >= length {
			return nil, fmt.Errorf("%w: pit at %d, length %d", ErrPlacementOutOfRange, p, length)
		}
		tiles[p] = Pit
	}
	for _, c := range cheeses {
		if c < 0 || c >= length {
			return nil, fmt.Errorf("%w: cheese at %d, length %d", ErrPlacementOutOfRange, c, length)
		}
		if tiles[c] == Pit {
			return nil, fmt.Errorf("%w: index %d", ErrOverlappingTiles, c)
		}
		tiles[c] = Cheese
	}
	return &WorldState{tiles: tiles}, nil
}

func (w *WorldState) Len() int {
	return len(w.tiles)
}

func (w *WorldState) At(i int) Tile {
	return w.tiles[i]
}

// Tiles returns a copy of the board
func (w *WorldState) Tiles() []Tile {
	out := make([]Tile, len(w.tiles))
	copy(out, w.tiles)
	return out
}

func (w *WorldState) set(i int, t Tile) {
	w.tiles[i] = t
}

func (w *WorldState) String() string {
	b := new(strings.Builder)
	for _, t := range w.tiles {
		b.WriteString(t.Symbol())
	}
	return b.String()
}
