// Package render draws the game for a terminal. Nothing here feeds back into
// the game state.
package render

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/logrusorgru/aurora"
	"github.com/mattn/go-isatty"

	"github.com/zeu5/cheese-rl/core"
)

// ColorEnabled reports whether f is a terminal that can show colours
func ColorEnabled(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Line is the plain one line snapshot of a board with the counters
func Line(tiles []core.Tile, score int, runs uint) string {
	b := new(strings.Builder)
	b.WriteString("#")
	for _, t := range tiles {
		b.WriteString(t.Symbol())
	}
	fmt.Fprintf(b, "# | Score: %d | Run: %d", score, runs)
	return b.String()
}

type Printer struct {
	out io.Writer
	au  aurora.Aurora
}

var _ core.Observer = &Printer{}

func NewPrinter(out io.Writer, color bool) *Printer {
	return &Printer{
		out: out,
		au:  aurora.NewAurora(color),
	}
}

func (p *Printer) tile(t core.Tile) aurora.Value {
	switch t {
	case core.Player:
		return p.au.Bold(p.au.Cyan(t.Symbol()))
	case core.Pit:
		return p.au.Red(t.Symbol())
	case core.Cheese:
		return p.au.Yellow(t.Symbol())
	}
	return p.au.Faint(t.Symbol())
}

// Board prints the current state of the game
func (p *Printer) Board(g *core.Game) {
	b := new(strings.Builder)
	b.WriteString("#")
	for _, t := range g.World().Tiles() {
		fmt.Fprint(b, p.tile(t))
	}
	fmt.Fprintf(b, "# | Score: %d | Run: %d", g.Score(), g.Runs())
	fmt.Fprintln(p.out, b.String())
}

// Observe prints the messages for a transition followed by the new board
func (p *Printer) Observe(g *core.Game, t core.Transition) {
	switch {
	case t.Action == core.Invalid:
		fmt.Fprintln(p.out, p.au.Magenta("Invalid action"))
	case t.Boundary:
		fmt.Fprintln(p.out, p.au.Magenta("Player leaving board"))
	case t.EpisodeEnded && t.Result == core.Win:
		fmt.Fprintln(p.out, p.au.Green("You won!"))
	case t.EpisodeEnded && t.Result == core.Loss:
		fmt.Fprintln(p.out, p.au.Red("You lost."))
	}
	if t.Result == core.QuitResult {
		return
	}
	p.Board(g)
}

// QTable prints one row per position with the Left and Right estimates
func (p *Printer) QTable(values [][2]float32) {
	for pos, row := range values {
		fmt.Fprintf(p.out, "%3d | %s | %s\n", pos, formatValue(row[0]), formatValue(row[1]))
	}
}

func formatValue(x float32) string {
	if x < 0 {
		return "-" + fmt.Sprintf("%06.3f", -x)
	}
	return " " + fmt.Sprintf("%06.3f", x)
}
