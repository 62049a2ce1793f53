package analysis

import (
	"fmt"
	"os"
	"path"

	"github.com/rs/zerolog/log"

	"github.com/zeu5/cheese-rl/core"
)

// EventSpec names a condition on an episode trace worth keeping on disk
type EventSpec struct {
	Name  string
	Check func(*core.Trace) bool
}

// BoundaryHit matches episodes where the player tried to leave the board
func BoundaryHit() EventSpec {
	return EventSpec{
		Name: "boundary",
		Check: func(t *core.Trace) bool {
			return t.BoundaryHits() > 0
		},
	}
}

// InvalidInput matches episodes that contain an invalid action
func InvalidInput() EventSpec {
	return EventSpec{
		Name: "invalid",
		Check: func(t *core.Trace) bool {
			for i := 0; i < t.Len(); i++ {
				if t.Step(i).Action == core.Invalid {
					return true
				}
			}
			return false
		},
	}
}

// LongEpisode matches episodes that took more than steps moves
func LongEpisode(steps int) EventSpec {
	return EventSpec{
		Name: fmt.Sprintf("long%d", steps),
		Check: func(t *core.Trace) bool {
			return t.Len() > steps
		},
	}
}

// EventAnalyzer writes the trace of every episode matching one of its events
type EventAnalyzer struct {
	events   []EventSpec
	savePath string
	exp      string
	counts   map[string]int
}

var _ core.Analyzer = &EventAnalyzer{}

func NewEventAnalyzer(savePath, exp string, events ...EventSpec) *EventAnalyzer {
	dir := path.Join(savePath, "events")
	if err := os.MkdirAll(dir, 0755); err != nil {
		log.Error().Err(err).Str("path", dir).Msg("failed to create events directory")
	}
	return &EventAnalyzer{
		events:   events,
		savePath: dir,
		exp:      exp,
		counts:   make(map[string]int),
	}
}

func (ea *EventAnalyzer) Analyze(eCtx *core.EpisodeContext, trace *core.Trace) {
	for _, event := range ea.events {
		if !event.Check(trace) {
			continue
		}
		ea.counts[event.Name]++
		fileName := fmt.Sprintf("%d_%s_%d.txt", eCtx.Run, event.Name, eCtx.Episode)
		if ea.exp != "" {
			fileName = fmt.Sprintf("%d_%s_%s_%d.txt", eCtx.Run, ea.exp, event.Name, eCtx.Episode)
		}
		if err := os.WriteFile(path.Join(ea.savePath, fileName), []byte(traceToString(trace)), 0644); err != nil {
			log.Error().Err(err).Str("file", fileName).Msg("failed to write event trace")
		}
	}
}

// DataSet returns the number of matching episodes per event name
func (ea *EventAnalyzer) DataSet() core.DataSet {
	out := make(map[string]int, len(ea.counts))
	for k, v := range ea.counts {
		out[k] = v
	}
	return out
}

func (ea *EventAnalyzer) Reset() {
	ea.counts = make(map[string]int)
}

type EventAnalyzerConstructor struct {
	SavePath string
	Events   []EventSpec
}

var _ core.AnalyzerConstructor = &EventAnalyzerConstructor{}

func NewEventAnalyzerConstructor(savePath string, events ...EventSpec) *EventAnalyzerConstructor {
	return &EventAnalyzerConstructor{
		SavePath: savePath,
		Events:   events,
	}
}

func (e *EventAnalyzerConstructor) NewAnalyzer(exp string, _ int) core.Analyzer {
	return NewEventAnalyzer(e.SavePath, exp, e.Events...)
}
