package core

import "sync"

type Step struct {
	Transition

	// Score and Runs after the transition
	Score int
	Runs  uint
	// Board after the transition
	Board []Tile
}

type Trace struct {
	mtx   *sync.Mutex
	steps []*Step
}

func NewTrace() *Trace {
	return &Trace{
		steps: make([]*Step, 0),
		mtx:   &sync.Mutex{},
	}
}

func (t *Trace) AddStep(s *Step) {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	t.steps = append(t.steps, s)
}

func (t *Trace) Step(i int) *Step {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	return t.steps[i]
}

func (t *Trace) Len() int {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	return len(t.steps)
}

func (t *Trace) Last() *Step {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	if len(t.steps) == 0 {
		return nil
	}
	return t.steps[len(t.steps)-1]
}

// Outcome is the result of the episode: Win or Loss for complete episodes,
// the last move result otherwise
func (t *Trace) Outcome() MoveResult {
	last := t.Last()
	if last == nil {
		return NextRound
	}
	return last.Result
}

// BoundaryHits counts the moves rejected at the edge of the board
func (t *Trace) BoundaryHits() int {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	hits := 0
	for _, s := range t.steps {
		if s.Boundary {
			hits++
		}
	}
	return hits
}
