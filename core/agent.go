package core

// Agent picks one action per call and applies it through Game.Update.
// Any learning happens inside the same call. A returned error is fatal for
// the run (for example, the input stream of a human player broke).
type Agent interface {
	Act(*Game) error
}

type AgentConstructor interface {
	// NewAgent creates an agent for the given game and instance number
	NewAgent(*Game, int) Agent
}

// AgentFunc adapts a function to the Agent interface
type AgentFunc func(*Game) error

func (f AgentFunc) Act(g *Game) error {
	return f(g)
}
