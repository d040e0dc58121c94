package agent

import (
	"mcts/experiments/metrics"
	"mcts/game"
)

type Agent interface {
	// Reset starts a new game from state.
	Reset(state game.State)
	// FindMove returns the action to play in state and search metrics (if collected).
	FindMove(state game.State) (game.Action, metrics.SearchMetric, error)
	// Observe advances the agent past an action played by either side.
	Observe(action game.Action) error
}
