package engine

import (
	"mcts/experiments/metrics"
	"mcts/game"
)

const MaxMoves = 10000

type Runner interface {
	// Run plays a game till it ends or a max number of moves is reached.
	// The result is undefined (ok == false) when the game did not end.
	Run() (result game.Result, ok bool, gameMetric metrics.GameMetric, moveMetrics []metrics.MoveMetric, err error)
}
