package agent

import (
	"github.com/rs/zerolog/log"

	"mcts/experiments/metrics"
	"mcts/game"
	"mcts/searcher"
)

// MCTSAgent plays with a search tree that it keeps for the whole game. The
// anchor is the node of the current position; after every move it descends
// into the child for the action played, so earlier search is reused.
type MCTSAgent struct {
	mcts          *searcher.MCTS
	iterations    int
	trainFromRoot bool
	root          *searcher.Node
	anchor        *searcher.Node
}

// NewMCTSAgent returns an agent training for iterations per move. With
// trainFromRoot the whole game tree is trained instead of the subtree of the
// current position.
func NewMCTSAgent(mcts *searcher.MCTS, iterations int, trainFromRoot bool) *MCTSAgent {
	if iterations <= 0 {
		panic("iterations must be positive")
	}
	return &MCTSAgent{
		mcts:          mcts,
		iterations:    iterations,
		trainFromRoot: trainFromRoot,
	}
}

func (a *MCTSAgent) Reset(state game.State) {
	a.root = searcher.NewNode(state)
	a.anchor = a.root
}

// Root is the node of the starting position, nil before the first game.
func (a *MCTSAgent) Root() *searcher.Node {
	return a.root
}

// Anchor is the node of the current position.
func (a *MCTSAgent) Anchor() *searcher.Node {
	return a.anchor
}

// FindMove searches from the anchor. A state that does not match the anchor
// means moves were missed; the tree is then dropped and search restarts from
// state.
func (a *MCTSAgent) FindMove(state game.State) (game.Action, metrics.SearchMetric, error) {
	if a.anchor == nil {
		a.Reset(state)
	} else if state.String() != a.anchor.State().String() {
		log.Warn().Msgf("tree is out of sync with the game, restarting search from\n%s", state)
		a.Reset(state)
	}

	from := a.anchor
	if a.trainFromRoot {
		from = a.root
	}
	metric, err := a.mcts.Search(from, a.iterations)
	if err != nil {
		return nil, metrics.SearchMetric{}, err
	}

	chosen, err := a.mcts.Choose(a.anchor)
	if err != nil {
		return nil, metrics.SearchMetric{}, err
	}
	if chosen.Detached() {
		log.Warn().Msgf("no trained child for the current position, playing random action %s", chosen.Action())
	}
	return chosen.Action(), metric, nil
}

func (a *MCTSAgent) Observe(action game.Action) error {
	if a.anchor == nil {
		return nil
	}
	next, err := a.mcts.Descend(a.anchor, action)
	if err != nil {
		return err
	}
	a.anchor = next
	return nil
}
