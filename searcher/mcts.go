package searcher

import (
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"

	"mcts/experiments/metrics"
	"mcts/game"
)

type Option func(mcts *MCTS)

// MCTS runs training iterations over caller owned trees. It keeps no tree of
// its own: the same engine may train any number of roots.
type MCTS struct {
	explore float64
	rng     *rand.Rand
	metrics metrics.Collector
}

func WithSeed(seed uint64) Option {
	return func(m *MCTS) {
		if seed > 0 {
			m.rng = rand.New(rand.NewSource(seed))
		}
	}
}

func WithExploration(explore float64) Option {
	return func(m *MCTS) {
		if explore >= 0 {
			m.explore = explore
		}
	}
}

func WithMetrics() Option {
	return func(m *MCTS) {
		m.metrics = metrics.NewCollector()
	}
}

func NewMCTS(options ...Option) *MCTS {
	m := &MCTS{ // Default values
		explore: CExplore,
		metrics: metrics.NewDummyCollector(),
	}
	for _, option := range options {
		option(m)
	}
	if m.rng == nil {
		m.rng = rand.New(rand.NewSource(uint64(time.Now().UnixNano())))
	}
	return m
}

func (m *MCTS) Explore() float64 {
	return m.explore
}

// Select descends from root until it reaches a terminal node or a node with
// an unexplored action.
func Select(root *Node, explore float64) *Node {
	node := root
	for !node.IsTerminal() && len(node.unexplored) == 0 {
		node = UCT(node, explore)
	}
	return node
}

// Expand adds a child for the last unexplored action of node and returns it.
// The action stays unexplored when Act fails.
func Expand(node *Node) (*Node, error) {
	return expandAt(node, node.lastUnexplored())
}

func expandAt(node *Node, i int) (*Node, error) {
	action := node.unexplored[i]
	next, err := node.state.Act(action)
	if err != nil {
		return nil, errors.Wrapf(err, "expand %s", action)
	}
	node.removeUnexplored(i)
	return node.addChild(action, next), nil
}

// Simulate plays uniformly random actions from node's state until the game
// ends. No nodes are created.
func (m *MCTS) Simulate(node *Node) (game.Result, error) {
	state := node.state
	for !state.IsTerminal() {
		actions := state.LegalActions()
		if len(actions) == 0 {
			return game.Result{}, errors.Wrapf(ErrNoLegalActions, "rollout from\n%s", state)
		}
		action := actions[m.rng.Intn(len(actions))]
		next, err := state.Act(action)
		if err != nil {
			return game.Result{}, errors.Wrapf(err, "rollout %s", action)
		}
		state = next
	}
	m.metrics.AddPlayout()

	result, _ := state.Result()
	return result, nil
}

// Backpropagate credits result to node and every ancestor.
func Backpropagate(node *Node, result game.Result) {
	for node != nil {
		node.update(result)
		node = node.parent
	}
}

// Train runs one select, expand, simulate and backpropagate cycle. It adds
// at most one node to the tree.
func (m *MCTS) Train(root *Node) error {
	if root.detached {
		violate("train", "node is detached")
	}
	m.metrics.AddIteration()

	leaf := Select(root, m.explore)
	if leaf.IsTerminal() {
		m.metrics.AddTerminal()
	} else {
		child, err := Expand(leaf)
		if err != nil {
			return err
		}
		m.metrics.AddExpansion()
		leaf = child
	}

	result, err := m.Simulate(leaf)
	if err != nil {
		return err
	}
	Backpropagate(leaf, result)
	return nil
}

// Choose returns the child of node with the best win rate. A node that was
// never expanded gets a detached node for a uniformly random legal action.
func (m *MCTS) Choose(node *Node) (*Node, error) {
	if node.IsTerminal() {
		violate("choose", "node is terminal")
	}
	if len(node.children) > 0 {
		return UCT(node, CExploit), nil
	}

	actions := node.state.LegalActions()
	if len(actions) == 0 {
		return nil, errors.Wrapf(ErrNoLegalActions, "choose from\n%s", node.state)
	}
	action := actions[m.rng.Intn(len(actions))]
	next, err := node.state.Act(action)
	if err != nil {
		return nil, errors.Wrapf(err, "choose %s", action)
	}
	return newDetached(action, next), nil
}

// Descend returns the child of node reached by action, expanding it first
// if needed. A freshly expanded child is given one rollout so every child in
// the tree has been visited. That rollout is backpropagated, so node and its
// ancestors gain one visit outside of Train.
func (m *MCTS) Descend(node *Node, action game.Action) (*Node, error) {
	if node.detached {
		violate("descend", "node is detached")
	}
	if child := node.findChild(action); child != nil {
		return child, nil
	}

	i := node.findUnexplored(action)
	if i < 0 {
		return nil, errors.Wrapf(game.ErrIllegalAction, "%s from\n%s", action, node.state)
	}
	child, err := expandAt(node, i)
	if err != nil {
		return nil, errors.Wrap(err, "descend")
	}

	result, err := m.Simulate(child)
	if err != nil {
		return nil, err
	}
	Backpropagate(child, result)
	return child, nil
}

// Search trains root for a fixed number of iterations and reports what the
// search did.
func (m *MCTS) Search(root *Node, iterations int) (metrics.SearchMetric, error) {
	m.metrics.Start(iterations, m.explore)
	m.metrics.SetTreeReused(root.visits > 0)

	for i := 0; i < iterations; i++ {
		if err := m.Train(root); err != nil {
			return metrics.SearchMetric{}, errors.Wrapf(err, "iteration %d", i+1)
		}
	}

	metric := m.metrics.Complete(root.Size())
	metric.RootVisits = root.visits
	log.Debug().
		Int("iterations", iterations).
		Int("root_visits", root.visits).
		Int("children", len(root.children)).
		Msg("search complete")
	return metric, nil
}
