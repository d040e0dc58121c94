package searcher

import (
	"maps"

	"mcts/game"
)

// Expansion is the expansion status of a node.
type Expansion int

const (
	Fresh Expansion = iota
	PartiallyExpanded
	FullyExpanded
)

func (e Expansion) String() string {
	switch e {
	case Fresh:
		return "fresh"
	case PartiallyExpanded:
		return "partially expanded"
	default:
		return "fully expanded"
	}
}

// Node is a game tree node: one state snapshot plus search statistics.
// A node owns its children; parent is only followed upwards during
// backpropagation.
type Node struct {
	state      game.State
	action     game.Action // action from parent's state, nil for a root
	parent     *Node
	children   []*Node
	unexplored []game.Action
	visits     int
	stats      map[game.Outcome]float64
	detached   bool
}

// NewNode returns a root node for state.
func NewNode(state game.State) *Node {
	return newNode(nil, nil, state)
}

func newNode(parent *Node, action game.Action, state game.State) *Node {
	return &Node{
		state:      state,
		action:     action,
		parent:     parent,
		unexplored: state.LegalActions(),
		stats: map[game.Outcome]float64{
			game.P1.Outcome(): 0,
			game.P2.Outcome(): 0,
			game.Draw:         0,
		},
	}
}

// newDetached wraps state in a node that belongs to no tree.
func newDetached(action game.Action, state game.State) *Node {
	n := newNode(nil, action, state)
	n.detached = true
	return n
}

func (n *Node) State() game.State {
	return n.state
}

// Action is the action that produced this node, nil for a root.
func (n *Node) Action() game.Action {
	return n.action
}

func (n *Node) Parent() *Node {
	return n.parent
}

// Children returns the expanded children in expansion order. The slice must
// not be modified.
func (n *Node) Children() []*Node {
	return n.children
}

// Unexplored is the number of legal actions without a child yet.
func (n *Node) Unexplored() int {
	return len(n.unexplored)
}

// Detached reports whether the node was created outside any tree by Choose.
// Detached nodes never receive statistics.
func (n *Node) Detached() bool {
	return n.detached
}

func (n *Node) IsTerminal() bool {
	return n.state.IsTerminal()
}

// Turn is the player about to move from this node.
func (n *Node) Turn() game.Player {
	return n.state.Turn()
}

// N is the number of backpropagation passes through the node.
func (n *Node) N() int {
	return n.visits
}

// Q is the exploitation value from the perspective of the player to move.
func (n *Node) Q() float64 {
	return n.QFor(n.state.Turn())
}

// QFor is wins(p) - losses(p) - draws.
func (n *Node) QFor(p game.Player) float64 {
	wins := n.stats[p.Outcome()]
	losses := n.stats[game.Other(p).Outcome()]
	draws := n.stats[game.Draw]
	return wins - losses - draws
}

// Stats returns a copy of the accumulated reward per outcome.
func (n *Node) Stats() map[game.Outcome]float64 {
	return maps.Clone(n.stats)
}

func (n *Node) Status() Expansion {
	switch {
	case len(n.unexplored) == 0:
		return FullyExpanded
	case len(n.children) == 0:
		return Fresh
	default:
		return PartiallyExpanded
	}
}

// Size counts the nodes of the subtree rooted at n.
func (n *Node) Size() int {
	size := 0
	stack := []*Node{n}
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		size++
		stack = append(stack, node.children...)
	}
	return size
}

// lastUnexplored returns the index of the action Expand takes next.
func (n *Node) lastUnexplored() int {
	last := len(n.unexplored) - 1
	if last < 0 {
		violate("get unexplored action", "no unexplored actions left")
	}
	return last
}

// findUnexplored returns the index of the unexplored action matching action.
func (n *Node) findUnexplored(action game.Action) int {
	for i, a := range n.unexplored {
		if game.SameAction(a, action) {
			return i
		}
	}
	return -1
}

func (n *Node) removeUnexplored(i int) {
	last := len(n.unexplored) - 1
	copy(n.unexplored[i:], n.unexplored[i+1:])
	n.unexplored[last] = nil
	n.unexplored = n.unexplored[:last]
}

func (n *Node) findChild(action game.Action) *Node {
	for _, child := range n.children {
		if game.SameAction(child.action, action) {
			return child
		}
	}
	return nil
}

func (n *Node) addChild(action game.Action, state game.State) *Node {
	child := newNode(n, action, state)
	n.children = append(n.children, child)
	return child
}

// update records one backpropagation pass.
func (n *Node) update(result game.Result) {
	if n.detached {
		violate("backpropagate", "node is detached")
	}
	n.visits++
	n.stats[result.Outcome] += result.Reward
}
