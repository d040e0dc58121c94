package searcher

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

type uct struct {
	explore   float64
	logParent float64
}

func newUCT(explore float64, N float64) *uct {
	if N == 0 {
		panic("N cannot be 0")
	}
	return &uct{explore: explore, logParent: math.Log(N)}
}

func (u uct) evaluate(q float64, n float64) float64 {
	if n == 0 {
		panic("n cannot be 0")
	}
	// UCT = q/n + c*sqrt(2*ln(N)/n)
	return q/n + u.explore*math.Sqrt(2*u.logParent/n)
}

// UCT returns the child of node with the highest UCT score; the first child
// wins ties. Children are valued from the perspective of the player choosing
// at node. An explore of 0 ranks children by win rate alone.
func UCT(node *Node, explore float64) *Node {
	if len(node.children) == 0 {
		violate("uct", "node has no children")
	}
	policy := newUCT(explore, float64(node.visits))
	chooser := node.Turn()

	scores := make([]float64, len(node.children))
	for i, child := range node.children {
		scores[i] = policy.evaluate(child.QFor(chooser), float64(child.visits))
	}
	// MaxIdx returns the lowest index among equal maxima.
	return node.children[floats.MaxIdx(scores)]
}
