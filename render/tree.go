// Package render draws search trees and positions for people.
package render

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/awalterschulze/gographviz"
	"github.com/pkg/errors"

	"mcts/game"
	"mcts/searcher"
)

const graphName = "tree"

// label shows the visit count, the stats, the position and the player to
// move.
func label(node *searcher.Node) string {
	stats := node.Stats()
	outcomes := make([]string, 0, len(stats))
	for outcome := range stats {
		outcomes = append(outcomes, string(outcome))
	}
	sort.Strings(outcomes)
	parts := make([]string, 0, len(outcomes))
	for _, outcome := range outcomes {
		parts = append(parts, fmt.Sprintf("%s=%g", outcome, stats[game.Outcome(outcome)]))
	}

	return fmt.Sprintf("Visits: %d\nStats: %s\nState:\n%s\nTo Move: %s",
		node.N(), strings.Join(parts, " "), strings.TrimRight(node.State().String(), "\n"), node.Turn())
}

// TreeDOT walks the tree under root and returns it as a Graphviz digraph.
// Edges are labelled with the action taken.
func TreeDOT(root *searcher.Node) (string, error) {
	g := gographviz.NewGraph()
	if err := g.SetName(graphName); err != nil {
		return "", errors.Wrap(err, "name graph")
	}
	if err := g.SetDir(true); err != nil {
		return "", errors.Wrap(err, "direct graph")
	}

	type item struct {
		node *searcher.Node
		name string
	}
	id := 0
	stack := []item{{node: root, name: "n0"}}
	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		attrs := map[string]string{
			"shape":    "box",
			"fontname": "monospace",
			"label":    fmt.Sprintf("%q", label(it.node)),
		}
		if err := g.AddNode(graphName, it.name, attrs); err != nil {
			return "", errors.Wrapf(err, "add node %s", it.name)
		}
		for _, child := range it.node.Children() {
			id++
			name := fmt.Sprintf("n%d", id)
			stack = append(stack, item{node: child, name: name})
			edge := map[string]string{"label": fmt.Sprintf("%q", child.Action().String())}
			if err := g.AddEdge(it.name, name, true, edge); err != nil {
				return "", errors.Wrapf(err, "add edge %s -> %s", it.name, name)
			}
		}
	}
	return g.String(), nil
}

// WriteTreeDOT stores the tree under root as a DOT file at path.
func WriteTreeDOT(path string, root *searcher.Node) error {
	dot, err := TreeDOT(root)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(dot), 0644); err != nil {
		return fmt.Errorf("failed to write tree file: %w", err)
	}
	return nil
}
