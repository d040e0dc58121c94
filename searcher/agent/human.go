package agent

import (
	"bufio"
	"fmt"
	"io"

	"github.com/pkg/errors"

	"mcts/experiments/metrics"
	"mcts/game"
)

// Parser reads a typed move for the player to move in state.
type Parser func(state game.State, text string) (game.Action, error)

// HumanAgent asks for moves on in until a legal one is typed.
type HumanAgent struct {
	in    *bufio.Scanner
	out   io.Writer
	parse Parser
}

func NewHumanAgent(in io.Reader, out io.Writer, parse Parser) *HumanAgent {
	return &HumanAgent{in: bufio.NewScanner(in), out: out, parse: parse}
}

func (h *HumanAgent) Reset(state game.State) {}

func (h *HumanAgent) Observe(action game.Action) error {
	return nil
}

func (h *HumanAgent) FindMove(state game.State) (game.Action, metrics.SearchMetric, error) {
	legal := state.LegalActions()
	for {
		fmt.Fprintf(h.out, "%s to move: ", state.Turn())
		if !h.in.Scan() {
			if err := h.in.Err(); err != nil {
				return nil, metrics.SearchMetric{}, errors.Wrap(err, "read move")
			}
			return nil, metrics.SearchMetric{}, errors.Wrap(io.ErrUnexpectedEOF, "read move")
		}

		action, err := h.parse(state, h.in.Text())
		if err != nil {
			fmt.Fprintf(h.out, "%v\n", err)
			continue
		}
		for _, a := range legal {
			if game.SameAction(a, action) {
				return a, metrics.SearchMetric{}, nil
			}
		}
		fmt.Fprintf(h.out, "%s is not a legal move\n", action)
	}
}
