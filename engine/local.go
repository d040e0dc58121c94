package engine

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/logrusorgru/aurora"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"mcts/experiments/metrics"
	"mcts/game"
	"mcts/searcher/agent"
)

type Engine struct {
	State    game.State
	Agents   map[game.Player]agent.Agent
	Out      io.Writer // Positions are printed here when set
	Colored  bool
	MaxMoves int
}

var _ Runner = (*Engine)(nil)

func LocalEngine(state game.State, agent1, agent2 agent.Agent) *Engine {
	if agent1 == nil || agent2 == nil {
		panic("need an agent for each player")
	}
	return &Engine{
		State: state,
		Agents: map[game.Player]agent.Agent{
			game.P1: agent1,
			game.P2: agent2,
		},
		MaxMoves: MaxMoves,
	}
}

// Run executes the game loop until the game ends.
func (e *Engine) Run() (game.Result, bool, metrics.GameMetric, []metrics.MoveMetric, error) {
	gameMetric := metrics.GameMetric{
		StartingPlayer: e.State.Turn(),
		StartTime:      time.Now(),
	}
	moveMetrics := []metrics.MoveMetric{}

	observers := e.observers()
	for _, a := range observers {
		a.Reset(e.State)
	}

	log.Info().Msgf("player %s is starting", e.State.Turn())
	e.display()

	step := 1
	for !e.State.IsTerminal() && step <= e.MaxMoves {
		turn := e.State.Turn()

		action, searchMetric, err := e.Agents[turn].FindMove(e.State)
		if err != nil {
			return game.Result{}, false, gameMetric, moveMetrics, errors.Wrapf(err, "move %d by %s", step, turn)
		}
		next, err := e.State.Act(action)
		if err != nil {
			return game.Result{}, false, gameMetric, moveMetrics, errors.Wrapf(err, "move %d by %s", step, turn)
		}
		for _, a := range observers {
			if err := a.Observe(action); err != nil {
				return game.Result{}, false, gameMetric, moveMetrics, errors.Wrapf(err, "observe move %d", step)
			}
		}

		moveMetrics = append(moveMetrics, metrics.MoveMetric{
			Step:         step,
			Player:       turn,
			Action:       action.String(),
			SearchMetric: searchMetric,
		})
		log.Debug().Int("step", step).Str("player", string(turn)).Str("action", action.String()).Msg("move played")

		e.State = next
		e.display()
		step++
	}

	gameMetric.EndTime = time.Now()
	gameMetric.Duration = gameMetric.EndTime.Sub(gameMetric.StartTime)
	gameMetric.TotalMoves = len(moveMetrics)

	result, ok := e.State.Result()
	if !ok {
		log.Warn().Msgf("stopped after %d moves without a result", e.MaxMoves)
		return result, false, gameMetric, moveMetrics, nil
	}
	gameMetric.Outcome = result.Outcome
	log.Info().Msgf("game over after %d moves: %s", gameMetric.TotalMoves, result)
	return result, true, gameMetric, moveMetrics, nil
}

// observers lists each distinct agent once, so self-play observes every
// action a single time.
func (e *Engine) observers() []agent.Agent {
	first := e.Agents[game.P1]
	second := e.Agents[game.P2]
	if first == second {
		return []agent.Agent{first}
	}
	return []agent.Agent{first, second}
}

func (e *Engine) display() {
	if e.Out == nil {
		return
	}
	board := e.State.String()
	if e.Colored {
		board = colorize(board)
	}
	fmt.Fprintln(e.Out, board)
}

var marks = strings.NewReplacer(
	" X ", " "+aurora.Red("X").String()+" ",
	" O ", " "+aurora.Blue("O").String()+" ",
)

// colorize paints the marks of grid boards.
func colorize(board string) string {
	return marks.Replace(board)
}
