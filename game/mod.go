package game

import (
	"errors"
	"fmt"
)

// Player identifies one of the two sides of a game.
type Player string

const (
	P1 Player = "P1"
	P2 Player = "P2"
)

// Outcome labels what a terminal result credits: a player or a draw.
type Outcome string

const Draw Outcome = "Draw"

// Outcome returns the outcome label crediting p.
func (p Player) Outcome() Outcome {
	return Outcome(p)
}

// Other returns the opponent of a two-player identifier.
func Other(p Player) Player {
	if p == P1 {
		return P2
	}
	return P1
}

// Rewards used by the bundled games.
const (
	WinReward  = 1.0
	DrawReward = 0.5
)

// Result is the value of a terminal state.
type Result struct {
	Outcome Outcome
	Reward  float64
}

func (r Result) String() string {
	return fmt.Sprintf("%s (%.2f)", r.Outcome, r.Reward)
}

// ErrIllegalAction is returned by State.Act for an action that is not legal
// in the state it is applied to, including actions by the wrong player.
var ErrIllegalAction = errors.New("illegal action")

// Action is one legal transition out of a State. Actions are produced only by
// State.LegalActions and consumed only by State.Act.
type Action interface {
	// Player is the player making the move.
	Player() Player
	// String is a canonical key: two actions of the same state are the same
	// move iff their strings are equal.
	String() string
}

// State is an immutable game position. Act never mutates the receiver.
type State interface {
	Act(action Action) (State, error)
	IsTerminal() bool
	// Result is defined (ok == true) iff IsTerminal.
	Result() (result Result, ok bool)
	// LegalActions is finite, complete and empty only for terminal states.
	LegalActions() []Action
	Turn() Player
	// String is the human readable display form of the position.
	String() string
}

// SameAction reports whether a and b describe the same move.
func SameAction(a, b Action) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Player() == b.Player() && a.String() == b.String()
}
