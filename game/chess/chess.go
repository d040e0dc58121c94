// Package chess adapts github.com/notnil/chess to the game contract. White is
// P1 and Black is P2.
package chess

import (
	"strings"

	"github.com/notnil/chess"
	"github.com/pkg/errors"

	"mcts/game"
)

// Move is a chess move in UCI notation, e.g. "e2e4" or "e7e8q".
type Move struct {
	UCI   string
	Mover game.Player
}

func (m Move) Player() game.Player {
	return m.Mover
}

func (m Move) String() string {
	return m.UCI
}

// State wraps a notnil game. The wrapped game is never moved in place: Act
// clones it first.
type State struct {
	g *chess.Game
}

// NewState returns the standard starting position.
func NewState() *State {
	return &State{g: chess.NewGame()}
}

// FromFEN returns the position described by fen.
func FromFEN(fen string) (*State, error) {
	opt, err := chess.FEN(fen)
	if err != nil {
		return nil, errors.Wrapf(err, "parse fen %q", fen)
	}
	return &State{g: chess.NewGame(opt)}, nil
}

func player(c chess.Color) game.Player {
	if c == chess.White {
		return game.P1
	}
	return game.P2
}

func (s *State) Turn() game.Player {
	return player(s.g.Position().Turn())
}

func (s *State) IsTerminal() bool {
	return s.g.Outcome() != chess.NoOutcome
}

func (s *State) Result() (game.Result, bool) {
	switch s.g.Outcome() {
	case chess.WhiteWon:
		return game.Result{Outcome: game.P1.Outcome(), Reward: game.WinReward}, true
	case chess.BlackWon:
		return game.Result{Outcome: game.P2.Outcome(), Reward: game.WinReward}, true
	case chess.Draw:
		return game.Result{Outcome: game.Draw, Reward: game.DrawReward}, true
	default:
		return game.Result{}, false
	}
}

func (s *State) LegalActions() []game.Action {
	// Automatic draws end the game while moves remain on the board.
	if s.IsTerminal() {
		return nil
	}
	turn := s.Turn()
	moves := s.g.ValidMoves()
	actions := make([]game.Action, len(moves))
	for i, m := range moves {
		actions[i] = Move{UCI: m.String(), Mover: turn}
	}
	return actions
}

func (s *State) Act(action game.Action) (game.State, error) {
	if s.IsTerminal() {
		return nil, errors.Wrap(game.ErrIllegalAction, "game is over")
	}
	if action.Player() != s.Turn() {
		return nil, errors.Wrapf(game.ErrIllegalAction, "%s moved on %s's turn", action.Player(), s.Turn())
	}

	key := action.String()
	for _, m := range s.g.ValidMoves() {
		if m.String() != key {
			continue
		}
		next := s.g.Clone()
		if err := next.Move(m); err != nil {
			return nil, errors.Wrapf(game.ErrIllegalAction, "move %s: %v", key, err)
		}
		return &State{g: next}, nil
	}
	return nil, errors.Wrapf(game.ErrIllegalAction, "move %s is not valid in %s", key, s.g.Position())
}

// FEN returns the position in Forsyth-Edwards notation.
func (s *State) FEN() string {
	return s.g.Position().String()
}

// String draws the board in ASCII, rank 8 first. White pieces are upper
// case, black pieces lower case and empty squares '-'.
func (s *State) String() string {
	board := s.g.Position().Board()
	var sb strings.Builder
	for r := chess.Rank8; r >= chess.Rank1; r-- {
		sb.WriteString(r.String())
		for f := chess.FileA; f <= chess.FileH; f++ {
			sb.WriteByte(' ')
			sb.WriteString(pieceLetter(board.Piece(chess.Square(int(r)*8 + int(f)))))
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("  a b c d e f g h\n")
	return sb.String()
}

func pieceLetter(p chess.Piece) string {
	if p == chess.NoPiece {
		return "-"
	}
	letter := p.Type().String()
	if p.Color() == chess.White {
		return strings.ToUpper(letter)
	}
	return strings.ToLower(letter)
}

// ParseMove reads a move in UCI notation for the side to move in s.
func ParseMove(s *State, text string) (Move, error) {
	uci := strings.ToLower(strings.TrimSpace(text))
	if _, err := (chess.UCINotation{}).Decode(s.g.Position(), uci); err != nil {
		return Move{}, errors.Wrapf(err, "parse uci move %q", text)
	}
	return Move{UCI: uci, Mover: s.Turn()}, nil
}
