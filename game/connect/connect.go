// Package connect implements connect-N on a square grid: players alternately
// mark empty cells and the first to line up WinLength marks in a row, column
// or diagonal wins. A 3x3 board with win length 3 is tic-tac-toe.
package connect

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"mcts/game"
)

// Cell values on the board.
const (
	Empty int8 = 0
	X     int8 = 1  // P1
	O     int8 = -1 // P2
)

var symbols = map[int8]string{X: "X", O: "O", Empty: " "}

// Mark returns the cell value placed by p.
func Mark(p game.Player) int8 {
	if p == game.P1 {
		return X
	}
	return O
}

// Move places the mover's mark at (Row, Col), both zero-based.
type Move struct {
	Row   int
	Col   int
	Mover game.Player
}

func (m Move) Player() game.Player {
	return m.Mover
}

func (m Move) String() string {
	return fmt.Sprintf("%s@%d,%d", m.Mover, m.Row, m.Col)
}

// State is an immutable connect-N position.
type State struct {
	cells  []int8 // row-major, size*size
	size   int
	win    int
	turn   game.Player
	result *game.Result
}

// NewState returns the empty board of the given size with P1 to move.
func NewState(size, win int) (*State, error) {
	return FromCells(make([]int8, size*size), size, win, game.P1)
}

// FromCells builds a position from row-major cell values.
func FromCells(cells []int8, size, win int, turn game.Player) (*State, error) {
	if size <= 0 {
		return nil, errors.Errorf("board size must be positive, got %d", size)
	}
	if len(cells) != size*size {
		return nil, errors.Errorf("expected %d cells for a %dx%d board, got %d", size*size, size, size, len(cells))
	}
	if win <= 0 || win > size {
		return nil, errors.Errorf("win length must be in [1, %d], got %d", size, win)
	}
	for i, c := range cells {
		if c != Empty && c != X && c != O {
			return nil, errors.Errorf("invalid cell value %d at index %d", c, i)
		}
	}
	if turn != game.P1 && turn != game.P2 {
		return nil, errors.Errorf("invalid player %q", turn)
	}

	owned := make([]int8, len(cells))
	copy(owned, cells)
	s := &State{cells: owned, size: size, win: win, turn: turn}
	s.result = s.evaluate()
	return s, nil
}

// Size is the board width and height.
func (s *State) Size() int { return s.size }

// WinLength is the number of marks in a line needed to win.
func (s *State) WinLength() int { return s.win }

// At returns the cell value at (row, col).
func (s *State) At(row, col int) int8 {
	return s.cells[row*s.size+col]
}

func (s *State) Turn() game.Player {
	return s.turn
}

func (s *State) IsTerminal() bool {
	return s.result != nil
}

func (s *State) Result() (game.Result, bool) {
	if s.result == nil {
		return game.Result{}, false
	}
	return *s.result, true
}

// LegalActions lists every empty cell in row-major order.
func (s *State) LegalActions() []game.Action {
	if s.IsTerminal() {
		return nil
	}
	actions := make([]game.Action, 0, len(s.cells))
	for i, c := range s.cells {
		if c == Empty {
			actions = append(actions, Move{Row: i / s.size, Col: i % s.size, Mover: s.turn})
		}
	}
	return actions
}

func (s *State) legal(m Move) error {
	if s.IsTerminal() {
		return errors.Wrap(game.ErrIllegalAction, "game is over")
	}
	if m.Mover != s.turn {
		return errors.Wrapf(game.ErrIllegalAction, "%s moved on %s's turn", m.Mover, s.turn)
	}
	if m.Row < 0 || m.Row >= s.size || m.Col < 0 || m.Col >= s.size {
		return errors.Wrapf(game.ErrIllegalAction, "cell (%d,%d) outside %dx%d board", m.Row, m.Col, s.size, s.size)
	}
	if s.At(m.Row, m.Col) != Empty {
		return errors.Wrapf(game.ErrIllegalAction, "cell (%d,%d) is occupied", m.Row, m.Col)
	}
	return nil
}

// Act places the mark and hands the turn to the opponent.
func (s *State) Act(action game.Action) (game.State, error) {
	m, ok := action.(Move)
	if !ok {
		return nil, errors.Wrapf(game.ErrIllegalAction, "unexpected action type %T", action)
	}
	if err := s.legal(m); err != nil {
		return nil, err
	}

	cells := make([]int8, len(s.cells))
	copy(cells, s.cells)
	cells[m.Row*s.size+m.Col] = Mark(m.Mover)

	next := &State{cells: cells, size: s.size, win: s.win, turn: game.Other(s.turn)}
	next.result = next.evaluate()
	return next, nil
}

// evaluate slides a WinLength window over every row, column and diagonal.
func (s *State) evaluate() *game.Result {
	directions := [][2]int{{0, 1}, {1, 0}, {1, 1}, {1, -1}}
	for row := 0; row < s.size; row++ {
		for col := 0; col < s.size; col++ {
			for _, d := range directions {
				if sum, ok := s.line(row, col, d[0], d[1]); ok {
					switch sum {
					case s.win:
						return &game.Result{Outcome: game.P1.Outcome(), Reward: game.WinReward}
					case -s.win:
						return &game.Result{Outcome: game.P2.Outcome(), Reward: game.WinReward}
					}
				}
			}
		}
	}

	for _, c := range s.cells {
		if c == Empty {
			return nil
		}
	}
	return &game.Result{Outcome: game.Draw, Reward: game.DrawReward}
}

// line sums WinLength cells starting at (row, col) stepping by (dr, dc).
func (s *State) line(row, col, dr, dc int) (int, bool) {
	endRow, endCol := row+dr*(s.win-1), col+dc*(s.win-1)
	if endRow < 0 || endRow >= s.size || endCol < 0 || endCol >= s.size {
		return 0, false
	}
	sum := 0
	for i := 0; i < s.win; i++ {
		sum += int(s.At(row+dr*i, col+dc*i))
	}
	return sum, true
}

// String draws the board with row 1 on top.
func (s *State) String() string {
	rows := make([]string, s.size)
	for r := 0; r < s.size; r++ {
		marks := make([]string, s.size)
		for c := 0; c < s.size; c++ {
			marks[c] = symbols[s.At(r, c)]
		}
		rows[r] = " " + strings.Join(marks, " | ") + " "
	}
	separator := "\n" + strings.Repeat("-", s.size*4-1) + "\n"
	return strings.Join(rows, separator) + "\n"
}

// ParseMove reads "row,col" with 1-based coordinates as a move for the
// player to move in s.
func ParseMove(s *State, text string) (Move, error) {
	var row, col int
	if _, err := fmt.Sscanf(strings.TrimSpace(text), "%d,%d", &row, &col); err != nil {
		return Move{}, errors.Wrapf(err, "expected row,col but got %q", text)
	}
	return Move{Row: row - 1, Col: col - 1, Mover: s.turn}, nil
}
