package connect

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"mcts/game"
)

func mustState(t *testing.T, cells []int8, size, win int, turn game.Player) *State {
	t.Helper()
	s, err := FromCells(cells, size, win, turn)
	require.NoError(t, err, "Should build a valid position")
	return s
}

func TestNewState(t *testing.T) {
	t.Run("creating an empty tic-tac-toe board", func(t *testing.T) {
		s, err := NewState(3, 3)

		require.NoError(t, err)
		require.Equal(t, game.P1, s.Turn(), "P1 should move first")
		require.False(t, s.IsTerminal(), "Empty board should not be terminal")
		require.Len(t, s.LegalActions(), 9, "Every cell should be playable")
	})

	t.Run("rejecting invalid dimensions", func(t *testing.T) {
		_, err := NewState(3, 4)
		require.Error(t, err, "Win length longer than the board should fail")

		_, err = NewState(0, 0)
		require.Error(t, err, "Empty board should fail")

		_, err = FromCells([]int8{0, 0, 0}, 2, 2, game.P1)
		require.Error(t, err, "Cell count must match the board size")

		_, err = FromCells([]int8{0, 0, 0, 3}, 2, 2, game.P1)
		require.Error(t, err, "Unknown cell values should fail")
	})
}

func TestAct(t *testing.T) {
	t.Run("placing a mark and flipping the turn", func(t *testing.T) {
		s, _ := NewState(3, 3)

		next, err := s.Act(Move{Row: 1, Col: 2, Mover: game.P1})

		require.NoError(t, err)
		require.Equal(t, X, next.(*State).At(1, 2), "Cell should hold P1's mark")
		require.Equal(t, game.P2, next.Turn(), "Turn should pass to P2")
		require.Equal(t, Empty, s.At(1, 2), "Original state should not change")
		require.Equal(t, game.P1, s.Turn(), "Original turn should not change")
	})

	t.Run("rejecting illegal actions", func(t *testing.T) {
		s, _ := NewState(3, 3)
		occupied, _ := s.Act(Move{Row: 0, Col: 0, Mover: game.P1})

		illegal := []struct {
			name   string
			state  game.State
			action game.Action
		}{
			{"wrong player", s, Move{Row: 0, Col: 0, Mover: game.P2}},
			{"outside the board", s, Move{Row: 3, Col: 0, Mover: game.P1}},
			{"occupied cell", occupied, Move{Row: 0, Col: 0, Mover: game.P2}},
		}
		for _, tc := range illegal {
			_, err := tc.state.Act(tc.action)
			require.Error(t, err, tc.name)
			require.True(t, errors.Is(err, game.ErrIllegalAction), "%s should be an illegal action", tc.name)
		}
	})

	t.Run("never failing for actions from the same state", func(t *testing.T) {
		s, _ := NewState(4, 3)
		var state game.State = s
		for !state.IsTerminal() {
			actions := state.LegalActions()
			for _, a := range actions {
				_, err := state.Act(a)
				require.NoError(t, err, "Legal action %s should apply", a)
			}
			state, _ = state.Act(actions[0])
		}
	})

	t.Run("yielding equal states for equal actions", func(t *testing.T) {
		s, _ := NewState(3, 3)

		a, errA := s.Act(Move{Row: 2, Col: 1, Mover: game.P1})
		b, errB := s.Act(Move{Row: 2, Col: 1, Mover: game.P1})

		require.NoError(t, errA)
		require.NoError(t, errB)
		require.Equal(t, a, b, "Equal actions on equal states should give equal states")
		require.ElementsMatch(t, s.LegalActions(), s.LegalActions(), "Legal actions should be stable")
	})
}

func TestResult(t *testing.T) {
	tests := []struct {
		name    string
		cells   []int8
		turn    game.Player
		outcome game.Outcome
		reward  float64
	}{
		{
			name:    "row win for P1",
			cells:   []int8{X, X, X, O, O, 0, 0, 0, 0},
			turn:    game.P2,
			outcome: game.P1.Outcome(),
			reward:  game.WinReward,
		},
		{
			name:    "column win for P2",
			cells:   []int8{X, O, X, X, O, 0, 0, O, X},
			turn:    game.P1,
			outcome: game.P2.Outcome(),
			reward:  game.WinReward,
		},
		{
			name:    "anti-diagonal win for P1",
			cells:   []int8{O, O, X, 0, X, 0, X, 0, 0},
			turn:    game.P2,
			outcome: game.P1.Outcome(),
			reward:  game.WinReward,
		},
		{
			name:    "full board draw",
			cells:   []int8{X, O, X, X, O, O, O, X, X},
			turn:    game.P2,
			outcome: game.Draw,
			reward:  game.DrawReward,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := mustState(t, tc.cells, 3, 3, tc.turn)

			result, ok := s.Result()

			require.True(t, ok, "Result should be defined")
			require.True(t, s.IsTerminal(), "State should be terminal")
			require.Equal(t, tc.outcome, result.Outcome)
			require.Equal(t, tc.reward, result.Reward)
			require.Empty(t, s.LegalActions(), "Terminal states have no legal actions")
		})
	}

	t.Run("undefined result for an ongoing game", func(t *testing.T) {
		s := mustState(t, []int8{X, O, 0, 0, 0, 0, 0, 0, 0}, 3, 3, game.P1)

		_, ok := s.Result()

		require.False(t, ok, "Result should be undefined")
		require.False(t, s.IsTerminal(), "State should not be terminal")
	})

	t.Run("win length shorter than the board", func(t *testing.T) {
		s := mustState(t, []int8{
			0, 0, 0, 0,
			0, O, 0, 0,
			0, X, O, 0,
			X, X, 0, O,
		}, 4, 3, game.P1)

		result, ok := s.Result()

		require.True(t, ok)
		require.Equal(t, game.P2.Outcome(), result.Outcome, "Diagonal of three O should win")
	})
}

func TestTerminalIffResult(t *testing.T) {
	s, _ := NewState(3, 3)
	var state game.State = s
	// Walk a fixed line of play and check the contract at every step.
	for !state.IsTerminal() {
		_, ok := state.Result()
		require.False(t, ok, "Non-terminal state should have no result")
		actions := state.LegalActions()
		require.NotEmpty(t, actions, "Non-terminal state should have legal actions")
		state, _ = state.Act(actions[len(actions)-1])
	}
	_, ok := state.Result()
	require.True(t, ok, "Terminal state should have a result")
}

func TestString(t *testing.T) {
	s := mustState(t, []int8{X, 0, 0, 0, O, 0, 0, 0, 0}, 3, 3, game.P1)

	expected := " X |   |   \n-----------\n   | O |   \n-----------\n   |   |   \n"
	require.Equal(t, expected, s.String(), "Board should render row by row")
}

func TestParseMove(t *testing.T) {
	s := mustState(t, []int8{X, 0, 0, 0, 0, 0, 0, 0, 0}, 3, 3, game.P2)

	t.Run("reading 1-based coordinates", func(t *testing.T) {
		m, err := ParseMove(s, " 2,3\n")

		require.NoError(t, err)
		require.Equal(t, Move{Row: 1, Col: 2, Mover: game.P2}, m, "Should convert to zero-based cells for the player to move")
	})

	t.Run("rejecting malformed input", func(t *testing.T) {
		_, err := ParseMove(s, "b2")

		require.Error(t, err)
	})
}
