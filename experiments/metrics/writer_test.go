package metrics

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"mcts/game"
)

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err, "Should open %s", path)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err, "Should parse %s", path)
	return rows
}

func TestWriter(t *testing.T) {
	start := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	configs := []AgentConfig{
		{ID: 1, Iterations: 50, Explore: 1.4},
		{ID: 2, Iterations: 400, Explore: 1.4, TrainFromRoot: true},
	}
	games := []GameRecord{
		{ID: "a", Matchup: 1, Agent1: 1, Agent2: 2, WinnerAgent: 2, GameMetric: GameMetric{
			StartingPlayer: game.P1, Outcome: game.P2.Outcome(), StartTime: start, EndTime: start.Add(time.Second), Duration: time.Second, TotalMoves: 6,
		}},
		{ID: "b", Matchup: 1, Agent1: 2, Agent2: 1, WinnerAgent: 0, GameMetric: GameMetric{
			StartingPlayer: game.P1, Outcome: game.Draw, StartTime: start, EndTime: start, TotalMoves: 9,
		}},
	}
	moves := []MoveRecord{
		{Game: "a", MoveMetric: MoveMetric{Step: 1, Player: game.P1, Action: "P1@1,1", SearchMetric: SearchMetric{Iterations: 50, TreeSize: 51, RootVisits: 50}}},
	}

	w, err := NewWriter(t.TempDir(), "strength")
	require.NoError(t, err)

	err = w.WriteAll(configs, games, moves, true)
	require.NoError(t, err, "Should write every file")

	t.Run("writing agent configs", func(t *testing.T) {
		rows := readCSV(t, filepath.Join(w.Dir(), "agent_configs.csv"))

		require.Equal(t, [][]string{
			{"id", "iterations", "explore", "train_from_root"},
			{"1", "50", "1.4", "false"},
			{"2", "400", "1.4", "true"},
		}, rows)
	})

	t.Run("writing game records", func(t *testing.T) {
		rows := readCSV(t, filepath.Join(w.Dir(), "game_records.csv"))

		require.Len(t, rows, 3, "Header plus one row per game")
		require.Equal(t, []string{"a", "1", "1", "2", "P1", "P2", "2", "2024-01-02T03:04:05Z", "2024-01-02T03:04:06Z", "1s", "6"}, rows[1])
		require.Equal(t, "Draw", rows[2][5])
	})

	t.Run("writing move records", func(t *testing.T) {
		rows := readCSV(t, filepath.Join(w.Dir(), "move_records.csv"))

		require.Len(t, rows, 2)
		require.Equal(t, "P1@1,1", rows[1][3])
		require.Equal(t, "51", rows[1][10])
	})

	t.Run("writing the chart", func(t *testing.T) {
		html, err := os.ReadFile(filepath.Join(w.Dir(), "outcomes.html"))

		require.NoError(t, err)
		require.Contains(t, string(html), "Outcomes per matchup")
	})
}

func TestWriteAllReportsEveryFailure(t *testing.T) {
	w, err := NewWriter(t.TempDir(), "broken")
	require.NoError(t, err)
	require.NoError(t, os.RemoveAll(w.Dir()), "Removing the directory should break every write")

	err = w.WriteAll(nil, nil, nil, true)

	require.Error(t, err)
	require.Contains(t, err.Error(), "4 errors occurred", "Should aggregate every failed file")
}

func TestSummarize(t *testing.T) {
	records := []GameRecord{
		{Matchup: 1, Agent1: 1, Agent2: 2, WinnerAgent: 1, GameMetric: GameMetric{TotalMoves: 5}},
		{Matchup: 1, Agent1: 2, Agent2: 1, WinnerAgent: 1, GameMetric: GameMetric{TotalMoves: 7}},
		{Matchup: 1, Agent1: 1, Agent2: 2, WinnerAgent: 0, GameMetric: GameMetric{TotalMoves: 9}},
		{Matchup: 2, Agent1: 1, Agent2: 3, WinnerAgent: 3, GameMetric: GameMetric{TotalMoves: 6}},
	}

	summaries := Summarize(records)

	require.Equal(t, []MatchupSummary{
		{Matchup: 1, AgentA: 1, AgentB: 2, Games: 3, WinsA: 2, WinsB: 0, Draws: 1, MeanMoves: 7},
		{Matchup: 2, AgentA: 1, AgentB: 3, Games: 1, WinsA: 0, WinsB: 1, Draws: 0, MeanMoves: 6},
	}, summaries)

	t.Run("counting self play by seat", func(t *testing.T) {
		selfPlay := []GameRecord{
			{Matchup: 3, Agent1: 2, Agent2: 2, WinnerAgent: 2, GameMetric: GameMetric{Outcome: game.P1.Outcome(), TotalMoves: 5}},
			{Matchup: 3, Agent1: 2, Agent2: 2, WinnerAgent: 2, GameMetric: GameMetric{Outcome: game.P2.Outcome(), TotalMoves: 6}},
			{Matchup: 3, Agent1: 2, Agent2: 2, WinnerAgent: 2, GameMetric: GameMetric{Outcome: game.P2.Outcome(), TotalMoves: 8}},
			{Matchup: 3, Agent1: 2, Agent2: 2, WinnerAgent: 0, GameMetric: GameMetric{Outcome: game.Draw, TotalMoves: 9}},
		}

		summaries := Summarize(selfPlay)

		require.Equal(t, []MatchupSummary{
			{Matchup: 3, AgentA: 2, AgentB: 2, Games: 4, WinsA: 1, WinsB: 2, Draws: 1, MeanMoves: 7},
		}, summaries, "P2 wins should count for agent B")
	})
}

func TestCollector(t *testing.T) {
	c := NewCollector()
	c.Start(10, 1.4)
	c.SetTreeReused(true)
	c.AddIteration()
	c.AddIteration()
	c.AddExpansion()
	c.AddTerminal()
	c.AddPlayout()

	metric := c.Complete(7)

	require.Equal(t, 10, metric.Budget)
	require.Equal(t, 2, metric.Iterations)
	require.Equal(t, 1, metric.Expansions)
	require.Equal(t, 1, metric.Terminals)
	require.Equal(t, 1, metric.Playouts)
	require.Equal(t, 7, metric.TreeSize)
	require.True(t, metric.IsTreeReused)

	c.Start(5, 0)
	require.Equal(t, 0, c.Complete(1).Iterations, "Start should reset the counters")
}
