package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reset() {
	cfg = nil
	v = nil
}

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mcts.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestInit(t *testing.T) {
	path := writeConfig(t, `
search:
  iterations: 1000
  explore: 0.7
  seed: 42
  train_from_root: true
game:
  kind: connect
  board_size: 4
  win_length: 3
experiment:
  games: 4
  agents: [10, 20, 30]
log:
  level: debug
  format: json
`)
	reset()

	err := Init(path)
	require.NoError(t, err)

	c := Get()
	assert.Equal(t, 1000, c.Search.Iterations)
	assert.Equal(t, 0.7, c.Search.Explore)
	assert.Equal(t, uint64(42), c.Search.Seed)
	assert.True(t, c.Search.TrainFromRoot)
	assert.Equal(t, 4, c.Game.BoardSize)
	assert.Equal(t, 3, c.Game.WinLength)
	assert.Equal(t, 4, c.Experiment.Games)
	assert.Equal(t, []int{10, 20, 30}, c.Experiment.Agents)
	assert.Equal(t, "debug", c.Log.Level)
	assert.Equal(t, "json", c.Log.Format)
	assert.Equal(t, "experiments", c.Experiment.OutputDir, "Unset keys should keep defaults")
}

func TestInitWithDefaults(t *testing.T) {
	reset()
	chdir(t, t.TempDir())

	err := Init("")
	require.NoError(t, err, "Missing default config file should fall back to defaults")

	c := Get()
	assert.Equal(t, 200, c.Search.Iterations)
	assert.Equal(t, 1.4, c.Search.Explore)
	assert.Equal(t, uint64(0), c.Search.Seed)
	assert.False(t, c.Search.TrainFromRoot)
	assert.Equal(t, GameConnect, c.Game.Kind)
	assert.Equal(t, 3, c.Game.BoardSize)
	assert.Equal(t, 3, c.Game.WinLength)
	assert.Equal(t, 10, c.Experiment.Games)
	assert.True(t, c.Experiment.Chart)
	assert.Equal(t, []int{50, 400}, c.Experiment.Agents)
	assert.Equal(t, "info", c.Log.Level)
	assert.Equal(t, "console", c.Log.Format)
}

func TestInitWithEnvironment(t *testing.T) {
	reset()
	chdir(t, t.TempDir())
	t.Setenv("MCTS_SEARCH_ITERATIONS", "77")
	t.Setenv("MCTS_GAME_KIND", "chess")

	require.NoError(t, Init(""))

	assert.Equal(t, 77, Get().Search.Iterations, "Environment should override defaults")
	assert.Equal(t, GameChess, Get().Game.Kind)
}

func TestInitErrors(t *testing.T) {
	t.Run("missing explicit file", func(t *testing.T) {
		reset()

		err := Init(filepath.Join(t.TempDir(), "absent.yaml"))

		require.Error(t, err, "An explicitly requested file must exist")
	})

	t.Run("invalid values", func(t *testing.T) {
		path := writeConfig(t, `
search:
  iterations: 0
game:
  board_size: 3
  win_length: 5
`)
		reset()

		err := Init(path)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "search.iterations")
		assert.Contains(t, err.Error(), "game.win_length")
	})
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Search:     SearchConfig{Iterations: 10, Explore: 1.4},
			Game:       GameConfig{Kind: GameConnect, BoardSize: 3, WinLength: 3},
			Experiment: ExperimentConfig{Games: 1, Agents: []int{5}},
			Log:        LogConfig{Level: "info", Format: "console"},
		}
	}

	tests := []struct {
		name   string
		modify func(c *Config)
		errors int
	}{
		{"valid config", func(c *Config) {}, 0},
		{"chess ignores board settings", func(c *Config) { c.Game = GameConfig{Kind: GameChess} }, 0},
		{"negative exploration", func(c *Config) { c.Search.Explore = -1 }, 1},
		{"unknown game", func(c *Config) { c.Game.Kind = "go" }, 1},
		{"bad board", func(c *Config) { c.Game.BoardSize = 0 }, 2},
		{"no agents", func(c *Config) { c.Experiment.Agents = nil }, 1},
		{"bad agent budgets", func(c *Config) { c.Experiment.Agents = []int{0, -1} }, 2},
		{"unknown log format", func(c *Config) { c.Log.Format = "xml" }, 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := valid()
			tc.modify(c)

			err := Validate(c)

			if tc.errors == 0 {
				require.NoError(t, err)
				return
			}
			var merr interface{ WrappedErrors() []error }
			require.ErrorAs(t, err, &merr)
			assert.Len(t, merr.WrappedErrors(), tc.errors)
		})
	}
}
