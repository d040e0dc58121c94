package config

import (
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Search     SearchConfig     `mapstructure:"search"`
	Game       GameConfig       `mapstructure:"game"`
	Experiment ExperimentConfig `mapstructure:"experiment"`
	Render     RenderConfig     `mapstructure:"render"`
	Log        LogConfig        `mapstructure:"log"`
}

// SearchConfig holds search settings shared by every MCTS agent
type SearchConfig struct {
	Iterations    int     `mapstructure:"iterations"`
	Explore       float64 `mapstructure:"explore"`
	Seed          uint64  `mapstructure:"seed"` // 0 seeds from the clock
	TrainFromRoot bool    `mapstructure:"train_from_root"`
}

// GameConfig selects the game and its starting position
type GameConfig struct {
	Kind      string `mapstructure:"kind"`
	BoardSize int    `mapstructure:"board_size"`
	WinLength int    `mapstructure:"win_length"`
	FEN       string `mapstructure:"fen"`
}

// ExperimentConfig holds batch matchup settings
type ExperimentConfig struct {
	Games     int    `mapstructure:"games"` // Per matchup
	OutputDir string `mapstructure:"output_dir"`
	Chart     bool   `mapstructure:"chart"`
	Agents    []int  `mapstructure:"agents"` // Iteration budget per agent
}

// RenderConfig holds optional output files, empty to skip
type RenderConfig struct {
	TreeDOT  string `mapstructure:"tree_dot"`
	BoardPNG string `mapstructure:"board_png"`
}

// LogConfig holds logging settings
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

const (
	GameConnect = "connect"
	GameChess   = "chess"
)

var (
	// Global config instance
	cfg *Config
	v   *viper.Viper
)

// setViperDefaults sets all default values using Viper's SetDefault
func setViperDefaults(v *viper.Viper) {
	// Search defaults
	v.SetDefault("search.iterations", 200)
	v.SetDefault("search.explore", 1.4)
	v.SetDefault("search.seed", 0)
	v.SetDefault("search.train_from_root", false)

	// Game defaults
	v.SetDefault("game.kind", GameConnect)
	v.SetDefault("game.board_size", 3)
	v.SetDefault("game.win_length", 3)
	v.SetDefault("game.fen", "")

	// Experiment defaults
	v.SetDefault("experiment.games", 10)
	v.SetDefault("experiment.output_dir", "experiments")
	v.SetDefault("experiment.chart", true)
	v.SetDefault("experiment.agents", []int{50, 400})

	// Render defaults
	v.SetDefault("render.tree_dot", "")
	v.SetDefault("render.board_png", "")

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
}

// Init initializes the configuration
func Init(configPath string) error {
	v = viper.New()

	// Set defaults before loading any config
	setViperDefaults(v)

	// Set config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// Default config locations
		v.SetConfigName("mcts")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Set environment variable prefix
	v.SetEnvPrefix("MCTS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || configPath != "" {
			return fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; use defaults
	}

	// Unmarshal into config struct
	cfg = &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("unable to decode config into struct: %w", err)
	}

	// Validate configuration
	if err := Validate(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	return nil
}

// Get returns the global config instance
func Get() *Config {
	if cfg == nil {
		// Initialize with defaults if not already initialized
		if err := Init(""); err != nil {
			panic("failed to initialize config with defaults: " + err.Error())
		}
	}
	return cfg
}

// Validate reports every invalid setting at once
func Validate(c *Config) error {
	var result *multierror.Error

	if c.Search.Iterations <= 0 {
		result = multierror.Append(result, fmt.Errorf("search.iterations must be positive, got %d", c.Search.Iterations))
	}
	if c.Search.Explore < 0 {
		result = multierror.Append(result, fmt.Errorf("search.explore must not be negative, got %g", c.Search.Explore))
	}

	switch c.Game.Kind {
	case GameConnect:
		if c.Game.BoardSize <= 0 {
			result = multierror.Append(result, fmt.Errorf("game.board_size must be positive, got %d", c.Game.BoardSize))
		}
		if c.Game.WinLength <= 0 || c.Game.WinLength > c.Game.BoardSize {
			result = multierror.Append(result, fmt.Errorf("game.win_length must be in [1, board_size], got %d", c.Game.WinLength))
		}
	case GameChess:
	default:
		result = multierror.Append(result, fmt.Errorf("game.kind must be %q or %q, got %q", GameConnect, GameChess, c.Game.Kind))
	}

	if c.Experiment.Games <= 0 {
		result = multierror.Append(result, fmt.Errorf("experiment.games must be positive, got %d", c.Experiment.Games))
	}
	if len(c.Experiment.Agents) == 0 {
		result = multierror.Append(result, fmt.Errorf("experiment.agents must list at least one iteration budget"))
	}
	for i, iterations := range c.Experiment.Agents {
		if iterations <= 0 {
			result = multierror.Append(result, fmt.Errorf("experiment.agents[%d] must be positive, got %d", i, iterations))
		}
	}

	switch c.Log.Format {
	case "console", "json":
	default:
		result = multierror.Append(result, fmt.Errorf("log.format must be console or json, got %q", c.Log.Format))
	}

	return result.ErrorOrNil()
}
