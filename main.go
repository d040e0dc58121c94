package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"mcts/config"
	"mcts/engine"
	"mcts/experiments"
	"mcts/game"
	"mcts/game/chess"
	"mcts/game/connect"
	"mcts/render"
	"mcts/searcher"
	"mcts/searcher/agent"
)

func main() {
	configPath := flag.String("config", "", "Path to a YAML config file")
	mode := flag.String("mode", "autoplay", "One of autoplay, play or experiment")
	human := flag.String("human", string(game.P1), "Player controlled from stdin in play mode")
	colored := flag.Bool("color", true, "Color board marks")
	iterations := flag.Int("iterations", 0, "Training iterations per move")
	explore := flag.Float64("explore", 0, "Exploration constant used while training")
	seed := flag.Uint64("seed", 0, "Random seed, 0 seeds from the clock")
	fromRoot := flag.Bool("from-root", false, "Train from the game root instead of the current position")
	kind := flag.String("game", "", "Game to play: connect or chess")
	size := flag.Int("size", 0, "Board size for connect")
	win := flag.Int("win", 0, "Marks in a row needed to win connect")
	fen := flag.String("fen", "", "Chess starting position")
	games := flag.Int("games", 0, "Games per matchup in experiment mode")
	tree := flag.String("tree", "", "Write the first agent's search tree as DOT to this file")
	board := flag.String("png", "", "Write the final position as PNG to this file")
	level := flag.String("log-level", "", "Log level")
	flag.Parse()

	if err := config.Init(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	cfg := config.Get()

	// Flags that were set override the config
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "iterations":
			cfg.Search.Iterations = *iterations
		case "explore":
			cfg.Search.Explore = *explore
		case "seed":
			cfg.Search.Seed = *seed
		case "from-root":
			cfg.Search.TrainFromRoot = *fromRoot
		case "game":
			cfg.Game.Kind = *kind
		case "size":
			cfg.Game.BoardSize = *size
		case "win":
			cfg.Game.WinLength = *win
		case "fen":
			cfg.Game.FEN = *fen
		case "games":
			cfg.Experiment.Games = *games
		case "tree":
			cfg.Render.TreeDOT = *tree
		case "png":
			cfg.Render.BoardPNG = *board
		case "log-level":
			cfg.Log.Level = *level
		}
	})
	if err := config.Validate(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "invalid settings: %v\n", err)
		os.Exit(1)
	}
	setupLogging(cfg.Log)

	var err error
	switch *mode {
	case "autoplay":
		err = runAutoplay(cfg, *colored)
	case "play":
		err = runPlay(cfg, game.Player(*human), *colored)
	case "experiment":
		err = runExperiment(cfg)
	default:
		err = fmt.Errorf("unknown mode %q", *mode)
	}
	if err != nil {
		log.Fatal().Err(err).Msgf("%s failed", *mode)
	}
}

func setupLogging(c config.LogConfig) {
	level, err := zerolog.ParseLevel(c.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	if c.Format == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})
	}
}

func stateFactory(c config.GameConfig) func() (game.State, error) {
	if c.Kind == config.GameChess {
		return func() (game.State, error) {
			if c.FEN == "" {
				return chess.NewState(), nil
			}
			return chess.FromFEN(c.FEN)
		}
	}
	return func() (game.State, error) {
		return connect.NewState(c.BoardSize, c.WinLength)
	}
}

func parser(kind string) agent.Parser {
	if kind == config.GameChess {
		return func(state game.State, text string) (game.Action, error) {
			return chess.ParseMove(state.(*chess.State), text)
		}
	}
	return func(state game.State, text string) (game.Action, error) {
		return connect.ParseMove(state.(*connect.State), text)
	}
}

func newAgent(c config.SearchConfig, offset uint64) *agent.MCTSAgent {
	options := []searcher.Option{searcher.WithExploration(c.Explore), searcher.WithMetrics()}
	if c.Seed > 0 {
		options = append(options, searcher.WithSeed(c.Seed+offset))
	}
	return agent.NewMCTSAgent(searcher.NewMCTS(options...), c.Iterations, c.TrainFromRoot)
}

func runAutoplay(cfg *config.Config, colored bool) error {
	state, err := stateFactory(cfg.Game)()
	if err != nil {
		return err
	}
	agent1 := newAgent(cfg.Search, 0)
	agent2 := newAgent(cfg.Search, 1)

	e := engine.LocalEngine(state, agent1, agent2)
	e.Out = os.Stdout
	e.Colored = colored
	return finish(cfg, e, agent1)
}

func runPlay(cfg *config.Config, human game.Player, colored bool) error {
	if human != game.P1 && human != game.P2 {
		return fmt.Errorf("human must be %s or %s, got %q", game.P1, game.P2, human)
	}
	state, err := stateFactory(cfg.Game)()
	if err != nil {
		return err
	}
	person := agent.NewHumanAgent(os.Stdin, os.Stdout, parser(cfg.Game.Kind))
	computer := newAgent(cfg.Search, 0)

	e := engine.LocalEngine(state, person, computer)
	if human == game.P2 {
		e = engine.LocalEngine(state, computer, person)
	}
	e.Out = os.Stdout
	e.Colored = colored
	return finish(cfg, e, computer)
}

// finish runs the game, reports the result and writes the optional files.
func finish(cfg *config.Config, e *engine.Engine, searched *agent.MCTSAgent) error {
	result, ok, gameMetric, _, err := e.Run()
	if err != nil {
		return err
	}
	if ok {
		fmt.Printf("Result: %s after %d moves in %s\n", result, gameMetric.TotalMoves, gameMetric.Duration)
	} else {
		fmt.Printf("No result after %d moves\n", gameMetric.TotalMoves)
	}
	if root := searched.Root(); root != nil {
		fmt.Printf("Root visits: %d, stats: %v\n", root.N(), root.Stats())
		if cfg.Render.TreeDOT != "" {
			if err := render.WriteTreeDOT(cfg.Render.TreeDOT, root); err != nil {
				return err
			}
			log.Info().Str("path", cfg.Render.TreeDOT).Int("nodes", root.Size()).Msg("wrote search tree")
		}
	}
	if cfg.Render.BoardPNG != "" {
		if err := render.WriteStatePNG(cfg.Render.BoardPNG, e.State); err != nil {
			return err
		}
		log.Info().Str("path", cfg.Render.BoardPNG).Msg("wrote final position")
	}
	return nil
}

func runExperiment(cfg *config.Config) error {
	setup := experiments.Setup{
		NewState:  stateFactory(cfg.Game),
		Games:     cfg.Experiment.Games,
		OutputDir: cfg.Experiment.OutputDir,
		Chart:     cfg.Experiment.Chart,
		Seed:      cfg.Search.Seed,
	}
	configs := experiments.AgentConfigs(cfg.Experiment.Agents, cfg.Search.Explore, cfg.Search.TrainFromRoot)

	report, err := experiments.RunStrengthExperiment(setup, configs)
	if err != nil {
		return err
	}
	for _, s := range report.Summary {
		fmt.Printf("agent %d vs agent %d: %d-%d with %d draws over %d games (%.1f moves on average)\n",
			s.AgentA, s.AgentB, s.WinsA, s.WinsB, s.Draws, s.Games, s.MeanMoves)
	}
	fmt.Printf("Records stored in %s\n", report.Dir)
	return nil
}
