package experiments

import (
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"mcts/engine"
	"mcts/experiments/metrics"
	"mcts/game"
	"mcts/searcher"
	"mcts/searcher/agent"
)

// Setup describes where experiment games start and how results are stored.
type Setup struct {
	NewState  func() (game.State, error)
	Games     int // Per matchup
	OutputDir string
	Chart     bool
	Seed      uint64 // 0 seeds every agent from the clock
}

// Report is what an experiment produced.
type Report struct {
	Dir     string
	Games   []metrics.GameRecord
	Summary []metrics.MatchupSummary
}

// AgentConfigs returns one agent per iteration budget, numbered from 1.
func AgentConfigs(budgets []int, explore float64, trainFromRoot bool) []metrics.AgentConfig {
	configs := make([]metrics.AgentConfig, 0, len(budgets))
	for i, iterations := range budgets {
		configs = append(configs, metrics.AgentConfig{
			ID:            i + 1,
			Iterations:    iterations,
			Explore:       explore,
			TrainFromRoot: trainFromRoot,
		})
	}
	return configs
}

// MatchUps pairs every agent with every other agent. A single agent plays
// itself.
func MatchUps(configs []metrics.AgentConfig) [][]metrics.AgentConfig {
	if len(configs) == 1 {
		return [][]metrics.AgentConfig{{configs[0], configs[0]}}
	}
	matchUps := [][]metrics.AgentConfig{}
	for i := range configs {
		for j := i + 1; j < len(configs); j++ {
			matchUps = append(matchUps, []metrics.AgentConfig{configs[i], configs[j]})
		}
	}
	return matchUps
}

// RunStrengthExperiment plays every matchup of configs and stores the
// records.
func RunStrengthExperiment(setup Setup, configs []metrics.AgentConfig) (*Report, error) {
	return runExperiment("strength", setup, configs, MatchUps(configs))
}

func runExperiment(name string, setup Setup, configs []metrics.AgentConfig, matchUps [][]metrics.AgentConfig) (*Report, error) {
	gameRecords := []metrics.GameRecord{}
	moveRecords := []metrics.MoveRecord{}

	log.Info().Msgf("starting %s experiment...", name)

	count := 0
	for mi, matchup := range matchUps {
		log.Info().Msgf("starting matchup %d of %d between agent1=%+v and agent2=%+v...", mi+1, len(matchUps), matchup[0], matchup[1])

		for i := 0; i < setup.Games; i++ {
			// Alternate the starting agent
			config1, config2 := matchup[0], matchup[1]
			if i%2 == 1 {
				config1, config2 = config2, config1
			}

			state, err := setup.NewState()
			if err != nil {
				return nil, errors.Wrap(err, "create starting position")
			}
			count++
			result, ok, gameMetric, moveMetrics, err := runGame(state, config1, config2, seedFor(setup.Seed, count))
			if err != nil {
				return nil, errors.Wrapf(err, "matchup %d game %d", mi+1, i+1)
			}

			record := metrics.GameRecord{
				ID:         uuid.New().String(),
				Matchup:    mi + 1,
				Agent1:     config1.ID,
				Agent2:     config2.ID,
				GameMetric: gameMetric,
			}
			if ok {
				switch result.Outcome {
				case game.P1.Outcome():
					record.WinnerAgent = config1.ID
				case game.P2.Outcome():
					record.WinnerAgent = config2.ID
				}
			}
			gameRecords = append(gameRecords, record)
			for _, mm := range moveMetrics {
				moveRecords = append(moveRecords, metrics.MoveRecord{
					Game:       record.ID,
					MoveMetric: mm,
				})
			}

			log.Info().Msgf("completed matchup %d of %d game %d with outcome: %s", mi+1, len(matchUps), i+1, gameMetric.Outcome)
		}
		log.Info().Msgf("completed matchup %d of %d", mi+1, len(matchUps))
	}

	log.Info().Msgf("completed %s experiment", name)

	writer, err := metrics.NewWriter(setup.OutputDir, name)
	if err != nil {
		return nil, errors.Wrap(err, "create experiment writer")
	}
	if err := writer.WriteAll(configs, gameRecords, moveRecords, setup.Chart); err != nil {
		return nil, errors.Wrap(err, "store experiment records")
	}
	log.Info().Str("dir", writer.Dir()).Msg("stored experiment records")

	return &Report{
		Dir:     writer.Dir(),
		Games:   gameRecords,
		Summary: metrics.Summarize(gameRecords),
	}, nil
}

// seedFor derives distinct reproducible seeds for the two agents of a game.
func seedFor(seed uint64, n int) [2]uint64 {
	if seed == 0 {
		return [2]uint64{}
	}
	base := seed + uint64(n)*2
	return [2]uint64{base, base + 1}
}

// runGame plays one game with config1 as P1 and config2 as P2.
func runGame(state game.State, config1, config2 metrics.AgentConfig, seeds [2]uint64) (game.Result, bool, metrics.GameMetric, []metrics.MoveMetric, error) {
	agent1 := createAgent(config1, seeds[0])
	agent2 := createAgent(config2, seeds[1])
	e := engine.LocalEngine(state, agent1, agent2)
	return e.Run()
}

func createAgent(config metrics.AgentConfig, seed uint64) *agent.MCTSAgent {
	options := []searcher.Option{
		searcher.WithExploration(config.Explore),
		searcher.WithMetrics(),
	}
	if seed > 0 {
		options = append(options, searcher.WithSeed(seed))
	}
	return agent.NewMCTSAgent(searcher.NewMCTS(options...), config.Iterations, config.TrainFromRoot)
}
