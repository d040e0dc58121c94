package metrics

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/hashicorp/go-multierror"
)

type AgentConfig struct {
	ID            int
	Iterations    int
	Explore       float64
	TrainFromRoot bool
}

type GameRecord struct {
	ID          string // uuid
	Matchup     int
	Agent1      int // AgentConfig.ID playing P1
	Agent2      int // AgentConfig.ID playing P2
	WinnerAgent int // AgentConfig.ID, 0 for a draw or an unfinished game
	GameMetric
}

type MoveRecord struct {
	Game string // GameRecord.ID
	MoveMetric
}

type Writer struct {
	baseDir string
}

// NewWriter creates a timestamped directory for one experiment run.
func NewWriter(outputDir, name string) (*Writer, error) {
	timestamp := time.Now().UTC().Format(time.RFC3339)
	baseDir := filepath.Join(outputDir, name, timestamp)
	err := os.MkdirAll(baseDir, 0755)
	if err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	return &Writer{
		baseDir: baseDir,
	}, nil
}

func (w *Writer) Dir() string {
	return w.baseDir
}

func (w *Writer) writeCSV(file string, header []string, rows [][]string) error {
	path := filepath.Join(w.baseDir, file)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", file, err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	err = writer.Write(header)
	if err != nil {
		return fmt.Errorf("failed to write %s header: %w", file, err)
	}
	for _, row := range rows {
		err = writer.Write(row)
		if err != nil {
			return fmt.Errorf("failed to write %s row: %w", file, err)
		}
	}

	writer.Flush()
	if err = writer.Error(); err != nil {
		return fmt.Errorf("failed to flush %s: %w", file, err)
	}
	return nil
}

func (w *Writer) WriteAgentConfigs(configs []AgentConfig) error {
	header := []string{"id", "iterations", "explore", "train_from_root"}
	rows := make([][]string, 0, len(configs))
	for _, config := range configs {
		rows = append(rows, []string{
			strconv.Itoa(config.ID),
			strconv.Itoa(config.Iterations),
			strconv.FormatFloat(config.Explore, 'f', -1, 64),
			strconv.FormatBool(config.TrainFromRoot),
		})
	}
	return w.writeCSV("agent_configs.csv", header, rows)
}

func (w *Writer) WriteGameRecords(records []GameRecord) error {
	header := []string{"id", "matchup", "agent1", "agent2", "starting_player", "outcome", "winner_agent", "start_time", "end_time", "duration", "total_moves"}
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		rows = append(rows, []string{
			record.ID,
			strconv.Itoa(record.Matchup),
			strconv.Itoa(record.Agent1),
			strconv.Itoa(record.Agent2),
			string(record.StartingPlayer),
			string(record.Outcome),
			strconv.Itoa(record.WinnerAgent),
			record.StartTime.Format(time.RFC3339),
			record.EndTime.Format(time.RFC3339),
			record.Duration.String(),
			strconv.Itoa(record.TotalMoves),
		})
	}
	return w.writeCSV("game_records.csv", header, rows)
}

func (w *Writer) WriteMoveRecords(records []MoveRecord) error {
	header := []string{"game", "step", "player", "action", "root_visits", "duration", "iterations", "expansions", "terminals", "playouts", "tree_size", "is_tree_reused"}
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		rows = append(rows, []string{
			record.Game,
			strconv.Itoa(record.Step),
			string(record.Player),
			record.Action,
			strconv.Itoa(record.RootVisits),
			record.Duration.String(),
			strconv.Itoa(record.Iterations),
			strconv.Itoa(record.Expansions),
			strconv.Itoa(record.Terminals),
			strconv.Itoa(record.Playouts),
			strconv.Itoa(record.TreeSize),
			strconv.FormatBool(record.IsTreeReused),
		})
	}
	return w.writeCSV("move_records.csv", header, rows)
}

// WriteAll stores every record file and, optionally, the outcome chart. It
// attempts every file and reports all failures together.
func (w *Writer) WriteAll(configs []AgentConfig, games []GameRecord, moves []MoveRecord, chart bool) error {
	var result *multierror.Error
	if err := w.WriteAgentConfigs(configs); err != nil {
		result = multierror.Append(result, err)
	}
	if err := w.WriteGameRecords(games); err != nil {
		result = multierror.Append(result, err)
	}
	if err := w.WriteMoveRecords(moves); err != nil {
		result = multierror.Append(result, err)
	}
	if chart {
		if err := w.WriteChart(Summarize(games)); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}
