package metrics

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"gonum.org/v1/gonum/floats"

	"mcts/game"
)

type MatchupSummary struct {
	Matchup   int
	AgentA    int
	AgentB    int
	Games     int
	WinsA     int
	WinsB     int
	Draws     int
	MeanMoves float64
}

// Summarize tallies game records per matchup, in order of first appearance.
// In self play both sides are the same agent, so wins are counted by seat:
// WinsA for P1 and WinsB for P2.
func Summarize(records []GameRecord) []MatchupSummary {
	summaries := []MatchupSummary{}
	index := map[int]int{}
	moves := [][]float64{}

	for _, record := range records {
		i, ok := index[record.Matchup]
		if !ok {
			i = len(summaries)
			index[record.Matchup] = i
			summaries = append(summaries, MatchupSummary{
				Matchup: record.Matchup,
				AgentA:  record.Agent1,
				AgentB:  record.Agent2,
			})
			moves = append(moves, nil)
		}

		s := &summaries[i]
		s.Games++
		selfPlay := s.AgentA == s.AgentB
		switch {
		case record.WinnerAgent == 0:
			s.Draws++
		case selfPlay && record.Outcome == game.P1.Outcome():
			s.WinsA++
		case selfPlay:
			s.WinsB++
		case record.WinnerAgent == s.AgentA:
			s.WinsA++
		default:
			s.WinsB++
		}
		moves[i] = append(moves[i], float64(record.TotalMoves))
	}

	for i := range summaries {
		summaries[i].MeanMoves = floats.Sum(moves[i]) / float64(len(moves[i]))
	}
	return summaries
}

func barData(values []int) []opts.BarData {
	items := make([]opts.BarData, 0, len(values))
	for _, v := range values {
		items = append(items, opts.BarData{Value: v})
	}
	return items
}

// WriteChart renders a bar chart of wins and draws per matchup to
// outcomes.html.
func (w *Writer) WriteChart(summaries []MatchupSummary) error {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Outcomes per matchup",
			Subtitle: "agent A vs agent B",
		}),
	)

	labels := make([]string, 0, len(summaries))
	winsA := make([]int, 0, len(summaries))
	winsB := make([]int, 0, len(summaries))
	draws := make([]int, 0, len(summaries))
	for _, s := range summaries {
		labels = append(labels, fmt.Sprintf("%d vs %d", s.AgentA, s.AgentB))
		winsA = append(winsA, s.WinsA)
		winsB = append(winsB, s.WinsB)
		draws = append(draws, s.Draws)
	}

	bar.SetXAxis(labels).
		AddSeries("agent A wins", barData(winsA)).
		AddSeries("agent B wins", barData(winsB)).
		AddSeries("draws", barData(draws))

	page := components.NewPage()
	page.AddCharts(bar)

	f, err := os.Create(filepath.Join(w.baseDir, "outcomes.html"))
	if err != nil {
		return fmt.Errorf("failed to create chart file: %w", err)
	}
	defer f.Close()

	if err = page.Render(f); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}
