package metrics

import (
	"time"

	"mcts/game"
)

type SearchMetric struct {
	Budget       int // Requested training iterations
	Explore      float64
	Duration     time.Duration
	Iterations   int
	Expansions   int
	Terminals    int // Iterations whose selection ended on a terminal node
	Playouts     int
	TreeSize     int
	RootVisits   int
	IsTreeReused bool
}

type MoveMetric struct {
	Step   int
	Player game.Player
	Action string
	SearchMetric
}

type GameMetric struct {
	StartingPlayer game.Player
	Outcome        game.Outcome
	StartTime      time.Time
	EndTime        time.Time
	Duration       time.Duration
	TotalMoves     int
}

type Collector interface {
	Start(budget int, explore float64)
	SetTreeReused(value bool)
	AddIteration()
	AddExpansion()
	AddTerminal()
	AddPlayout()
	Complete(treeSize int) SearchMetric
}

type collector struct {
	budget       int
	explore      float64
	startTime    time.Time
	iterations   int
	expansions   int
	terminals    int
	playouts     int
	isTreeReused bool
}

func NewCollector() Collector {
	return &collector{}
}

func (m *collector) Start(budget int, explore float64) {
	*m = collector{
		budget:    budget,
		explore:   explore,
		startTime: time.Now(),
	}
}

func (m *collector) SetTreeReused(value bool) {
	m.isTreeReused = value
}

func (m *collector) AddIteration() {
	m.iterations++
}

func (m *collector) AddExpansion() {
	m.expansions++
}

func (m *collector) AddTerminal() {
	m.terminals++
}

func (m *collector) AddPlayout() {
	m.playouts++
}

func (m *collector) Complete(treeSize int) SearchMetric {
	return SearchMetric{
		Budget:       m.budget,
		Explore:      m.explore,
		Duration:     time.Since(m.startTime),
		Iterations:   m.iterations,
		Expansions:   m.expansions,
		Terminals:    m.terminals,
		Playouts:     m.playouts,
		TreeSize:     treeSize,
		IsTreeReused: m.isTreeReused,
	}
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) Start(budget int, explore float64) {}
func (m *dummyCollector) SetTreeReused(value bool)          {}
func (m *dummyCollector) AddIteration()                     {}
func (m *dummyCollector) AddExpansion()                     {}
func (m *dummyCollector) AddTerminal()                      {}
func (m *dummyCollector) AddPlayout()                       {}
func (m *dummyCollector) Complete(treeSize int) SearchMetric {
	return SearchMetric{TreeSize: treeSize}
}
