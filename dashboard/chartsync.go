package dashboard

import (
	"sync"

	"credinews/models"
)

// Logical chart names owned by the dashboard.
const (
	ChartDetectionRate     = "detectionRate"
	ChartCategory          = "category"
	ChartSourceCredibility = "sourceCredibility"
)

// ColorMode selects the presentation palette; it never touches series data.
type ColorMode string

const (
	ModeLight ColorMode = "light"
	ModeDark  ColorMode = "dark"
)

// Palette carries the mode-dependent presentation colors handed to the
// chart library.
type Palette struct {
	Text    string
	Grid    string
	Tooltip string
}

func PaletteFor(mode ColorMode) Palette {
	if mode == ModeDark {
		return Palette{Text: "#E5E7EB", Grid: "#374151", Tooltip: "#1F2937"}
	}
	return Palette{Text: "#374151", Grid: "#E5E7EB", Tooltip: "#FFFFFF"}
}

// Chart is a live instance owned by ChartSync. Dispose releases whatever
// the rendering collaborator holds for it.
type Chart interface {
	Dispose()
}

// ChartFactory builds a chart from fresh series data. The rendering
// library sits behind this seam.
type ChartFactory func(name string, data models.ChartSeries, palette Palette) Chart

// ChartSync keeps at most one live chart per logical name. Charts are
// destroyed and rebuilt on every refresh and on theme change, never
// patched in place.
type ChartSync struct {
	mu      sync.Mutex
	factory ChartFactory
	charts  map[string]Chart
	mode    ColorMode
}

func NewChartSync(factory ChartFactory) *ChartSync {
	return &ChartSync{
		factory: factory,
		charts:  make(map[string]Chart),
		mode:    ModeLight,
	}
}

// UpdateChart replaces the named chart with one built from data. Empty
// data is a no-op: a transient fetch failure must not blank a
// previously-good view.
func (s *ChartSync) UpdateChart(name string, data models.ChartSeries, mode ColorMode) {
	if data.Empty() {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if old, ok := s.charts[name]; ok {
		old.Dispose()
	}
	s.charts[name] = s.factory(name, data, PaletteFor(mode))
	s.mode = mode
}

// UpdateAll rebuilds the three dashboard charts from one trends payload.
func (s *ChartSync) UpdateAll(data *models.TrendsData, mode ColorMode) {
	if data == nil {
		return
	}
	s.UpdateChart(ChartDetectionRate, data.DetectionRateChart, mode)
	s.UpdateChart(ChartCategory, data.CategoryChart, mode)
	s.UpdateChart(ChartSourceCredibility, data.SourceCredibilityChart, mode)
}

// Has reports whether a live chart exists for the name.
func (s *ChartSync) Has(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.charts[name]
	return ok
}

// Mode returns the palette mode of the most recent rebuild.
func (s *ChartSync) Mode() ColorMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// DisposeAll tears down every live chart, e.g. on page teardown.
func (s *ChartSync) DisposeAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for name, chart := range s.charts {
		chart.Dispose()
		delete(s.charts, name)
	}
}
