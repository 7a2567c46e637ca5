package dashboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"credinews/models"
)

type fakeChart struct {
	name     string
	data     models.ChartSeries
	palette  Palette
	disposed bool
}

func (c *fakeChart) Dispose() { c.disposed = true }

func newRecordingFactory() (ChartFactory, *[]*fakeChart) {
	created := &[]*fakeChart{}
	factory := func(name string, data models.ChartSeries, palette Palette) Chart {
		c := &fakeChart{name: name, data: data, palette: palette}
		*created = append(*created, c)
		return c
	}
	return factory, created
}

func someSeries() models.ChartSeries {
	return models.ChartSeries{
		Labels: []string{"Mon", "Tue", "Wed"},
		Values: []float64{12, 8, 15},
	}
}

func TestUpdateChartBuildsInstance(t *testing.T) {
	factory, created := newRecordingFactory()
	s := NewChartSync(factory)

	s.UpdateChart(ChartDetectionRate, someSeries(), ModeLight)

	require.Len(t, *created, 1)
	assert.True(t, s.Has(ChartDetectionRate))
	assert.False(t, (*created)[0].disposed)
}

func TestUpdateChartDisposesBeforeRebuild(t *testing.T) {
	factory, created := newRecordingFactory()
	s := NewChartSync(factory)

	s.UpdateChart(ChartCategory, someSeries(), ModeLight)
	s.UpdateChart(ChartCategory, someSeries(), ModeLight)

	require.Len(t, *created, 2)
	assert.True(t, (*created)[0].disposed, "old instance must be disposed on rebuild")
	assert.False(t, (*created)[1].disposed)
}

func TestUpdateChartEmptyDataIsNoOp(t *testing.T) {
	factory, created := newRecordingFactory()
	s := NewChartSync(factory)

	s.UpdateChart(ChartCategory, someSeries(), ModeLight)
	s.UpdateChart(ChartCategory, models.ChartSeries{}, ModeLight)

	require.Len(t, *created, 1, "empty data must not rebuild")
	assert.False(t, (*created)[0].disposed, "prior chart stays up")
	assert.True(t, s.Has(ChartCategory))
}

func TestUpdateChartPartiallyEmptyIsNoOp(t *testing.T) {
	factory, created := newRecordingFactory()
	s := NewChartSync(factory)

	s.UpdateChart(ChartCategory, models.ChartSeries{Labels: []string{"a"}}, ModeLight)
	assert.Empty(t, *created, "labels without values is empty data")
}

func TestThemeChangeRebuildsWithNewPalette(t *testing.T) {
	factory, created := newRecordingFactory()
	s := NewChartSync(factory)

	s.UpdateChart(ChartSourceCredibility, someSeries(), ModeLight)
	s.UpdateChart(ChartSourceCredibility, someSeries(), ModeDark)

	require.Len(t, *created, 2)
	assert.NotEqual(t, (*created)[0].palette, (*created)[1].palette)
	assert.Equal(t, (*created)[0].data, (*created)[1].data, "mode affects colors only, never series values")
	assert.Equal(t, ModeDark, s.Mode())
}

func TestUpdateAllCoversThreeCharts(t *testing.T) {
	factory, created := newRecordingFactory()
	s := NewChartSync(factory)

	s.UpdateAll(&models.TrendsData{
		DetectionRateChart:     someSeries(),
		CategoryChart:          someSeries(),
		SourceCredibilityChart: someSeries(),
	}, ModeLight)

	assert.Len(t, *created, 3)
	assert.True(t, s.Has(ChartDetectionRate))
	assert.True(t, s.Has(ChartCategory))
	assert.True(t, s.Has(ChartSourceCredibility))
}

func TestDisposeAll(t *testing.T) {
	factory, created := newRecordingFactory()
	s := NewChartSync(factory)

	s.UpdateChart(ChartCategory, someSeries(), ModeLight)
	s.DisposeAll()

	assert.True(t, (*created)[0].disposed)
	assert.False(t, s.Has(ChartCategory))
}
