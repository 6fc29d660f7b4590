package plot

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"fraudeda/domain/chart"
	"fraudeda/internal/config"
	"fraudeda/internal/errors"
	"fraudeda/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ ports.ChartRenderer = (*Renderer)(nil)

func newTestRenderer(t *testing.T, format string) (*Renderer, string) {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "plots")
	r, err := NewRenderer(config.EDAConfig{OutputDir: dir, Format: format, Width: 6, Height: 3})
	require.NoError(t, err)
	return r, dir
}

func assertNonEmptyFile(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "histogram_amount.png", FileName(chart.KindHistogram, "png", "amount"))
	assert.Equal(t, "scatter_amount_hour.svg", FileName(chart.KindScatter, "svg", "amount", "hour"))
	assert.Equal(t, "countplot_merchant_category.png", FileName(chart.KindCount, "png", "merchant category"))
	assert.Equal(t, "kde_column.png", FileName(chart.KindDensity, "png", "%%"))
}

func TestRendererWritesEveryChartKind(t *testing.T) {
	r, dir := newTestRenderer(t, "png")
	values := []float64{1, 2, 2, 3, 3, 3, 4, 4, 5, 40}

	path, err := r.Histogram(chart.Histogram{
		Labels: chart.Labels{Title: "Histogram of amount", XLabel: "amount", YLabel: "Frequency"},
		Column: "amount", Values: values, Bins: 5,
	})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "histogram_amount.png"), path)
	assertNonEmptyFile(t, path)

	path, err = r.BoxPlot(chart.BoxPlot{Labels: chart.Labels{Title: "Boxplot of amount"}, Column: "amount", Values: values})
	require.NoError(t, err)
	assertNonEmptyFile(t, path)

	path, err = r.Density(chart.Density{
		Column: "amount",
		Curve:  []chart.Point{{X: 0, Y: 0}, {X: 1, Y: 0.4}, {X: 2, Y: 0.1}},
	})
	require.NoError(t, err)
	assertNonEmptyFile(t, path)

	path, err = r.Scatter(chart.Scatter{
		XColumn: "amount", YColumn: "hour",
		Points: []chart.Point{{X: 1, Y: 2}, {X: 3, Y: 4}},
	})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "scatter_amount_hour.png"), path)
	assertNonEmptyFile(t, path)

	path, err = r.Heatmap(chart.Heatmap{
		Labels: chart.Labels{Title: "Correlation: 0.50"},
		Names:  []string{"amount", "hour"},
		Matrix: [][]float64{{1, 0.5}, {0.5, 1}},
	})
	require.NoError(t, err)
	assertNonEmptyFile(t, path)

	path, err = r.CountPlot(chart.CountPlot{
		Column:     "merchant",
		Categories: []string{"grocery", "fuel", "travel"},
		Counts:     []int{10, 5, 1},
	})
	require.NoError(t, err)
	assertNonEmptyFile(t, path)
}

func TestRendererCategoricalHistogram(t *testing.T) {
	r, dir := newTestRenderer(t, "png")

	path, err := r.Histogram(chart.Histogram{
		Labels:     chart.Labels{Title: "Histogram of merchant", XLabel: "merchant", YLabel: "Frequency"},
		Column:     "merchant",
		Bins:       30,
		Categories: []string{"grocery", "fuel", "travel"},
		Counts:     []int{2, 1, 1},
	})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "histogram_merchant.png"), path)
	assertNonEmptyFile(t, path)
}

func TestRendererSVGFormat(t *testing.T) {
	r, dir := newTestRenderer(t, "SVG")

	path, err := r.Histogram(chart.Histogram{Column: "x", Values: []float64{1, 1, 1}, Bins: 3})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "histogram_x.svg"), path)
	assertNonEmptyFile(t, path)
}

func TestRendererEdgeCases(t *testing.T) {
	r, _ := newTestRenderer(t, "png")

	path, err := r.Histogram(chart.Histogram{Column: "empty", Bins: 10})
	require.NoError(t, err)
	assertNonEmptyFile(t, path)

	path, err = r.BoxPlot(chart.BoxPlot{Column: "empty"})
	require.NoError(t, err)
	assertNonEmptyFile(t, path)

	path, err = r.Histogram(chart.Histogram{Column: "inf", Values: []float64{1, math.Inf(1), 2, math.NaN(), math.Inf(-1)}, Bins: 4})
	require.NoError(t, err)
	assertNonEmptyFile(t, path)

	_, err = r.Histogram(chart.Histogram{Column: "nobins", Values: []float64{1, 2}})
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))

	_, err = r.Histogram(chart.Histogram{Column: "c", Categories: []string{"a", "b"}, Counts: []int{1}})
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))

	_, err = r.Heatmap(chart.Heatmap{Names: []string{"a", "b"}, Matrix: [][]float64{{1}}})
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))

	_, err = r.CountPlot(chart.CountPlot{Column: "c", Categories: []string{"a"}, Counts: nil})
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))

	path, err = r.Heatmap(chart.Heatmap{Names: []string{"a", "b"}, Matrix: [][]float64{{math.NaN(), math.NaN()}, {math.NaN(), 1}}})
	require.NoError(t, err)
	assertNonEmptyFile(t, path)
}

func TestMatrixGridFlipsRows(t *testing.T) {
	g := matrixGrid{{1, 2}, {3, 4}}

	c, r := g.Dims()
	assert.Equal(t, 2, c)
	assert.Equal(t, 2, r)
	assert.Equal(t, 3.0, g.Z(0, 0))
	assert.Equal(t, 2.0, g.Z(1, 1))
}
