package eda

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"math"
	"testing"

	"fraudeda/domain/chart"
	"fraudeda/domain/dataset"
	"fraudeda/internal/errors"
	"fraudeda/internal/testkit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockRenderer records chart specs instead of drawing them
type MockRenderer struct {
	mock.Mock
}

func (m *MockRenderer) Histogram(h chart.Histogram) (string, error) {
	args := m.Called(h)
	return args.String(0), args.Error(1)
}

func (m *MockRenderer) BoxPlot(b chart.BoxPlot) (string, error) {
	args := m.Called(b)
	return args.String(0), args.Error(1)
}

func (m *MockRenderer) Density(d chart.Density) (string, error) {
	args := m.Called(d)
	return args.String(0), args.Error(1)
}

func (m *MockRenderer) Scatter(s chart.Scatter) (string, error) {
	args := m.Called(s)
	return args.String(0), args.Error(1)
}

func (m *MockRenderer) Heatmap(h chart.Heatmap) (string, error) {
	args := m.Called(h)
	return args.String(0), args.Error(1)
}

func (m *MockRenderer) CountPlot(c chart.CountPlot) (string, error) {
	args := m.Called(c)
	return args.String(0), args.Error(1)
}

func newMockRenderer() *MockRenderer {
	m := &MockRenderer{}
	m.On("Histogram", mock.Anything).Return("histogram.png", nil).Maybe()
	m.On("BoxPlot", mock.Anything).Return("boxplot.png", nil).Maybe()
	m.On("Density", mock.Anything).Return("kde.png", nil).Maybe()
	m.On("Scatter", mock.Anything).Return("scatter.png", nil).Maybe()
	m.On("Heatmap", mock.Anything).Return("correlation.png", nil).Maybe()
	m.On("CountPlot", mock.Anything).Return("countplot.png", nil).Maybe()
	return m
}

func transactions(t *testing.T) *dataset.Dataset {
	t.Helper()
	ds, err := dataset.New(
		dataset.NewNumericColumn("amount", []float64{12.5, 40, math.NaN(), 8, 950}),
		dataset.NewNumericColumn("hour", []float64{9, 13, 18, 21, 2}),
		dataset.NewTextColumn("merchant", []string{"grocery", "fuel", "grocery", "", "travel"}),
		dataset.NewBooleanColumn("card_present", []bool{true, true, false, true, false}),
	)
	require.NoError(t, err)
	return ds
}

func TestNewTabularAnalyzerCopiesDataset(t *testing.T) {
	ds := transactions(t)
	analyzer := NewTabularAnalyzer(ds, nil)

	col, _ := ds.Column("amount")
	col.Numbers[0] = -1

	bound, _ := analyzer.Dataset().Column("amount")
	assert.Equal(t, 12.5, bound.Numbers[0])
}

func TestUnivariate_HistogramEveryColumn(t *testing.T) {
	ds, err := testkit.NewTransactionGenerator(testkit.DefaultTransactionConfig()).Generate()
	require.NoError(t, err)
	renderer := newMockRenderer()
	analyzer := NewTabularAnalyzer(ds, renderer)

	for _, col := range ds.Columns() {
		path, err := analyzer.Univariate(col.Name, PlotHistogram, 15)
		require.NoError(t, err, col.Name)
		assert.Equal(t, "histogram.png", path)
	}
	renderer.AssertCalled(t, "Histogram", mock.MatchedBy(func(h chart.Histogram) bool {
		return h.Column == "amount" && h.Bins == 15 && h.Title == "Histogram of amount" && h.YLabel == "Frequency"
	}))
}

func TestUnivariate_DropsMissingAndDefaultsBins(t *testing.T) {
	renderer := newMockRenderer()
	analyzer := NewTabularAnalyzer(transactions(t), renderer)

	_, err := analyzer.Univariate("amount", PlotHistogram, 0)
	require.NoError(t, err)

	renderer.AssertCalled(t, "Histogram", mock.MatchedBy(func(h chart.Histogram) bool {
		return h.Bins == DefaultBins && len(h.Values) == 4
	}))
}

func TestUnivariate_BoxPlotAndDensity(t *testing.T) {
	renderer := newMockRenderer()
	analyzer := NewTabularAnalyzer(transactions(t), renderer)

	path, err := analyzer.Univariate("hour", PlotBoxPlot, 0)
	require.NoError(t, err)
	assert.Equal(t, "boxplot.png", path)

	path, err = analyzer.Univariate("hour", PlotKDE, 0)
	require.NoError(t, err)
	assert.Equal(t, "kde.png", path)

	renderer.AssertCalled(t, "BoxPlot", mock.MatchedBy(func(b chart.BoxPlot) bool {
		return b.Title == "Boxplot of hour" && len(b.Values) == 5
	}))
	renderer.AssertCalled(t, "Density", mock.MatchedBy(func(d chart.Density) bool {
		return d.Title == "Density Plot of hour" && len(d.Curve) == densityGridSize
	}))
}

func TestUnivariate_Errors(t *testing.T) {
	renderer := newMockRenderer()
	analyzer := NewTabularAnalyzer(transactions(t), renderer)

	_, err := analyzer.Univariate("nope", PlotHistogram, 10)
	assert.True(t, stderrors.Is(err, errors.ErrUnknownColumn))

	for _, plotType := range []string{"pie", "", "Histogram", "violin"} {
		_, err = analyzer.Univariate("amount", plotType, 10)
		assert.True(t, stderrors.Is(err, errors.ErrInvalidOption), plotType)
	}

	for _, plotType := range []string{PlotBoxPlot, PlotKDE} {
		_, err = analyzer.Univariate("merchant", plotType, 10)
		assert.True(t, stderrors.Is(err, errors.ErrInvalidOption), plotType)
	}

	renderer.AssertNotCalled(t, "Histogram", mock.Anything)
	renderer.AssertNotCalled(t, "BoxPlot", mock.Anything)
	renderer.AssertNotCalled(t, "Density", mock.Anything)
}

func TestUnivariate_TextHistogramCountsCategories(t *testing.T) {
	renderer := newMockRenderer()
	analyzer := NewTabularAnalyzer(transactions(t), renderer)

	path, err := analyzer.Univariate("merchant", PlotHistogram, 10)
	require.NoError(t, err)
	assert.Equal(t, "histogram.png", path)

	renderer.AssertCalled(t, "Histogram", mock.MatchedBy(func(h chart.Histogram) bool {
		return h.Column == "merchant" && h.Title == "Histogram of merchant" && h.Values == nil &&
			assert.ObjectsAreEqual([]string{"grocery", "fuel", "travel"}, h.Categories) &&
			assert.ObjectsAreEqual([]int{2, 1, 1}, h.Counts)
	}))
}

func TestUnivariate_DensityOfConstantColumnIsEmpty(t *testing.T) {
	ds, err := dataset.New(
		dataset.NewNumericColumn("flat", []float64{4, 4, 4}),
		dataset.NewNumericColumn("single", []float64{math.NaN(), 7, math.NaN()}),
	)
	require.NoError(t, err)
	renderer := newMockRenderer()
	analyzer := NewTabularAnalyzer(ds, renderer)

	for _, name := range []string{"flat", "single"} {
		path, err := analyzer.Univariate(name, PlotKDE, 0)
		require.NoError(t, err, name)
		assert.Equal(t, "kde.png", path)
	}
	renderer.AssertCalled(t, "Density", mock.MatchedBy(func(d chart.Density) bool {
		return d.Column == "flat" && len(d.Curve) == 0
	}))
}

func TestUnivariate_WithoutRenderer(t *testing.T) {
	analyzer := NewTabularAnalyzer(transactions(t), nil)

	_, err := analyzer.Univariate("amount", PlotHistogram, 10)
	assert.Equal(t, errors.CodeInternalError, errors.GetCode(err))
}

func TestMultivariate_Scatter(t *testing.T) {
	renderer := newMockRenderer()
	analyzer := NewTabularAnalyzer(transactions(t), renderer)

	path, err := analyzer.Multivariate("amount", "hour", PlotScatter)
	require.NoError(t, err)
	assert.Equal(t, "scatter.png", path)

	renderer.AssertCalled(t, "Scatter", mock.MatchedBy(func(s chart.Scatter) bool {
		return s.Title == "Scatter Plot: amount vs hour" && len(s.Points) == 4 &&
			s.XLabel == "amount" && s.YLabel == "hour"
	}))
}

func TestMultivariate_CorrelationHeatmap(t *testing.T) {
	ds, err := dataset.New(
		dataset.NewNumericColumn("x", []float64{1, 2, 3, 4}),
		dataset.NewNumericColumn("y", []float64{2, 4, 6, 8}),
	)
	require.NoError(t, err)
	renderer := newMockRenderer()
	analyzer := NewTabularAnalyzer(ds, renderer)

	_, err = analyzer.Multivariate("x", "y", PlotCorrelation)
	require.NoError(t, err)

	renderer.AssertCalled(t, "Heatmap", mock.MatchedBy(func(h chart.Heatmap) bool {
		return h.Title == "Correlation: 1.00" &&
			assert.ObjectsAreEqual([]string{"x", "y"}, h.Names) &&
			math.Abs(h.Matrix[0][1]-1) < 1e-12 && h.Matrix[0][0] == 1 && h.Matrix[1][1] == 1
	}))
}

func TestMultivariate_Errors(t *testing.T) {
	analyzer := NewTabularAnalyzer(transactions(t), newMockRenderer())

	_, err := analyzer.Multivariate("amount", "missing", PlotScatter)
	assert.True(t, stderrors.Is(err, errors.ErrUnknownColumn))

	_, err = analyzer.Multivariate("missing", "amount", PlotScatter)
	assert.True(t, stderrors.Is(err, errors.ErrUnknownColumn))

	_, err = analyzer.Multivariate("amount", "hour", "spearman")
	assert.True(t, stderrors.Is(err, errors.ErrInvalidOption))

	_, err = analyzer.Multivariate("amount", "merchant", PlotScatter)
	assert.True(t, stderrors.Is(err, errors.ErrInvalidOption))
}

func TestCategorical_TextColumn(t *testing.T) {
	values := make([]string, 50)
	for i := range values {
		switch {
		case i < 25:
			values[i] = "online"
		case i < 40:
			values[i] = "grocery"
		default:
			values[i] = "travel"
		}
	}
	ds, err := dataset.New(dataset.NewTextColumn("category", values))
	require.NoError(t, err)
	renderer := newMockRenderer()
	analyzer := NewTabularAnalyzer(ds, renderer)

	path, err := analyzer.Categorical("category")
	require.NoError(t, err)
	assert.Equal(t, "countplot.png", path)

	renderer.AssertCalled(t, "CountPlot", mock.MatchedBy(func(c chart.CountPlot) bool {
		return assert.ObjectsAreEqual([]string{"online", "grocery", "travel"}, c.Categories) &&
			assert.ObjectsAreEqual([]int{25, 15, 10}, c.Counts) &&
			c.Title == "Count Plot of category"
	}))
}

func TestCategorical_NumericColumns(t *testing.T) {
	many := make([]float64, 1000)
	few := make([]float64, 1000)
	for i := range many {
		many[i] = float64(i)
		few[i] = float64(i % 19)
	}
	ds, err := dataset.New(
		dataset.NewNumericColumn("amount", many),
		dataset.NewNumericColumn("bucket", few),
	)
	require.NoError(t, err)
	analyzer := NewTabularAnalyzer(ds, newMockRenderer())

	_, err = analyzer.Categorical("amount")
	assert.True(t, stderrors.Is(err, errors.ErrNotCategorical))

	_, err = analyzer.Categorical("bucket")
	assert.NoError(t, err)

	_, err = analyzer.Categorical("nope")
	assert.True(t, stderrors.Is(err, errors.ErrUnknownColumn))
}

func TestCategorical_TwentyDistinctIsNotCategorical(t *testing.T) {
	values := make([]float64, 40)
	for i := range values {
		values[i] = float64(i % CategoricalLimit)
	}
	ds, err := dataset.New(dataset.NewNumericColumn("code", values))
	require.NoError(t, err)

	_, err = NewTabularAnalyzer(ds, newMockRenderer()).Categorical("code")
	assert.True(t, stderrors.Is(err, errors.ErrNotCategorical))
}

func TestValueCountsSkipsMissingAndKeepsTieOrder(t *testing.T) {
	analyzer := NewTabularAnalyzer(transactions(t), nil)

	categories, counts, err := analyzer.ValueCounts("merchant")
	require.NoError(t, err)
	assert.Equal(t, []string{"grocery", "fuel", "travel"}, categories)
	assert.Equal(t, []int{2, 1, 1}, counts)

	categories, counts, err = analyzer.ValueCounts("card_present")
	require.NoError(t, err)
	assert.Equal(t, []string{"true", "false"}, categories)
	assert.Equal(t, []int{3, 2}, counts)
}

func TestUnknownColumnForEveryOperation(t *testing.T) {
	analyzer := NewTabularAnalyzer(transactions(t), newMockRenderer())
	name := "does_not_exist"

	ops := map[string]func() error{
		"univariate": func() error { _, err := analyzer.Univariate(name, PlotHistogram, 10); return err },
		"multivariate": func() error {
			_, err := analyzer.Multivariate(name, "amount", PlotScatter)
			return err
		},
		"categorical": func() error { _, err := analyzer.Categorical(name); return err },
		"zscore":      func() error { _, err := analyzer.DetectOutliers(name, MethodZScore, 3); return err },
		"iqr":         func() error { _, err := analyzer.DetectOutliers(name, MethodIQR, 0); return err },
		"value_counts": func() error {
			_, _, err := analyzer.ValueCounts(name)
			return err
		},
	}
	for op, fn := range ops {
		err := fn()
		assert.True(t, stderrors.Is(err, errors.ErrUnknownColumn), fmt.Sprintf("%s: %v", op, err))
	}
}

func TestRendererErrorPropagates(t *testing.T) {
	renderer := &MockRenderer{}
	renderer.On("Histogram", mock.Anything).Return("", stderrors.New("disk full"))
	analyzer := NewTabularAnalyzer(transactions(t), renderer, WithOutput(&bytes.Buffer{}))

	_, err := analyzer.Univariate("amount", PlotHistogram, 5)
	assert.EqualError(t, err, "disk full")
}
