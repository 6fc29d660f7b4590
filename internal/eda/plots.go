package eda

import (
	"fmt"
	"math"
	"sort"

	"fraudeda/domain/chart"
	"fraudeda/domain/dataset"
	"fraudeda/internal/errors"
	"fraudeda/internal/stats"
)

// Univariate renders a histogram, box plot or density plot of one column
// and returns the renderer's locator for the chart. Missing cells are
// dropped. bins <= 0 selects DefaultBins. A text column can only be drawn
// as a histogram, with one bar per distinct value in first-seen order.
// Columns too small for a density estimate get an empty density chart.
func (a *TabularAnalyzer) Univariate(column, plotType string, bins int) (string, error) {
	col, err := a.column(column)
	if err != nil {
		return "", err
	}
	switch plotType {
	case PlotHistogram, PlotBoxPlot, PlotKDE:
	default:
		return "", errors.InvalidOption("plot_type", plotType, PlotHistogram, PlotBoxPlot, PlotKDE)
	}
	if plotType != PlotHistogram || !col.IsText() {
		if col, err = a.numericColumn(column); err != nil {
			return "", err
		}
	}
	if err := a.requireRenderer(); err != nil {
		return "", err
	}
	if bins <= 0 {
		bins = DefaultBins
	}

	switch plotType {
	case PlotHistogram:
		h := chart.Histogram{
			Labels: chart.Labels{Title: "Histogram of " + column, XLabel: column, YLabel: "Frequency"},
			Column: column,
			Bins:   bins,
		}
		if col.IsText() {
			h.Categories, h.Counts = firstSeenCounts(col)
			a.logger.Debug("univariate histogram on text column %s (%d categories)", column, len(h.Categories))
		} else {
			h.Values = col.Floats()
			a.logger.Debug("univariate histogram on %s (%d values)", column, len(h.Values))
		}
		return a.renderer.Histogram(h)
	case PlotBoxPlot:
		return a.renderer.BoxPlot(chart.BoxPlot{
			Labels: chart.Labels{Title: "Boxplot of " + column, XLabel: column},
			Column: column,
			Values: col.Floats(),
		})
	default:
		values := col.Floats()
		var curve []chart.Point
		xs, ys, err := stats.KernelDensity(values, densityGridSize)
		if err != nil {
			a.logger.Warn("density of %s skipped: %v (%d values)", column, err, len(values))
		}
		for i := range xs {
			curve = append(curve, chart.Point{X: xs[i], Y: ys[i]})
		}
		return a.renderer.Density(chart.Density{
			Labels: chart.Labels{Title: "Density Plot of " + column, XLabel: column, YLabel: "Density"},
			Column: column,
			Curve:  curve,
		})
	}
}

// Multivariate renders a scatter plot or a Pearson correlation heat map of
// two columns, using only rows where both cells are present.
func (a *TabularAnalyzer) Multivariate(feature1, feature2, plotType string) (string, error) {
	if _, err := a.column(feature1); err != nil {
		return "", err
	}
	if _, err := a.column(feature2); err != nil {
		return "", err
	}
	switch plotType {
	case PlotScatter, PlotCorrelation:
	default:
		return "", errors.InvalidOption("plot_type", plotType, PlotScatter, PlotCorrelation)
	}
	c1, err := a.numericColumn(feature1)
	if err != nil {
		return "", err
	}
	c2, err := a.numericColumn(feature2)
	if err != nil {
		return "", err
	}
	if err := a.requireRenderer(); err != nil {
		return "", err
	}

	xs, ys := pairwiseComplete(c1.Numbers, c2.Numbers)
	labels := chart.Labels{XLabel: feature1, YLabel: feature2}

	if plotType == PlotScatter {
		labels.Title = fmt.Sprintf("Scatter Plot: %s vs %s", feature1, feature2)
		points := make([]chart.Point, len(xs))
		for i := range xs {
			points[i] = chart.Point{X: xs[i], Y: ys[i]}
		}
		return a.renderer.Scatter(chart.Scatter{Labels: labels, XColumn: feature1, YColumn: feature2, Points: points})
	}

	r, err := stats.Pearson(xs, ys)
	if err != nil {
		r = math.NaN()
	}
	labels.Title = fmt.Sprintf("Correlation: %.2f", r)
	a.logger.Debug("pearson(%s, %s) = %.4f over %d rows", feature1, feature2, r, len(xs))
	return a.renderer.Heatmap(chart.Heatmap{
		Labels: labels,
		Names:  []string{feature1, feature2},
		Matrix: [][]float64{
			{selfCorrelation(xs), r},
			{r, selfCorrelation(ys)},
		},
	})
}

// Categorical renders a count plot in descending frequency order. The
// column must be textual or hold fewer than CategoricalLimit distinct values.
func (a *TabularAnalyzer) Categorical(column string) (string, error) {
	col, err := a.column(column)
	if err != nil {
		return "", err
	}
	categories, counts := valueCounts(col)
	if !col.IsText() && len(categories) >= CategoricalLimit {
		return "", errors.NotCategorical(column, len(categories))
	}
	if err := a.requireRenderer(); err != nil {
		return "", err
	}
	return a.renderer.CountPlot(chart.CountPlot{
		Labels:     chart.Labels{Title: "Count Plot of " + column, XLabel: column, YLabel: "Count"},
		Column:     column,
		Categories: categories,
		Counts:     counts,
	})
}

// ValueCounts returns distinct non-missing values of column and their
// frequencies, most frequent first; ties keep first-seen order.
func (a *TabularAnalyzer) ValueCounts(column string) ([]string, []int, error) {
	col, err := a.column(column)
	if err != nil {
		return nil, nil, err
	}
	categories, counts := valueCounts(col)
	return categories, counts, nil
}

func valueCounts(col dataset.Column) ([]string, []int) {
	categories, counts := firstSeenCounts(col)

	order := make([]int, len(categories))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(x, y int) bool { return counts[order[x]] > counts[order[y]] })

	sortedCats := make([]string, len(order))
	sortedCounts := make([]int, len(order))
	for i, j := range order {
		sortedCats[i] = categories[j]
		sortedCounts[i] = counts[j]
	}
	return sortedCats, sortedCounts
}

// firstSeenCounts counts distinct non-missing values in order of appearance
func firstSeenCounts(col dataset.Column) ([]string, []int) {
	index := make(map[string]int)
	var categories []string
	var counts []int
	for i := 0; i < col.Len(); i++ {
		if col.IsMissing(i) {
			continue
		}
		key := col.Format(i)
		j, seen := index[key]
		if !seen {
			j = len(categories)
			index[key] = j
			categories = append(categories, key)
			counts = append(counts, 0)
		}
		counts[j]++
	}
	return categories, counts
}

func pairwiseComplete(x, y []float64) ([]float64, []float64) {
	xs := make([]float64, 0, len(x))
	ys := make([]float64, 0, len(y))
	for i := range x {
		if math.IsNaN(x[i]) || math.IsNaN(y[i]) {
			continue
		}
		xs = append(xs, x[i])
		ys = append(ys, y[i])
	}
	return xs, ys
}

// selfCorrelation is 1 unless the series is constant or too short
func selfCorrelation(x []float64) float64 {
	if len(x) < 2 {
		return math.NaN()
	}
	for _, v := range x[1:] {
		if v != x[0] {
			return 1
		}
	}
	return math.NaN()
}
