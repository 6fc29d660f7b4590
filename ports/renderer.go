package ports

import "fraudeda/domain/chart"

// ChartRenderer draws chart specs to the caller's display surface.
// Each method returns a locator for the rendered output (a file path for
// file-backed renderers).
type ChartRenderer interface {
	Histogram(h chart.Histogram) (string, error)
	BoxPlot(b chart.BoxPlot) (string, error)
	Density(d chart.Density) (string, error)
	Scatter(s chart.Scatter) (string, error)
	Heatmap(h chart.Heatmap) (string, error)
	CountPlot(c chart.CountPlot) (string, error)
}
