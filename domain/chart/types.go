package chart

// Kind identifies a chart type
type Kind string

const (
	KindHistogram Kind = "histogram"
	KindBoxPlot   Kind = "boxplot"
	KindDensity   Kind = "kde"
	KindScatter   Kind = "scatter"
	KindHeatmap   Kind = "correlation"
	KindCount     Kind = "countplot"
)

// Labels are the title and axis captions shared by every chart
type Labels struct {
	Title  string
	XLabel string
	YLabel string
}

// Point is one (x, y) pair
type Point struct {
	X, Y float64
}

// Histogram bins Values into Bins equal-width buckets. When Categories is
// set the column is textual and each category gets one bar of Counts height.
type Histogram struct {
	Labels
	Column string
	Values []float64
	Bins   int

	Categories []string
	Counts     []int
}

// BoxPlot draws the five-number summary of Values
type BoxPlot struct {
	Labels
	Column string
	Values []float64
}

// Density is a precomputed kernel density curve
type Density struct {
	Labels
	Column string
	Curve  []Point
}

// Scatter plots paired observations
type Scatter struct {
	Labels
	XColumn string
	YColumn string
	Points  []Point
}

// Heatmap is a square matrix of values over Names, annotated cell by cell
type Heatmap struct {
	Labels
	Names  []string
	Matrix [][]float64
}

// CountPlot draws one bar per category, in the given order
type CountPlot struct {
	Labels
	Column     string
	Categories []string
	Counts     []int
}
