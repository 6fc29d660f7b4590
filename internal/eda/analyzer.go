// Package eda implements exploratory analysis over a single bound dataset:
// distribution and relationship charts, categorical counts, outlier
// subsets and text summaries.
package eda

import (
	"fmt"
	"io"
	"os"

	"fraudeda/domain/dataset"
	"fraudeda/internal"
	"fraudeda/internal/errors"
	"fraudeda/ports"
)

// Plot types accepted by Univariate and Multivariate
const (
	PlotHistogram   = "histogram"
	PlotBoxPlot     = "boxplot"
	PlotKDE         = "kde"
	PlotScatter     = "scatter"
	PlotCorrelation = "correlation"
)

// Outlier detection methods
const (
	MethodZScore = "zscore"
	MethodIQR    = "iqr"
)

const (
	DefaultBins      = 30
	DefaultThreshold = 3.0
	// CategoricalLimit is the distinct-value count at which a non-text
	// column stops being treated as categorical.
	CategoricalLimit = 20
	densityGridSize  = 200
)

// TabularAnalyzer produces statistics, charts and outlier subsets for one
// dataset. It owns a private copy of the dataset and is not safe for
// concurrent use.
type TabularAnalyzer struct {
	data     *dataset.Dataset
	renderer ports.ChartRenderer
	out      io.Writer
	logger   *internal.Logger
}

// Option configures a TabularAnalyzer
type Option func(*TabularAnalyzer)

// WithOutput sets the writer used by Summary and Dispersion
func WithOutput(w io.Writer) Option {
	return func(a *TabularAnalyzer) {
		a.out = w
	}
}

// WithLogger sets the logger
func WithLogger(l *internal.Logger) Option {
	return func(a *TabularAnalyzer) {
		a.logger = l
	}
}

// NewTabularAnalyzer binds an analyzer to a copy of ds. The renderer may be
// nil when only the text and outlier operations are needed.
func NewTabularAnalyzer(ds *dataset.Dataset, renderer ports.ChartRenderer, opts ...Option) *TabularAnalyzer {
	a := &TabularAnalyzer{
		data:     ds.Clone(),
		renderer: renderer,
		out:      os.Stdout,
		logger:   internal.DefaultLogger,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Dataset returns a copy of the bound dataset
func (a *TabularAnalyzer) Dataset() *dataset.Dataset {
	return a.data.Clone()
}

// Schema returns the bound dataset's schema
func (a *TabularAnalyzer) Schema() []dataset.Field {
	return a.data.Schema()
}

func (a *TabularAnalyzer) column(name string) (dataset.Column, error) {
	col, ok := a.data.Column(name)
	if !ok {
		return dataset.Column{}, errors.UnknownColumn(name)
	}
	return col, nil
}

// numericColumn resolves name and requires number-backed cells
func (a *TabularAnalyzer) numericColumn(name string) (dataset.Column, error) {
	col, err := a.column(name)
	if err != nil {
		return col, err
	}
	if !col.HasNumbers() {
		return col, errors.New(errors.CodeInvalidOption,
			fmt.Sprintf("column %s has type %s; a numeric column is required", name, col.Type))
	}
	return col, nil
}

func (a *TabularAnalyzer) requireRenderer() error {
	if a.renderer == nil {
		return errors.InternalError("no chart renderer configured")
	}
	return nil
}
