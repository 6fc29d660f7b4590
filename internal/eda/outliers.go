package eda

import (
	"io"
	"math"
	"strconv"
	"strings"
	"text/tabwriter"

	"fraudeda/domain/dataset"
	"fraudeda/internal/errors"
	"fraudeda/internal/stats"
)

// OutlierReport is the subset of rows flagged by DetectOutliers
type OutlierReport struct {
	Column    string
	Method    string
	Threshold float64
	// Rows has the bound dataset's schema and holds the flagged rows in
	// their original order; Indices are their positions in the dataset.
	Rows    *dataset.Dataset
	Indices []int
	// Lower and Upper are the IQR fences; NaN for zscore.
	Lower, Upper float64
	// Scores holds the z-score of each flagged row; nil for iqr.
	Scores []float64
}

// Count returns the number of flagged rows
func (r *OutlierReport) Count() int {
	return len(r.Indices)
}

// DetectOutliers returns the rows whose value in column is an outlier.
//
// zscore flags |z| > threshold using the population standard deviation.
// A threshold of 0 flags every value off the mean; a negative threshold
// selects DefaultThreshold. iqr flags values strictly outside
// [Q1-1.5*IQR, Q3+1.5*IQR] and ignores threshold. Missing cells are never
// flagged, and z-scores are computed over the present values only, so one
// missing cell does not blank the column. The bound dataset is not modified.
func (a *TabularAnalyzer) DetectOutliers(column, method string, threshold float64) (*OutlierReport, error) {
	if _, err := a.column(column); err != nil {
		return nil, err
	}
	switch method {
	case MethodZScore, MethodIQR:
	default:
		return nil, errors.InvalidOption("method", method, MethodZScore, MethodIQR)
	}
	col, err := a.numericColumn(column)
	if err != nil {
		return nil, err
	}

	rows, values := presentRows(col)
	report := &OutlierReport{
		Column:    column,
		Method:    method,
		Threshold: threshold,
		Lower:     math.NaN(),
		Upper:     math.NaN(),
	}

	switch method {
	case MethodZScore:
		if threshold < 0 {
			threshold = DefaultThreshold
			report.Threshold = threshold
		}
		scores := stats.ZScores(values)
		for i, z := range scores {
			if math.Abs(z) > threshold {
				report.Indices = append(report.Indices, rows[i])
				report.Scores = append(report.Scores, z)
			}
		}
	case MethodIQR:
		if len(values) > 0 {
			q1, q3 := stats.Quartiles(values)
			iqr := q3 - q1
			report.Lower = q1 - 1.5*iqr
			report.Upper = q3 + 1.5*iqr
			for i, v := range values {
				if v < report.Lower || v > report.Upper {
					report.Indices = append(report.Indices, rows[i])
				}
			}
		}
	}

	subset, err := a.data.Select(report.Indices)
	if err != nil {
		return nil, errors.Wrap(err, "selecting outlier rows")
	}
	report.Rows = subset
	a.logger.Debug("%s outliers on %s: %d of %d rows", method, column, report.Count(), a.data.NumRows())
	return report, nil
}

// presentRows returns the row indices and values of non-missing cells
func presentRows(col dataset.Column) ([]int, []float64) {
	rows := make([]int, 0, len(col.Numbers))
	values := make([]float64, 0, len(col.Numbers))
	for i, v := range col.Numbers {
		if math.IsNaN(v) {
			continue
		}
		rows = append(rows, i)
		values = append(values, v)
	}
	return rows, values
}

// Print writes a header line followed by the flagged rows as a table
func (r *OutlierReport) Print(w io.Writer) error {
	ew := &errWriter{w: w}
	switch r.Method {
	case MethodIQR:
		ew.printf("Outliers in %s (iqr, bounds [%s, %s]): %d rows\n", r.Column, formatStat(r.Lower), formatStat(r.Upper), r.Count())
	default:
		ew.printf("Outliers in %s (zscore, |z| > %g): %d rows\n", r.Column, r.Threshold, r.Count())
	}
	if r.Count() == 0 {
		return ew.err
	}

	tw := tabwriter.NewWriter(ew, 0, 4, 2, ' ', 0)
	header := append([]string{"index"}, r.Rows.ColumnNames()...)
	if r.Scores != nil {
		header = append(header, "zscore")
	}
	tw.Write([]byte(strings.Join(header, "\t") + "\n"))
	for i, idx := range r.Indices {
		cells, err := r.Rows.Row(i)
		if err != nil {
			return err
		}
		line := append([]string{strconv.Itoa(idx)}, cells...)
		if r.Scores != nil {
			line = append(line, formatStat(r.Scores[i]))
		}
		tw.Write([]byte(strings.Join(line, "\t") + "\n"))
	}
	tw.Flush()
	return ew.err
}
