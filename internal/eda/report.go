package eda

import (
	"fmt"
	"io"
	"math"
	"strings"
	"text/tabwriter"

	"fraudeda/internal/stats"
)

// ColumnDescription pairs a numeric column with its describe() statistics
type ColumnDescription struct {
	Name string
	stats.Description
}

// ColumnDispersion pairs a numeric column with its spread measures
type ColumnDispersion struct {
	Name string
	stats.Dispersion
}

// ColumnMissing is the missing-cell count of one column
type ColumnMissing struct {
	Name    string
	Missing int
}

// duplicateListLimit is the row count above which duplicate flags are
// printed as head and tail only.
const duplicateListLimit = 60

// Describe computes summary statistics for every numeric column
func (a *TabularAnalyzer) Describe() []ColumnDescription {
	var out []ColumnDescription
	for _, col := range a.data.Columns() {
		if !col.IsNumeric() {
			continue
		}
		out = append(out, ColumnDescription{Name: col.Name, Description: stats.Describe(col.Floats())})
	}
	return out
}

// DispersionSummary computes range, variance, std and IQR for every numeric column
func (a *TabularAnalyzer) DispersionSummary() []ColumnDispersion {
	var out []ColumnDispersion
	for _, col := range a.data.Columns() {
		if !col.IsNumeric() {
			continue
		}
		out = append(out, ColumnDispersion{Name: col.Name, Dispersion: stats.Spread(col.Floats())})
	}
	return out
}

// Duplicated flags every row that repeats an earlier row across all columns
func (a *TabularAnalyzer) Duplicated() []bool {
	cols := a.data.Columns()
	flags := make([]bool, a.data.NumRows())
	seen := make(map[string]struct{}, len(flags))
	var key strings.Builder
	for i := range flags {
		key.Reset()
		for _, c := range cols {
			key.WriteString(c.Key(i))
			key.WriteByte(0x1f)
		}
		k := key.String()
		if _, dup := seen[k]; dup {
			flags[i] = true
			continue
		}
		seen[k] = struct{}{}
	}
	return flags
}

// MissingCounts returns the number of missing cells per column
func (a *TabularAnalyzer) MissingCounts() []ColumnMissing {
	cols := a.data.Columns()
	out := make([]ColumnMissing, len(cols))
	for j, c := range cols {
		out[j].Name = c.Name
		for i := 0; i < c.Len(); i++ {
			if c.IsMissing(i) {
				out[j].Missing++
			}
		}
	}
	return out
}

// Summary writes shape, column types, duplicate flags, missing counts and
// numeric describe() statistics to the analyzer's output.
func (a *TabularAnalyzer) Summary() error {
	w := &errWriter{w: a.out}

	w.printf("Dataset Summary:\n")
	w.printf("Shape: (%d, %d)\n", a.data.NumRows(), a.data.NumCols())

	w.printf("\nData Types:\n")
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, f := range a.data.Schema() {
		fmt.Fprintf(tw, "%s\t%s\n", f.Name, f.Type)
	}
	tw.Flush()

	w.printf("\nDuplicate values\n")
	a.writeDuplicates(w)

	w.printf("\nMissing Values:\n")
	tw = tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, m := range a.MissingCounts() {
		fmt.Fprintf(tw, "%s\t%d\n", m.Name, m.Missing)
	}
	tw.Flush()

	w.printf("\nBasic Statistics (Numerical Data Only):\n")
	a.writeDescribe(w)
	return w.err
}

func (a *TabularAnalyzer) writeDuplicates(w io.Writer) {
	flags := a.Duplicated()
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	write := func(i int) { fmt.Fprintf(tw, "%d\t%t\n", i, flags[i]) }
	if len(flags) <= duplicateListLimit {
		for i := range flags {
			write(i)
		}
	} else {
		for i := 0; i < 5; i++ {
			write(i)
		}
		fmt.Fprintf(tw, "...\t\n")
		for i := len(flags) - 5; i < len(flags); i++ {
			write(i)
		}
	}
	tw.Flush()

	dups := 0
	for _, f := range flags {
		if f {
			dups++
		}
	}
	fmt.Fprintf(w, "Length: %d, duplicated: %d\n", len(flags), dups)
}

func (a *TabularAnalyzer) writeDescribe(w io.Writer) {
	desc := a.Describe()
	if len(desc) == 0 {
		fmt.Fprintln(w, "(no numeric columns)")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprint(tw, "\t")
	for _, d := range desc {
		fmt.Fprintf(tw, "%s\t", d.Name)
	}
	fmt.Fprintln(tw)

	rows := []struct {
		label string
		value func(stats.Description) float64
	}{
		{"count", func(d stats.Description) float64 { return float64(d.Count) }},
		{"mean", func(d stats.Description) float64 { return d.Mean }},
		{"std", func(d stats.Description) float64 { return d.Std }},
		{"min", func(d stats.Description) float64 { return d.Min }},
		{"25%", func(d stats.Description) float64 { return d.Q1 }},
		{"50%", func(d stats.Description) float64 { return d.Median }},
		{"75%", func(d stats.Description) float64 { return d.Q3 }},
		{"max", func(d stats.Description) float64 { return d.Max }},
	}
	for _, row := range rows {
		fmt.Fprintf(tw, "%s\t", row.label)
		for _, d := range desc {
			fmt.Fprintf(tw, "%s\t", formatStat(row.value(d.Description)))
		}
		fmt.Fprintln(tw)
	}
	tw.Flush()
}

// Dispersion writes range, variance, standard deviation and IQR of every
// numeric column to the analyzer's output.
func (a *TabularAnalyzer) Dispersion() error {
	w := &errWriter{w: a.out}
	disp := a.DispersionSummary()

	sections := []struct {
		title string
		value func(stats.Dispersion) float64
	}{
		{"Range", func(d stats.Dispersion) float64 { return d.Range }},
		{"Variance", func(d stats.Dispersion) float64 { return d.Variance }},
		{"Standard Deviation", func(d stats.Dispersion) float64 { return d.Std }},
		{"Interquartile Range (IQR)", func(d stats.Dispersion) float64 { return d.IQR }},
	}
	for _, s := range sections {
		w.printf("\n%s:\n", s.title)
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		for _, d := range disp {
			fmt.Fprintf(tw, "%s\t%s\n", d.Name, formatStat(s.value(d.Dispersion)))
		}
		tw.Flush()
	}
	return w.err
}

func formatStat(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return fmt.Sprintf("%.6f", v)
}

// errWriter remembers the first write error so report code can print
// unconditionally and check once.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	n, err := e.w.Write(p)
	if err != nil {
		e.err = err
	}
	return n, err
}

func (e *errWriter) printf(format string, args ...interface{}) {
	fmt.Fprintf(e, format, args...)
}
