package dataset

import (
	"errors"
	"fmt"
	"math"
	"strconv"
)

// ColumnType is the declared storage type of a column
type ColumnType string

const (
	TypeNumeric ColumnType = "numeric"
	TypeBoolean ColumnType = "boolean"
	TypeText    ColumnType = "text"
)

var (
	ErrDuplicateColumn = errors.New("duplicate column name")
	ErrLengthMismatch  = errors.New("column length mismatch")
	ErrEmptyColumnName = errors.New("empty column name")
	ErrRowOutOfRange   = errors.New("row index out of range")
)

// Column is a named, typed sequence of cells.
//
// Numeric and boolean columns store their cells in Numbers (booleans as 0/1)
// with NaN marking a missing cell. Text columns store cells in Texts with the
// empty string marking a missing cell.
type Column struct {
	Name    string
	Type    ColumnType
	Numbers []float64
	Texts   []string
}

// NewNumericColumn creates a numeric column; NaN entries are missing
func NewNumericColumn(name string, values []float64) Column {
	cp := make([]float64, len(values))
	copy(cp, values)
	return Column{Name: name, Type: TypeNumeric, Numbers: cp}
}

// NewBooleanColumn creates a boolean column with no missing cells
func NewBooleanColumn(name string, values []bool) Column {
	nums := make([]float64, len(values))
	for i, v := range values {
		if v {
			nums[i] = 1
		}
	}
	return Column{Name: name, Type: TypeBoolean, Numbers: nums}
}

// NewTextColumn creates a text column; empty entries are missing
func NewTextColumn(name string, values []string) Column {
	cp := make([]string, len(values))
	copy(cp, values)
	return Column{Name: name, Type: TypeText, Texts: cp}
}

// Len returns the number of cells
func (c Column) Len() int {
	if c.Type == TypeText {
		return len(c.Texts)
	}
	return len(c.Numbers)
}

// IsNumeric reports whether the column holds numbers (booleans excluded)
func (c Column) IsNumeric() bool {
	return c.Type == TypeNumeric
}

// HasNumbers reports whether cells can be read as float64
func (c Column) HasNumbers() bool {
	return c.Type == TypeNumeric || c.Type == TypeBoolean
}

// IsText reports whether the column is textual
func (c Column) IsText() bool {
	return c.Type == TypeText
}

// IsMissing reports whether cell i is missing
func (c Column) IsMissing(i int) bool {
	if c.Type == TypeText {
		return c.Texts[i] == ""
	}
	return math.IsNaN(c.Numbers[i])
}

// Floats returns the non-missing numeric cells in row order
func (c Column) Floats() []float64 {
	if !c.HasNumbers() {
		return nil
	}
	out := make([]float64, 0, len(c.Numbers))
	for _, v := range c.Numbers {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}

// Key returns a comparable representation of cell i. Missing cells share
// one key so they compare equal to each other.
func (c Column) Key(i int) string {
	if c.IsMissing(i) {
		return "\x00missing"
	}
	return c.Format(i)
}

// Format renders cell i for display
func (c Column) Format(i int) string {
	if c.IsMissing(i) {
		return "NaN"
	}
	switch c.Type {
	case TypeText:
		return c.Texts[i]
	case TypeBoolean:
		return strconv.FormatBool(c.Numbers[i] != 0)
	default:
		return strconv.FormatFloat(c.Numbers[i], 'g', -1, 64)
	}
}

func (c Column) take(rows []int) Column {
	out := Column{Name: c.Name, Type: c.Type}
	if c.Type == TypeText {
		out.Texts = make([]string, len(rows))
		for j, r := range rows {
			out.Texts[j] = c.Texts[r]
		}
		return out
	}
	out.Numbers = make([]float64, len(rows))
	for j, r := range rows {
		out.Numbers[j] = c.Numbers[r]
	}
	return out
}

func (c Column) clone() Column {
	out := Column{Name: c.Name, Type: c.Type}
	if c.Numbers != nil {
		out.Numbers = append([]float64(nil), c.Numbers...)
	}
	if c.Texts != nil {
		out.Texts = append([]string(nil), c.Texts...)
	}
	return out
}

// Dataset is an ordered collection of equally long named columns
type Dataset struct {
	columns []Column
	index   map[string]int
	rows    int
}

// New builds a dataset from columns. Names must be unique and non-empty,
// and every column must have the same length.
func New(columns ...Column) (*Dataset, error) {
	ds := &Dataset{
		columns: make([]Column, 0, len(columns)),
		index:   make(map[string]int, len(columns)),
	}
	for i, col := range columns {
		if col.Name == "" {
			return nil, fmt.Errorf("%w: column %d", ErrEmptyColumnName, i)
		}
		if _, exists := ds.index[col.Name]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateColumn, col.Name)
		}
		if i == 0 {
			ds.rows = col.Len()
		} else if col.Len() != ds.rows {
			return nil, fmt.Errorf("%w: %s has %d rows, expected %d", ErrLengthMismatch, col.Name, col.Len(), ds.rows)
		}
		ds.index[col.Name] = len(ds.columns)
		ds.columns = append(ds.columns, col.clone())
	}
	return ds, nil
}

// NumRows returns the row count
func (d *Dataset) NumRows() int { return d.rows }

// NumCols returns the column count
func (d *Dataset) NumCols() int { return len(d.columns) }

// ColumnNames returns column names in order
func (d *Dataset) ColumnNames() []string {
	names := make([]string, len(d.columns))
	for i, c := range d.columns {
		names[i] = c.Name
	}
	return names
}

// HasColumn reports whether name is a column
func (d *Dataset) HasColumn(name string) bool {
	_, ok := d.index[name]
	return ok
}

// Column returns the named column. The returned column shares storage
// with the dataset and must be treated as read-only.
func (d *Dataset) Column(name string) (Column, bool) {
	i, ok := d.index[name]
	if !ok {
		return Column{}, false
	}
	return d.columns[i], true
}

// Columns returns all columns in order, read-only
func (d *Dataset) Columns() []Column {
	out := make([]Column, len(d.columns))
	copy(out, d.columns)
	return out
}

// Row renders row i as display strings in column order
func (d *Dataset) Row(i int) ([]string, error) {
	if i < 0 || i >= d.rows {
		return nil, fmt.Errorf("%w: %d", ErrRowOutOfRange, i)
	}
	out := make([]string, len(d.columns))
	for j, c := range d.columns {
		out[j] = c.Format(i)
	}
	return out, nil
}

// Select returns a new dataset with the same schema holding the given rows in order
func (d *Dataset) Select(rows []int) (*Dataset, error) {
	for _, r := range rows {
		if r < 0 || r >= d.rows {
			return nil, fmt.Errorf("%w: %d", ErrRowOutOfRange, r)
		}
	}
	out := &Dataset{
		columns: make([]Column, len(d.columns)),
		index:   make(map[string]int, len(d.columns)),
		rows:    len(rows),
	}
	for i, c := range d.columns {
		out.columns[i] = c.take(rows)
		out.index[c.Name] = i
	}
	return out, nil
}

// Clone returns a deep copy
func (d *Dataset) Clone() *Dataset {
	out := &Dataset{
		columns: make([]Column, len(d.columns)),
		index:   make(map[string]int, len(d.columns)),
		rows:    d.rows,
	}
	for i, c := range d.columns {
		out.columns[i] = c.clone()
		out.index[c.Name] = i
	}
	return out
}

// Schema returns (name, type) pairs in column order
func (d *Dataset) Schema() []Field {
	fields := make([]Field, len(d.columns))
	for i, c := range d.columns {
		fields[i] = Field{Name: c.Name, Type: c.Type}
	}
	return fields
}

// Field describes one column of a schema
type Field struct {
	Name string
	Type ColumnType
}
