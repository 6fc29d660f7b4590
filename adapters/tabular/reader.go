package tabular

import (
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"fraudeda/domain/dataset"
	"fraudeda/internal/errors"

	"github.com/xuri/excelize/v2"
)

// DataReader reads CSV and Excel files into a typed dataset
type DataReader struct {
	filePath string
	fileType string // "xlsx" or "csv"
	coercer  *TypeCoercer
}

// NewDataReader creates a reader for path; the file type follows the extension
func NewDataReader(filePath string) *DataReader {
	return NewDataReaderWithConfig(filePath, DefaultCoercionConfig())
}

// NewDataReaderWithConfig creates a reader with custom coercion rules
func NewDataReaderWithConfig(filePath string, cfg CoercionConfig) *DataReader {
	fileType := "xlsx"
	if strings.ToLower(filepath.Ext(filePath)) == ".csv" {
		fileType = "csv"
	}
	return &DataReader{filePath: filePath, fileType: fileType, coercer: NewTypeCoercer(cfg)}
}

// ReadDataset loads the file and infers a type for every column
func (r *DataReader) ReadDataset() (*dataset.Dataset, error) {
	log.Printf("[DataReader] Starting to read %s file: %s", r.fileType, r.filePath)

	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		return nil, errors.NotFound(fmt.Sprintf("%s file %s", strings.ToUpper(r.fileType), r.filePath))
	}

	var rows [][]string
	var err error
	switch r.fileType {
	case "csv":
		rows, err = r.readCSVRows()
	default:
		rows, err = r.readExcelRows()
	}
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, errors.InvalidInput(fmt.Sprintf("%s file has no header row", strings.ToUpper(r.fileType)))
	}
	return r.processRows(rows)
}

// readExcelRows reads the first sheet of the workbook
func (r *DataReader) readExcelRows() ([][]string, error) {
	startTime := time.Now()
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open Excel file")
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.InvalidInput("Excel file has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read sheet %s", sheets[0])
	}
	log.Printf("[DataReader] Sheet %s read in %.2fms (%d rows)",
		sheets[0], float64(time.Since(startTime).Nanoseconds())/1e6, len(rows))
	return rows, nil
}

// readCSVRows reads every record; ragged rows are allowed
func (r *DataReader) readCSVRows() ([][]string, error) {
	file, err := os.Open(r.filePath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open CSV file")
	}
	defer file.Close()

	startTime := time.Now()
	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "failed to read CSV file")
	}
	log.Printf("[DataReader] CSV file read in %.2fms (%d rows)",
		float64(time.Since(startTime).Nanoseconds())/1e6, len(rows))
	return rows, nil
}

// processRows turns the header and data rows into typed columns. Short rows
// are padded with missing cells; cells past the header are dropped.
func (r *DataReader) processRows(rows [][]string) (*dataset.Dataset, error) {
	headers := normalizeHeaders(rows[0])
	data := rows[1:]

	columns := make([]dataset.Column, len(headers))
	for j, name := range headers {
		cells := make([]string, len(data))
		for i, row := range data {
			if j < len(row) {
				cells[i] = row[j]
			}
		}
		columns[j] = r.coercer.BuildColumn(name, cells)
	}

	ds, err := dataset.New(columns...)
	if err != nil {
		return nil, errors.Wrap(err, "building dataset")
	}
	log.Printf("[DataReader] %s file processed (%d columns, %d rows)",
		strings.ToUpper(r.fileType), ds.NumCols(), ds.NumRows())
	return ds, nil
}

// normalizeHeaders trims names, names blank headers "Unnamed: <i>" and
// suffixes repeats with ".1", ".2" in order of appearance.
func normalizeHeaders(raw []string) []string {
	headers := make([]string, len(raw))
	seen := make(map[string]bool, len(raw))
	for i, h := range raw {
		name := strings.TrimSpace(h)
		if name == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}
		candidate := name
		for n := 1; seen[candidate]; n++ {
			candidate = fmt.Sprintf("%s.%d", name, n)
		}
		seen[candidate] = true
		headers[i] = candidate
	}
	return headers
}
