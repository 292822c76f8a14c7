// Package common provides the CSV plumbing shared by the stores and the CLI.
package common

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/Yolt-group/accounts-and-transactions-sub000/internal/logging"

	"github.com/gocarina/gocsv"
)

var (
	delimiterMu sync.RWMutex
	delimiter   = ','
)

// SetDelimiter sets the field delimiter used to read and write CSV files.
func SetDelimiter(delim rune) {
	delimiterMu.Lock()
	defer delimiterMu.Unlock()
	delimiter = delim
}

// Delimiter returns the configured field delimiter.
func Delimiter() rune {
	delimiterMu.RLock()
	defer delimiterMu.RUnlock()
	return delimiter
}

func newReader(in io.Reader) gocsv.CSVReader {
	r := csv.NewReader(in)
	r.Comma = Delimiter()
	r.TrimLeadingSpace = true
	return r
}

// ReadCSVFile reads CSV data into a slice of structs using gocsv.
// TCSVRow is the struct type that maps to the CSV columns.
func ReadCSVFile[TCSVRow any](filePath string, logger logging.Logger) ([]TCSVRow, error) {
	if logger == nil {
		logger = logging.GetLogger()
	}
	logger.Debug("Reading CSV file", logging.F(logging.FieldInputFile, filePath))

	file, err := os.Open(filePath) // #nosec G304 -- path comes from the operator
	if err != nil {
		return nil, fmt.Errorf("error opening CSV file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			logger.WithError(err).Warn("Failed to close file")
		}
	}()

	var rows []TCSVRow
	if err := gocsv.UnmarshalCSV(newReader(file), &rows); err != nil {
		return nil, fmt.Errorf("error parsing CSV file %s: %w", filePath, err)
	}

	logger.Debug("Read CSV data",
		logging.F(logging.FieldInputFile, filePath),
		logging.F(logging.FieldCount, len(rows)))
	return rows, nil
}

// WriteCSV marshals rows to w with the configured delimiter.
func WriteCSV[TCSVRow any](rows []TCSVRow, w io.Writer) error {
	csvWriter := csv.NewWriter(w)
	csvWriter.Comma = Delimiter()
	if err := gocsv.MarshalCSV(rows, gocsv.NewSafeCSVWriter(csvWriter)); err != nil {
		return fmt.Errorf("error writing CSV data: %w", err)
	}
	return nil
}

// WriteCSVFile replaces filePath with rows. The data is written to a
// temporary file first, then renamed, so readers never see a partial file.
func WriteCSVFile[TCSVRow any](rows []TCSVRow, filePath string, logger logging.Logger) error {
	if logger == nil {
		logger = logging.GetLogger()
	}

	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("error creating directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(filePath)+".*")
	if err != nil {
		return fmt.Errorf("error creating CSV file: %w", err)
	}
	defer func() {
		_ = os.Remove(tmp.Name())
	}()

	if err := WriteCSV(rows, tmp); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("error closing CSV file: %w", err)
	}
	if err := os.Rename(tmp.Name(), filePath); err != nil {
		return fmt.Errorf("error replacing CSV file: %w", err)
	}

	logger.Debug("Wrote CSV file",
		logging.F(logging.FieldOutputFile, filePath),
		logging.F(logging.FieldCount, len(rows)))
	return nil
}
