// Package validation checks command line inputs before any work starts.
package validation

import (
	"fmt"
	"os"
)

// Report formats accepted by IsValidReportFormat.
const (
	ReportFormatYAML = "yaml"
	ReportFormatCSV  = "csv"
)

// IsValidInputFile checks that path names a readable regular file.
func IsValidInputFile(path string) error {
	if path == "" {
		return fmt.Errorf("input file is required")
	}
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return fmt.Errorf("input file does not exist: %s", path)
	}
	if err != nil {
		return fmt.Errorf("error checking input file %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("input %s is not a regular file", path)
	}
	return nil
}

// IsValidReportFormat checks if the given format is supported.
func IsValidReportFormat(format string) error {
	switch format {
	case ReportFormatYAML, ReportFormatCSV:
		return nil
	default:
		return fmt.Errorf("unsupported report format: %s. Supported formats are '%s', '%s'", format, ReportFormatYAML, ReportFormatCSV)
	}
}
