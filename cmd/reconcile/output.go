package reconcile

import (
	"fmt"
	"io"

	"github.com/Yolt-group/accounts-and-transactions-sub000/internal/batch"
	"github.com/Yolt-group/accounts-and-transactions-sub000/internal/common"
	"github.com/Yolt-group/accounts-and-transactions-sub000/internal/validation"

	"gopkg.in/yaml.v3"
)

// Report formats
const (
	FormatYAML = validation.ReportFormatYAML
	FormatCSV  = validation.ReportFormatCSV
)

// WriteReport writes the whole report as YAML, or the instruction lines of
// every reconciled account as CSV. Failed accounts have no CSV lines.
func WriteReport(w io.Writer, report batch.Report, format string) error {
	switch format {
	case FormatCSV:
		var rows []common.InstructionRow
		for _, account := range report.Accounts {
			rows = append(rows, common.InstructionRows(account.Instruction)...)
		}
		return common.WriteCSV(rows, w)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(report); err != nil {
			return fmt.Errorf("error writing YAML report: %w", err)
		}
		return enc.Close()
	default:
		return validation.IsValidReportFormat(format)
	}
}
