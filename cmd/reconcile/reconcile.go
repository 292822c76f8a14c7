// Package reconcile handles the reconcile command
package reconcile

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/Yolt-group/accounts-and-transactions-sub000/cmd/root"
	"github.com/Yolt-group/accounts-and-transactions-sub000/internal/logging"
	"github.com/Yolt-group/accounts-and-transactions-sub000/internal/validation"

	"github.com/spf13/cobra"
)

// Options are the reconcile command flags
type Options struct {
	Input     string
	Output    string
	Provider  string
	UserID    string
	AccountID string
	Format    string
	DryRun    bool
}

var opts = Options{Format: FormatYAML}

// Cmd represents the reconcile command
var Cmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Reconcile an upstream batch against the stored transactions",
	Long: `Reconcile an upstream batch against the stored transactions of each account it
contains, using the strategy configured for the provider.

The input is either a CSV batch or a CAMT.053 XML statement. Each account is
reconciled on its own: a failing account is reported and never stops the others.

Example:
  txrecon reconcile -i batch.csv --provider BANK_A --user user-1
  txrecon reconcile -i CAMT.053_CH93_2024-01-01_2024-01-31_1.xml --provider BANK_A --user user-1 --dry-run --format csv`,
	RunE: reconcileFunc,
}

func init() {
	flags := Cmd.Flags()
	flags.StringVarP(&opts.Input, "input", "i", "", "Upstream batch file (CSV or CAMT.053 XML)")
	flags.StringVarP(&opts.Output, "output", "o", "", "Report file (default stdout)")
	flags.StringVarP(&opts.Provider, "provider", "p", "", "Provider the batch comes from")
	flags.StringVarP(&opts.UserID, "user", "u", "", "User owning the accounts")
	flags.StringVarP(&opts.AccountID, "account", "a", "", "Account id for every transaction in the batch")
	flags.StringVarP(&opts.Format, "format", "f", FormatYAML, "Report format: yaml or csv")
	flags.BoolVar(&opts.DryRun, "dry-run", false, "Compute instructions without applying them")

	_ = Cmd.MarkFlagRequired("input")
	_ = Cmd.MarkFlagRequired("provider")
	_ = Cmd.MarkFlagRequired("user")
}

func reconcileFunc(cmd *cobra.Command, args []string) error {
	c := root.GetContainer()
	if c == nil {
		return fmt.Errorf("application not initialized")
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	out := cmd.OutOrStdout()
	if opts.Output != "" {
		f, err := os.Create(opts.Output)
		if err != nil {
			return fmt.Errorf("error creating report file: %w", err)
		}
		defer f.Close()
		out = f
	}

	return Run(ctx, c, opts, out)
}

// Run reads the batch, reconciles it and writes the report. It fails when
// any account failed, after the report is written.
func Run(ctx context.Context, c Dependencies, o Options, out io.Writer) error {
	if err := validation.IsValidReportFormat(o.Format); err != nil {
		return err
	}
	if err := validation.IsValidInputFile(o.Input); err != nil {
		return err
	}
	logger := c.GetLogger().WithFields(
		logging.F(logging.FieldProvider, o.Provider),
		logging.F(logging.FieldUserID, o.UserID))

	txs, err := ReadBatch(c.GetCAMTParser(), o.Input, o.AccountID, logger)
	if err != nil {
		return err
	}
	logger.Info("Read upstream batch",
		logging.F(logging.FieldInputFile, o.Input),
		logging.F(logging.FieldCount, len(txs)))

	report := c.NewProcessor(o.DryRun).Process(ctx, o.UserID, o.Provider, txs)

	if err := WriteReport(out, report, o.Format); err != nil {
		return err
	}
	if o.Output != "" {
		logger.Info("Report written", logging.F(logging.FieldOutputFile, o.Output))
	}

	if report.Failed > 0 {
		return fmt.Errorf("%d of %d accounts failed", report.Failed, report.Failed+report.Succeeded)
	}
	return nil
}
