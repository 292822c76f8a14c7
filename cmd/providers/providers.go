// Package providers handles the providers command
package providers

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/Yolt-group/accounts-and-transactions-sub000/cmd/root"
	"github.com/Yolt-group/accounts-and-transactions-sub000/internal/reconciler"

	"github.com/spf13/cobra"
)

// Cmd represents the providers command
var Cmd = &cobra.Command{
	Use:   "providers",
	Short: "List the configured providers and their strategies",
	Long: `List every provider configured under "providers" with the strategy that
reconciles it. Providers not listed use the default strategy.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c := root.GetContainer()
		if c == nil {
			return fmt.Errorf("application not initialized")
		}
		return WriteTable(cmd.OutOrStdout(), c.GetRegistry())
	},
}

// WriteTable prints one line per provider, then the default strategy.
func WriteTable(w io.Writer, registry *reconciler.Registry) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "PROVIDER\tSTRATEGY")
	for _, provider := range registry.Providers() {
		fmt.Fprintf(tw, "%s\t%s\n", provider, registry.Lookup(provider).Name())
	}
	fmt.Fprintf(tw, "%s\t%s\n", "(default)", registry.Default().Name())
	return tw.Flush()
}
