package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var importFile string

var vendorsCmd = &cobra.Command{
	Use:   "vendors",
	Short: "Manage the vendor registry",
}

var vendorsImportCmd = &cobra.Command{
	Use:   "import",
	Short: "Import vendors from a CSV file",
	Long: `Import vendors from a CSV with a header row. Required columns are
name, monthly_budget and category; alternative_names (separated by ';')
and notes are optional. Invalid rows are reported and skipped.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if importFile == "" {
			return errors.New("--file is required")
		}
		f, err := os.Open(importFile)
		if err != nil {
			return err
		}
		defer f.Close()

		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}

		result, err := a.service.ImportVendors(a.withLogger(cmd.Context()), f)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Vendors added: %d\n", result.Created)
		for _, sk := range result.Skipped {
			fmt.Fprintf(out, "  row %d skipped: %s\n", sk.Row, sk.Reason)
		}
		return nil
	},
}

func init() {
	vendorsImportCmd.Flags().StringVar(&importFile, "file", "", "Path to the vendor CSV")
	vendorsCmd.AddCommand(vendorsImportCmd)
	rootCmd.AddCommand(vendorsCmd)
}
