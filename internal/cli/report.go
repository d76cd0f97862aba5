package cli

import (
	"encoding/json"
	"time"

	"tooling-spend-tracker/internal/services/spend"

	"github.com/spf13/cobra"
)

var reportMonth string

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print the monthly spend dashboard as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		month := spend.MonthStart(time.Now())
		if reportMonth != "" {
			m, err := spend.ParseMonth(reportMonth)
			if err != nil {
				return err
			}
			month = m
		}

		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}

		data, err := a.service.Dashboard(a.withLogger(cmd.Context()), month)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(data)
	},
}

func init() {
	reportCmd.Flags().StringVar(&reportMonth, "month", "", "Report month, YYYY-MM (default current month)")
	rootCmd.AddCommand(reportCmd)
}
