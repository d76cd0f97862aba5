package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"tooling-spend-tracker/internal/services/reconciliation"

	"github.com/spf13/cobra"
)

var (
	syncYear  int
	syncMonth int
	syncFrom  string
	syncTo    string
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Pull cleared transactions from the card provider",
	Long: `Pull cleared transactions for one month (--year/--month, default the
current month) or for an inclusive date range (--from/--to, YYYY-MM-DD).
Transactions already stored are skipped.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if (syncFrom == "") != (syncTo == "") {
			return errors.New("--from and --to must be given together")
		}

		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		ctx := a.withLogger(cmd.Context())

		var result *reconciliation.SyncResult
		if syncFrom != "" {
			start, err := time.Parse(time.DateOnly, syncFrom)
			if err != nil {
				return fmt.Errorf("--from: %w", err)
			}
			end, err := time.Parse(time.DateOnly, syncTo)
			if err != nil {
				return fmt.Errorf("--to: %w", err)
			}
			result, err = a.service.SyncRange(ctx, start, end)
			if err != nil {
				return err
			}
		} else {
			now := time.Now().UTC()
			year, month := syncYear, time.Month(syncMonth)
			if year == 0 {
				year = now.Year()
			}
			if month == 0 {
				month = now.Month()
			}
			result, err = a.service.SyncMonth(ctx, year, month)
			if err != nil {
				return err
			}
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	},
}

func init() {
	syncCmd.Flags().IntVar(&syncYear, "year", 0, "Year to sync (default current year)")
	syncCmd.Flags().IntVar(&syncMonth, "month", 0, "Month to sync, 1-12 (default current month)")
	syncCmd.Flags().StringVar(&syncFrom, "from", "", "Range start date, YYYY-MM-DD")
	syncCmd.Flags().StringVar(&syncTo, "to", "", "Range end date, YYYY-MM-DD")
	rootCmd.AddCommand(syncCmd)
}
