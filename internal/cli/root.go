package cli

import (
	"context"
	"fmt"
	"os"

	"tooling-spend-tracker/internal/config"
	"tooling-spend-tracker/internal/logger"
	"tooling-spend-tracker/internal/provider"
	"tooling-spend-tracker/internal/repository"
	"tooling-spend-tracker/internal/services/reconciliation"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var (
	envFile    string
	policyFile string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "spend-tracker",
	Short: "Reconcile card spend against the tooling vendor budget",
	Long: `spend-tracker pulls cleared card transactions from the card provider,
matches each merchant to a budgeted vendor and reports monthly spend
against budget.

Example Usage:
  spend-tracker migrate
  spend-tracker sync --year 2024 --month 3
  spend-tracker report --month 2024-03
  spend-tracker serve`,
	SilenceUsage: true,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// Execute runs the root command. It is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Path to an optional .env file")
	rootCmd.PersistentFlags().StringVar(&policyFile, "policy", "", "Path to the matching policy YAML (overrides POLICY_FILE)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (overrides LOG_LEVEL)")
}

// app holds everything a subcommand needs. Dependencies are built here once
// and passed down explicitly.
type app struct {
	cfg     *config.Config
	log     zerolog.Logger
	db      *gorm.DB
	service *reconciliation.ReconciliationService
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load(envFile, policyFile)
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	log := logger.New(cfg.LogLevel)

	db, err := config.InitDB(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	// a nil *provider.Client must not end up inside the interface
	var source reconciliation.TransactionProvider
	client, err := provider.NewClient(ctx, cfg.Provider)
	if err != nil {
		log.Warn().Err(err).Msg("Provider client disabled, sync is unavailable")
	} else {
		source = client
	}

	svc := reconciliation.NewReconciliationService(
		repository.NewVendorRepository(db),
		repository.NewTransactionRepository(db),
		repository.NewSyncRunRepository(db),
		source,
		cfg.Policy.MatchOptions(),
		cfg.Policy.SpendPolicy(),
	)

	return &app{cfg: cfg, log: log, db: db, service: svc}, nil
}

// withLogger returns ctx carrying the app logger.
func (a *app) withLogger(ctx context.Context) context.Context {
	return logger.WithContext(ctx, a.log)
}
