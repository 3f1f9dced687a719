package main

import (
	"encoding/json"
	"fmt"
	"os"

	notificationapp "github.com/opsboard/backend/internal/application/notification"
	"github.com/opsboard/backend/internal/domain/notification"
	"github.com/opsboard/backend/internal/infrastructure/cache"
	"github.com/opsboard/backend/internal/infrastructure/config"
	"github.com/opsboard/backend/internal/infrastructure/event"
	"github.com/opsboard/backend/internal/infrastructure/logger"
	"github.com/opsboard/backend/internal/infrastructure/persistence"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	flagConfig   string
	flagJSON     bool
	flagLogLevel string
)

var rootCmd = &cobra.Command{
	Use:           "opsctl",
	Short:         "opsboard operations CLI",
	Long:          "Refresh project notifications, inspect the portfolio summary and manage accounts.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and exits non-zero on failure
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "  error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", "", "Config file (default: search ./ and /app)")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "Print results as JSON")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
}

// app holds what every subcommand needs: configuration, logger and database
type app struct {
	cfg *config.Config
	log *zap.Logger
	db  *persistence.Database
}

func openApp() (*app, error) {
	cfg, err := config.LoadFrom(flagConfig)
	if err != nil {
		return nil, err
	}
	log, err := logger.New(&logger.Config{
		Level:  flagLogLevel,
		Format: "console",
		Output: "stderr",
	})
	if err != nil {
		return nil, err
	}
	db, err := persistence.NewDatabase(&cfg.Database, logger.NewGormLogger(log, logger.GormLevel(flagLogLevel)))
	if err != nil {
		return nil, err
	}
	return &app{cfg: cfg, log: log, db: db}, nil
}

func (a *app) Close() {
	if err := a.db.Close(); err != nil {
		a.log.Warn("Error closing database", zap.Error(err))
	}
	_ = a.log.Sync()
}

// notificationService builds the service inline: no workers, no summary
// cache and events are logged rather than published
func (a *app) notificationService() *notificationapp.NotificationService {
	db := a.db.DB
	policy := notification.Policy{
		GracePeriodDays:      a.cfg.Notification.GracePeriodDays,
		MissingLogWindowDays: a.cfg.Notification.MissingLogWindowDays,
		SkipWeekends:         a.cfg.Notification.SkipWeekends,
	}
	return notificationapp.NewNotificationService(
		notificationapp.Repositories{
			Projects:      persistence.NewGormProjectRepository(db),
			Logs:          persistence.NewGormDailyLogRepository(db),
			Expenses:      persistence.NewGormExpenseRepository(db),
			Invoices:      persistence.NewGormInvoiceRepository(db),
			Notifications: persistence.NewGormNotificationRepository(db),
		},
		notification.NewDeriver(policy),
		cache.NoopSummaryCache{},
		event.NewLogPublisher(a.log),
		a.cfg.App.Location(),
		a.log,
	)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
