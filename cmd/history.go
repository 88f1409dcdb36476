package cmd

import (
	"errors"
	"fmt"

	"github.com/huangsam/gitpulse/internal/contract"
	"github.com/huangsam/gitpulse/internal/iostore"
	"github.com/huangsam/gitpulse/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// loadHistoryConfig resolves the history backend settings without touching a repository.
func loadHistoryConfig() error {
	if err := loadConfigFile(); err != nil {
		return err
	}
	contract.SetVerbose(viper.GetBool("verbose"))

	backend, err := contract.ParseDatabaseBackend(viper.GetString("history-backend"))
	if err != nil {
		return err
	}
	connStr := viper.GetString("history-db-connect")
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	cfg.HistoryBackend = backend
	cfg.HistoryDBConnect = connStr
	cfg.OutputFile = viper.GetString("output-file")
	return nil
}

// historySetup loads history config and opens the store, applying pending migrations.
func historySetup() error {
	if err := loadHistoryConfig(); err != nil {
		return err
	}
	if err := iostore.InitStores(cfg.HistoryBackend, cfg.HistoryDBConnect); err != nil {
		return fmt.Errorf("failed to initialize history: %w", err)
	}
	return nil
}

// historySetupWrapper wraps historySetup to provide PreRunE for history commands.
func historySetupWrapper(_ *cobra.Command, _ []string) error {
	return historySetup()
}

// historyRawSetupWrapper loads history config without opening the store, so clear
// and migrate can run against a database in any state.
func historyRawSetupWrapper(_ *cobra.Command, _ []string) error {
	return loadHistoryConfig()
}

// sqliteHistoryPath is the SQLite file backing the history store.
func sqliteHistoryPath() string {
	if cfg.HistoryDBConnect != "" {
		return cfg.HistoryDBConnect
	}
	return contract.GetHistoryDBFilePath()
}

// historyCmd focused on run history management.
//
// Note: History subcommands use minimal initialization instead of the full
// sharedSetup used by analysis commands, since no repository is involved.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Manage the recorded history of analysis runs",
	Long: `Manage the run history written by 'gitpulse analyze' when --history-backend is set.

Each recorded run stores:
- Run metadata (source, timestamps, duration, configuration)
- Per-file metrics (change count, lines of code, churn)
- Survival curve samples per quarterly cohort

Supported backends: SQLite, MySQL, PostgreSQL, or None (disabled)

Subcommands:
  status  - Show history statistics
  export  - Export history to Parquet
  clear   - Remove all history
  migrate - Run database schema migrations

Examples:
  # Check history status
  gitpulse history status --history-backend sqlite`,
}

// historyStatusCmd shows run history status.
var historyStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display run history statistics and connection details",
	Long: `Show the backend, connection status, number of recorded runs, the newest and
oldest run timestamps, and the row count of every history table.

Examples:
  gitpulse history status --history-backend sqlite`,
	PreRunE: historySetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		store := iostore.Manager.GetHistoryStore()
		if store == nil {
			contract.LogFatal("Failed to get history status", errors.New("history store is not initialized"))
		}
		status, err := store.GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get history status", err)
		}
		iostore.PrintHistoryStatus(status)
	},
}

// historyExportCmd exports run history to Parquet files.
var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export run history to Parquet for analytics tools",
	Long: `Export all recorded runs to three Parquet files derived from --output-file:

  <file>.runs.parquet              run metadata
  <file>.file_metrics.parquet      per-file metrics
  <file>.survival_samples.parquet  survival curve samples

Requires: --output-file parameter

Examples:
  gitpulse history export --history-backend sqlite --output-file history
  duckdb -c "SELECT * FROM read_parquet('history.runs.parquet') LIMIT 10"`,
	PreRunE: historySetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iostore.ExecuteHistoryExport(cfg.OutputFile); err != nil {
			contract.LogFatal("Failed to export run history", err)
		}
	},
}

// historyClearCmd clears the run history.
var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all recorded run history",
	Long: `Delete all recorded runs, file metrics and survival samples.

For SQLite the database file is removed. For MySQL and PostgreSQL the history
tables and the migrations table are dropped.

WARNING: This action cannot be undone. Consider exporting data first.

Examples:
  gitpulse history export --history-backend sqlite --output-file backup
  gitpulse history clear --history-backend sqlite`,
	PreRunE: historyRawSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iostore.ClearHistory(cfg.HistoryBackend, sqliteHistoryPath(), cfg.HistoryDBConnect); err != nil {
			contract.LogFatal("Failed to clear run history", err)
		}
		if cfg.HistoryBackend == schema.NoneBackend {
			fmt.Println("History tracking is disabled. Nothing to clear.")
			return
		}
		fmt.Println("Run history cleared successfully.")
	},
}

// historyMigrateCmd runs database migrations for the history store.
var historyMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage schema versions of the run history store.

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  gitpulse history migrate --history-backend sqlite

  # Migrate to specific version
  gitpulse history migrate --history-backend sqlite --target-version 2

  # Rollback to initial state
  gitpulse history migrate --history-backend sqlite --target-version 0`,
	PreRunE: historyRawSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := iostore.MigrateHistory(cfg.HistoryBackend, cfg.HistoryDBConnect, targetVersion); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}
