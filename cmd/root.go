package cmd

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/diarium/diarium/internal/store"
)

var flagDB string

var rootCmd = &cobra.Command{
	Use:   "diarium",
	Short: "Double-entry bookkeeping with a 4-level chart of accounts",
	Long: "A single-user bookkeeping core backed by SQLite: chart plans with a " +
		"Type/Category/Group/Account taxonomy, monthly journal books of balanced " +
		"double-entry transactions, and xlsx export/import.",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagDB, "db", "diarium.db", "SQLite database path")
}

func Execute() error {
	return rootCmd.Execute()
}

func openStore() (*store.Store, error) {
	return store.Open(flagDB)
}

// newLogger builds the process logger; level comes from DIARIUM_LOG_LEVEL.
func newLogger() zerolog.Logger {
	level := zerolog.InfoLevel
	if v := os.Getenv("DIARIUM_LOG_LEVEL"); v != "" {
		if parsed, err := zerolog.ParseLevel(v); err == nil {
			level = parsed
		}
	}
	return zerolog.New(os.Stderr).Level(level).With().Timestamp().Logger()
}
