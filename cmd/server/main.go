package main

import (
	"fmt"
	"os"

	"github.com/BerylCAtieno/ai-stack-agent/internal/config"
	"github.com/BerylCAtieno/ai-stack-agent/internal/logger"
	"github.com/BerylCAtieno/ai-stack-agent/internal/store"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var version = "dev" // Overwritten at build time

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "ai-stack-server",
		Short:        "AI stack recommendation API",
		SilenceUsage: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			// a missing .env is fine, the environment may already be set
			_ = godotenv.Load()
		},
	}
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(
		newServeCmd(),
		newMigrateCmd(),
		newVersionCmd(),
	)
	return rootCmd
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database tables",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.Load()
			log, err := logger.New(cfg.LogMode)
			if err != nil {
				return fmt.Errorf("failed to init logger: %w", err)
			}
			defer log.Sync()

			st, err := store.Open(cfg.DBDriver, cfg.DatabaseURL, log)
			if err != nil {
				return err
			}
			defer st.Close()

			if err := st.AutoMigrate(); err != nil {
				return err
			}
			log.Info("Database migrated", "driver", cfg.DBDriver)
			return nil
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("ai-stack-server version %s\n", version)
		},
	}
}
