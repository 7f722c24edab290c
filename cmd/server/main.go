package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Abdelwahab08/islamic-projectttt-sub002/internal/config"
	"github.com/Abdelwahab08/islamic-projectttt-sub002/internal/logger"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "academy",
		Short:         "Academy portal backend",
		Long:          `Serves the academy portal API, its page gate and the internal identity service.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		serveCmd(),
		migrateCmd(),
		createAdminCmd(),
		whoisCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(1)
	}
}

func loadConfig() (config.Config, *zap.Logger, error) {
	cfg := config.Load()
	log := logger.New(logger.Config{Level: cfg.LogLevel, Encoding: cfg.LogEncoding})
	if err := cfg.Validate(); err != nil {
		return cfg, log, err
	}
	return cfg, log, nil
}
