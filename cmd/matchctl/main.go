package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"campus-match/internal/config"
	"campus-match/internal/pkg/logger"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	log         = zap.NewNop()
	logLevel    string
	schemesFile string
)

var rootCmd = &cobra.Command{
	Use:           "matchctl",
	Short:         "Operate the campus-match engine",
	Long:          "Ranks profile files offline, inspects scoring schemes and runs maintenance against the match database.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, err := logger.New(config.LogConfig{Level: logLevel, Format: "console"})
		if err != nil {
			return eris.Wrap(err, "init logger")
		}
		log = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = log.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&schemesFile, "schemes", "", "YAML file with extra scoring schemes")
}

// loadConfig reads the server configuration for commands that touch the
// database, the cache or JWT. --schemes overrides MATCH_SCHEMES_FILE.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, eris.Wrap(err, "load config")
	}
	if schemesFile != "" {
		cfg.Match.SchemesFile = schemesFile
	}
	return cfg, nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		log.Error("command failed", zap.Error(err))
		stop()
		os.Exit(1)
	}
}
