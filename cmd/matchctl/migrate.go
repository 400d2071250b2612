package main

import (
	"campus-match/internal/app"
	"campus-match/internal/database/migration"
	dbpostgres "campus-match/internal/database/postgres"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var migrateDir string

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		db, err := dbpostgres.Connect(ctx, cfg.Database)
		if err != nil {
			return err
		}
		defer func() { _ = db.Close() }()

		runner := app.MigrationRunner(cfg.Database, log)
		if migrateDir != "" {
			runner = migration.Runner{Dir: migrateDir, Logger: log}
		}
		if err := runner.Run(ctx, db.SQLDB()); err != nil {
			return eris.Wrap(err, "migrate")
		}
		log.Info("migrations up to date")
		return nil
	},
}

func init() {
	migrateCmd.Flags().StringVar(&migrateDir, "dir", "", "read migrations from this directory instead of DB_MIGRATIONS_DIR")
	rootCmd.AddCommand(migrateCmd)
}
