package main

import (
	"campus-match/internal/app"
	dbpostgres "campus-match/internal/database/postgres"
	"campus-match/internal/database/seeder"

	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Migrate and insert demo profiles",
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

		if err := app.MigrationRunner(cfg.Database, log).Run(ctx, db.SQLDB()); err != nil {
			return err
		}
		return seeder.Runner{Seeders: seeder.Defaults(), Logger: log}.Run(ctx, db)
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}
