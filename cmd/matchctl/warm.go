package main

import (
	"fmt"
	"io"

	"campus-match/internal/app"
	"campus-match/internal/usecase"

	"github.com/google/uuid"
	"github.com/olekukonko/tablewriter"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	warmScheme  string
	warmWorkers int
	warmRate    int
	warmLimit   int
	warmUser    string
)

var warmCmd = &cobra.Command{
	Use:   "warm",
	Short: "Precompute cached recommendations",
	Long:  "Recomputes the recommendation list of every stored user of a scheme, or of one user with --user, and writes it to Redis.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if !cfg.Database.Enabled() {
			return eris.New("warm needs a database (DB_HOST)")
		}

		c, err := app.NewContainer(ctx, cfg, log)
		if err != nil {
			return err
		}
		defer func() { _ = c.Close() }()

		if !c.Cache.Available() {
			log.Warn("redis unavailable, results will not be cached")
		}

		if warmUser != "" {
			id, err := uuid.Parse(warmUser)
			if err != nil {
				return eris.Wrapf(err, "parse --user %q", warmUser)
			}
			if err := c.Recommendations.WarmUser(ctx, id, warmScheme); err != nil {
				return eris.Wrap(err, "warm user")
			}
			log.Info("user warmed", zap.String("user_id", id.String()), zap.String("scheme", warmScheme))
			return nil
		}

		workers := warmWorkers
		if workers <= 0 {
			workers = cfg.Match.WarmWorkers
		}
		rate := warmRate
		if rate < 0 {
			rate = cfg.Match.WarmRatePerSec
		}

		report, err := c.Recommendations.Warm(ctx, warmScheme, usecase.WarmOptions{
			Workers:    workers,
			RatePerSec: rate,
			Limit:      warmLimit,
		})
		if err != nil {
			return eris.Wrap(err, "warm")
		}
		return writeWarmReport(cmd.OutOrStdout(), report)
	},
}

func init() {
	warmCmd.Flags().StringVar(&warmScheme, "scheme", "roommate", "scheme to warm")
	warmCmd.Flags().IntVar(&warmWorkers, "workers", 0, "concurrent workers (default MATCH_WARM_WORKERS)")
	warmCmd.Flags().IntVar(&warmRate, "rate", -1, "max users per second, 0 for unlimited (default MATCH_WARM_RATE_PER_SEC)")
	warmCmd.Flags().IntVar(&warmLimit, "limit", 0, "matches cached per user (default scheme limit)")
	warmCmd.Flags().StringVar(&warmUser, "user", "", "warm a single user id")
	rootCmd.AddCommand(warmCmd)
}

func writeWarmReport(w io.Writer, r usecase.WarmReport) error {
	table := tablewriter.NewWriter(w)
	table.Header("Scheme", "Users", "Warmed", "Failed", "Skipped")
	if err := table.Append([]string{
		r.Scheme,
		fmt.Sprintf("%d", r.Users),
		fmt.Sprintf("%d", r.Warmed),
		fmt.Sprintf("%d", r.Failed),
		fmt.Sprintf("%t", r.Skipped),
	}); err != nil {
		return err
	}
	return table.Render()
}
