package usecase

import (
	"context"
	"time"

	"campus-match/internal/pkg/workerpool"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type WarmOptions struct {
	Workers      int
	RatePerSec   int
	Limit        int
	LockDuration time.Duration
}

type WarmReport struct {
	Scheme  string
	Users   int
	Warmed  int
	Failed  int
	Skipped bool
}

// Warm recomputes and caches the recommendations of every stored user of a
// scheme. When the cache is reachable only one warm-up per scheme runs at a
// time; a concurrent call returns a skipped report.
func (u *Recommendation) Warm(ctx context.Context, schemeName string, opts WarmOptions) (WarmReport, error) {
	scheme, err := u.schemes.Lookup(schemeName)
	if err != nil {
		return WarmReport{}, err
	}
	report := WarmReport{Scheme: scheme.Name}

	limit, err := u.limitFor(scheme, opts.Limit)
	if err != nil {
		return report, err
	}

	if u.cache.Available() {
		lockTTL := opts.LockDuration
		if lockTTL <= 0 {
			lockTTL = 10 * time.Minute
		}
		lockKey := WarmLockKey(scheme.Name)
		ok, err := u.cache.SetIfNotExists(ctx, lockKey, time.Now().UTC().Format(time.RFC3339), lockTTL)
		if err != nil {
			u.logger.Warn("warm lock failed, continuing unlocked", zap.String("scheme", scheme.Name), zap.Error(err))
		} else if !ok {
			report.Skipped = true
			return report, nil
		} else {
			defer func() {
				if err := u.cache.Delete(context.WithoutCancel(ctx), lockKey); err != nil {
					u.logger.Warn("warm unlock failed", zap.String("key", lockKey), zap.Error(err))
				}
			}()
		}
	}

	ids, err := u.profiles.ListUserIDs(ctx, scheme.Name)
	if err != nil {
		u.logger.Error("list users to warm", zap.String("scheme", scheme.Name), zap.Error(err))
		return report, ErrInternal
	}
	report.Users = len(ids)

	pool := workerpool.New(opts.Workers, 0)
	pool.SetRateLimit(opts.RatePerSec)
	results := pool.Run(ctx)

	go func() {
		defer pool.Close()
		for _, id := range ids {
			ok := pool.Submit(ctx, workerpool.Job{
				Key: id.String(),
				Run: func(ctx context.Context) error {
					_, err := u.compute(ctx, scheme, id, limit)
					return err
				},
			})
			if !ok {
				return
			}
		}
	}()

	for r := range results {
		if r.Err != nil {
			report.Failed++
			u.logger.Warn("warm user failed", zap.String("scheme", scheme.Name), zap.String("user_id", r.Key), zap.Error(r.Err))
			continue
		}
		report.Warmed++
	}

	u.logger.Info("warm-up finished",
		zap.String("scheme", scheme.Name),
		zap.Int("users", report.Users),
		zap.Int("warmed", report.Warmed),
		zap.Int("failed", report.Failed),
	)
	if err := ctx.Err(); err != nil {
		return report, err
	}
	return report, nil
}

// WarmUser refreshes a single user's cached recommendations.
func (u *Recommendation) WarmUser(ctx context.Context, userID uuid.UUID, schemeName string) error {
	scheme, err := u.schemes.Lookup(schemeName)
	if err != nil {
		return err
	}
	limit, err := u.limitFor(scheme, 0)
	if err != nil {
		return err
	}
	_, err = u.compute(ctx, scheme, userID, limit)
	return err
}
