package usecase

import (
	"context"
	"errors"

	"campus-match/internal/config"
	"campus-match/internal/domain/matching"
	"campus-match/internal/repository"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type RecommendationParams struct {
	Scheme string
	Limit  int
}

type RecommendedMatch struct {
	UserID      uuid.UUID       `json:"user_id"`
	DisplayName string          `json:"display_name"`
	Result      matching.Result `json:"result"`
}

type RecommendationUsecase interface {
	Recommend(ctx context.Context, userID uuid.UUID, params RecommendationParams) ([]RecommendedMatch, error)
	Dismiss(ctx context.Context, userID uuid.UUID, scheme string, candidateID uuid.UUID) error
}

// Recommendation ranks a stored user against the stored pool of a scheme.
type Recommendation struct {
	schemes    *matching.Registry
	profiles   repository.MatchProfileRepository
	priorities repository.MatchPriorityRepository
	dismissals repository.MatchDismissalRepository
	cache      MatchCache
	logger     *zap.Logger

	defaultLimit  int
	maxLimit      int
	maxCandidates int
}

func NewRecommendationUsecase(
	schemes *matching.Registry,
	profiles repository.MatchProfileRepository,
	priorities repository.MatchPriorityRepository,
	dismissals repository.MatchDismissalRepository,
	cache MatchCache,
	logger *zap.Logger,
	cfg config.MatchConfig,
) *Recommendation {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Recommendation{
		schemes:       schemes,
		profiles:      profiles,
		priorities:    priorities,
		dismissals:    dismissals,
		cache:         cacheOrNop(cache),
		logger:        logger.Named("recommendation"),
		defaultLimit:  cfg.DefaultLimit,
		maxLimit:      cfg.MaxLimit,
		maxCandidates: cfg.MaxCandidates,
	}
}

func (u *Recommendation) Recommend(ctx context.Context, userID uuid.UUID, params RecommendationParams) ([]RecommendedMatch, error) {
	if userID == uuid.Nil {
		return nil, ErrUnauthorized
	}
	scheme, err := u.schemes.Lookup(params.Scheme)
	if err != nil {
		return nil, err
	}
	limit, err := u.limitFor(scheme, params.Limit)
	if err != nil {
		return nil, err
	}

	key := RecommendationCacheKey(scheme, userID, limit)
	var cached []RecommendedMatch
	if hit, err := u.cache.GetJSON(ctx, key, &cached); err == nil && hit {
		return cached, nil
	}

	return u.compute(ctx, scheme, userID, limit)
}

// compute ranks from storage and refreshes the cache entry for limit.
func (u *Recommendation) compute(ctx context.Context, scheme *matching.Scheme, userID uuid.UUID, limit int) ([]RecommendedMatch, error) {
	var (
		self      repository.MatchProfile
		pool      []repository.MatchProfile
		stored    matching.Priorities
		dismissed []uuid.UUID
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := u.profiles.FindByUser(gctx, userID, scheme.Name)
		if errors.Is(err, repository.ErrMatchProfileNotFound) {
			return ErrProfileNotFound
		}
		self = p
		return err
	})
	g.Go(func() error {
		var err error
		pool, err = u.profiles.ListCandidates(gctx, scheme.Name, userID, u.maxCandidates)
		return err
	})
	g.Go(func() error {
		var err error
		stored, err = u.priorities.FindByUser(gctx, userID, scheme.Name)
		return err
	})
	g.Go(func() error {
		var err error
		dismissed, err = u.dismissals.ListDismissed(gctx, userID, scheme.Name)
		return err
	})
	if err := g.Wait(); err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			return nil, ErrProfileNotFound
		}
		u.logger.Error("load recommendation inputs", zap.String("user_id", userID.String()), zap.String("scheme", scheme.Name), zap.Error(err))
		return nil, ErrInternal
	}

	skip := make(map[uuid.UUID]struct{}, len(dismissed))
	for _, id := range dismissed {
		skip[id] = struct{}{}
	}

	names := make(map[string]string, len(pool))
	candidates := make([]matching.Profile, 0, len(pool))
	for _, p := range pool {
		if _, ok := skip[p.UserID]; ok {
			continue
		}
		names[p.UserID.String()] = p.DisplayName
		candidates = append(candidates, p.ToMatching())
	}

	prio, dropped := knownPriorities(scheme, stored)
	if len(dropped) > 0 {
		u.logger.Warn("ignoring stale priorities", zap.String("user_id", userID.String()), zap.String("scheme", scheme.Name), zap.Strings("fields", dropped))
	}

	results, err := matching.Rank(self.ToMatching(), candidates, scheme, prio, matching.RankOptions{Limit: limit})
	if err != nil {
		u.logger.Error("rank recommendations", zap.String("user_id", userID.String()), zap.Error(err))
		return nil, ErrInternal
	}
	logIssues(u.logger, scheme.Name, userID.String(), results)

	out := make([]RecommendedMatch, 0, len(results))
	for _, r := range results {
		id, err := uuid.Parse(r.CandidateID)
		if err != nil {
			continue
		}
		out = append(out, RecommendedMatch{UserID: id, DisplayName: names[r.CandidateID], Result: r})
	}

	key := RecommendationCacheKey(scheme, userID, limit)
	if err := u.cache.SetJSON(ctx, key, out, 0); err != nil {
		u.logger.Debug("cache set failed", zap.String("key", key), zap.Error(err))
	}
	return out, nil
}

func (u *Recommendation) Dismiss(ctx context.Context, userID uuid.UUID, schemeName string, candidateID uuid.UUID) error {
	if userID == uuid.Nil {
		return ErrUnauthorized
	}
	if candidateID == uuid.Nil || candidateID == userID {
		return eris.Wrap(ErrInvalidInput, "candidate id")
	}
	scheme, err := u.schemes.Lookup(schemeName)
	if err != nil {
		return err
	}

	if err := u.dismissals.Dismiss(ctx, userID, scheme.Name, candidateID); err != nil {
		u.logger.Error("dismiss match", zap.String("user_id", userID.String()), zap.Error(err))
		return ErrInternal
	}
	invalidateRecommendations(ctx, u.cache, u.logger, scheme.Name, userID)
	return nil
}

// limitFor picks the page size for stored recommendations. A scheme without
// its own cap falls back to the configured default so a large pool is never
// returned whole.
func (u *Recommendation) limitFor(scheme *matching.Scheme, requested int) (int, error) {
	limit, err := clampLimit(requested, u.maxLimit)
	if err != nil {
		return 0, err
	}
	if limit > 0 {
		return limit, nil
	}
	if scheme.Limit > 0 {
		return scheme.Limit, nil
	}
	return u.defaultLimit, nil
}

func invalidateRecommendations(ctx context.Context, cache MatchCache, logger *zap.Logger, scheme string, userID uuid.UUID) {
	pattern := RecommendationCachePattern(scheme, userID)
	if err := cache.DeleteByPattern(ctx, pattern); err != nil {
		logger.Warn("cache invalidation failed", zap.String("pattern", pattern), zap.Error(err))
	}
}
