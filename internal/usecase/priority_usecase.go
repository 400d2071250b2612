package usecase

import (
	"context"
	"strings"

	"campus-match/internal/domain/matching"
	"campus-match/internal/repository"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

type PriorityUsecase interface {
	Get(ctx context.Context, userID uuid.UUID, scheme string) (matching.Priorities, error)
	Toggle(ctx context.Context, userID uuid.UUID, scheme, field string) (matching.Priorities, error)
}

type Priority struct {
	schemes    *matching.Registry
	priorities repository.MatchPriorityRepository
	cache      MatchCache
	logger     *zap.Logger
}

func NewPriorityUsecase(schemes *matching.Registry, priorities repository.MatchPriorityRepository, cache MatchCache, logger *zap.Logger) *Priority {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Priority{
		schemes:    schemes,
		priorities: priorities,
		cache:      cacheOrNop(cache),
		logger:     logger.Named("priority"),
	}
}

func (u *Priority) Get(ctx context.Context, userID uuid.UUID, schemeName string) (matching.Priorities, error) {
	if userID == uuid.Nil {
		return nil, ErrUnauthorized
	}
	scheme, err := u.schemes.Lookup(schemeName)
	if err != nil {
		return nil, err
	}

	p, err := u.priorities.FindByUser(ctx, userID, scheme.Name)
	if err != nil {
		u.logger.Error("load priorities", zap.String("user_id", userID.String()), zap.Error(err))
		return nil, ErrInternal
	}
	known, _ := knownPriorities(scheme, p)
	return known, nil
}

// Toggle flips one field in the stored selection. Adding a fourth field is a
// no-op and returns the unchanged selection.
func (u *Priority) Toggle(ctx context.Context, userID uuid.UUID, schemeName, field string) (matching.Priorities, error) {
	if userID == uuid.Nil {
		return nil, ErrUnauthorized
	}
	scheme, err := u.schemes.Lookup(schemeName)
	if err != nil {
		return nil, err
	}
	field = strings.TrimSpace(field)
	if _, ok := scheme.Field(field); !ok {
		return nil, eris.Wrapf(matching.ErrUnknownField, "scheme %q: priority %q", scheme.Name, field)
	}

	current, err := u.priorities.FindByUser(ctx, userID, scheme.Name)
	if err != nil {
		u.logger.Error("load priorities", zap.String("user_id", userID.String()), zap.Error(err))
		return nil, ErrInternal
	}
	current, _ = knownPriorities(scheme, current)

	next := matching.TogglePriority(current, field)
	if samePriorities(current, next) {
		return next, nil
	}

	if err := u.priorities.Save(ctx, userID, scheme.Name, next); err != nil {
		u.logger.Error("save priorities", zap.String("user_id", userID.String()), zap.Error(err))
		return nil, ErrInternal
	}
	invalidateRecommendations(ctx, u.cache, u.logger, scheme.Name, userID)
	return next, nil
}

func samePriorities(a, b matching.Priorities) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
