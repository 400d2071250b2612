package usecase

import (
	"context"
	"errors"
	"strings"

	"campus-match/internal/domain/matching"
	"campus-match/internal/repository"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

type ProfileInput struct {
	DisplayName string
	Attributes  map[string]matching.Value
}

type ProfileUsecase interface {
	Get(ctx context.Context, userID uuid.UUID, scheme string) (repository.MatchProfile, error)
	Upsert(ctx context.Context, userID uuid.UUID, scheme string, in ProfileInput) (repository.MatchProfile, error)
}

type Profile struct {
	schemes  *matching.Registry
	profiles repository.MatchProfileRepository
	cache    MatchCache
	logger   *zap.Logger
}

func NewProfileUsecase(schemes *matching.Registry, profiles repository.MatchProfileRepository, cache MatchCache, logger *zap.Logger) *Profile {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Profile{
		schemes:  schemes,
		profiles: profiles,
		cache:    cacheOrNop(cache),
		logger:   logger.Named("profile"),
	}
}

func (u *Profile) Get(ctx context.Context, userID uuid.UUID, schemeName string) (repository.MatchProfile, error) {
	if userID == uuid.Nil {
		return repository.MatchProfile{}, ErrUnauthorized
	}
	scheme, err := u.schemes.Lookup(schemeName)
	if err != nil {
		return repository.MatchProfile{}, err
	}

	p, err := u.profiles.FindByUser(ctx, userID, scheme.Name)
	if err != nil {
		if errors.Is(err, repository.ErrMatchProfileNotFound) {
			return repository.MatchProfile{}, ErrProfileNotFound
		}
		u.logger.Error("load profile", zap.String("user_id", userID.String()), zap.Error(err))
		return repository.MatchProfile{}, ErrInternal
	}
	return p, nil
}

// Upsert replaces the caller's attributes for a scheme. Keys must be scheme
// fields or the flag fields their preference rules read.
func (u *Profile) Upsert(ctx context.Context, userID uuid.UUID, schemeName string, in ProfileInput) (repository.MatchProfile, error) {
	if userID == uuid.Nil {
		return repository.MatchProfile{}, ErrUnauthorized
	}
	scheme, err := u.schemes.Lookup(schemeName)
	if err != nil {
		return repository.MatchProfile{}, err
	}

	attrs, err := validateAttributes(scheme, in.Attributes)
	if err != nil {
		return repository.MatchProfile{}, err
	}

	saved, err := u.profiles.Upsert(ctx, repository.MatchProfile{
		UserID:      userID,
		Scheme:      scheme.Name,
		DisplayName: strings.TrimSpace(in.DisplayName),
		Attributes:  attrs,
	})
	if err != nil {
		u.logger.Error("save profile", zap.String("user_id", userID.String()), zap.Error(err))
		return repository.MatchProfile{}, ErrInternal
	}
	invalidateRecommendations(ctx, u.cache, u.logger, scheme.Name, userID)
	return saved, nil
}

func validateAttributes(scheme *matching.Scheme, in map[string]matching.Value) (map[string]matching.Value, error) {
	allowed := make(map[string]struct{}, len(scheme.Fields)*2)
	for _, f := range scheme.Fields {
		allowed[f.Name] = struct{}{}
		if f.FlagField != "" {
			allowed[f.FlagField] = struct{}{}
		}
	}

	out := make(map[string]matching.Value, len(in))
	for k, v := range in {
		k = strings.TrimSpace(k)
		if _, ok := allowed[k]; !ok {
			return nil, eris.Wrapf(matching.ErrUnknownField, "scheme %q: attribute %q", scheme.Name, k)
		}
		if v.Kind == matching.KindInvalid {
			return nil, eris.Wrapf(ErrInvalidInput, "attribute %q has an unsupported shape", k)
		}
		if !v.IsPresent() {
			continue
		}
		out[k] = v
	}
	return out, nil
}
