package usecase

import (
	"context"
	"strings"

	"campus-match/internal/config"
	"campus-match/internal/domain/matching"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// RankRequest is a self-contained ranking call: the caller supplies both the
// self profile and the candidate pool.
type RankRequest struct {
	Scheme     string
	Self       matching.Profile
	Candidates []matching.Profile
	Priorities []string
	Filters    []matching.Filter
	Limit      int
}

type SchemeInfo struct {
	Name      string
	Version   int
	Limit     int
	Threshold matching.Threshold
	Fields    []matching.FieldDefinition
}

type MatchingUsecase interface {
	Rank(ctx context.Context, req RankRequest) ([]matching.Result, error)
	Schemes() []SchemeInfo
}

type Matching struct {
	schemes *matching.Registry
	cache   MatchCache
	logger  *zap.Logger

	maxLimit      int
	maxCandidates int
}

func NewMatchingUsecase(schemes *matching.Registry, cache MatchCache, logger *zap.Logger, cfg config.MatchConfig) *Matching {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Matching{
		schemes:       schemes,
		cache:         cacheOrNop(cache),
		logger:        logger.Named("matching"),
		maxLimit:      cfg.MaxLimit,
		maxCandidates: cfg.MaxCandidates,
	}
}

func (u *Matching) Rank(ctx context.Context, req RankRequest) ([]matching.Result, error) {
	scheme, err := u.schemes.Lookup(req.Scheme)
	if err != nil {
		return nil, err
	}

	limit, err := clampLimit(req.Limit, u.maxLimit)
	if err != nil {
		return nil, err
	}
	if u.maxCandidates > 0 && len(req.Candidates) > u.maxCandidates {
		return nil, eris.Wrapf(ErrInvalidInput, "at most %d candidates per request", u.maxCandidates)
	}

	key := RankCacheKey(scheme, req, limit)
	var cached []matching.Result
	if hit, err := u.cache.GetJSON(ctx, key, &cached); err == nil && hit {
		return cached, nil
	}

	results, err := matching.Rank(req.Self, req.Candidates, scheme, matching.NewPriorities(req.Priorities...), matching.RankOptions{
		Limit:   limit,
		Filters: req.Filters,
	})
	if err != nil {
		return nil, err
	}
	logIssues(u.logger, scheme.Name, req.Self.ID, results)

	if err := u.cache.SetJSON(ctx, key, results, 0); err != nil {
		u.logger.Debug("cache set failed", zap.String("key", key), zap.Error(err))
	}
	return results, nil
}

func (u *Matching) Schemes() []SchemeInfo {
	names := u.schemes.Names()
	out := make([]SchemeInfo, 0, len(names))
	for _, n := range names {
		s, err := u.schemes.Lookup(n)
		if err != nil {
			continue
		}
		out = append(out, describeScheme(s))
	}
	return out
}

func describeScheme(s *matching.Scheme) SchemeInfo {
	return SchemeInfo{
		Name:      s.Name,
		Version:   s.Version,
		Limit:     s.Limit,
		Threshold: s.Threshold,
		Fields:    append([]matching.FieldDefinition(nil), s.Fields...),
	}
}

// clampLimit rejects negative limits and caps the rest at ceiling. Zero stays
// zero so the scheme limit applies.
func clampLimit(limit, ceiling int) (int, error) {
	if limit < 0 {
		return 0, eris.Wrap(ErrInvalidInput, "limit must be >= 0")
	}
	if ceiling > 0 && limit > ceiling {
		return ceiling, nil
	}
	return limit, nil
}

func logIssues(logger *zap.Logger, scheme, selfID string, results []matching.Result) {
	for _, r := range results {
		for _, is := range r.Issues {
			logger.Warn("unscorable attribute",
				zap.String("scheme", scheme),
				zap.String("self_id", selfID),
				zap.String("candidate_id", r.CandidateID),
				zap.String("field", is.Field),
				zap.String("reason", is.Reason),
			)
		}
	}
}

// knownPriorities drops stored priority names the scheme no longer defines.
func knownPriorities(scheme *matching.Scheme, stored matching.Priorities) (matching.Priorities, []string) {
	out := make(matching.Priorities, 0, len(stored))
	var dropped []string
	for _, f := range stored {
		if _, ok := scheme.Field(strings.TrimSpace(f)); ok {
			out = append(out, f)
			continue
		}
		dropped = append(dropped, f)
	}
	return out, dropped
}
