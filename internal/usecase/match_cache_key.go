package usecase

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"campus-match/internal/domain/matching"

	"github.com/google/uuid"
)

type rankCacheKeyInput struct {
	Scheme     string            `json:"scheme"`
	Version    int               `json:"version"`
	Self       cacheKeyProfile   `json:"self"`
	Candidates []cacheKeyProfile `json:"candidates"`
	Priorities []string          `json:"priorities"`
	Filters    []cacheKeyFilter  `json:"filters"`
	Limit      int               `json:"limit"`
}

type cacheKeyProfile struct {
	ID     string                   `json:"id"`
	Values map[string]cacheKeyValue `json:"values"`
}

// cacheKeyValue keeps the kind so that an unreadable value and an absent one
// hash differently.
type cacheKeyValue struct {
	Kind  string         `json:"k"`
	Value matching.Value `json:"v"`
}

type cacheKeyFilter struct {
	Field string        `json:"field"`
	Value cacheKeyValue `json:"value"`
}

func keyValue(v matching.Value) cacheKeyValue {
	return cacheKeyValue{Kind: v.Kind.String(), Value: v}
}

func keyProfile(p matching.Profile) cacheKeyProfile {
	vals := make(map[string]cacheKeyValue, len(p.Values))
	for k, v := range p.Values {
		vals[k] = keyValue(v)
	}
	return cacheKeyProfile{ID: p.ID, Values: vals}
}

// RankCacheKey hashes everything that can change the outcome of a stateless
// ranking request, including the scheme version.
func RankCacheKey(scheme *matching.Scheme, req RankRequest, limit int) string {
	in := rankCacheKeyInput{
		Self:       keyProfile(req.Self),
		Candidates: make([]cacheKeyProfile, 0, len(req.Candidates)),
		Priorities: make([]string, 0, len(req.Priorities)),
		Filters:    make([]cacheKeyFilter, 0, len(req.Filters)),
		Limit:      limit,
	}
	if scheme != nil {
		in.Scheme = scheme.Name
		in.Version = scheme.Version
	}
	for _, c := range req.Candidates {
		in.Candidates = append(in.Candidates, keyProfile(c))
	}
	// keyed on the capped set Rank boosts; order within it never changes a score
	in.Priorities = append(in.Priorities, matching.NewPriorities(req.Priorities...)...)
	sort.Strings(in.Priorities)
	for _, f := range req.Filters {
		in.Filters = append(in.Filters, cacheKeyFilter{Field: strings.TrimSpace(f.Field), Value: keyValue(f.Value)})
	}

	b, _ := json.Marshal(in)
	sum := sha256.Sum256(b)
	return "match:rank:" + hex.EncodeToString(sum[:])
}

func RecommendationCacheKey(scheme *matching.Scheme, userID uuid.UUID, limit int) string {
	return fmt.Sprintf("match:rec:%s:%s:v%d:%d", scheme.Name, userID, scheme.Version, limit)
}

// RecommendationCachePattern matches every cached page of one user's
// recommendations for a scheme, whatever the version or limit.
func RecommendationCachePattern(scheme string, userID uuid.UUID) string {
	return fmt.Sprintf("match:rec:%s:%s:*", scheme, userID)
}

func WarmLockKey(scheme string) string {
	return "match:warm:lock:" + strings.TrimSpace(scheme)
}
