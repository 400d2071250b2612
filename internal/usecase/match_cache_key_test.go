package usecase

import (
	"strings"
	"testing"

	"campus-match/internal/domain/matching"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestRankCacheKey(t *testing.T) {
	s := matching.PeerScheme()
	base := RankRequest{
		Self:       peerProfile("me", "go"),
		Candidates: []matching.Profile{peerProfile("a", "sql")},
		Priorities: []string{"skills", "university"},
	}

	k := RankCacheKey(s, base, 0)
	assert.True(t, strings.HasPrefix(k, "match:rank:"))
	assert.Len(t, k, len("match:rank:")+64)

	reordered := base
	reordered.Priorities = []string{" university", "skills"}
	assert.Equal(t, k, RankCacheKey(s, reordered, 0))

	assert.NotEqual(t, k, RankCacheKey(s, base, 5))

	// past the cap only the first three fields count
	overflowA := base
	overflowA.Priorities = []string{"university", "location", "skills", "interests"}
	overflowB := base
	overflowB.Priorities = []string{"interests", "university", "location", "skills"}
	assert.NotEqual(t, RankCacheKey(s, overflowA, 0), RankCacheKey(s, overflowB, 0))

	capped := base
	capped.Priorities = []string{"university", "location", "skills"}
	assert.Equal(t, RankCacheKey(s, capped, 0), RankCacheKey(s, overflowA, 0))

	invalid := base
	invalid.Candidates = []matching.Profile{{ID: "a", Values: map[string]matching.Value{"skills": {Kind: matching.KindInvalid}}}}
	absent := base
	absent.Candidates = []matching.Profile{{ID: "a", Values: map[string]matching.Value{"skills": {}}}}
	assert.NotEqual(t, RankCacheKey(s, invalid, 0), RankCacheKey(s, absent, 0))
}

func TestRecommendationKeysShareAPattern(t *testing.T) {
	user := uuid.MustParse("7b1c7c3e-2b8e-4d59-9b53-8f3c8f0e2c11")
	key := RecommendationCacheKey(matching.RoommateScheme(), user, 10)
	assert.Equal(t, "match:rec:roommate:7b1c7c3e-2b8e-4d59-9b53-8f3c8f0e2c11:v1:10", key)
	assert.Equal(t, "match:rec:roommate:7b1c7c3e-2b8e-4d59-9b53-8f3c8f0e2c11:*", RecommendationCachePattern("roommate", user))
	assert.Equal(t, "match:warm:lock:peer", WarmLockKey(" peer "))
}
