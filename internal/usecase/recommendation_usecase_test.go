package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"campus-match/internal/domain/matching"
	"campus-match/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func roommate(id uuid.UUID, name string, attrs map[string]matching.Value) repository.MatchProfile {
	return repository.MatchProfile{UserID: id, Scheme: "roommate", DisplayName: name, Attributes: attrs}
}

type recFixture struct {
	self, close, far uuid.UUID
	profiles         *fakeProfileRepo
	priorities       *fakePriorityRepo
	dismissals       *fakeDismissalRepo
	cache            *fakeCache
	uc               *Recommendation
}

func newRecFixture(t *testing.T) recFixture {
	t.Helper()
	f := recFixture{self: uuid.New(), close: uuid.New(), far: uuid.New()}
	f.profiles = newFakeProfileRepo(
		roommate(f.self, "Me", map[string]matching.Value{
			"city":    matching.Text("Leeds"),
			"budget":  matching.Range(400, 600),
			"hobbies": matching.Set("chess", "climbing"),
		}),
		roommate(f.close, "Close", map[string]matching.Value{
			"city":    matching.Text("leeds "),
			"budget":  matching.Range(550, 700),
			"hobbies": matching.Set("Chess"),
		}),
		roommate(f.far, "Far", map[string]matching.Value{
			"city":   matching.Text("York"),
			"budget": matching.Range(100, 200),
		}),
	)
	f.priorities = newFakePriorityRepo()
	f.dismissals = newFakeDismissalRepo()
	f.cache = newFakeCache()
	f.uc = NewRecommendationUsecase(matching.DefaultRegistry(), f.profiles, f.priorities, f.dismissals, f.cache, nil, testMatchConfig)
	return f
}

func TestRecommend(t *testing.T) {
	f := newRecFixture(t)

	got, err := f.uc.Recommend(context.Background(), f.self, RecommendationParams{Scheme: "roommate"})
	require.NoError(t, err)

	// far scores zero and the roommate scheme keeps only positive totals
	require.Len(t, got, 1)
	assert.Equal(t, f.close, got[0].UserID)
	assert.Equal(t, "Close", got[0].DisplayName)
	assert.InDelta(t, 2+3+4*0.5, got[0].Result.Score, 1e-9)
	assert.Equal(t, []string{"chess"}, got[0].Result.Breakdown[2].Shared)
}

func TestRecommendAppliesStoredPriorities(t *testing.T) {
	f := newRecFixture(t)
	require.NoError(t, f.priorities.Save(context.Background(), f.self, "roommate", matching.Priorities{"budget", "removed-field"}))

	got, err := f.uc.Recommend(context.Background(), f.self, RecommendationParams{Scheme: "roommate"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.InDelta(t, 2+9+4*0.5, got[0].Result.Score, 1e-9)
}

func TestRecommendCachesAndInvalidatesOnDismiss(t *testing.T) {
	f := newRecFixture(t)
	ctx := context.Background()

	_, err := f.uc.Recommend(ctx, f.self, RecommendationParams{Scheme: "roommate"})
	require.NoError(t, err)
	require.Len(t, f.cache.keys(), 1)
	assert.True(t, strings.HasPrefix(f.cache.keys()[0], "match:rec:roommate:"+f.self.String()+":"))

	require.NoError(t, f.uc.Dismiss(ctx, f.self, "roommate", f.close))
	assert.Empty(t, f.cache.keys())

	got, err := f.uc.Recommend(ctx, f.self, RecommendationParams{Scheme: "roommate"})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRecommendErrors(t *testing.T) {
	f := newRecFixture(t)
	ctx := context.Background()

	_, err := f.uc.Recommend(ctx, uuid.Nil, RecommendationParams{Scheme: "roommate"})
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = f.uc.Recommend(ctx, f.self, RecommendationParams{Scheme: "nope"})
	assert.ErrorIs(t, err, matching.ErrSchemeNotFound)

	_, err = f.uc.Recommend(ctx, uuid.New(), RecommendationParams{Scheme: "roommate"})
	assert.ErrorIs(t, err, ErrProfileNotFound)

	_, err = f.uc.Recommend(ctx, f.self, RecommendationParams{Scheme: "roommate", Limit: -1})
	assert.ErrorIs(t, err, ErrInvalidInput)

	f.profiles.err = errors.New("connection reset")
	_, err = f.uc.Recommend(ctx, f.self, RecommendationParams{Scheme: "roommate"})
	assert.ErrorIs(t, err, ErrInternal)
}

func TestDismissValidation(t *testing.T) {
	f := newRecFixture(t)
	ctx := context.Background()

	assert.ErrorIs(t, f.uc.Dismiss(ctx, f.self, "roommate", f.self), ErrInvalidInput)
	assert.ErrorIs(t, f.uc.Dismiss(ctx, f.self, "roommate", uuid.Nil), ErrInvalidInput)
	assert.ErrorIs(t, f.uc.Dismiss(ctx, uuid.Nil, "roommate", f.close), ErrUnauthorized)
	assert.ErrorIs(t, f.uc.Dismiss(ctx, f.self, "dating", f.close), matching.ErrSchemeNotFound)
}

func TestLimitFor(t *testing.T) {
	f := newRecFixture(t)
	reg := matching.DefaultRegistry()
	roommateScheme, _ := reg.Lookup("roommate")
	peerScheme, _ := reg.Lookup("peer")

	n, err := f.uc.limitFor(roommateScheme, 0)
	require.NoError(t, err)
	assert.Equal(t, 10, n)

	n, err = f.uc.limitFor(peerScheme, 0)
	require.NoError(t, err)
	assert.Equal(t, 20, n)

	n, err = f.uc.limitFor(peerScheme, 500)
	require.NoError(t, err)
	assert.Equal(t, 50, n)
}

func TestWarm(t *testing.T) {
	f := newRecFixture(t)

	report, err := f.uc.Warm(context.Background(), "roommate", WarmOptions{Workers: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, report.Users)
	assert.Equal(t, 3, report.Warmed)
	assert.Zero(t, report.Failed)
	assert.False(t, report.Skipped)
	assert.Len(t, f.cache.keys(), 3)
	assert.Empty(t, f.cache.locks)
}

func TestWarmSkipsWhenLocked(t *testing.T) {
	f := newRecFixture(t)
	f.cache.locks[WarmLockKey("roommate")] = "held"

	report, err := f.uc.Warm(context.Background(), "roommate", WarmOptions{Workers: 1})
	require.NoError(t, err)
	assert.True(t, report.Skipped)
	assert.Empty(t, f.cache.keys())
}

func TestWarmWithoutCacheServer(t *testing.T) {
	f := newRecFixture(t)
	f.cache.available = false

	report, err := f.uc.Warm(context.Background(), "roommate", WarmOptions{Workers: 3})
	require.NoError(t, err)
	assert.Equal(t, 3, report.Warmed)
}

func TestWarmUser(t *testing.T) {
	f := newRecFixture(t)
	require.NoError(t, f.uc.WarmUser(context.Background(), f.self, "roommate"))
	assert.Len(t, f.cache.keys(), 1)
	assert.ErrorIs(t, f.uc.WarmUser(context.Background(), uuid.New(), "roommate"), ErrProfileNotFound)
}
