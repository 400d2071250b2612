package usecase

import (
	"context"
	"encoding/json"
	"path"
	"sync"
	"time"

	"campus-match/internal/domain/matching"
	"campus-match/internal/repository"

	"github.com/google/uuid"
)

type fakeCache struct {
	mu        sync.Mutex
	data      map[string][]byte
	locks     map[string]string
	available bool
	gets      int
	sets      int
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: map[string][]byte{}, locks: map[string]string{}, available: true}
}

func (c *fakeCache) GetJSON(_ context.Context, key string, out any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	b, ok := c.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, out)
}

func (c *fakeCache) SetJSON(_ context.Context, key string, value any, _ time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sets++
	c.data[key] = b
	return nil
}

func (c *fakeCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	delete(c.locks, key)
	return nil
}

func (c *fakeCache) DeleteByPattern(_ context.Context, pattern string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.data {
		if ok, _ := path.Match(pattern, k); ok {
			delete(c.data, k)
		}
	}
	return nil
}

func (c *fakeCache) SetIfNotExists(_ context.Context, key, value string, _ time.Duration) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, held := c.locks[key]; held {
		return false, nil
	}
	c.locks[key] = value
	return true, nil
}

func (c *fakeCache) Available() bool { return c.available }

func (c *fakeCache) keys() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, 0, len(c.data))
	for k := range c.data {
		out = append(out, k)
	}
	return out
}

type fakeProfileRepo struct {
	mu       sync.Mutex
	profiles map[string]repository.MatchProfile
	err      error
}

func newFakeProfileRepo(ps ...repository.MatchProfile) *fakeProfileRepo {
	r := &fakeProfileRepo{profiles: map[string]repository.MatchProfile{}}
	for _, p := range ps {
		r.profiles[p.Scheme+"/"+p.UserID.String()] = p
	}
	return r
}

func (r *fakeProfileRepo) FindByUser(_ context.Context, userID uuid.UUID, scheme string) (repository.MatchProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return repository.MatchProfile{}, r.err
	}
	p, ok := r.profiles[scheme+"/"+userID.String()]
	if !ok {
		return repository.MatchProfile{}, repository.ErrMatchProfileNotFound
	}
	return p, nil
}

// ListCandidates keeps insertion-independent order by user id so tests are
// deterministic.
func (r *fakeProfileRepo) ListCandidates(_ context.Context, scheme string, exclude uuid.UUID, limit int) ([]repository.MatchProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	out := make([]repository.MatchProfile, 0)
	for _, p := range r.profiles {
		if p.Scheme == scheme && p.UserID != exclude {
			out = append(out, p)
		}
	}
	sortProfiles(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeProfileRepo) ListUserIDs(_ context.Context, scheme string) ([]uuid.UUID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	ps := make([]repository.MatchProfile, 0)
	for _, p := range r.profiles {
		if p.Scheme == scheme {
			ps = append(ps, p)
		}
	}
	sortProfiles(ps)
	out := make([]uuid.UUID, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.UserID)
	}
	return out, nil
}

func (r *fakeProfileRepo) Upsert(_ context.Context, p repository.MatchProfile) (repository.MatchProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return repository.MatchProfile{}, r.err
	}
	p.UpdatedAt = time.Now().UTC()
	r.profiles[p.Scheme+"/"+p.UserID.String()] = p
	return p, nil
}

func sortProfiles(ps []repository.MatchProfile) {
	for i := 1; i < len(ps); i++ {
		for j := i; j > 0 && ps[j].UserID.String() < ps[j-1].UserID.String(); j-- {
			ps[j], ps[j-1] = ps[j-1], ps[j]
		}
	}
}

type fakePriorityRepo struct {
	mu    sync.Mutex
	saved map[string]matching.Priorities
	saves int
	err   error
}

func newFakePriorityRepo() *fakePriorityRepo {
	return &fakePriorityRepo{saved: map[string]matching.Priorities{}}
}

func (r *fakePriorityRepo) FindByUser(_ context.Context, userID uuid.UUID, scheme string) (matching.Priorities, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	p, ok := r.saved[scheme+"/"+userID.String()]
	if !ok {
		return matching.Priorities{}, nil
	}
	return append(matching.Priorities{}, p...), nil
}

func (r *fakePriorityRepo) Save(_ context.Context, userID uuid.UUID, scheme string, p matching.Priorities) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.saves++
	r.saved[scheme+"/"+userID.String()] = append(matching.Priorities{}, p...)
	return nil
}

type fakeDismissalRepo struct {
	mu        sync.Mutex
	dismissed map[string][]uuid.UUID
}

func newFakeDismissalRepo() *fakeDismissalRepo {
	return &fakeDismissalRepo{dismissed: map[string][]uuid.UUID{}}
}

func (r *fakeDismissalRepo) ListDismissed(_ context.Context, userID uuid.UUID, scheme string) ([]uuid.UUID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]uuid.UUID{}, r.dismissed[scheme+"/"+userID.String()]...), nil
}

func (r *fakeDismissalRepo) Dismiss(_ context.Context, userID uuid.UUID, scheme string, other uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := scheme + "/" + userID.String()
	for _, id := range r.dismissed[k] {
		if id == other {
			return nil
		}
	}
	r.dismissed[k] = append(r.dismissed[k], other)
	return nil
}
