package agencies

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"busly/pkg/cache"
)

type fakeRepo struct {
	mu       sync.Mutex
	agencies map[uuid.UUID]*Agency
	listHits int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{agencies: make(map[uuid.UUID]*Agency)}
}

func (f *fakeRepo) Create(ctx context.Context, agency *Agency) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.agencies {
		if existing.Name == agency.Name {
			return gorm.ErrDuplicatedKey
		}
	}
	agency.ID = uuid.New()
	f.agencies[agency.ID] = agency
	return nil
}

func (f *fakeRepo) List(ctx context.Context) ([]Agency, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listHits++
	var out []Agency
	for _, agency := range f.agencies {
		out = append(out, *agency)
	}
	return out, nil
}

func (f *fakeRepo) GetByID(ctx context.Context, id uuid.UUID) (*Agency, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	agency, ok := f.agencies[id]
	if !ok {
		return nil, ErrAgencyNotFound
	}
	return agency, nil
}

func (f *fakeRepo) GetByName(ctx context.Context, name string) (*Agency, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, agency := range f.agencies {
		if agency.Name == name {
			return agency, nil
		}
	}
	return nil, ErrAgencyNotFound
}

func (f *fakeRepo) Update(ctx context.Context, agency *Agency) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.agencies[agency.ID] = agency
	return nil
}

func (f *fakeRepo) Delete(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.agencies[id]; !ok {
		return ErrAgencyNotFound
	}
	delete(f.agencies, id)
	return nil
}

// memoryCache is an in-memory cache.Service for testing cache-aside
// behavior without redis.
type memoryCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	deletes []string
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: make(map[string][]byte)}
}

func (m *memoryCache) Get(ctx context.Context, key string, dest interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.entries[key]
	if !ok {
		return cache.ErrCacheMiss
	}
	return json.Unmarshal(data, dest)
}

func (m *memoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.entries[key] = data
	return nil
}

func (m *memoryCache) Delete(ctx context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, key := range keys {
		delete(m.entries, key)
		m.deletes = append(m.deletes, key)
	}
	return nil
}

func (m *memoryCache) GetOrSet(ctx context.Context, key string, ttl time.Duration, fetcher func() (interface{}, error), dest interface{}) error {
	if err := m.Get(ctx, key, dest); err == nil {
		return nil
	}
	value, err := fetcher()
	if err != nil {
		return err
	}
	if err := m.Set(ctx, key, value, ttl); err != nil {
		return err
	}
	return m.Get(ctx, key, dest)
}

func (m *memoryCache) Ping(ctx context.Context) error { return nil }

func TestCreateAgencyDuplicateName(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, nil, time.Minute)
	ctx := context.Background()

	_, err := svc.Create(ctx, &CreateAgencyRequest{Name: "Metro", Destinations: []string{"Douala"}})
	require.NoError(t, err)

	_, err = svc.Create(ctx, &CreateAgencyRequest{Name: "Metro"})
	assert.ErrorIs(t, err, ErrAgencyNameTaken)
}

func TestListUsesCache(t *testing.T) {
	repo := newFakeRepo()
	mem := newMemoryCache()
	svc := NewService(repo, mem, time.Minute)
	ctx := context.Background()

	_, err := svc.Create(ctx, &CreateAgencyRequest{Name: "Metro"})
	require.NoError(t, err)

	_, err = svc.List(ctx)
	require.NoError(t, err)
	_, err = svc.List(ctx)
	require.NoError(t, err)

	assert.Equal(t, 1, repo.listHits, "second list must be served from cache")
}

func TestMutationsInvalidateListCache(t *testing.T) {
	repo := newFakeRepo()
	mem := newMemoryCache()
	svc := NewService(repo, mem, time.Minute)
	ctx := context.Background()

	agency, err := svc.Create(ctx, &CreateAgencyRequest{Name: "Metro"})
	require.NoError(t, err)

	_, err = svc.List(ctx)
	require.NoError(t, err)

	_, err = svc.Update(ctx, agency.ID, &UpdateAgencyRequest{Destinations: []string{"Bamenda"}})
	require.NoError(t, err)

	listed, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, []string{"Bamenda"}, listed[0].Destinations)
	assert.Contains(t, mem.deletes, agencyListCacheKey)
}

func TestDeleteAgencyNotFound(t *testing.T) {
	svc := NewService(newFakeRepo(), nil, time.Minute)
	assert.ErrorIs(t, svc.Delete(context.Background(), uuid.New()), ErrAgencyNotFound)
}
