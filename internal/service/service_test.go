package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mr1hm/tamis/internal/broadcast"
	"github.com/mr1hm/tamis/internal/cache"
	"github.com/mr1hm/tamis/internal/models"
	"github.com/mr1hm/tamis/internal/repository"
	"github.com/mr1hm/tamis/internal/seed"
	"github.com/mr1hm/tamis/internal/summary"
)

type fakeReader struct {
	mu     sync.Mutex
	snap   *models.Snapshot
	err    error
	loads  int
	onLoad func() // runs once, after the snapshot is read
}

func (f *fakeReader) LoadSnapshot(ctx context.Context) (*models.Snapshot, error) {
	f.mu.Lock()
	f.loads++
	snap, err, hook := f.snap, f.err, f.onLoad
	f.onLoad = nil
	f.mu.Unlock()

	if hook != nil {
		hook()
	}
	if err != nil {
		return nil, err
	}
	return snap, nil
}

func (f *fakeReader) Counts(ctx context.Context) (repository.Counts, error) {
	if f.err != nil {
		return nil, f.err
	}
	return repository.Counts{"safe_zones": len(f.snap.SafeZones)}, nil
}

type memCache struct {
	mu     sync.Mutex
	data   map[string][]byte
	getErr error
}

func newMemCache() *memCache {
	return &memCache{data: map[string][]byte{}}
}

func (m *memCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, false, m.getErr
	}
	b, ok := m.data[key]
	return b, ok, nil
}

func (m *memCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *memCache) Delete(ctx context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}

func testSnapshot() *models.Snapshot {
	return &models.Snapshot{
		SafeZones: []models.SafeZone{
			{ID: "sz_1", Name: "Stadium", Capacity: 100, CurrentOccupancy: 90, Status: "active"},
			{ID: "sz_2", Name: "School", Capacity: 100, CurrentOccupancy: 10, Status: "critical"},
		},
		AidRoutes: []models.AidRoute{
			{ID: "ar_1", Name: "North", Status: models.RouteBlocked, BlockageReason: "flood"},
		},
		FieldUnits: []models.FieldUnit{
			{ID: "fu_1", Name: "Alpha", Status: models.UnitActive, BatteryLevel: 20},
		},
	}
}

func newTestService(r *fakeReader, c *memCache) *Service {
	s := New(r, c, time.Minute, nil)
	s.now = func() time.Time { return time.Date(2024, 5, 2, 8, 0, 0, 0, time.UTC) }
	return s
}

func TestDashboard_Caches(t *testing.T) {
	reader := &fakeReader{snap: testSnapshot()}
	s := newTestService(reader, newMemCache())

	first, err := s.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, first.SafeZones.TotalZones)
	assert.Equal(t, 2, first.SafeZones.CriticalZones)
	assert.Equal(t, time.Date(2024, 5, 2, 8, 0, 0, 0, time.UTC), first.GeneratedAt)

	second, err := s.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, reader.loads, "second call should be served from cache")
	assert.Equal(t, first.SafeZones, second.SafeZones)
	assert.Len(t, second.Alerts, len(first.Alerts))

	require.NoError(t, s.Invalidate(context.Background()))
	_, err = s.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, reader.loads)
}

func TestDashboard_CacheErrorFallsThrough(t *testing.T) {
	reader := &fakeReader{snap: testSnapshot()}
	c := newMemCache()
	c.getErr = errors.New("connection refused")
	s := newTestService(reader, c)

	r, err := s.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, r.AidRoutes.BlockedRoutes)
}

func TestDashboard_StoreError(t *testing.T) {
	reader := &fakeReader{err: errors.New("db closed")}
	s := newTestService(reader, newMemCache())

	_, err := s.Dashboard(context.Background())
	assert.ErrorContains(t, err, "db closed")
}

func TestAlerts_Filter(t *testing.T) {
	s := newTestService(&fakeReader{snap: testSnapshot()}, newMemCache())

	all, err := s.Alerts(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	typ := models.AlertTypeSafeZone
	zones, err := s.Alerts(context.Background(), &typ, nil)
	require.NoError(t, err)
	require.Len(t, zones, 1)
	assert.Equal(t, "sz_2", zones[0].SourceID)

	level := models.AlertLevelWarning
	warnings, err := s.Alerts(context.Background(), nil, &level)
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	assert.Equal(t, models.AlertTypeFieldUnit, warnings[0].Type)
}

func TestOnSeeded_PublishesAlerts(t *testing.T) {
	reader := &fakeReader{snap: &models.Snapshot{}}
	b := broadcast.NewBroadcaster()
	defer b.Close()
	s := New(reader, newMemCache(), time.Minute, b)

	// warm the cache with an empty dashboard
	_, err := s.Dashboard(context.Background())
	require.NoError(t, err)

	_, ch := b.Subscribe()
	reader.snap = testSnapshot()
	seededAt := time.Now()
	s.OnSeeded(context.Background(), seed.Result{SeededAt: seededAt})

	select {
	case batch := <-ch:
		assert.Equal(t, 3, batch.AlertCount)
		assert.True(t, batch.SeededAt.Equal(seededAt))
	case <-time.After(time.Second):
		t.Fatal("expected a published batch")
	}
	assert.Equal(t, 2, reader.loads)
}

func TestCounts(t *testing.T) {
	s := newTestService(&fakeReader{snap: testSnapshot()}, newMemCache())

	counts, err := s.Counts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, counts["safe_zones"])
}

func TestDashboard_RedisCache(t *testing.T) {
	mr := miniredis.RunT(t)
	rc := cache.NewRedisCache(mr.Addr(), "", 0)
	defer rc.Close()

	reader := &fakeReader{snap: testSnapshot()}
	s := New(reader, rc, time.Minute, nil)

	_, err := s.Dashboard(context.Background())
	require.NoError(t, err)
	assert.True(t, mr.Exists(dashboardKey))

	_, err = s.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, reader.loads)

	mr.FastForward(2 * time.Minute)
	_, err = s.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, reader.loads, "expired report should be rebuilt")
}

func TestDashboard_StaleLoadDoesNotOverwriteReseed(t *testing.T) {
	reader := &fakeReader{snap: &models.Snapshot{}}
	s := newTestService(reader, newMemCache())

	// a reseed lands while this request is still building from the old snapshot
	reader.onLoad = func() {
		reader.snap = testSnapshot()
		s.OnSeeded(context.Background(), seed.Result{SeededAt: time.Now()})
	}

	stale, err := s.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, stale.SafeZones.TotalZones)

	fresh, err := s.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, fresh.SafeZones.TotalZones, "cache must hold the post-seed report")
	assert.Equal(t, 2, reader.loads)
}

// usersLocked fails the user collection and writes everything else.
type usersLocked struct {
	*repository.DB
}

func (usersLocked) UpsertUsers(ctx context.Context, users []models.User) error {
	return errors.New("users table locked")
}

func writeSeed(t *testing.T, dir, safeZones string) {
	t.Helper()
	files := map[string]string{
		seed.FileSafeZones: safeZones,
		seed.FileUsers:     `[{"email": "ops@tamis.local", "password": "$2a$10$abcdefghijklmnopqrstuv"}]`,
	}
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
}

func TestOnSeeded_PartialReseedRefreshesDashboard(t *testing.T) {
	db, err := repository.Open(repository.DriverSQLite, ":memory:")
	require.NoError(t, err)
	defer db.Close()

	b := broadcast.NewBroadcaster()
	defer b.Close()
	s := New(db, newMemCache(), time.Hour, b)

	dir := t.TempDir()
	writeSeed(t, dir, `[{"id": "sz_1", "name": "Stadium", "capacity": 100, "currentOccupancy": 10, "status": "active"}]`)

	seeder := seed.NewSeeder(seed.NewDirSource(dir), db, 2)
	seeder.OnSeeded(s.OnSeeded)
	_, err = seeder.Run(context.Background())
	require.NoError(t, err)

	before, err := s.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, before.SafeZones.CriticalZones)

	// reseed with a critical zone while the user collection fails
	writeSeed(t, dir, `[{"id": "sz_1", "name": "Stadium", "capacity": 100, "currentOccupancy": 99, "status": "critical"}]`)
	_, ch := b.Subscribe()

	partial := seed.NewSeeder(seed.NewDirSource(dir), usersLocked{db}, 2)
	partial.OnSeeded(s.OnSeeded)
	res, err := partial.Run(context.Background())
	require.Error(t, err)
	assert.Equal(t, []string{"users"}, res.Failed)

	after, err := s.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, after.SafeZones.CriticalZones)
	typ := models.AlertTypeSafeZone
	assert.Len(t, summary.FilterAlerts(after.Alerts, &typ, nil), 1)

	select {
	case batch := <-ch:
		assert.Equal(t, 1, batch.AlertCount)
	case <-time.After(time.Second):
		t.Fatal("expected alerts published after partial reseed")
	}
}
