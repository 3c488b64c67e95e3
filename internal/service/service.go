package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/mr1hm/tamis/internal/broadcast"
	"github.com/mr1hm/tamis/internal/cache"
	"github.com/mr1hm/tamis/internal/models"
	"github.com/mr1hm/tamis/internal/repository"
	"github.com/mr1hm/tamis/internal/seed"
	"github.com/mr1hm/tamis/internal/summary"
)

const dashboardKey = "tamis:dashboard"

// Report is a dashboard stamped with the time it was computed.
type Report struct {
	summary.Dashboard
	GeneratedAt time.Time `json:"generatedAt"`
}

// Service computes dashboard reports from the record store. Reports are
// cached until the next reseed or the TTL, whichever comes first.
type Service struct {
	store       repository.SnapshotReader
	cache       cache.Cache
	ttl         time.Duration
	broadcaster *broadcast.Broadcaster
	now         func() time.Time

	// generation advances on every invalidation; a report built from an
	// older generation is served but not cached
	generation atomic.Uint64
}

func New(store repository.SnapshotReader, c cache.Cache, ttl time.Duration, b *broadcast.Broadcaster) *Service {
	if c == nil {
		c = cache.Nop{}
	}
	return &Service{
		store:       store,
		cache:       c,
		ttl:         ttl,
		broadcaster: b,
		now:         time.Now,
	}
}

func (s *Service) Dashboard(ctx context.Context) (*Report, error) {
	if r, ok := s.cached(ctx); ok {
		return r, nil
	}

	gen := s.generation.Load()
	snap, err := s.store.LoadSnapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("error loading snapshot: %w", err)
	}

	r := &Report{
		Dashboard:   summary.Build(snap),
		GeneratedAt: s.now().UTC(),
	}
	if s.generation.Load() == gen {
		s.save(ctx, r)
		// an invalidation between the check and the write leaves a stale entry
		if s.generation.Load() != gen {
			s.cache.Delete(ctx, dashboardKey)
		}
	}
	return r, nil
}

// Alerts returns the current alert sequence. Nil filters match everything.
func (s *Service) Alerts(ctx context.Context, typ *models.AlertType, level *models.AlertLevel) ([]models.Alert, error) {
	r, err := s.Dashboard(ctx)
	if err != nil {
		return nil, err
	}
	return summary.FilterAlerts(r.Alerts, typ, level), nil
}

// Snapshot reads the store directly; map layers need raw records.
func (s *Service) Snapshot(ctx context.Context) (*models.Snapshot, error) {
	snap, err := s.store.LoadSnapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("error loading snapshot: %w", err)
	}
	return snap, nil
}

func (s *Service) Counts(ctx context.Context) (repository.Counts, error) {
	counts, err := s.store.Counts(ctx)
	if err != nil {
		return nil, fmt.Errorf("error counting records: %w", err)
	}
	return counts, nil
}

func (s *Service) Invalidate(ctx context.Context) error {
	s.generation.Add(1)
	return s.cache.Delete(ctx, dashboardKey)
}

// OnSeeded drops the cached report, rebuilds it and publishes the new alert
// sequence to stream subscribers. It also runs after partial reseeds.
func (s *Service) OnSeeded(ctx context.Context, res seed.Result) {
	if err := s.Invalidate(ctx); err != nil {
		slog.Warn("dashboard cache invalidation failed", "error", err)
	}

	r, err := s.Dashboard(ctx)
	if err != nil {
		slog.Error("error rebuilding dashboard after seed", "error", err)
		return
	}

	if s.broadcaster != nil {
		s.broadcaster.Publish(r.Alerts, res.SeededAt)
		slog.Info("published alerts", "count", len(r.Alerts), "subscribers", s.broadcaster.SubscriberCount(), "failed_collections", res.Failed)
	}
}

func (s *Service) cached(ctx context.Context) (*Report, bool) {
	b, ok, err := s.cache.Get(ctx, dashboardKey)
	if err != nil {
		slog.Warn("dashboard cache read failed", "error", err)
		return nil, false
	}
	if !ok {
		return nil, false
	}

	var r Report
	if err := json.Unmarshal(b, &r); err != nil {
		slog.Warn("discarding undecodable cached dashboard", "error", err)
		return nil, false
	}
	return &r, true
}

func (s *Service) save(ctx context.Context, r *Report) {
	b, err := json.Marshal(r)
	if err != nil {
		slog.Warn("error encoding dashboard for cache", "error", err)
		return
	}
	if err := s.cache.Set(ctx, dashboardKey, b, s.ttl); err != nil {
		slog.Warn("dashboard cache write failed", "error", err)
	}
}
