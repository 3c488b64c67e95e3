package seed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"golang.org/x/crypto/bcrypt"

	"github.com/mr1hm/tamis/internal/models"
	"github.com/mr1hm/tamis/internal/repository"
	"github.com/mr1hm/tamis/internal/worker"
)

// Snapshot file names, relative to the source.
const (
	FilePopulation    = "population.json"
	FileSafeZones     = "safe_zones.json"
	FileAidRoutes     = "aid_routes.json"
	FileCommunication = "communication.json"
	FileFieldUnits    = "field_units.json"
	FileUsers         = "users.json"
)

// Dataset is a fully normalized snapshot set, ready to upsert.
type Dataset struct {
	Snapshot models.Snapshot
	Users    []models.User
}

// Result describes one seed run. Counts holds the collections that were
// written; Failed names the ones that were not.
type Result struct {
	Counts   map[string]int
	Failed   []string
	SeededAt time.Time
	Duration time.Duration
}

// Hook runs after every seed run that wrote at least one collection.
type Hook func(ctx context.Context, res Result)

type Seeder struct {
	src     Source
	store   repository.SnapshotWriter
	workers int
	hooks   []Hook

	runMu sync.Mutex
	cron  *cron.Cron
}

func NewSeeder(src Source, store repository.SnapshotWriter, workers int) *Seeder {
	return &Seeder{
		src:     src,
		store:   store,
		workers: workers,
	}
}

func (s *Seeder) OnSeeded(h Hook) {
	s.hooks = append(s.hooks, h)
}

// Load fetches and normalizes every snapshot file. Missing files are empty
// collections; malformed JSON fails the load.
func (s *Seeder) Load(ctx context.Context) (*Dataset, error) {
	var (
		ds            Dataset
		population    []rawPopulationZone
		safeZones     []rawSafeZone
		aidRoutes     []rawAidRoute
		communication rawCommunication
		fieldUnits    rawFieldUnits
		users         []rawUser
	)

	files := []struct {
		name string
		dst  any
	}{
		{FilePopulation, &population},
		{FileSafeZones, &safeZones},
		{FileAidRoutes, &aidRoutes},
		{FileCommunication, &communication},
		{FileFieldUnits, &fieldUnits},
		{FileUsers, &users},
	}
	for _, f := range files {
		if err := s.fetchJSON(ctx, f.name, f.dst); err != nil {
			return nil, err
		}
	}

	ds.Snapshot.PopulationZones = normalizePopulationZones(population)
	ds.Snapshot.SafeZones = normalizeSafeZones(safeZones)
	ds.Snapshot.AidRoutes = normalizeAidRoutes(aidRoutes)
	ds.Snapshot.ModemStations, ds.Snapshot.NetworkLinks = normalizeCommunication(communication)
	ds.Snapshot.FieldUnits, ds.Snapshot.Areas = normalizeFieldUnits(fieldUnits)

	var err error
	if ds.Users, err = normalizeUsers(users, hashPassword); err != nil {
		return nil, fmt.Errorf("error hashing user passwords: %w", err)
	}

	return &ds, nil
}

func (s *Seeder) fetchJSON(ctx context.Context, name string, dst any) error {
	b, err := s.src.Fetch(ctx, name)
	if errors.Is(err, ErrMissing) {
		slog.Warn("snapshot file missing, treating as empty", "file", name, "source", s.src.String())
		return nil
	}
	if err != nil {
		return err
	}
	if err := json.Unmarshal(b, dst); err != nil {
		return fmt.Errorf("error decoding %s: %w", name, err)
	}
	return nil
}

// upsertJob writes one collection.
type upsertJob struct {
	name  string
	count int
	run   func(ctx context.Context) error
}

// Run loads the snapshot set and upserts every collection concurrently. Runs
// never overlap. When some collections fail, hooks still run for the ones that
// were written and the joined job errors are returned with the Result.
func (s *Seeder) Run(ctx context.Context) (Result, error) {
	s.runMu.Lock()
	defer s.runMu.Unlock()

	start := time.Now()
	ds, err := s.Load(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("error loading snapshot from %s: %w", s.src, err)
	}

	snap := &ds.Snapshot
	jobs := []upsertJob{
		{"population_zones", len(snap.PopulationZones), func(ctx context.Context) error {
			return s.store.UpsertPopulationZones(ctx, snap.PopulationZones)
		}},
		{"safe_zones", len(snap.SafeZones), func(ctx context.Context) error {
			return s.store.UpsertSafeZones(ctx, snap.SafeZones)
		}},
		{"aid_routes", len(snap.AidRoutes), func(ctx context.Context) error {
			return s.store.UpsertAidRoutes(ctx, snap.AidRoutes)
		}},
		{"modem_stations", len(snap.ModemStations), func(ctx context.Context) error {
			return s.store.UpsertModemStations(ctx, snap.ModemStations)
		}},
		{"network_links", len(snap.NetworkLinks), func(ctx context.Context) error {
			return s.store.UpsertNetworkLinks(ctx, snap.NetworkLinks)
		}},
		{"field_units", len(snap.FieldUnits), func(ctx context.Context) error {
			return s.store.UpsertFieldUnits(ctx, snap.FieldUnits)
		}},
		{"areas", len(snap.Areas), func(ctx context.Context) error {
			return s.store.UpsertAreas(ctx, snap.Areas)
		}},
		{"users", len(ds.Users), func(ctx context.Context) error {
			return s.store.UpsertUsers(ctx, ds.Users)
		}},
	}

	var (
		mu      sync.Mutex
		written = make(map[string]int, len(jobs))
	)
	processor := func(ctx context.Context, j worker.Job) error {
		job := j.(upsertJob)
		if err := job.run(ctx); err != nil {
			slog.Error("error upserting collection", "collection", job.name, "error", err)
			return fmt.Errorf("%s: %w", job.name, err)
		}
		mu.Lock()
		written[job.name] = job.count
		mu.Unlock()
		slog.Debug("upserted collection", "collection", job.name, "count", job.count)
		return nil
	}

	pool := worker.NewPool(s.workers, len(jobs), processor)
	pool.Start(ctx)
	for _, j := range jobs {
		pool.Submit(j)
	}
	pool.Stop()

	// collections commit independently, so a partial run still changed the store
	runErr := errors.Join(pool.Err(), ctx.Err())
	if len(written) == 0 && runErr != nil {
		return Result{}, runErr
	}

	res := Result{
		Counts:   written,
		SeededAt: time.Now(),
		Duration: time.Since(start),
	}
	for _, j := range jobs {
		if _, ok := written[j.name]; !ok {
			res.Failed = append(res.Failed, j.name)
		}
	}

	if runErr != nil {
		slog.Warn("seed partially applied", "source", s.src.String(), "failed", res.Failed, "error", runErr)
	} else {
		slog.Info("seed complete", "source", s.src.String(), "duration", res.Duration, "counts", res.Counts)
	}

	for _, h := range s.hooks {
		h(ctx, res)
	}
	return res, runErr
}

// Schedule reseeds on a cron expression (five fields or a descriptor such as
// "@every 10m") until Stop.
func (s *Seeder) Schedule(ctx context.Context, expr string) error {
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	_, err := c.AddFunc(expr, func() {
		if _, err := s.Run(ctx); err != nil {
			slog.Error("scheduled seed failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("error scheduling seed %q: %w", expr, err)
	}

	s.cron = c
	c.Start()
	slog.Info("seed schedule started", "schedule", expr, "source", s.src.String())
	return nil
}

// Stop waits for a running scheduled seed to finish.
func (s *Seeder) Stop() {
	if s.cron == nil {
		return
	}
	<-s.cron.Stop().Done()
	slog.Info("seed schedule stopped")
}

var bcryptPrefixes = []string{"$2a$", "$2b$", "$2y$"}

// hashPassword keeps values that are already bcrypt hashes.
func hashPassword(p string) (string, error) {
	for _, prefix := range bcryptPrefixes {
		if strings.HasPrefix(p, prefix) {
			return p, nil
		}
	}
	b, err := bcrypt.GenerateFromPassword([]byte(p), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
