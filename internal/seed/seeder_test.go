package seed

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"go.uber.org/goleak"
	"golang.org/x/crypto/bcrypt"

	"github.com/mr1hm/tamis/internal/models"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		goleak.IgnoreTopFunction("net/http.(*persistConn).readLoop"),
		goleak.IgnoreTopFunction("net/http.(*persistConn).writeLoop"),
		goleak.IgnoreTopFunction("internal/poll.runtime_pollWait"),
	)
}

// mockStore implements repository.SnapshotWriter for testing
type mockStore struct {
	mu       sync.Mutex
	snapshot models.Snapshot
	users    []models.User
	failOn   string
	failAll  bool
	calls    int
}

func (m *mockStore) record(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.failAll || name == m.failOn {
		return errors.New("disk full")
	}
	return nil
}

func (m *mockStore) UpsertPopulationZones(ctx context.Context, zones []models.PopulationZone) error {
	if err := m.record("population_zones"); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshot.PopulationZones = zones
	return nil
}

func (m *mockStore) UpsertSafeZones(ctx context.Context, zones []models.SafeZone) error {
	if err := m.record("safe_zones"); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshot.SafeZones = zones
	return nil
}

func (m *mockStore) UpsertAidRoutes(ctx context.Context, routes []models.AidRoute) error {
	if err := m.record("aid_routes"); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshot.AidRoutes = routes
	return nil
}

func (m *mockStore) UpsertModemStations(ctx context.Context, stations []models.ModemStation) error {
	if err := m.record("modem_stations"); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshot.ModemStations = stations
	return nil
}

func (m *mockStore) UpsertNetworkLinks(ctx context.Context, links []models.NetworkLink) error {
	if err := m.record("network_links"); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshot.NetworkLinks = links
	return nil
}

func (m *mockStore) UpsertFieldUnits(ctx context.Context, units []models.FieldUnit) error {
	if err := m.record("field_units"); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshot.FieldUnits = units
	return nil
}

func (m *mockStore) UpsertAreas(ctx context.Context, areas []models.AreaData) error {
	if err := m.record("areas"); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshot.Areas = areas
	return nil
}

func (m *mockStore) UpsertUsers(ctx context.Context, users []models.User) error {
	if err := m.record("users"); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users = users
	return nil
}

var fixtures = map[string]string{
	FilePopulation: `[
		{"zoneId": "pz_1", "name": "Old Town", "population": 12000, "area": 2.5, "riskLevel": "HIGH",
		 "location": {"lat": 14.59, "lng": 120.98}},
		{"zoneId": "pz_2", "name": "Harbor", "population": 3000, "area": 1, "density": 2900, "riskLevel": "medium"}
	]`,
	FileSafeZones: `[
		{"id": "sz_1", "name": "Stadium", "capacity": 600, "currentOccupancy": 520, "status": "Critical",
		 "accessRoutes": [{"name": "Main", "estimatedTime": 12}], "lastUpdated": "2024-05-02T08:30:00Z"},
		{"id": "sz_2", "name": "School", "capacity": 500.0, "currentOccupancy": 120}
	]`,
	FileAidRoutes: `[
		{"id": "ar_1", "name": "North", "status": "blocked", "distance": 120.4, "estimatedTime": 5,
		 "blockageReason": "landslide", "path": [[14.6, 121.0], {"latitude": 14.7, "longitude": 121.1}]},
		{"id": "ar_2", "name": "South", "status": "active", "distance": 85, "estimatedTime": 3, "blockageReason": "stale"}
	]`,
	FileCommunication: `{
		"stations": [
			{"id": "ms_1", "name": "Tower A", "status": "active", "signalStrength": 140, "dataRate": 80,
			 "alerts": [{"level": "CRITICAL", "message": "backhaul down", "timestamp": "2024-05-02 10:00:00"}]},
			{"id": "ms_2", "name": "Tower B", "status": "maintenance", "signalStrength": -5}
		],
		"links": [{"fromId": "ms_1", "toId": "ms_2", "linkType": "microwave"}, {"fromId": "ms_1"}]
	}`,
	FileFieldUnits: `{
		"units": [
			{"id": "fu_1", "name": "Alpha", "status": "inactive", "batteryLevel": 50,
			 "personnel": [{"name": "Ana", "role": "medic"}], "dataCollection": {"totalDataPoints": 120}},
			{"name": "no id"}
		],
		"areas": [{"areaId": "area_1", "reportingUnits": ["fu_1"]}]
	}`,
	FileUsers: `[
		{"email": "Admin@TAMIS.local", "password": "changeme", "role": "admin"},
		{"id": "u2", "email": "eng@tamis.local", "password": "$2a$10$abcdefghijklmnopqrstuv", "role": "ENGINEER", "isActive": false}
	]`,
}

func writeFixtures(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}
	return dir
}

func TestSeeder_Run(t *testing.T) {
	store := &mockStore{}
	s := NewSeeder(NewDirSource(writeFixtures(t, fixtures)), store, 3)

	var hooked Result
	s.OnSeeded(func(ctx context.Context, res Result) {
		hooked = res
	})

	res, err := s.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if store.calls != 8 {
		t.Errorf("expected 8 upserts, got %d", store.calls)
	}
	want := map[string]int{
		"population_zones": 2, "safe_zones": 2, "aid_routes": 2, "modem_stations": 2,
		"network_links": 1, "field_units": 1, "areas": 1, "users": 2,
	}
	for k, v := range want {
		if res.Counts[k] != v {
			t.Errorf("expected %d %s, got %d", v, k, res.Counts[k])
		}
	}
	if hooked.SeededAt.IsZero() {
		t.Error("expected OnSeeded hook to run")
	}

	snap := store.snapshot
	if snap.PopulationZones[0].Density != 4800 {
		t.Errorf("expected derived density 4800, got %v", snap.PopulationZones[0].Density)
	}
	if snap.PopulationZones[0].RiskLevel != models.RiskHigh {
		t.Errorf("expected risk high, got %s", snap.PopulationZones[0].RiskLevel)
	}
	if snap.PopulationZones[1].Density != 2900 {
		t.Errorf("expected stored density 2900, got %v", snap.PopulationZones[1].Density)
	}
	if snap.SafeZones[0].Status != "critical" || snap.SafeZones[0].LastUpdated == nil {
		t.Errorf("unexpected safe zone %+v", snap.SafeZones[0])
	}
	if snap.SafeZones[1].Status != "active" || snap.SafeZones[1].Capacity != 500 {
		t.Errorf("unexpected defaults %+v", snap.SafeZones[1])
	}
	if len(snap.AidRoutes[0].Path) != 2 || snap.AidRoutes[0].Path[1].Lng != 121.1 {
		t.Errorf("unexpected path %+v", snap.AidRoutes[0].Path)
	}
	if snap.AidRoutes[1].BlockageReason != "" {
		t.Errorf("expected blockage reason dropped for active route, got %q", snap.AidRoutes[1].BlockageReason)
	}
	if snap.ModemStations[0].SignalStrength != 100 || snap.ModemStations[1].SignalStrength != 0 {
		t.Error("expected signal strength clamped to 0-100")
	}
	if a := snap.ModemStations[0].Alerts[0]; a.Level != "critical" || a.Timestamp == nil {
		t.Errorf("unexpected station alert %+v", a)
	}
	if snap.ModemStations[1].Alerts == nil {
		t.Error("expected empty, non-nil alerts")
	}
	if snap.FieldUnits[0].Status != models.UnitInactive || snap.FieldUnits[0].Equipment == nil {
		t.Errorf("unexpected field unit %+v", snap.FieldUnits[0])
	}
}

func TestSeeder_Users(t *testing.T) {
	store := &mockStore{}
	s := NewSeeder(NewDirSource(writeFixtures(t, fixtures)), store, 2)

	if _, err := s.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	admin := store.users[0]
	if admin.Email != "admin@tamis.local" {
		t.Errorf("expected lower-cased email, got %s", admin.Email)
	}
	if admin.ID == "" {
		t.Error("expected derived id")
	}
	if admin.Role != models.RoleAdmin || !admin.IsActive {
		t.Errorf("unexpected admin %+v", admin)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte("changeme")); err != nil {
		t.Errorf("expected bcrypt hash of plain password: %v", err)
	}

	eng := store.users[1]
	if eng.Password != "$2a$10$abcdefghijklmnopqrstuv" {
		t.Errorf("expected pre-hashed password kept, got %s", eng.Password)
	}
	if eng.IsActive {
		t.Error("expected inactive user")
	}

	// ids derived from email are stable across runs
	second := &mockStore{}
	s2 := NewSeeder(NewDirSource(writeFixtures(t, fixtures)), second, 1)
	if _, err := s2.Run(context.Background()); err != nil {
		t.Fatalf("second Run failed: %v", err)
	}
	if second.users[0].ID != admin.ID {
		t.Errorf("expected stable id %s, got %s", admin.ID, second.users[0].ID)
	}
}

func TestSeeder_MissingFilesAreEmpty(t *testing.T) {
	store := &mockStore{}
	s := NewSeeder(NewDirSource(t.TempDir()), store, 2)

	res, err := s.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	for k, v := range res.Counts {
		if v != 0 {
			t.Errorf("expected 0 %s, got %d", k, v)
		}
	}
}

func TestSeeder_MalformedFile(t *testing.T) {
	store := &mockStore{}
	dir := writeFixtures(t, map[string]string{FileSafeZones: `[{"id": "sz_1",`})
	s := NewSeeder(NewDirSource(dir), store, 2)

	hooked := false
	s.OnSeeded(func(context.Context, Result) { hooked = true })

	if _, err := s.Run(context.Background()); err == nil {
		t.Fatal("expected error for malformed snapshot")
	}
	if store.calls != 0 {
		t.Errorf("expected no upserts, got %d", store.calls)
	}
	if hooked {
		t.Error("hook must not run after a failed seed")
	}
}

func TestSeeder_StoreError(t *testing.T) {
	store := &mockStore{failOn: "aid_routes"}
	s := NewSeeder(NewDirSource(writeFixtures(t, fixtures)), store, 4)

	var hooked []Result
	s.OnSeeded(func(ctx context.Context, res Result) {
		hooked = append(hooked, res)
	})

	res, err := s.Run(context.Background())
	if err == nil {
		t.Fatal("expected error from failing collection")
	}
	if got := err.Error(); got != "aid_routes: disk full" {
		t.Errorf("unexpected error %q", got)
	}

	// the other collections were committed, so hooks must still see the run
	if len(hooked) != 1 {
		t.Fatalf("expected hook to run once after a partial seed, ran %d times", len(hooked))
	}
	if len(res.Failed) != 1 || res.Failed[0] != "aid_routes" {
		t.Errorf("expected aid_routes reported as failed, got %v", res.Failed)
	}
	if _, ok := res.Counts["aid_routes"]; ok {
		t.Error("failed collection must not be counted")
	}
	if res.Counts["safe_zones"] != 2 {
		t.Errorf("expected 2 safe zones written, got %d", res.Counts["safe_zones"])
	}
	if store.snapshot.SafeZones == nil {
		t.Error("expected safe zones stored")
	}
}

func TestSeeder_AllCollectionsFail(t *testing.T) {
	store := &mockStore{failAll: true}
	s := NewSeeder(NewDirSource(writeFixtures(t, fixtures)), store, 2)

	hooked := false
	s.OnSeeded(func(context.Context, Result) { hooked = true })

	res, err := s.Run(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if hooked {
		t.Error("hook must not run when nothing was written")
	}
	if res.Counts != nil {
		t.Errorf("expected empty result, got %+v", res)
	}
}

func TestSeeder_Schedule(t *testing.T) {
	store := &mockStore{}
	s := NewSeeder(NewDirSource(writeFixtures(t, fixtures)), store, 2)

	seeded := make(chan struct{}, 4)
	s.OnSeeded(func(context.Context, Result) {
		select {
		case seeded <- struct{}{}:
		default:
		}
	})

	if err := s.Schedule(context.Background(), "@every 1s"); err != nil {
		t.Fatalf("Schedule failed: %v", err)
	}
	defer s.Stop()

	select {
	case <-seeded:
	case <-time.After(5 * time.Second):
		t.Fatal("scheduled seed did not run")
	}
}

func TestSeeder_ScheduleInvalidExpression(t *testing.T) {
	s := NewSeeder(NewDirSource(t.TempDir()), &mockStore{}, 1)
	if err := s.Schedule(context.Background(), "not a schedule"); err == nil {
		t.Fatal("expected error for invalid cron expression")
	}
	s.Stop()
}

func TestSeeder_SampleDataset(t *testing.T) {
	store := &mockStore{}
	res, err := NewSeeder(NewDirSource("../../data/seed"), store, 4).Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if res.Counts["safe_zones"] != 2 || res.Counts["field_units"] != 3 || res.Counts["users"] != 3 {
		t.Errorf("unexpected counts %v", res.Counts)
	}
	if got := store.snapshot.AidRoutes[1].BlockageReason; got == "" {
		t.Error("expected blockage reason on blocked route")
	}
}
