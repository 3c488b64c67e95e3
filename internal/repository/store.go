package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "pgx"
)

// DB is the Record Store. Queries are written with '?' placeholders and
// rebound for Postgres.
type DB struct {
	db     *sql.DB
	driver string
}

func Open(driver, dsn string) (*DB, error) {
	if driver == DriverSQLite && !strings.HasPrefix(dsn, ":memory:") && !strings.HasPrefix(dsn, "file:") {
		if err := os.MkdirAll(filepath.Dir(dsn), 0o755); err != nil {
			return nil, fmt.Errorf("error creating database directory: %w", err)
		}
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}
	return newDB(db, driver)
}

func newDB(db *sql.DB, driver string) (*DB, error) {
	if driver == DriverSQLite {
		// one connection keeps ":memory:" databases coherent and serializes writers
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("error while pinging database: %w", err)
	}

	s := &DB{
		db:     db,
		driver: driver,
	}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("error while migrating database: %w", err)
	}

	return s, nil
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS population_zones (
		zone_id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		lat DOUBLE PRECISION NOT NULL,
		lng DOUBLE PRECISION NOT NULL,
		population INTEGER NOT NULL,
		area DOUBLE PRECISION NOT NULL,
		density DOUBLE PRECISION NOT NULL,
		risk_level TEXT NOT NULL,
		demographics TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS safe_zones (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		type TEXT NOT NULL,
		lat DOUBLE PRECISION NOT NULL,
		lng DOUBLE PRECISION NOT NULL,
		capacity INTEGER NOT NULL,
		current_occupancy INTEGER NOT NULL,
		status TEXT NOT NULL,
		facilities TEXT NOT NULL,
		access_routes TEXT NOT NULL,
		last_updated TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS aid_routes (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		status TEXT NOT NULL,
		distance DOUBLE PRECISION NOT NULL,
		estimated_time DOUBLE PRECISION NOT NULL,
		path TEXT NOT NULL,
		supplies TEXT NOT NULL,
		vehicles TEXT NOT NULL,
		checkpoints TEXT NOT NULL,
		blockage_reason TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS modem_stations (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		type TEXT NOT NULL,
		lat DOUBLE PRECISION NOT NULL,
		lng DOUBLE PRECISION NOT NULL,
		status TEXT NOT NULL,
		signal_strength DOUBLE PRECISION NOT NULL,
		data_rate DOUBLE PRECISION NOT NULL,
		connected_devices INTEGER NOT NULL,
		network_load DOUBLE PRECISION NOT NULL,
		alerts TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS network_links (
		from_id TEXT NOT NULL,
		to_id TEXT NOT NULL,
		link_type TEXT NOT NULL,
		bandwidth DOUBLE PRECISION NOT NULL,
		latency DOUBLE PRECISION NOT NULL,
		status TEXT NOT NULL,
		PRIMARY KEY (from_id, to_id)
	)`,
	`CREATE TABLE IF NOT EXISTS field_units (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		lat DOUBLE PRECISION NOT NULL,
		lng DOUBLE PRECISION NOT NULL,
		status TEXT NOT NULL,
		battery_level DOUBLE PRECISION NOT NULL,
		signal_strength DOUBLE PRECISION NOT NULL,
		personnel TEXT NOT NULL,
		equipment TEXT NOT NULL,
		total_data_points INTEGER NOT NULL,
		last_sync TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS areas (
		area_id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		current_occupancy INTEGER NOT NULL,
		max_capacity INTEGER NOT NULL,
		reporting_units TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		password TEXT NOT NULL,
		role TEXT NOT NULL,
		is_active BOOLEAN NOT NULL,
		last_login TEXT
	)`,
	`CREATE INDEX IF NOT EXISTS idx_safe_zones_status ON safe_zones(status)`,
	`CREATE INDEX IF NOT EXISTS idx_field_units_status ON field_units(status)`,
}

// tables lists every table reported by Counts.
var tables = []string{
	"population_zones",
	"safe_zones",
	"aid_routes",
	"modem_stations",
	"network_links",
	"field_units",
	"areas",
	"users",
}

func (s *DB) migrate() error {
	for _, stmt := range schema {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (s *DB) Close() error {
	return s.db.Close()
}

func (s *DB) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// rebind rewrites '?' placeholders to '$n' for Postgres.
func (s *DB) rebind(query string) string {
	if s.driver != DriverPostgres {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 16)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// upsertAll executes query once per row inside a single transaction.
func (s *DB) upsertAll(ctx context.Context, query string, rows [][]any) error {
	if len(rows) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, s.rebind(query))
	if err != nil {
		return fmt.Errorf("error preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, args := range rows {
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("error executing upsert: %w", err)
		}
	}

	return tx.Commit()
}

func (s *DB) Counts(ctx context.Context) (Counts, error) {
	counts := make(Counts, len(tables))
	for _, t := range tables {
		var n int
		if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+t).Scan(&n); err != nil {
			return nil, fmt.Errorf("error counting %s: %w", t, err)
		}
		counts[t] = n
	}
	return counts, nil
}

func encodeJSON(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func decodeJSON(s string, v any) error {
	if s == "" {
		return nil
	}
	return json.Unmarshal([]byte(s), v)
}

func encodeTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func decodeTime(s sql.NullString) (*time.Time, error) {
	if !s.Valid || s.String == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339Nano, s.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
