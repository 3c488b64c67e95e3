package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mr1hm/tamis/internal/models"
)

const upsertSafeZone = `
	INSERT INTO safe_zones (id, name, type, lat, lng, capacity, current_occupancy, status, facilities, access_routes, last_updated)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT (id) DO UPDATE SET
		name = excluded.name,
		type = excluded.type,
		lat = excluded.lat,
		lng = excluded.lng,
		capacity = excluded.capacity,
		current_occupancy = excluded.current_occupancy,
		status = excluded.status,
		facilities = excluded.facilities,
		access_routes = excluded.access_routes,
		last_updated = excluded.last_updated`

func (s *DB) UpsertSafeZones(ctx context.Context, zones []models.SafeZone) error {
	rows := make([][]any, 0, len(zones))
	for _, z := range zones {
		facilities, err := encodeJSON(z.Facilities)
		if err != nil {
			return fmt.Errorf("error encoding facilities for %s: %w", z.ID, err)
		}
		routes, err := encodeJSON(z.AccessRoutes)
		if err != nil {
			return fmt.Errorf("error encoding access routes for %s: %w", z.ID, err)
		}
		rows = append(rows, []any{
			z.ID, z.Name, z.Type, z.Location.Lat, z.Location.Lng,
			z.Capacity, z.CurrentOccupancy, z.Status, facilities, routes, encodeTime(z.LastUpdated),
		})
	}
	return s.upsertAll(ctx, upsertSafeZone, rows)
}

func (s *DB) ListSafeZones(ctx context.Context) ([]models.SafeZone, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, type, lat, lng, capacity, current_occupancy, status, facilities, access_routes, last_updated
		FROM safe_zones ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("error querying safe zones: %w", err)
	}
	defer rows.Close()

	zones := []models.SafeZone{}
	for rows.Next() {
		var (
			z                  models.SafeZone
			facilities, routes string
			updated            sql.NullString
		)
		if err := rows.Scan(&z.ID, &z.Name, &z.Type, &z.Location.Lat, &z.Location.Lng,
			&z.Capacity, &z.CurrentOccupancy, &z.Status, &facilities, &routes, &updated); err != nil {
			return nil, fmt.Errorf("error scanning safe zone: %w", err)
		}
		if err := decodeJSON(facilities, &z.Facilities); err != nil {
			return nil, fmt.Errorf("error decoding facilities for %s: %w", z.ID, err)
		}
		if err := decodeJSON(routes, &z.AccessRoutes); err != nil {
			return nil, fmt.Errorf("error decoding access routes for %s: %w", z.ID, err)
		}
		if z.LastUpdated, err = decodeTime(updated); err != nil {
			return nil, fmt.Errorf("error decoding last_updated for %s: %w", z.ID, err)
		}
		if z.Facilities == nil {
			z.Facilities = map[string]bool{}
		}
		if z.AccessRoutes == nil {
			z.AccessRoutes = []models.AccessRoute{}
		}
		zones = append(zones, z)
	}
	return zones, rows.Err()
}
