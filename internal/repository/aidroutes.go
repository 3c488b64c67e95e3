package repository

import (
	"context"
	"fmt"

	"github.com/mr1hm/tamis/internal/models"
)

const upsertAidRoute = `
	INSERT INTO aid_routes (id, name, status, distance, estimated_time, path, supplies, vehicles, checkpoints, blockage_reason)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT (id) DO UPDATE SET
		name = excluded.name,
		status = excluded.status,
		distance = excluded.distance,
		estimated_time = excluded.estimated_time,
		path = excluded.path,
		supplies = excluded.supplies,
		vehicles = excluded.vehicles,
		checkpoints = excluded.checkpoints,
		blockage_reason = excluded.blockage_reason`

func (s *DB) UpsertAidRoutes(ctx context.Context, routes []models.AidRoute) error {
	rows := make([][]any, 0, len(routes))
	for _, r := range routes {
		var cols [4]string
		for i, v := range []any{r.Path, r.Supplies, r.Vehicles, r.Checkpoints} {
			enc, err := encodeJSON(v)
			if err != nil {
				return fmt.Errorf("error encoding aid route %s: %w", r.ID, err)
			}
			cols[i] = enc
		}
		rows = append(rows, []any{
			r.ID, r.Name, string(r.Status), r.Distance, r.EstimatedTime,
			cols[0], cols[1], cols[2], cols[3], r.BlockageReason,
		})
	}
	return s.upsertAll(ctx, upsertAidRoute, rows)
}

func (s *DB) ListAidRoutes(ctx context.Context) ([]models.AidRoute, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, status, distance, estimated_time, path, supplies, vehicles, checkpoints, blockage_reason
		FROM aid_routes ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("error querying aid routes: %w", err)
	}
	defer rows.Close()

	routes := []models.AidRoute{}
	for rows.Next() {
		var (
			r                                     models.AidRoute
			status                                string
			path, supplies, vehicles, checkpoints string
		)
		if err := rows.Scan(&r.ID, &r.Name, &status, &r.Distance, &r.EstimatedTime,
			&path, &supplies, &vehicles, &checkpoints, &r.BlockageReason); err != nil {
			return nil, fmt.Errorf("error scanning aid route: %w", err)
		}
		r.Status = models.ParseRouteStatus(status)
		if err := decodeAll(
			path, &r.Path,
			supplies, &r.Supplies,
			vehicles, &r.Vehicles,
			checkpoints, &r.Checkpoints,
		); err != nil {
			return nil, fmt.Errorf("error decoding aid route %s: %w", r.ID, err)
		}
		routes = append(routes, r)
	}
	return routes, rows.Err()
}

// decodeAll takes (json, target) pairs.
func decodeAll(pairs ...any) error {
	for i := 0; i+1 < len(pairs); i += 2 {
		if err := decodeJSON(pairs[i].(string), pairs[i+1]); err != nil {
			return err
		}
	}
	return nil
}
