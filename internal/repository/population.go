package repository

import (
	"context"
	"fmt"

	"github.com/mr1hm/tamis/internal/models"
)

const upsertPopulationZone = `
	INSERT INTO population_zones (zone_id, name, lat, lng, population, area, density, risk_level, demographics)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT (zone_id) DO UPDATE SET
		name = excluded.name,
		lat = excluded.lat,
		lng = excluded.lng,
		population = excluded.population,
		area = excluded.area,
		density = excluded.density,
		risk_level = excluded.risk_level,
		demographics = excluded.demographics`

func (s *DB) UpsertPopulationZones(ctx context.Context, zones []models.PopulationZone) error {
	rows := make([][]any, 0, len(zones))
	for _, z := range zones {
		demographics, err := encodeJSON(z.Demographics)
		if err != nil {
			return fmt.Errorf("error encoding demographics for %s: %w", z.ZoneID, err)
		}
		rows = append(rows, []any{
			z.ZoneID, z.Name, z.Location.Lat, z.Location.Lng,
			z.Population, z.Area, z.Density, string(z.RiskLevel), demographics,
		})
	}
	return s.upsertAll(ctx, upsertPopulationZone, rows)
}

func (s *DB) ListPopulationZones(ctx context.Context) ([]models.PopulationZone, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT zone_id, name, lat, lng, population, area, density, risk_level, demographics
		FROM population_zones ORDER BY zone_id`)
	if err != nil {
		return nil, fmt.Errorf("error querying population zones: %w", err)
	}
	defer rows.Close()

	zones := []models.PopulationZone{}
	for rows.Next() {
		var (
			z            models.PopulationZone
			risk         string
			demographics string
		)
		if err := rows.Scan(&z.ZoneID, &z.Name, &z.Location.Lat, &z.Location.Lng,
			&z.Population, &z.Area, &z.Density, &risk, &demographics); err != nil {
			return nil, fmt.Errorf("error scanning population zone: %w", err)
		}
		z.RiskLevel = models.ParseRiskLevel(risk)
		if err := decodeJSON(demographics, &z.Demographics); err != nil {
			return nil, fmt.Errorf("error decoding demographics for %s: %w", z.ZoneID, err)
		}
		zones = append(zones, z)
	}
	return zones, rows.Err()
}
