package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mr1hm/tamis/internal/models"
)

const upsertFieldUnit = `
	INSERT INTO field_units (id, name, lat, lng, status, battery_level, signal_strength, personnel, equipment, total_data_points, last_sync)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT (id) DO UPDATE SET
		name = excluded.name,
		lat = excluded.lat,
		lng = excluded.lng,
		status = excluded.status,
		battery_level = excluded.battery_level,
		signal_strength = excluded.signal_strength,
		personnel = excluded.personnel,
		equipment = excluded.equipment,
		total_data_points = excluded.total_data_points,
		last_sync = excluded.last_sync`

const upsertArea = `
	INSERT INTO areas (area_id, name, current_occupancy, max_capacity, reporting_units)
	VALUES (?, ?, ?, ?, ?)
	ON CONFLICT (area_id) DO UPDATE SET
		name = excluded.name,
		current_occupancy = excluded.current_occupancy,
		max_capacity = excluded.max_capacity,
		reporting_units = excluded.reporting_units`

func (s *DB) UpsertFieldUnits(ctx context.Context, units []models.FieldUnit) error {
	rows := make([][]any, 0, len(units))
	for _, u := range units {
		personnel, err := encodeJSON(u.Personnel)
		if err != nil {
			return fmt.Errorf("error encoding personnel for %s: %w", u.ID, err)
		}
		equipment, err := encodeJSON(u.Equipment)
		if err != nil {
			return fmt.Errorf("error encoding equipment for %s: %w", u.ID, err)
		}
		rows = append(rows, []any{
			u.ID, u.Name, u.Location.Lat, u.Location.Lng, string(u.Status),
			u.BatteryLevel, u.SignalStrength, personnel, equipment,
			u.DataCollection.TotalDataPoints, encodeTime(u.DataCollection.LastSync),
		})
	}
	return s.upsertAll(ctx, upsertFieldUnit, rows)
}

func (s *DB) UpsertAreas(ctx context.Context, areas []models.AreaData) error {
	rows := make([][]any, 0, len(areas))
	for _, a := range areas {
		units, err := encodeJSON(a.ReportingUnits)
		if err != nil {
			return fmt.Errorf("error encoding reporting units for %s: %w", a.AreaID, err)
		}
		rows = append(rows, []any{a.AreaID, a.Name, a.CurrentOccupancy, a.MaxCapacity, units})
	}
	return s.upsertAll(ctx, upsertArea, rows)
}

func (s *DB) ListFieldUnits(ctx context.Context) ([]models.FieldUnit, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, lat, lng, status, battery_level, signal_strength, personnel, equipment, total_data_points, last_sync
		FROM field_units ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("error querying field units: %w", err)
	}
	defer rows.Close()

	units := []models.FieldUnit{}
	for rows.Next() {
		var (
			u                            models.FieldUnit
			status, personnel, equipment string
			lastSync                     sql.NullString
		)
		if err := rows.Scan(&u.ID, &u.Name, &u.Location.Lat, &u.Location.Lng, &status,
			&u.BatteryLevel, &u.SignalStrength, &personnel, &equipment,
			&u.DataCollection.TotalDataPoints, &lastSync); err != nil {
			return nil, fmt.Errorf("error scanning field unit: %w", err)
		}
		u.Status = models.ParseUnitStatus(status)
		if err := decodeAll(personnel, &u.Personnel, equipment, &u.Equipment); err != nil {
			return nil, fmt.Errorf("error decoding field unit %s: %w", u.ID, err)
		}
		if u.DataCollection.LastSync, err = decodeTime(lastSync); err != nil {
			return nil, fmt.Errorf("error decoding last_sync for %s: %w", u.ID, err)
		}
		units = append(units, u)
	}
	return units, rows.Err()
}

func (s *DB) ListAreas(ctx context.Context) ([]models.AreaData, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT area_id, name, current_occupancy, max_capacity, reporting_units
		FROM areas ORDER BY area_id`)
	if err != nil {
		return nil, fmt.Errorf("error querying areas: %w", err)
	}
	defer rows.Close()

	areas := []models.AreaData{}
	for rows.Next() {
		var (
			a     models.AreaData
			units string
		)
		if err := rows.Scan(&a.AreaID, &a.Name, &a.CurrentOccupancy, &a.MaxCapacity, &units); err != nil {
			return nil, fmt.Errorf("error scanning area: %w", err)
		}
		if err := decodeJSON(units, &a.ReportingUnits); err != nil {
			return nil, fmt.Errorf("error decoding reporting units for %s: %w", a.AreaID, err)
		}
		areas = append(areas, a)
	}
	return areas, rows.Err()
}
