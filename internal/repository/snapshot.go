package repository

import (
	"context"

	"github.com/mr1hm/tamis/internal/models"
)

// LoadSnapshot reads every domain collection. Collections are ordered by their
// natural id.
func (s *DB) LoadSnapshot(ctx context.Context) (*models.Snapshot, error) {
	var (
		snap models.Snapshot
		err  error
	)
	if snap.PopulationZones, err = s.ListPopulationZones(ctx); err != nil {
		return nil, err
	}
	if snap.SafeZones, err = s.ListSafeZones(ctx); err != nil {
		return nil, err
	}
	if snap.AidRoutes, err = s.ListAidRoutes(ctx); err != nil {
		return nil, err
	}
	if snap.ModemStations, err = s.ListModemStations(ctx); err != nil {
		return nil, err
	}
	if snap.NetworkLinks, err = s.ListNetworkLinks(ctx); err != nil {
		return nil, err
	}
	if snap.FieldUnits, err = s.ListFieldUnits(ctx); err != nil {
		return nil, err
	}
	if snap.Areas, err = s.ListAreas(ctx); err != nil {
		return nil, err
	}
	return &snap, nil
}
