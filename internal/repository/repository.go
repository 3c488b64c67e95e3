package repository

import (
	"context"
	"errors"
	"time"

	"github.com/mr1hm/tamis/internal/models"
)

var ErrNotFound = errors.New("record not found")

// Counts is the number of stored records per table.
type Counts map[string]int

type SnapshotReader interface {
	LoadSnapshot(ctx context.Context) (*models.Snapshot, error)
	Counts(ctx context.Context) (Counts, error)
}

// SnapshotWriter upserts whole collections keyed by their natural id.
type SnapshotWriter interface {
	UpsertPopulationZones(ctx context.Context, zones []models.PopulationZone) error
	UpsertSafeZones(ctx context.Context, zones []models.SafeZone) error
	UpsertAidRoutes(ctx context.Context, routes []models.AidRoute) error
	UpsertModemStations(ctx context.Context, stations []models.ModemStation) error
	UpsertNetworkLinks(ctx context.Context, links []models.NetworkLink) error
	UpsertFieldUnits(ctx context.Context, units []models.FieldUnit) error
	UpsertAreas(ctx context.Context, areas []models.AreaData) error
	UpsertUsers(ctx context.Context, users []models.User) error
}

type UserRepository interface {
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	TouchLastLogin(ctx context.Context, id string, at time.Time) error
}

type Store interface {
	SnapshotReader
	SnapshotWriter
	UserRepository
	Close() error
}
