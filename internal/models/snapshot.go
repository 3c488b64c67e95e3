package models

// Snapshot is one materialized read of every domain collection.
type Snapshot struct {
	PopulationZones []PopulationZone
	SafeZones       []SafeZone
	AidRoutes       []AidRoute
	ModemStations   []ModemStation
	NetworkLinks    []NetworkLink
	FieldUnits      []FieldUnit
	Areas           []AreaData
}
