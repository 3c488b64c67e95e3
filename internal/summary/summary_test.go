package summary

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mr1hm/tamis/internal/models"
)

func TestBuild_EmptySnapshot(t *testing.T) {
	d := Build(&models.Snapshot{})

	assert.Equal(t, PopulationSummary{}, d.Population)
	assert.Equal(t, SafeZoneSummary{}, d.SafeZones)
	assert.Equal(t, CommunicationSummary{}, d.Communication)
	assert.Equal(t, FieldUnitSummary{}, d.FieldUnits)
	assert.Equal(t, AidRouteSummary{}, d.AidRoutes)
	require.NotNil(t, d.Alerts)
	assert.Empty(t, d.Alerts)
}

func TestPopulation(t *testing.T) {
	zones := []models.PopulationZone{
		{ZoneID: "z1", Population: 12000, Area: 2.5, Density: 4800, RiskLevel: models.RiskHigh},
		{ZoneID: "z2", Population: 3000, Area: 10.25, Density: 292.7, RiskLevel: models.RiskLow},
		{ZoneID: "z3", Population: 8000, Area: 4, Density: 2000, RiskLevel: models.RiskMedium},
	}

	s := Population(zones)

	assert.Equal(t, 3, s.TotalZones)
	assert.Equal(t, 23000, s.TotalPopulation)
	assert.Equal(t, 2364, s.AverageDensity) // 7092.7/3 = 2364.23
	assert.Equal(t, 3.3, s.RiskScore)       // 1/3*10
	assert.Equal(t, 16.8, s.AffectedArea)   // 16.75
	assert.Equal(t, 1, s.CriticalZones)
	assert.LessOrEqual(t, s.CriticalZones, s.TotalZones)
}

func TestSafeZones_Scenario(t *testing.T) {
	zones := []models.SafeZone{
		{ID: "s1", Capacity: 500, CurrentOccupancy: 120, Status: "active",
			AccessRoutes: []models.AccessRoute{{EstimatedTime: 10}, {EstimatedTime: 25}}},
		{ID: "s2", Capacity: 2000, CurrentOccupancy: 1200, Status: "warning",
			AccessRoutes: []models.AccessRoute{{EstimatedTime: 14}}},
		{ID: "s3", Capacity: 600, CurrentOccupancy: 520, Status: "critical"},
	}

	s := SafeZones(zones)

	assert.Equal(t, 3100, s.TotalCapacity)
	assert.Equal(t, 1840, s.CurrentOccupancy)
	assert.Equal(t, 59.4, s.OccupancyRate)
	assert.Equal(t, 1260, s.AvailableSpace)
	assert.Equal(t, 16, s.AverageAccessTime) // 49/3
	assert.Equal(t, 1, s.CriticalZones)
}

func TestSafeZones_ZeroCapacity(t *testing.T) {
	s := SafeZones([]models.SafeZone{{ID: "s1", Capacity: 0, CurrentOccupancy: 40}})

	assert.Equal(t, 0.0, s.OccupancyRate)
	assert.Equal(t, 0, s.AverageAccessTime)
	assert.Equal(t, 0, s.CriticalZones)
	assert.Equal(t, -40, s.AvailableSpace)
}

func TestSafeZones_RatioOnlyCountsAsCritical(t *testing.T) {
	s := SafeZones([]models.SafeZone{{ID: "s1", Capacity: 100, CurrentOccupancy: 90, Status: "active"}})
	assert.Equal(t, 1, s.CriticalZones)
}

func TestCommunication_Scenario(t *testing.T) {
	stations := []models.ModemStation{
		{ID: "m1", Status: models.StationActive, SignalStrength: 90, DataRate: 80, ConnectedDevices: 10,
			Alerts: []models.StationAlert{{Level: "critical"}, {Level: "warning"}}},
		{ID: "m2", Status: models.StationActive, SignalStrength: 70, DataRate: 60, ConnectedDevices: 5},
		{ID: "m3", Status: models.StationInactive, SignalStrength: 0, DataRate: 0,
			Alerts: []models.StationAlert{{Level: "critical"}, {Level: "critical"}}},
		{ID: "m4", Status: models.StationMaintenance, SignalStrength: 45, DataRate: 33},
	}
	links := []models.NetworkLink{{FromID: "m1", ToID: "m2"}}

	s := Communication(stations, links)

	assert.Equal(t, 4, s.TotalModems)
	assert.Equal(t, 2, s.ActiveModems)
	assert.Equal(t, 1, s.InactiveModems)
	assert.Equal(t, 1, s.MaintenanceModems)
	assert.Equal(t, 50.0, s.NetworkCoverage)
	assert.Equal(t, 51.3, s.AverageSignalStrength) // 205/4 = 51.25
	assert.Equal(t, 43.3, s.DataTransmissionRate)  // 173/4 = 43.25
	assert.Equal(t, 3, s.CriticalAlerts)
	assert.Equal(t, 15, s.ConnectedDevices)
	assert.Equal(t, 1, s.TotalLinks)
}

func TestFieldUnits(t *testing.T) {
	units := []models.FieldUnit{
		{ID: "u1", Status: models.UnitActive, BatteryLevel: 80, SignalStrength: 70,
			Personnel: []models.Personnel{{Name: "a"}, {Name: "b"}},
			Equipment: []models.Equipment{{Name: "radio"}},
			DataCollection: models.DataCollection{TotalDataPoints: 120}},
		{ID: "u2", Status: models.UnitReporting, BatteryLevel: 55, SignalStrength: 65,
			Personnel: []models.Personnel{{Name: "c"}},
			DataCollection: models.DataCollection{TotalDataPoints: 30}},
		{ID: "u3", Status: models.UnitInactive, BatteryLevel: 65, SignalStrength: 0},
	}
	areas := []models.AreaData{{AreaID: "a1"}, {AreaID: "a2"}}

	s := FieldUnits(units, areas)

	assert.Equal(t, 3, s.TotalUnits)
	assert.Equal(t, 1, s.ActiveUnits)
	assert.Equal(t, 1, s.ReportingUnits)
	assert.Equal(t, 1, s.InactiveUnits)
	assert.Equal(t, 0, s.EmergencyUnits)
	assert.Equal(t, 3, s.TotalPersonnel)
	assert.Equal(t, 1, s.TotalEquipment)
	assert.Equal(t, 66.67, s.AverageBatteryLevel)
	assert.Equal(t, 45.0, s.AverageSignalStrength)
	assert.Equal(t, 150, s.TotalDataPoints)
	assert.Equal(t, 2, s.CoverageAreas)
}

func TestFieldUnits_BatteryAverageIgnoresOrder(t *testing.T) {
	units := []models.FieldUnit{
		{ID: "u1", BatteryLevel: 12.5},
		{ID: "u2", BatteryLevel: 99},
		{ID: "u3", BatteryLevel: 47.25},
		{ID: "u4", BatteryLevel: 3},
	}
	reversed := []models.FieldUnit{units[3], units[2], units[1], units[0]}

	assert.Equal(t, FieldUnits(units, nil).AverageBatteryLevel, FieldUnits(reversed, nil).AverageBatteryLevel)
}

func TestAidRoutes_Scenario(t *testing.T) {
	routes := []models.AidRoute{
		{ID: "r1", Status: models.RouteActive, Distance: 120.4, EstimatedTime: 5},
		{ID: "r2", Status: models.RouteBlocked, Distance: 85.0, EstimatedTime: 3},
	}

	s := AidRoutes(routes)

	assert.Equal(t, 4, s.AverageTime)
	assert.Equal(t, 205.4, s.AverageDistance)
	assert.Equal(t, 2, s.TotalRoutes)
	assert.Equal(t, 1, s.ActiveRoutes)
	assert.Equal(t, 1, s.BlockedRoutes)
}
