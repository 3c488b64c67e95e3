package models

import "time"

type UnitStatus string

const (
	UnitActive    UnitStatus = "active"
	UnitReporting UnitStatus = "reporting"
	UnitInactive  UnitStatus = "inactive"
	UnitEmergency UnitStatus = "emergency"
)

func ParseUnitStatus(s string) UnitStatus {
	switch UnitStatus(s) {
	case UnitReporting, UnitInactive, UnitEmergency:
		return UnitStatus(s)
	default:
		return UnitActive
	}
}

// LowBatteryThreshold is the battery percentage below which a unit raises a warning.
const LowBatteryThreshold = 30

type Personnel struct {
	Name string `json:"name"`
	Role string `json:"role"`
}

type Equipment struct {
	Name   string `json:"name"`
	Type   string `json:"type"`
	Status string `json:"status"`
}

type DataCollection struct {
	TotalDataPoints int        `json:"totalDataPoints"`
	LastSync        *time.Time `json:"lastSync"`
}

type FieldUnit struct {
	ID             string         `json:"id"`
	Name           string         `json:"name"`
	Location       Location       `json:"location"`
	Status         UnitStatus     `json:"status"`
	BatteryLevel   float64        `json:"batteryLevel"`   // 0-100
	SignalStrength float64        `json:"signalStrength"` // 0-100
	Personnel      []Personnel    `json:"personnel"`
	Equipment      []Equipment    `json:"equipment"`
	DataCollection DataCollection `json:"dataCollection"`
}

// AreaData references field units by id only; it does not own them.
type AreaData struct {
	AreaID           string   `json:"areaId"`
	Name             string   `json:"name"`
	CurrentOccupancy int      `json:"currentOccupancy"`
	MaxCapacity      int      `json:"maxCapacity"`
	ReportingUnits   []string `json:"reportingUnits"`
}
