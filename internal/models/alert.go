package models

import "time"

type AlertType string

const (
	AlertTypePopulation    AlertType = "population"
	AlertTypeSafeZone      AlertType = "safe_zone"
	AlertTypeAidRoute      AlertType = "aid_route"
	AlertTypeCommunication AlertType = "communication"
	AlertTypeFieldUnit     AlertType = "field_unit"
)

func ParseAlertType(s string) (AlertType, bool) {
	switch t := AlertType(s); t {
	case AlertTypePopulation, AlertTypeSafeZone, AlertTypeAidRoute, AlertTypeCommunication, AlertTypeFieldUnit:
		return t, true
	}
	return "", false
}

type AlertLevel string

const (
	AlertLevelWarning  AlertLevel = "warning"
	AlertLevelCritical AlertLevel = "critical"
)

func ParseAlertLevel(s string) (AlertLevel, bool) {
	switch l := AlertLevel(s); l {
	case AlertLevelWarning, AlertLevelCritical:
		return l, true
	}
	return "", false
}

// Alert is one entry of the dashboard's unified alert feed. Only the auxiliary
// fields relevant to Type are set.
type Alert struct {
	Type       AlertType  `json:"type"`
	Level      AlertLevel `json:"level"`
	Message    string     `json:"message"`
	SourceID   string     `json:"sourceId"`
	SourceName string     `json:"sourceName"`
	Timestamp  *time.Time `json:"timestamp,omitempty"`

	RiskFactors    []string `json:"riskFactors,omitempty"`
	OccupancyRate  *float64 `json:"occupancyRate,omitempty"`
	BlockageReason string   `json:"blockageReason,omitempty"`
	BatteryLevel   *float64 `json:"batteryLevel,omitempty"`
}
