package models

import "time"

type StationStatus string

const (
	StationActive      StationStatus = "active"
	StationInactive    StationStatus = "inactive"
	StationMaintenance StationStatus = "maintenance"
)

func ParseStationStatus(s string) StationStatus {
	switch StationStatus(s) {
	case StationInactive, StationMaintenance:
		return StationStatus(s)
	default:
		return StationActive
	}
}

const (
	StationAlertInfo     = "info"
	StationAlertWarning  = "warning"
	StationAlertCritical = "critical"
)

type StationAlert struct {
	Level     string     `json:"level"`
	Message   string     `json:"message"`
	Timestamp *time.Time `json:"timestamp"`
}

type ModemStation struct {
	ID               string         `json:"id"`
	Name             string         `json:"name"`
	Type             string         `json:"type"`
	Location         Location       `json:"location"`
	Status           StationStatus  `json:"status"`
	SignalStrength   float64        `json:"signalStrength"` // 0-100
	DataRate         float64        `json:"dataRate"`       // 0-100
	ConnectedDevices int            `json:"connectedDevices"`
	NetworkLoad      float64        `json:"networkLoad"` // 0-100
	Alerts           []StationAlert `json:"alerts"`
}

// NetworkLink is directed in storage and drawn as an undirected backbone edge.
type NetworkLink struct {
	FromID    string  `json:"fromId"`
	ToID      string  `json:"toId"`
	LinkType  string  `json:"linkType"`
	Bandwidth float64 `json:"bandwidth"` // Mbps
	Latency   float64 `json:"latency"`   // ms
	Status    string  `json:"status"`
}

// Key identifies a link in the store.
func (l *NetworkLink) Key() string {
	return l.FromID + "->" + l.ToID
}
