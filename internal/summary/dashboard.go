package summary

import "github.com/mr1hm/tamis/internal/models"

// Dashboard is the combined output the dashboard renders.
type Dashboard struct {
	Population    PopulationSummary    `json:"population"`
	SafeZones     SafeZoneSummary      `json:"safeZones"`
	Communication CommunicationSummary `json:"communication"`
	FieldUnits    FieldUnitSummary     `json:"fieldUnits"`
	AidRoutes     AidRouteSummary      `json:"aidRoutes"`
	Alerts        []models.Alert       `json:"alerts"`
}

func Build(s *models.Snapshot) Dashboard {
	return Dashboard{
		Population:    Population(s.PopulationZones),
		SafeZones:     SafeZones(s.SafeZones),
		Communication: Communication(s.ModemStations, s.NetworkLinks),
		FieldUnits:    FieldUnits(s.FieldUnits, s.Areas),
		AidRoutes:     AidRoutes(s.AidRoutes),
		Alerts:        CollectAlerts(s),
	}
}
