package summary

import (
	"fmt"

	"github.com/mr1hm/tamis/internal/models"
)

// CollectAlerts returns the unified alert feed. Domains are evaluated in a fixed
// order (population, safe zones, aid routes, communication, field units) and each
// domain keeps the order of its input collection. The feed is never sorted.
func CollectAlerts(s *models.Snapshot) []models.Alert {
	alerts := []models.Alert{}
	alerts = append(alerts, populationAlerts(AssessPopulation(s.PopulationZones))...)
	alerts = append(alerts, safeZoneAlerts(s.SafeZones)...)
	alerts = append(alerts, aidRouteAlerts(s.AidRoutes)...)
	alerts = append(alerts, communicationAlerts(s.ModemStations)...)
	alerts = append(alerts, fieldUnitAlerts(s.FieldUnits)...)
	return alerts
}

func populationAlerts(assessed []ZoneAssessment) []models.Alert {
	var out []models.Alert
	for _, a := range assessed {
		if !a.Critical {
			continue
		}
		out = append(out, models.Alert{
			Type:        models.AlertTypePopulation,
			Level:       models.AlertLevelCritical,
			Message:     fmt.Sprintf("%s: critical population risk", a.Name),
			SourceID:    a.ZoneID,
			SourceName:  a.Name,
			RiskFactors: a.RiskFactors,
		})
	}
	return out
}

// safeZoneAlerts follows the stored status. Zones over the occupancy threshold
// without a critical status are counted by SafeZones but do not alert.
func safeZoneAlerts(zones []models.SafeZone) []models.Alert {
	var out []models.Alert
	for i := range zones {
		z := &zones[i]
		if !z.StatusCritical() {
			continue
		}
		rate := Round1(z.OccupancyRatio() * 100)
		out = append(out, models.Alert{
			Type:          models.AlertTypeSafeZone,
			Level:         models.AlertLevelCritical,
			Message:       fmt.Sprintf("%s at critical occupancy (%.1f%%)", z.Name, rate),
			SourceID:      z.ID,
			SourceName:    z.Name,
			Timestamp:     z.LastUpdated,
			OccupancyRate: &rate,
		})
	}
	return out
}

func aidRouteAlerts(routes []models.AidRoute) []models.Alert {
	var out []models.Alert
	for i := range routes {
		r := &routes[i]
		if r.Status != models.RouteBlocked {
			continue
		}
		msg := fmt.Sprintf("%s blocked", r.Name)
		if r.BlockageReason != "" {
			msg += ": " + r.BlockageReason
		}
		out = append(out, models.Alert{
			Type:           models.AlertTypeAidRoute,
			Level:          models.AlertLevelCritical,
			Message:        msg,
			SourceID:       r.ID,
			SourceName:     r.Name,
			BlockageReason: r.BlockageReason,
		})
	}
	return out
}

// communicationAlerts emits one alert per critical sub-alert, not per station.
func communicationAlerts(stations []models.ModemStation) []models.Alert {
	var out []models.Alert
	for i := range stations {
		st := &stations[i]
		for _, a := range st.Alerts {
			if a.Level != models.StationAlertCritical {
				continue
			}
			out = append(out, models.Alert{
				Type:       models.AlertTypeCommunication,
				Level:      models.AlertLevelCritical,
				Message:    a.Message,
				SourceID:   st.ID,
				SourceName: st.Name,
				Timestamp:  a.Timestamp,
			})
		}
	}
	return out
}

func fieldUnitAlerts(units []models.FieldUnit) []models.Alert {
	var out []models.Alert
	for i := range units {
		u := &units[i]
		battery := u.BatteryLevel
		switch {
		case u.Status == models.UnitInactive:
			out = append(out, models.Alert{
				Type:         models.AlertTypeFieldUnit,
				Level:        models.AlertLevelCritical,
				Message:      fmt.Sprintf("%s: unit offline", u.Name),
				SourceID:     u.ID,
				SourceName:   u.Name,
				Timestamp:    u.DataCollection.LastSync,
				BatteryLevel: &battery,
			})
		case u.BatteryLevel < models.LowBatteryThreshold:
			out = append(out, models.Alert{
				Type:         models.AlertTypeFieldUnit,
				Level:        models.AlertLevelWarning,
				Message:      fmt.Sprintf("%s: low battery (%.0f%%)", u.Name, u.BatteryLevel),
				SourceID:     u.ID,
				SourceName:   u.Name,
				Timestamp:    u.DataCollection.LastSync,
				BatteryLevel: &battery,
			})
		}
	}
	return out
}

// FilterAlerts keeps alerts matching the given type and level; a nil filter
// matches everything. Order is preserved.
func FilterAlerts(alerts []models.Alert, typ *models.AlertType, level *models.AlertLevel) []models.Alert {
	out := make([]models.Alert, 0, len(alerts))
	for _, a := range alerts {
		if typ != nil && a.Type != *typ {
			continue
		}
		if level != nil && a.Level != *level {
			continue
		}
		out = append(out, a)
	}
	return out
}
