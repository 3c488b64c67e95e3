package api

import (
	"github.com/mr1hm/tamis/internal/models"
	"github.com/mr1hm/tamis/internal/summary"
)

type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}
type Feature struct {
	Type       string         `json:"type"`
	Geometry   Geometry       `json:"geometry"`
	Properties map[string]any `json:"properties"`
}

// Geometry coordinates are [lng, lat] for a Point and a list of those for a
// LineString.
type Geometry struct {
	Type        string `json:"type"`
	Coordinates any    `json:"coordinates"`
}

var layers = map[string]func(*models.Snapshot) FeatureCollection{
	"population":  populationLayer,
	"safe-zones":  safeZoneLayer,
	"stations":    stationLayer,
	"network":     networkLayer,
	"field-units": fieldUnitLayer,
	"aid-routes":  aidRouteLayer,
}

func point(l models.Location, props map[string]any) Feature {
	return Feature{
		Type: "Feature",
		Geometry: Geometry{
			Type:        "Point",
			Coordinates: l.Coordinates(),
		},
		Properties: props,
	}
}

func lineString(path []models.Location, props map[string]any) Feature {
	coords := make([][]float64, 0, len(path))
	for _, l := range path {
		coords = append(coords, l.Coordinates())
	}
	return Feature{
		Type: "Feature",
		Geometry: Geometry{
			Type:        "LineString",
			Coordinates: coords,
		},
		Properties: props,
	}
}

func collection(features []Feature) FeatureCollection {
	return FeatureCollection{
		Type:     "FeatureCollection",
		Features: features,
	}
}

func populationLayer(s *models.Snapshot) FeatureCollection {
	assessed := summary.AssessPopulation(s.PopulationZones)
	features := make([]Feature, 0, len(s.PopulationZones))
	for i, z := range s.PopulationZones {
		features = append(features, point(z.Location, map[string]any{
			"id":          z.ZoneID,
			"name":        z.Name,
			"population":  z.Population,
			"density":     summary.RoundInt(z.Density),
			"riskLevel":   z.RiskLevel,
			"critical":    assessed[i].Critical,
			"riskFactors": assessed[i].RiskFactors,
		}))
	}
	return collection(features)
}

func safeZoneLayer(s *models.Snapshot) FeatureCollection {
	features := make([]Feature, 0, len(s.SafeZones))
	for _, z := range s.SafeZones {
		features = append(features, point(z.Location, map[string]any{
			"id":               z.ID,
			"name":             z.Name,
			"type":             z.Type,
			"status":           z.Status,
			"capacity":         z.Capacity,
			"currentOccupancy": z.CurrentOccupancy,
			"occupancyRate":    summary.Round1(z.OccupancyRatio() * 100),
		}))
	}
	return collection(features)
}

func stationLayer(s *models.Snapshot) FeatureCollection {
	features := make([]Feature, 0, len(s.ModemStations))
	for _, st := range s.ModemStations {
		features = append(features, point(st.Location, map[string]any{
			"id":               st.ID,
			"name":             st.Name,
			"type":             st.Type,
			"status":           st.Status,
			"signalStrength":   st.SignalStrength,
			"connectedDevices": st.ConnectedDevices,
			"alertCount":       len(st.Alerts),
		}))
	}
	return collection(features)
}

// networkLayer draws each link between its station endpoints. Links naming an
// unknown station are skipped.
func networkLayer(s *models.Snapshot) FeatureCollection {
	byID := make(map[string]models.Location, len(s.ModemStations))
	for _, st := range s.ModemStations {
		byID[st.ID] = st.Location
	}

	features := make([]Feature, 0, len(s.NetworkLinks))
	for _, l := range s.NetworkLinks {
		from, ok := byID[l.FromID]
		if !ok {
			continue
		}
		to, ok := byID[l.ToID]
		if !ok {
			continue
		}
		features = append(features, lineString([]models.Location{from, to}, map[string]any{
			"id":        l.Key(),
			"from":      l.FromID,
			"to":        l.ToID,
			"linkType":  l.LinkType,
			"bandwidth": l.Bandwidth,
			"latency":   l.Latency,
			"status":    l.Status,
		}))
	}
	return collection(features)
}

func fieldUnitLayer(s *models.Snapshot) FeatureCollection {
	features := make([]Feature, 0, len(s.FieldUnits))
	for _, u := range s.FieldUnits {
		features = append(features, point(u.Location, map[string]any{
			"id":             u.ID,
			"name":           u.Name,
			"status":         u.Status,
			"batteryLevel":   u.BatteryLevel,
			"signalStrength": u.SignalStrength,
			"personnel":      len(u.Personnel),
		}))
	}
	return collection(features)
}

// aidRouteLayer skips routes without at least two path points.
func aidRouteLayer(s *models.Snapshot) FeatureCollection {
	features := make([]Feature, 0, len(s.AidRoutes))
	for _, r := range s.AidRoutes {
		if len(r.Path) < 2 {
			continue
		}
		props := map[string]any{
			"id":            r.ID,
			"name":          r.Name,
			"status":        r.Status,
			"distance":      r.Distance,
			"estimatedTime": r.EstimatedTime,
		}
		if r.BlockageReason != "" {
			props["blockageReason"] = r.BlockageReason
		}
		features = append(features, lineString(r.Path, props))
	}
	return collection(features)
}
