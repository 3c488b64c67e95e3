package seed

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mr1hm/tamis/internal/models"
)

// Raw snapshot shapes. Every optional field is tolerated here and defaulted by
// the normalize functions below, so nothing past this file checks for absence.

type rawLocation models.Location

// UnmarshalJSON accepts {"lat","lng"}, {"latitude","longitude"} or [lat, lng].
func (l *rawLocation) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '[' {
		var pair []float64
		if err := json.Unmarshal(b, &pair); err != nil {
			return err
		}
		if len(pair) >= 2 {
			l.Lat, l.Lng = pair[0], pair[1]
		}
		return nil
	}

	var obj struct {
		Lat       *float64 `json:"lat"`
		Lng       *float64 `json:"lng"`
		Latitude  *float64 `json:"latitude"`
		Longitude *float64 `json:"longitude"`
	}
	if err := json.Unmarshal(b, &obj); err != nil {
		return err
	}
	l.Lat = firstFloat(obj.Lat, obj.Latitude)
	l.Lng = firstFloat(obj.Lng, obj.Longitude)
	return nil
}

type rawPopulationZone struct {
	ZoneID       string      `json:"zoneId"`
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	Location     rawLocation `json:"location"`
	Population   float64     `json:"population"`
	Area         float64     `json:"area"`
	Density      *float64    `json:"density"`
	RiskLevel    string      `json:"riskLevel"`
	Demographics struct {
		Children float64 `json:"children"`
		Adults   float64 `json:"adults"`
		Elderly  float64 `json:"elderly"`
		Disabled float64 `json:"disabled"`
	} `json:"demographics"`
}

type rawSafeZone struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	Type             string          `json:"type"`
	Location         rawLocation     `json:"location"`
	Capacity         float64         `json:"capacity"`
	CurrentOccupancy float64         `json:"currentOccupancy"`
	Status           string          `json:"status"`
	Facilities       map[string]bool `json:"facilities"`
	AccessRoutes     []struct {
		Name          string  `json:"name"`
		EstimatedTime float64 `json:"estimatedTime"`
	} `json:"accessRoutes"`
	LastUpdated string `json:"lastUpdated"`
}

type rawAidRoute struct {
	ID             string           `json:"id"`
	Name           string           `json:"name"`
	Status         string           `json:"status"`
	Distance       float64          `json:"distance"`
	EstimatedTime  float64          `json:"estimatedTime"`
	Path           []rawLocation    `json:"path"`
	Supplies       []models.Supply  `json:"supplies"`
	Vehicles       []models.Vehicle `json:"vehicles"`
	Checkpoints    []rawCheckpoint  `json:"checkpoints"`
	BlockageReason string           `json:"blockageReason"`
}

type rawCheckpoint struct {
	Name     string      `json:"name"`
	Location rawLocation `json:"location"`
	Status   string      `json:"status"`
}

type rawCommunication struct {
	Stations []rawModemStation `json:"stations"`
	Links    []rawNetworkLink  `json:"links"`
}

type rawModemStation struct {
	ID               string      `json:"id"`
	Name             string      `json:"name"`
	Type             string      `json:"type"`
	Location         rawLocation `json:"location"`
	Status           string      `json:"status"`
	SignalStrength   float64     `json:"signalStrength"`
	DataRate         float64     `json:"dataRate"`
	ConnectedDevices float64     `json:"connectedDevices"`
	NetworkLoad      float64     `json:"networkLoad"`
	Alerts           []struct {
		Level     string `json:"level"`
		Message   string `json:"message"`
		Timestamp string `json:"timestamp"`
	} `json:"alerts"`
}

type rawNetworkLink struct {
	FromID    string  `json:"fromId"`
	ToID      string  `json:"toId"`
	LinkType  string  `json:"linkType"`
	Bandwidth float64 `json:"bandwidth"`
	Latency   float64 `json:"latency"`
	Status    string  `json:"status"`
}

type rawFieldUnits struct {
	Units []rawFieldUnit `json:"units"`
	Areas []rawArea      `json:"areas"`
}

type rawFieldUnit struct {
	ID             string             `json:"id"`
	Name           string             `json:"name"`
	Location       rawLocation        `json:"location"`
	Status         string             `json:"status"`
	BatteryLevel   float64            `json:"batteryLevel"`
	SignalStrength float64            `json:"signalStrength"`
	Personnel      []models.Personnel `json:"personnel"`
	Equipment      []models.Equipment `json:"equipment"`
	DataCollection struct {
		TotalDataPoints float64 `json:"totalDataPoints"`
		LastSync        string  `json:"lastSync"`
	} `json:"dataCollection"`
}

type rawArea struct {
	AreaID           string   `json:"areaId"`
	Name             string   `json:"name"`
	CurrentOccupancy float64  `json:"currentOccupancy"`
	MaxCapacity      float64  `json:"maxCapacity"`
	ReportingUnits   []string `json:"reportingUnits"`
}

type rawUser struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
	IsActive *bool  `json:"isActive"`
}

func normalizePopulationZones(raw []rawPopulationZone) []models.PopulationZone {
	out := make([]models.PopulationZone, 0, len(raw))
	for _, r := range raw {
		id := firstString(r.ZoneID, r.ID)
		if id == "" {
			slog.Warn("skipping population zone without id", "name", r.Name)
			continue
		}

		population := toCount(r.Population)
		area := math.Max(r.Area, 0)
		density := 0.0
		switch {
		case r.Density != nil:
			density = math.Max(*r.Density, 0)
		case area > 0:
			density = float64(population) / area
		}

		out = append(out, models.PopulationZone{
			ZoneID:     id,
			Name:       r.Name,
			Location:   models.Location(r.Location),
			Population: population,
			Area:       area,
			Density:    density,
			RiskLevel:  models.ParseRiskLevel(normalizeStatus(r.RiskLevel)),
			Demographics: models.Demographics{
				Children: toCount(r.Demographics.Children),
				Adults:   toCount(r.Demographics.Adults),
				Elderly:  toCount(r.Demographics.Elderly),
				Disabled: toCount(r.Demographics.Disabled),
			},
		})
	}
	return out
}

func normalizeSafeZones(raw []rawSafeZone) []models.SafeZone {
	out := make([]models.SafeZone, 0, len(raw))
	for _, r := range raw {
		if r.ID == "" {
			slog.Warn("skipping safe zone without id", "name", r.Name)
			continue
		}

		routes := make([]models.AccessRoute, 0, len(r.AccessRoutes))
		for _, ar := range r.AccessRoutes {
			routes = append(routes, models.AccessRoute{Name: ar.Name, EstimatedTime: math.Max(ar.EstimatedTime, 0)})
		}
		facilities := r.Facilities
		if facilities == nil {
			facilities = map[string]bool{}
		}
		status := normalizeStatus(r.Status)
		if status == "" {
			status = models.SafeZoneStatusActive
		}

		out = append(out, models.SafeZone{
			ID:               r.ID,
			Name:             r.Name,
			Type:             r.Type,
			Location:         models.Location(r.Location),
			Capacity:         toCount(r.Capacity),
			CurrentOccupancy: toCount(r.CurrentOccupancy),
			Status:           status,
			Facilities:       facilities,
			AccessRoutes:     routes,
			LastUpdated:      parseTime(r.LastUpdated),
		})
	}
	return out
}

func normalizeAidRoutes(raw []rawAidRoute) []models.AidRoute {
	out := make([]models.AidRoute, 0, len(raw))
	for _, r := range raw {
		if r.ID == "" {
			slog.Warn("skipping aid route without id", "name", r.Name)
			continue
		}

		path := make([]models.Location, 0, len(r.Path))
		for _, p := range r.Path {
			path = append(path, models.Location(p))
		}
		checkpoints := make([]models.Checkpoint, 0, len(r.Checkpoints))
		for _, c := range r.Checkpoints {
			checkpoints = append(checkpoints, models.Checkpoint{
				Name:     c.Name,
				Location: models.Location(c.Location),
				Status:   normalizeStatus(c.Status),
			})
		}

		status := models.ParseRouteStatus(normalizeStatus(r.Status))
		reason := ""
		if status == models.RouteBlocked {
			reason = strings.TrimSpace(r.BlockageReason)
		}

		out = append(out, models.AidRoute{
			ID:             r.ID,
			Name:           r.Name,
			Status:         status,
			Distance:       math.Max(r.Distance, 0),
			EstimatedTime:  math.Max(r.EstimatedTime, 0),
			Path:           path,
			Supplies:       orEmpty(r.Supplies),
			Vehicles:       orEmpty(r.Vehicles),
			Checkpoints:    checkpoints,
			BlockageReason: reason,
		})
	}
	return out
}

func normalizeCommunication(raw rawCommunication) ([]models.ModemStation, []models.NetworkLink) {
	stations := make([]models.ModemStation, 0, len(raw.Stations))
	for _, r := range raw.Stations {
		if r.ID == "" {
			slog.Warn("skipping modem station without id", "name", r.Name)
			continue
		}

		alerts := make([]models.StationAlert, 0, len(r.Alerts))
		for _, a := range r.Alerts {
			alerts = append(alerts, models.StationAlert{
				Level:     normalizeStatus(a.Level),
				Message:   a.Message,
				Timestamp: parseTime(a.Timestamp),
			})
		}

		stations = append(stations, models.ModemStation{
			ID:               r.ID,
			Name:             r.Name,
			Type:             r.Type,
			Location:         models.Location(r.Location),
			Status:           models.ParseStationStatus(normalizeStatus(r.Status)),
			SignalStrength:   clampPercent(r.SignalStrength),
			DataRate:         clampPercent(r.DataRate),
			ConnectedDevices: toCount(r.ConnectedDevices),
			NetworkLoad:      clampPercent(r.NetworkLoad),
			Alerts:           alerts,
		})
	}

	links := make([]models.NetworkLink, 0, len(raw.Links))
	for _, r := range raw.Links {
		if r.FromID == "" || r.ToID == "" {
			slog.Warn("skipping network link without endpoints", "from", r.FromID, "to", r.ToID)
			continue
		}
		links = append(links, models.NetworkLink{
			FromID:    r.FromID,
			ToID:      r.ToID,
			LinkType:  r.LinkType,
			Bandwidth: math.Max(r.Bandwidth, 0),
			Latency:   math.Max(r.Latency, 0),
			Status:    normalizeStatus(r.Status),
		})
	}

	return stations, links
}

func normalizeFieldUnits(raw rawFieldUnits) ([]models.FieldUnit, []models.AreaData) {
	units := make([]models.FieldUnit, 0, len(raw.Units))
	for _, r := range raw.Units {
		if r.ID == "" {
			slog.Warn("skipping field unit without id", "name", r.Name)
			continue
		}
		units = append(units, models.FieldUnit{
			ID:             r.ID,
			Name:           r.Name,
			Location:       models.Location(r.Location),
			Status:         models.ParseUnitStatus(normalizeStatus(r.Status)),
			BatteryLevel:   clampPercent(r.BatteryLevel),
			SignalStrength: clampPercent(r.SignalStrength),
			Personnel:      orEmpty(r.Personnel),
			Equipment:      orEmpty(r.Equipment),
			DataCollection: models.DataCollection{
				TotalDataPoints: toCount(r.DataCollection.TotalDataPoints),
				LastSync:        parseTime(r.DataCollection.LastSync),
			},
		})
	}

	areas := make([]models.AreaData, 0, len(raw.Areas))
	for _, r := range raw.Areas {
		if r.AreaID == "" {
			slog.Warn("skipping area without id", "name", r.Name)
			continue
		}
		areas = append(areas, models.AreaData{
			AreaID:           r.AreaID,
			Name:             r.Name,
			CurrentOccupancy: toCount(r.CurrentOccupancy),
			MaxCapacity:      toCount(r.MaxCapacity),
			ReportingUnits:   orEmpty(r.ReportingUnits),
		})
	}

	return units, areas
}

// normalizeUsers hashes passwords with hash; ids default to a stable UUID
// derived from the email.
func normalizeUsers(raw []rawUser, hash func(string) (string, error)) ([]models.User, error) {
	out := make([]models.User, 0, len(raw))
	for _, r := range raw {
		email := strings.ToLower(strings.TrimSpace(r.Email))
		if email == "" || r.Password == "" {
			slog.Warn("skipping user without email or password", "id", r.ID)
			continue
		}

		id := r.ID
		if id == "" {
			id = uuid.NewSHA1(uuid.NameSpaceURL, []byte("mailto:"+email)).String()
		}
		password, err := hash(r.Password)
		if err != nil {
			return nil, err
		}
		active := true
		if r.IsActive != nil {
			active = *r.IsActive
		}

		out = append(out, models.User{
			ID:       id,
			Email:    email,
			Password: password,
			Role:     models.ParseRole(r.Role),
			IsActive: active,
		})
	}
	return out, nil
}

func normalizeStatus(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// maxCount caps counts so sums over a snapshot cannot overflow.
const maxCount = math.MaxInt32

func toCount(v float64) int {
	if v <= 0 || math.IsNaN(v) {
		return 0
	}
	if v >= maxCount {
		return maxCount
	}
	return int(math.Round(v))
}

func clampPercent(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Min(math.Max(v, 0), 100)
}

// parseTime returns nil for empty or unparseable values.
func parseTime(s string) *time.Time {
	if s == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			return &t
		}
	}
	slog.Debug("ignoring unparseable timestamp", "value", s)
	return nil
}

func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func firstString(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func firstFloat(vals ...*float64) float64 {
	for _, v := range vals {
		if v != nil {
			return *v
		}
	}
	return 0
}
