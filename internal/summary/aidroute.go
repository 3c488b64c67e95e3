package summary

import "github.com/mr1hm/tamis/internal/models"

type AidRouteSummary struct {
	TotalRoutes      int `json:"totalRoutes"`
	ActiveRoutes     int `json:"activeRoutes"`
	BlockedRoutes    int `json:"blockedRoutes"`
	RestrictedRoutes int `json:"restrictedRoutes"`
	AverageTime      int `json:"averageTime"`
	// AverageDistance is the total distance over all routes. The dashboard has
	// always rendered the sum under this name; keep it until the field is renamed.
	AverageDistance float64 `json:"averageDistance"`
}

func AidRoutes(routes []models.AidRoute) AidRouteSummary {
	s := AidRouteSummary{TotalRoutes: len(routes)}

	var hours, distance float64
	for i := range routes {
		r := &routes[i]
		switch r.Status {
		case models.RouteActive:
			s.ActiveRoutes++
		case models.RouteBlocked:
			s.BlockedRoutes++
		case models.RouteRestricted:
			s.RestrictedRoutes++
		}
		hours += r.EstimatedTime
		distance += r.Distance
	}

	s.AverageTime = RoundInt(Average(hours, len(routes)))
	s.AverageDistance = Round1(distance)
	return s
}
