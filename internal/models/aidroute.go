package models

type RouteStatus string

const (
	RouteActive     RouteStatus = "active"
	RouteBlocked    RouteStatus = "blocked"
	RouteRestricted RouteStatus = "restricted"
)

func ParseRouteStatus(s string) RouteStatus {
	switch RouteStatus(s) {
	case RouteBlocked, RouteRestricted:
		return RouteStatus(s)
	default:
		return RouteActive
	}
}

type Supply struct {
	Type     string  `json:"type"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
}

type Vehicle struct {
	ID       string  `json:"id"`
	Type     string  `json:"type"`
	Capacity float64 `json:"capacity"`
	Status   string  `json:"status"`
}

type Checkpoint struct {
	Name     string   `json:"name"`
	Location Location `json:"location"`
	Status   string   `json:"status"`
}

type AidRoute struct {
	ID             string       `json:"id"`
	Name           string       `json:"name"`
	Status         RouteStatus  `json:"status"`
	Distance       float64      `json:"distance"`      // km
	EstimatedTime  float64      `json:"estimatedTime"` // hours
	Path           []Location   `json:"path"`
	Supplies       []Supply     `json:"supplies"`
	Vehicles       []Vehicle    `json:"vehicles"`
	Checkpoints    []Checkpoint `json:"checkpoints"`
	BlockageReason string       `json:"blockageReason,omitempty"` // set only when blocked
}
