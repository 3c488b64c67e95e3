package models

import "time"

const (
	SafeZoneStatusActive   = "active"
	SafeZoneStatusWarning  = "warning"
	SafeZoneStatusCritical = "critical"
)

// OccupancyThreshold is the occupancy ratio above which a zone counts as over-occupied.
const OccupancyThreshold = 0.85

type AccessRoute struct {
	Name          string  `json:"name"`
	EstimatedTime float64 `json:"estimatedTime"` // minutes
}

type SafeZone struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	Type             string          `json:"type"` // shelter, hospital, camp...
	Location         Location        `json:"location"`
	Capacity         int             `json:"capacity"`
	CurrentOccupancy int             `json:"currentOccupancy"`
	Status           string          `json:"status"` // free text, normalized to lower case
	Facilities       map[string]bool `json:"facilities"`
	AccessRoutes     []AccessRoute   `json:"accessRoutes"`
	LastUpdated      *time.Time      `json:"lastUpdated"`
}

// OccupancyRatio is currentOccupancy/capacity, or 0 for a zone without capacity.
func (z *SafeZone) OccupancyRatio() float64 {
	if z.Capacity <= 0 {
		return 0
	}
	return float64(z.CurrentOccupancy) / float64(z.Capacity)
}

// StatusCritical reports the stored status only.
func (z *SafeZone) StatusCritical() bool {
	return z.Status == SafeZoneStatusCritical
}

func (z *SafeZone) OverOccupied() bool {
	return z.OccupancyRatio() > OccupancyThreshold
}
