package summary

import "github.com/mr1hm/tamis/internal/models"

type SafeZoneSummary struct {
	TotalZones        int     `json:"totalZones"`
	TotalCapacity     int     `json:"totalCapacity"`
	CurrentOccupancy  int     `json:"currentOccupancy"`
	OccupancyRate     float64 `json:"occupancyRate"`
	AvailableSpace    int     `json:"availableSpace"`
	AverageAccessTime int     `json:"averageAccessTime"`
	CriticalZones     int     `json:"criticalZones"`
}

// SafeZones counts a zone as critical when either its stored status says so or
// its own occupancy ratio is above models.OccupancyThreshold.
func SafeZones(zones []models.SafeZone) SafeZoneSummary {
	var (
		capacity, occupancy int
		accessTime          float64
		routes              int
		critical            int
	)
	for i := range zones {
		z := &zones[i]
		capacity += z.Capacity
		occupancy += z.CurrentOccupancy
		for _, r := range z.AccessRoutes {
			accessTime += r.EstimatedTime
			routes++
		}
		if z.StatusCritical() || z.OverOccupied() {
			critical++
		}
	}

	return SafeZoneSummary{
		TotalZones:        len(zones),
		TotalCapacity:     capacity,
		CurrentOccupancy:  occupancy,
		OccupancyRate:     Round1(Percentage(float64(occupancy), float64(capacity))),
		AvailableSpace:    capacity - occupancy,
		AverageAccessTime: RoundInt(Average(accessTime, routes)),
		CriticalZones:     critical,
	}
}
