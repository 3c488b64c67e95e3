package summary

import "github.com/mr1hm/tamis/internal/models"

type PopulationSummary struct {
	TotalZones      int     `json:"totalZones"`
	TotalPopulation int     `json:"totalPopulation"`
	AverageDensity  int     `json:"averageDensity"`
	RiskScore       float64 `json:"riskScore"` // share of high-risk zones on a 0-10 scale
	AffectedArea    float64 `json:"affectedArea"`
	CriticalZones   int     `json:"criticalZones"`
}

func Population(zones []models.PopulationZone) PopulationSummary {
	var (
		population int
		density    float64
		area       float64
		high       int
	)
	for i := range zones {
		z := &zones[i]
		population += z.Population
		density += z.Density
		area += z.Area
		if z.RiskLevel == models.RiskHigh {
			high++
		}
	}

	return PopulationSummary{
		TotalZones:      len(zones),
		TotalPopulation: population,
		AverageDensity:  RoundInt(Average(density, len(zones))),
		RiskScore:       Round1(Ratio(float64(high), float64(len(zones))) * 10),
		AffectedArea:    Round1(area),
		CriticalZones:   high,
	}
}
