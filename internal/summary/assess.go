package summary

import "github.com/mr1hm/tamis/internal/models"

const (
	// HighDensityThreshold is people per km².
	HighDensityThreshold = 5000
	// VulnerableShareThreshold is the share of children, elderly and disabled residents.
	VulnerableShareThreshold = 0.5
)

const (
	FactorHighRisk        = "high risk level"
	FactorHighDensity     = "high population density"
	FactorVulnerableShare = "large vulnerable population"
)

type ZoneAssessment struct {
	ZoneID      string   `json:"zoneId"`
	Name        string   `json:"name"`
	Critical    bool     `json:"critical"`
	RiskFactors []string `json:"riskFactors"`
}

// AssessPopulation flags a zone critical when its risk level is high or when at
// least two risk factors hold. The result keeps input order.
func AssessPopulation(zones []models.PopulationZone) []ZoneAssessment {
	out := make([]ZoneAssessment, 0, len(zones))
	for i := range zones {
		out = append(out, assessZone(&zones[i]))
	}
	return out
}

func assessZone(z *models.PopulationZone) ZoneAssessment {
	factors := []string{}
	if z.RiskLevel == models.RiskHigh {
		factors = append(factors, FactorHighRisk)
	}
	if z.Density >= HighDensityThreshold {
		factors = append(factors, FactorHighDensity)
	}
	if Ratio(float64(z.Demographics.Vulnerable()), float64(z.Population)) >= VulnerableShareThreshold {
		factors = append(factors, FactorVulnerableShare)
	}

	return ZoneAssessment{
		ZoneID:      z.ZoneID,
		Name:        z.Name,
		Critical:    z.RiskLevel == models.RiskHigh || len(factors) >= 2,
		RiskFactors: factors,
	}
}
