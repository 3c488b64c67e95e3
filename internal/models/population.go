package models

type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

func ParseRiskLevel(s string) RiskLevel {
	switch RiskLevel(s) {
	case RiskMedium, RiskHigh:
		return RiskLevel(s)
	default:
		return RiskLow
	}
}

type Demographics struct {
	Children int `json:"children"`
	Adults   int `json:"adults"`
	Elderly  int `json:"elderly"`
	Disabled int `json:"disabled"`
}

// Vulnerable is the head count that needs assisted evacuation.
func (d Demographics) Vulnerable() int {
	return d.Children + d.Elderly + d.Disabled
}

type PopulationZone struct {
	ZoneID       string       `json:"zoneId"`
	Name         string       `json:"name"`
	Location     Location     `json:"location"`
	Population   int          `json:"population"`
	Area         float64      `json:"area"`    // km²
	Density      float64      `json:"density"` // people per km², stored as seeded
	RiskLevel    RiskLevel    `json:"riskLevel"`
	Demographics Demographics `json:"demographics"`
}
