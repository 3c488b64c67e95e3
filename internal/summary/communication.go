package summary

import "github.com/mr1hm/tamis/internal/models"

type CommunicationSummary struct {
	TotalModems           int     `json:"totalModems"`
	ActiveModems          int     `json:"activeModems"`
	InactiveModems        int     `json:"inactiveModems"`
	MaintenanceModems     int     `json:"maintenanceModems"`
	NetworkCoverage       float64 `json:"networkCoverage"`
	AverageSignalStrength float64 `json:"averageSignalStrength"`
	DataTransmissionRate  float64 `json:"dataTransmissionRate"`
	CriticalAlerts        int     `json:"criticalAlerts"`
	ConnectedDevices      int     `json:"connectedDevices"`
	TotalLinks            int     `json:"totalLinks"`
}

func Communication(stations []models.ModemStation, links []models.NetworkLink) CommunicationSummary {
	s := CommunicationSummary{
		TotalModems: len(stations),
		TotalLinks:  len(links),
	}

	var signal, rate float64
	for i := range stations {
		st := &stations[i]
		switch st.Status {
		case models.StationActive:
			s.ActiveModems++
		case models.StationInactive:
			s.InactiveModems++
		case models.StationMaintenance:
			s.MaintenanceModems++
		}
		signal += st.SignalStrength
		rate += st.DataRate
		s.ConnectedDevices += st.ConnectedDevices
		for _, a := range st.Alerts {
			if a.Level == models.StationAlertCritical {
				s.CriticalAlerts++
			}
		}
	}

	s.NetworkCoverage = Round1(Percentage(float64(s.ActiveModems), float64(len(stations))))
	s.AverageSignalStrength = Round1(Average(signal, len(stations)))
	s.DataTransmissionRate = Round1(Average(rate, len(stations)))
	return s
}
