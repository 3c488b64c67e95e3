package summary

import "github.com/mr1hm/tamis/internal/models"

type FieldUnitSummary struct {
	TotalUnits            int     `json:"totalUnits"`
	ActiveUnits           int     `json:"activeUnits"`
	ReportingUnits        int     `json:"reportingUnits"`
	InactiveUnits         int     `json:"inactiveUnits"`
	EmergencyUnits        int     `json:"emergencyUnits"`
	TotalPersonnel        int     `json:"totalPersonnel"`
	TotalEquipment        int     `json:"totalEquipment"`
	AverageBatteryLevel   float64 `json:"averageBatteryLevel"`
	AverageSignalStrength float64 `json:"averageSignalStrength"`
	TotalDataPoints       int     `json:"totalDataPoints"`
	CoverageAreas         int     `json:"coverageAreas"`
}

func FieldUnits(units []models.FieldUnit, areas []models.AreaData) FieldUnitSummary {
	s := FieldUnitSummary{
		TotalUnits:    len(units),
		CoverageAreas: len(areas),
	}

	var battery, signal float64
	for i := range units {
		u := &units[i]
		switch u.Status {
		case models.UnitActive:
			s.ActiveUnits++
		case models.UnitReporting:
			s.ReportingUnits++
		case models.UnitInactive:
			s.InactiveUnits++
		case models.UnitEmergency:
			s.EmergencyUnits++
		}
		s.TotalPersonnel += len(u.Personnel)
		s.TotalEquipment += len(u.Equipment)
		s.TotalDataPoints += u.DataCollection.TotalDataPoints
		battery += u.BatteryLevel
		signal += u.SignalStrength
	}

	s.AverageBatteryLevel = Round2(Average(battery, len(units)))
	s.AverageSignalStrength = Round2(Average(signal, len(units)))
	return s
}
