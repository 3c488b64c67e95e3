// Package report renders the dashboard as a spreadsheet.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/mr1hm/tamis/internal/models"
	"github.com/mr1hm/tamis/internal/summary"
)

const (
	SummarySheet = "Summary"
	AlertsSheet  = "Alerts"
)

var (
	SummaryHeader = []string{"Domain", "Metric", "Value"}
	AlertsHeader  = []string{"Type", "Level", "Source ID", "Source Name", "Message", "Timestamp", "Detail"}
)

type metric struct {
	domain string
	name   string
	value  any
}

func metrics(d *summary.Dashboard) []metric {
	p, s, c, f, a := d.Population, d.SafeZones, d.Communication, d.FieldUnits, d.AidRoutes
	return []metric{
		{"Population", "Total zones", p.TotalZones},
		{"Population", "Total population", p.TotalPopulation},
		{"Population", "Average density", p.AverageDensity},
		{"Population", "Risk score", p.RiskScore},
		{"Population", "Affected area", p.AffectedArea},
		{"Population", "Critical zones", p.CriticalZones},

		{"Safe zones", "Total zones", s.TotalZones},
		{"Safe zones", "Total capacity", s.TotalCapacity},
		{"Safe zones", "Current occupancy", s.CurrentOccupancy},
		{"Safe zones", "Occupancy rate (%)", s.OccupancyRate},
		{"Safe zones", "Available space", s.AvailableSpace},
		{"Safe zones", "Average access time", s.AverageAccessTime},
		{"Safe zones", "Critical zones", s.CriticalZones},

		{"Communication", "Total modems", c.TotalModems},
		{"Communication", "Active modems", c.ActiveModems},
		{"Communication", "Inactive modems", c.InactiveModems},
		{"Communication", "Maintenance modems", c.MaintenanceModems},
		{"Communication", "Network coverage (%)", c.NetworkCoverage},
		{"Communication", "Average signal strength", c.AverageSignalStrength},
		{"Communication", "Data transmission rate", c.DataTransmissionRate},
		{"Communication", "Critical alerts", c.CriticalAlerts},
		{"Communication", "Total links", c.TotalLinks},
		{"Communication", "Connected devices", c.ConnectedDevices},

		{"Field units", "Total units", f.TotalUnits},
		{"Field units", "Active units", f.ActiveUnits},
		{"Field units", "Reporting units", f.ReportingUnits},
		{"Field units", "Inactive units", f.InactiveUnits},
		{"Field units", "Emergency units", f.EmergencyUnits},
		{"Field units", "Total personnel", f.TotalPersonnel},
		{"Field units", "Total equipment", f.TotalEquipment},
		{"Field units", "Average battery level", f.AverageBatteryLevel},
		{"Field units", "Average signal strength", f.AverageSignalStrength},
		{"Field units", "Total data points", f.TotalDataPoints},
		{"Field units", "Coverage areas", f.CoverageAreas},

		{"Aid routes", "Total routes", a.TotalRoutes},
		{"Aid routes", "Active routes", a.ActiveRoutes},
		{"Aid routes", "Blocked routes", a.BlockedRoutes},
		{"Aid routes", "Restricted routes", a.RestrictedRoutes},
		{"Aid routes", "Average time", a.AverageTime},
		{"Aid routes", "Total distance", a.AverageDistance},
	}
}

// Generate builds the workbook and returns its bytes.
func Generate(d *summary.Dashboard, generatedAt time.Time) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}
	if _, err := f.NewSheet(AlertsSheet); err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6F3FF"},
			Pattern: 1,
		},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	if err := writeHeader(f, SummarySheet, SummaryHeader, headerStyle, []float64{18, 28, 14}); err != nil {
		return nil, err
	}
	for i, m := range metrics(d) {
		row := []any{m.domain, m.name, m.value}
		if err := setRow(f, SummarySheet, i+2, row); err != nil {
			return nil, err
		}
	}

	// generation stamp below the metric table
	stampRow := len(metrics(d)) + 3
	if err := setRow(f, SummarySheet, stampRow, []any{"Generated at", generatedAt.UTC().Format(time.RFC3339)}); err != nil {
		return nil, err
	}

	if err := writeHeader(f, AlertsSheet, AlertsHeader, headerStyle, []float64{15, 10, 15, 22, 50, 22, 20}); err != nil {
		return nil, err
	}
	for i, a := range d.Alerts {
		if err := setRow(f, AlertsSheet, i+2, alertRow(a)); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeHeader(f *excelize.File, sheet string, headers []string, style int, widths []float64) error {
	for col, header := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("failed to convert coordinates: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return fmt.Errorf("failed to set header cell %s: %w", cell, err)
		}
		if err := f.SetCellStyle(sheet, cell, cell, style); err != nil {
			return fmt.Errorf("failed to set header style: %w", err)
		}
		if col < len(widths) {
			name, err := excelize.ColumnNumberToName(col + 1)
			if err != nil {
				return fmt.Errorf("failed to convert column number: %w", err)
			}
			if err := f.SetColWidth(sheet, name, name, widths[col]); err != nil {
				return fmt.Errorf("failed to set column width: %w", err)
			}
		}
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("failed to convert coordinates: %w", err)
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write row %d of %s: %w", row, sheet, err)
	}
	return nil
}

func alertRow(a models.Alert) []any {
	ts := ""
	if a.Timestamp != nil {
		ts = a.Timestamp.UTC().Format(time.RFC3339)
	}

	var detail []string
	if len(a.RiskFactors) > 0 {
		detail = append(detail, strings.Join(a.RiskFactors, ", "))
	}
	if a.OccupancyRate != nil {
		detail = append(detail, fmt.Sprintf("occupancy %.1f%%", *a.OccupancyRate))
	}
	if a.BlockageReason != "" {
		detail = append(detail, a.BlockageReason)
	}
	if a.BatteryLevel != nil {
		detail = append(detail, fmt.Sprintf("battery %.0f%%", *a.BatteryLevel))
	}

	return []any{string(a.Type), string(a.Level), a.SourceID, a.SourceName, a.Message, ts, strings.Join(detail, "; ")}
}
