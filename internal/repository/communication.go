package repository

import (
	"context"
	"fmt"

	"github.com/mr1hm/tamis/internal/models"
)

const upsertModemStation = `
	INSERT INTO modem_stations (id, name, type, lat, lng, status, signal_strength, data_rate, connected_devices, network_load, alerts)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT (id) DO UPDATE SET
		name = excluded.name,
		type = excluded.type,
		lat = excluded.lat,
		lng = excluded.lng,
		status = excluded.status,
		signal_strength = excluded.signal_strength,
		data_rate = excluded.data_rate,
		connected_devices = excluded.connected_devices,
		network_load = excluded.network_load,
		alerts = excluded.alerts`

const upsertNetworkLink = `
	INSERT INTO network_links (from_id, to_id, link_type, bandwidth, latency, status)
	VALUES (?, ?, ?, ?, ?, ?)
	ON CONFLICT (from_id, to_id) DO UPDATE SET
		link_type = excluded.link_type,
		bandwidth = excluded.bandwidth,
		latency = excluded.latency,
		status = excluded.status`

func (s *DB) UpsertModemStations(ctx context.Context, stations []models.ModemStation) error {
	rows := make([][]any, 0, len(stations))
	for _, st := range stations {
		alerts, err := encodeJSON(st.Alerts)
		if err != nil {
			return fmt.Errorf("error encoding alerts for %s: %w", st.ID, err)
		}
		rows = append(rows, []any{
			st.ID, st.Name, st.Type, st.Location.Lat, st.Location.Lng, string(st.Status),
			st.SignalStrength, st.DataRate, st.ConnectedDevices, st.NetworkLoad, alerts,
		})
	}
	return s.upsertAll(ctx, upsertModemStation, rows)
}

func (s *DB) UpsertNetworkLinks(ctx context.Context, links []models.NetworkLink) error {
	rows := make([][]any, 0, len(links))
	for _, l := range links {
		rows = append(rows, []any{l.FromID, l.ToID, l.LinkType, l.Bandwidth, l.Latency, l.Status})
	}
	return s.upsertAll(ctx, upsertNetworkLink, rows)
}

func (s *DB) ListModemStations(ctx context.Context) ([]models.ModemStation, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, type, lat, lng, status, signal_strength, data_rate, connected_devices, network_load, alerts
		FROM modem_stations ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("error querying modem stations: %w", err)
	}
	defer rows.Close()

	stations := []models.ModemStation{}
	for rows.Next() {
		var (
			st             models.ModemStation
			status, alerts string
		)
		if err := rows.Scan(&st.ID, &st.Name, &st.Type, &st.Location.Lat, &st.Location.Lng, &status,
			&st.SignalStrength, &st.DataRate, &st.ConnectedDevices, &st.NetworkLoad, &alerts); err != nil {
			return nil, fmt.Errorf("error scanning modem station: %w", err)
		}
		st.Status = models.ParseStationStatus(status)
		if err := decodeJSON(alerts, &st.Alerts); err != nil {
			return nil, fmt.Errorf("error decoding alerts for %s: %w", st.ID, err)
		}
		if st.Alerts == nil {
			st.Alerts = []models.StationAlert{}
		}
		stations = append(stations, st)
	}
	return stations, rows.Err()
}

func (s *DB) ListNetworkLinks(ctx context.Context) ([]models.NetworkLink, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT from_id, to_id, link_type, bandwidth, latency, status
		FROM network_links ORDER BY from_id, to_id`)
	if err != nil {
		return nil, fmt.Errorf("error querying network links: %w", err)
	}
	defer rows.Close()

	links := []models.NetworkLink{}
	for rows.Next() {
		var l models.NetworkLink
		if err := rows.Scan(&l.FromID, &l.ToID, &l.LinkType, &l.Bandwidth, &l.Latency, &l.Status); err != nil {
			return nil, fmt.Errorf("error scanning network link: %w", err)
		}
		links = append(links, l)
	}
	return links, rows.Err()
}
