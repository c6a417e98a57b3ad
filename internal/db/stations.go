package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/zerotwo/meteo-collector/internal/station"
)

const stationIDsSQL = `
    SELECT station_id
    FROM weather_stations
    ORDER BY station_id
`

// StationIDs returns every provisioned station id.
func (s *Store) StationIDs(ctx context.Context) ([]int64, error) {
	rows, err := s.pool.Query(ctx, stationIDsSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

const stationCapabilitiesSQL = `
    SELECT temperature, pressure, humidity, lux, uvi, rain_gauge, anemometer, wind_vane
    FROM weather_stations
    WHERE station_id = $1
`

// StationCapabilities loads the base capability flags for one station.
// Unprovisioned stations fail with station.ErrNotFound.
func (s *Store) StationCapabilities(ctx context.Context, stationID int64) (station.Capabilities, error) {
	var caps station.Capabilities
	err := s.pool.QueryRow(ctx, stationCapabilitiesSQL, stationID).Scan(
		&caps.Temperature,
		&caps.Pressure,
		&caps.Humidity,
		&caps.Lux,
		&caps.UVI,
		&caps.RainGauge,
		&caps.Anemometer,
		&caps.WindVane,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return station.Capabilities{}, fmt.Errorf("%w: id %d", station.ErrNotFound, stationID)
	}
	if err != nil {
		return station.Capabilities{}, err
	}
	return caps, nil
}

// StationProfile pairs a station id with its capability flags for listings.
type StationProfile struct {
	StationID    int64                `json:"station_id"`
	Capabilities station.Capabilities `json:"capabilities"`
}

const listStationsSQL = `
    SELECT station_id, temperature, pressure, humidity, lux, uvi, rain_gauge, anemometer, wind_vane
    FROM weather_stations
    ORDER BY station_id
`

// ListStations returns every station with its capability profile.
func (s *Store) ListStations(ctx context.Context) ([]StationProfile, error) {
	rows, err := s.pool.Query(ctx, listStationsSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stations := make([]StationProfile, 0)
	for rows.Next() {
		var p StationProfile
		if err := rows.Scan(
			&p.StationID,
			&p.Capabilities.Temperature,
			&p.Capabilities.Pressure,
			&p.Capabilities.Humidity,
			&p.Capabilities.Lux,
			&p.Capabilities.UVI,
			&p.Capabilities.RainGauge,
			&p.Capabilities.Anemometer,
			&p.Capabilities.WindVane,
		); err != nil {
			return nil, err
		}
		stations = append(stations, p)
	}
	return stations, rows.Err()
}
