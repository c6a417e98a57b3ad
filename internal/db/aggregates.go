package db

import (
	"context"
	"time"

	"github.com/zerotwo/meteo-collector/internal/aggregate"
)

const upsertHourlySQL = `INSERT INTO weather_hourly (
    station_id, date, avg_temperature, avg_humidity, avg_pressure, sum_rain,
    avg_wind_speed, standard_deviation_speed, avg_wind_direction, avg_lux,
    avg_uvi, max_gust_speed, max_gust_direction
)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
ON CONFLICT (station_id, date) DO UPDATE
SET avg_temperature = EXCLUDED.avg_temperature,
    avg_humidity = EXCLUDED.avg_humidity,
    avg_pressure = EXCLUDED.avg_pressure,
    sum_rain = EXCLUDED.sum_rain,
    avg_wind_speed = EXCLUDED.avg_wind_speed,
    standard_deviation_speed = EXCLUDED.standard_deviation_speed,
    avg_wind_direction = EXCLUDED.avg_wind_direction,
    avg_lux = EXCLUDED.avg_lux,
    avg_uvi = EXCLUDED.avg_uvi,
    max_gust_speed = EXCLUDED.max_gust_speed,
    max_gust_direction = EXCLUDED.max_gust_direction`

// UpsertHourly writes an hourly rollup row keyed by (station, hour).
func (s *Store) UpsertHourly(ctx context.Context, h aggregate.HourlyStats) error {
	_, err := s.pool.Exec(ctx, upsertHourlySQL,
		h.StationID, h.Hour, h.AvgTemperature, h.AvgHumidity, h.AvgPressure,
		h.SumRain, h.AvgWindSpeed, h.StdDevWindSpeed, h.AvgWindDirection,
		h.AvgLux, h.AvgUVI, h.MaxGustSpeed, h.MaxGustDirection)
	return err
}

const upsertDailySQL = `INSERT INTO weather_daily (
    station_id, date, max_temperature, min_temperature, max_humidity,
    min_humidity, max_pressure, min_pressure, max_gust_speed,
    max_gust_direction, standard_deviation_speed, avg_wind_speed,
    avg_wind_direction, max_uvi, max_lux, min_lux, sum_rain
)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)
ON CONFLICT (station_id, date) DO UPDATE
SET max_temperature = EXCLUDED.max_temperature,
    min_temperature = EXCLUDED.min_temperature,
    max_humidity = EXCLUDED.max_humidity,
    min_humidity = EXCLUDED.min_humidity,
    max_pressure = EXCLUDED.max_pressure,
    min_pressure = EXCLUDED.min_pressure,
    max_gust_speed = EXCLUDED.max_gust_speed,
    max_gust_direction = EXCLUDED.max_gust_direction,
    standard_deviation_speed = EXCLUDED.standard_deviation_speed,
    avg_wind_speed = EXCLUDED.avg_wind_speed,
    avg_wind_direction = EXCLUDED.avg_wind_direction,
    max_uvi = EXCLUDED.max_uvi,
    max_lux = EXCLUDED.max_lux,
    min_lux = EXCLUDED.min_lux,
    sum_rain = EXCLUDED.sum_rain`

// UpsertDaily writes a daily rollup row keyed by (station, calendar date).
func (s *Store) UpsertDaily(ctx context.Context, d aggregate.DailyStats) error {
	_, err := s.pool.Exec(ctx, upsertDailySQL,
		d.StationID, d.Date, d.MaxTemperature, d.MinTemperature, d.MaxHumidity,
		d.MinHumidity, d.MaxPressure, d.MinPressure, d.MaxGustSpeed,
		d.MaxGustDirection, d.StdDevWindSpeed, d.AvgWindSpeed,
		d.AvgWindDirection, d.MaxUVI, d.MaxLux, d.MinLux, d.SumRain)
	return err
}

const hourlyBetweenSQL = `
    SELECT station_id, date, avg_temperature, avg_humidity, avg_pressure, sum_rain,
           avg_wind_speed, standard_deviation_speed, avg_wind_direction, avg_lux,
           avg_uvi, max_gust_speed, max_gust_direction
    FROM weather_hourly
    WHERE station_id = $1 AND date >= $2 AND date < $3
    ORDER BY date
`

// HourlyBetween returns hourly rollups for a station in [from, to).
func (s *Store) HourlyBetween(ctx context.Context, stationID int64, from, to time.Time) ([]aggregate.HourlyStats, error) {
	rows, err := s.pool.Query(ctx, hourlyBetweenSQL, stationID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	hours := make([]aggregate.HourlyStats, 0)
	for rows.Next() {
		var h aggregate.HourlyStats
		if err := rows.Scan(
			&h.StationID, &h.Hour, &h.AvgTemperature, &h.AvgHumidity,
			&h.AvgPressure, &h.SumRain, &h.AvgWindSpeed, &h.StdDevWindSpeed,
			&h.AvgWindDirection, &h.AvgLux, &h.AvgUVI, &h.MaxGustSpeed,
			&h.MaxGustDirection,
		); err != nil {
			return nil, err
		}
		hours = append(hours, h)
	}
	return hours, rows.Err()
}

const dailyBetweenSQL = `
    SELECT station_id, date, max_temperature, min_temperature, max_humidity,
           min_humidity, max_pressure, min_pressure, max_gust_speed,
           max_gust_direction, standard_deviation_speed, avg_wind_speed,
           avg_wind_direction, max_uvi, max_lux, min_lux, sum_rain
    FROM weather_daily
    WHERE station_id = $1 AND date >= $2 AND date <= $3
    ORDER BY date
`

// DailyBetween returns daily rollups for a station between two dates inclusive.
func (s *Store) DailyBetween(ctx context.Context, stationID int64, from, to time.Time) ([]aggregate.DailyStats, error) {
	rows, err := s.pool.Query(ctx, dailyBetweenSQL, stationID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	days := make([]aggregate.DailyStats, 0)
	for rows.Next() {
		var d aggregate.DailyStats
		if err := rows.Scan(
			&d.StationID, &d.Date, &d.MaxTemperature, &d.MinTemperature,
			&d.MaxHumidity, &d.MinHumidity, &d.MaxPressure, &d.MinPressure,
			&d.MaxGustSpeed, &d.MaxGustDirection, &d.StdDevWindSpeed,
			&d.AvgWindSpeed, &d.AvgWindDirection, &d.MaxUVI, &d.MaxLux,
			&d.MinLux, &d.SumRain,
		); err != nil {
			return nil, err
		}
		days = append(days, d)
	}
	return days, rows.Err()
}
