package aggregate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/zerotwo/meteo-collector/internal/reading"
	"github.com/zerotwo/meteo-collector/internal/stats"
)

// ErrAggregation signals a storage fault during a rollup recomputation.
var ErrAggregation = errors.New("aggregation failure")

// HourlyStats is one hourly rollup row, keyed by (station, UTC hour). Nil
// fields mean no samples existed for that channel in the window, which is
// distinct from a measured zero.
type HourlyStats struct {
	StationID int64     `json:"station_id"`
	Hour      time.Time `json:"hour"`

	AvgTemperature   *float64 `json:"avg_temperature,omitempty"`
	AvgHumidity      *float64 `json:"avg_humidity,omitempty"`
	AvgPressure      *float64 `json:"avg_pressure,omitempty"`
	SumRain          *float64 `json:"sum_rain,omitempty"`
	AvgWindSpeed     *float64 `json:"avg_wind_speed,omitempty"`
	StdDevWindSpeed  *float64 `json:"standard_deviation_speed,omitempty"`
	AvgWindDirection *float64 `json:"avg_wind_direction,omitempty"`
	AvgLux           *float64 `json:"avg_lux,omitempty"`
	AvgUVI           *float64 `json:"avg_uvi,omitempty"`
	MaxGustSpeed     *float64 `json:"max_gust_speed,omitempty"`
	MaxGustDirection *float64 `json:"max_gust_direction,omitempty"`
}

// DailyStats is one daily rollup row, keyed by (station, reference-timezone
// calendar date). Nil fields mean no samples, as for HourlyStats.
type DailyStats struct {
	StationID int64     `json:"station_id"`
	Date      time.Time `json:"date"`

	MaxTemperature   *float64 `json:"max_temperature,omitempty"`
	MinTemperature   *float64 `json:"min_temperature,omitempty"`
	MaxHumidity      *float64 `json:"max_humidity,omitempty"`
	MinHumidity      *float64 `json:"min_humidity,omitempty"`
	MaxPressure      *float64 `json:"max_pressure,omitempty"`
	MinPressure      *float64 `json:"min_pressure,omitempty"`
	MaxGustSpeed     *float64 `json:"max_gust_speed,omitempty"`
	MaxGustDirection *float64 `json:"max_gust_direction,omitempty"`
	StdDevWindSpeed  *float64 `json:"standard_deviation_speed,omitempty"`
	AvgWindSpeed     *float64 `json:"avg_wind_speed,omitempty"`
	AvgWindDirection *float64 `json:"avg_wind_direction,omitempty"`
	MaxUVI           *float64 `json:"max_uvi,omitempty"`
	MaxLux           *float64 `json:"max_lux,omitempty"`
	MinLux           *float64 `json:"min_lux,omitempty"`
	SumRain          *float64 `json:"sum_rain,omitempty"`
}

// Store is the persistence surface the engine recomputes from and writes to.
// ReadingsBetween must return readings in ascending timestamp order over the
// half-open range [from, to).
type Store interface {
	ReadingsBetween(ctx context.Context, stationID int64, from, to time.Time) ([]reading.Reading, error)
	UpsertHourly(ctx context.Context, h HourlyStats) error
	UpsertDaily(ctx context.Context, d DailyStats) error
}

// Engine recomputes hourly and daily rollups by full window scans over the
// raw readings. Every recomputation is idempotent: repeated invocations for
// an unchanged bucket produce identical rows.
type Engine struct {
	store Store
	loc   *time.Location
}

// NewEngine creates an Engine over the given store.
func NewEngine(store Store) (*Engine, error) {
	loc, err := time.LoadLocation(referenceTimezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %s: %w", referenceTimezone, err)
	}
	return &Engine{store: store, loc: loc}, nil
}

// RecomputeHourly rebuilds the hourly bucket containing instant from scratch.
// Windows with no readings are left untouched.
func (e *Engine) RecomputeHourly(ctx context.Context, stationID int64, instant time.Time) error {
	from, to := HourWindow(instant)
	readings, err := e.store.ReadingsBetween(ctx, stationID, from, to)
	if err != nil {
		return fmt.Errorf("%w: hourly scan station %d: %v", ErrAggregation, stationID, err)
	}
	if len(readings) == 0 {
		return nil
	}

	h := HourlyStats{StationID: stationID, Hour: from}
	if vals := collect(readings, reading.Temperature); len(vals) > 0 {
		h.AvgTemperature = ptr(stats.Mean(vals))
	}
	if vals := collect(readings, reading.Humidity); len(vals) > 0 {
		h.AvgHumidity = ptr(stats.Mean(vals))
	}
	if vals := collect(readings, reading.Pressure); len(vals) > 0 {
		h.AvgPressure = ptr(stats.Mean(vals))
	}
	if vals := collect(readings, reading.Rain); len(vals) > 0 {
		h.SumRain = ptr(stats.Sum(vals))
	}
	if vals := collect(readings, reading.WindSpeed); len(vals) > 0 {
		h.AvgWindSpeed = ptr(stats.Mean(vals))
		h.StdDevWindSpeed = ptr(stats.StdDevPop(vals))
	}
	if vals := collect(readings, reading.WindDirection); len(vals) > 0 {
		h.AvgWindDirection = ptr(stats.CircularMean(vals))
	}
	if vals := collect(readings, reading.Lux); len(vals) > 0 {
		h.AvgLux = ptr(stats.Mean(vals))
	}
	if vals := collect(readings, reading.UVI); len(vals) > 0 {
		h.AvgUVI = ptr(stats.Mean(vals))
	}
	h.MaxGustSpeed, h.MaxGustDirection = maxGust(readings)

	if err := e.store.UpsertHourly(ctx, h); err != nil {
		return fmt.Errorf("%w: hourly upsert station %d: %v", ErrAggregation, stationID, err)
	}
	return nil
}

// RecomputeDaily rebuilds the reference-timezone daily bucket containing
// instant from scratch. Windows with no readings are left untouched.
func (e *Engine) RecomputeDaily(ctx context.Context, stationID int64, instant time.Time) error {
	from, to, date := e.DayWindow(instant)
	readings, err := e.store.ReadingsBetween(ctx, stationID, from, to)
	if err != nil {
		return fmt.Errorf("%w: daily scan station %d: %v", ErrAggregation, stationID, err)
	}
	if len(readings) == 0 {
		return nil
	}

	d := DailyStats{StationID: stationID, Date: date}
	if vals := collect(readings, reading.Temperature); len(vals) > 0 {
		d.MaxTemperature = ptr(stats.Max(vals))
		d.MinTemperature = ptr(stats.Min(vals))
	}
	if vals := collect(readings, reading.Humidity); len(vals) > 0 {
		d.MaxHumidity = ptr(stats.Max(vals))
		d.MinHumidity = ptr(stats.Min(vals))
	}
	if vals := collect(readings, reading.Pressure); len(vals) > 0 {
		d.MaxPressure = ptr(stats.Max(vals))
		d.MinPressure = ptr(stats.Min(vals))
	}
	if vals := collect(readings, reading.WindSpeed); len(vals) > 0 {
		d.AvgWindSpeed = ptr(stats.Mean(vals))
		d.StdDevWindSpeed = ptr(stats.StdDevPop(vals))
	}
	if vals := collect(readings, reading.WindDirection); len(vals) > 0 {
		d.AvgWindDirection = ptr(stats.CircularMean(vals))
	}
	if vals := collect(readings, reading.UVI); len(vals) > 0 {
		d.MaxUVI = ptr(stats.Max(vals))
	}
	if vals := collect(readings, reading.Lux); len(vals) > 0 {
		d.MaxLux = ptr(stats.Max(vals))
		d.MinLux = ptr(stats.Min(vals))
	}
	if vals := collect(readings, reading.Rain); len(vals) > 0 {
		d.SumRain = ptr(stats.Sum(vals))
	}
	d.MaxGustSpeed, d.MaxGustDirection = maxGust(readings)

	if err := e.store.UpsertDaily(ctx, d); err != nil {
		return fmt.Errorf("%w: daily upsert station %d: %v", ErrAggregation, stationID, err)
	}
	return nil
}

// collect extracts the non-nil samples for one channel.
func collect(readings []reading.Reading, ch reading.Channel) []float64 {
	vals := make([]float64, 0, len(readings))
	for i := range readings {
		if v := readings[i].Value(ch); v != nil {
			vals = append(vals, *v)
		}
	}
	return vals
}

// maxGust picks the highest-gust-speed reading in the window and returns its
// speed and direction. Ties on speed go to the earliest reading; readings
// arrive in ascending timestamp order.
func maxGust(readings []reading.Reading) (speed, direction *float64) {
	for i := range readings {
		g := readings[i].GustSpeed
		if g == nil {
			continue
		}
		if speed == nil || *g > *speed {
			speed = g
			direction = readings[i].GustDirection
		}
	}
	return speed, direction
}

func ptr(v float64) *float64 {
	return &v
}
