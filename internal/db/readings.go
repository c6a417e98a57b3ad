package db

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/zerotwo/meteo-collector/internal/reading"
)

// channelColumns is the weather_data channel column list, derived from the
// static channel schema so validation and storage stay in sync.
var channelColumns = func() []string {
	cols := make([]string, len(reading.AllChannels))
	for i, ch := range reading.AllChannels {
		cols[i] = string(ch)
	}
	return cols
}()

var upsertReadingSQL = func() string {
	cols := append([]string{"station_id", "date"}, channelColumns...)
	placeholders := make([]string, len(cols))
	for i := range cols {
		placeholders[i] = "$" + strconv.Itoa(i+1)
	}
	updates := make([]string, len(channelColumns))
	for i, col := range channelColumns {
		updates[i] = col + " = EXCLUDED." + col
	}
	return `INSERT INTO weather_data (` + strings.Join(cols, ", ") + `)
VALUES (` + strings.Join(placeholders, ", ") + `)
ON CONFLICT (station_id, date) DO UPDATE
SET ` + strings.Join(updates, ",\n    ")
}()

// UpsertReading stores a canonical reading keyed by (station, instant),
// overwriting every channel column when the key already exists. Storage
// faults are reported as ErrPersistence.
func (s *Store) UpsertReading(ctx context.Context, r *reading.Reading) error {
	args := make([]any, 0, 2+len(reading.AllChannels))
	args = append(args, r.StationID, r.Timestamp)
	for _, ch := range reading.AllChannels {
		args = append(args, r.Value(ch))
	}
	if _, err := s.pool.Exec(ctx, upsertReadingSQL, args...); err != nil {
		return fmt.Errorf("%w: station %d at %s: %v",
			ErrPersistence, r.StationID, r.Timestamp.Format(time.RFC3339), err)
	}
	return nil
}

var readingsBetweenSQL = `
    SELECT station_id, date, ` + strings.Join(channelColumns, ", ") + `
    FROM weather_data
    WHERE station_id = $1 AND date >= $2 AND date < $3
    ORDER BY date
`

// ReadingsBetween returns a station's readings in [from, to), oldest first.
func (s *Store) ReadingsBetween(ctx context.Context, stationID int64, from, to time.Time) ([]reading.Reading, error) {
	rows, err := s.pool.Query(ctx, readingsBetweenSQL, stationID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	readings := make([]reading.Reading, 0)
	for rows.Next() {
		var r reading.Reading
		if err := rows.Scan(
			&r.StationID,
			&r.Timestamp,
			&r.Temperature,
			&r.Pressure,
			&r.Humidity,
			&r.Lux,
			&r.UVI,
			&r.Rain,
			&r.WindSpeed,
			&r.WindDirection,
			&r.GustSpeed,
			&r.GustDirection,
		); err != nil {
			return nil, err
		}
		readings = append(readings, r)
	}
	return readings, rows.Err()
}

// ReadingsQuery holds filters for the read API.
type ReadingsQuery struct {
	StationID int64
	Since     *time.Time
	Until     *time.Time
	Limit     int
}

var readingsPageBase = `
    SELECT station_id, date, ` + strings.Join(channelColumns, ", ") + `
    FROM weather_data
    WHERE station_id = $1
`

// ReadingsPage returns readings for a station based on the query, newest first.
func (s *Store) ReadingsPage(ctx context.Context, q ReadingsQuery) ([]reading.Reading, error) {
	args := []any{q.StationID}
	clause := ""
	argPos := 2
	if q.Since != nil {
		clause += " AND date >= $" + strconv.Itoa(argPos)
		args = append(args, *q.Since)
		argPos++
	}
	if q.Until != nil {
		clause += " AND date <= $" + strconv.Itoa(argPos)
		args = append(args, *q.Until)
		argPos++
	}
	order := " ORDER BY date DESC"
	limit := ""
	if q.Limit > 0 {
		limit = " LIMIT $" + strconv.Itoa(argPos)
		args = append(args, q.Limit)
	}

	rows, err := s.pool.Query(ctx, readingsPageBase+clause+order+limit, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	readings := make([]reading.Reading, 0)
	for rows.Next() {
		var r reading.Reading
		if err := rows.Scan(
			&r.StationID,
			&r.Timestamp,
			&r.Temperature,
			&r.Pressure,
			&r.Humidity,
			&r.Lux,
			&r.UVI,
			&r.Rain,
			&r.WindSpeed,
			&r.WindDirection,
			&r.GustSpeed,
			&r.GustDirection,
		); err != nil {
			return nil, err
		}
		readings = append(readings, r)
	}
	return readings, rows.Err()
}
