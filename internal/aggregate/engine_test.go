package aggregate

import (
	"context"
	"errors"
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/zerotwo/meteo-collector/internal/reading"
)

type fakeStore struct {
	readings []reading.Reading

	hourlyUpserts []HourlyStats
	dailyUpserts  []DailyStats

	scanErr   error
	upsertErr error

	lastFrom time.Time
	lastTo   time.Time
}

func (f *fakeStore) ReadingsBetween(_ context.Context, stationID int64, from, to time.Time) ([]reading.Reading, error) {
	if f.scanErr != nil {
		return nil, f.scanErr
	}
	f.lastFrom, f.lastTo = from, to

	out := make([]reading.Reading, 0)
	for _, r := range f.readings {
		if r.StationID == stationID && !r.Timestamp.Before(from) && r.Timestamp.Before(to) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeStore) UpsertHourly(_ context.Context, h HourlyStats) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.hourlyUpserts = append(f.hourlyUpserts, h)
	return nil
}

func (f *fakeStore) UpsertDaily(_ context.Context, d DailyStats) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.dailyUpserts = append(f.dailyUpserts, d)
	return nil
}

func fptr(v float64) *float64 { return &v }

func newEngine(t *testing.T, store Store) *Engine {
	t.Helper()
	e, err := NewEngine(store)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	return e
}

func TestRecomputeHourlyStats(t *testing.T) {
	hour := time.Date(2024, time.June, 1, 10, 0, 0, 0, time.UTC)
	store := &fakeStore{readings: []reading.Reading{
		{
			StationID: 1, Timestamp: hour.Add(5 * time.Minute),
			Temperature: fptr(10), Rain: fptr(1),
			WindSpeed: fptr(2), WindDirection: fptr(350),
			GustSpeed: fptr(5), GustDirection: fptr(340),
		},
		{
			StationID: 1, Timestamp: hour.Add(20 * time.Minute),
			Temperature: fptr(20), Rain: fptr(2),
			WindSpeed: fptr(4), WindDirection: fptr(10),
			GustSpeed: fptr(7), GustDirection: fptr(20),
		},
		{
			StationID: 1, Timestamp: hour.Add(40 * time.Minute),
			Temperature: fptr(30), Rain: fptr(3),
		},
		// Next hour, must not contribute.
		{StationID: 1, Timestamp: hour.Add(65 * time.Minute), Temperature: fptr(100)},
		// Other station, must not contribute.
		{StationID: 2, Timestamp: hour.Add(5 * time.Minute), Temperature: fptr(-40)},
	}}
	e := newEngine(t, store)

	if err := e.RecomputeHourly(context.Background(), 1, hour.Add(17*time.Minute)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(store.hourlyUpserts) != 1 {
		t.Fatalf("expected 1 hourly upsert, got %d", len(store.hourlyUpserts))
	}

	h := store.hourlyUpserts[0]
	if !h.Hour.Equal(hour) {
		t.Errorf("expected bucket %s, got %s", hour, h.Hour)
	}
	if h.AvgTemperature == nil || *h.AvgTemperature != 20 {
		t.Errorf("expected avg temperature 20, got %v", h.AvgTemperature)
	}
	if h.SumRain == nil || *h.SumRain != 6 {
		t.Errorf("expected rain sum 6, got %v", h.SumRain)
	}
	if h.AvgWindSpeed == nil || *h.AvgWindSpeed != 3 {
		t.Errorf("expected avg wind speed 3, got %v", h.AvgWindSpeed)
	}
	if h.StdDevWindSpeed == nil || *h.StdDevWindSpeed != 1 {
		t.Errorf("expected wind speed stddev 1, got %v", h.StdDevWindSpeed)
	}
	if h.AvgWindDirection == nil {
		t.Fatal("expected a circular mean wind direction")
	}
	if diff := math.Min(*h.AvgWindDirection, 360-*h.AvgWindDirection); diff > 1e-9 {
		t.Errorf("expected wind direction 0 for {350, 10}, got %f", *h.AvgWindDirection)
	}
	if h.MaxGustSpeed == nil || *h.MaxGustSpeed != 7 {
		t.Errorf("expected max gust 7, got %v", h.MaxGustSpeed)
	}
	if h.MaxGustDirection == nil || *h.MaxGustDirection != 20 {
		t.Errorf("expected gust direction 20, got %v", h.MaxGustDirection)
	}
}

func TestRecomputeHourlyNullNotZero(t *testing.T) {
	hour := time.Date(2024, time.June, 1, 10, 0, 0, 0, time.UTC)
	store := &fakeStore{readings: []reading.Reading{
		{StationID: 1, Timestamp: hour.Add(time.Minute), Temperature: fptr(15)},
	}}
	e := newEngine(t, store)

	if err := e.RecomputeHourly(context.Background(), 1, hour); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	h := store.hourlyUpserts[0]
	if h.SumRain != nil {
		t.Errorf("rain with no samples must be null, got %v", *h.SumRain)
	}
	if h.AvgHumidity != nil || h.AvgPressure != nil || h.AvgLux != nil || h.AvgUVI != nil {
		t.Error("channels with no samples must be null")
	}
	if h.AvgWindSpeed != nil || h.StdDevWindSpeed != nil || h.AvgWindDirection != nil {
		t.Error("wind aggregates with no samples must be null")
	}
	if h.MaxGustSpeed != nil || h.MaxGustDirection != nil {
		t.Error("gust aggregates with no samples must be null")
	}
}

func TestRecomputeHourlyEmptyWindowSkipsUpsert(t *testing.T) {
	store := &fakeStore{}
	e := newEngine(t, store)

	if err := e.RecomputeHourly(context.Background(), 1, time.Now()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(store.hourlyUpserts) != 0 {
		t.Errorf("expected no upsert for empty window, got %d", len(store.hourlyUpserts))
	}
}

func TestRecomputeHourlyIdempotent(t *testing.T) {
	hour := time.Date(2024, time.June, 1, 10, 0, 0, 0, time.UTC)
	store := &fakeStore{readings: []reading.Reading{
		{
			StationID: 1, Timestamp: hour.Add(5 * time.Minute),
			Temperature: fptr(10.5), WindSpeed: fptr(3.3), WindDirection: fptr(123),
			GustSpeed: fptr(9.9), GustDirection: fptr(100), Rain: fptr(0.2),
		},
		{
			StationID: 1, Timestamp: hour.Add(25 * time.Minute),
			Temperature: fptr(11.5), WindSpeed: fptr(4.1), WindDirection: fptr(131),
		},
	}}
	e := newEngine(t, store)

	for i := 0; i < 2; i++ {
		if err := e.RecomputeHourly(context.Background(), 1, hour); err != nil {
			t.Fatalf("run %d: unexpected error: %v", i, err)
		}
	}

	if len(store.hourlyUpserts) != 2 {
		t.Fatalf("expected 2 upserts, got %d", len(store.hourlyUpserts))
	}
	if !reflect.DeepEqual(store.hourlyUpserts[0], store.hourlyUpserts[1]) {
		t.Errorf("recompute is not idempotent:\nfirst:  %+v\nsecond: %+v",
			store.hourlyUpserts[0], store.hourlyUpserts[1])
	}
}

func TestGustTieBreakEarliestWins(t *testing.T) {
	hour := time.Date(2024, time.June, 1, 10, 0, 0, 0, time.UTC)
	store := &fakeStore{readings: []reading.Reading{
		{StationID: 1, Timestamp: hour.Add(5 * time.Minute), GustSpeed: fptr(7), GustDirection: fptr(90)},
		{StationID: 1, Timestamp: hour.Add(10 * time.Minute), GustSpeed: fptr(7), GustDirection: fptr(180)},
	}}
	e := newEngine(t, store)

	if err := e.RecomputeHourly(context.Background(), 1, hour); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	h := store.hourlyUpserts[0]
	if h.MaxGustDirection == nil || *h.MaxGustDirection != 90 {
		t.Errorf("tie on gust speed must keep the earliest reading, got direction %v", h.MaxGustDirection)
	}
}

func TestDayWindowAcrossDST(t *testing.T) {
	e := newEngine(t, &fakeStore{})

	cases := []struct {
		name    string
		instant time.Time
		hours   float64
	}{
		{"regular day", time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC), 24},
		{"spring forward", time.Date(2024, time.March, 31, 12, 0, 0, 0, time.UTC), 23},
		{"fall back", time.Date(2024, time.October, 27, 12, 0, 0, 0, time.UTC), 25},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			from, to, _ := e.DayWindow(tc.instant)
			if got := to.Sub(from).Hours(); got != tc.hours {
				t.Errorf("expected a %v hour day, got %v (from=%s to=%s)", tc.hours, got, from, to)
			}
			if !tc.instant.Before(to) || tc.instant.Before(from) {
				t.Errorf("instant %s outside its own window [%s, %s)", tc.instant, from, to)
			}
		})
	}
}

func TestDayWindowLateEveningRollsForward(t *testing.T) {
	e := newEngine(t, &fakeStore{})

	// 23:30 UTC in July is 01:30 next day in Madrid (UTC+2).
	instant := time.Date(2024, time.July, 15, 23, 30, 0, 0, time.UTC)
	from, to, date := e.DayWindow(instant)

	wantDate := time.Date(2024, time.July, 16, 0, 0, 0, 0, time.UTC)
	if !date.Equal(wantDate) {
		t.Errorf("expected bucket date %s, got %s", wantDate, date)
	}
	wantFrom := time.Date(2024, time.July, 15, 22, 0, 0, 0, time.UTC)
	wantTo := time.Date(2024, time.July, 16, 22, 0, 0, 0, time.UTC)
	if !from.Equal(wantFrom) || !to.Equal(wantTo) {
		t.Errorf("expected window [%s, %s), got [%s, %s)", wantFrom, wantTo, from, to)
	}
}

func TestRecomputeDailyStats(t *testing.T) {
	// Madrid day 2024-07-16 covers [2024-07-15T22:00Z, 2024-07-16T22:00Z).
	base := time.Date(2024, time.July, 15, 22, 0, 0, 0, time.UTC)
	store := &fakeStore{readings: []reading.Reading{
		{
			StationID: 1, Timestamp: base.Add(30 * time.Minute),
			Temperature: fptr(18), Humidity: fptr(80), Pressure: fptr(1015),
			Lux: fptr(0), UVI: fptr(0), Rain: fptr(1.5),
			WindSpeed: fptr(3), WindDirection: fptr(200),
			GustSpeed: fptr(11), GustDirection: fptr(210),
		},
		{
			StationID: 1, Timestamp: base.Add(14 * time.Hour),
			Temperature: fptr(31), Humidity: fptr(40), Pressure: fptr(1010),
			Lux: fptr(90000), UVI: fptr(8), Rain: fptr(0.5),
			WindSpeed: fptr(5), WindDirection: fptr(220),
			GustSpeed: fptr(9), GustDirection: fptr(230),
		},
		// Previous Madrid day, must not contribute.
		{StationID: 1, Timestamp: base.Add(-time.Minute), Temperature: fptr(-5)},
	}}
	e := newEngine(t, store)

	if err := e.RecomputeDaily(context.Background(), 1, base.Add(2*time.Hour)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(store.dailyUpserts) != 1 {
		t.Fatalf("expected 1 daily upsert, got %d", len(store.dailyUpserts))
	}

	d := store.dailyUpserts[0]
	wantDate := time.Date(2024, time.July, 16, 0, 0, 0, 0, time.UTC)
	if !d.Date.Equal(wantDate) {
		t.Errorf("expected date %s, got %s", wantDate, d.Date)
	}
	if d.MaxTemperature == nil || *d.MaxTemperature != 31 {
		t.Errorf("expected max temperature 31, got %v", d.MaxTemperature)
	}
	if d.MinTemperature == nil || *d.MinTemperature != 18 {
		t.Errorf("expected min temperature 18, got %v", d.MinTemperature)
	}
	if d.MaxHumidity == nil || *d.MaxHumidity != 80 {
		t.Errorf("expected max humidity 80, got %v", d.MaxHumidity)
	}
	if d.MinHumidity == nil || *d.MinHumidity != 40 {
		t.Errorf("expected min humidity 40, got %v", d.MinHumidity)
	}
	if d.MaxUVI == nil || *d.MaxUVI != 8 {
		t.Errorf("expected max uvi 8, got %v", d.MaxUVI)
	}
	if d.MaxLux == nil || *d.MaxLux != 90000 {
		t.Errorf("expected max lux 90000, got %v", d.MaxLux)
	}
	if d.MinLux == nil || *d.MinLux != 0 {
		t.Errorf("expected min lux 0, got %v", d.MinLux)
	}
	if d.SumRain == nil || *d.SumRain != 2 {
		t.Errorf("expected rain sum 2, got %v", d.SumRain)
	}
	if d.AvgWindSpeed == nil || *d.AvgWindSpeed != 4 {
		t.Errorf("expected avg wind speed 4, got %v", d.AvgWindSpeed)
	}
	if d.MaxGustSpeed == nil || *d.MaxGustSpeed != 11 {
		t.Errorf("expected max gust 11, got %v", d.MaxGustSpeed)
	}
	if d.MaxGustDirection == nil || *d.MaxGustDirection != 210 {
		t.Errorf("expected gust direction 210, got %v", d.MaxGustDirection)
	}
}

func TestRecomputeWrapsStorageFaults(t *testing.T) {
	boom := errors.New("connection lost")

	store := &fakeStore{scanErr: boom}
	e := newEngine(t, store)
	if err := e.RecomputeHourly(context.Background(), 1, time.Now()); !errors.Is(err, ErrAggregation) {
		t.Errorf("expected ErrAggregation on scan fault, got %v", err)
	}

	hour := time.Date(2024, time.June, 1, 10, 0, 0, 0, time.UTC)
	store = &fakeStore{
		readings:  []reading.Reading{{StationID: 1, Timestamp: hour, Temperature: fptr(1)}},
		upsertErr: boom,
	}
	e = newEngine(t, store)
	if err := e.RecomputeHourly(context.Background(), 1, hour); !errors.Is(err, ErrAggregation) {
		t.Errorf("expected ErrAggregation on upsert fault, got %v", err)
	}
	if err := e.RecomputeDaily(context.Background(), 1, hour); !errors.Is(err, ErrAggregation) {
		t.Errorf("expected ErrAggregation on daily upsert fault, got %v", err)
	}
}
