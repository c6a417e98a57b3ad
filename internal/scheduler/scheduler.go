// Package scheduler runs the periodic rollup catch-up sweep. A crash between
// a reading's upsert and its recomputations leaves aggregates stale; the
// sweep repairs them, safely, because every recompute is idempotent.
package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/zerotwo/meteo-collector/internal/dispatcher"
)

// Sweeper periodically recomputes the current rollup buckets per station.
type Sweeper struct {
	scheduler *gocron.Scheduler
	engine    dispatcher.Aggregator
	stations  []int64
	interval  time.Duration
}

// New creates a Sweeper over the given aggregation engine.
func New(engine dispatcher.Aggregator, stations []int64, interval time.Duration) *Sweeper {
	return &Sweeper{
		scheduler: gocron.NewScheduler(time.UTC),
		engine:    engine,
		stations:  stations,
		interval:  interval,
	}
}

// Start schedules the sweep job. An interval of zero disables the sweep.
func (s *Sweeper) Start() error {
	if s.interval <= 0 || len(s.stations) == 0 {
		log.Println("sweep: disabled")
		return nil
	}

	_, err := s.scheduler.Every(s.interval).Do(s.sweep)
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Sweeper) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}

// sweep recomputes the buckets for the current instant and the previous
// hour, catching readings stored just before a bucket boundary.
func (s *Sweeper) sweep() {
	now := time.Now().UTC()
	for _, id := range s.stations {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		for _, instant := range []time.Time{now, now.Add(-time.Hour)} {
			if err := s.engine.RecomputeHourly(ctx, id, instant); err != nil {
				log.Printf("sweep: hourly recompute failed for station %d: %v", id, err)
			}
		}
		if err := s.engine.RecomputeDaily(ctx, id, now); err != nil {
			log.Printf("sweep: daily recompute failed for station %d: %v", id, err)
		}
		cancel()
	}
}
