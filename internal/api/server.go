// Package api exposes the read-only REST surface over stations, readings and
// rollups. All writes go through the collector pipeline; this server only
// queries.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/zerotwo/meteo-collector/internal/aggregate"
	"github.com/zerotwo/meteo-collector/internal/config"
	"github.com/zerotwo/meteo-collector/internal/db"
	"github.com/zerotwo/meteo-collector/internal/reading"
)

// Store is the query surface the API reads from.
type Store interface {
	ListStations(ctx context.Context) ([]db.StationProfile, error)
	ReadingsPage(ctx context.Context, q db.ReadingsQuery) ([]reading.Reading, error)
	HourlyBetween(ctx context.Context, stationID int64, from, to time.Time) ([]aggregate.HourlyStats, error)
	DailyBetween(ctx context.Context, stationID int64, from, to time.Time) ([]aggregate.DailyStats, error)
}

// Server bundles router and dependencies for the REST API.
type Server struct {
	cfg    config.Config
	store  Store
	engine *gin.Engine
}

// New constructs a server with routes and middleware.
func New(cfg config.Config, store Store) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(gin.Logger())
	engine.Use(corsMiddleware())

	server := &Server{cfg: cfg, store: store, engine: engine}
	server.registerRoutes()
	return server
}

// Engine exposes the underlying gin engine (for tests).
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Run starts the HTTP server and blocks until shutdown.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.cfg.ListenAddr(),
		Handler: s.engine,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) registerRoutes() {
	s.engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	s.engine.GET("/station", s.handleListStations)
	s.engine.GET("/station/:station_id/readings", s.handleReadings)
	s.engine.GET("/station/:station_id/hourly", s.handleHourly)
	s.engine.GET("/station/:station_id/daily", s.handleDaily)
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
