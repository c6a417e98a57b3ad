package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/zerotwo/meteo-collector/internal/db"
)

func (s *Server) handleListStations(c *gin.Context) {
	stations, err := s.store.ListStations(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list stations"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"stations": stations})
}

func (s *Server) handleReadings(c *gin.Context) {
	stationID, ok := stationParam(c)
	if !ok {
		return
	}

	q := db.ReadingsQuery{StationID: stationID, Limit: s.cfg.APIDefaultLimit}

	if v := c.Query("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		q.Limit = limit
	}
	if v := c.Query("since"); v != "" {
		ts, err := time.Parse(time.RFC3339, v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid since, want RFC3339"})
			return
		}
		q.Since = &ts
	}
	if v := c.Query("until"); v != "" {
		ts, err := time.Parse(time.RFC3339, v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid until, want RFC3339"})
			return
		}
		q.Until = &ts
	}

	readings, err := s.store.ReadingsPage(c.Request.Context(), q)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch readings"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"station_id": stationID, "readings": readings})
}

func (s *Server) handleHourly(c *gin.Context) {
	stationID, ok := stationParam(c)
	if !ok {
		return
	}
	from, to, ok := rangeParams(c, 24*time.Hour)
	if !ok {
		return
	}

	hours, err := s.store.HourlyBetween(c.Request.Context(), stationID, from, to)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch hourly stats"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"station_id": stationID, "hourly": hours})
}

func (s *Server) handleDaily(c *gin.Context) {
	stationID, ok := stationParam(c)
	if !ok {
		return
	}
	from, to, ok := rangeParams(c, 7*24*time.Hour)
	if !ok {
		return
	}

	days, err := s.store.DailyBetween(c.Request.Context(), stationID, from, to)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch daily stats"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"station_id": stationID, "daily": days})
}

func stationParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("station_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid station id"})
		return 0, false
	}
	return id, true
}

// rangeParams parses from/to query params (RFC3339 or YYYY-MM-DD), defaulting
// to the trailing window of the given span ending now.
func rangeParams(c *gin.Context, span time.Duration) (from, to time.Time, ok bool) {
	to = time.Now().UTC()
	from = to.Add(-span)

	if v := c.Query("from"); v != "" {
		ts, err := parseInstant(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid from"})
			return from, to, false
		}
		from = ts
	}
	if v := c.Query("to"); v != "" {
		ts, err := parseInstant(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid to"})
			return from, to, false
		}
		to = ts
	}
	return from, to, true
}

func parseInstant(v string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, v); err == nil {
		return ts, nil
	}
	return time.Parse("2006-01-02", v)
}
