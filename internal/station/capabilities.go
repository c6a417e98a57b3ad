package station

import (
	"github.com/zerotwo/meteo-collector/internal/reading"
)

// Capabilities holds the eight base sensor flags provisioned for a station.
// Gust availability is derived from the anemometer and wind vane flags, never
// stored on its own.
type Capabilities struct {
	Temperature bool `json:"temperature"`
	Pressure    bool `json:"pressure"`
	Humidity    bool `json:"humidity"`
	Lux         bool `json:"lux"`
	UVI         bool `json:"uvi"`
	RainGauge   bool `json:"rain_gauge"`
	Anemometer  bool `json:"anemometer"`
	WindVane    bool `json:"wind_vane"`
}

// GustSpeed reports whether the station delivers gust speed readings.
func (c Capabilities) GustSpeed() bool {
	return c.Anemometer
}

// GustDirection reports whether the station delivers gust direction readings.
func (c Capabilities) GustDirection() bool {
	return c.Anemometer && c.WindVane
}

// Channels maps every reading channel to its availability for this station.
func (c Capabilities) Channels() map[reading.Channel]bool {
	return map[reading.Channel]bool{
		reading.Temperature:   c.Temperature,
		reading.Pressure:      c.Pressure,
		reading.Humidity:      c.Humidity,
		reading.Lux:           c.Lux,
		reading.UVI:           c.UVI,
		reading.Rain:          c.RainGauge,
		reading.WindSpeed:     c.Anemometer,
		reading.WindDirection: c.WindVane,
		reading.GustSpeed:     c.GustSpeed(),
		reading.GustDirection: c.GustDirection(),
	}
}
