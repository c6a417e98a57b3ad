package reading

import "time"

// Channel names a sensor channel as it appears in message payloads and in the
// weather_data column set. Validation and storage share this vocabulary.
type Channel string

const (
	Temperature   Channel = "temperature"
	Pressure      Channel = "pressure"
	Humidity      Channel = "humidity"
	Lux           Channel = "lux"
	UVI           Channel = "uvi"
	Rain          Channel = "rain"
	WindSpeed     Channel = "wind_speed"
	WindDirection Channel = "wind_direction"
	GustSpeed     Channel = "gust_speed"
	GustDirection Channel = "gust_direction"
)

// AllChannels is the fixed channel schema, in column order.
var AllChannels = []Channel{
	Temperature,
	Pressure,
	Humidity,
	Lux,
	UVI,
	Rain,
	WindSpeed,
	WindDirection,
	GustSpeed,
	GustDirection,
}

// Reading is one validated observation from one station at one instant.
// (StationID, Timestamp) is the natural key; nil channel values mean the
// station does not report that channel.
type Reading struct {
	StationID int64     `json:"station_id"`
	Timestamp time.Time `json:"date"`

	Temperature   *float64 `json:"temperature,omitempty"`
	Pressure      *float64 `json:"pressure,omitempty"`
	Humidity      *float64 `json:"humidity,omitempty"`
	Lux           *float64 `json:"lux,omitempty"`
	UVI           *float64 `json:"uvi,omitempty"`
	Rain          *float64 `json:"rain,omitempty"`
	WindSpeed     *float64 `json:"wind_speed,omitempty"`
	WindDirection *float64 `json:"wind_direction,omitempty"`
	GustSpeed     *float64 `json:"gust_speed,omitempty"`
	GustDirection *float64 `json:"gust_direction,omitempty"`
}

// Value returns the stored value for a channel, or nil.
func (r *Reading) Value(ch Channel) *float64 {
	switch ch {
	case Temperature:
		return r.Temperature
	case Pressure:
		return r.Pressure
	case Humidity:
		return r.Humidity
	case Lux:
		return r.Lux
	case UVI:
		return r.UVI
	case Rain:
		return r.Rain
	case WindSpeed:
		return r.WindSpeed
	case WindDirection:
		return r.WindDirection
	case GustSpeed:
		return r.GustSpeed
	case GustDirection:
		return r.GustDirection
	}
	return nil
}

func (r *Reading) setValue(ch Channel, v float64) {
	val := v
	switch ch {
	case Temperature:
		r.Temperature = &val
	case Pressure:
		r.Pressure = &val
	case Humidity:
		r.Humidity = &val
	case Lux:
		r.Lux = &val
	case UVI:
		r.UVI = &val
	case Rain:
		r.Rain = &val
	case WindSpeed:
		r.WindSpeed = &val
	case WindDirection:
		r.WindDirection = &val
	case GustSpeed:
		r.GustSpeed = &val
	case GustDirection:
		r.GustDirection = &val
	}
}
