package reading

import (
	"fmt"
	"time"
)

// stationTimeLayout matches the textual timestamps stations publish, e.g.
// "Monday 1 January 0:00:00 2024", interpreted as UTC wall-clock time.
const stationTimeLayout = "Monday 2 January 15:04:05 2006"

// ParseStationTime normalizes a station-local date string into a UTC instant
// truncated to whole seconds. It fails with ErrInvalidTimestamp when the text
// does not match the expected layout or denotes an impossible date.
func ParseStationTime(text string) (time.Time, error) {
	ts, err := time.ParseInLocation(stationTimeLayout, text, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTimestamp, text)
	}
	return ts.Truncate(time.Second).UTC(), nil
}
