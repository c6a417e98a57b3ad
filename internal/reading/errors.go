package reading

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMalformedPayload signals a message body that could not be decoded.
	ErrMalformedPayload = errors.New("malformed payload")
	// ErrMissingTimestamp signals a payload without a date field.
	ErrMissingTimestamp = errors.New("missing mandatory field: date")
	// ErrInvalidTimestamp signals a date field that does not match the station layout.
	ErrInvalidTimestamp = errors.New("invalid timestamp")
	// ErrUnknownStation signals a station id with no capability profile.
	ErrUnknownStation = errors.New("unknown station")
)

// IncompleteReadingError reports every capability-flagged channel absent from
// a payload. Validation collects all of them before failing.
type IncompleteReadingError struct {
	StationID int64
	Missing   []Channel
}

func (e *IncompleteReadingError) Error() string {
	names := make([]string, len(e.Missing))
	for i, ch := range e.Missing {
		names[i] = string(ch)
	}
	return fmt.Sprintf("station %d: missing data for available fields: %s",
		e.StationID, strings.Join(names, ", "))
}
