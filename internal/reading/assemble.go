package reading

import (
	"context"
	"encoding/json"
	"fmt"
)

// CapabilityLookup resolves a station id to its per-channel availability map.
// A lookup for an unprovisioned station must fail with ErrUnknownStation.
type CapabilityLookup interface {
	Channels(ctx context.Context, stationID int64) (map[Channel]bool, error)
}

// Assembler validates raw payloads against station capabilities and builds
// canonical readings. Pure given its inputs except for the capability lookup.
type Assembler struct {
	caps CapabilityLookup
}

// NewAssembler creates an Assembler backed by the given capability lookup.
func NewAssembler(caps CapabilityLookup) *Assembler {
	return &Assembler{caps: caps}
}

// Assemble parses a raw message payload, normalizes its timestamp and
// cross-checks it against the station's capability profile. Every channel the
// station is capable of must be present; missing channels are collected and
// reported together via IncompleteReadingError. Channels the station is not
// capable of are ignored even when present.
func (a *Assembler) Assemble(ctx context.Context, stationID int64, payload []byte) (*Reading, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(payload, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}

	dateRaw, ok := raw["date"]
	if !ok {
		return nil, ErrMissingTimestamp
	}
	var dateText string
	if err := json.Unmarshal(dateRaw, &dateText); err != nil {
		return nil, fmt.Errorf("%w: date is not a string", ErrInvalidTimestamp)
	}
	ts, err := ParseStationTime(dateText)
	if err != nil {
		return nil, err
	}

	available, err := a.caps.Channels(ctx, stationID)
	if err != nil {
		return nil, err
	}

	rec := &Reading{StationID: stationID, Timestamp: ts}
	var missing []Channel
	for _, ch := range AllChannels {
		if !available[ch] {
			continue
		}
		valRaw, ok := raw[string(ch)]
		if !ok {
			missing = append(missing, ch)
			continue
		}
		// An explicit null is a present-but-empty sample; it validates but
		// stores no value, it must never turn into a zero.
		if string(valRaw) == "null" {
			continue
		}
		var val float64
		if err := json.Unmarshal(valRaw, &val); err != nil {
			return nil, fmt.Errorf("%w: field %s is not numeric", ErrMalformedPayload, ch)
		}
		rec.setValue(ch, val)
	}

	if len(missing) > 0 {
		return nil, &IncompleteReadingError{StationID: stationID, Missing: missing}
	}

	return rec, nil
}
