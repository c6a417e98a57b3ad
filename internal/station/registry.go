package station

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/zerotwo/meteo-collector/internal/reading"
)

// ErrNotFound signals a station id with no provisioned profile.
var ErrNotFound = errors.New("station not found")

// Source provides station capability profiles from the external store.
// Implementations must return ErrNotFound for unprovisioned stations.
type Source interface {
	StationIDs(ctx context.Context) ([]int64, error)
	StationCapabilities(ctx context.Context, stationID int64) (Capabilities, error)
}

// Registry is a read-through cache over a capability Source. Profiles are
// cached on first resolution; capability changes for a running station are
// not picked up live.
type Registry struct {
	source Source

	mu    sync.RWMutex
	cache map[int64]Capabilities
}

// NewRegistry creates an empty registry over the given source.
func NewRegistry(source Source) *Registry {
	return &Registry{source: source, cache: make(map[int64]Capabilities)}
}

// StationIDs lists every station known to the source.
func (r *Registry) StationIDs(ctx context.Context) ([]int64, error) {
	return r.source.StationIDs(ctx)
}

// Fields resolves the capability profile for a station, consulting the source
// on a cache miss. Unknown stations fail with ErrNotFound.
func (r *Registry) Fields(ctx context.Context, stationID int64) (Capabilities, error) {
	r.mu.RLock()
	caps, ok := r.cache[stationID]
	r.mu.RUnlock()
	if ok {
		return caps, nil
	}

	caps, err := r.source.StationCapabilities(ctx, stationID)
	if err != nil {
		return Capabilities{}, err
	}

	r.mu.Lock()
	r.cache[stationID] = caps
	r.mu.Unlock()
	return caps, nil
}

// Channels implements reading.CapabilityLookup, translating ErrNotFound into
// the validation taxonomy.
func (r *Registry) Channels(ctx context.Context, stationID int64) (map[reading.Channel]bool, error) {
	caps, err := r.Fields(ctx, stationID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("%w: station %d", reading.ErrUnknownStation, stationID)
		}
		return nil, err
	}
	return caps.Channels(), nil
}
