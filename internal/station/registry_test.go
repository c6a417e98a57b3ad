package station

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/zerotwo/meteo-collector/internal/reading"
)

type fakeSource struct {
	profiles map[int64]Capabilities
	calls    int
}

func (f *fakeSource) StationIDs(_ context.Context) ([]int64, error) {
	ids := make([]int64, 0, len(f.profiles))
	for id := range f.profiles {
		ids = append(ids, id)
	}
	return ids, nil
}

func (f *fakeSource) StationCapabilities(_ context.Context, stationID int64) (Capabilities, error) {
	f.calls++
	caps, ok := f.profiles[stationID]
	if !ok {
		return Capabilities{}, fmt.Errorf("%w: id %d", ErrNotFound, stationID)
	}
	return caps, nil
}

func TestRegistryCachesProfiles(t *testing.T) {
	source := &fakeSource{profiles: map[int64]Capabilities{
		7: {Temperature: true, Anemometer: true},
	}}
	reg := NewRegistry(source)

	for i := 0; i < 3; i++ {
		caps, err := reg.Fields(context.Background(), 7)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !caps.Temperature || !caps.Anemometer {
			t.Errorf("unexpected capabilities: %+v", caps)
		}
	}

	if source.calls != 1 {
		t.Errorf("expected a single source read, got %d", source.calls)
	}
}

func TestRegistryNotFound(t *testing.T) {
	source := &fakeSource{profiles: map[int64]Capabilities{}}
	reg := NewRegistry(source)

	_, err := reg.Fields(context.Background(), 42)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestRegistryChannelsTranslatesNotFound(t *testing.T) {
	source := &fakeSource{profiles: map[int64]Capabilities{}}
	reg := NewRegistry(source)

	_, err := reg.Channels(context.Background(), 42)
	if !errors.Is(err, reading.ErrUnknownStation) {
		t.Errorf("expected ErrUnknownStation, got %v", err)
	}
}

func TestRegistryChannelsIncludesDerived(t *testing.T) {
	source := &fakeSource{profiles: map[int64]Capabilities{
		3: {Anemometer: true, WindVane: true},
	}}
	reg := NewRegistry(source)

	channels, err := reg.Channels(context.Background(), 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !channels[reading.GustSpeed] || !channels[reading.GustDirection] {
		t.Errorf("expected gust channels available, got %v", channels)
	}
	if channels[reading.Temperature] {
		t.Error("temperature should not be available")
	}
}
