package location_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"sakaylink/pkg/location"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestWatch_PermissionDeniedShortCircuits(t *testing.T) {
	t.Parallel()
	provider := location.NewSimulatedProvider(location.Coordinate{Latitude: 14.59, Longitude: 120.98})
	provider.SetPermission(false)

	_, err := location.NewWatcher(provider).Watch(context.Background(), time.Millisecond, 0)
	assert.ErrorIs(t, err, location.ErrPermissionDenied)
}

func TestWatch_LocationDisabledShortCircuits(t *testing.T) {
	t.Parallel()
	provider := location.NewSimulatedProvider(location.Coordinate{Latitude: 14.59, Longitude: 120.98})
	provider.SetEnabled(false)

	_, err := location.NewWatcher(provider).Watch(context.Background(), time.Millisecond, 0)
	assert.ErrorIs(t, err, location.ErrLocationDisabled)
}

func TestWatch_EmitsFirstFixImmediately(t *testing.T) {
	t.Parallel()
	provider := location.NewSimulatedProvider(location.Coordinate{Latitude: 14.5995, Longitude: 120.9842})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	fixes, err := location.NewWatcher(provider).Watch(ctx, 10*time.Millisecond, 0)
	require.NoError(t, err)

	select {
	case fix := <-fixes:
		assert.Equal(t, 14.5995, fix.Latitude)
	case <-time.After(2 * time.Second):
		t.Fatal("no fix within bounded wait")
	}
}

func TestWatch_FiltersSmallDisplacements(t *testing.T) {
	t.Parallel()
	// Second fix is ~1m away, third ~1.1km; with a 100m gate only the first
	// and third come through.
	provider := location.NewSimulatedProvider(
		location.Coordinate{Latitude: 14.5995, Longitude: 120.9842},
		location.Coordinate{Latitude: 14.59951, Longitude: 120.9842},
		location.Coordinate{Latitude: 14.6095, Longitude: 120.9842},
	)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	fixes, err := location.NewWatcher(provider).Watch(ctx, time.Millisecond, 100)
	require.NoError(t, err)

	first := <-fixes
	assert.Equal(t, 14.5995, first.Latitude)
	second := <-fixes
	assert.Equal(t, 14.6095, second.Latitude, "the ~1m move should have been filtered out")
}

func TestWatch_RestartableAfterCancel(t *testing.T) {
	t.Parallel()
	provider := location.NewSimulatedProvider(location.Coordinate{Latitude: 14.5995, Longitude: 120.9842})
	watcher := location.NewWatcher(provider)

	ctx, cancel := context.WithCancel(context.Background())
	fixes, err := watcher.Watch(ctx, time.Millisecond, 0)
	require.NoError(t, err)
	<-fixes
	cancel()
	for range fixes {
	}

	ctx2, cancel2 := context.WithCancel(context.Background())
	defer cancel2()
	fixes2, err := watcher.Watch(ctx2, time.Millisecond, 0)
	require.NoError(t, err)
	select {
	case _, ok := <-fixes2:
		assert.True(t, ok, "restarted stream should deliver")
	case <-time.After(2 * time.Second):
		t.Fatal("restarted stream delivered nothing")
	}
}

func TestHaversineKm_ManilaToQuezonCity(t *testing.T) {
	t.Parallel()
	// Manila city hall to Quezon City circle, roughly 11km.
	d := location.HaversineKm(14.5896, 120.9814, 14.6510, 121.0493)
	assert.InDelta(t, 10.0, d, 2.0)
}

func TestMetersBetween_ZeroForSamePoint(t *testing.T) {
	t.Parallel()
	p := location.Coordinate{Latitude: 14.5995, Longitude: 120.9842}
	assert.Zero(t, location.MetersBetween(p, p))
}
