package wakeup

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestIndicatorPostWakesObserver(t *testing.T) {
	ind, err := NewIndicator(Key{SourceUID: 1, DestID: 2})
	require.NoError(t, err)
	defer ind.Close()

	o, err := NewObserver(false)
	require.NoError(t, err)
	defer o.Close()
	require.NoError(t, o.Add(ind))

	require.NoError(t, ind.Post())

	fired, err := o.Wait(time.Second)
	require.NoError(t, err)
	require.True(t, fired)

	// The counter was drained by Wait; a second Wait with no intervening
	// Post should time out immediately instead of firing again.
	fired, err = o.Wait(10 * time.Millisecond)
	require.NoError(t, err)
	require.False(t, fired)
}

func TestObserverPollOnlyNeverBlocksOnEpoll(t *testing.T) {
	ind, err := NewIndicator(Key{SourceUID: 1, DestID: 2})
	require.NoError(t, err)
	defer ind.Close()

	o, err := NewObserver(true)
	require.NoError(t, err)
	defer o.Close()
	require.NoError(t, o.Add(ind))

	fired, err := o.Wait(0)
	require.NoError(t, err)
	require.True(t, fired) // pollOnly just reports "something enrolled"
}

func TestRegistryGetOrCreateIsIdempotent(t *testing.T) {
	r := NewRegistry()
	defer r.Close()

	key := Key{SourceUID: 7, DestID: 9}
	a, err := r.GetOrCreate(key)
	require.NoError(t, err)
	b, err := r.GetOrCreate(key)
	require.NoError(t, err)
	require.Same(t, a, b)

	looked, ok := r.Lookup(key)
	require.True(t, ok)
	require.Same(t, a, looked)
}
