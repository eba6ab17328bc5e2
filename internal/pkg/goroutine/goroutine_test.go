package goroutine

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_RunsAndCollectsErrors(t *testing.T) {
	m := NewManager(4)
	var ran atomic.Int32
	boom := errors.New("boom")

	for i := 0; i < 3; i++ {
		require.True(t, m.Go(context.Background(), func(context.Context) error {
			ran.Add(1)
			return nil
		}))
	}
	require.True(t, m.Go(context.Background(), func(context.Context) error {
		return boom
	}))

	err := m.Wait()
	require.ErrorIs(t, err, boom)
	assert.Equal(t, int32(3), ran.Load())
}

func TestManager_RejectsAfterWait(t *testing.T) {
	m := NewManager(1)
	require.NoError(t, m.Wait())

	assert.False(t, m.Go(context.Background(), func(context.Context) error { return nil }))
}

func TestManager_RejectsWhenFull(t *testing.T) {
	m := NewManager(1)
	release := make(chan struct{})

	require.True(t, m.Go(context.Background(), func(context.Context) error {
		<-release
		return nil
	}))
	assert.False(t, m.Go(context.Background(), func(context.Context) error { return nil }))

	close(release)
	require.NoError(t, m.Wait())
}

func TestManager_RecoversPanic(t *testing.T) {
	m := NewManager(1)

	require.True(t, m.Go(context.Background(), func(context.Context) error {
		panic("kaboom")
	}))
	assert.NoError(t, m.Wait())
}

func TestManager_DetachesCancellation(t *testing.T) {
	m := NewManager(1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var seen error
	require.True(t, m.Go(ctx, func(ctx context.Context) error {
		seen = ctx.Err()
		return nil
	}))
	require.NoError(t, m.Wait())
	assert.NoError(t, seen)
}

func TestManager_Nil(t *testing.T) {
	var m *Manager
	assert.False(t, m.Go(context.Background(), func(context.Context) error { return nil }))
	assert.NoError(t, m.Wait())
}
