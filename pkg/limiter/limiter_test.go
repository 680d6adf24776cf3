package limiter

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGate(t *testing.T) {
	t.Run("TryAcquireRespectsCapacity", func(t *testing.T) {
		g := NewGate(2)

		assert.True(t, g.TryAcquire())
		assert.True(t, g.TryAcquire())
		assert.False(t, g.TryAcquire())
		assert.Equal(t, 2, g.InUse())

		g.Release()
		assert.True(t, g.TryAcquire())
	})

	t.Run("AcquireBlocksUntilRelease", func(t *testing.T) {
		g := NewGate(1)
		require.NoError(t, g.Acquire(context.Background()))

		done := make(chan error, 1)
		go func() {
			done <- g.Acquire(context.Background())
		}()

		select {
		case <-done:
			t.Fatal("acquire should block while the gate is full")
		case <-time.After(20 * time.Millisecond):
		}

		g.Release()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(time.Second):
			t.Fatal("acquire did not proceed after release")
		}
	})

	t.Run("AcquireHonorsContext", func(t *testing.T) {
		g := NewGate(1)
		require.NoError(t, g.Acquire(context.Background()))

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		assert.ErrorIs(t, g.Acquire(ctx), context.Canceled)
	})

	t.Run("ZeroCapacityClamped", func(t *testing.T) {
		g := NewGate(0)
		assert.True(t, g.TryAcquire())
	})
}
