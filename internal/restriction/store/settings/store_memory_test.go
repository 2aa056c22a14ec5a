package settings

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActiveModeDefaultsToEmpty(t *testing.T) {
	store := NewMemory()

	mode, err := store.ActiveMode(context.Background())
	require.NoError(t, err)
	assert.Empty(t, mode, "unconfigured service has no active mode")
}

func TestSetAndOverwriteActiveMode(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	require.NoError(t, store.SetActiveMode(ctx, "global"))
	mode, err := store.ActiveMode(ctx)
	require.NoError(t, err)
	assert.Equal(t, "global", mode)

	require.NoError(t, store.SetActiveMode(ctx, "7"))
	mode, err = store.ActiveMode(ctx)
	require.NoError(t, err)
	assert.Equal(t, "7", mode)
}

func TestConcurrentModeWrites(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			require.NoError(t, store.SetActiveMode(ctx, "global"))
			_, err := store.ActiveMode(ctx)
			require.NoError(t, err)
		}()
	}
	wg.Wait()

	mode, err := store.ActiveMode(ctx)
	require.NoError(t, err)
	assert.Equal(t, "global", mode)
}
