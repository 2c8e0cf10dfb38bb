package chroma

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/chroma-arcade/internal/config"
)

func simOptions(games int) SimOptions {
	return SimOptions{
		Games:  games,
		Seed:   7,
		Config: config.DefaultChromaConfig(),
		Limit:  10 * time.Minute,
	}
}

func TestSimulate(t *testing.T) {
	var seen []int64
	results, err := Simulate(context.Background(), simOptions(3), func(r SimResult) {
		seen = append(seen, r.Seed)
	})
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, []int64{7, 8, 9}, seen)

	for _, r := range results {
		assert.NotEmpty(t, r.SessionID)
		assert.Positive(t, r.Ticks)
		if !r.Finished {
			assert.GreaterOrEqual(t, r.Clock, 10*time.Minute)
		}
		assert.GreaterOrEqual(t, r.Score, 0)
	}
}

func TestSimulateDeterministic(t *testing.T) {
	a, err := Simulate(context.Background(), simOptions(2), nil)
	require.NoError(t, err)
	b, err := Simulate(context.Background(), simOptions(2), nil)
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestSimulateCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, err := Simulate(ctx, simOptions(5), nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, results)
}

func TestSimulateNoGames(t *testing.T) {
	results, err := Simulate(context.Background(), simOptions(0), nil)
	require.NoError(t, err)
	assert.Empty(t, results)
}
