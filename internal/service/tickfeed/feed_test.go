package tickfeed

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"GoldCast/internal/domain/models"
)

func TestHandleCachesNewestTick(t *testing.T) {
	f := New("ticks.gold", nil, nil)
	ctx := context.Background()
	assert.Equal(t, "ticks.gold", f.Topic())

	require.NoError(t, f.Handle(ctx, []byte(`{"symbol":"XAUUSD","bid":2000.1,"ask":2000.5,"c":2000.3,"v":4,"t":1700000002000}`)))
	require.NoError(t, f.Handle(ctx, []byte(`{"symbol":"XAUUSD","c":1990,"t":1700000001000}`)))
	require.NoError(t, f.Handle(ctx, []byte(`garbage`)))

	tick, err := f.GetCurrentPrice(ctx, "XAUUSD")
	require.NoError(t, err)
	assert.Equal(t, 2000.3, tick.MainPrice())
	assert.Equal(t, 4.0, tick.Volume)

	_, err = f.GetCurrentPrice(ctx, "XAGUSD")
	assert.ErrorIs(t, err, models.ErrFeedUnavailable)
	assert.NoError(t, f.EnsureConnection(ctx))
	assert.NoError(t, f.Close())
}
