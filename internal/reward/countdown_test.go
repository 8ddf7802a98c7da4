package reward

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/gameprogress/internal/prefs"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func TestCountdown_Lifecycle(t *testing.T) {
	ctx := context.Background()
	p, mem := prefs.NewMemoryStore("")
	clk := &clock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}

	c, err := New(ctx, p, time.Hour, clk.now)
	require.NoError(t, err)
	assert.True(t, c.IsActive())
	assert.False(t, c.IsPrizeAvailable())
	assert.Equal(t, "01:00:00", c.TimeToPrizeString())
	assert.Equal(t, 1, mem.Saves(), "a new countdown is persisted")

	clk.t = clk.t.Add(59*time.Minute + 30*time.Second)
	assert.Equal(t, "00:00:30", c.TimeToPrizeString())

	claimed, err := c.Claim(ctx)
	require.NoError(t, err)
	assert.False(t, claimed)

	require.NoError(t, c.MakePrizeAvailable(ctx))
	assert.True(t, c.IsPrizeAvailable())
	assert.Equal(t, time.Duration(0), c.TimeToPrize())

	claimed, err = c.Claim(ctx)
	require.NoError(t, err)
	assert.True(t, claimed)
	assert.Equal(t, "01:00:00", c.TimeToPrizeString())

	clk.t = clk.t.Add(10 * time.Minute)
	require.NoError(t, c.StartNewCountdown(ctx))
	assert.Equal(t, time.Hour, c.TimeToPrize())
}

func TestCountdown_ReloadsStoredTime(t *testing.T) {
	ctx := context.Background()
	p, mem := prefs.NewMemoryStore("")
	clk := &clock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}

	_, err := New(ctx, p, 2*time.Hour, clk.now)
	require.NoError(t, err)

	reopened, err := prefs.Open(ctx, mem, "")
	require.NoError(t, err)
	clk.t = clk.t.Add(30 * time.Minute)
	c, err := New(ctx, reopened, 2*time.Hour, clk.now)
	require.NoError(t, err)
	assert.Equal(t, "01:30:00", c.TimeToPrizeString())
}

func TestCountdown_NilIsInactive(t *testing.T) {
	var c *Countdown
	assert.False(t, c.IsActive())
}
