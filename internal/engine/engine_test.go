package engine

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contactkeval/option-pricer/internal/config"
	"github.com/contactkeval/option-pricer/internal/data"
	"github.com/contactkeval/option-pricer/internal/pricing"
)

var now = func() time.Time { return time.Date(2025, time.January, 2, 12, 0, 0, 0, time.UTC) }

func TestRunWithDefaults(t *testing.T) {
	res, err := NewEngine(config.Default(), nil).WithClock(now).Run(context.Background())
	require.NoError(t, err)

	c := res.Curve
	assert.Equal(t, "config", res.Reference.Source)
	assert.Len(t, c.Points, 101)
	assert.Equal(t, 50.0, c.Points[0].Spot)
	assert.Equal(t, 150.0, c.Points[100].Spot)
	assert.Equal(t, time.Date(2026, time.January, 2, 0, 0, 0, 0, time.UTC), c.Spec.Expiry)

	// the middle point is the at-the-money reference case
	assert.Equal(t, 100.0, c.Points[50].Spot)
	assert.InDelta(t, 10.450583572185565, c.Points[50].Price, 1e-8)
}

func TestRunResolvesATMStrikeFromProvider(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "SPY.csv"),
		[]byte("date,close\n2024-12-31,586.08\n2025-01-02,584.64\n"), 0644))

	cfg := config.Default()
	cfg.Underlying = "SPY"
	cfg.Kind = pricing.Put
	cfg.Strike = 0
	cfg.StrikeInterval = 5
	cfg.Points = 21
	cfg.SpotBand = 0.1

	res, err := NewEngine(cfg, data.NewProvider("", dir, cfg.Spot)).WithClock(now).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 584.64, res.Reference.Close)
	assert.Equal(t, 585.0, res.Curve.Spec.Strike)
	assert.Equal(t, pricing.Put, res.Curve.Spec.Kind)
	assert.InDelta(t, 584.64*0.9, res.Curve.Points[0].Spot, 1e-9)

	for _, p := range res.Curve.Points {
		assert.GreaterOrEqual(t, p.Price, 0.0)
	}
}

func TestRunFailsOnInvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Points = 0
	_, err := NewEngine(cfg, nil).WithClock(now).Run(context.Background())
	assert.Error(t, err)
}

func TestRunFailsAfterExpiry(t *testing.T) {
	cfg := config.Default()
	cfg.AsOf = "2025-06-01"
	cfg.Expiry = "2025-03-21"
	_, err := NewEngine(cfg, nil).Run(context.Background())
	assert.ErrorIs(t, err, pricing.ErrInvalidInput)
}
