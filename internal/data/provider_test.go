package data

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var asOf = time.Date(2025, time.January, 15, 16, 0, 0, 0, time.UTC)

func writeBars(t *testing.T, dir, underlying, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, underlying+".csv"), []byte(body), 0644))
}

func TestStaticProvider(t *testing.T) {
	bar, err := NewStaticProvider(101.5).LatestClose(context.Background(), "SPY", asOf)
	require.NoError(t, err)
	assert.Equal(t, 101.5, bar.Close)
	assert.Equal(t, "static", bar.Source)
	assert.Equal(t, time.Date(2025, time.January, 15, 0, 0, 0, 0, time.UTC), bar.Date)

	_, err = NewStaticProvider(0).LatestClose(context.Background(), "SPY", asOf)
	assert.ErrorIs(t, err, ErrNoData)
}

func TestLocalFileProviderPicksLastCloseBeforeAsOf(t *testing.T) {
	dir := t.TempDir()
	writeBars(t, dir, "SPY", "date,open,close\n"+
		"2025-01-13,580.0,581.39\n"+
		"2025-01-14,581.0,582.10\n"+
		"2025-01-16,583.0,590.00\n"+
		"not-a-date,1,1\n")

	prov := NewLocalFileDataProvider(dir, nil)
	bar, err := prov.LatestClose(context.Background(), "spy", asOf)
	require.NoError(t, err)
	assert.Equal(t, 582.10, bar.Close)
	assert.Equal(t, time.Date(2025, time.January, 14, 0, 0, 0, 0, time.UTC), bar.Date)
}

func TestLocalFileProviderFallsBackToSecondary(t *testing.T) {
	dir := t.TempDir()
	prov := NewLocalFileDataProvider(dir, NewStaticProvider(99))

	bar, err := prov.LatestClose(context.Background(), "QQQ", asOf)
	require.NoError(t, err)
	assert.Equal(t, 99.0, bar.Close)
	assert.Equal(t, "static", bar.Source)

	writeBars(t, dir, "IWM", "date,close\n2025-02-01,220\n")
	bar, err = prov.LatestClose(context.Background(), "IWM", asOf)
	require.NoError(t, err)
	assert.Equal(t, 99.0, bar.Close)
}

func TestLocalFileProviderWithoutSecondaryFails(t *testing.T) {
	_, err := NewLocalFileDataProvider(t.TempDir(), nil).LatestClose(context.Background(), "QQQ", asOf)
	assert.Error(t, err)
}

func TestNewProviderChain(t *testing.T) {
	prov := NewProvider("", "bars", 100)
	assert.Equal(t, "local:bars -> static", chainName(prov))

	prov = NewProvider("", "", 100)
	assert.Equal(t, "static", chainName(prov))
}

func TestMassiveProviderLatestClose(t *testing.T) {
	apiKey := os.Getenv("POLYGON_API_KEY")
	if apiKey == "" {
		t.Skip("POLYGON_API_KEY not set")
	}

	bar, err := NewMassiveDataProvider(apiKey, nil).LatestClose(context.Background(), "SPY", asOf)
	require.NoError(t, err)
	assert.Greater(t, bar.Close, 0.0)
	assert.False(t, bar.Date.After(asOf))
}
