// Package data supplies the reference spot price the pricing sweep is
// centred on. Providers are chained: each one delegates to its secondary
// when it cannot answer.
package data

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/contactkeval/option-pricer/internal/logger"
)

// ErrNoData is returned when a provider has no usable close for the request.
var ErrNoData = errors.New("no market data")

// Provider supplies reference prices for an underlying.
type Provider interface {
	Name() string
	Secondary() Provider
	LatestClose(ctx context.Context, underlying string, asOf time.Time) (Bar, error)
}

// Bar is a daily close for an underlying.
type Bar struct {
	Date   time.Time `json:"date"`
	Close  float64   `json:"close"`
	Source string    `json:"source"`
}

// NewProvider builds the provider chain used by the CLI:
// Massive (when apiKey is set), then local CSV files (when dataDir is set),
// then the static fallback spot.
func NewProvider(apiKey, dataDir string, fallbackSpot float64) Provider {
	var prov Provider = NewStaticProvider(fallbackSpot)
	if dataDir != "" {
		prov = NewLocalFileDataProvider(dataDir, prov)
	}
	if apiKey != "" {
		prov = NewMassiveDataProvider(apiKey, prov)
	}
	logger.Debugf("data provider chain: %s", chainName(prov))
	return prov
}

// fallback delegates to secondary after a failed lookup, or returns err
// when there is no secondary.
func fallback(ctx context.Context, prov Provider, underlying string, asOf time.Time, err error) (Bar, error) {
	if prov.Secondary() == nil {
		return Bar{}, err
	}
	logger.Warnf("%s: %v; falling back to %s", prov.Name(), err, prov.Secondary().Name())
	return prov.Secondary().LatestClose(ctx, underlying, asOf)
}

func usable(price float64) bool {
	return price > 0 && !math.IsNaN(price) && !math.IsInf(price, 0)
}

func chainName(prov Provider) string {
	name := prov.Name()
	for p := prov.Secondary(); p != nil; p = p.Secondary() {
		name += " -> " + p.Name()
	}
	return name
}

// calendarDate truncates t to midnight UTC of its calendar date.
func calendarDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
