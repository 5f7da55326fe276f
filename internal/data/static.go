package data

import (
	"context"
	"fmt"
	"time"
)

// staticDataProvider answers every request with a configured spot.
// It terminates the provider chain.
type staticDataProvider struct {
	spot float64
}

func NewStaticProvider(spot float64) Provider { return &staticDataProvider{spot: spot} }

func (staticDataProv *staticDataProvider) Name() string { return "static" }

func (staticDataProv *staticDataProvider) Secondary() Provider { return nil }

func (staticDataProv *staticDataProvider) LatestClose(_ context.Context, underlying string, asOf time.Time) (Bar, error) {
	if !usable(staticDataProv.spot) {
		return Bar{}, fmt.Errorf("%w: static spot %g for %s", ErrNoData, staticDataProv.spot, underlying)
	}
	return Bar{Date: calendarDate(asOf), Close: staticDataProv.spot, Source: staticDataProv.Name()}, nil
}
