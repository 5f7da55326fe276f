package data

import (
	"context"
	"fmt"
	"strings"
	"time"

	massive "github.com/massive-com/client-go/v2/rest"
	"github.com/massive-com/client-go/v2/rest/models"

	"github.com/contactkeval/option-pricer/internal/logger"
)

// lookbackDays covers weekends and market holidays when searching for the
// most recent daily bar.
const lookbackDays = 10

// massiveDataProvider implements the Provider interface using Massive APIs.
type massiveDataProvider struct {
	client *massive.Client

	// secondary is an optional fallback provider.
	secondary Provider
}

// NewMassiveDataProvider constructs a Massive-backed data provider.
func NewMassiveDataProvider(apiKey string, secondary Provider) *massiveDataProvider {
	logger.Infof("initializing Massive data provider")
	return &massiveDataProvider{
		client:    massive.New(apiKey),
		secondary: secondary,
	}
}

func (massiveDataProv *massiveDataProvider) Name() string { return "massive" }

// Secondary returns the configured secondary Provider, if any.
func (massiveDataProv *massiveDataProvider) Secondary() Provider {
	return massiveDataProv.secondary
}

// LatestClose returns the most recent adjusted daily close on or before asOf.
func (massiveDataProv *massiveDataProvider) LatestClose(ctx context.Context, underlying string, asOf time.Time) (Bar, error) {
	bar, err := massiveDataProv.latestClose(ctx, underlying, asOf)
	if err != nil {
		return fallback(ctx, massiveDataProv, underlying, asOf, err)
	}
	return bar, nil
}

func (massiveDataProv *massiveDataProvider) latestClose(ctx context.Context, underlying string, asOf time.Time) (Bar, error) {
	to := calendarDate(asOf)
	from := to.AddDate(0, 0, -lookbackDays)

	logger.Debugf("fetching daily aggs: %s from=%s to=%s",
		underlying, from.Format("2006-01-02"), to.Format("2006-01-02"))

	params := models.ListAggsParams{
		Ticker:     strings.ToUpper(underlying),
		Multiplier: 1,
		Timespan:   models.Day,
		From:       models.Millis(from),
		To:         models.Millis(to),
	}.WithOrder(models.Desc).WithAdjusted(true).WithLimit(lookbackDays)

	iter := massiveDataProv.client.ListAggs(ctx, params)
	for iter.Next() {
		agg := iter.Item()
		if !usable(agg.Close) {
			continue
		}
		bar := Bar{
			Date:   calendarDate(time.Time(agg.Timestamp)),
			Close:  agg.Close,
			Source: massiveDataProv.Name(),
		}
		logger.Tracef("latest %s close %.4f on %s", underlying, bar.Close, bar.Date.Format("2006-01-02"))
		return bar, nil
	}
	if err := iter.Err(); err != nil {
		return Bar{}, fmt.Errorf("massive aggs %s: %w", underlying, err)
	}

	return Bar{}, fmt.Errorf("%w: massive returned no bars for %s", ErrNoData, underlying)
}
