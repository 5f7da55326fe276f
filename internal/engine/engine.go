// Package engine runs one pricing sweep: it resolves dates and the
// reference spot, builds the option and evaluates the curve.
package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/contactkeval/option-pricer/internal/config"
	"github.com/contactkeval/option-pricer/internal/curve"
	"github.com/contactkeval/option-pricer/internal/data"
	"github.com/contactkeval/option-pricer/internal/logger"
	"github.com/contactkeval/option-pricer/internal/pricing"
)

type Engine struct {
	cfg  *config.Config
	prov data.Provider
	now  func() time.Time
}

// Result is the evaluated curve plus the reference close it was centred on.
type Result struct {
	Reference data.Bar     `json:"reference"`
	Curve     *curve.Curve `json:"curve"`
}

// NewEngine creates an engine. prov may be nil when cfg has no underlying.
func NewEngine(cfg *config.Config, prov data.Provider) *Engine {
	return &Engine{cfg: cfg, prov: prov, now: time.Now}
}

// WithClock overrides the clock used when the config has no as_of date.
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	return e
}

func (e *Engine) Run(ctx context.Context) (*Result, error) {
	if err := e.cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	asOf, expiry, err := e.cfg.Dates(e.now())
	if err != nil {
		return nil, err
	}

	ref, err := e.referenceSpot(ctx, asOf)
	if err != nil {
		return nil, err
	}

	spec := pricing.OptionSpec{
		Strike: e.cfg.ResolveStrike(ref.Close),
		Expiry: expiry,
		Kind:   e.cfg.Kind,
	}
	market := pricing.MarketState{
		Spot:       ref.Close,
		Volatility: e.cfg.Volatility,
		Rate:       e.cfg.Rate,
		Dividend:   e.cfg.Dividend,
	}

	lo, hi := e.cfg.SpotRange(ref.Close)
	spots, err := curve.Linspace(lo, hi, e.cfg.Points)
	if err != nil {
		return nil, fmt.Errorf("spot range: %w", err)
	}

	logger.Infof("pricing %s K=%.2f expiry=%s spot=%.2f (%s) over [%.2f, %.2f]",
		spec.Kind, spec.Strike, expiry.Format("2006-01-02"), ref.Close, ref.Source, lo, hi)

	c, err := curve.Evaluate(spec, market, asOf, spots)
	if err != nil {
		return nil, err
	}

	return &Result{Reference: ref, Curve: c}, nil
}

func (e *Engine) referenceSpot(ctx context.Context, asOf time.Time) (data.Bar, error) {
	if e.cfg.Underlying == "" || e.prov == nil {
		return data.Bar{Date: asOf, Close: e.cfg.Spot, Source: "config"}, nil
	}

	bar, err := e.prov.LatestClose(ctx, e.cfg.Underlying, asOf)
	if err != nil {
		return data.Bar{}, fmt.Errorf("reference spot for %s: %w", e.cfg.Underlying, err)
	}
	return bar, nil
}
