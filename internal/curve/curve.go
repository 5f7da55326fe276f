// Package curve evaluates an option's present value and terminal payoff
// across a range of underlying spot prices.
package curve

import (
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/floats"

	"github.com/contactkeval/option-pricer/internal/logger"
	"github.com/contactkeval/option-pricer/internal/pricing"
)

// Point is the option's value at one underlying spot price.
type Point struct {
	Spot   float64 `json:"spot"`
	Price  float64 `json:"price"`
	Payoff float64 `json:"payoff"`
}

// Curve holds the evaluated points along with the inputs that produced them.
// Market.Spot is the reference spot, not one of the sweep points.
type Curve struct {
	Spec   pricing.OptionSpec  `json:"spec"`
	Market pricing.MarketState `json:"market"`
	AsOf   time.Time           `json:"as_of"`
	Points []Point             `json:"points"`
}

// Linspace returns n evenly spaced values from lo to hi inclusive.
func Linspace(lo, hi float64, n int) ([]float64, error) {
	if n < 2 {
		return nil, fmt.Errorf("linspace needs at least 2 points, got %d", n)
	}
	if math.IsNaN(lo) || math.IsNaN(hi) || math.IsInf(lo, 0) || math.IsInf(hi, 0) {
		return nil, fmt.Errorf("linspace bounds must be finite: [%g, %g]", lo, hi)
	}
	if lo >= hi {
		return nil, fmt.Errorf("linspace lower bound %g must be below upper bound %g", lo, hi)
	}
	return floats.Span(make([]float64, n), lo, hi), nil
}

// Evaluate prices the option at every spot in spots, holding the rest of
// the market fixed. It stops at the first spot that cannot be priced.
func Evaluate(spec pricing.OptionSpec, market pricing.MarketState, asOf time.Time, spots []float64) (*Curve, error) {
	logger.Debugf("evaluating %s K=%.2f over %d spots, T=%.4f",
		spec.Kind, spec.Strike, len(spots), spec.TimeToExpiry(asOf))

	c := &Curve{
		Spec:   spec,
		Market: market,
		AsOf:   asOf,
		Points: make([]Point, 0, len(spots)),
	}

	for i, s := range spots {
		price, err := pricing.Price(spec, market.WithSpot(s), asOf)
		if err != nil {
			return nil, fmt.Errorf("spot[%d]=%g: %w", i, s, err)
		}
		p := Point{Spot: s, Price: price, Payoff: pricing.Payoff(spec, s)}
		logger.Tracef("spot=%.4f price=%.6f payoff=%.6f", p.Spot, p.Price, p.Payoff)
		c.Points = append(c.Points, p)
	}

	return c, nil
}

// Spots returns the x-axis values.
func (c *Curve) Spots() []float64 {
	return c.column(func(p Point) float64 { return p.Spot })
}

// Prices returns the present values, parallel to Spots.
func (c *Curve) Prices() []float64 {
	return c.column(func(p Point) float64 { return p.Price })
}

// Payoffs returns the terminal payoffs, parallel to Spots.
func (c *Curve) Payoffs() []float64 {
	return c.column(func(p Point) float64 { return p.Payoff })
}

// TimeValue returns price minus payoff at each spot.
func (c *Curve) TimeValue() []float64 {
	return c.column(func(p Point) float64 { return p.Price - p.Payoff })
}

func (c *Curve) column(f func(Point) float64) []float64 {
	out := make([]float64, len(c.Points))
	for i, p := range c.Points {
		out[i] = f(p)
	}
	return out
}
