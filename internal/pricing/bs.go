package pricing

import (
	"errors"
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/stat/distuv"
)

// ErrInvalidInput is returned (wrapped) for inputs the closed form cannot price.
var ErrInvalidInput = errors.New("invalid input")

// daysPerYear is the Actual/365 Fixed denominator.
const daysPerYear = 365.0

// OptionSpec describes a European vanilla option contract.
type OptionSpec struct {
	Strike float64   `json:"strike"`
	Expiry time.Time `json:"expiry"`
	Kind   Kind      `json:"kind"`
}

// MarketState holds the market inputs for a single pricing call.
// Volatility, Rate and Dividend are annualized decimals.
type MarketState struct {
	Spot       float64 `json:"spot"`
	Volatility float64 `json:"volatility"`
	Rate       float64 `json:"rate"`
	Dividend   float64 `json:"dividend"`
}

// WithSpot returns a copy of the market state with the spot replaced.
func (m MarketState) WithSpot(spot float64) MarketState {
	m.Spot = spot
	return m
}

// YearFraction returns the Actual/365 Fixed year fraction between the
// calendar dates of from and to. Time of day is ignored; the result is
// negative when to falls before from.
func YearFraction(from, to time.Time) float64 {
	f := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	t := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	days := math.Round(t.Sub(f).Hours() / 24)
	return days / daysPerYear
}

// TimeToExpiry returns the year fraction from asOf to the option's expiry.
func (s OptionSpec) TimeToExpiry(asOf time.Time) float64 {
	return YearFraction(asOf, s.Expiry)
}

// Price values the option as of the given valuation date.
func Price(spec OptionSpec, market MarketState, asOf time.Time) (float64, error) {
	return BlackScholesPrice(
		spec.Kind,
		market.Spot,
		spec.Strike,
		spec.TimeToExpiry(asOf),
		market.Rate,
		market.Dividend,
		market.Volatility,
	)
}

// BlackScholesPrice calculates the price of a European option using the
// Black-Scholes model with a continuous dividend yield.
//
// Parameters:
//   - kind: Call or Put
//   - S: spot price of the underlying asset
//   - K: strike price of the option
//   - T: time to expiry in years
//   - r: risk-free interest rate (annual)
//   - q: dividend yield (annual)
//   - sigma: volatility of the underlying asset (annual, as a decimal)
//
// At expiry (T == 0) the payoff is returned. With zero volatility the
// deterministic limit max(0, S*e^(-qT) - K*e^(-rT)) is returned (mirrored
// for puts). Non-positive spot or strike, negative T or sigma and
// non-finite inputs fail with ErrInvalidInput.
func BlackScholesPrice(
	kind Kind,
	S float64, // spot
	K float64, // strike
	T float64, // time to expiry in years
	r float64, // risk-free rate
	q float64, // dividend yield
	sigma float64, // volatility
) (float64, error) {

	if err := validate(kind, S, K, T, r, q, sigma); err != nil {
		return 0, err
	}

	if T == 0 {
		return intrinsic(kind, S, K), nil
	}

	fwdSpot := S * math.Exp(-q*T)
	pvStrike := K * math.Exp(-r*T)

	if sigma == 0 {
		return intrinsic(kind, fwdSpot, pvStrike), nil
	}

	sqrtT := math.Sqrt(T)
	d1 := (math.Log(S/K) + (r-q+0.5*sigma*sigma)*T) / (sigma * sqrtT)
	d2 := d1 - sigma*sqrtT

	var price float64
	if kind == Call {
		price = fwdSpot*normCDF(d1) - pvStrike*normCDF(d2)
	} else {
		price = pvStrike*normCDF(-d2) - fwdSpot*normCDF(-d1)
	}

	// cancellation can leave a tiny negative for far out-of-the-money options
	return math.Max(0, price), nil
}

// Payoff returns the option's value at expiry for the given underlying price.
func Payoff(spec OptionSpec, spotAtExpiry float64) float64 {
	return intrinsic(spec.Kind, spotAtExpiry, spec.Strike)
}

func intrinsic(kind Kind, S, K float64) float64 {
	if kind == Put {
		return math.Max(0, K-S)
	}
	return math.Max(0, S-K)
}

func validate(kind Kind, S, K, T, r, q, sigma float64) error {
	if !kind.Valid() {
		return fmt.Errorf("%w: unknown option kind %d", ErrInvalidInput, int(kind))
	}

	for _, in := range []struct {
		name string
		v    float64
	}{
		{"spot", S}, {"strike", K}, {"time to expiry", T},
		{"rate", r}, {"dividend", q}, {"volatility", sigma},
	} {
		if math.IsNaN(in.v) || math.IsInf(in.v, 0) {
			return fmt.Errorf("%w: %s is not finite", ErrInvalidInput, in.name)
		}
	}

	switch {
	case S <= 0:
		return fmt.Errorf("%w: spot must be positive, got %g", ErrInvalidInput, S)
	case K <= 0:
		return fmt.Errorf("%w: strike must be positive, got %g", ErrInvalidInput, K)
	case T < 0:
		return fmt.Errorf("%w: option expired %g years ago", ErrInvalidInput, -T)
	case sigma < 0:
		return fmt.Errorf("%w: volatility must not be negative, got %g", ErrInvalidInput, sigma)
	}
	return nil
}

// normCDF is the standard normal cumulative distribution function.
func normCDF(x float64) float64 {
	return distuv.UnitNormal.CDF(x)
}
