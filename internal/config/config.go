// Package config holds the run parameters. Defaults reproduce the classic
// example: a one-year at-the-money call at 20% volatility and 5% rates,
// swept from 50 to 150.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/contactkeval/option-pricer/internal/pricing"
)

const dateLayout = "2006-01-02"

// Config struct
type Config struct {
	Underlying     string       `yaml:"underlying" json:"underlying,omitempty"`           // e.g. "SPY"; enables reference spot lookup
	Kind           pricing.Kind `yaml:"kind" json:"kind"`                                 // "call" or "put"
	Strike         float64      `yaml:"strike" json:"strike"`                             // 0 = at the money
	StrikeInterval float64      `yaml:"strike_interval" json:"strike_interval,omitempty"` // ATM rounding step
	AsOf           string       `yaml:"as_of" json:"as_of,omitempty"`                     // valuation date, default today
	Expiry         string       `yaml:"expiry" json:"expiry,omitempty"`                   // expiry date, overrides tenor_days
	TenorDays      int          `yaml:"tenor_days" json:"tenor_days,omitempty"`           // days from as_of to expiry
	Spot           float64      `yaml:"spot" json:"spot"`                                 // reference spot when no data source answers
	Volatility     float64      `yaml:"volatility" json:"volatility"`                     // annualized, decimal
	Rate           float64      `yaml:"rate" json:"rate"`                                 // risk-free, continuous
	Dividend       float64      `yaml:"dividend" json:"dividend"`                         // continuous yield
	SpotMin        float64      `yaml:"spot_min" json:"spot_min,omitempty"`               // 0 = spot_band below reference
	SpotMax        float64      `yaml:"spot_max" json:"spot_max,omitempty"`               // 0 = spot_band above reference
	SpotBand       float64      `yaml:"spot_band" json:"spot_band,omitempty"`             // fraction of reference spot
	Points         int          `yaml:"points" json:"points"`                             // sweep size
	DataDir        string       `yaml:"data_dir" json:"data_dir,omitempty"`               // <TICKER>.csv closes
	OutputDir      string       `yaml:"output_dir" json:"output_dir,omitempty"`
	Chart          string       `yaml:"chart" json:"chart,omitempty"` // image file name inside output_dir, "" disables
	TableRows      int          `yaml:"table_rows" json:"table_rows,omitempty"`
	Verbosity      int          `yaml:"verbosity" json:"verbosity,omitempty"` // 0=errors,1=info,2=debug,3=trace
}

// Default returns the built-in parameters.
func Default() *Config {
	return &Config{
		Kind:           pricing.Call,
		Strike:         100,
		StrikeInterval: 1,
		TenorDays:      365,
		Spot:           100,
		Volatility:     0.20,
		Rate:           0.05,
		Dividend:       0,
		SpotBand:       0.5,
		Points:         101,
		OutputDir:      "output",
		Chart:          "option_curve.png",
		TableRows:      11,
		Verbosity:      1,
	}
}

// Load reads a YAML (or JSON) file over the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the parts of the config that are not checked by the
// pricer itself.
func (cfg *Config) Validate() error {
	var errs []error

	if !cfg.Kind.Valid() {
		errs = append(errs, fmt.Errorf("kind must be call or put"))
	}
	if cfg.Strike < 0 {
		errs = append(errs, fmt.Errorf("strike must not be negative, got %g", cfg.Strike))
	}
	if cfg.Strike == 0 && cfg.StrikeInterval < 0 {
		errs = append(errs, fmt.Errorf("strike_interval must not be negative, got %g", cfg.StrikeInterval))
	}
	if cfg.Expiry == "" && cfg.TenorDays < 0 {
		errs = append(errs, fmt.Errorf("tenor_days must not be negative, got %d", cfg.TenorDays))
	}
	if cfg.Points < 2 {
		errs = append(errs, fmt.Errorf("points must be at least 2, got %d", cfg.Points))
	}
	if cfg.SpotMin < 0 || cfg.SpotMax < 0 {
		errs = append(errs, fmt.Errorf("spot range must not be negative"))
	}
	if cfg.SpotMin > 0 && cfg.SpotMax > 0 && cfg.SpotMin >= cfg.SpotMax {
		errs = append(errs, fmt.Errorf("spot_min %g must be below spot_max %g", cfg.SpotMin, cfg.SpotMax))
	}
	if (cfg.SpotMin == 0 || cfg.SpotMax == 0) && (cfg.SpotBand <= 0 || cfg.SpotBand >= 1) {
		errs = append(errs, fmt.Errorf("spot_band must be in (0, 1), got %g", cfg.SpotBand))
	}
	if _, err := parseDate("as_of", cfg.AsOf); err != nil {
		errs = append(errs, err)
	}
	if _, err := parseDate("expiry", cfg.Expiry); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// Dates resolves the valuation and expiry dates. now is used when as_of is
// not set.
func (cfg *Config) Dates(now time.Time) (asOf, expiry time.Time, err error) {
	asOf, err = parseDate("as_of", cfg.AsOf)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if asOf.IsZero() {
		asOf = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	}

	expiry, err = parseDate("expiry", cfg.Expiry)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if expiry.IsZero() {
		expiry = asOf.AddDate(0, 0, cfg.TenorDays)
	}
	return asOf, expiry, nil
}

// ResolveStrike returns the configured strike, or the reference spot
// rounded to the strike interval when the strike is 0 (at the money).
func (cfg *Config) ResolveStrike(refSpot float64) float64 {
	if cfg.Strike > 0 {
		return cfg.Strike
	}
	if cfg.StrikeInterval <= 0 {
		return refSpot
	}
	return math.Round(refSpot/cfg.StrikeInterval) * cfg.StrikeInterval
}

// SpotRange returns the sweep bounds. Unset bounds are derived from the
// reference spot and spot_band.
func (cfg *Config) SpotRange(refSpot float64) (lo, hi float64) {
	lo, hi = cfg.SpotMin, cfg.SpotMax
	if lo == 0 {
		lo = refSpot * (1 - cfg.SpotBand)
	}
	if hi == 0 {
		hi = refSpot * (1 + cfg.SpotBand)
	}
	return lo, hi
}

func parseDate(field, s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s: want YYYY-MM-DD, got %q", field, s)
	}
	return t, nil
}
