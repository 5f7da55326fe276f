package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/contactkeval/option-pricer/internal/chart"
	"github.com/contactkeval/option-pricer/internal/config"
	"github.com/contactkeval/option-pricer/internal/data"
	"github.com/contactkeval/option-pricer/internal/engine"
	"github.com/contactkeval/option-pricer/internal/logger"
	"github.com/contactkeval/option-pricer/internal/pricing"
	"github.com/contactkeval/option-pricer/internal/report"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "option-pricer",
		Short:         "Price a European option with Black-Scholes and chart price and payoff across spot prices",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          run,
	}

	f := cmd.Flags()
	f.String("config", "", "path to YAML or JSON config")
	f.String("env-file", ".env", "dotenv file with POLYGON_API_KEY")
	f.String("ticker", "", "underlying ticker used to look up the reference spot")
	f.String("kind", "", "option kind: call or put")
	f.Float64("strike", 0, "strike price (0 = at the money)")
	f.Float64("spot", 0, "reference spot price")
	f.Float64("vol", 0, "annualized volatility, e.g. 0.2")
	f.Float64("rate", 0, "risk-free rate, e.g. 0.05")
	f.Float64("dividend", 0, "dividend yield, e.g. 0.01")
	f.String("as-of", "", "valuation date YYYY-MM-DD (default today)")
	f.String("expiry", "", "expiry date YYYY-MM-DD")
	f.Int("points", 0, "number of spot prices in the sweep")
	f.String("out", "", "output directory")
	f.String("chart", "", "chart file name inside the output directory")
	f.Bool("no-chart", false, "skip rendering the chart")
	f.CountP("verbose", "v", "increase log verbosity (repeatable)")
	return cmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		logger.Errorf("%v", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	start := time.Now()

	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if err := applyFlags(cmd, cfg); err != nil {
		return err
	}
	logger.SetVerbosity(cfg.Verbosity)

	envFile, _ := cmd.Flags().GetString("env-file")
	if err := godotenv.Load(envFile); err != nil {
		logger.Debugf("no env file loaded from %s: %v", envFile, err)
	}

	// choose provider
	var prov data.Provider
	if cfg.Underlying != "" {
		apiKey := os.Getenv("POLYGON_API_KEY")
		if apiKey == "" {
			logger.Warnf("POLYGON_API_KEY not set, reference spot for %s comes from local data or config", cfg.Underlying)
		}
		prov = data.NewProvider(apiKey, cfg.DataDir, cfg.Spot)
	}

	res, err := engine.NewEngine(cfg, prov).Run(context.Background())
	if err != nil {
		return fmt.Errorf("pricing failed: %w", err)
	}

	report.PrintTable(cmd.OutOrStdout(), res.Curve, cfg.TableRows)

	// write outputs to cfg.OutputDir
	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		return fmt.Errorf("could not create output dir %s: %w", cfg.OutputDir, err)
	}
	if err := report.WriteJSON(res.Curve, cfg.OutputDir); err != nil {
		return fmt.Errorf("write json: %w", err)
	}
	if err := report.WriteCSV(res.Curve, cfg.OutputDir); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}

	noChart, _ := cmd.Flags().GetBool("no-chart")
	if cfg.Chart != "" && !noChart {
		path := filepath.Join(cfg.OutputDir, cfg.Chart)
		if err := chart.Render(res.Curve, path, chart.DefaultOptions()); err != nil {
			return fmt.Errorf("render chart: %w", err)
		}
		logger.Infof("chart written to %s", path)
	}

	logger.Infof("finished in %v, wrote %d points to %s", time.Since(start), len(res.Curve.Points), cfg.OutputDir)
	return nil
}

// applyFlags overrides config values with the flags set on the command line.
func applyFlags(cmd *cobra.Command, cfg *config.Config) error {
	f := cmd.Flags()

	if f.Changed("kind") {
		s, _ := f.GetString("kind")
		kind, err := pricing.ParseKind(s)
		if err != nil {
			return err
		}
		cfg.Kind = kind
	}

	stringFlags := map[string]*string{
		"ticker": &cfg.Underlying,
		"as-of":  &cfg.AsOf,
		"expiry": &cfg.Expiry,
		"out":    &cfg.OutputDir,
		"chart":  &cfg.Chart,
	}
	for name, dst := range stringFlags {
		if f.Changed(name) {
			*dst, _ = f.GetString(name)
		}
	}

	floatFlags := map[string]*float64{
		"strike":   &cfg.Strike,
		"spot":     &cfg.Spot,
		"vol":      &cfg.Volatility,
		"rate":     &cfg.Rate,
		"dividend": &cfg.Dividend,
	}
	for name, dst := range floatFlags {
		if f.Changed(name) {
			*dst, _ = f.GetFloat64(name)
		}
	}

	if f.Changed("points") {
		cfg.Points, _ = f.GetInt("points")
	}
	if f.Changed("verbose") {
		v, _ := f.GetCount("verbose")
		cfg.Verbosity += v
	}
	return nil
}
