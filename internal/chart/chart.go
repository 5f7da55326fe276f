// Package chart renders an option curve as a line chart of price and
// payoff against the underlying spot price.
package chart

import (
	"fmt"
	"image/color"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/contactkeval/option-pricer/internal/curve"
	"github.com/contactkeval/option-pricer/internal/logger"
)

const (
	XLabel = "Underlying Spot Price"
	YLabel = "Value"
)

var (
	priceColor  = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	payoffColor = color.RGBA{R: 255, G: 127, B: 14, A: 255}
	strikeColor = color.RGBA{R: 128, G: 128, B: 128, A: 255}
)

// Options controls the rendered image.
type Options struct {
	Title  string
	Width  vg.Length
	Height vg.Length
}

// DefaultOptions matches a 10x6 inch figure.
func DefaultOptions() Options {
	return Options{Width: 10 * vg.Inch, Height: 6 * vg.Inch}
}

// Build assembles the plot without writing it anywhere.
func Build(c *curve.Curve, opts Options) (*plot.Plot, error) {
	if len(c.Points) < 2 {
		return nil, fmt.Errorf("chart needs at least 2 points, got %d", len(c.Points))
	}

	p := plot.New()
	p.Title.Text = opts.Title
	if p.Title.Text == "" {
		p.Title.Text = fmt.Sprintf("European %s, strike %.2f", c.Spec.Kind, c.Spec.Strike)
	}
	p.X.Label.Text = XLabel
	p.Y.Label.Text = YLabel
	p.Legend.Top = true
	p.Legend.Left = true
	p.Add(plotter.NewGrid())

	spots := c.Spots()
	price, err := line(spots, c.Prices(), priceColor)
	if err != nil {
		return nil, fmt.Errorf("price line: %w", err)
	}
	payoff, err := line(spots, c.Payoffs(), payoffColor)
	if err != nil {
		return nil, fmt.Errorf("payoff line: %w", err)
	}
	payoff.LineStyle.Dashes = []vg.Length{vg.Points(6), vg.Points(3)}

	p.Add(price, payoff)
	p.Legend.Add("Option Price", price)
	p.Legend.Add("Payoff", payoff)

	if lo, hi := spots[0], spots[len(spots)-1]; c.Spec.Strike >= lo && c.Spec.Strike <= hi {
		strike, err := strikeMarker(c)
		if err != nil {
			return nil, fmt.Errorf("strike marker: %w", err)
		}
		p.Add(strike)
		p.Legend.Add("Strike", strike)
	}

	return p, nil
}

// Render writes the chart to path. The image format follows the file
// extension (png, svg, pdf, ...).
func Render(c *curve.Curve, path string, opts Options) error {
	if opts.Width == 0 || opts.Height == 0 {
		def := DefaultOptions()
		opts.Width, opts.Height = def.Width, def.Height
	}
	if filepath.Ext(path) == "" {
		return fmt.Errorf("chart path %q has no image extension", path)
	}

	p, err := Build(c, opts)
	if err != nil {
		return err
	}

	logger.Debugf("rendering %s chart to %s", strings.TrimPrefix(filepath.Ext(path), "."), path)
	if err := p.Save(opts.Width, opts.Height, path); err != nil {
		return fmt.Errorf("save chart: %w", err)
	}
	return nil
}

func line(xs, ys []float64, c color.Color) (*plotter.Line, error) {
	pts := make(plotter.XYs, len(xs))
	for i := range xs {
		pts[i].X = xs[i]
		pts[i].Y = ys[i]
	}
	l, err := plotter.NewLine(pts)
	if err != nil {
		return nil, err
	}
	l.LineStyle.Color = c
	l.LineStyle.Width = vg.Points(1.5)
	return l, nil
}

// strikeMarker draws a vertical line at the strike spanning the value range.
func strikeMarker(c *curve.Curve) (*plotter.Line, error) {
	top := 0.0
	for _, p := range c.Points {
		top = max(top, p.Price, p.Payoff)
	}
	l, err := plotter.NewLine(plotter.XYs{{X: c.Spec.Strike, Y: 0}, {X: c.Spec.Strike, Y: top}})
	if err != nil {
		return nil, err
	}
	l.LineStyle.Color = strikeColor
	l.LineStyle.Dashes = []vg.Length{vg.Points(2), vg.Points(2)}
	return l, nil
}
