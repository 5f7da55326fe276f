package report

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contactkeval/option-pricer/internal/curve"
	"github.com/contactkeval/option-pricer/internal/pricing"
	"github.com/contactkeval/option-pricer/internal/testutil"
)

func callCurve(t *testing.T) *curve.Curve {
	t.Helper()
	asOf := time.Date(2025, time.January, 2, 0, 0, 0, 0, time.UTC)
	spec := pricing.OptionSpec{Strike: 100, Expiry: asOf.AddDate(1, 0, 0), Kind: pricing.Call}
	mkt := pricing.MarketState{Spot: 100, Volatility: 0.2, Rate: 0.05}

	c, err := curve.Evaluate(spec, mkt, asOf, []float64{80, 100, 120})
	require.NoError(t, err)
	return c
}

func TestRowsGolden(t *testing.T) {
	testutil.CompareWithGolden(t, "call_curve_rows", Rows(callCurve(t)))
}

func TestWriteCSV(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, WriteCSV(callCurve(t), dir))

	b, err := os.ReadFile(filepath.Join(dir, CSVFile))
	require.NoError(t, err)
	assert.Equal(t,
		"spot,price,payoff\n"+
			"80.00,1.8594,0.0000\n"+
			"100.00,10.4506,0.0000\n"+
			"120.00,26.1690,20.0000\n",
		string(b))
}

func TestWriteJSON(t *testing.T) {
	dir := t.TempDir()
	c := callCurve(t)
	require.NoError(t, WriteJSON(c, dir))

	b, err := os.ReadFile(filepath.Join(dir, JSONFile))
	require.NoError(t, err)

	var got curve.Curve
	require.NoError(t, json.Unmarshal(b, &got))
	assert.Equal(t, pricing.Call, got.Spec.Kind)
	assert.Equal(t, c.Payoffs(), got.Payoffs())
	assert.InDeltaSlice(t, c.Prices(), got.Prices(), 1e-12)
	assert.Contains(t, string(b), `"kind": "call"`)
}

func TestPrintTable(t *testing.T) {
	var buf bytes.Buffer
	PrintTable(&buf, callCurve(t), 0)

	out := buf.String()
	assert.Contains(t, out, "call K=100.00 expiry=2026-01-02 as of 2025-01-02")
	assert.Contains(t, out, "SPOT")
	assert.Contains(t, out, "10.4506")
	assert.Contains(t, out, "20.0000")
}

func TestSample(t *testing.T) {
	assert.Equal(t, []int{0, 1, 2}, sample(3, 0))
	assert.Equal(t, []int{0, 1, 2}, sample(3, 10))
	assert.Equal(t, []int{0, 25, 50, 75, 100}, sample(101, 5))
	assert.Equal(t, []int{0}, sample(101, 1))
}
