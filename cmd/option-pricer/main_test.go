package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contactkeval/option-pricer/internal/config"
	"github.com/contactkeval/option-pricer/internal/pricing"
	"github.com/contactkeval/option-pricer/internal/report"
)

func TestApplyFlags(t *testing.T) {
	cmd := newRootCmd()
	require.NoError(t, cmd.ParseFlags([]string{
		"--kind", "PUT", "--strike", "90", "--vol", "0.3", "--expiry", "2026-03-20", "--points", "11", "-vv",
	}))

	cfg := config.Default()
	require.NoError(t, applyFlags(cmd, cfg))

	assert.Equal(t, pricing.Put, cfg.Kind)
	assert.Equal(t, 90.0, cfg.Strike)
	assert.Equal(t, 0.3, cfg.Volatility)
	assert.Equal(t, 0.05, cfg.Rate, "flags left unset keep config values")
	assert.Equal(t, "2026-03-20", cfg.Expiry)
	assert.Equal(t, 11, cfg.Points)
	assert.Equal(t, 3, cfg.Verbosity)
}

func TestApplyFlagsRejectsUnknownKind(t *testing.T) {
	cmd := newRootCmd()
	require.NoError(t, cmd.ParseFlags([]string{"--kind", "condor"}))
	assert.ErrorIs(t, applyFlags(cmd, config.Default()), pricing.ErrInvalidInput)
}

func TestRunWritesOutputs(t *testing.T) {
	out := t.TempDir()
	var stdout bytes.Buffer

	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetArgs([]string{
		"--as-of", "2025-01-02", "--expiry", "2025-07-02",
		"--points", "21", "--out", out, "--chart", "curve.svg",
		"--env-file", filepath.Join(out, "missing.env"),
	})
	require.NoError(t, cmd.Execute())

	assert.Contains(t, stdout.String(), "call K=100.00 expiry=2025-07-02")
	for _, name := range []string{report.CSVFile, report.JSONFile, "curve.svg"} {
		_, err := os.Stat(filepath.Join(out, name))
		assert.NoError(t, err, name)
	}
}
