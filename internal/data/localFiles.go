package data

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gocarina/gocsv"

	"github.com/contactkeval/option-pricer/internal/logger"
)

// localFileDataProvider reads daily closes from <dir>/<UNDERLYING>.csv.
// The file needs "date" (YYYY-MM-DD) and "close" columns; other columns
// are ignored.
type localFileDataProvider struct {
	dir       string
	secondary Provider
}

type csvBar struct {
	Date  string  `csv:"date"`
	Close float64 `csv:"close"`
}

// NewLocalFileDataProvider convenience constructor.
func NewLocalFileDataProvider(dir string, secondary Provider) *localFileDataProvider {
	return &localFileDataProvider{dir: dir, secondary: secondary}
}

func (localFileDataProv *localFileDataProvider) Name() string { return "local:" + localFileDataProv.dir }

func (localFileDataProv *localFileDataProvider) Secondary() Provider {
	return localFileDataProv.secondary
}

// LatestClose returns the last bar dated on or before asOf.
func (localFileDataProv *localFileDataProvider) LatestClose(ctx context.Context, underlying string, asOf time.Time) (Bar, error) {
	bar, err := localFileDataProv.latestClose(underlying, asOf)
	if err != nil {
		return fallback(ctx, localFileDataProv, underlying, asOf, err)
	}
	return bar, nil
}

func (localFileDataProv *localFileDataProvider) latestClose(underlying string, asOf time.Time) (Bar, error) {
	path := filepath.Join(localFileDataProv.dir, strings.ToUpper(underlying)+".csv")
	logger.Debugf("reading closes from %s", path)

	f, err := os.Open(path)
	if err != nil {
		return Bar{}, fmt.Errorf("open bars file: %w", err)
	}
	defer f.Close()

	var rows []*csvBar
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		return Bar{}, fmt.Errorf("read %s: %w", path, err)
	}

	cutoff := calendarDate(asOf)
	var best Bar
	for _, row := range rows {
		d, err := time.Parse("2006-01-02", strings.TrimSpace(row.Date))
		if err != nil {
			logger.Tracef("skipping malformed date %q in %s", row.Date, path)
			continue
		}
		if d.After(cutoff) || !usable(row.Close) {
			continue
		}
		if best.Date.IsZero() || d.After(best.Date) {
			best = Bar{Date: d, Close: row.Close, Source: localFileDataProv.Name()}
		}
	}

	if best.Date.IsZero() {
		return Bar{}, fmt.Errorf("%w: %s has no close on or before %s", ErrNoData, path, cutoff.Format("2006-01-02"))
	}
	return best, nil
}
