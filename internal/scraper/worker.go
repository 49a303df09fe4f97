package scraper

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"sjsage522/deliveryscraper/helpers"
	"sjsage522/deliveryscraper/internal/state"
	"sjsage522/deliveryscraper/logger"
)

// TimestampLayout names every file of a run
const TimestampLayout = "20060102_150405"

// TableWriter persists one table to path
type TableWriter interface {
	WriteTable(path string, header []string, rows [][]string) error
}

// NewRunInfo derives the run directory {outputDir}/{city}_{timestamp}
func NewRunInfo(outputDir, city string, now time.Time) RunInfo {
	name := helpers.SanitizeFileComponent(city)
	ts := now.Format(TimestampLayout)
	return RunInfo{
		City:      name,
		Timestamp: ts,
		Dir:       filepath.Join(outputDir, fmt.Sprintf("%s_%s", name, ts)),
	}
}

// PostalFile is the path of the intermediate table of one postal code
func (r RunInfo) PostalFile(postalCode string) string {
	return filepath.Join(r.Dir, fmt.Sprintf("%s_%s_%s.csv", r.City, postalCode, r.Timestamp))
}

// CityFile is the path of the aggregated city table
func (r RunInfo) CityFile() string {
	return filepath.Join(r.Dir, fmt.Sprintf("%s_%s.csv", r.City, r.Timestamp))
}

// Worker runs fetch, parse and projection for single postal codes
type Worker struct {
	Fetcher StateFetcher
	Writer  TableWriter
	Retry   helpers.RetryConfig
	Run     RunInfo
}

// Scrape never fails: fetch and parse errors are logged and reported as an
// empty result carrying the cause in Err.
func (w *Worker) Scrape(ctx context.Context, postalCode string) Result {
	start := time.Now()
	log := logger.ForPostalCode(postalCode)
	result := Result{PostalCode: postalCode}

	records, err := w.scrape(ctx, postalCode)
	result.Elapsed = time.Since(start)
	if err != nil {
		log.Warn().Err(err).Dur("elapsed", result.Elapsed).Msg("Postal code yielded no records")
		result.Err = err
		return result
	}

	result.Records = records
	if len(records) == 0 {
		log.Debug().Msg("No restaurants deliver to postal code")
		return result
	}

	if w.Writer != nil {
		path := w.Run.PostalFile(postalCode)
		table := RecordTable(records)
		if err := w.Writer.WriteTable(path, table.Header(), table.Rows()); err != nil {
			log.Error().Err(err).Str("file", path).Msg("Failed to write postal code table")
		} else {
			result.File = path
		}
	}

	log.Info().
		Int("restaurants", len(records)).
		Dur("elapsed", result.Elapsed).
		Msg("Postal code scraped")
	return result
}

func (w *Worker) scrape(ctx context.Context, postalCode string) ([]RestaurantRecord, error) {
	var blob string
	err := w.Retry.Do(ctx, "fetch "+postalCode, func() error {
		var ferr error
		blob, ferr = w.Fetcher.FetchState(ctx, postalCode)
		return ferr
	})
	if err != nil {
		return nil, err
	}

	s, err := state.Parse(blob)
	if err != nil {
		return nil, err
	}
	return ProjectAll(s), nil
}
