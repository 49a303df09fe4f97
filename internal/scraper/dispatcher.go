package scraper

import (
	"context"
	"time"

	"sjsage522/deliveryscraper/helpers"
	"sjsage522/deliveryscraper/logger"
)

// DefaultWorkers is the number of postal codes fetched concurrently
const DefaultWorkers = 10

// PostalScraper scrapes one postal code
type PostalScraper interface {
	Scrape(ctx context.Context, postalCode string) Result
}

// ProgressFunc is called once per completed postal code, in completion order
type ProgressFunc func(done, total int, r Result)

// Dispatcher fans postal codes out over a bounded worker pool
type Dispatcher struct {
	Scraper  PostalScraper
	Workers  int
	Interval time.Duration
}

// Run scrapes every code and concatenates the records in completion order
func (d *Dispatcher) Run(ctx context.Context, codes []string, progress ProgressFunc) []RestaurantRecord {
	return Combine(d.Collect(ctx, codes, progress))
}

// Collect scrapes every code and returns the per-code results in completion
// order. A failing code never stops the others. progress is only ever
// invoked from the collecting goroutine.
func (d *Dispatcher) Collect(ctx context.Context, codes []string, progress ProgressFunc) []Result {
	workers := d.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}

	log := logger.ForDispatcher()
	log.Info().Int("postal_codes", len(codes)).Int("workers", workers).Msg("Dispatching postal codes")

	resultChan := make(chan Result, workers)
	pool := helpers.NewWorkerPool(workers, d.Interval)

	go func() {
		for _, code := range codes {
			code := code
			pool.Submit(func() {
				resultChan <- d.Scraper.Scrape(ctx, code)
			})
		}
		pool.Wait()
		close(resultChan)
	}()

	results := make([]Result, 0, len(codes))
	for r := range resultChan {
		results = append(results, r)
		if progress != nil {
			progress(len(results), len(codes), r)
		}
	}

	log.Info().Int("postal_codes", len(results)).Msg("All postal codes completed")
	return results
}

// Combine concatenates the records of results in order
func Combine(results []Result) []RestaurantRecord {
	var records []RestaurantRecord
	for _, r := range results {
		records = append(records, r.Records...)
	}
	return records
}
