package worker

import (
	"context"
	"encoding/json"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"sjsage522/deliveryscraper/config"
	"sjsage522/deliveryscraper/helpers"
	"sjsage522/deliveryscraper/internal/scraper"
	"sjsage522/deliveryscraper/logger"
	"sjsage522/deliveryscraper/services/publisher"
	"sjsage522/deliveryscraper/services/report"
	"sjsage522/deliveryscraper/services/storage"
)

// Sink receives the aggregated city table of every run
type Sink interface {
	WriteTable(ctx context.Context, runID, city string, t storage.Table) error
}

// TableWriter writes a table to a file path
type TableWriter interface {
	scraper.TableWriter
	Write(path string, t storage.Table) error
}

// Dependencies are the collaborators of a Worker. Publisher and Sink are optional.
type Dependencies struct {
	Resolver  scraper.RangeResolver
	Fetcher   scraper.StateFetcher
	Writer    TableWriter
	Publisher publisher.Publisher
	Sink      Sink
}

// Worker runs a whole city scrape: resolve, dispatch, aggregate, write, publish
type Worker struct {
	cfg  *config.Config
	deps Dependencies
	now  func() time.Time

	// OnProgress, when set, is called after each postal code completes
	OnProgress scraper.ProgressFunc
}

// NewWorker creates a new worker
func NewWorker(cfg *config.Config, deps Dependencies) *Worker {
	return &Worker{
		cfg:  cfg,
		deps: deps,
		now:  time.Now,
	}
}

func (w *Worker) postalWorker(run scraper.RunInfo) *scraper.Worker {
	return &scraper.Worker{
		Fetcher: w.deps.Fetcher,
		Writer:  w.deps.Writer,
		Run:     run,
		Retry: helpers.RetryConfig{
			MaxAttempts: w.cfg.MaxRetries,
			BaseDelay:   w.cfg.RetryBaseDelay,
			Logger:      logger.ForFetcher(),
		},
	}
}

// Run scrapes every postal code of city. Only an unresolvable city, a failed
// aggregation or an unwritable city table abort the run; single postal codes
// failing are counted in the summary.
func (w *Worker) Run(ctx context.Context, city string) (report.Summary, error) {
	start := w.now()
	log := logger.ForWorker().WithField("city", city)

	pr, err := w.deps.Resolver.ResolvePostalRange(ctx, city)
	if err != nil {
		return report.Summary{}, err
	}

	codes := scraper.ExpandRange(pr, w.cfg.PostalCodeWidth)
	if len(codes) == 0 {
		log.Warn().Int("lower", pr.Lower).Int("upper", pr.Upper).Msg("Postal range is empty")
	}

	run := scraper.NewRunInfo(w.cfg.OutputDir, pr.City, start)
	dispatcher := &scraper.Dispatcher{
		Scraper:  w.postalWorker(run),
		Workers:  w.cfg.Workers,
		Interval: w.cfg.RequestInterval,
	}

	results := dispatcher.Collect(ctx, codes, w.progress)

	records := scraper.Combine(results)
	aggregated, err := scraper.Aggregate(records)
	if err != nil {
		return report.Summary{}, err
	}

	table := scraper.AggregatedTable(aggregated)
	if err := w.deps.Writer.Write(run.CityFile(), table); err != nil {
		return report.Summary{}, err
	}

	runID := filepath.Base(run.Dir)
	w.publish(runID, aggregated)
	w.store(ctx, runID, pr.City, table)

	summary := report.Summary{
		City:              pr.City,
		LowerBound:        pr.Lower,
		UpperBound:        pr.Upper,
		PostalCodes:       len(codes),
		TotalRows:         len(aggregated),
		UniqueRestaurants: scraper.UniqueIDs(aggregated),
		OutputFile:        run.CityFile(),
		Elapsed:           time.Since(start),
	}
	for _, r := range results {
		if r.Err != nil {
			summary.Failed++
		}
		if len(r.Records) > 0 {
			summary.Covered++
		}
	}

	log.Info().
		Int("rows", summary.TotalRows).
		Int("unique_restaurants", summary.UniqueRestaurants).
		Int("failed", summary.Failed).
		Str("file", summary.OutputFile).
		Msg("City scrape finished")

	return summary, nil
}

// RunPostal scrapes a single postal code into its own run directory
func (w *Worker) RunPostal(ctx context.Context, label, postalCode string) scraper.Result {
	run := scraper.NewRunInfo(w.cfg.OutputDir, label, w.now())
	return w.postalWorker(run).Scrape(ctx, postalCode)
}

func (w *Worker) progress(done, total int, r scraper.Result) {
	log := logger.ForDispatcher()
	var event *zerolog.Event
	if r.Err != nil {
		event = log.Warn().Err(r.Err)
	} else {
		event = log.Info()
	}
	event.
		Int("done", done).
		Int("total", total).
		Str("postal_code", r.PostalCode).
		Int("restaurants", len(r.Records)).
		Msg("Postal code completed")

	if w.OnProgress != nil {
		w.OnProgress(done, total, r)
	}
}

// publish pushes every aggregated row to the publisher; failures are logged
func (w *Worker) publish(runID string, records []scraper.AggregatedRecord) {
	if w.deps.Publisher == nil || len(records) == 0 {
		return
	}
	log := logger.ForPublisher().WithField("run", runID)

	published := 0
	for _, r := range records {
		data, err := json.Marshal(r)
		if err != nil {
			log.Error().Err(err).Str("restaurant_id", r.ID).Msg("Failed to encode record")
			continue
		}
		if err := w.deps.Publisher.Publish(runID, data); err != nil {
			logger.LogError("publisher", err, "Failed to publish run %s", runID)
			return
		}
		published++
	}

	if err := w.deps.Publisher.TrimStreams(); err != nil {
		logger.LogError("publisher", err, "Failed to trim streams after run %s", runID)
	}
	log.Info().Int("records", published).Msg("Records published")
}

func (w *Worker) store(ctx context.Context, runID, city string, table scraper.AggregatedTable) {
	if w.deps.Sink == nil || len(table) == 0 {
		return
	}
	if err := w.deps.Sink.WriteTable(ctx, runID, city, table); err != nil {
		logger.LogError("storage", err, "Failed to store city table for run %s", runID)
		return
	}
	logger.ForStorage().Info().Str("run", runID).Int("rows", len(table)).Msg("City table stored")
}
