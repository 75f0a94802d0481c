package worker

import (
	"context"
	"encoding/json"
	"os"
	"sync"
	"time"

	"cexwatch/promoworker/helpers"
	"cexwatch/promoworker/services/publisher"
)

// Source produces records for one provider stream per poll cycle.
type Source interface {
	// GetName identifies the source in logs, e.g. "BybitPromos"
	GetName() string
	// GetProvider is the stream record key, e.g. "promo:bybit"
	GetProvider() string
	// FetchRecords returns the current batch of records
	FetchRecords(ctx context.Context) ([]interface{}, error)
}

// Worker polls all sources on an interval and publishes their records.
type Worker struct {
	ctx          context.Context
	sources      []Source
	publisher    publisher.Publisher
	logger       helpers.LoggerInterface
	pollInterval time.Duration
}

// NewWorker creates a new worker
func NewWorker(
	ctx context.Context,
	sources []Source,
	pub publisher.Publisher,
	logger helpers.LoggerInterface,
	pollInterval time.Duration,
) *Worker {
	return &Worker{
		ctx:          ctx,
		sources:      sources,
		publisher:    pub,
		logger:       logger,
		pollInterval: pollInterval,
	}
}

// Start runs poll cycles until the context is cancelled.
func (w *Worker) Start() error {
	for {
		start := time.Now()
		w.runSources()
		elapsed := time.Since(start)
		if os.Getenv("PROMO_ENVIRONMENT") != "production" {
			w.logger.LogInfo("Poll cycle took %s", elapsed)
		}

		select {
		case <-w.ctx.Done():
			return w.ctx.Err()
		case <-time.After(w.pollInterval):
		}
	}
}

// runSources polls every source in parallel, then trims the streams.
// Sources share nothing, so a slow exchange only delays its own slot.
func (w *Worker) runSources() {
	var wg sync.WaitGroup
	for _, s := range w.sources {
		wg.Add(1)
		go func(s Source) {
			defer wg.Done()
			w.fetchAndPublish(s)
		}(s)
	}
	wg.Wait()

	if err := w.publisher.TrimStreams(); err != nil {
		w.logger.LogError("StreamTrimming", err)
	}
}

// fetchAndPublish fetches one source's batch and publishes each record
// individually under the provider key.
func (w *Worker) fetchAndPublish(s Source) {
	sourceName := s.GetName()

	records, err := s.FetchRecords(w.ctx)
	if err != nil {
		w.logger.LogError(sourceName, err)
		return
	}

	for i, record := range records {
		data, err := json.Marshal(record)
		if err != nil {
			w.logger.LogError(sourceName, err)
			return
		}

		if err := w.publisher.Publish(s.GetProvider(), data); err != nil {
			w.logger.LogError(sourceName, err)
		}

		if i == 0 {
			w.logFirstRecord(sourceName, data)
		}
	}
}

// logFirstRecord samples the batch in non-production environments so a
// glance at the logs shows the record shape without flooding them.
func (w *Worker) logFirstRecord(sourceName string, data []byte) {
	if os.Getenv("PROMO_ENVIRONMENT") == "production" {
		return
	}

	var loggable map[string]interface{}
	if err := json.Unmarshal(data, &loggable); err != nil {
		w.logger.LogError(sourceName, err)
		return
	}
	if _, exists := loggable["icon"]; exists {
		loggable["icon"] = "OK"
	}
	// The audit object can be large and carries its own image data
	if _, exists := loggable["raw_data"]; exists {
		loggable["raw_data"] = "..."
	}

	sample, err := json.Marshal(loggable)
	if err != nil {
		w.logger.LogError(sourceName, err)
		return
	}
	w.logger.LogInfo("[%s] Sample record: %s", sourceName, string(sample))
}
