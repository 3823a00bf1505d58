package automation

import (
	"context"
	"fmt"
	"time"

	"contentpulse/internal/metrics"
	"contentpulse/pkg/logging"
	"contentpulse/pkg/models"
)

// ContentStore is the slice of the content store the processor needs. Claim
// must be atomic: it succeeds for at most one caller per due item, so two
// overlapping runs cannot both deliver the same content.
type ContentStore interface {
	ListDue(ctx context.Context, now time.Time) ([]models.ContentItem, error)
	Claim(ctx context.Context, id string, runAt time.Time) (bool, error)
	MarkPosted(ctx context.Context, id string, runAt time.Time, result string) error
	MarkFailed(ctx context.Context, id string, runAt time.Time, result string) error
}

// Processor runs one automation pass: query due items, claim each one, hand it
// to the delivery sink, and record the outcome. Safe to invoke repeatedly; a
// second immediate run finds nothing due and does nothing.
type Processor struct {
	store   ContentStore
	sink    Sink
	logger  logging.Logger
	metrics *metrics.Metrics

	// now is swappable for tests
	now func() time.Time
}

// NewProcessor creates a batch processor. metrics may be nil.
func NewProcessor(store ContentStore, sink Sink, logger logging.Logger, m *metrics.Metrics) *Processor {
	return &Processor{
		store:   store,
		sink:    sink,
		logger:  logger,
		metrics: m,
		now:     time.Now,
	}
}

// Run executes one automation pass. Per-item failures are recorded on the item
// and in the run result but never abort the loop; only a failure to list due
// items short-circuits the run.
func (p *Processor) Run(ctx context.Context) models.AutomationRunResult {
	start := p.now()
	result := models.AutomationRunResult{
		ProcessedIDs: []string{},
		Errors:       []string{},
	}

	due, err := p.store.ListDue(ctx, start)
	if err != nil {
		p.logger.WithError(err).Error("Automation pass aborted: cannot list due content")
		result.Errors = append(result.Errors, err.Error())
		p.observeRun(result, start)
		return result
	}

	p.logger.WithField("due_count", len(due)).Info("Starting automation pass")

	for _, item := range due {
		p.processItem(ctx, item, &result)
	}

	p.logger.WithFields(logging.Fields{
		"processed": result.Processed(),
		"failed":    result.FailedCount,
	}).Info("Automation pass finished")
	p.observeRun(result, start)
	return result
}

// processItem claims, delivers and records a single due item. Any error or
// panic is converted into a failed status plus a run error; control always
// returns to the caller so the rest of the batch proceeds.
func (p *Processor) processItem(ctx context.Context, item models.ContentItem, result *models.AutomationRunResult) {
	runAt := p.now()

	claimed, err := p.store.Claim(ctx, item.ID, runAt)
	if err != nil {
		p.recordFailure(ctx, item, runAt, result, fmt.Errorf("claim failed: %w", err))
		return
	}
	if !claimed {
		// Another run got there first, or the item left the due set between
		// the list and the claim. Not a failure.
		p.logger.WithField("content_id", item.ID).Debug("Item already claimed, skipping")
		return
	}

	if err := p.deliver(ctx, item); err != nil {
		p.recordFailure(ctx, item, runAt, result, err)
		return
	}

	message := fmt.Sprintf("posted to %d channel(s) at %s", len(item.Channels), runAt.UTC().Format(time.RFC3339))
	if err := p.store.MarkPosted(ctx, item.ID, runAt, message); err != nil {
		p.recordFailure(ctx, item, runAt, result, fmt.Errorf("delivered but failed to record outcome: %w", err))
		return
	}

	result.ProcessedIDs = append(result.ProcessedIDs, item.ID)
	if p.metrics != nil {
		p.metrics.ItemsProcessed.WithLabelValues("posted").Inc()
	}
}

// deliver invokes the sink once per channel, converting panics into errors so
// a misbehaving sink cannot take down the batch.
func (p *Processor) deliver(ctx context.Context, item models.ContentItem) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("delivery panic: %v", r)
		}
	}()

	if len(item.Channels) == 0 {
		return fmt.Errorf("no delivery channels configured on content %s", item.ID)
	}

	for _, channel := range item.Channels {
		if err := p.sink.Deliver(ctx, item, channel); err != nil {
			return err
		}
	}
	return nil
}

func (p *Processor) recordFailure(ctx context.Context, item models.ContentItem, runAt time.Time, result *models.AutomationRunResult, cause error) {
	p.logger.WithError(cause).WithField("content_id", item.ID).Error("Failed to process due content")

	if err := p.store.MarkFailed(ctx, item.ID, runAt, cause.Error()); err != nil {
		p.logger.WithError(err).WithField("content_id", item.ID).Error("Failed to record failure status")
	}

	result.FailedCount++
	result.Errors = append(result.Errors, cause.Error())
	if p.metrics != nil {
		p.metrics.ItemsProcessed.WithLabelValues("failed").Inc()
	}
}

func (p *Processor) observeRun(result models.AutomationRunResult, start time.Time) {
	if p.metrics == nil {
		return
	}
	outcome := "success"
	if result.Processed() == 0 && len(result.Errors) > 0 {
		outcome = "error"
	}
	p.metrics.AutomationRuns.WithLabelValues(outcome).Inc()
	p.metrics.RunDuration.WithLabelValues().Observe(p.now().Sub(start).Seconds())
}
