package scheduler

import (
	"context"
	"time"

	"contentpulse/internal/automation"
	"contentpulse/pkg/logging"
	"contentpulse/pkg/models"
)

// Scheduler drives the automation pass on a fixed interval. The processor
// itself is stateless; overlapping triggers are safe because claims are
// atomic, so the ticker never needs to coordinate with manual invocations.
type Scheduler struct {
	logger    logging.Logger
	processor *automation.Processor
	interval  time.Duration
	ticker    *time.Ticker
	stopChan  chan bool
}

// NewScheduler creates a scheduler instance
func NewScheduler(processor *automation.Processor, interval time.Duration, logger logging.Logger) *Scheduler {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Scheduler{
		logger:    logger,
		processor: processor,
		interval:  interval,
		stopChan:  make(chan bool),
	}
}

// Start begins the periodic automation passes
func (s *Scheduler) Start() {
	s.logger.WithFields(logging.Fields{
		"interval": s.interval,
	}).Info("Starting automation scheduler")

	s.ticker = time.NewTicker(s.interval)
	go s.runPasses()
}

// Stop stops the scheduled passes
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping automation scheduler")

	if s.ticker != nil {
		s.ticker.Stop()
	}

	close(s.stopChan)
}

func (s *Scheduler) runPasses() {
	for {
		select {
		case <-s.ticker.C:
			s.logger.Debug("Running scheduled automation pass")
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
			result := s.processor.Run(ctx)
			cancel()
			if result.Processed() == 0 && len(result.Errors) > 0 {
				s.logger.WithField("errors", result.Errors).Error("Scheduled automation pass failed")
			}
		case <-s.stopChan:
			s.logger.Info("Stopping automation pass runner")
			return
		}
	}
}

// TriggerPass manually runs one automation pass
func (s *Scheduler) TriggerPass(ctx context.Context) models.AutomationRunResult {
	s.logger.Info("Manually triggering automation pass")
	return s.processor.Run(ctx)
}
