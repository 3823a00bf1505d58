package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"contentpulse/internal/automation"
	"contentpulse/internal/store"
	"contentpulse/pkg/logging"
)

func newTestScheduler(interval time.Duration) *Scheduler {
	logger := logging.NewLogger()
	unconfigured := store.NewContentStore(nil, store.ContentStoreConfig{}, logger)
	processor := automation.NewProcessor(unconfigured, automation.NewNoopSink(logger), logger, nil)
	return NewScheduler(processor, interval, logger)
}

func TestNewSchedulerDefaultsInterval(t *testing.T) {
	s := newTestScheduler(0)
	assert.Equal(t, time.Minute, s.interval)

	s = newTestScheduler(-5 * time.Second)
	assert.Equal(t, time.Minute, s.interval)

	s = newTestScheduler(30 * time.Second)
	assert.Equal(t, 30*time.Second, s.interval)
}

func TestSchedulerStartStop(t *testing.T) {
	s := newTestScheduler(time.Hour)
	s.Start()
	s.Stop()
}

func TestTriggerPassWithoutStore(t *testing.T) {
	s := newTestScheduler(time.Hour)

	result := s.TriggerPass(context.Background())
	assert.Equal(t, 0, result.Processed())
	assert.Len(t, result.Errors, 1)
}
