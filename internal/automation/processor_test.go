package automation

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contentpulse/pkg/logging"
	"contentpulse/pkg/models"
)

// fakeStore is an in-memory ContentStore tracking status transitions
type fakeStore struct {
	items       map[string]*models.ContentItem
	listErr     error
	claimErr    map[string]error
	claimDenied map[string]bool
}

func newFakeStore(items ...*models.ContentItem) *fakeStore {
	s := &fakeStore{
		items:       map[string]*models.ContentItem{},
		claimErr:    map[string]error{},
		claimDenied: map[string]bool{},
	}
	for _, item := range items {
		s.items[item.ID] = item
	}
	return s
}

func (s *fakeStore) ListDue(_ context.Context, now time.Time) ([]models.ContentItem, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	var due []models.ContentItem
	for _, item := range s.items {
		if item.AutomationEnabled && item.ScheduledAt != nil && !item.ScheduledAt.After(now) &&
			!item.AutomationStatus.IsTerminal() && item.AutomationStatus != models.StatusProcessing {
			due = append(due, *item)
		}
	}
	return due, nil
}

func (s *fakeStore) Claim(_ context.Context, id string, runAt time.Time) (bool, error) {
	if err := s.claimErr[id]; err != nil {
		return false, err
	}
	if s.claimDenied[id] {
		return false, nil
	}
	item := s.items[id]
	item.AutomationStatus = models.StatusProcessing
	item.AutomationLastRunAt = &runAt
	return true, nil
}

func (s *fakeStore) MarkPosted(_ context.Context, id string, runAt time.Time, result string) error {
	item := s.items[id]
	item.AutomationStatus = models.StatusPosted
	item.AutomationLastRunAt = &runAt
	item.AutomationResult = &result
	return nil
}

func (s *fakeStore) MarkFailed(_ context.Context, id string, runAt time.Time, result string) error {
	item := s.items[id]
	item.AutomationStatus = models.StatusFailed
	item.AutomationLastRunAt = &runAt
	item.AutomationResult = &result
	return nil
}

// fakeSink fails or panics for configured content IDs
type fakeSink struct {
	failFor  map[string]error
	panicFor map[string]bool
	calls    []string
}

func (s *fakeSink) Deliver(_ context.Context, item models.ContentItem, channel string) error {
	s.calls = append(s.calls, item.ID+":"+channel)
	if s.panicFor[item.ID] {
		panic("sink exploded")
	}
	if err := s.failFor[item.ID]; err != nil {
		return err
	}
	return nil
}

func dueItem(id string, hoursAgo int) *models.ContentItem {
	at := time.Now().Add(-time.Duration(hoursAgo) * time.Hour)
	return &models.ContentItem{
		ID:                id,
		OrganizationID:    "org-1",
		ContentType:       "post",
		Topic:             "launch",
		Body:              "body",
		Channels:          []string{"linkedin"},
		ScheduledAt:       &at,
		AutomationEnabled: true,
		AutomationStatus:  models.StatusReady,
	}
}

func newTestProcessor(store ContentStore, sink Sink) *Processor {
	logger := logging.NewLoggerWithService("test")
	return NewProcessor(store, sink, logger, nil)
}

func TestRun_SuccessfulDelivery(t *testing.T) {
	store := newFakeStore(dueItem("c1", 1))
	sink := &fakeSink{}
	before := time.Now()

	result := newTestProcessor(store, sink).Run(context.Background())

	assert.Equal(t, []string{"c1"}, result.ProcessedIDs)
	assert.Zero(t, result.FailedCount)
	assert.Empty(t, result.Errors)

	item := store.items["c1"]
	assert.Equal(t, models.StatusPosted, item.AutomationStatus)
	require.NotNil(t, item.AutomationResult)
	assert.NotEmpty(t, *item.AutomationResult)
	require.NotNil(t, item.AutomationLastRunAt)
	assert.False(t, item.AutomationLastRunAt.Before(before), "run timestamp must be fresh")
}

func TestRun_FailureIsolation(t *testing.T) {
	store := newFakeStore(dueItem("c1", 1), dueItem("c2", 2), dueItem("c3", 3))
	sink := &fakeSink{failFor: map[string]error{"c2": errors.New("channel unreachable")}}

	result := newTestProcessor(store, sink).Run(context.Background())

	assert.Len(t, result.ProcessedIDs, 2, "the other items must still be processed")
	assert.Equal(t, 1, result.FailedCount)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "channel unreachable")

	assert.Equal(t, models.StatusFailed, store.items["c2"].AutomationStatus)
	assert.Equal(t, models.StatusPosted, store.items["c1"].AutomationStatus)
	assert.Equal(t, models.StatusPosted, store.items["c3"].AutomationStatus)
}

func TestRun_SinkPanicIsContained(t *testing.T) {
	store := newFakeStore(dueItem("c1", 1), dueItem("c2", 1))
	sink := &fakeSink{panicFor: map[string]bool{"c1": true}}

	result := newTestProcessor(store, sink).Run(context.Background())

	assert.Equal(t, 1, result.FailedCount)
	assert.Len(t, result.ProcessedIDs, 1)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "delivery panic")
	assert.Equal(t, models.StatusFailed, store.items["c1"].AutomationStatus)
}

func TestRun_Idempotent(t *testing.T) {
	store := newFakeStore(dueItem("c1", 1))
	sink := &fakeSink{}
	p := newTestProcessor(store, sink)

	first := p.Run(context.Background())
	assert.Len(t, first.ProcessedIDs, 1)

	second := p.Run(context.Background())
	assert.Zero(t, second.Processed(), "nothing due on the second run")
	assert.Zero(t, second.FailedCount)
	assert.Empty(t, second.Errors)
}

func TestRun_StoreNotConfigured(t *testing.T) {
	store := newFakeStore()
	store.listErr = errors.New("content store not configured: missing table binding")

	result := newTestProcessor(store, &fakeSink{}).Run(context.Background())

	assert.Zero(t, result.Processed())
	assert.Zero(t, result.FailedCount, "a configuration error is not a per-item failure")
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "not configured")
}

func TestRun_ClaimRaceSkipsSilently(t *testing.T) {
	store := newFakeStore(dueItem("c1", 1), dueItem("c2", 1))
	store.claimDenied["c1"] = true
	sink := &fakeSink{}

	result := newTestProcessor(store, sink).Run(context.Background())

	assert.Equal(t, []string{"c2"}, result.ProcessedIDs)
	assert.Zero(t, result.FailedCount, "a lost claim race is not a failure")
	assert.Empty(t, result.Errors)
}

func TestRun_ClaimErrorIsRecorded(t *testing.T) {
	store := newFakeStore(dueItem("c1", 1))
	store.claimErr["c1"] = errors.New("connection reset")

	result := newTestProcessor(store, &fakeSink{}).Run(context.Background())

	assert.Equal(t, 1, result.FailedCount)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "claim failed")
}

func TestRun_NoChannelsIsDefensiveFailure(t *testing.T) {
	item := dueItem("c1", 1)
	item.Channels = nil
	store := newFakeStore(item)

	result := newTestProcessor(store, &fakeSink{}).Run(context.Background())

	assert.Equal(t, 1, result.FailedCount)
	assert.Equal(t, models.StatusFailed, store.items["c1"].AutomationStatus)
	require.NotNil(t, store.items["c1"].AutomationResult)
	assert.Contains(t, *store.items["c1"].AutomationResult, "no delivery channels")
}

func TestRun_DeliversPerChannel(t *testing.T) {
	item := dueItem("c1", 1)
	item.Channels = []string{"linkedin", "x", "mastodon"}
	store := newFakeStore(item)
	sink := &fakeSink{}

	result := newTestProcessor(store, sink).Run(context.Background())

	require.Len(t, result.ProcessedIDs, 1)
	assert.Equal(t, []string{"c1:linkedin", "c1:x", "c1:mastodon"}, sink.calls)
	require.NotNil(t, store.items["c1"].AutomationResult)
	assert.Equal(t, fmt.Sprintf("posted to 3 channel(s) at %s",
		store.items["c1"].AutomationLastRunAt.UTC().Format(time.RFC3339)),
		*store.items["c1"].AutomationResult)
}

func TestRun_FailedItemsStayOutOfDueSet(t *testing.T) {
	store := newFakeStore(dueItem("c1", 1))
	sink := &fakeSink{failFor: map[string]error{"c1": errors.New("boom")}}
	p := newTestProcessor(store, sink)

	first := p.Run(context.Background())
	assert.Equal(t, 1, first.FailedCount)

	// No automatic retry: the failed item must not re-enter the due set.
	second := p.Run(context.Background())
	assert.Zero(t, second.Processed())
	assert.Zero(t, second.FailedCount)
}
