package handlers

import (
	"context"
	"time"

	"contentpulse/pkg/models"
)

// PassRunner runs one automation pass
type PassRunner interface {
	Run(ctx context.Context) models.AutomationRunResult
}

// SampleLister fetches recent engagement samples for an organization
type SampleLister interface {
	ListRecent(ctx context.Context, organizationID string, limit int) ([]models.EngagementMetric, error)
}

// DueLister lists content currently due for automation
type DueLister interface {
	ListDue(ctx context.Context, now time.Time) ([]models.ContentItem, error)
}
