package models

import "time"

// EngagementMetric is an immutable sample of performance for one content item
// over one period. Samples are append-only; multiple samples for the same
// content item are summed during aggregation, never overwritten.
type EngagementMetric struct {
	ID             string `json:"id" db:"id"`
	ContentID      string `json:"content_id" db:"content_id"`
	OrganizationID string `json:"organization_id" db:"organization_id"`

	Views     int64 `json:"views" db:"views"`
	Clicks    int64 `json:"clicks" db:"clicks"`
	Reactions int64 `json:"reactions" db:"reactions"`

	PeriodStart time.Time  `json:"period_start" db:"period_start"`
	PeriodEnd   *time.Time `json:"period_end,omitempty" db:"period_end"`
	Source      *string    `json:"source,omitempty" db:"source"`
}
