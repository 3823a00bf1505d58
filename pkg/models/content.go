package models

import "time"

// AutomationStatus describes where a content item sits in its delivery lifecycle.
// The set is closed; switches over it must be exhaustive.
type AutomationStatus string

const (
	// StatusManual is the initial status for content not opted into automation
	StatusManual AutomationStatus = "manual"
	// StatusPending means automation is enabled but no schedule is set yet
	StatusPending AutomationStatus = "pending"
	// StatusScheduled means automation is enabled with a schedule in the future
	StatusScheduled AutomationStatus = "scheduled"
	// StatusReady means the scheduled time has arrived but no run picked the item up yet
	StatusReady AutomationStatus = "ready"
	// StatusProcessing means the item is claimed by a batch run
	StatusProcessing AutomationStatus = "processing"
	// StatusPosted is the terminal success status
	StatusPosted AutomationStatus = "posted"
	// StatusFailed is the terminal failure status
	StatusFailed AutomationStatus = "failed"
)

// IsValid reports whether s is one of the defined statuses
func (s AutomationStatus) IsValid() bool {
	switch s {
	case StatusManual, StatusPending, StatusScheduled, StatusReady, StatusProcessing, StatusPosted, StatusFailed:
		return true
	}
	return false
}

// IsTerminal reports whether the status has no automatic outgoing transition
func (s AutomationStatus) IsTerminal() bool {
	return s == StatusPosted || s == StatusFailed
}

// ContentItem represents a unit of generated content
type ContentItem struct {
	ID             string  `json:"id" db:"id"`
	OrganizationID string  `json:"organization_id" db:"organization_id"`
	ProjectID      *string `json:"project_id,omitempty" db:"project_id"`

	ContentType string   `json:"content_type" db:"content_type"`
	Topic       string   `json:"topic" db:"topic"`
	Body        string   `json:"body" db:"body"`
	Channels    []string `json:"channels" db:"channels"`

	ScheduledAt       *time.Time `json:"scheduled_at,omitempty" db:"scheduled_at"`
	AutomationEnabled bool       `json:"automation_enabled" db:"automation_enabled"`

	AutomationStatus    AutomationStatus `json:"automation_status" db:"automation_status"`
	AutomationLastRunAt *time.Time       `json:"automation_last_run_at,omitempty" db:"automation_last_run_at"`
	AutomationResult    *string          `json:"automation_result,omitempty" db:"automation_result"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// AutomationRunResult is the outcome of one batch processor invocation.
// Transient, never persisted.
type AutomationRunResult struct {
	ProcessedIDs []string `json:"document_ids"`
	FailedCount  int      `json:"failed"`
	Errors       []string `json:"errors"`
}

// Processed returns the number of successfully delivered items
func (r AutomationRunResult) Processed() int {
	return len(r.ProcessedIDs)
}
