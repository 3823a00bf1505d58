package automation

import (
	"time"

	"contentpulse/pkg/models"
)

// DeriveStatus computes the automation status a content item should carry
// after the producing flow creates or updates it:
//
//	automation disabled            -> manual
//	enabled, no schedule           -> pending
//	enabled, schedule in future    -> scheduled
//	enabled, schedule now or past  -> ready
//
// Claiming, posting and failing are store-side transitions driven by the batch
// processor; there is no automatic transition out of posted or failed.
func DeriveStatus(enabled bool, scheduledAt *time.Time, now time.Time) models.AutomationStatus {
	if !enabled {
		return models.StatusManual
	}
	if scheduledAt == nil {
		return models.StatusPending
	}
	if scheduledAt.After(now) {
		return models.StatusScheduled
	}
	return models.StatusReady
}
