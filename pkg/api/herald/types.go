package herald

import (
	"contentpulse/pkg/api/common"
	"contentpulse/pkg/models"
)

// ErrorResponse is the standard error envelope
type ErrorResponse = common.ErrorResponse

// AutomationRunResponse is the payload returned by the run-automation endpoint
type AutomationRunResponse struct {
	Processed   int      `json:"processed"`
	Failed      int      `json:"failed"`
	DocumentIDs []string `json:"document_ids"`
	Errors      []string `json:"errors"`
}

// InsightsResponse is the payload returned by the insights endpoint
type InsightsResponse = models.Insights

// DueContentResponse lists the content items currently due for automation
type DueContentResponse struct {
	Items []models.ContentItem `json:"items"`
	Count int                  `json:"count"`
}
