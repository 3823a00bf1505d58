package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"contentpulse/internal/insights"
	"contentpulse/internal/metrics"
	herald "contentpulse/pkg/api/herald"
	"contentpulse/pkg/auth"
	"contentpulse/pkg/logging"
	"contentpulse/pkg/models"
)

// AutomationHandler exposes the run-automation-pass operation
type AutomationHandler struct {
	runner PassRunner
	logger logging.Logger
}

// NewAutomationHandler creates the automation trigger handler
func NewAutomationHandler(runner PassRunner, logger logging.Logger) *AutomationHandler {
	return &AutomationHandler{runner: runner, logger: logger}
}

// Run triggers one automation pass. A run that processed nothing and carries
// errors maps to a server error; anything else, including partial failure, is
// a success (partial success is still success).
func (h *AutomationHandler) Run(c *gin.Context) {
	result := h.runner.Run(c.Request.Context())

	response := herald.AutomationRunResponse{
		Processed:   result.Processed(),
		Failed:      result.FailedCount,
		DocumentIDs: result.ProcessedIDs,
		Errors:      result.Errors,
	}

	if result.Processed() == 0 && len(result.Errors) > 0 {
		c.JSON(http.StatusInternalServerError, response)
		return
	}
	c.JSON(http.StatusOK, response)
}

// InsightsHandler exposes the engagement analytics aggregation
type InsightsHandler struct {
	samples SampleLister
	cache   *insights.Cache
	logger  logging.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

// NewInsightsHandler creates the insights handler. cache and m may be nil.
func NewInsightsHandler(samples SampleLister, cache *insights.Cache, logger logging.Logger, m *metrics.Metrics) *InsightsHandler {
	return &InsightsHandler{samples: samples, cache: cache, logger: logger, metrics: m, now: time.Now}
}

// Get fetches recent samples for the organization and aggregates them into
// the dashboard insights payload.
func (h *InsightsHandler) Get(c *gin.Context) {
	// Explicit query parameter wins; dashboard sessions fall back to the
	// organization claim injected by the auth middleware.
	orgID := c.Query("org_id")
	if orgID == "" {
		orgID = c.GetString(auth.CtxOrgID)
	}
	if orgID == "" {
		c.JSON(http.StatusBadRequest, herald.ErrorResponse{Error: "org_id is required"})
		return
	}

	tier := models.PlanTier(c.DefaultQuery("plan", string(models.TierStarter)))
	if !tier.IsValid() {
		c.JSON(http.StatusBadRequest, herald.ErrorResponse{Error: "Unknown plan tier"})
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, herald.ErrorResponse{Error: "Invalid limit"})
			return
		}
		limit = parsed
	}

	var cacheKey string
	if h.cache != nil {
		cacheKey = h.cache.Key(orgID, tier, limit)
		if cached, ok := h.cache.Get(c.Request.Context(), cacheKey); ok {
			if h.metrics != nil {
				h.metrics.InsightQueries.WithLabelValues("cached").Inc()
			}
			c.JSON(http.StatusOK, *cached)
			return
		}
	}

	samples, err := h.samples.ListRecent(c.Request.Context(), orgID, limit)
	if err != nil {
		h.logger.WithError(err).WithField("org_id", orgID).Error("Failed to fetch engagement samples")
		if h.metrics != nil {
			h.metrics.InsightQueries.WithLabelValues("error").Inc()
		}
		c.JSON(http.StatusInternalServerError, herald.ErrorResponse{Error: "Failed to fetch engagement metrics"})
		return
	}

	// An organization with no samples yet is a valid state: the aggregator
	// degrades to zero values rather than erroring.
	result := insights.Aggregate(samples, tier, h.now())
	if h.cache != nil {
		h.cache.Set(c.Request.Context(), cacheKey, result)
	}
	if h.metrics != nil {
		h.metrics.InsightQueries.WithLabelValues("success").Inc()
	}
	c.JSON(http.StatusOK, result)
}

// ContentHandler exposes read-only inspection of the automation queue
type ContentHandler struct {
	content DueLister
	logger  logging.Logger
	now     func() time.Time
}

// NewContentHandler creates the content inspection handler
func NewContentHandler(content DueLister, logger logging.Logger) *ContentHandler {
	return &ContentHandler{content: content, logger: logger, now: time.Now}
}

// ListDue returns the items a pass would pick up right now
func (h *ContentHandler) ListDue(c *gin.Context) {
	items, err := h.content.ListDue(c.Request.Context(), h.now())
	if err != nil {
		h.logger.WithError(err).Error("Failed to list due content")
		c.JSON(http.StatusInternalServerError, herald.ErrorResponse{Error: "Failed to list due content"})
		return
	}

	if items == nil {
		items = []models.ContentItem{}
	}
	c.JSON(http.StatusOK, herald.DueContentResponse{Items: items, Count: len(items)})
}
