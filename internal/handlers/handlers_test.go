package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	herald "contentpulse/pkg/api/herald"
	"contentpulse/pkg/auth"
	"contentpulse/pkg/logging"
	"contentpulse/pkg/models"
)

func setupTestGin() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

type stubRunner struct {
	result models.AutomationRunResult
}

func (s *stubRunner) Run(context.Context) models.AutomationRunResult { return s.result }

type stubSamples struct {
	samples []models.EngagementMetric
	err     error
}

func (s *stubSamples) ListRecent(_ context.Context, _ string, _ int) ([]models.EngagementMetric, error) {
	return s.samples, s.err
}

type stubDue struct {
	items []models.ContentItem
	err   error
}

func (s *stubDue) ListDue(context.Context, time.Time) ([]models.ContentItem, error) {
	return s.items, s.err
}

func runAutomation(t *testing.T, result models.AutomationRunResult) (*httptest.ResponseRecorder, herald.AutomationRunResponse) {
	t.Helper()
	router := setupTestGin()
	h := NewAutomationHandler(&stubRunner{result: result}, logging.NewLoggerWithService("test"))
	router.POST("/api/automation/run", h.Run)

	req := httptest.NewRequest("POST", "/api/automation/run", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var body herald.AutomationRunResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w, body
}

func TestAutomationRun_EmptyPassIsSuccess(t *testing.T) {
	w, body := runAutomation(t, models.AutomationRunResult{
		ProcessedIDs: []string{},
		Errors:       []string{},
	})

	assert.Equal(t, http.StatusOK, w.Code, "zero due items with no errors is success")
	assert.Zero(t, body.Processed)
	assert.Zero(t, body.Failed)
	assert.Empty(t, body.Errors)
}

func TestAutomationRun_ConfigErrorIsFailure(t *testing.T) {
	w, body := runAutomation(t, models.AutomationRunResult{
		ProcessedIDs: []string{},
		Errors:       []string{"content store not configured: missing table binding"},
	})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Zero(t, body.Processed)
	require.Len(t, body.Errors, 1)
}

func TestAutomationRun_PartialSuccessIsSuccess(t *testing.T) {
	w, body := runAutomation(t, models.AutomationRunResult{
		ProcessedIDs: []string{"c1", "c2"},
		FailedCount:  1,
		Errors:       []string{"channel unreachable"},
	})

	assert.Equal(t, http.StatusOK, w.Code, "partial success is still success")
	assert.Equal(t, 2, body.Processed)
	assert.Equal(t, 1, body.Failed)
	assert.Equal(t, []string{"c1", "c2"}, body.DocumentIDs)
}

func TestInsights_RequiresOrgID(t *testing.T) {
	router := setupTestGin()
	h := NewInsightsHandler(&stubSamples{}, nil, logging.NewLoggerWithService("test"), nil)
	router.GET("/api/insights", h.Get)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/api/insights", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestInsights_OrgIDFromAuthClaim(t *testing.T) {
	router := setupTestGin()
	h := NewInsightsHandler(&stubSamples{}, nil, logging.NewLoggerWithService("test"), nil)
	router.GET("/api/insights", func(c *gin.Context) {
		c.Set(auth.CtxOrgID, "org-from-token")
	}, h.Get)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/api/insights", nil))
	assert.Equal(t, http.StatusOK, w.Code, "org claim from auth middleware should satisfy the org requirement")
}

func TestInsights_UnknownTierRejected(t *testing.T) {
	router := setupTestGin()
	h := NewInsightsHandler(&stubSamples{}, nil, logging.NewLoggerWithService("test"), nil)
	router.GET("/api/insights", h.Get)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/api/insights?org_id=org-1&plan=platinum", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestInsights_EmptyOrganization(t *testing.T) {
	router := setupTestGin()
	h := NewInsightsHandler(&stubSamples{}, nil, logging.NewLoggerWithService("test"), nil)
	router.GET("/api/insights", h.Get)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/api/insights?org_id=org-1", nil))
	require.Equal(t, http.StatusOK, w.Code, "no metrics yet is a valid state")

	var body models.Insights
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Summary, 4)
	assert.Empty(t, body.Timeseries)
	assert.Empty(t, body.TopContent)
}

func TestInsights_AggregatesSamples(t *testing.T) {
	samples := []models.EngagementMetric{
		{ID: "m1", ContentID: "c1", OrganizationID: "org-1", Views: 100, Clicks: 10, Reactions: 10,
			PeriodStart: time.Now().Add(-24 * time.Hour)},
	}
	router := setupTestGin()
	h := NewInsightsHandler(&stubSamples{samples: samples}, nil, logging.NewLoggerWithService("test"), nil)
	router.GET("/api/insights", h.Get)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/api/insights?org_id=org-1&plan=growth", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var body models.Insights
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, float64(100), body.Summary[0].Value)
	require.Len(t, body.TopContent, 1)
	assert.Equal(t, "c1", body.TopContent[0].ContentID)
	assert.Equal(t, int64(5000), body.Benchmark.WeeklyViewTarget)
}

func TestInsights_StoreErrorIs500(t *testing.T) {
	router := setupTestGin()
	h := NewInsightsHandler(&stubSamples{err: errors.New("clickhouse down")}, nil, logging.NewLoggerWithService("test"), nil)
	router.GET("/api/insights", h.Get)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/api/insights?org_id=org-1", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestContentListDue(t *testing.T) {
	at := time.Now().Add(-time.Hour)
	items := []models.ContentItem{{
		ID: "c1", OrganizationID: "org-1", Channels: []string{"linkedin"},
		ScheduledAt: &at, AutomationEnabled: true, AutomationStatus: models.StatusReady,
	}}
	router := setupTestGin()
	h := NewContentHandler(&stubDue{items: items}, logging.NewLoggerWithService("test"))
	router.GET("/api/content/due", h.ListDue)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/api/content/due", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var body herald.DueContentResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 1, body.Count)
	require.Len(t, body.Items, 1)
	assert.Equal(t, "c1", body.Items[0].ID)
}

func TestContentListDue_EmptyIsNotNull(t *testing.T) {
	router := setupTestGin()
	h := NewContentHandler(&stubDue{}, logging.NewLoggerWithService("test"))
	router.GET("/api/content/due", h.ListDue)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/api/content/due", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"items":[]`)
}
