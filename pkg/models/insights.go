package models

// SummaryCard is one derived dashboard row: a current-week value plus its
// percent change against the previous week.
type SummaryCard struct {
	Label     string  `json:"label"`
	Value     float64 `json:"value"`
	ChangePct float64 `json:"change_pct"`
}

// TimeseriesPoint is the per-day sum of all three measures, keyed by the UTC
// calendar date of the sample's period start.
type TimeseriesPoint struct {
	Date      string `json:"date"`
	Views     int64  `json:"views"`
	Clicks    int64  `json:"clicks"`
	Reactions int64  `json:"reactions"`
}

// ContentPerformance is one row of the top-content ranking
type ContentPerformance struct {
	ContentID         string  `json:"content_id"`
	Views             int64   `json:"views"`
	Clicks            int64   `json:"clicks"`
	Reactions         int64   `json:"reactions"`
	EngagementRate    float64 `json:"engagement_rate"`
	WeekOverWeekViews float64 `json:"week_over_week_views"`
}

// BenchmarkProgress reports plan-relative progress, clamped at 100 so a
// progress indicator never overflows.
type BenchmarkProgress struct {
	WeeklyViews            int64   `json:"weekly_views"`
	WeeklyViewTarget       int64   `json:"weekly_view_target"`
	WeeklyViewProgress     float64 `json:"weekly_view_progress"`
	EngagementRate         float64 `json:"engagement_rate"`
	EngagementRateTarget   float64 `json:"engagement_rate_target"`
	EngagementRateProgress float64 `json:"engagement_rate_progress"`
}

// Insights is the full analytics payload derived from one batch of engagement
// samples plus a plan tier.
type Insights struct {
	Summary    []SummaryCard        `json:"summary"`
	Timeseries []TimeseriesPoint    `json:"timeseries"`
	TopContent []ContentPerformance `json:"top_content"`
	Benchmark  BenchmarkProgress    `json:"benchmark"`
}
