package insights

import (
	"math"
	"sort"
	"time"

	"contentpulse/pkg/models"
)

const topContentLimit = 5

// PercentChange returns the relative change from previous to current as a
// percentage. A zero previous value yields 100 when current is non-zero and 0
// otherwise: new activity reads as a full positive delta instead of dividing
// by zero.
func PercentChange(current, previous float64) float64 {
	if previous == 0 {
		if current != 0 {
			return 100
		}
		return 0
	}
	return (current - previous) / previous * 100
}

// EngagementRate returns (clicks + reactions) / views * 100, or 0 when there
// are no views.
func EngagementRate(views, clicks, reactions int64) float64 {
	if views == 0 {
		return 0
	}
	return float64(clicks+reactions) / float64(views) * 100
}

type measureTotals struct {
	views     int64
	clicks    int64
	reactions int64
}

func (m *measureTotals) add(s models.EngagementMetric) {
	m.views += s.Views
	m.clicks += s.Clicks
	m.reactions += s.Reactions
}

// round1 rounds to one decimal place
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// Aggregate derives the full insights payload from a batch of engagement
// samples and a plan tier. It is a pure function: no I/O, no mutation of the
// input slice, deterministic output for a fixed input and clock.
func Aggregate(samples []models.EngagementMetric, tier models.PlanTier, now time.Time) models.Insights {
	current := CurrentWeek(now)
	previous := PreviousWeek(now)

	var curTotals, prevTotals measureTotals
	for _, s := range samples {
		if current.Contains(s.PeriodStart) {
			curTotals.add(s)
		} else if previous.Contains(s.PeriodStart) {
			prevTotals.add(s)
		}
	}

	return models.Insights{
		Summary:    summaryCards(curTotals, prevTotals),
		Timeseries: dailyTimeseries(samples),
		TopContent: topContent(samples, current, previous),
		Benchmark:  benchmarkProgress(curTotals, tier),
	}
}

// summaryCards builds the four dashboard rows: raw current-week counts for
// views, clicks and reactions, plus the derived engagement rate, each with its
// week-over-week percent change.
func summaryCards(cur, prev measureTotals) []models.SummaryCard {
	curRate := EngagementRate(cur.views, cur.clicks, cur.reactions)
	prevRate := EngagementRate(prev.views, prev.clicks, prev.reactions)

	return []models.SummaryCard{
		{Label: "Views", Value: float64(cur.views), ChangePct: round1(PercentChange(float64(cur.views), float64(prev.views)))},
		{Label: "Clicks", Value: float64(cur.clicks), ChangePct: round1(PercentChange(float64(cur.clicks), float64(prev.clicks)))},
		{Label: "Reactions", Value: float64(cur.reactions), ChangePct: round1(PercentChange(float64(cur.reactions), float64(prev.reactions)))},
		{Label: "Engagement Rate", Value: round1(curRate), ChangePct: round1(PercentChange(curRate, prevRate))},
	}
}

// dailyTimeseries groups all samples by the UTC calendar date of their period
// start, summing the three measures per day, ascending by date string.
func dailyTimeseries(samples []models.EngagementMetric) []models.TimeseriesPoint {
	byDay := make(map[string]*measureTotals)
	for _, s := range samples {
		day := s.PeriodStart.UTC().Format("2006-01-02")
		totals, ok := byDay[day]
		if !ok {
			totals = &measureTotals{}
			byDay[day] = totals
		}
		totals.add(s)
	}

	points := make([]models.TimeseriesPoint, 0, len(byDay))
	for day, totals := range byDay {
		points = append(points, models.TimeseriesPoint{
			Date:      day,
			Views:     totals.views,
			Clicks:    totals.clicks,
			Reactions: totals.reactions,
		})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Date < points[j].Date })
	return points
}

// topContent ranks content items by total views descending and keeps the top
// five. Ties break on content ID so the output is stable for a fixed input.
func topContent(samples []models.EngagementMetric, current, previous Window) []models.ContentPerformance {
	type contentTotals struct {
		all       measureTotals
		curViews  int64
		prevViews int64
	}

	byContent := make(map[string]*contentTotals)
	for _, s := range samples {
		totals, ok := byContent[s.ContentID]
		if !ok {
			totals = &contentTotals{}
			byContent[s.ContentID] = totals
		}
		totals.all.add(s)
		if current.Contains(s.PeriodStart) {
			totals.curViews += s.Views
		} else if previous.Contains(s.PeriodStart) {
			totals.prevViews += s.Views
		}
	}

	ranking := make([]models.ContentPerformance, 0, len(byContent))
	for contentID, totals := range byContent {
		ranking = append(ranking, models.ContentPerformance{
			ContentID:         contentID,
			Views:             totals.all.views,
			Clicks:            totals.all.clicks,
			Reactions:         totals.all.reactions,
			EngagementRate:    round1(EngagementRate(totals.all.views, totals.all.clicks, totals.all.reactions)),
			WeekOverWeekViews: round1(PercentChange(float64(totals.curViews), float64(totals.prevViews))),
		})
	}

	sort.Slice(ranking, func(i, j int) bool {
		if ranking[i].Views != ranking[j].Views {
			return ranking[i].Views > ranking[j].Views
		}
		return ranking[i].ContentID < ranking[j].ContentID
	})

	if len(ranking) > topContentLimit {
		ranking = ranking[:topContentLimit]
	}
	return ranking
}

// benchmarkProgress computes plan-relative progress for the current week,
// clamped at 100.
func benchmarkProgress(cur measureTotals, tier models.PlanTier) models.BenchmarkProgress {
	benchmark := BenchmarkFor(tier)
	rate := EngagementRate(cur.views, cur.clicks, cur.reactions)

	return models.BenchmarkProgress{
		WeeklyViews:            cur.views,
		WeeklyViewTarget:       benchmark.WeeklyViewTarget,
		WeeklyViewProgress:     clampedProgress(float64(cur.views), float64(benchmark.WeeklyViewTarget)),
		EngagementRate:         round1(rate),
		EngagementRateTarget:   benchmark.EngagementRateTarget,
		EngagementRateProgress: clampedProgress(rate, benchmark.EngagementRateTarget),
	}
}

func clampedProgress(value, target float64) float64 {
	if target <= 0 {
		return 0
	}
	return math.Min(100, math.Round(value/target*100))
}
