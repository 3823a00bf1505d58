package insights

import "contentpulse/pkg/models"

// planBenchmarks maps each subscription tier to its weekly performance
// targets. The tier set is closed at build time; there is no per-organization
// override.
var planBenchmarks = map[models.PlanTier]models.PlanBenchmark{
	models.TierStarter: {WeeklyViewTarget: 1000, EngagementRateTarget: 5},
	models.TierGrowth:  {WeeklyViewTarget: 5000, EngagementRateTarget: 8},
	models.TierScale:   {WeeklyViewTarget: 20000, EngagementRateTarget: 10},
}

// BenchmarkFor returns the benchmark targets for a tier. An unknown tier falls
// back to the starter targets; hitting the fallback is a programming error,
// not a runtime condition, since the tier set is closed.
func BenchmarkFor(tier models.PlanTier) models.PlanBenchmark {
	if b, ok := planBenchmarks[tier]; ok {
		return b
	}
	return planBenchmarks[models.TierStarter]
}
