package models

// PlanTier identifies a subscription tier. The set is closed and known at
// build time; benchmark targets are static configuration, not per-organization
// state.
type PlanTier string

const (
	TierStarter PlanTier = "starter"
	TierGrowth  PlanTier = "growth"
	TierScale   PlanTier = "scale"
)

// IsValid reports whether t is one of the known tiers
func (t PlanTier) IsValid() bool {
	switch t {
	case TierStarter, TierGrowth, TierScale:
		return true
	}
	return false
}

// PlanBenchmark holds the per-tier performance targets used to compute
// benchmark progress on the dashboard.
type PlanBenchmark struct {
	WeeklyViewTarget     int64   `json:"weekly_view_target"`
	EngagementRateTarget float64 `json:"engagement_rate_target"`
}
