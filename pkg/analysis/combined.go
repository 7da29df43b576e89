package analysis

import (
	"trust_insight/pkg/provider"
)

// TrustDistributionAnalysis is the combined report for one trust
// claim: sentiment plus the concentration profile of both sides.
type TrustDistributionAnalysis struct {
	TrustLevel          TrustLevel           `json:"trust_level"`
	TrustRatio          float64              `json:"trust_ratio"`
	ForDistribution     DistributionAnalysis `json:"for_distribution"`
	AgainstDistribution DistributionAnalysis `json:"against_distribution"`
	OverallDistribution DistributionStatus   `json:"overall_distribution"`
	OverallColor        string               `json:"overall_color"`
}

// analyzeSide prefers the exact positions path and falls back to
// aggregate estimation when no positions are available.
func analyzeSide(positions []provider.Position, agg *provider.AggregateStats) DistributionAnalysis {
	if len(positions) > 0 {
		return AnalyzePositions(positions)
	}
	return EstimateFromAggregate(agg)
}

// Combine merges the trust classification of a claim's raw totals
// with the distribution profile of each side. The overall status is
// whichever side is equal-or-more-severe, ties going to the FOR side.
func Combine(triple *provider.Triple) TrustDistributionAnalysis {
	trust := ClassifyTrust(triple.Vault.MarketCap, triple.CounterVault.MarketCap)

	forDist := analyzeSide(triple.Vault.Positions, triple.VaultStats)
	againstDist := analyzeSide(triple.CounterVault.Positions, triple.CounterStats)

	overall := MoreSevere(forDist.Status, againstDist.Status)

	return TrustDistributionAnalysis{
		TrustLevel:          trust.Level,
		TrustRatio:          trust.Ratio,
		ForDistribution:     forDist,
		AgainstDistribution: againstDist,
		OverallDistribution: overall,
		OverallColor:        StatusColor(overall),
	}
}
