package analysis

import (
	"math"

	"trust_insight/pkg/provider"
	"trust_insight/pkg/stats"
)

// DistributionAnalysis is the inequality/concentration profile of one
// side of a claim's staking vault.
type DistributionAnalysis struct {
	Gini        float64            `json:"gini"`
	Nakamoto    int                `json:"nakamoto"`
	Top1Percent float64            `json:"top1_percent"`
	Top3Percent float64            `json:"top3_percent"`
	StakerCount int                `json:"staker_count"`
	TotalShares float64            `json:"total_shares"`
	Status      DistributionStatus `json:"status"`
	Label       string             `json:"label"`
	Color       string             `json:"color"`
	// Estimated marks results from the aggregate fallback path, whose
	// gini/top1 come from a heuristic curve rather than real
	// positions.
	Estimated bool `json:"estimated,omitempty"`
}

// emptyAnalysis is the neutral result for a vault with no positive
// stakes.
func emptyAnalysis() DistributionAnalysis {
	return DistributionAnalysis{
		Status: StatusWellDistributed,
		Label:  NoStakesLabel,
		Color:  StatusColor(StatusWellDistributed),
	}
}

// AnalyzeShares profiles a set of stake values in decimal units.
// Non-positive and non-finite values are dropped; an empty result
// yields the neutral no-stakes analysis.
func AnalyzeShares(shares []float64) DistributionAnalysis {
	vs := make([]float64, 0, len(shares))
	var total float64
	for _, s := range shares {
		if s > 0 && !math.IsInf(s, 0) && !math.IsNaN(s) {
			vs = append(vs, s)
			total += s
		}
	}
	if len(vs) == 0 {
		return emptyAnalysis()
	}

	gini := stats.Gini(vs)
	top1 := stats.TopNPercent(vs, 1)
	status := DetermineStatus(gini, top1, len(vs))

	return DistributionAnalysis{
		Gini:        gini,
		Nakamoto:    stats.Nakamoto(vs),
		Top1Percent: top1,
		Top3Percent: stats.TopNPercent(vs, 3),
		StakerCount: len(vs),
		TotalShares: total,
		Status:      status,
		Label:       StatusLabel(status),
		Color:       StatusColor(status),
	}
}

// AnalyzePositions profiles a position list by its share fields.
// Unparsable shares are discarded, never surfaced as errors.
func AnalyzePositions(positions []provider.Position) DistributionAnalysis {
	shares := make([]float64, 0, len(positions))
	for _, p := range positions {
		if v, ok := provider.StakeValue(p.Shares); ok {
			shares = append(shares, v)
		}
	}
	return AnalyzeShares(shares)
}

// EstimateFromAggregate approximates a distribution profile when only
// count/sum/avg are known. The gini and top-1 figures come from a
// fixed curve over the position count alone; results are flagged
// Estimated and must be presented as approximations.
func EstimateFromAggregate(agg *provider.AggregateStats) DistributionAnalysis {
	if agg == nil || agg.Count == 0 {
		return emptyAnalysis()
	}

	count := agg.Count
	var top1 float64
	switch {
	case count == 1:
		top1 = 100
	case count == 2:
		top1 = 70
	case count <= 5:
		top1 = 100 / math.Sqrt(float64(count))
	default:
		top1 = math.Max(20, 100/math.Pow(float64(count), 0.7))
	}

	var gini float64
	switch {
	case count == 1:
		gini = 0
	case count == 2:
		gini = 0.5
	case count <= 5:
		gini = 0.6
	case count <= 10:
		gini = 0.5
	default:
		gini = 0.4
	}

	var total float64
	if v, ok := provider.StakeValue(agg.Sum); ok {
		total = v
	}

	status := DetermineStatus(gini, top1, count)
	return DistributionAnalysis{
		Gini:        gini,
		Top1Percent: top1,
		StakerCount: count,
		TotalShares: total,
		Status:      status,
		Label:       StatusLabel(status),
		Color:       StatusColor(status),
		Estimated:   true,
	}
}
