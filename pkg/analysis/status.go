// Package analysis converts raw stake data into distribution and
// trust classifications. Every input, however degenerate, maps to a
// defined output; nothing in this package can fail.
package analysis

// DistributionStatus is the 4-tier concentration classification of a
// vault's stake.
type DistributionStatus string

const (
	StatusWellDistributed DistributionStatus = "well-distributed"
	StatusModerate        DistributionStatus = "moderate"
	StatusConcentrated    DistributionStatus = "concentrated"
	StatusWhaleDominated  DistributionStatus = "whale-dominated"
)

// Gini thresholds for the status bands.
const (
	GiniWellDistributedMax = 0.35
	GiniModerateMax        = 0.55
	GiniConcentratedMax    = 0.75
)

// Top-1 concentration thresholds, in percent.
const (
	Top1HealthyMax    = 30
	Top1AcceptableMax = 50
	Top1ConcerningMax = 80
)

// MinStakersForGini is the minimum staker count for the gini bands to
// be meaningful; below it the classification is closed-form.
const MinStakersForGini = 3

// severityRank orders statuses from least to most severe.
var severityRank = map[DistributionStatus]int{
	StatusWellDistributed: 0,
	StatusModerate:        1,
	StatusConcentrated:    2,
	StatusWhaleDominated:  3,
}

// MoreSevere returns the more severe of two statuses, favoring a when
// they are equal.
func MoreSevere(a, b DistributionStatus) DistributionStatus {
	if severityRank[a] >= severityRank[b] {
		return a
	}
	return b
}

// DetermineStatus classifies a distribution from its gini, top-1
// concentration, and staker count. First match wins:
//  1. top1 at or past 80% is whale-dominated regardless of count.
//  2. Zero stakers is well-distributed as a neutral default; callers
//     signal "no stakes" separately.
//  3. Fewer than 3 stakers is concentrated. A single staker is caught
//     by rule 1 (top1=100); two stakers surviving rule 1 hold top1 in
//     [50,80) and are concentrated by construction.
//  4. Otherwise the gini bands decide.
func DetermineStatus(gini, top1Percent float64, stakerCount int) DistributionStatus {
	if top1Percent >= Top1ConcerningMax {
		return StatusWhaleDominated
	}
	if stakerCount == 0 {
		return StatusWellDistributed
	}
	if stakerCount < MinStakersForGini {
		return StatusConcentrated
	}
	switch {
	case gini <= GiniWellDistributedMax:
		return StatusWellDistributed
	case gini <= GiniModerateMax:
		return StatusModerate
	case gini <= GiniConcentratedMax:
		return StatusConcentrated
	default:
		return StatusWhaleDominated
	}
}

// statusPresentation maps a status to its fixed display fields.
var statusPresentation = map[DistributionStatus]struct {
	label string
	color string
}{
	StatusWellDistributed: {"Well Distributed", "#16a34a"},
	StatusModerate:        {"Moderately Distributed", "#ca8a04"},
	StatusConcentrated:    {"Concentrated", "#ea580c"},
	StatusWhaleDominated:  {"Whale Dominated", "#dc2626"},
}

// NoStakesLabel distinguishes an empty vault from a genuinely healthy
// well-distributed one.
const NoStakesLabel = "No Stakes"

// StatusLabel returns the display label for a status.
func StatusLabel(s DistributionStatus) string {
	return statusPresentation[s].label
}

// StatusColor returns the display color for a status.
func StatusColor(s DistributionStatus) string {
	return statusPresentation[s].color
}
