package analysis

import (
	"trust_insight/pkg/provider"
)

// TrustLevel is the classification of community sentiment on the
// canonical trust claim.
type TrustLevel string

const (
	TrustLevelTrusted   TrustLevel = "trusted"
	TrustLevelMixed     TrustLevel = "mixed"
	TrustLevelUntrusted TrustLevel = "untrusted"
	TrustLevelNoStakes  TrustLevel = "no-stakes"
)

// Trust ratio thresholds, in percent of supporting stake.
const (
	TrustRatioTrustedMin = 90
	TrustRatioMixedMin   = 70
)

// TrustResult pairs a trust level with the supporting-stake ratio
// that produced it.
type TrustResult struct {
	Level TrustLevel `json:"level"`
	Ratio float64    `json:"ratio"`
}

// ClassifyTrust converts the two opposing market caps of a trust
// claim into a trust level. With no stake on either side the result
// is no-stakes at a neutral 50, not evidence of split sentiment. The
// ratio is computed with exact integer arithmetic on the fixed-point
// totals.
func ClassifyTrust(supportCap, opposeCap string) TrustResult {
	ratio, ok := provider.StakeRatio(supportCap, opposeCap)
	if !ok {
		return TrustResult{Level: TrustLevelNoStakes, Ratio: 50}
	}

	level := TrustLevelUntrusted
	switch {
	case ratio >= TrustRatioTrustedMin:
		level = TrustLevelTrusted
	case ratio >= TrustRatioMixedMin:
		level = TrustLevelMixed
	}
	return TrustResult{Level: level, Ratio: ratio}
}
