package provider

import (
	"math"
	"math/big"
	"strings"
)

// StakeDecimals is the fixed-point precision of all stake values on
// the wire: integers scaled by 10^18.
const StakeDecimals = 18

var stakeScale = new(big.Float).SetInt(new(big.Int).Exp(
	big.NewInt(10), big.NewInt(StakeDecimals), nil))

// ParseStakeInt parses a decimal-string-encoded fixed-point stake into
// an arbitrary-precision integer. The raw integer form is what exact
// comparisons and ratio arithmetic must run on.
func ParseStakeInt(s string) (*big.Int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, ErrInvalidStake
	}
	n, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, ErrInvalidStake
	}
	return n, nil
}

// StakeValue converts a fixed-point stake string into decimal units
// (dividing out the 18-digit scale). The boolean is false for
// unparsable, non-finite, or non-positive values, which callers filter
// rather than fail on.
func StakeValue(s string) (float64, bool) {
	n, err := ParseStakeInt(s)
	if err != nil {
		return 0, false
	}
	if n.Sign() <= 0 {
		return 0, false
	}
	f, _ := new(big.Float).Quo(new(big.Float).SetInt(n), stakeScale).Float64()
	if math.IsInf(f, 0) || math.IsNaN(f) || f <= 0 {
		return 0, false
	}
	return f, true
}

// CompareStakes orders two stake strings by exact integer comparison.
// Unparsable values sort as zero.
func CompareStakes(a, b string) int {
	na, err := ParseStakeInt(a)
	if err != nil {
		na = new(big.Int)
	}
	nb, err := ParseStakeInt(b)
	if err != nil {
		nb = new(big.Int)
	}
	return na.Cmp(nb)
}

// StakeRatio returns a/(a+b) as a percentage in [0,100] using integer
// arithmetic until the final division. The boolean is false when both
// totals are zero or unparsable.
func StakeRatio(a, b string) (float64, bool) {
	na, err := ParseStakeInt(a)
	if err != nil || na.Sign() < 0 {
		na = new(big.Int)
	}
	nb, err := ParseStakeInt(b)
	if err != nil || nb.Sign() < 0 {
		nb = new(big.Int)
	}
	total := new(big.Int).Add(na, nb)
	if total.Sign() == 0 {
		return 0, false
	}
	// Scale by 10^4 before dividing to keep two decimal places exact.
	scaled := new(big.Int).Mul(na, big.NewInt(10000))
	scaled.Quo(scaled, total)
	return float64(scaled.Int64()) / 100, true
}
