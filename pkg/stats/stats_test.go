package stats

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGini(t *testing.T) {
	t.Run("EqualDistribution", func(t *testing.T) {
		assert.Equal(t, 0.0, Gini([]float64{100, 100, 100}))
		assert.Equal(t, 0.0, Gini([]float64{7, 7, 7, 7, 7, 7}))
	})

	t.Run("SingleValue", func(t *testing.T) {
		assert.Equal(t, 0.0, Gini([]float64{300}))
	})

	t.Run("ZerosIgnored", func(t *testing.T) {
		// Only one positive entry survives filtering.
		assert.Equal(t, 0.0, Gini([]float64{0, 0, 300}))
	})

	t.Run("Empty", func(t *testing.T) {
		assert.Equal(t, 0.0, Gini(nil))
		assert.Equal(t, 0.0, Gini([]float64{}))
	})

	t.Run("NonFiniteIgnored", func(t *testing.T) {
		clean := Gini([]float64{10, 20, 30})
		dirty := Gini([]float64{10, math.NaN(), 20, math.Inf(1), 30, -5})
		assert.Equal(t, clean, dirty)
	})

	t.Run("DominantValueApproachesOne", func(t *testing.T) {
		g := Gini([]float64{1e9, 1, 1, 1, 1, 1, 1, 1, 1, 1})
		assert.Greater(t, g, 0.85)
		assert.LessOrEqual(t, g, 1.0)
	})

	t.Run("RangeAndPermutationInvariance", func(t *testing.T) {
		vals := []float64{5, 80, 12, 3, 44, 21}
		g := Gini(vals)
		assert.GreaterOrEqual(t, g, 0.0)
		assert.LessOrEqual(t, g, 1.0)

		r := rand.New(rand.NewSource(1))
		for i := 0; i < 10; i++ {
			shuffled := append([]float64(nil), vals...)
			r.Shuffle(len(shuffled), func(a, b int) {
				shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
			})
			assert.InDelta(t, g, Gini(shuffled), 1e-12)
		}
	})
}

func TestNakamoto(t *testing.T) {
	t.Run("SingleWhale", func(t *testing.T) {
		assert.Equal(t, 1, Nakamoto([]float64{90, 5, 5}))
	})

	t.Run("TwoNeeded", func(t *testing.T) {
		assert.Equal(t, 2, Nakamoto([]float64{30, 25, 25, 20}))
	})

	t.Run("Empty", func(t *testing.T) {
		assert.Equal(t, 0, Nakamoto([]float64{}))
		assert.Equal(t, 0, Nakamoto([]float64{0, -1}))
	})

	t.Run("UnsortedInput", func(t *testing.T) {
		assert.Equal(t, 1, Nakamoto([]float64{5, 90, 5}))
	})

	t.Run("EqualSplit", func(t *testing.T) {
		// Two of four equal stakers hold exactly 50%, below 51%.
		assert.Equal(t, 3, Nakamoto([]float64{25, 25, 25, 25}))
	})
}

func TestTopNPercent(t *testing.T) {
	t.Run("TopOne", func(t *testing.T) {
		assert.Equal(t, 50.0, TopNPercent([]float64{50, 30, 20}, 1))
	})

	t.Run("TopThree", func(t *testing.T) {
		assert.InDelta(t, 100.0, TopNPercent([]float64{50, 30, 20}, 3), 1e-9)
	})

	t.Run("NExceedsCount", func(t *testing.T) {
		assert.InDelta(t, 100.0, TopNPercent([]float64{10, 20}, 5), 1e-9)
	})

	t.Run("Empty", func(t *testing.T) {
		assert.Equal(t, 0.0, TopNPercent(nil, 1))
		assert.Equal(t, 0.0, TopNPercent([]float64{0, 0}, 1))
	})

	t.Run("ZeroN", func(t *testing.T) {
		assert.Equal(t, 0.0, TopNPercent([]float64{10, 20}, 0))
	})
}
