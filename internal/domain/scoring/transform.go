package scoring

import "math"

// Transform bounds.
const (
	minLogInput = 1
	maxScore    = 100
)

// QualityTransform maps an average rating (0..100) onto a 0..100 score.
type QualityTransform func(avg float64) float64

// LogarithmicScore is 100·log(x)/log(100) with x clamped up to 1, so
// f(1)=0, f(10)=50 and f(100)=100. It is strictly increasing and concave:
// each extra point of average quality is worth less than the one before.
func LogarithmicScore(x float64) float64 {
	if x < minLogInput || math.IsNaN(x) {
		x = minLogInput
	}
	return maxScore * math.Log(x) / math.Log(maxScore)
}

// IdentityScore passes the average through, clamped to 0..100. It is the
// quality transform used when the logarithmic curve is switched off.
func IdentityScore(x float64) float64 {
	if math.IsNaN(x) {
		return 0
	}
	return math.Max(0, math.Min(maxScore, x))
}

// maxCappedFactor is the largest float64 below 1. Once r^count drops under
// half an ulp of 1, 1 − r^count rounds to exactly 1; capping keeps the
// factor in [0,1) and category scores below 100.
var maxCappedFactor = math.Nextafter(1, 0)

// CappedFactor is 1 − r^count: 0 for no items, approaching but never
// reaching 1 as count grows. Each extra item adds r^count·(1−r), so the
// first item counts most and padding a list buys little.
func CappedFactor(count int, r float64) float64 {
	if count <= 0 {
		return 0
	}
	return math.Min(1-math.Pow(r, float64(count)), maxCappedFactor)
}
