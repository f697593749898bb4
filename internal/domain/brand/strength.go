package brand

import (
	"math"
	"strings"
)

// StrengthScore scores a brand name into [0,1] from its surface features:
// length, character uniqueness, and consonant ratio, plus a small hash-seeded
// jitter so that distinct names with identical surface features do not
// collapse onto the same score.  The result is bit-identical across calls for
// the same name, which every degraded-mode metric depends on.
func StrengthScore(brandName string) float64 {
	name := lower(strings.TrimSpace(brandName))
	if name == "" {
		return 0.5
	}

	letters := 0
	consonants := 0
	seen := map[rune]bool{}
	unique := 0
	for _, r := range name {
		if r >= 'a' && r <= 'z' {
			letters++
			if !seen[r] {
				seen[r] = true
				unique++
			}
			switch r {
			case 'a', 'e', 'i', 'o', 'u':
			default:
				consonants++
			}
		}
	}

	lengthFactor := math.Min(1.0, float64(len(name))/12.0)
	uniqueness := float64(unique) / math.Max(1, float64(letters))
	consonantRatio := float64(consonants) / math.Max(1, float64(letters))

	base := 0.4*lengthFactor + 0.4*uniqueness + 0.2*consonantRatio
	jitter := float64(Hash32(name)%15) / 100.0 // 0.00-0.14

	return clamp01(round4(base*0.85 + jitter))
}

// VisibilityFallback estimates visibility potential from name characteristics
// alone, for use when no LLM probe is possible.  Result is in [0.1, 0.9].
func VisibilityFallback(brandName string) float64 {
	name := lower(strings.TrimSpace(brandName))
	if name == "" {
		return 0.3
	}

	// Shorter names are more memorable.
	lengthFactor := math.Min(1.0, 8.0/math.Max(1, float64(len(name))))
	seen := map[rune]bool{}
	for _, r := range name {
		seen[r] = true
	}
	uniqueness := float64(len(seen)) / math.Max(1, float64(len([]rune(name))))

	var industryBoost float64
	switch InferIndustry(brandName, nil) {
	case IndustryTechnology:
		industryBoost = 0.85
	case IndustryHealthcare:
		industryBoost = 0.75
	case IndustryFinance:
		industryBoost = 0.70
	default:
		industryBoost = 0.65
	}

	base := 0.25*lengthFactor + 0.25*uniqueness + 0.30*industryBoost + 0.20*StrengthScore(brandName)
	consistency := float64(Hash32(name)%15) / 100.0 // 0.00-0.14

	score := round4(base + consistency)
	return math.Max(0.1, math.Min(0.9, score))
}

// RecoveryScore is the neutral-ish value with brand-specific jitter used when
// a metric's data-driven path hits an unexpected error.  Result is in
// [0.45, 0.55).
func RecoveryScore(brandName string) float64 {
	if brandName == "" {
		brandName = "unknown"
	}
	return round4(0.45 + float64(Hash32(brandName)%20)/200.0)
}

func clamp01(v float64) float64 {
	return math.Max(0.0, math.Min(1.0, v))
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
