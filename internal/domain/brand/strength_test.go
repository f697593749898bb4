package brand

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHash32_Deterministic(t *testing.T) {
	assert.Equal(t, Hash32("Nova Robotics"), Hash32("nova robotics"))
	assert.Equal(t, Hash32("Acme"), Hash32("Acme"))
	assert.NotEqual(t, Hash32("Acme"), Hash32("Acme Corp"))
}

func TestStrengthScore_Range(t *testing.T) {
	for _, name := range []string{"A", "Acme", "Nova Robotics", "International Business Machines", "xyz-123", ""} {
		s := StrengthScore(name)
		assert.GreaterOrEqual(t, s, 0.0, name)
		assert.LessOrEqual(t, s, 1.0, name)
	}
}

func TestStrengthScore_Deterministic(t *testing.T) {
	assert.Equal(t, StrengthScore("Nova Robotics"), StrengthScore("Nova Robotics"))
	// Case and surrounding whitespace are normalized away.
	assert.Equal(t, StrengthScore("acme"), StrengthScore("  ACME  "))
}

func TestVisibilityFallback_Range(t *testing.T) {
	for _, name := range []string{"Acme", "Nova Robotics", "CloudWorks", "Q"} {
		v := VisibilityFallback(name)
		assert.GreaterOrEqual(t, v, 0.1, name)
		assert.LessOrEqual(t, v, 0.9, name)
		assert.Equal(t, v, VisibilityFallback(name), name)
	}
	assert.Equal(t, 0.3, VisibilityFallback(""))
}

func TestRecoveryScore_Range(t *testing.T) {
	for _, name := range []string{"", "Acme", "Nova Robotics"} {
		r := RecoveryScore(name)
		assert.GreaterOrEqual(t, r, 0.45, name)
		assert.Less(t, r, 0.55, name)
	}
}
