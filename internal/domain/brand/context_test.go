package brand

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInferIndustry(t *testing.T) {
	tests := []struct {
		brand      string
		categories []string
		want       Industry
	}{
		{"CloudWorks", nil, IndustryTechnology},
		{"Nova Robotics", []string{"robotics"}, IndustryTechnology},
		{"First Capital", nil, IndustryFinance},
		{"WellCare Group", nil, IndustryHealthcare},
		{"Sunrise Realty", nil, IndustryRealEstate},
		{"Apex Motors", nil, IndustryAutomotive},
		{"GridPower", nil, IndustryEnergy},
		{"Plain Name", nil, IndustryGeneralBusiness},
		{"Plain Name", []string{"solar panels"}, IndustryEnergy},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, InferIndustry(tt.brand, tt.categories),
			"brand %q categories %v", tt.brand, tt.categories)
	}
}

func TestIndustry_IsValid(t *testing.T) {
	assert.True(t, IndustryTechnology.IsValid())
	assert.True(t, IndustryGeneralBusiness.IsValid())
	assert.False(t, Industry("retail").IsValid())
}

func TestDeriveContext_Deterministic(t *testing.T) {
	a := DeriveContext("Nova Robotics", []string{"robotics"})
	b := DeriveContext("Nova Robotics", []string{"robotics"})
	assert.Equal(t, a, b)

	assert.Equal(t, "Nova Robotics", a.BrandName)
	assert.Equal(t, IndustryTechnology, a.Industry)
	assert.True(t, a.Industry.IsValid())
	assert.NotEmpty(t, a.TargetAudience)
	assert.NotEmpty(t, a.KeyDifferentiators)
	assert.NotEmpty(t, a.UseCases)
	assert.GreaterOrEqual(t, a.StrengthScore, 0.0)
	assert.LessOrEqual(t, a.StrengthScore, 1.0)
}

func TestClassifyType(t *testing.T) {
	assert.Equal(t, "technology", ClassifyType("DataSys"))
	assert.Equal(t, "service_provider", ClassifyType("Acme Solutions"))
	assert.Equal(t, "healthcare", ClassifyType("MediCare Plus"))
	assert.Equal(t, "financial", ClassifyType("First Capital"))
	assert.Equal(t, "general_business", ClassifyType("Plainco"))
}

func TestSyntheticDifferentiators_CoversAllIndustries(t *testing.T) {
	for _, ind := range []Industry{
		IndustryTechnology, IndustryHealthcare, IndustryFinance, IndustryRealEstate,
		IndustryAutomotive, IndustryEnergy, IndustryGeneralBusiness,
	} {
		assert.NotEmpty(t, SyntheticDifferentiators(ind), ind)
	}
}
