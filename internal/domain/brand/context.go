// Package brand derives the shared read-only brand context used across the
// visibility pipeline: industry classification, brand type, market position,
// and the deterministic strength score that seeds every fallback path.
package brand

import "strings"

// Industry is the closed 7-way industry classification inferred from the
// brand name and product categories.
type Industry string

const (
	IndustryTechnology      Industry = "technology"
	IndustryHealthcare      Industry = "healthcare"
	IndustryFinance         Industry = "finance"
	IndustryRealEstate      Industry = "real estate"
	IndustryAutomotive      Industry = "automotive"
	IndustryEnergy          Industry = "energy"
	IndustryGeneralBusiness Industry = "general business"
)

// String returns the string representation of the industry.
func (i Industry) String() string { return string(i) }

// IsValid checks if the industry is one of the closed set.
func (i Industry) IsValid() bool {
	switch i {
	case IndustryTechnology, IndustryHealthcare, IndustryFinance, IndustryRealEstate,
		IndustryAutomotive, IndustryEnergy, IndustryGeneralBusiness:
		return true
	default:
		return false
	}
}

// industryKeywords maps each non-default industry to the substrings that
// signal it.  Automotive is checked first so that e.g. "EV" brands are not
// swallowed by the technology bucket.
var industryKeywords = []struct {
	industry Industry
	keywords []string
}{
	{IndustryAutomotive, []string{"car ", "auto", "vehicle", "motor", " ev "}},
	{IndustryTechnology, []string{"tech", "software", "cloud", " ai ", "data", "robot", "digital", "sys", "app"}},
	{IndustryFinance, []string{"bank", "finance", "capital", "invest", "fund"}},
	{IndustryHealthcare, []string{"health", "medical", "pharma", "care", "wellness"}},
	{IndustryRealEstate, []string{"estate", "property", "realty"}},
	{IndustryEnergy, []string{"energy", "solar", "battery", "power", "grid"}},
}

// InferIndustry classifies a brand into the closed industry set using keyword
// matching over the brand name and product categories.  Unmatched brands fall
// into general business.
func InferIndustry(brandName string, categories []string) Industry {
	haystack := strings.ToLower(strings.Join(append([]string{brandName}, categories...), " "))
	// Pad so the word-anchored keywords (" ai ", " ev ", "car ") can match at
	// the ends of the haystack.
	haystack = " " + haystack + " "
	for _, entry := range industryKeywords {
		for _, kw := range entry.keywords {
			if strings.Contains(haystack, kw) {
				return entry.industry
			}
		}
	}
	return IndustryGeneralBusiness
}

// Context is the shared read-only brand profile derived once per analysis and
// consumed by query generation, testing, metric computation, and reporting.
type Context struct {
	BrandName          string   `json:"brand_name"`
	Industry           Industry `json:"industry"`
	BrandType          string   `json:"brand_type"`
	MarketPosition     string   `json:"market_position"`
	Perception         string   `json:"perception"`
	Maturity           string   `json:"maturity"`
	StrengthScore      float64  `json:"brand_strength_score"`
	TargetAudience     []string `json:"target_audience"`
	KeyDifferentiators []string `json:"key_differentiators"`
	UseCases           []string `json:"common_use_cases"`
}

// DeriveContext builds the full brand context for one analysis call.
// It is deterministic: repeated calls with the same inputs return identical
// values, which keeps every fallback path reproducible.
func DeriveContext(brandName string, categories []string) *Context {
	industry := InferIndustry(brandName, categories)
	strength := StrengthScore(brandName)

	position, perception := marketPosition(strength)
	return &Context{
		BrandName:          brandName,
		Industry:           industry,
		BrandType:          ClassifyType(brandName),
		MarketPosition:     position,
		Perception:         perception,
		Maturity:           maturity(strength),
		StrengthScore:      strength,
		TargetAudience:     targetAudience(industry),
		KeyDifferentiators: keyDifferentiators(industry),
		UseCases:           UseCases(industry),
	}
}

// ClassifyType buckets a brand by naming signals alone.  It is intentionally
// coarse; it only steers prompt wording and heuristic templates.
func ClassifyType(brandName string) string {
	name := strings.ToLower(brandName)
	switch {
	case containsAny(name, "tech", "soft", "app", "digital", "sys", "cloud", "ai", "data"):
		return "technology"
	case containsAny(name, "services", "solutions", "consulting", "group", "partners"):
		return "service_provider"
	case containsAny(name, "products", "manufacturing", "labs", "works", "industries"):
		return "product_company"
	case containsAny(name, "health", "medical", "pharma", "care", "wellness"):
		return "healthcare"
	case containsAny(name, "bank", "finance", "capital", "invest", "fund"):
		return "financial"
	default:
		return "general_business"
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func marketPosition(strength float64) (position, perception string) {
	switch {
	case strength > 0.7:
		return "leader", "widely recognized"
	case strength > 0.5:
		return "established", "well known"
	default:
		return "emerging", "gaining awareness"
	}
}

func maturity(strength float64) string {
	switch {
	case strength > 0.7:
		return "mature"
	case strength > 0.5:
		return "growing"
	default:
		return "developing"
	}
}

func targetAudience(industry Industry) []string {
	switch industry {
	case IndustryTechnology:
		return []string{"developers", "IT professionals", "enterprises"}
	case IndustryHealthcare:
		return []string{"patients", "healthcare providers", "medical professionals"}
	case IndustryFinance:
		return []string{"investors", "financial advisors", "businesses"}
	case IndustryRealEstate:
		return []string{"homebuyers", "real estate agents", "property investors"}
	default:
		return []string{"consumers", "businesses", "professionals"}
	}
}

func keyDifferentiators(industry Industry) []string {
	switch industry {
	case IndustryTechnology:
		return []string{"innovation", "scalability", "security", "integration capabilities"}
	case IndustryHealthcare:
		return []string{"clinical outcomes", "safety", "regulatory compliance", "patient care"}
	case IndustryFinance:
		return []string{"security", "compliance", "returns", "risk management"}
	default:
		return []string{"quality", "reliability", "customer service", "value"}
	}
}

// UseCases returns the common use-case bank for an industry.  Query
// generation interpolates these into LLM prompts.
func UseCases(industry Industry) []string {
	switch industry {
	case IndustryTechnology:
		return []string{"software development", "system integration", "automation", "data analysis"}
	case IndustryHealthcare:
		return []string{"patient treatment", "diagnosis", "monitoring", "prevention"}
	case IndustryFinance:
		return []string{"investment management", "financial planning", "risk assessment", "compliance"}
	default:
		return []string{"business operations", "customer service", "process improvement", "growth"}
	}
}

// SyntheticDifferentiators returns the short industry-specific word set used
// when synthesizing placeholder content for a brand with no content sample.
func SyntheticDifferentiators(industry Industry) []string {
	switch industry {
	case IndustryTechnology:
		return []string{"scalable", "secure", "integrated"}
	case IndustryAutomotive:
		return []string{"range", "safety", "performance"}
	case IndustryHealthcare:
		return []string{"efficacy", "safety", "compliance"}
	case IndustryFinance:
		return []string{"returns", "risk management", "compliance"}
	case IndustryRealEstate:
		return []string{"locations", "value", "trust"}
	case IndustryEnergy:
		return []string{"renewable", "efficient", "sustainable"}
	default:
		return []string{"quality", "service", "value"}
	}
}
