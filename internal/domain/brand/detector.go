package brand

import (
	"regexp"
	"strings"
)

// Detect reports whether the brand is mentioned in the given text.
//
// Matching is case-insensitive and covers the variants AI answers actually
// produce: hyphen/space/collapsed forms, possessive suffix ("'s"), a
// domain-style suffix (brand + ".com"), and for multi-word brands an initials
// form plus a flexible-separator pattern.  Detect never returns an error; a
// pattern that fails to compile simply does not match.
func Detect(brandName, text string) bool {
	if strings.TrimSpace(brandName) == "" || strings.TrimSpace(text) == "" {
		return false
	}
	haystack := strings.ToLower(text)
	for _, pattern := range mentionPatterns(brandName) {
		re, err := regexp.Compile(pattern)
		if err != nil {
			continue
		}
		if re.MatchString(haystack) {
			return true
		}
	}
	return false
}

// CitationCount counts word-boundary occurrences of the brand name itself
// (including possessive forms) in text, case-insensitively.  Unlike Detect it
// deliberately ignores looser variants so the count stays interpretable as
// explicit citations.
func CitationCount(brandName, text string) int {
	name := strings.TrimSpace(brandName)
	if name == "" || text == "" {
		return 0
	}
	re, err := regexp.Compile(`(?i)\b` + regexp.QuoteMeta(name) + `(?:'s)?\b`)
	if err != nil {
		return 0
	}
	return len(re.FindAllStringIndex(text, -1))
}

// mentionPatterns builds the ordered regex pattern set for a brand name.
// All patterns are lower-case; callers lower-case the haystack once.
func mentionPatterns(brandName string) []string {
	name := strings.ToLower(strings.TrimSpace(brandName))
	words := strings.Fields(strings.ReplaceAll(name, "-", " "))

	variants := map[string]struct{}{}
	add := func(v string) {
		if v != "" {
			variants[v] = struct{}{}
		}
	}
	add(name)
	add(strings.ReplaceAll(name, "-", " "))
	add(strings.ReplaceAll(name, " ", "-"))
	add(strings.ReplaceAll(strings.ReplaceAll(name, "-", ""), " ", "")) // collapsed

	// Distinctive leading word of a multi-word brand ("Acme" for "Acme
	// Corp"), so possessive shorthand like "Acme's" still counts.
	if len(words) > 1 && len(words[0]) >= 3 {
		add(words[0])
	}

	// Initials form for multi-word brands (e.g., "ibm").
	if len(words) > 1 {
		var initials strings.Builder
		for _, w := range words {
			initials.WriteByte(w[0])
		}
		if initials.Len() >= 2 {
			add(initials.String())
		}
	}

	patterns := make([]string, 0, len(variants)+2)
	for v := range variants {
		patterns = append(patterns, `\b`+regexp.QuoteMeta(v)+`(?:'s)?\b`)
	}

	// Flexible separators between the words of a multi-word brand.
	if len(words) > 1 {
		quoted := make([]string, len(words))
		for i, w := range words {
			quoted[i] = regexp.QuoteMeta(w)
		}
		patterns = append(patterns, `\b`+strings.Join(quoted, `[\s\-]+`)+`(?:'s)?\b`)
	}

	// Domain-style mention (acmecorp.com).
	collapsed := strings.ReplaceAll(strings.ReplaceAll(name, "-", ""), " ", "")
	patterns = append(patterns, `\b`+regexp.QuoteMeta(collapsed)+`\.com\b`)

	return patterns
}
