package application

import (
	"sort"

	"golang.org/x/text/language"

	"github.com/monsieurgui/climbinsight/internal/domain"
)

// derogationNote picks the display-note variant for the requested
// BCP-47 language tag from a policy's note map, using standard language
// matching so "fr-CA" finds an "fr" note. With no usable match it falls
// back to English, then to the lexicographically first variant, so a
// configured note is never silently dropped.
func derogationNote(policy domain.DerogationPolicy, requested string) string {
	if len(policy.Notes) == 0 {
		return ""
	}

	sorted := make([]string, 0, len(policy.Notes))
	for k := range policy.Notes {
		sorted = append(sorted, k)
	}
	sort.Strings(sorted)

	tags := make([]language.Tag, 0, len(sorted))
	keys := make([]string, 0, len(sorted))
	for _, k := range sorted {
		t, err := language.Parse(k)
		if err != nil {
			continue
		}
		tags = append(tags, t)
		keys = append(keys, k)
	}

	if requested != "" && len(tags) > 0 {
		matcher := language.NewMatcher(tags)
		if want, err := language.Parse(requested); err == nil {
			_, idx, conf := matcher.Match(want)
			if conf > language.No {
				return policy.Notes[keys[idx]]
			}
		}
	}

	if note, ok := policy.Notes["en"]; ok {
		return note
	}
	return policy.Notes[sorted[0]]
}
