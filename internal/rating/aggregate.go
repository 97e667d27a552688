package rating

import (
	"math"
	"sort"
	"strings"
)

// MaxTypicalTags caps the curated tag list for an actress.
const MaxTypicalTags = 8

// DefaultMinOccurrences is the occurrence threshold below which a tag is
// not considered typical.
const DefaultMinOccurrences = 2

// genericTags never appear in a typical-tag list.
var genericTags = map[string]struct{}{
	"hd":      {},
	"4k":      {},
	"new":     {},
	"recent":  {},
	"premium": {},
	"video":   {},
	"hot":     {},
	"sexy":    {},
}

// Average returns the arithmetic mean of the collected scores rounded to
// one decimal place, or false when no scene contributed a score. Rounding
// is half away from zero (math.Round).
func Average(scores []float64) (float64, bool) {
	if len(scores) == 0 {
		return 0, false
	}
	sum := 0.0
	for _, s := range scores {
		sum += s
	}
	mean := sum / float64(len(scores))
	return math.Round(mean*10) / 10, true
}

// TypicalTags derives the curated tag list from the tag sets of an
// actress's scenes. Tags are lower-cased and trimmed before counting; a
// scene listing the same tag twice counts twice. Tags seen fewer than
// minOccurrences times, and generic labels, are dropped. The result is
// alphabetical and at most MaxTypicalTags long; nil when nothing remains.
func TypicalTags(sceneTags [][]string, minOccurrences int) []string {
	if minOccurrences <= 0 {
		minOccurrences = DefaultMinOccurrences
	}

	counts := make(map[string]int)
	for _, tags := range sceneTags {
		for _, tag := range tags {
			name := strings.ToLower(strings.TrimSpace(tag))
			if name == "" {
				continue
			}
			counts[name]++
		}
	}

	var kept []string
	for name, n := range counts {
		if n < minOccurrences {
			continue
		}
		if _, generic := genericTags[name]; generic {
			continue
		}
		kept = append(kept, name)
	}

	sort.Strings(kept)
	if len(kept) > MaxTypicalTags {
		kept = kept[:MaxTypicalTags]
	}
	return kept
}
