package rating

import (
	"regexp"
	"strconv"
	"strings"
)

// star is counted once per glyph. The variation-selector form ("⭐️")
// contains the same base rune, so a plain substring count covers both.
const star = "⭐"

var (
	fractionRe = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*/\s*(\d+(?:\.\d+)?)`)
	numberRe   = regexp.MustCompile(`\d+(?:\.\d+)?`)
)

// keywordGroups map French sentiment words to fixed scores. Groups are
// ordered by priority: "très bon" must be tried before "bon".
var keywordGroups = []struct {
	score float64
	words []string
}{
	{5.0, []string{"excellent", "parfait", "incroyable", "ouf"}},
	{4.5, []string{"très bon", "super", "top", "génial"}},
	{4.0, []string{"bon", "bien", "cool", "sympa"}},
	{3.0, []string{"moyen", "correct", "ok"}},
}

// Kind discriminates the raw forms a personal rating can take.
type Kind int

const (
	KindAbsent Kind = iota
	KindNumeric
	KindText
)

// Value is a scene's raw personal rating: absent, already numeric, or
// free text entered by the user with no fixed format.
type Value struct {
	Kind Kind
	Num  float64
	Str  string
}

func Absent() Value          { return Value{Kind: KindAbsent} }
func Number(n float64) Value { return Value{Kind: KindNumeric, Num: n} }
func Text(s string) Value    { return Value{Kind: KindText, Str: s} }

// TextOrAbsent treats an empty string as no rating.
func TextOrAbsent(s string) Value {
	if strings.TrimSpace(s) == "" {
		return Absent()
	}
	return Text(s)
}

// Parse turns a raw rating into a score on the 0-5 scale. The second
// return value is false when the rating contributes no score.
//
// Free text is matched in priority order: star glyphs, a/b fractions
// rescaled onto 5, the first bare number, then French keywords. Whatever
// branch produced the score, a value above 5 is rescaled once by 5/10
// (treated as a 10-point rating); the rescale is never reapplied.
func Parse(v Value) (float64, bool) {
	switch v.Kind {
	case KindNumeric:
		return normalize(v.Num), true
	case KindText:
		score, ok := parseText(v.Str)
		if !ok {
			return 0, false
		}
		return normalize(score), true
	default:
		return 0, false
	}
}

func parseText(s string) (float64, bool) {
	if n := strings.Count(s, star); n > 0 {
		return float64(n), true
	}

	if strings.Contains(s, "/") {
		if m := fractionRe.FindStringSubmatch(s); m != nil {
			num, err1 := strconv.ParseFloat(m[1], 64)
			den, err2 := strconv.ParseFloat(m[2], 64)
			if err1 != nil || err2 != nil || den == 0 {
				// A matched fraction that cannot be evaluated yields
				// no score rather than falling through.
				return 0, false
			}
			return num / den * 5, true
		}
	}

	if m := numberRe.FindString(s); m != "" {
		n, err := strconv.ParseFloat(m, 64)
		if err != nil {
			return 0, false
		}
		return n, true
	}

	lower := strings.ToLower(s)
	for _, group := range keywordGroups {
		for _, word := range group.words {
			if strings.Contains(lower, word) {
				return group.score, true
			}
		}
	}

	return 0, false
}

// normalize applies the single-pass >5 rescale. "48/10" evaluates to 24,
// rescales to 12 and stays there.
func normalize(score float64) float64 {
	if score > 5 {
		return score * 5 / 10
	}
	return score
}
