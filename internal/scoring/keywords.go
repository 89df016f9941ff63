package scoring

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"mechina-chat-service/internal/domain"
)

// stripMarks decomposes and removes combining marks, which covers Hebrew
// niqqud and cantillation as well as Latin accents.
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize casefolds text, strips combining diacritical marks and replaces
// any rune that is not a letter, digit or whitespace with a space.
func Normalize(text string) string {
	lowered := strings.ToLower(text)
	stripped, _, err := transform.String(stripMarks, lowered)
	if err != nil {
		stripped = lowered
	}
	var b strings.Builder
	b.Grow(len(stripped))
	for _, r := range stripped {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}
	return b.String()
}

// Keywords scores an answer against rule. Each positive group adds its
// weight once if any of its normalized terms occurs as a substring of the
// normalized answer; negative groups subtract the same way. The result is
// clamped to [rule.Min, rule.Max].
//
// Matching is substring, not whole-word: "תכנותניק" still triggers "תכנות".
func Keywords(answer string, rule domain.KeywordRule) int {
	text := Normalize(answer)
	score := rule.Base
	for _, group := range rule.Positive {
		if groupMatches(text, group) {
			score += group.Weight
		}
	}
	for _, group := range rule.Negative {
		if groupMatches(text, group) {
			score -= group.Weight
		}
	}
	return clamp(score, rule.Min, rule.Max)
}

func groupMatches(text string, group domain.KeywordGroup) bool {
	for _, term := range group.Terms {
		if strings.Contains(text, Normalize(term)) {
			return true
		}
	}
	return false
}

func clamp(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
