package textutil

import (
	"regexp"
	"slices"
	"strings"
	"unicode"

	"github.com/antzucaro/matchr"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var separatorRegex = regexp.MustCompile(`[\s\p{P}]+`)

var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// NormalizeName lowercases a name, strips diacritics and punctuation and sorts its words,
// so that "Hugo, Victor" and "Victor HUGO" normalize to the same string.
func NormalizeName(name string) string {
	stripped, _, err := transform.String(stripMarks, name)
	if err != nil {
		stripped = name
	}
	stripped = strings.ToLower(stripped)

	words := strings.Fields(separatorRegex.ReplaceAllString(stripped, " "))
	slices.Sort(words)
	return strings.Join(words, " ")
}

// BestMatch returns the index of the candidate closest to `query` by Jaro-Winkler
// similarity of their normalized forms, or -1 if there are no candidates.
// Ties keep the earliest candidate.
func BestMatch(query string, candidates []string) int {
	query = NormalizeName(query)

	best := -1
	var bestScore float64
	for i, c := range candidates {
		score := matchr.JaroWinkler(query, NormalizeName(c), false)
		if best < 0 || score > bestScore {
			best = i
			bestScore = score
		}
	}
	return best
}
