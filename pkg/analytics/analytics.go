// Package analytics derives keywords from clipped Markdown.
package analytics

import (
	"sort"
	"strings"
	"unicode"
)

// DefaultKeywordCount is how many keywords a saved note carries.
const DefaultKeywordCount = 8

// stopwords are ignored in frequency counts. Markdown syntax and link noise
// are stripped before lookup, so only plain words need to be listed.
var stopwords = toSet(`
a about above after again against all almost also although always am among an and
another any anyone anything are around as at
be became because become been before behind being below between both but by
can cannot could
did do does doing done down during
each either else enough etc even ever every everything
few for from further
had has have having he hence her here hers herself him himself his how however
i if in into is it its itself
just
last less let like
made make many may me might more most much must my myself
neither never next no nobody none nor not nothing now
of off often on once one only onto or other others our ours ourselves out over own
per perhaps please put
rather same see seem seems several she should since so some someone something still such
than that the their theirs them themselves then there therefore these they this those
through thus to together too toward towards
under until up upon us use
very via
was we well were what whatever when where whether which while who whom whose why
will with within without would
yet you your yours yourself yourselves
click button link menu image page pages website site home search loading
`)

func toSet(list string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range strings.Fields(list) {
		set[w] = struct{}{}
	}
	return set
}

// IsStopword reports whether word is ignored in frequency analysis.
func IsStopword(word string) bool {
	_, ok := stopwords[strings.ToLower(word)]
	return ok
}

// WordFrequency counts the non-stopword words of text. Words are lowercased
// and stripped of surrounding punctuation; contractions are split at the
// apostrophe, keeping the stem.
func WordFrequency(text string) map[string]int {
	frequencies := make(map[string]int)

	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\'' && r != '-' && r != '_'
	})
	for _, word := range words {
		if i := strings.IndexRune(word, '\''); i >= 0 {
			word = word[:i]
		}
		word = strings.Trim(word, "-_")

		if len([]rune(word)) < 2 || isNumber(word) || IsStopword(word) {
			continue
		}
		frequencies[word]++
	}

	return frequencies
}

func isNumber(word string) bool {
	for _, r := range word {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

type wordCount struct {
	word  string
	count int
}

// TopKeywords returns up to n of the most frequent words in text, most
// frequent first. Ties are broken alphabetically so results are stable.
func TopKeywords(text string, n int) []string {
	if n <= 0 {
		return nil
	}

	frequencies := WordFrequency(text)
	counts := make([]wordCount, 0, len(frequencies))
	for w, c := range frequencies {
		counts = append(counts, wordCount{w, c})
	}

	sort.Slice(counts, func(i, j int) bool {
		if counts[i].count != counts[j].count {
			return counts[i].count > counts[j].count
		}
		return counts[i].word < counts[j].word
	})

	limit := min(n, len(counts))
	keywords := make([]string, limit)
	for i := 0; i < limit; i++ {
		keywords[i] = counts[i].word
	}
	return keywords
}
