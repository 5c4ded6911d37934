package search

import (
	"strings"

	"github.com/poiesic/curio/core"
)

// Stop words to filter out when checking for verbatim matches
var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "be": true, "is": true, "are": true,
	"was": true, "to": true, "of": true, "and": true, "in": true, "that": true,
	"have": true, "it": true, "for": true, "not": true, "on": true, "with": true,
	"as": true, "you": true, "do": true, "at": true, "this": true, "but": true,
	"by": true, "from": true,
}

// matchesAllQueryWords reports whether every meaningful query word appears
// in the artwork's own text: title, artist, and summary.
func matchesAllQueryWords(art *core.Artwork, query string) bool {
	if art == nil {
		return false
	}

	queryWords := tokenizeAndFilter(query)
	if len(queryWords) == 0 {
		return false
	}

	document := art.Title + " " + art.Artist + " " + art.EmbeddingSummary
	docWords := tokenizeAndFilter(document)
	docWordSet := make(map[string]bool, len(docWords))
	for _, word := range docWords {
		docWordSet[word] = true
	}

	for _, qWord := range queryWords {
		if !docWordSet[qWord] {
			return false
		}
	}

	return true
}

// tokenizeAndFilter splits text into words, lowercases, trims punctuation,
// and removes stop words.
func tokenizeAndFilter(text string) []string {
	words := strings.Fields(text)
	filtered := make([]string, 0, len(words))

	for _, word := range words {
		cleaned := strings.ToLower(strings.Trim(word, ".,!?;:'\"-()[]{}"))

		if cleaned != "" && !stopWords[cleaned] {
			filtered = append(filtered, cleaned)
		}
	}

	return filtered
}
