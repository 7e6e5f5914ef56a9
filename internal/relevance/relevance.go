// Package relevance ranks documents against a free-text query by keyword
// overlap. It is the deterministic ranking used when an AI ranking is not
// available, so it performs no I/O and cannot fail.
package relevance

import (
	"slices"
	"strings"
)

// MaxResults is the number of matches Rank returns at most.
const MaxResults = 5

// Document is the searchable text of one record. Empty fields are fine.
type Document struct {
	Title   string
	Summary string
	Content string
}

// Match is a scored document. Index is the 0-based position of the document
// in the slice passed to Rank.
type Match struct {
	Index int
	Score int
}

// Rank scores every document by the number of distinct query tokens that
// appear anywhere in its lower-cased title, summary and content. Matching is
// substring containment, not whole-word. Documents scoring zero are dropped;
// the rest are ordered by descending score, ties keeping input order, and cut
// to MaxResults.
func Rank(query string, docs []Document) []Match {
	tokens := Tokens(query)
	matches := make([]Match, 0, min(len(docs), MaxResults))
	if len(tokens) == 0 {
		return matches
	}

	for i, doc := range docs {
		text := strings.ToLower(doc.Title + " " + doc.Summary + " " + doc.Content)
		score := 0
		for _, tok := range tokens {
			if strings.Contains(text, tok) {
				score++
			}
		}
		if score > 0 {
			matches = append(matches, Match{Index: i, Score: score})
		}
	}

	slices.SortStableFunc(matches, func(a, b Match) int {
		return b.Score - a.Score
	})

	if len(matches) > MaxResults {
		matches = matches[:MaxResults]
	}
	return matches
}

// Tokens lower-cases the query, splits it on whitespace and removes
// duplicates, keeping first-seen order.
func Tokens(query string) []string {
	fields := strings.Fields(strings.ToLower(query))
	seen := make(map[string]struct{}, len(fields))
	tokens := fields[:0]
	for _, f := range fields {
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		tokens = append(tokens, f)
	}
	return tokens
}
