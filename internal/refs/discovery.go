// Package refs discovers URLs and citation-like titles in extracted text and
// enriches the URLs with fetched page metadata. Discovery is a best-effort
// heuristic scanner, not a citation parser: false positives and negatives are
// expected and acceptable.
package refs

import (
	"regexp"
	"strings"
)

// ReferenceSet is the intermediate result of reference discovery.
type ReferenceSet struct {
	URLs            []string // explicit http(s) URLs, document order, deduplicated
	CandidateTitles []string // heuristically extracted titles, may be unrelated to URLs
}

var (
	urlPattern      = regexp.MustCompile(`https?://(?:[-\w.]|(?:%[\da-fA-F]{2}))+(?:/[-\w%!.~'()*+,;=:@/&?=]*)?`)
	markdownLink    = regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`)
	resourceEntry   = regexp.MustCompile(`(?m)^(?:\d+\)|-)\s*(.+?)(?: by | \()`)
	seeReference    = regexp.MustCompile(`see\s+([^.,:;\n]+)`)
	titledReference = []*regexp.Regexp{
		regexp.MustCompile(`[A-Z][a-z]+(?:\s[A-Z][a-z]+)*\s(?:AI|ML|for\sEveryone|Intelligence|Awareness|Machine|clone)`),
		regexp.MustCompile(`my book|my AI clone|Appendix [A-Z]|Foundry from HBS`),
	}
)

// Candidate titles this short are discarded as noise.
const minTitleLength = 6

// Common words that match the title patterns but are never titles.
var titleExclusions = map[string]struct{}{
	"and": {}, "the": {}, "this": {}, "that": {},
	"with": {}, "from": {}, "after": {}, "before": {},
}

// Discover scans text for explicit URLs, markdown links, and heuristically
// titled references.
func Discover(text string) ReferenceSet {
	var set ReferenceSet

	seenURLs := map[string]struct{}{}
	addURL := func(u string) {
		if _, ok := seenURLs[u]; ok {
			return
		}
		seenURLs[u] = struct{}{}
		set.URLs = append(set.URLs, u)
	}

	for _, u := range urlPattern.FindAllString(text, -1) {
		addURL(u)
	}
	for _, m := range markdownLink.FindAllStringSubmatch(text, -1) {
		if strings.HasPrefix(m[2], "http") {
			addURL(m[2])
		}
	}

	seenTitles := map[string]struct{}{}
	addTitle := func(t string) {
		t = strings.TrimSpace(t)
		if len(t) < minTitleLength {
			return
		}
		if _, excluded := titleExclusions[strings.ToLower(t)]; excluded {
			return
		}
		if _, ok := seenTitles[t]; ok {
			return
		}
		seenTitles[t] = struct{}{}
		set.CandidateTitles = append(set.CandidateTitles, t)
	}

	// Capitalized phrases from a small fixed vocabulary, explicit self
	// references, and short phrases following "see".
	for _, pattern := range titledReference {
		for _, match := range pattern.FindAllString(text, -1) {
			addTitle(match)
		}
	}
	for _, m := range seeReference.FindAllStringSubmatch(text, -1) {
		addTitle(m[1])
	}

	// List-item entries of the "title by author" shape common in resource
	// list documents.
	for _, m := range resourceEntry.FindAllStringSubmatch(text, -1) {
		addTitle(m[1])
	}

	return set
}
