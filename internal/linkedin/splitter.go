// Package linkedin separates the primary post body of a LinkedIn PDF export
// from the comment section that follows it. The split is a best-effort
// heuristic over the text signature of the export, not a guaranteed-correct
// segmentation.
package linkedin

import (
	"fmt"
	"regexp"
	"strings"
)

// section is the region of the export the scanner is currently inside.
type section int

const (
	inBody section = iota
	inComments
	inAuthorComment
)

// Signature phrases that mark the start of the engagement/comment region.
var commentMarkers = []string{
	"Reactions",
	"Like · Reply",
	"comments · ",
	"reposts",
	"Most relevant",
}

// Connection-degree indicators; the line preceding the first match is taken
// as the post author's display name.
var authorMarkers = []string{"• Author", "• 1st", "• 2nd", "• 3rd"}

var urlPattern = regexp.MustCompile(`https?://(?:[-\w.]|(?:%[\da-fA-F]{2}))+(?:/[-\w%!.~'()*+,;=:@/&?=]*)?`)

const (
	authorScanLines  = 15 // author attribution appears near the top of the export
	commentGuardLine = 10 // comment markers only count after this many lines
)

// Split returns the text limited to the primary post body. URLs found in the
// author's own follow-up comment that are absent from the body and look like
// shortener or commercial-domain links are appended as a labeled addendum.
func Split(text string) string {
	lines := strings.Split(text, "\n")
	author := findAuthor(lines)

	state := inBody
	var body []string
	var authorURLs []string

	for i, line := range lines {
		switch state {
		case inBody:
			if i > commentGuardLine && containsAny(line, commentMarkers) {
				// Once the comment region starts, nothing below is post body.
				state = inComments
				continue
			}
			body = append(body, line)

		case inComments:
			if author != "" && strings.Contains(line, author) && authorMarkerFollows(lines, i) {
				state = inAuthorComment
			}

		case inAuthorComment:
			authorURLs = append(authorURLs, urlPattern.FindAllString(line, -1)...)
			if strings.Contains(line, "Like · Reply") || strings.Contains(line, "Like · ") {
				state = inComments
			}
		}
	}

	main := strings.Join(body, "\n")
	for _, u := range authorURLs {
		if strings.Contains(main, u) {
			continue
		}
		// Shortened links from the author are usually the resource the post
		// is actually about.
		if strings.Contains(u, "lnkd.in") || strings.Contains(u, ".com") {
			main += fmt.Sprintf("\n\nAdditional URL from author comment: %s", u)
		}
	}

	return main
}

// findAuthor scans the first lines of the export for a connection-degree
// marker and returns the display name on the line before it.
func findAuthor(lines []string) string {
	limit := authorScanLines
	if len(lines) < limit {
		limit = len(lines)
	}
	for i := 1; i < limit; i++ {
		if containsAny(lines[i], authorMarkers) {
			return strings.TrimSpace(lines[i-1])
		}
	}
	return ""
}

// authorMarkerFollows reports whether an "Author" marker appears within the
// two lines after index i.
func authorMarkerFollows(lines []string, i int) bool {
	for j := i + 1; j <= i+2 && j < len(lines); j++ {
		if strings.Contains(lines[j], "Author") {
			return true
		}
	}
	return false
}

func containsAny(line string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(line, m) {
			return true
		}
	}
	return false
}
