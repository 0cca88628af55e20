package summarize

import (
	"encoding/json"
	"regexp"
	"strings"
)

// The response parsers form an ordered chain: each attempt either produces a
// result or defers to the next, terminating in a synthetic-default producer.
// Nothing in this file returns an error; a service response always yields
// some Result.

var (
	titleField   = regexp.MustCompile(`"extract_title":\s*"([^"]+)"`)
	contentField = regexp.MustCompile(`"extract_content":\s*"([^"]+)"`)
	tagsField    = regexp.MustCompile(`"tags":\s*\[(.*?)\]`)
)

type parserFunc func(raw string, req Request) (Result, bool)

var parserChain = []parserFunc{parseStrictJSON, parseFieldRegex, parseLineScan}

// parseResponse runs the chain over the raw service response.
func parseResponse(raw string, req Request) Result {
	for _, parse := range parserChain {
		if res, ok := parse(raw, req); ok {
			return applyDefaults(res, raw, req)
		}
	}
	return applyDefaults(Result{Status: StatusMalformed}, raw, req)
}

// parseStrictJSON accepts only a well-formed structured response carrying
// both expected fields.
func parseStrictJSON(raw string, req Request) (Result, bool) {
	var parsed struct {
		ExtractTitle   *string  `json:"extract_title"`
		ExtractContent *string  `json:"extract_content"`
		Tags           []string `json:"tags"`
	}
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &parsed); err != nil {
		return Result{}, false
	}
	if parsed.ExtractTitle == nil || parsed.ExtractContent == nil {
		// Parsed but incomplete; the regex tier may still salvage fields.
		return Result{}, false
	}

	summary := *parsed.ExtractContent
	if summary == "No summary." || summary == "No summary generated." {
		// The service answered in shape but not in substance.
		summary = contentFallback(req)
	}

	return Result{
		Title:   *parsed.ExtractTitle,
		Summary: summary,
		Tags:    parsed.Tags,
		Status:  StatusOK,
	}, true
}

// parseFieldRegex recovers the expected fields from responses that carry the
// structured shape inside surrounding prose or broken JSON.
func parseFieldRegex(raw string, req Request) (Result, bool) {
	titleMatch := titleField.FindStringSubmatch(raw)
	contentMatch := contentField.FindStringSubmatch(raw)
	if titleMatch == nil && contentMatch == nil {
		return Result{}, false
	}

	res := Result{Title: "Extracted Title", Summary: raw, Status: StatusMalformed}
	if titleMatch != nil {
		res.Title = titleMatch[1]
	}
	if contentMatch != nil {
		res.Summary = contentMatch[1]
	}
	if tagsMatch := tagsField.FindStringSubmatch(raw); tagsMatch != nil {
		res.Tags = splitTagList(tagsMatch[1])
	} else {
		res.Tags = []string{"extracted"}
	}
	return res, true
}

// parseLineScan is the salvage tier for free-text responses: it hunts for
// "title:"/"tags:" lines and uses the raw text as the summary.
func parseLineScan(raw string, req Request) (Result, bool) {
	res := Result{Title: "Untitled", Summary: raw, Status: StatusMalformed}

	for _, line := range strings.Split(raw, "\n") {
		lower := strings.ToLower(line)
		if res.Title == "Untitled" && strings.Contains(lower, "title") && strings.Contains(line, ":") {
			value := strings.SplitN(line, ":", 2)[1]
			res.Title = strings.Trim(strings.TrimSpace(value), `"'`)
		}
		if res.Tags == nil && strings.Contains(lower, "tags") && strings.Contains(line, ":") {
			value := strings.SplitN(line, ":", 2)[1]
			res.Tags = splitTagList(value)
		}
	}

	if res.Tags == nil {
		res.Tags = []string{"extracted"}
	}
	return res, true
}

// applyDefaults fills whatever a parser tier left missing.
func applyDefaults(res Result, raw string, req Request) Result {
	if res.Title == "" || res.Title == "Untitled" {
		if fl := firstLineTitle(req.Content); fl != "" {
			res.Title = fl
		} else if res.Title == "" {
			res.Title = "Untitled"
		}
	}

	if strings.TrimSpace(res.Summary) == "" {
		if strings.TrimSpace(raw) != "" {
			res.Summary = raw
		} else {
			res.Summary = contentFallback(req)
		}
	}

	res.Tags = augmentTags(res.Tags, req)
	return res
}

// firstLineTitle derives a placeholder title from the first line of the
// source content, only when that line is between 6 and 99 characters.
func firstLineTitle(content string) string {
	line := strings.TrimSpace(strings.SplitN(content, "\n", 2)[0])
	if len(line) > 5 && len(line) < 100 {
		return line
	}
	return ""
}

// contentFallback is the last-resort summary: short sources verbatim, long
// ones as an annotated preview.
func contentFallback(req Request) string {
	if len(req.Content) < shortContentLimit {
		return req.Content
	}
	return req.Content[:500] + "... (Extract generation failed, showing original content preview)"
}

// augmentTags makes sure a result carries meaningful tags, scanning the
// source content for a small set of keyword signals and appending the file
// type name.
func augmentTags(tags []string, req Request) []string {
	if len(tags) > 0 && !(len(tags) == 1 && tags[0] == "untagged") {
		return tags
	}
	if len(tags) == 0 {
		tags = []string{"untagged"}
	}

	if strings.Contains(req.Content, "AI") {
		tags = append(tags, "AI")
	}
	lower := strings.ToLower(req.Content)
	if strings.Contains(lower, "book") || strings.Contains(lower, "publication") {
		tags = append(tags, "Reading")
	}
	if strings.Contains(lower, "research") {
		tags = append(tags, "Research")
	}
	if req.FileType != "" {
		tags = append(tags, req.FileType.Title())
	}
	return tags
}

func splitTagList(value string) []string {
	var tags []string
	for _, part := range strings.Split(value, ",") {
		tag := strings.Trim(strings.TrimSpace(part), `"'[]`)
		if tag != "" {
			tags = append(tags, tag)
		}
	}
	if len(tags) == 0 {
		tags = []string{"extracted"}
	}
	return tags
}
