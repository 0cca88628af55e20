package summarize

import (
	"fmt"
	"strings"

	"github.com/eastfarm/knowledge-guide/internal/filetype"
	"github.com/eastfarm/knowledge-guide/internal/refs"
)

const (
	// Content sent to the service is bounded to this prefix.
	promptContentLimit = 5000

	systemPrompt = "You analyze content and extract semantic meaning."

	jsonShape = "Respond in this JSON format:\n" +
		"{\n  \"extract_title\": \"...\",\n  \"extract_content\": \"...\",\n  \"tags\": [\"tag1\", \"tag2\"]\n}\n\n"
)

// Length tiers: the requested summary size and model capability scale with
// the input.
const (
	shortContentLimit  = 1000
	mediumContentLimit = 5000

	shortSummaryTokens  = 200
	mediumSummaryTokens = 500
	longSummaryTokens   = 2000
)

const (
	fastModel    = "gpt-3.5-turbo"
	capableModel = "gpt-4"
)

// lengthTier returns the max summary tokens and model for the given content.
// Short content gets a concise summary from the cheaper tier; everything
// else uses the higher-capability model.
func lengthTier(content string) (maxTokens int, model string) {
	switch {
	case len(content) < shortContentLimit:
		return shortSummaryTokens, fastModel
	case len(content) < mediumContentLimit:
		return mediumSummaryTokens, capableModel
	default:
		return longSummaryTokens, capableModel
	}
}

// isResourceList reports whether the content heuristically resembles a
// numbered list of named external resources.
func isResourceList(content string) bool {
	if !strings.Contains(strings.ToLower(content), "resources") {
		return false
	}
	return strings.Count(content, "\n1)") > 1 || strings.Count(content, "\n2)") > 1
}

// buildPrompt selects one of five mutually exclusive templates in priority
// order: resource list, social post, OCR text, reference-aware, generic.
func buildPrompt(req Request) string {
	content := req.Content
	if len(content) > promptContentLimit {
		content = content[:promptContentLimit]
	}

	switch {
	case isResourceList(req.Content):
		return "You are analyzing a document that appears to be a resource list with references, links, and learning materials.\n\n" +
			"Create a detailed summary that specifically includes ALL referenced resources, people, and links. " +
			"Also provide relevant tags that capture the subject matter and type of resources.\n\n" +
			"In your extract, make sure to preserve:\n" +
			"1. All resource names and titles\n" +
			"2. All author names and affiliations\n" +
			"3. All categories of resources\n" +
			"4. Any referenced websites, tools, or platforms\n\n" +
			jsonShape +
			fmt.Sprintf("Content:\n%s", content)

	case req.SocialPost:
		return "You are analyzing a LinkedIn post. Create a clear title and detailed summary that captures " +
			"the key points, insights, and any URLs/resources mentioned in the post. Ignore promotional content.\n\n" +
			"Focus on what makes this post valuable for knowledge management purposes.\n\n" +
			jsonShape +
			fmt.Sprintf("LinkedIn Post Content:\n%s", content)

	case req.FileType == filetype.Image:
		return "You are analyzing text extracted from an image via OCR. The text may have errors or be incomplete.\n\n" +
			"Create a meaningful title and summary of what this image contains, plus relevant tags.\n\n" +
			"For complex content, provide a detailed summary that captures the key information.\n\n" +
			jsonShape +
			fmt.Sprintf("OCR Text:\n%s", content)

	case len(req.References) > 0:
		return "You are summarizing content that contains valuable URLs and references.\n\n" +
			"Create a title and detailed summary preserving key information, plus relevant tags.\n" +
			"For rich content with many references, provide a comprehensive summary.\n\n" +
			"Pay special attention to these detected URLs and resources:\n\n" +
			refs.Digest(req.References) + "\n\n" +
			jsonShape +
			fmt.Sprintf("Content:\n%s", content)

	default:
		return "You are a semantic summarizer. Return a short title and a deeper thematic summary, plus relevant tags.\n\n" +
			"For complex or information-rich content, provide a detailed summary that captures the key points.\n\n" +
			jsonShape +
			fmt.Sprintf("Content:\n%s", content)
	}
}
