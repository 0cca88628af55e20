package extract

import (
	"context"
	"os"
	"strings"
)

// TextExtractor reads plain-text and markdown files verbatim as UTF-8.
// Markdown bodies are preserved unmodified, front matter included; parsing
// them is someone else's job.
type TextExtractor struct{}

// Extract reads the file and returns its contents as-is.
func (e *TextExtractor) Extract(ctx context.Context, path string) Result {
	content, err := os.ReadFile(path)
	if err != nil {
		return Result{Text: failDiag("Text", err), Method: "textread"}
	}

	method := "textread"
	if strings.HasSuffix(strings.ToLower(path), ".md") {
		method = "markdown"
	}
	return Result{Text: string(content), Method: method}
}
