package extract

import (
	"context"
	"os"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
)

// HTMLExtractor converts saved web pages to markdown so their content reads
// like the rest of the text corpus.
type HTMLExtractor struct{}

// Extract reads the file and converts its markup to markdown.
func (e *HTMLExtractor) Extract(ctx context.Context, path string) Result {
	content, err := os.ReadFile(path)
	if err != nil {
		return Result{Text: failDiag("HTML", err), Method: "html2md"}
	}

	markdown, err := htmltomarkdown.ConvertString(string(content))
	if err != nil {
		return Result{Text: failDiag("HTML", err), Method: "html2md"}
	}
	return Result{Text: markdown, Method: "html2md"}
}
