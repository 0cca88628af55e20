package extract

import (
	"context"
	"fmt"
	"strings"

	"github.com/unidoc/unioffice/v2/document"
	"github.com/unidoc/unioffice/v2/presentation"
)

// DocxExtractor reads word-processor documents: paragraph text first, then
// table-cell text, each non-blank block separated by a blank line.
type DocxExtractor struct{}

// Extract opens the .docx file and collects paragraph and table text.
func (e *DocxExtractor) Extract(ctx context.Context, path string) Result {
	doc, err := document.Open(path)
	if err != nil {
		return Result{Text: failDiag("Word document", err), Method: "docx"}
	}

	var blocks []string
	for _, para := range doc.Paragraphs() {
		var sb strings.Builder
		for _, run := range para.Runs() {
			sb.WriteString(run.Text())
		}
		if text := strings.TrimSpace(sb.String()); text != "" {
			blocks = append(blocks, sb.String())
		}
	}

	for _, table := range doc.Tables() {
		for _, row := range table.Rows() {
			for _, cell := range row.Cells() {
				var sb strings.Builder
				for _, para := range cell.Paragraphs() {
					for _, run := range para.Runs() {
						sb.WriteString(run.Text())
					}
				}
				if text := strings.TrimSpace(sb.String()); text != "" {
					blocks = append(blocks, sb.String())
				}
			}
		}
	}

	return Result{Text: strings.Join(blocks, "\n\n"), Method: "docx"}
}

// PptxExtractor reads presentations slide by slide. Each slide with
// extractable text is emitted under a "--- Slide N ---" header; slides with
// no text are omitted entirely.
type PptxExtractor struct{}

// Extract opens the .pptx file and collects per-slide shape text.
func (e *PptxExtractor) Extract(ctx context.Context, path string) Result {
	ppt, err := presentation.Open(path)
	if err != nil {
		return Result{Text: failDiag("PowerPoint", err), Method: "pptx"}
	}

	var slides []string
	extracted := ppt.ExtractText()
	for i, slide := range extracted.Slides {
		parts := []string{fmt.Sprintf("--- Slide %d ---", i+1)}
		for _, item := range slide.Items {
			if text := strings.TrimSpace(item.Text); text != "" {
				parts = append(parts, item.Text)
			}
		}
		if len(parts) > 1 {
			slides = append(slides, strings.Join(parts, "\n\n"))
		}
	}

	return Result{Text: strings.Join(slides, "\n\n"), Method: "pptx"}
}
