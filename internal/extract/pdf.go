package extract

import (
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/eastfarm/knowledge-guide/internal/linkedin"
)

// Signature phrases that identify a LinkedIn post export near the top of the
// extracted text.
var socialSignatures = []string{"Profile viewers", "Post impressions"}

const signatureWindow = 500

// PDFExtractor concatenates per-page text with newline separators. When the
// result matches the LinkedIn export signature it is handed to the post
// splitter before being returned.
type PDFExtractor struct{}

// Extract reads every page of the PDF. Empty pages contribute empty strings,
// not errors; a panic inside the PDF library is converted into the shared
// diagnostic format.
func (e *PDFExtractor) Extract(ctx context.Context, path string) (res Result) {
	res.Method = "pdf"

	// The PDF reader panics on some malformed files.
	defer func() {
		if r := recover(); r != nil {
			res = Result{Text: failDiag("PDF", fmt.Errorf("%v", r)), Method: "pdf"}
		}
	}()

	f, reader, err := pdf.Open(path)
	if err != nil {
		res.Text = failDiag("PDF", err)
		return res
	}
	defer f.Close()

	var pages []string
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			pages = append(pages, "")
			continue
		}
		pages = append(pages, text)
	}

	text := strings.Join(pages, "\n")
	if IsSocialExport(text) {
		res.SocialPost = true
		text = linkedin.Split(text)
	}

	res.Text = text
	return res
}

// IsSocialExport reports whether PDF-derived text carries the LinkedIn
// export signature: a known phrase in the first few hundred characters, or
// the network's domain anywhere in the text.
func IsSocialExport(text string) bool {
	head := text
	if len(head) > signatureWindow {
		head = head[:signatureWindow]
	}
	for _, sig := range socialSignatures {
		if strings.Contains(head, sig) {
			return true
		}
	}
	return strings.Contains(strings.ToLower(text), "linkedin.com")
}
