// Package extract turns files of heterogeneous formats into plain text.
//
// Every extractor shares one contract: it returns the extracted text, or a
// bracketed diagnostic of the form "[<Kind> extraction failed: <reason>]".
// Extraction failure is never surfaced as an error so the pipeline can treat
// all outcomes uniformly.
package extract

import (
	"context"
	"fmt"

	"github.com/eastfarm/knowledge-guide/internal/filetype"
	"github.com/eastfarm/knowledge-guide/pkg/logger"
)

// Result is the outcome of extracting one file.
type Result struct {
	Text       string // extracted text, or a bracketed diagnostic
	Method     string // which extractor or decode fallback produced Text
	SocialPost bool   // PDF text matched the LinkedIn export signature
}

// Extractor produces text from a file on disk.
type Extractor interface {
	Extract(ctx context.Context, path string) Result
}

// Options configures the registry's extractors.
type Options struct {
	OCRBinary    string
	OCRLanguages []string
	Log          *logger.Logger
}

// Registry dispatches extraction by file type. Files of unknown type fall
// back to a raw byte decoder that never fails outright.
type Registry struct {
	extractors map[filetype.FileType]Extractor
	fallback   Extractor
}

// NewRegistry builds a registry with all format extractors registered.
func NewRegistry(opts Options) *Registry {
	log := opts.Log
	if log == nil {
		log = logger.New("extract")
	}

	return &Registry{
		extractors: map[filetype.FileType]Extractor{
			filetype.Text:         &TextExtractor{},
			filetype.PDF:          &PDFExtractor{},
			filetype.Document:     &DocxExtractor{},
			filetype.Presentation: &PptxExtractor{},
			filetype.Spreadsheet:  &XlsxExtractor{},
			filetype.RTF:          &RTFExtractor{},
			filetype.HTML:         &HTMLExtractor{},
			filetype.Image: &OCRExtractor{
				Binary:    opts.OCRBinary,
				Languages: opts.OCRLanguages,
				log:       log,
			},
		},
		fallback: &RawDecoder{log: log},
	}
}

// Extract runs the extractor registered for the given file type, or the raw
// decoder when none is registered.
func (r *Registry) Extract(ctx context.Context, ft filetype.FileType, path string) Result {
	if ex, ok := r.extractors[ft]; ok {
		return ex.Extract(ctx, path)
	}
	return r.fallback.Extract(ctx, path)
}

// failDiag encodes an extraction failure in the shared diagnostic format.
func failDiag(kind string, err error) string {
	return fmt.Sprintf("[%s extraction failed: %v]", kind, err)
}
