package extract

import (
	"context"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/eastfarm/knowledge-guide/internal/filetype"
	"github.com/eastfarm/knowledge-guide/pkg/logger"
)

// RawDecoder handles unclassified files: it attempts UTF-8 decoding of the
// raw bytes and falls back to a single-byte Western decode that ignores
// undecodable bytes. This path never fails outright.
type RawDecoder struct {
	log *logger.Logger
}

// Extract decodes the file's bytes as text.
func (d *RawDecoder) Extract(ctx context.Context, path string) Result {
	content, err := os.ReadFile(path)
	if err != nil {
		return Result{Text: failDiag("Raw", err), Method: "decode_utf8"}
	}

	if d.log != nil {
		d.log.Debugf("raw decode of unclassified file, detected mime: %s", filetype.Sniff(path))
	}

	if utf8.Valid(content) {
		return Result{Text: string(content), Method: "decode_utf8"}
	}

	// Latin-1: every byte maps directly to the code point of the same value,
	// so nothing is ever undecodable.
	var sb strings.Builder
	sb.Grow(len(content))
	for _, b := range content {
		sb.WriteRune(rune(b))
	}
	return Result{Text: sb.String(), Method: "decode_latin1"}
}
