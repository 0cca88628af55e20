// Package metadata writes the persisted record for a processed file: a
// frontmatter document with the attributes as a YAML header and the
// extracted body following. Records are written once and never mutated by
// the pipeline.
package metadata

import (
	"bytes"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/djherbis/times"
	"gopkg.in/yaml.v3"
)

// ParseStatus values recorded on a MetadataRecord.
const (
	ParseStatusEnriched = "enriched"          // extract content came from a successful AI call
	ParseStatusFailed   = "enrichment_failed" // AI call failed or was unusable; content forced blank
	ParseStatusBasic    = "basic"             // no AI attempt; content is a raw-text preview
)

// Record is the attribute set persisted in the frontmatter header.
type Record struct {
	Title            string   `yaml:"title"`
	Author           string   `yaml:"author"`
	Date             string   `yaml:"date"`
	Category         string   `yaml:"category"`
	Tags             []string `yaml:"tags"`
	ExtractContent   string   `yaml:"extract_content"`
	ParseStatus      string   `yaml:"parse_status"`
	ExtractionMethod string   `yaml:"extraction_method"`
	FileType         string   `yaml:"file_type"`
	Source           string   `yaml:"source"`
	Modified         string   `yaml:"modified,omitempty"`
	Reviewed         bool     `yaml:"reviewed"`
	ReprocessStatus  string   `yaml:"reprocess_status"`
	ReprocessRounds  string   `yaml:"reprocess_rounds"`
	SourceURL        *string  `yaml:"source_url"`
}

var unsafeFilenameChars = regexp.MustCompile(`[^\w\-_. ]`)

// Filename derives the metadata file name for a source file: unsafe
// characters replaced, extension swapped for .md.
func Filename(source string) string {
	safe := unsafeFilenameChars.ReplaceAllString(source, "_")
	if i := strings.LastIndex(safe, "."); i > 0 {
		safe = safe[:i]
	}
	return safe + ".md"
}

// SourceModified returns the source file's modification time formatted as an
// ISO date, or "" when it cannot be read.
func SourceModified(path string) string {
	ts, err := times.Stat(path)
	if err != nil {
		return ""
	}
	return ts.ModTime().Format("2006-01-02")
}

// Write persists the record and body as a frontmatter document at path.
func Write(path string, rec Record, body string) error {
	header, err := yaml.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal metadata attributes: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString("---\n")
	buf.Write(header)
	buf.WriteString("---\n\n")
	buf.WriteString(body)
	if !strings.HasSuffix(body, "\n") {
		buf.WriteString("\n")
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write metadata file: %w", err)
	}
	return nil
}
