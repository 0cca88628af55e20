// Package summarize asks the summarization service for a structured
// (title, summary, tags) record describing a file's content, degrading
// gracefully through multiple fallback tiers when the service misbehaves.
package summarize

import (
	"context"
	"strings"

	"github.com/eastfarm/knowledge-guide/internal/filetype"
	"github.com/eastfarm/knowledge-guide/internal/refs"
)

// Status reports how the summarization attempt concluded.
type Status string

const (
	StatusOK         Status = "ok"
	StatusMissingKey Status = "missing-key"
	StatusMalformed  Status = "malformed-response"
	StatusAPIError   Status = "api-error"
)

// Result is the output of one summarization attempt.
type Result struct {
	Title   string
	Summary string
	Tags    []string
	Status  Status
}

// Request carries everything the client needs to build a prompt for one file.
type Request struct {
	Content    string
	FileType   filetype.FileType
	SocialPost bool
	References []refs.EnrichedReference
	SourceName string // original filename, used only in log lines
}

// ChatRequest is a single completion request to the summarization service.
type ChatRequest struct {
	Model       string
	System      string
	Prompt      string
	MaxTokens   int
	Temperature float32
}

// ChatService is the substitutable boundary to the summarization service, so
// tests can inject a deterministic fake instead of a network client.
type ChatService interface {
	Complete(ctx context.Context, req ChatRequest) (string, error)
}

// Substrings whose presence marks a summary as a failure artifact rather
// than usable content.
var failureMarkers = []string{"Extract failed", "Missing API Key", "No summary"}

// Usable reports whether a summary may be persisted as enriched content: it
// must be present, longer than ten trimmed characters, and free of the fixed
// failure markers.
func Usable(r Result) bool {
	if r.Summary == "" {
		return false
	}
	if len(strings.TrimSpace(r.Summary)) <= 10 {
		return false
	}
	for _, marker := range failureMarkers {
		if strings.Contains(r.Summary, marker) {
			return false
		}
	}
	return true
}
