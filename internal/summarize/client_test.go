package summarize

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/eastfarm/knowledge-guide/internal/config"
	"github.com/eastfarm/knowledge-guide/internal/filetype"
)

// fakeService is a scriptable ChatService: it fails until the configured
// attempt and records every request it sees.
type fakeService struct {
	failures int
	response string
	err      error
	requests []ChatRequest
}

func (f *fakeService) Complete(ctx context.Context, req ChatRequest) (string, error) {
	f.requests = append(f.requests, req)
	if len(f.requests) <= f.failures {
		if f.err != nil {
			return "", f.err
		}
		return "", errors.New("transient failure")
	}
	return f.response, nil
}

func newTestClient(service ChatService, apiKey string) (*Client, *[]time.Duration) {
	c := NewClient(config.SummarizerConfig{
		APIKey:         apiKey,
		MaxRetries:     3,
		BaseRetryDelay: "2s",
	}, service, nil)

	var sleeps []time.Duration
	c.sleep = func(d time.Duration) { sleeps = append(sleeps, d) }
	return c, &sleeps
}

func TestSummarizeMissingKey(t *testing.T) {
	svc := &fakeService{response: "never reached"}
	c, _ := newTestClient(svc, "   ")

	res := c.Summarize(context.Background(), Request{Content: "anything"})
	if res.Status != StatusMissingKey {
		t.Errorf("Status = %q, want %q", res.Status, StatusMissingKey)
	}
	if res.Title != "Missing API Key" {
		t.Errorf("Title = %q", res.Title)
	}
	if len(svc.requests) != 0 {
		t.Errorf("service was called %d times despite missing key", len(svc.requests))
	}
	if Usable(res) {
		t.Error("missing-key result passed the usability gate")
	}
}

func TestSummarizeSuccess(t *testing.T) {
	svc := &fakeService{
		response: `{"extract_title": "T", "extract_content": "A perfectly usable summary.", "tags": ["t"]}`,
	}
	c, sleeps := newTestClient(svc, "sk-test")

	res := c.Summarize(context.Background(), Request{Content: "some text"})
	if res.Status != StatusOK {
		t.Errorf("Status = %q, want %q", res.Status, StatusOK)
	}
	if len(svc.requests) != 1 {
		t.Errorf("service called %d times, want 1", len(svc.requests))
	}
	if len(*sleeps) != 0 {
		t.Errorf("slept %v on a first-attempt success", *sleeps)
	}
	if !Usable(res) {
		t.Error("successful result failed the usability gate")
	}
}

func TestSummarizeRetriesWithBackoff(t *testing.T) {
	svc := &fakeService{
		failures: 2,
		response: `{"extract_title": "T", "extract_content": "Recovered on the third try.", "tags": []}`,
	}
	c, sleeps := newTestClient(svc, "sk-test")

	res := c.Summarize(context.Background(), Request{Content: "some text"})
	if res.Status != StatusOK {
		t.Errorf("Status = %q, want %q", res.Status, StatusOK)
	}
	if len(svc.requests) != 3 {
		t.Errorf("service called %d times, want 3", len(svc.requests))
	}

	want := []time.Duration{2 * time.Second, 4 * time.Second}
	if len(*sleeps) != len(want) {
		t.Fatalf("slept %d times, want %d", len(*sleeps), len(want))
	}
	for i, d := range *sleeps {
		if d != want[i] {
			t.Errorf("sleep %d = %v, want %v", i, d, want[i])
		}
	}
}

func TestSummarizeExhaustedRetries(t *testing.T) {
	svc := &fakeService{failures: 10, err: errors.New("rate limited")}
	c, sleeps := newTestClient(svc, "sk-test")

	res := c.Summarize(context.Background(), Request{Content: "some text", FileType: filetype.PDF})
	if res.Status != StatusAPIError {
		t.Errorf("Status = %q, want %q", res.Status, StatusAPIError)
	}
	if len(svc.requests) != 3 {
		t.Errorf("service called %d times, want maxRetries=3", len(svc.requests))
	}
	if len(*sleeps) != 2 {
		t.Errorf("slept %d times, want 2 (no sleep after the final attempt)", len(*sleeps))
	}
	if res.Title != "Extraction Failed" {
		t.Errorf("Title = %q", res.Title)
	}
	if !strings.Contains(res.Summary, "rate limited") {
		t.Errorf("Summary does not carry the last error: %q", res.Summary)
	}
	wantTags := []string{"extraction_failed", "Pdf"}
	if len(res.Tags) != 2 || res.Tags[0] != wantTags[0] || res.Tags[1] != wantTags[1] {
		t.Errorf("Tags = %v, want %v", res.Tags, wantTags)
	}
}

func TestSummarizeUsesLengthTierModel(t *testing.T) {
	svc := &fakeService{response: `{"extract_title": "T", "extract_content": "Long enough summary.", "tags": []}`}
	c, _ := newTestClient(svc, "sk-test")

	c.Summarize(context.Background(), Request{Content: strings.Repeat("x", 6000)})
	if got := svc.requests[0].Model; got != capableModel {
		t.Errorf("Model = %q, want %q for long content", got, capableModel)
	}
	if got := svc.requests[0].MaxTokens; got != longSummaryTokens {
		t.Errorf("MaxTokens = %d, want %d", got, longSummaryTokens)
	}
}

func TestUsableGate(t *testing.T) {
	cases := []struct {
		name    string
		summary string
		want    bool
	}{
		{"empty", "", false},
		{"exactly ten chars", "abcdefghij", false},
		{"eleven chars", "abcdefghijk", true},
		{"whitespace padded short", "   abc   ", false},
		{"failure marker", "a long enough text but Extract failed anyway", false},
		{"missing key marker", "response was Missing API Key unfortunately", false},
		{"no summary marker", "No summary could be produced for this one", false},
		{"normal", "a perfectly reasonable summary", true},
	}
	for _, tc := range cases {
		if got := Usable(Result{Summary: tc.summary}); got != tc.want {
			t.Errorf("%s: Usable = %v, want %v", tc.name, got, tc.want)
		}
	}
}
