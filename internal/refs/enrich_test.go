package refs

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestEnrichReachablePage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><head>
			<title>Graph Thinking</title>
			<meta name="description" content="A short page about graphs.">
		</head><body><p>Body.</p></body></html>`))
	}))
	defer srv.Close()

	e := NewEnricher(2*time.Second, nil)
	refs := e.Enrich(context.Background(), ReferenceSet{URLs: []string{srv.URL}})
	if len(refs) != 1 {
		t.Fatalf("Enrich returned %d refs, want 1", len(refs))
	}
	got := refs[0]
	if !got.Reachable {
		t.Error("reference not marked reachable")
	}
	if got.Title != "Graph Thinking" {
		t.Errorf("Title = %q, want %q", got.Title, "Graph Thinking")
	}
	if got.Description != "A short page about graphs." {
		t.Errorf("Description = %q", got.Description)
	}
}

func TestEnrichUnreachableURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	e := NewEnricher(2*time.Second, nil)
	refs := e.Enrich(context.Background(), ReferenceSet{URLs: []string{srv.URL + "/missing"}})
	if len(refs) != 1 {
		t.Fatalf("Enrich returned %d refs, want 1", len(refs))
	}
	got := refs[0]
	if got.Reachable {
		t.Error("unreachable reference marked reachable")
	}
	if got.Title != srv.URL+"/missing" {
		t.Errorf("Title = %q, want the raw URL", got.Title)
	}
	if !strings.HasPrefix(got.Description, "Error: ") {
		t.Errorf("Description = %q, want Error: prefix", got.Description)
	}
}

func TestEnrichLongDescriptionTruncated(t *testing.T) {
	long := strings.Repeat("words and more ", 30)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><head><title>T</title><meta name="description" content="` + long + `"></head></html>`))
	}))
	defer srv.Close()

	e := NewEnricher(2*time.Second, nil)
	refs := e.Enrich(context.Background(), ReferenceSet{URLs: []string{srv.URL}})
	if got := refs[0].Description; len(got) != descriptionLimit+3 || !strings.HasSuffix(got, "...") {
		t.Errorf("Description not truncated: %d chars, %q", len(got), got)
	}
}

func TestMatchCandidate(t *testing.T) {
	candidates := []string{"short", "Graph Thinking Primer", "Unrelated Notes"}
	got, ok := matchCandidate("https://example.com/graph-thinking", candidates)
	if !ok || got != "Graph Thinking Primer" {
		t.Errorf("matchCandidate = (%q, %v), want (%q, true)", got, ok, "Graph Thinking Primer")
	}

	if _, ok := matchCandidate("https://example.com/other", []string{"nothing shared"}); ok {
		t.Error("matchCandidate matched unrelated candidate")
	}
}

func TestDigest(t *testing.T) {
	refs := []EnrichedReference{
		{URL: "https://a.example", Title: "First"},
		{URL: "https://b.example", Title: "Second"},
	}
	want := "- First: https://a.example\n- Second: https://b.example"
	if got := Digest(refs); got != want {
		t.Errorf("Digest = %q, want %q", got, want)
	}
}
