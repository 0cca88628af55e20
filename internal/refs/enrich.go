package refs

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"

	"github.com/eastfarm/knowledge-guide/pkg/logger"
)

// EnrichedReference is one explicit URL annotated with display metadata.
type EnrichedReference struct {
	URL         string
	Title       string // display title; candidate match beats page title beats raw URL
	Description string // meta description or excerpt, truncated
	Reachable   bool
}

const (
	// Browser-like identification; some sites refuse obvious bots.
	fetchUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

	descriptionLimit = 150
	errorLimit       = 50
	maxFetchBody     = 2 << 20
	noTitle          = "(No title)"
)

// Enricher fetches discovered URLs and derives display titles and
// descriptions for them. Enrichment never fails: unreachable URLs degrade to
// placeholder entries.
type Enricher struct {
	client *http.Client
	log    *logger.Logger
}

// NewEnricher builds an Enricher whose fetches are bounded by timeout.
func NewEnricher(timeout time.Duration, log *logger.Logger) *Enricher {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if log == nil {
		log = logger.New("refs")
	}
	return &Enricher{
		client: &http.Client{Timeout: timeout},
		log:    log,
	}
}

// Enrich resolves every URL in the set to an EnrichedReference, reconciling
// fetched page titles with the set's candidate titles.
func (e *Enricher) Enrich(ctx context.Context, set ReferenceSet) []EnrichedReference {
	refs := make([]EnrichedReference, 0, len(set.URLs))
	for _, u := range set.URLs {
		refs = append(refs, e.enrichOne(ctx, u, set.CandidateTitles))
	}
	return refs
}

func (e *Enricher) enrichOne(ctx context.Context, rawURL string, candidates []string) EnrichedReference {
	title, description, err := e.fetchPageMeta(ctx, rawURL)
	if err != nil {
		e.log.Debugf("enrich %s: %v", rawURL, err)
		return EnrichedReference{
			URL:         rawURL,
			Title:       rawURL,
			Description: "Error: " + truncate(err.Error(), errorLimit),
			Reachable:   false,
		}
	}

	// A candidate title that shares a sufficiently long word with the URL is
	// a better display title than whatever the page calls itself.
	if match, ok := matchCandidate(rawURL, candidates); ok {
		title = match
	}

	return EnrichedReference{
		URL:         rawURL,
		Title:       title,
		Description: description,
		Reachable:   true,
	}
}

func (e *Enricher) fetchPageMeta(ctx context.Context, rawURL string) (title, description string, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", fetchUserAgent)

	resp, err := e.client.Do(req)
	if err != nil {
		return "", "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return "", "", fmt.Errorf("status %s", resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFetchBody))
	if err != nil {
		return "", "", fmt.Errorf("read body: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return "", "", fmt.Errorf("parse html: %w", err)
	}

	title = strings.TrimSpace(doc.Find("title").First().Text())
	if title == "" {
		title = noTitle
	}

	description = metaDescription(doc)
	if description == "" {
		// Readability's excerpt stands in for a missing meta description.
		if parsed, perr := url.Parse(rawURL); perr == nil {
			if article, rerr := readability.FromReader(bytes.NewReader(body), parsed); rerr == nil {
				description = strings.TrimSpace(article.Excerpt)
			}
		}
	}
	if len(description) > descriptionLimit {
		description = description[:descriptionLimit] + "..."
	}

	return title, description, nil
}

func metaDescription(doc *goquery.Document) string {
	if content, ok := doc.Find(`meta[name="description"]`).Attr("content"); ok {
		return strings.TrimSpace(content)
	}
	if content, ok := doc.Find(`meta[property="og:description"]`).Attr("content"); ok {
		return strings.TrimSpace(content)
	}
	return ""
}

// matchCandidate returns the first candidate title, in discovery order, that
// shares a word longer than 3 characters with the URL and is itself longer
// than 5 characters.
func matchCandidate(rawURL string, candidates []string) (string, bool) {
	urlLower := strings.ToLower(rawURL)
	for _, candidate := range candidates {
		if len(candidate) <= 5 {
			continue
		}
		for _, word := range strings.Fields(strings.ToLower(candidate)) {
			if len(word) > 3 && strings.Contains(urlLower, word) {
				return candidate, true
			}
		}
	}
	return "", false
}

// Digest renders enriched references as a compact block for prompt context.
func Digest(refs []EnrichedReference) string {
	var lines []string
	for _, r := range refs {
		lines = append(lines, fmt.Sprintf("- %s: %s", r.Title, r.URL))
	}
	return strings.Join(lines, "\n")
}

func truncate(s string, limit int) string {
	if len(s) > limit {
		return s[:limit]
	}
	return s
}
