package summarize

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/eastfarm/knowledge-guide/internal/config"
	"github.com/eastfarm/knowledge-guide/pkg/logger"
)

const requestTemperature = 0.7 // balanced between creativity and accuracy

// Client drives the summarization state machine for one file at a time:
// credential check, prompt build, call with retry, tiered response parsing.
type Client struct {
	service    ChatService
	apiKey     string
	maxRetries int
	baseDelay  time.Duration
	log        *logger.Logger

	// sleep is swapped out in tests to observe backoff without waiting.
	sleep func(time.Duration)
}

// NewClient builds a summarization client around the given service.
func NewClient(cfg config.SummarizerConfig, service ChatService, log *logger.Logger) *Client {
	if log == nil {
		log = logger.New("summarize")
	}
	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 3
	}
	return &Client{
		service:    service,
		apiKey:     cfg.APIKey,
		maxRetries: maxRetries,
		baseDelay:  cfg.RetryDelay(),
		log:        log,
		sleep:      time.Sleep,
	}
}

// Summarize runs the full state machine for one file's content and always
// returns a Result; failures are encoded in its Status and fields, never as
// an error.
func (c *Client) Summarize(ctx context.Context, req Request) Result {
	log := c.log.WithFile(req.SourceName)

	// KeyCheck: without a credential there is nothing to call.
	if strings.TrimSpace(c.apiKey) == "" {
		log.Error("summarization credential is not configured")
		return Result{
			Title:   "Missing API Key",
			Summary: "Extract failed: OpenAI API key not configured. Please add OPENAI_API_KEY to environment variables.",
			Tags:    []string{"extraction_failed"},
			Status:  StatusMissingKey,
		}
	}

	maxTokens, model := lengthTier(req.Content)
	prompt := buildPrompt(req)
	log.Debugf("prompt preview: %s", preview(prompt, 500))

	raw, err := c.callWithRetry(ctx, log, ChatRequest{
		Model:       model,
		System:      systemPrompt,
		Prompt:      prompt,
		MaxTokens:   maxTokens,
		Temperature: requestTemperature,
	})
	if err != nil {
		log.Errorf("summarization failed after %d attempts: %v", c.maxRetries, err)
		tags := []string{"extraction_failed"}
		if req.FileType != "" {
			tags = append(tags, req.FileType.Title())
		}
		return Result{
			Title:   "Extraction Failed",
			Summary: fmt.Sprintf("The AI extraction process encountered an error: %v\n\nContent preview:\n%s...", err, preview(req.Content, 300)),
			Tags:    tags,
			Status:  StatusAPIError,
		}
	}

	log.Debugf("response preview: %s", preview(raw, 500))
	return parseResponse(raw, req)
}

// callWithRetry issues the request up to maxRetries times, waiting with
// exponential backoff between attempts, and returns the last error when all
// attempts fail.
func (c *Client) callWithRetry(ctx context.Context, log *logger.Logger, req ChatRequest) (string, error) {
	var lastErr error
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		log.Infof("summarization attempt %d/%d with model %s", attempt+1, c.maxRetries, req.Model)

		raw, err := c.service.Complete(ctx, req)
		if err == nil {
			return raw, nil
		}

		lastErr = err
		log.Warnf("summarization attempt %d failed: %v", attempt+1, err)
		if attempt < c.maxRetries-1 {
			c.sleep(c.baseDelay * (1 << attempt))
		}
	}
	return "", lastErr
}

func preview(s string, limit int) string {
	if len(s) > limit {
		return s[:limit]
	}
	return s
}
