package summarize

import (
	"context"
	"fmt"

	openai "github.com/meguminnnnnnnnn/go-openai"
)

// OpenAIService is the ChatService implementation backed by the OpenAI API.
type OpenAIService struct {
	client *openai.Client
}

// NewOpenAIService creates a service client for the given credential.
func NewOpenAIService(apiKey string) *OpenAIService {
	config := openai.DefaultConfig(apiKey)
	return &OpenAIService{client: openai.NewClientWithConfig(config)}
}

// Complete issues a single chat completion and returns the raw text of the
// first choice.
func (s *OpenAIService) Complete(ctx context.Context, req ChatRequest) (string, error) {
	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: req.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.System},
			{Role: openai.ChatMessageRoleUser, Content: req.Prompt},
		},
		MaxTokens:   req.MaxTokens,
		Temperature: &req.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("create chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// compile-time check to ensure OpenAIService implements ChatService
var _ ChatService = (*OpenAIService)(nil)
