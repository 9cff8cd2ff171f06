package service

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const defaultCompletionModel = "claude-3-5-sonnet-20241022"

// completionTimeout bounds a single model call; generation can take
// tens of seconds but must not hang a user request indefinitely.
const completionTimeout = 90 * time.Second

const completionRetries = 2

// messagesClient is the narrow slice of the Anthropic SDK we use,
// extracted so tests can substitute a mock.
type messagesClient interface {
	New(ctx context.Context, params anthropic.MessageNewParams) (*anthropic.Message, error)
}

type anthropicMessages struct {
	svc *anthropic.MessageService
}

func (m anthropicMessages) New(ctx context.Context, params anthropic.MessageNewParams) (*anthropic.Message, error) {
	return m.svc.New(ctx, params)
}

// AIClient sends prompts to the completion API and returns raw text.
type AIClient struct {
	messages messagesClient
	model    string
}

func NewAIClient() *AIClient {
	client := anthropic.NewClient(
		option.WithAPIKey(os.Getenv("ANTHROPIC_API_KEY")),
	)
	model := os.Getenv("ANTHROPIC_MODEL")
	if model == "" {
		model = defaultCompletionModel
	}
	return &AIClient{
		messages: anthropicMessages{svc: &client.Messages},
		model:    model,
	}
}

// Complete sends one prompt with a system instruction and returns the
// concatenated text blocks of the reply. Transport failures are retried
// with backoff; a reply that arrives is returned as-is.
func (c *AIClient) Complete(ctx context.Context, prompt, system string, maxTokens int64) (string, error) {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	}
	if system != "" {
		params.System = []anthropic.TextBlockParam{{Text: system}}
	}

	var lastErr error
	for attempt := 0; attempt <= completionRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(time.Duration(attempt) * 2 * time.Second):
			}
		}

		callCtx, cancel := context.WithTimeout(ctx, completionTimeout)
		msg, err := c.messages.New(callCtx, params)
		cancel()
		if err != nil {
			lastErr = err
			continue
		}

		var text string
		for _, block := range msg.Content {
			if block.Type == "text" {
				text += block.Text
			}
		}
		return text, nil
	}
	return "", fmt.Errorf("completion request: %w", lastErr)
}
