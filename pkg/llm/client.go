package llm

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
)

// Client wraps a single OpenAI-compatible chat-completion endpoint.
// Every call is attempted exactly once: no retries, no model fallback,
// no key rotation. A transport failure surfaces to the caller directly.
type Client struct {
	client      openai.Client
	adviceModel string
	titleModel  string
	temperature float64
}

// NewClient builds a client for the given key. baseURL may be empty to use
// the provider default.
func NewClient(apiKey, baseURL, adviceModel, titleModel string, temperature float64) *Client {
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}

	return &Client{
		client:      openai.NewClient(opts...),
		adviceModel: adviceModel,
		titleModel:  titleModel,
		temperature: temperature,
	}
}

// StreamAdvice issues one streaming completion request and forwards each
// incremental text fragment to onDelta as it is received. Fragments are
// never buffered or coalesced: first byte to the caller tracks first byte
// from the provider. Returns nil on normal end-of-stream, otherwise the
// transport or provider error that terminated the stream.
func (c *Client) StreamAdvice(ctx context.Context, systemPrompt, dilemma string, onDelta func(string)) error {
	params := openai.ChatCompletionNewParams{
		Model: shared.ChatModel(c.adviceModel),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(dilemma),
		},
		Temperature: openai.Float(c.temperature),
	}

	start := time.Now()
	stream := c.client.Chat.Completions.NewStreaming(ctx, params)
	defer stream.Close()

	firstByte := time.Duration(0)
	for stream.Next() {
		chunk := stream.Current()

		if len(chunk.Choices) == 0 {
			continue
		}

		if delta := chunk.Choices[0].Delta.Content; delta != "" {
			if firstByte == 0 {
				firstByte = time.Since(start)
			}
			onDelta(delta)
		}
	}

	if err := stream.Err(); err != nil {
		return fmt.Errorf("advice stream failed: %w", err)
	}

	log.Printf("Advice stream complete (model %s, first byte after %v, total %v)",
		c.adviceModel, firstByte, time.Since(start))
	return nil
}

// Complete issues one non-streaming completion request. Used for the
// title call, which wants its own temperature and token cap.
func (c *Client) Complete(ctx context.Context, systemPrompt, userPrompt string, temperature float64, maxTokens int64) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model: shared.ChatModel(c.titleModel),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(userPrompt),
		},
		Temperature: openai.Float(temperature),
		MaxTokens:   openai.Int(maxTokens),
	}

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("completion failed: %w", err)
	}

	if resp == nil || len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty response from model %s", c.titleModel)
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
