package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/url"

	openai "github.com/sashabaranov/go-openai"

	"medchat-backend/internal/models"
)

// CompletionRequest is one call to a chat-completions endpoint.
type CompletionRequest struct {
	Model       string
	Messages    []models.ChatMessage
	Temperature float32
	MaxTokens   int
	TopP        float32
	Stop        []string
	Stream      bool
}

// Completer returns the content of the first completion choice.
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// GroqClient talks to Groq's OpenAI-compatible Chat Completions API.
type GroqClient struct {
	client *openai.Client
}

func NewGroqClient(apiKey, baseURL string) *GroqClient {
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = baseURL
	return &GroqClient{client: openai.NewClientWithConfig(cfg)}
}

// Complete sends the conversation and returns the first choice's content.
// Transport faults wrap ErrUpstreamUnreachable; undecodable bodies and
// empty choice lists wrap ErrUpstreamMalformed. Anything else, such as an
// API error status, is returned unchanged.
func (c *GroqClient) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	messages := make([]openai.ChatCompletionMessage, 0, len(req.Messages))
	for _, m := range req.Messages {
		messages = append(messages, openai.ChatCompletionMessage{Role: m.Role, Content: m.Content})
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       req.Model,
		Messages:    messages,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
		TopP:        req.TopP,
		Stop:        req.Stop,
		Stream:      req.Stream,
	})
	if err != nil {
		return "", classifyGroqError(err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices in response", ErrUpstreamMalformed)
	}
	return resp.Choices[0].Message.Content, nil
}

func classifyGroqError(err error) error {
	// Error statuses keep their own message, even when the error body
	// itself could not be decoded.
	var apiErr *openai.APIError
	var reqErr *openai.RequestError
	if errors.As(err, &apiErr) || errors.As(err, &reqErr) {
		return err
	}

	var urlErr *url.Error
	var netErr net.Error
	if errors.As(err, &urlErr) || errors.As(err, &netErr) {
		return fmt.Errorf("%w: %w", ErrUpstreamUnreachable, err)
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) ||
		errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: %w", ErrUpstreamMalformed, err)
	}

	return err
}
