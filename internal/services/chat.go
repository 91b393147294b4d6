package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/apex/log"

	"medchat-backend/internal/models"
)

const (
	Model          = "mixtral-8x7b-32768"
	Temperature    = 0.5
	MaxTokens      = 1024
	TopP           = 1
	MaxInputLength = 1000
)

// SystemInstruction is sent ahead of every user message.
const SystemInstruction = `You are a helpful assistant that answers only medical queries. If you answer anything except medical queries you'll be fired.
If the user's query is not related to medical topics, respond with:
'This query is not related to medical topics. Please ask a medical question.'
And terminate the answer after this one line. Don't generate any other things or you'll be fired immediately.`

// ChatService validates a query and dispatches it to the completion service.
type ChatService struct {
	completer Completer
}

func NewChatService(completer Completer) *ChatService {
	return &ChatService{completer: completer}
}

// Validate checks emptiness before length. Length counts runes of the raw,
// untrimmed text.
func Validate(text string) error {
	if strings.TrimSpace(text) == "" {
		return &ChatError{Kind: InvalidInput, Message: MsgEmptyInput}
	}
	if utf8.RuneCountInString(text) > MaxInputLength {
		return &ChatError{
			Kind:    InvalidInput,
			Message: fmt.Sprintf("Input text exceeds maximum length of %d characters", MaxInputLength),
		}
	}
	return nil
}

// BuildRequest wraps text in the fixed two-message conversation.
func BuildRequest(text string) CompletionRequest {
	return CompletionRequest{
		Model: Model,
		Messages: []models.ChatMessage{
			{Role: "system", Content: SystemInstruction},
			{Role: "user", Content: text},
		},
		Temperature: Temperature,
		MaxTokens:   MaxTokens,
		TopP:        TopP,
		Stop:        nil,
		Stream:      false,
	}
}

// Handle returns the model's reply, or a *ChatError tagged with its kind.
func (s *ChatService) Handle(ctx context.Context, query models.Query) (models.Response, error) {
	if err := Validate(query.Text); err != nil {
		return models.Response{}, err
	}

	content, err := s.completer.Complete(ctx, BuildRequest(query.Text))
	if err != nil {
		ce := toChatError(err)
		log.WithError(err).WithField("kind", ce.Kind.String()).Warn("groq completion failed")
		return models.Response{}, ce
	}

	if content == "" {
		log.Warn("groq returned empty content")
		return models.Response{}, &ChatError{Kind: UpstreamEmpty, Message: MsgUpstreamEmpty}
	}

	return models.Response{Response: content}, nil
}

func toChatError(err error) *ChatError {
	switch {
	case errors.Is(err, ErrUpstreamUnreachable):
		return &ChatError{Kind: UpstreamUnreachable, Message: MsgUpstreamUnreachable, Err: err}
	case errors.Is(err, ErrUpstreamMalformed):
		return &ChatError{Kind: UpstreamMalformed, Message: MsgUpstreamMalformed, Err: err}
	default:
		return &ChatError{Kind: Unexpected, Message: err.Error(), Err: err}
	}
}
