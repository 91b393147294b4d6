package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medchat-backend/internal/models"
)

type stubCompleter struct {
	content string
	err     error
	calls   int
	lastReq CompletionRequest
}

func (s *stubCompleter) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	s.calls++
	s.lastReq = req
	return s.content, s.err
}

func TestChatService_RejectsEmptyInput(t *testing.T) {
	for _, text := range []string{"", " ", "\t\n  ", strings.Repeat(" ", MaxInputLength+1)} {
		t.Run(fmt.Sprintf("len=%d", len(text)), func(t *testing.T) {
			stub := &stubCompleter{content: "unused"}
			_, err := NewChatService(stub).Handle(context.Background(), models.Query{Text: text})

			var ce *ChatError
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, InvalidInput, ce.Kind)
			assert.Equal(t, "Input text cannot be empty", ce.Message)
			assert.Zero(t, stub.calls, "upstream must not be called for empty input")
		})
	}
}

func TestChatService_RejectsOverLengthInput(t *testing.T) {
	stub := &stubCompleter{content: "unused"}
	text := strings.Repeat("a", MaxInputLength+1)

	_, err := NewChatService(stub).Handle(context.Background(), models.Query{Text: text})

	var ce *ChatError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, InvalidInput, ce.Kind)
	assert.Equal(t, "Input text exceeds maximum length of 1000 characters", ce.Message)
	assert.Zero(t, stub.calls)
}

func TestChatService_LengthCountsCharactersNotBytes(t *testing.T) {
	stub := &stubCompleter{content: "ok"}
	text := strings.Repeat("é", MaxInputLength)

	resp, err := NewChatService(stub).Handle(context.Background(), models.Query{Text: text})

	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Response)
	assert.Equal(t, 1, stub.calls)
}

func TestChatService_AcceptsBoundaryLength(t *testing.T) {
	stub := &stubCompleter{content: "ok"}
	text := strings.Repeat("a", MaxInputLength)

	_, err := NewChatService(stub).Handle(context.Background(), models.Query{Text: text})
	require.NoError(t, err)
	assert.Equal(t, 1, stub.calls)
}

func TestChatService_BuildsTwoMessageConversation(t *testing.T) {
	stub := &stubCompleter{content: "Flu symptoms include fever and aches."}
	text := "  What are symptoms of flu?  "

	resp, err := NewChatService(stub).Handle(context.Background(), models.Query{Text: text})
	require.NoError(t, err)
	assert.Equal(t, "Flu symptoms include fever and aches.", resp.Response)

	req := stub.lastReq
	require.Len(t, req.Messages, 2)
	assert.Equal(t, "system", req.Messages[0].Role)
	assert.Equal(t, SystemInstruction, req.Messages[0].Content)
	assert.Equal(t, "user", req.Messages[1].Role)
	assert.Equal(t, text, req.Messages[1].Content, "user text must be forwarded verbatim")

	assert.Equal(t, "mixtral-8x7b-32768", req.Model)
	assert.Equal(t, float32(0.5), req.Temperature)
	assert.Equal(t, 1024, req.MaxTokens)
	assert.Equal(t, float32(1), req.TopP)
	assert.Nil(t, req.Stop)
	assert.False(t, req.Stream)
}

func TestChatService_OffTopicIsStillDispatched(t *testing.T) {
	refusal := "This query is not related to medical topics. Please ask a medical question."
	stub := &stubCompleter{content: refusal}

	resp, err := NewChatService(stub).Handle(context.Background(), models.Query{Text: "What's the weather today?"})

	require.NoError(t, err)
	assert.Equal(t, refusal, resp.Response)
	assert.Equal(t, 1, stub.calls)
}

func TestChatService_MapsUpstreamFaults(t *testing.T) {
	tests := []struct {
		name    string
		content string
		err     error
		kind    ErrorKind
		message string
	}{
		{"empty content", "", nil, UpstreamEmpty, "Error getting response from Groq API"},
		{"unreachable", "", fmt.Errorf("%w: dial tcp: connection refused", ErrUpstreamUnreachable), UpstreamUnreachable, "Error communicating with Groq API"},
		{"malformed", "", fmt.Errorf("%w: no choices in response", ErrUpstreamMalformed), UpstreamMalformed, "Unexpected response format from Groq API"},
		{"unexpected", "", errors.New("error, status code: 429, message: rate limited"), Unexpected, "error, status code: 429, message: rate limited"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			stub := &stubCompleter{content: tc.content, err: tc.err}
			resp, err := NewChatService(stub).Handle(context.Background(), models.Query{Text: "What is a migraine?"})

			assert.Empty(t, resp.Response)
			var ce *ChatError
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, tc.kind, ce.Kind)
			assert.Equal(t, tc.message, ce.Message)
			assert.Equal(t, tc.kind, KindOf(err))
			if tc.err != nil {
				assert.ErrorIs(t, err, tc.err)
			}
		})
	}
}

func TestKindOf_PlainErrorIsUnexpected(t *testing.T) {
	assert.Equal(t, Unexpected, KindOf(errors.New("boom")))
	assert.Equal(t, "unexpected", Unexpected.String())
	assert.Equal(t, "invalid_input", InvalidInput.String())
}
