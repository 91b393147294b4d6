package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"medchat-backend/internal/events"
	"medchat-backend/internal/models"
	"medchat-backend/internal/services"
)

const publishTimeout = 2 * time.Second

type chatService interface {
	Handle(ctx context.Context, query models.Query) (models.Response, error)
}

type ChatHandler struct {
	chatService chatService
	publisher   events.Publisher
}

func NewChatHandler(chatService chatService, publisher events.Publisher) *ChatHandler {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &ChatHandler{
		chatService: chatService,
		publisher:   publisher,
	}
}

// chatRequest uses a pointer so a missing "text" key can be told apart
// from an empty string.
type chatRequest struct {
	Text *string `json:"text"`
}

func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("Invalid input data: "+err.Error()))
		h.publish(r, start, models.OutcomeInvalidInput, http.StatusBadRequest, 0)
		return
	}
	if req.Text == nil {
		writeJSON(w, http.StatusBadRequest, errorResp("Invalid input data: field 'text' is required"))
		h.publish(r, start, models.OutcomeInvalidInput, http.StatusBadRequest, 0)
		return
	}

	text := *req.Text
	resp, err := h.chatService.Handle(r.Context(), models.Query{Text: text})
	if err != nil {
		status := handleChatError(w, err)
		h.publish(r, start, services.KindOf(err).String(), status, utf8.RuneCountInString(text))
		return
	}

	writeJSON(w, http.StatusOK, resp)
	h.publish(r, start, models.OutcomeSuccess, http.StatusOK, utf8.RuneCountInString(text))
}

func (h *ChatHandler) publish(r *http.Request, start time.Time, outcome string, status, inputChars int) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), publishTimeout)
	defer cancel()

	h.publisher.Publish(ctx, models.ChatEvent{
		ID:         uuid.New(),
		Outcome:    outcome,
		Status:     status,
		InputChars: inputChars,
		LatencyMs:  time.Since(start).Milliseconds(),
		At:         time.Now().UTC(),
	})
}

// handleChatError writes the error body and returns the status it used.
func handleChatError(w http.ResponseWriter, err error) int {
	var ce *services.ChatError
	if !errors.As(err, &ce) {
		writeJSON(w, http.StatusInternalServerError, errorResp(err.Error()))
		return http.StatusInternalServerError
	}

	status := http.StatusInternalServerError
	switch ce.Kind {
	case services.InvalidInput:
		status = http.StatusBadRequest
	case services.UpstreamUnreachable:
		status = http.StatusBadGateway
	case services.UpstreamEmpty, services.UpstreamMalformed, services.Unexpected:
		status = http.StatusInternalServerError
	}

	writeJSON(w, status, errorResp(ce.Message))
	return status
}
