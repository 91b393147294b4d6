package models

import (
	"time"

	"github.com/google/uuid"
)

// Outcome values for ChatEvent.
const (
	OutcomeSuccess             = "success"
	OutcomeInvalidInput        = "invalid_input"
	OutcomeUpstreamUnreachable = "upstream_unreachable"
	OutcomeUpstreamEmpty       = "upstream_empty"
	OutcomeUpstreamMalformed   = "upstream_malformed"
	OutcomeUnexpected          = "unexpected"
)

// ChatEvent describes one finished /chat call. It carries no user text and
// no model output.
type ChatEvent struct {
	ID         uuid.UUID `json:"id"`
	Outcome    string    `json:"outcome"`
	Status     int       `json:"status"`
	InputChars int       `json:"input_chars"`
	LatencyMs  int64     `json:"latency_ms"`
	At         time.Time `json:"at"`
}
