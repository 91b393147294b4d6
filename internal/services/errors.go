package services

import "errors"

// ErrorKind classifies why a chat request failed.
type ErrorKind int

const (
	InvalidInput ErrorKind = iota
	UpstreamUnreachable
	UpstreamEmpty
	UpstreamMalformed
	Unexpected
)

func (k ErrorKind) String() string {
	switch k {
	case InvalidInput:
		return "invalid_input"
	case UpstreamUnreachable:
		return "upstream_unreachable"
	case UpstreamEmpty:
		return "upstream_empty"
	case UpstreamMalformed:
		return "upstream_malformed"
	default:
		return "unexpected"
	}
}

// Messages surfaced to callers.
const (
	MsgEmptyInput          = "Input text cannot be empty"
	MsgUpstreamUnreachable = "Error communicating with Groq API"
	MsgUpstreamEmpty       = "Error getting response from Groq API"
	MsgUpstreamMalformed   = "Unexpected response format from Groq API"
)

// Sentinel errors returned (wrapped) by completion clients.
var (
	ErrUpstreamUnreachable = errors.New("groq: upstream unreachable")
	ErrUpstreamMalformed   = errors.New("groq: malformed response")
)

// ChatError is the tagged fault returned by ChatService.Handle.
type ChatError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *ChatError) Error() string { return e.Message }

func (e *ChatError) Unwrap() error { return e.Err }

// KindOf returns the ErrorKind carried by err, or Unexpected.
func KindOf(err error) ErrorKind {
	var ce *ChatError
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return Unexpected
}
