package models

// Query is the payload sent to the chat endpoint.
type Query struct {
	Text string `json:"text"`
}

// Response is the model's reply.
type Response struct {
	Response string `json:"response"`
}

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// ChatMessage is a single message in the conversation sent upstream.
type ChatMessage struct {
	Role    string `json:"role"` // "system" or "user"
	Content string `json:"content"`
}
