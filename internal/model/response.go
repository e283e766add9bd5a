package model

import "github.com/fittrack/backend/internal/apperr"

// Envelope is the wire shape of every response. Errors carry a
// kind-specific message and, for validation failures, the full ordered
// list of field errors.
type Envelope struct {
	Status  string              `json:"status"` // "success" | "error"
	Message string              `json:"message,omitempty"`
	Data    any                 `json:"data,omitempty"`
	Errors  []apperr.FieldError `json:"errors,omitempty"`
}

func Success(message string, data any) Envelope {
	return Envelope{Status: "success", Message: message, Data: data}
}

type PingResponse struct {
	Message string `json:"message"`
}

type HealthResponse struct {
	Status string `json:"status"`
}
