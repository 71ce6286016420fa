// Package httpx writes the JSON envelope shared by every API response:
// {"success": bool, "data": ..., "error": "...", "details": {...}}.
package httpx

import (
	"encoding/json"
	"net/http"
)

type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
	Details any    `json:"details,omitempty"`
}

func write(w http.ResponseWriter, status int, payload envelope) {
	w.Header().Set("Content-Type", "application/json")
	body, err := json.Marshal(payload)
	if err != nil {
		// best-effort error response; avoid writing partial JSON
		http.Error(w, `{"success":false,"error":"encode_error"}`, http.StatusInternalServerError)
		return
	}
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		// nothing we can do at this point
		_ = err
	}
}

// OK writes a success envelope with the given payload.
func OK(w http.ResponseWriter, status int, data any) {
	write(w, status, envelope{Success: true, Data: data})
}

// Message writes a success envelope carrying only a human-readable message.
func Message(w http.ResponseWriter, status int, msg string) {
	write(w, status, envelope{Success: true, Message: msg})
}

// Fail writes a failure envelope with a user-readable error message.
func Fail(w http.ResponseWriter, status int, msg string) {
	write(w, status, envelope{Error: msg})
}

// FailDetails writes a failure envelope with per-field details attached.
func FailDetails(w http.ResponseWriter, status int, msg string, details any) {
	write(w, status, envelope{Error: msg, Details: details})
}
