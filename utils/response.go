package utils

import (
	"encoding/json"
	"net/http"

	"kardly-server/models"
)

// Envelope is the body of every API response: return_code first, then the payload fields
type Envelope map[string]any

// WriteJSON writes body as JSON with the given status
func WriteJSON(w http.ResponseWriter, status int, body any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(body)
}

// WriteSuccess writes a SUCCESS envelope carrying data
func WriteSuccess(w http.ResponseWriter, status int, data Envelope) error {
	body := Envelope{"return_code": models.CodeSuccess}
	for k, v := range data {
		body[k] = v
	}
	return WriteJSON(w, status, body)
}

// WriteError writes an error envelope with a caller-facing message
func WriteError(w http.ResponseWriter, status int, code models.ReturnCode, message string) error {
	return WriteJSON(w, status, Envelope{"return_code": code, "message": message})
}

// WriteOutcome writes the envelope for a classified failure
func WriteOutcome(w http.ResponseWriter, outcome models.Outcome) error {
	return WriteError(w, outcome.Status, outcome.Code, outcome.Message)
}
