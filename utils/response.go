package utils

import (
	"encoding/json"
	"log"
	"net/http"
)

// Response is the envelope every endpoint answers with. Result is left
// out entirely on failures.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Result  any    `json:"result,omitempty"`
}

// WriteJSON writes a response envelope with the given status.
func WriteJSON(w http.ResponseWriter, status int, resp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

// WriteOK writes a success envelope.
func WriteOK(w http.ResponseWriter, message string, result any) {
	WriteJSON(w, http.StatusOK, Response{Success: true, Message: message, Result: result})
}

// WriteFail writes a failure envelope with no result.
func WriteFail(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, Response{Success: false, Message: message})
}
