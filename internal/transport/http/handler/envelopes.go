package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-verify-reset/internal/domain"
)

// MessageEnvelope is the generic response wrapper. Class carries the
// machine-readable error class so clients can localize without matching
// message text.
type MessageEnvelope struct {
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
	Class   string `json:"class,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, MessageEnvelope{Error: msg})
}

// httpError maps a domain error to an HTTP status via its error class.
func httpError(w http.ResponseWriter, err error) {
	class := domain.ErrorClass(err)
	status := http.StatusInternalServerError
	switch class {
	case "notFound":
		status = http.StatusNotFound
	case "duplicateValue":
		status = http.StatusConflict
	case "unauthorized", "credentialMismatch":
		status = http.StatusUnauthorized
	case "invalidInput", "invalidToken", "expired", "alreadyVerified", "notVerified":
		status = http.StatusBadRequest
	}
	writeJSON(w, status, MessageEnvelope{Error: err.Error(), Class: class})
}
