package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/bean4896/hessen-custom/internal/payment"
	"github.com/bean4896/hessen-custom/internal/repository"
	"github.com/bean4896/hessen-custom/internal/service"
)

// Envelope is the JSON shape of every response: {success, data|error}.
type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(Envelope{Success: true, Data: data}); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(Envelope{Success: false, Error: message}); err != nil {
		log.Printf("failed to encode error response: %v", err)
	}
}

// handleServiceError is the single place service errors are shaped for end
// users.
func handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrValidation),
		errors.Is(err, service.ErrEmptyCart),
		errors.Is(err, service.ErrPaymentIncomplete):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrUnauthorized):
		respondError(w, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, repository.ErrOrderNotFound),
		errors.Is(err, payment.ErrIntentNotFound):
		respondError(w, http.StatusNotFound, "not found")
	default:
		log.Printf("internal error: %v", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
	}
}
