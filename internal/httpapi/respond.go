package httpapi

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/aurafashions/storefront/internal/checkout"
	"github.com/aurafashions/storefront/internal/gateway"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// handleGatewayError maps backend-call failures onto HTTP statuses.
// Authoritative rejections keep their status and message verbatim;
// everything else is a transient upstream failure.
func handleGatewayError(w http.ResponseWriter, err error) {
	if errors.Is(err, gateway.ErrUnauthorized) {
		respondError(w, http.StatusUnauthorized, "unauthorized", "session rejected by backend")
		return
	}

	var apiErr *gateway.APIError
	if errors.As(err, &apiErr) {
		respondError(w, apiErr.StatusCode, "backend_rejected", apiErr.Message)
		return
	}

	var validationErr *checkout.ValidationError
	if errors.As(err, &validationErr) {
		respondError(w, http.StatusBadRequest, "invalid_request", validationErr.Error())
		return
	}

	respondError(w, http.StatusServiceUnavailable, "service_unavailable", "backend unreachable, try again")
}
