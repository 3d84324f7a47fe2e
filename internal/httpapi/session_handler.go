package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/aurafashions/storefront/internal/domain"
	"github.com/aurafashions/storefront/internal/session"
)

type SessionHandler struct {
	sessions *session.Manager
}

func NewSessionHandler(sessions *session.Manager) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

type LoginRequestDTO struct {
	Token string `json:"token"`
}

type DevLoginRequestDTO struct {
	IsAdmin bool `json:"is_admin"`
}

type SessionResponseDTO struct {
	State           string              `json:"state"`
	User            *domain.UserProfile `json:"user,omitempty"`
	IsAuthenticated bool                `json:"is_authenticated"`
	IsAdmin         bool                `json:"is_admin"`
	DevMode         bool                `json:"dev_mode"`
}

func (h *SessionHandler) sessionResponse() SessionResponseDTO {
	current := h.sessions.Current()
	return SessionResponseDTO{
		State:           h.sessions.State().String(),
		User:            current.User,
		IsAuthenticated: h.sessions.IsAuthenticated(),
		IsAdmin:         h.sessions.IsAdmin(),
		DevMode:         h.sessions.DevMode(),
	}
}

// GET /api/v1/session
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.sessionResponse())
}

// POST /api/v1/session/login
//
// The UI performs the provider dance and hands over the resulting
// assertion.
func (h *SessionHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Token == "" {
		respondError(w, http.StatusBadRequest, "missing_token", "provider token is required")
		return
	}

	if err := h.sessions.LoginWithProvider(r.Context(), req.Token); err != nil {
		handleGatewayError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, h.sessionResponse())
}

// POST /api/v1/session/dev-login
func (h *SessionHandler) DevLogin(w http.ResponseWriter, r *http.Request) {
	var req DevLoginRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if err := h.sessions.LoginAsDeveloper(r.Context(), req.IsAdmin); err != nil {
		if errors.Is(err, session.ErrDevModeDisabled) {
			respondError(w, http.StatusForbidden, "dev_mode_disabled", err.Error())
			return
		}
		handleGatewayError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, h.sessionResponse())
}

// POST /api/v1/session/logout
func (h *SessionHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.Logout(r.Context())
	respondJSON(w, http.StatusOK, h.sessionResponse())
}
