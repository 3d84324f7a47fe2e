package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aurafashions/storefront/internal/domain"
	"github.com/aurafashions/storefront/internal/gateway"
	"github.com/aurafashions/storefront/internal/session"
	"github.com/aurafashions/storefront/internal/store"
)

// stubAuthGateway implements session.Gateway.
type stubAuthGateway struct {
	devMode   bool
	loginResp *gateway.TokenResponse
	loginErr  error
}

func (s *stubAuthGateway) GoogleLogin(context.Context, string) (*gateway.TokenResponse, error) {
	return s.loginResp, s.loginErr
}

func (s *stubAuthGateway) DevLogin(_ context.Context, req gateway.DevLoginRequest) (*gateway.TokenResponse, error) {
	role := domain.RoleUser
	if req.IsAdmin {
		role = domain.RoleAdmin
	}
	return &gateway.TokenResponse{
		AccessToken: "tok-dev",
		User:        domain.UserProfile{ID: 1, Name: req.Name, Email: req.Email, Role: role},
	}, nil
}

func (s *stubAuthGateway) DevMode(context.Context) (bool, error) {
	return s.devMode, nil
}

func (s *stubAuthGateway) Me(context.Context) (*domain.UserProfile, error) {
	return nil, gateway.ErrUnauthorized
}

func newSessionHandler(t *testing.T, gw session.Gateway) *SessionHandler {
	t.Helper()
	m := session.NewManager(gw, store.NewMemoryStore(), nil)
	require.NoError(t, m.Initialize(context.Background()))
	return NewSessionHandler(m)
}

func TestSessionHandler_GetStartsAnonymous(t *testing.T) {
	handler := newSessionHandler(t, &stubAuthGateway{})

	recorder := httptest.NewRecorder()
	handler.Get(recorder, httptest.NewRequest(http.MethodGet, "/session", nil))

	require.Equal(t, http.StatusOK, recorder.Code)

	var resp SessionResponseDTO
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
	assert.Equal(t, "ANONYMOUS", resp.State)
	assert.False(t, resp.IsAuthenticated)
	assert.Nil(t, resp.User)
}

func TestSessionHandler_LoginExchangesAssertion(t *testing.T) {
	gw := &stubAuthGateway{loginResp: &gateway.TokenResponse{
		AccessToken: "tok-new",
		User:        domain.UserProfile{ID: 7, Name: "Alice", Role: domain.RoleUser},
	}}
	handler := newSessionHandler(t, gw)

	raw, _ := json.Marshal(LoginRequestDTO{Token: "assertion-abc"})
	recorder := httptest.NewRecorder()
	handler.Login(recorder, httptest.NewRequest(http.MethodPost, "/session/login", bytes.NewReader(raw)))

	require.Equal(t, http.StatusOK, recorder.Code)

	var resp SessionResponseDTO
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
	assert.Equal(t, "AUTHENTICATED", resp.State)
	assert.True(t, resp.IsAuthenticated)
	assert.Equal(t, "Alice", resp.User.Name)
}

func TestSessionHandler_LoginRequiresToken(t *testing.T) {
	handler := newSessionHandler(t, &stubAuthGateway{})

	recorder := httptest.NewRecorder()
	handler.Login(recorder, httptest.NewRequest(http.MethodPost, "/session/login", bytes.NewReader([]byte(`{}`))))

	require.Equal(t, http.StatusBadRequest, recorder.Code)
	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
	assert.Equal(t, "missing_token", resp.Code)
}

func TestSessionHandler_DevLoginForbiddenWhenFlagOff(t *testing.T) {
	handler := newSessionHandler(t, &stubAuthGateway{devMode: false})

	raw, _ := json.Marshal(DevLoginRequestDTO{IsAdmin: true})
	recorder := httptest.NewRecorder()
	handler.DevLogin(recorder, httptest.NewRequest(http.MethodPost, "/session/dev-login", bytes.NewReader(raw)))

	require.Equal(t, http.StatusForbidden, recorder.Code)
	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
	assert.Equal(t, "dev_mode_disabled", resp.Code)
}

func TestSessionHandler_DevLoginMintsAdmin(t *testing.T) {
	handler := newSessionHandler(t, &stubAuthGateway{devMode: true})

	raw, _ := json.Marshal(DevLoginRequestDTO{IsAdmin: true})
	recorder := httptest.NewRecorder()
	handler.DevLogin(recorder, httptest.NewRequest(http.MethodPost, "/session/dev-login", bytes.NewReader(raw)))

	require.Equal(t, http.StatusOK, recorder.Code)

	var resp SessionResponseDTO
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
	assert.True(t, resp.IsAdmin)
	assert.True(t, resp.DevMode)
}

func TestSessionHandler_Logout(t *testing.T) {
	handler := newSessionHandler(t, &stubAuthGateway{devMode: true})

	raw, _ := json.Marshal(DevLoginRequestDTO{IsAdmin: false})
	recorder := httptest.NewRecorder()
	handler.DevLogin(recorder, httptest.NewRequest(http.MethodPost, "/session/dev-login", bytes.NewReader(raw)))
	require.Equal(t, http.StatusOK, recorder.Code)

	recorder = httptest.NewRecorder()
	handler.Logout(recorder, httptest.NewRequest(http.MethodPost, "/session/logout", nil))

	require.Equal(t, http.StatusOK, recorder.Code)
	var resp SessionResponseDTO
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
	assert.Equal(t, "ANONYMOUS", resp.State)
	assert.False(t, resp.IsAuthenticated)
}
