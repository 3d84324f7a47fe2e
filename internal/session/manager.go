// Package session owns authentication state: it is the single authoritative
// source of "who is the current user", resilient to stale or invalid local
// credentials.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/aurafashions/storefront/internal/domain"
	"github.com/aurafashions/storefront/internal/gateway"
	"github.com/aurafashions/storefront/internal/store"
)

// Persisted-store keys. Written and cleared together, never one without the
// other.
const (
	keyToken = "session.token"
	keyUser  = "session.user"
)

// State is the authentication state machine position.
type State string

const (
	StateUnknown       State = "UNKNOWN"
	StateValidating    State = "VALIDATING"
	StateAuthenticated State = "AUTHENTICATED"
	StateAnonymous     State = "ANONYMOUS"
)

func (s State) String() string {
	return string(s)
}

// ErrLoginCanceled is returned by a CredentialProvider when the user
// dismissed the provider prompt. The manager treats it as a silent no-op.
var ErrLoginCanceled = errors.New("login canceled")

// ErrDevModeDisabled rejects developer login whenever the backend reports
// the dev flag false.
var ErrDevModeDisabled = errors.New("developer login is disabled by the backend")

// CredentialProvider models the external identity provider: it yields an
// identity assertion to exchange for a backend session, and signs the user
// out on its side best-effort.
type CredentialProvider interface {
	Credential(ctx context.Context) (string, error)
	SignOut(ctx context.Context) error
}

// Gateway is the slice of the backend client the manager needs. Consumers
// define this interface; tests substitute a struct mock.
type Gateway interface {
	GoogleLogin(ctx context.Context, assertion string) (*gateway.TokenResponse, error)
	DevLogin(ctx context.Context, req gateway.DevLoginRequest) (*gateway.TokenResponse, error)
	DevMode(ctx context.Context) (bool, error)
	Me(ctx context.Context) (*domain.UserProfile, error)
}

// Manager drives the Unknown -> Validating -> {Authenticated, Anonymous}
// state machine. All methods are safe for concurrent use.
type Manager struct {
	mu       sync.Mutex
	gw       Gateway
	store    store.Store
	provider CredentialProvider

	state   State
	session domain.Session
	devMode bool

	sfg singleflight.Group
}

// NewManager builds an uninitialized manager. provider may be nil when all
// logins arrive as pre-acquired assertions (the HTTP facade path).
func NewManager(gw Gateway, st store.Store, provider CredentialProvider) *Manager {
	return &Manager{
		gw:       gw,
		store:    st,
		provider: provider,
		state:    StateUnknown,
	}
}

// Initialize hydrates the session from the persisted store and revalidates
// it against the backend. Missing or inconsistent credentials leave the
// manager Anonymous without a network call; present credentials are assumed
// valid while the revalidation round-trip is in flight.
//
// It also probes the backend's dev-mode flag; a failed probe means the
// developer bypass stays off.
func (m *Manager) Initialize(ctx context.Context) error {
	devMode, err := m.gw.DevMode(ctx)
	if err != nil {
		devMode = false
	}

	m.mu.Lock()
	m.devMode = devMode

	session, err := m.loadSession(ctx)
	if err != nil || session == nil {
		// Absent or half-written credentials: purge whatever is left and
		// start anonymous.
		m.clearLocked(ctx)
		m.mu.Unlock()
		return err
	}

	m.session = *session
	m.state = StateValidating
	m.mu.Unlock()

	return m.Revalidate(ctx)
}

// Revalidate confirms the current token with the backend. An authorization
// rejection purges the credentials; a transient failure leaves them intact
// and keeps the optimistic Authenticated state. Concurrent calls share one
// round-trip.
func (m *Manager) Revalidate(ctx context.Context) error {
	m.mu.Lock()
	token := m.session.Token
	m.mu.Unlock()
	if token == "" {
		return nil
	}

	_, err, _ := m.sfg.Do("revalidate", func() (interface{}, error) {
		user, err := m.gw.Me(ctx)

		m.mu.Lock()
		defer m.mu.Unlock()

		// The session may have been replaced or cleared while the request
		// was in flight; a late resolution must not resurrect it.
		if m.session.Token != token {
			return nil, nil
		}

		switch {
		case err == nil:
			m.session.User = user
			m.state = StateAuthenticated
			if persistErr := m.persistLocked(ctx); persistErr != nil {
				log.Printf("failed to persist refreshed profile: %v", persistErr)
			}
			return nil, nil
		case errors.Is(err, gateway.ErrUnauthorized):
			m.clearLocked(ctx)
			return nil, nil
		default:
			// Transient failure: keep the optimistic session, credentials
			// stay persisted.
			m.state = StateAuthenticated
			return nil, fmt.Errorf("revalidation inconclusive: %w", err)
		}
	})
	return err
}

// Login runs the interactive provider flow: acquire an assertion, exchange
// it for a session. A canceled prompt is a silent no-op.
func (m *Manager) Login(ctx context.Context) error {
	if m.provider == nil {
		return errors.New("no credential provider configured")
	}

	assertion, err := m.provider.Credential(ctx)
	if errors.Is(err, ErrLoginCanceled) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("provider login failed: %w", err)
	}

	return m.LoginWithProvider(ctx, assertion)
}

// LoginWithProvider exchanges an already-acquired identity assertion for a
// backend session. On failure the manager stays Anonymous and the error is
// recoverable.
func (m *Manager) LoginWithProvider(ctx context.Context, assertion string) error {
	resp, err := m.gw.GoogleLogin(ctx, assertion)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}
	return m.adopt(ctx, resp)
}

// LoginAsDeveloper mints a session for a synthetic profile. Available only
// while the backend advertises dev mode.
func (m *Manager) LoginAsDeveloper(ctx context.Context, asAdmin bool) error {
	m.mu.Lock()
	devMode := m.devMode
	m.mu.Unlock()
	if !devMode {
		return ErrDevModeDisabled
	}

	req := gateway.DevLoginRequest{
		Name:    "Test User",
		Email:   "user@aurafashions.com",
		IsAdmin: false,
	}
	if asAdmin {
		req = gateway.DevLoginRequest{
			Name:    "Admin User",
			Email:   "admin@aurafashions.com",
			IsAdmin: true,
		}
	}

	resp, err := m.gw.DevLogin(ctx, req)
	if err != nil {
		return fmt.Errorf("dev login failed: %w", err)
	}
	return m.adopt(ctx, resp)
}

// Logout signs out of the provider best-effort, then unconditionally purges
// the local session.
func (m *Manager) Logout(ctx context.Context) {
	if m.provider != nil {
		if err := m.provider.SignOut(ctx); err != nil {
			log.Printf("provider sign-out failed (ignored): %v", err)
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.clearLocked(ctx)
}

// ForceLogout purges local credentials after an authorization rejection
// from the backend. Idempotent: late or repeated 401s find nothing to
// clear.
func (m *Manager) ForceLogout() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == StateAnonymous && m.session.Token == "" {
		return
	}
	log.Printf("backend rejected credentials, clearing session")
	m.clearLocked(context.Background())
}

// Token returns the current bearer token, or "" when anonymous. Suitable as
// a gateway.TokenSource.
func (m *Manager) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session.Token
}

// Current returns a copy of the session.
func (m *Manager) Current() domain.Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	session := m.session
	if session.User != nil {
		user := *session.User
		session.User = &user
	}
	return session
}

// State returns the state machine position.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// IsAuthenticated reports whether a token is present. While revalidation is
// in flight this is optimistically true.
func (m *Manager) IsAuthenticated() bool {
	return m.Token() != ""
}

// IsAdmin reports whether the current user may reach privileged views.
func (m *Manager) IsAdmin() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session.Token != "" && m.session.User != nil && m.session.User.IsAdmin()
}

// DevMode reports the backend-advertised developer-login flag as of the
// last Initialize.
func (m *Manager) DevMode() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.devMode
}

// adopt replaces the session wholesale with a fresh login response.
func (m *Manager) adopt(ctx context.Context, resp *gateway.TokenResponse) error {
	user := resp.User

	m.mu.Lock()
	defer m.mu.Unlock()

	m.session = domain.Session{Token: resp.AccessToken, User: &user}
	m.state = StateAuthenticated

	if err := m.persistLocked(ctx); err != nil {
		return fmt.Errorf("failed to persist session: %w", err)
	}
	return nil
}

// loadSession reads both persisted keys. Returns nil when either is absent:
// a token without a profile (or the reverse) is treated as no session.
func (m *Manager) loadSession(ctx context.Context) (*domain.Session, error) {
	rawToken, err := m.store.Get(ctx, keyToken)
	if errors.Is(err, store.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session token: %w", err)
	}

	rawUser, err := m.store.Get(ctx, keyUser)
	if errors.Is(err, store.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session profile: %w", err)
	}

	var token string
	if err := json.Unmarshal(rawToken, &token); err != nil {
		return nil, fmt.Errorf("failed to parse session token: %w", err)
	}
	var user domain.UserProfile
	if err := json.Unmarshal(rawUser, &user); err != nil {
		return nil, fmt.Errorf("failed to parse session profile: %w", err)
	}
	if token == "" {
		return nil, nil
	}

	return &domain.Session{Token: token, User: &user}, nil
}

// persistLocked writes token and profile in one batch. Callers hold m.mu.
func (m *Manager) persistLocked(ctx context.Context) error {
	rawToken, err := json.Marshal(m.session.Token)
	if err != nil {
		return err
	}
	rawUser, err := json.Marshal(m.session.User)
	if err != nil {
		return err
	}
	return m.store.SetMany(ctx, map[string][]byte{
		keyToken: rawToken,
		keyUser:  rawUser,
	})
}

// clearLocked purges both persisted keys and resets to Anonymous. Callers
// hold m.mu.
func (m *Manager) clearLocked(ctx context.Context) {
	if err := m.store.Delete(ctx, keyToken, keyUser); err != nil {
		log.Printf("failed to clear persisted session: %v", err)
	}
	m.session = domain.Session{}
	m.state = StateAnonymous
}
