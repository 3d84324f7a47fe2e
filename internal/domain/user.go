package domain

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// UserProfile is the backend's view of an account, cached locally between
// revalidations.
type UserProfile struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Picture   string    `json:"picture,omitempty"`
	CreatedAt time.Time `json:"created_at,omitzero"`
}

// IsAdmin is the sole authorization predicate for privileged views.
func (u UserProfile) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Session pairs the opaque backend token with the profile it was issued
// for. Token and User are set and cleared together, never one without the
// other.
type Session struct {
	Token string       `json:"token"`
	User  *UserProfile `json:"user"`
}
