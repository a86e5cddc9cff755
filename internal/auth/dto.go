package auth

import (
	"github.com/frahmantamala/police-portal/internal"
	"github.com/frahmantamala/police-portal/internal/session"
	"github.com/frahmantamala/police-portal/internal/user"
)

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResult struct {
	Session *session.Session
	User    *user.User
}

// ResolvedSession pairs the live session with the user reloaded for it.
type ResolvedSession struct {
	Session *session.Session
	User    *user.User
}

func (r *ResolvedSession) Principal() *internal.Principal {
	return &internal.Principal{
		UserID:      r.User.ID,
		SessionID:   r.Session.ID,
		Username:    r.User.Username,
		DisplayName: r.User.DisplayName,
		Rank:        r.User.Rank,
		Permissions: r.User.Permissions,
	}
}

type LoginResponse struct {
	Success bool          `json:"success"`
	Message string        `json:"message"`
	User    *user.Profile `json:"user,omitempty"`
}

type MeResponse struct {
	Authenticated bool          `json:"authenticated"`
	User          *user.Profile `json:"user,omitempty"`
}

type LogoutResponse struct {
	Success bool `json:"success"`
}

// ProfileFromPrincipal renders the identity view of an authorized request.
func ProfileFromPrincipal(p *internal.Principal) *user.Profile {
	u := &user.User{
		ID:          p.UserID,
		Username:    p.Username,
		Rank:        p.Rank,
		Permissions: p.Permissions,
		DisplayName: p.DisplayName,
	}
	profile := u.ToProfile()
	return &profile
}
