package auth

import (
	"context"

	"github.com/frahmantamala/police-portal/internal/session"
	"github.com/frahmantamala/police-portal/internal/user"
)

// UserStore is the slice of the credential store that authentication reads.
type UserStore interface {
	GetByID(ctx context.Context, id int64) (*user.User, error)
	GetByUsername(ctx context.Context, username string) (*user.User, error)
}

type SessionStore interface {
	Create(ctx context.Context, userID int64, username string, permissions []string) (*session.Session, error)
	Get(ctx context.Context, id string) (*session.Session, error)
	Refresh(ctx context.Context, sess *session.Session) error
	Delete(ctx context.Context, id string) error
}

type PasswordVerifier interface {
	Verify(plaintext, digest string) bool
}

type ServiceAPI interface {
	Login(ctx context.Context, req LoginRequest, clientIP string) (*LoginResult, error)
	Resolve(ctx context.Context, sessionID string, userID int64) (*ResolvedSession, error)
	Logout(ctx context.Context, sessionID string) error
}

const (
	MsgLoginSuccess       = "تم تسجيل الدخول بنجاح ✅"
	MsgUnknownUsername    = "اسم المستخدم غير موجود ❌"
	MsgWrongPassword      = "كلمة المرور غير صحيحة ❌"
	MsgMissingCredentials = "يرجى إدخال اسم المستخدم وكلمة المرور"
)
