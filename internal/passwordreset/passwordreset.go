package passwordreset

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	passwordresetDatamodel "github.com/frahmantamala/police-portal/internal/core/datamodel/passwordreset"
	"github.com/frahmantamala/police-portal/internal/user"
)

// TokenTTL is fixed; it is not a configuration knob.
const TokenTTL = 15 * time.Minute

const secretBytes = 32

// Token is a stored reset token. Only the sha256 of the secret is kept.
type Token struct {
	ID         int64
	UserID     int64
	TokenHash  string
	ExpiresAt  time.Time
	ConsumedAt *time.Time
	CreatedAt  time.Time
}

func (t *Token) Consumed() bool {
	return t.ConsumedAt != nil
}

// Expired reports now > ExpiresAt; the expiry instant itself is still valid.
func (t *Token) Expired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}

type Repository interface {
	// Replace deletes every token of the user and inserts the new one in a
	// single transaction.
	Replace(ctx context.Context, userID int64, tokenHash string, expiresAt time.Time) (*Token, error)
	GetByHash(ctx context.Context, tokenHash string) (*Token, error)
	// Consume marks the token used, stores the new password hash and deletes
	// the user's other tokens in one transaction. It returns ErrTokenUnavailable
	// when the token was consumed or expired concurrently.
	Consume(ctx context.Context, tokenID, userID int64, passwordHash string, now time.Time) error
}

type UserFinder interface {
	GetByEmail(ctx context.Context, email string) (*user.User, error)
}

type PasswordHasher interface {
	Hash(plaintext string) (string, error)
}

var (
	ErrNotFound         = errors.New("reset token not found")
	ErrTokenUnavailable = errors.New("reset token already consumed or expired")
)

const (
	MsgRequestAccepted = "إذا كان البريد الإلكتروني مسجلاً، ستصلك رسالة لإعادة تعيين كلمة المرور"
	MsgEmailRequired   = "البريد الإلكتروني مطلوب"
	MsgRequestFailed   = "حدث خطأ أثناء معالجة الطلب"
	MsgTokenMissing    = "رمز غير صالح"
	MsgTokenUnknown    = "رمز غير صالح أو منتهي الصلاحية"
	MsgTokenConsumed   = "تم استخدام هذا الرمز بالفعل"
	MsgTokenExpired    = "انتهت صلاحية الرمز"
	MsgValidateFailed  = "حدث خطأ أثناء التحقق"
	MsgIncompleteData  = "البيانات غير مكتملة"
	MsgPasswordChanged = "تم تغيير كلمة المرور بنجاح"
	MsgResetFailed     = "حدث خطأ أثناء إعادة تعيين كلمة المرور"
)

// NewSecret returns a hex encoded random secret and its sha256 hex digest.
func NewSecret() (secret, digest string, err error) {
	buf := make([]byte, secretBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", "", err
	}
	secret = hex.EncodeToString(buf)
	return secret, HashSecret(secret), nil
}

func HashSecret(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:])
}

func ToDataModel(t *Token) *passwordresetDatamodel.Token {
	return &passwordresetDatamodel.Token{
		ID:         t.ID,
		UserID:     t.UserID,
		TokenHash:  t.TokenHash,
		ExpiresAt:  t.ExpiresAt,
		ConsumedAt: t.ConsumedAt,
		CreatedAt:  t.CreatedAt,
	}
}

func FromDataModel(dm *passwordresetDatamodel.Token) *Token {
	return &Token{
		ID:         dm.ID,
		UserID:     dm.UserID,
		TokenHash:  dm.TokenHash,
		ExpiresAt:  dm.ExpiresAt,
		ConsumedAt: dm.ConsumedAt,
		CreatedAt:  dm.CreatedAt,
	}
}
