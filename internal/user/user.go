package user

import (
	"context"
	"errors"
	"time"

	"github.com/frahmantamala/police-portal/internal/core/permission"
	"github.com/frahmantamala/police-portal/internal/core/rank"
	userDatamodel "github.com/frahmantamala/police-portal/internal/core/datamodel/user"
)

// User is the credential-store record. PasswordHash never leaves the server.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	Rank         rank.Rank
	Permissions  permission.Set
	DisplayName  string
	Email        string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Update is a partial change; nil fields are left untouched.
type Update struct {
	Rank         *rank.Rank
	Permissions  *permission.Set
	PasswordHash *string
	Email        *string
}

func (u Update) Empty() bool {
	return u.Rank == nil && u.Permissions == nil && u.PasswordHash == nil && u.Email == nil
}

type Repository interface {
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context) ([]*User, error)
	Create(ctx context.Context, u *User) error
	Update(ctx context.Context, id int64, upd Update) error
	Delete(ctx context.Context, id int64) error
}

type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, digest string) bool
}

var (
	ErrNotFound          = errors.New("user not found")
	ErrDuplicateUsername = errors.New("username already exists")
)

const (
	MsgUserCreated          = "تم إنشاء المستخدم بنجاح"
	MsgUserUpdated          = "تم تحديث المستخدم بنجاح"
	MsgUserDeleted          = "تم حذف المستخدم بنجاح"
	MsgEmailUpdated         = "تم تحديث البريد الإلكتروني"
	MsgPasswordChanged      = "تم تغيير كلمة المرور بنجاح"
	MsgUsernameTaken        = "اسم المستخدم موجود بالفعل"
	MsgUsernameTooShort     = "اسم المستخدم يجب أن يكون 3 أحرف على الأقل"
	MsgUserNotFound         = "المستخدم غير موجود"
	MsgSelfModification     = "لا يمكنك تغيير صلاحياتك"
	MsgSelfDeletion         = "لا يمكنك حذف حسابك الحالي"
	MsgFillAllFields        = "يرجى ملء جميع الحقول"
	MsgWrongCurrentPassword = "كلمة المرور الحالية غير صحيحة"
	MsgInvalidRank          = "رتبة غير صالحة"
	MsgInvalidPermission    = "صلاحية غير صالحة"
	MsgInvalidEmail         = "البريد الإلكتروني غير صالح"
)

func ToDataModel(u *User) *userDatamodel.User {
	dm := &userDatamodel.User{
		ID:           u.ID,
		Username:     u.Username,
		PasswordHash: u.PasswordHash,
		Rank:         string(u.Rank),
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
	if u.DisplayName != "" {
		name := u.DisplayName
		dm.DisplayName = &name
	}
	if u.Email != "" {
		email := u.Email
		dm.Email = &email
	}
	return dm
}

// FromDataModel drops unknown stored tags and falls back to the default rank
// for legacy values so a bad row cannot grant anything.
func FromDataModel(u *userDatamodel.User, permissions []string) *User {
	r := rank.Rank(u.Rank)
	if !r.Valid() {
		r = rank.Default
	}
	out := &User{
		ID:           u.ID,
		Username:     u.Username,
		PasswordHash: u.PasswordHash,
		Rank:         r,
		Permissions:  permission.FromStrings(permissions),
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
	if u.DisplayName != nil {
		out.DisplayName = *u.DisplayName
	}
	if u.Email != nil {
		out.Email = *u.Email
	}
	return out
}
