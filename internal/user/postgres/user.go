package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	passwordresetDatamodel "github.com/frahmantamala/police-portal/internal/core/datamodel/passwordreset"
	userDatamodel "github.com/frahmantamala/police-portal/internal/core/datamodel/user"
	"github.com/frahmantamala/police-portal/internal/core/permission"
	"github.com/frahmantamala/police-portal/internal/user"
	"gorm.io/gorm"
)

// UserRepository implements user.Repository using GORM. Permissions live in
// the user_permissions join table against the permissions catalogue.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) user.Repository {
	return &UserRepository{db: db}
}

type permissionRow struct {
	UserID int64
	Name   string
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*user.User, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*user.User, error) {
	return r.first(ctx, "username = ?", username)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, user.ErrNotFound
	}
	return r.first(ctx, "LOWER(email) = LOWER(?)", email)
}

func (r *UserRepository) first(ctx context.Context, query string, args ...interface{}) (*user.User, error) {
	var dm userDatamodel.User
	err := r.db.WithContext(ctx).Where(query, args...).First(&dm).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, user.ErrNotFound
		}
		return nil, err
	}

	perms, err := r.permissions(ctx, dm.ID)
	if err != nil {
		return nil, err
	}
	return user.FromDataModel(&dm, perms[dm.ID]), nil
}

// permissions loads permission names grouped by user id.
func (r *UserRepository) permissions(ctx context.Context, userIDs ...int64) (map[int64][]string, error) {
	var rows []permissionRow
	err := r.db.WithContext(ctx).
		Table("user_permissions AS up").
		Select("up.user_id AS user_id, p.name AS name").
		Joins("JOIN permissions p ON p.id = up.permission_id").
		Where("up.user_id IN ?", userIDs).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make(map[int64][]string, len(userIDs))
	for _, row := range rows {
		out[row.UserID] = append(out[row.UserID], row.Name)
	}
	return out, nil
}

func (r *UserRepository) List(ctx context.Context) ([]*user.User, error) {
	var dms []*userDatamodel.User
	if err := r.db.WithContext(ctx).Order("created_at DESC, id DESC").Find(&dms).Error; err != nil {
		return nil, err
	}
	if len(dms) == 0 {
		return []*user.User{}, nil
	}

	ids := make([]int64, len(dms))
	for i, dm := range dms {
		ids[i] = dm.ID
	}
	perms, err := r.permissions(ctx, ids...)
	if err != nil {
		return nil, err
	}

	users := make([]*user.User, len(dms))
	for i, dm := range dms {
		users[i] = user.FromDataModel(dm, perms[dm.ID])
	}
	return users, nil
}

func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	now := time.Now().UTC()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.UpdatedAt = now

	dm := user.ToDataModel(u)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(dm).Error; err != nil {
			return err
		}
		return replacePermissions(tx, dm.ID, u.Permissions)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return user.ErrDuplicateUsername
		}
		return err
	}

	u.ID = dm.ID
	return nil
}

func (r *UserRepository) Update(ctx context.Context, id int64, upd user.Update) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var dm userDatamodel.User
		if err := tx.Select("id").Where("id = ?", id).First(&dm).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return user.ErrNotFound
			}
			return err
		}

		columns := map[string]interface{}{"updated_at": time.Now().UTC()}
		if upd.Rank != nil {
			columns["rank"] = string(*upd.Rank)
		}
		if upd.PasswordHash != nil {
			columns["password_hash"] = *upd.PasswordHash
		}
		if upd.Email != nil {
			if *upd.Email == "" {
				columns["email"] = nil
			} else {
				columns["email"] = *upd.Email
			}
		}
		if err := tx.Model(&userDatamodel.User{}).Where("id = ?", id).Updates(columns).Error; err != nil {
			return err
		}

		if upd.Permissions != nil {
			return replacePermissions(tx, id, *upd.Permissions)
		}
		return nil
	})
}

// Delete removes the user with their permission rows and reset tokens.
func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&userDatamodel.UserPermission{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&passwordresetDatamodel.Token{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&userDatamodel.User{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return user.ErrNotFound
		}
		return nil
	})
}

func replacePermissions(tx *gorm.DB, userID int64, perms permission.Set) error {
	if err := tx.Where("user_id = ?", userID).Delete(&userDatamodel.UserPermission{}).Error; err != nil {
		return err
	}

	now := time.Now().UTC()
	for _, p := range perms {
		var row userDatamodel.Permission
		err := tx.Where(userDatamodel.Permission{Name: string(p)}).
			Attrs(userDatamodel.Permission{Description: p.Description(), CreatedAt: now}).
			FirstOrCreate(&row).Error
		if err != nil {
			return err
		}

		link := userDatamodel.UserPermission{UserID: userID, PermissionID: row.ID, CreatedAt: now}
		if err := tx.Create(&link).Error; err != nil {
			return err
		}
	}
	return nil
}
