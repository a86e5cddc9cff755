package postgres

import (
	"context"
	"errors"
	"time"

	passwordresetDatamodel "github.com/frahmantamala/police-portal/internal/core/datamodel/passwordreset"
	userDatamodel "github.com/frahmantamala/police-portal/internal/core/datamodel/user"
	"github.com/frahmantamala/police-portal/internal/passwordreset"
	"github.com/frahmantamala/police-portal/internal/user"
	"gorm.io/gorm"
)

type TokenRepository struct {
	db *gorm.DB
}

func NewTokenRepository(db *gorm.DB) passwordreset.Repository {
	return &TokenRepository{db: db}
}

func (r *TokenRepository) Replace(ctx context.Context, userID int64, tokenHash string, expiresAt time.Time) (*passwordreset.Token, error) {
	dm := &passwordresetDatamodel.Token{
		UserID:    userID,
		TokenHash: tokenHash,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now().UTC(),
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&passwordresetDatamodel.Token{}).Error; err != nil {
			return err
		}
		return tx.Create(dm).Error
	})
	if err != nil {
		return nil, err
	}
	return passwordreset.FromDataModel(dm), nil
}

func (r *TokenRepository) GetByHash(ctx context.Context, tokenHash string) (*passwordreset.Token, error) {
	var dm passwordresetDatamodel.Token
	err := r.db.WithContext(ctx).Where("token_hash = ?", tokenHash).First(&dm).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, passwordreset.ErrNotFound
		}
		return nil, err
	}
	return passwordreset.FromDataModel(&dm), nil
}

// Consume keeps the consumed row as a tombstone so a replay reports
// "already used" rather than "unknown".
func (r *TokenRepository) Consume(ctx context.Context, tokenID, userID int64, passwordHash string, now time.Time) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&passwordresetDatamodel.Token{}).
			Where("id = ? AND consumed_at IS NULL AND expires_at >= ?", tokenID, now).
			Update("consumed_at", now)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return passwordreset.ErrTokenUnavailable
		}

		res = tx.Model(&userDatamodel.User{}).
			Where("id = ?", userID).
			Updates(map[string]interface{}{
				"password_hash": passwordHash,
				"updated_at":    now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return user.ErrNotFound
		}

		return tx.Where("user_id = ? AND id <> ?", userID, tokenID).Delete(&passwordresetDatamodel.Token{}).Error
	})
}
