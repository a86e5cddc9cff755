package postgres

import (
	"context"
	"errors"

	"github.com/frahmantamala/police-portal/internal/announcement"
	announcementDatamodel "github.com/frahmantamala/police-portal/internal/core/datamodel/announcement"
	"gorm.io/gorm"
)

type AnnouncementRepository struct {
	db *gorm.DB
}

func NewAnnouncementRepository(db *gorm.DB) announcement.Repository {
	return &AnnouncementRepository{db: db}
}

func (r *AnnouncementRepository) List(ctx context.Context, filter *announcement.Type) ([]*announcement.Announcement, error) {
	q := r.db.WithContext(ctx).Order("created_at DESC, id DESC")
	if filter != nil {
		q = q.Where("type = ?", string(*filter))
	}

	var rows []*announcementDatamodel.Announcement
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]*announcement.Announcement, 0, len(rows))
	for _, row := range rows {
		out = append(out, announcement.FromDataModel(row))
	}
	return out, nil
}

func (r *AnnouncementRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&announcementDatamodel.Announcement{}).Count(&count).Error
	return count, err
}

func (r *AnnouncementRepository) Create(ctx context.Context, a *announcement.Announcement) error {
	dm := announcement.ToDataModel(a)
	if err := r.db.WithContext(ctx).Create(dm).Error; err != nil {
		return err
	}
	a.ID = dm.ID
	return nil
}

func (r *AnnouncementRepository) Update(ctx context.Context, id int64, patch announcement.Patch) (*announcement.Announcement, error) {
	var dm announcementDatamodel.Announcement
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&dm, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return announcement.ErrNotFound
			}
			return err
		}

		updates := map[string]interface{}{}
		if patch.Title != nil {
			updates["title"] = *patch.Title
		}
		if patch.Content != nil {
			updates["content"] = *patch.Content
		}
		if patch.Type != nil {
			updates["type"] = string(*patch.Type)
		}
		if len(updates) == 0 {
			return nil
		}
		if err := tx.Model(&dm).Updates(updates).Error; err != nil {
			return err
		}
		return tx.First(&dm, id).Error
	})
	if err != nil {
		return nil, err
	}
	return announcement.FromDataModel(&dm), nil
}

func (r *AnnouncementRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&announcementDatamodel.Announcement{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return announcement.ErrNotFound
	}
	return nil
}
