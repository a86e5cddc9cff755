package postgres

import (
	"context"
	"errors"

	personnelDatamodel "github.com/frahmantamala/police-portal/internal/core/datamodel/personnel"
	"github.com/frahmantamala/police-portal/internal/personnel"
	"gorm.io/gorm"
)

type PersonnelRepository struct {
	db *gorm.DB
}

func NewPersonnelRepository(db *gorm.DB) personnel.Repository {
	return &PersonnelRepository{db: db}
}

func (r *PersonnelRepository) List(ctx context.Context) ([]*personnel.Personnel, error) {
	var rows []*personnelDatamodel.Personnel
	if err := r.db.WithContext(ctx).Order("created_at DESC, id DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]*personnel.Personnel, 0, len(rows))
	for _, row := range rows {
		out = append(out, personnel.FromDataModel(row))
	}
	return out, nil
}

func (r *PersonnelRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&personnelDatamodel.Personnel{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *PersonnelRepository) Create(ctx context.Context, p *personnel.Personnel) error {
	dm := personnel.ToDataModel(p)
	if err := r.db.WithContext(ctx).Create(dm).Error; err != nil {
		return err
	}
	p.ID = dm.ID
	return nil
}

func (r *PersonnelRepository) Update(ctx context.Context, id int64, changes personnel.Changes) (*personnel.Personnel, error) {
	var dm personnelDatamodel.Personnel
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&dm, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return personnel.ErrNotFound
			}
			return err
		}
		if len(changes) == 0 {
			return nil
		}
		if err := tx.Model(&dm).Updates(map[string]interface{}(changes)).Error; err != nil {
			return err
		}
		return tx.First(&dm, id).Error
	})
	if err != nil {
		return nil, err
	}
	return personnel.FromDataModel(&dm), nil
}

// Delete removes the officer's records first so no orphans remain.
func (r *PersonnelRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("personnel_id = ?", id).Delete(&personnelDatamodel.Record{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&personnelDatamodel.Personnel{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return personnel.ErrNotFound
		}
		return nil
	})
}

func (r *PersonnelRepository) ListRecords(ctx context.Context, personnelID *int64) ([]*personnel.Record, error) {
	q := r.db.WithContext(ctx).Order("date DESC, id DESC")
	if personnelID != nil {
		q = q.Where("personnel_id = ?", *personnelID)
	}

	var rows []*personnelDatamodel.Record
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]*personnel.Record, 0, len(rows))
	for _, row := range rows {
		out = append(out, personnel.RecordFromDataModel(row))
	}
	return out, nil
}

func (r *PersonnelRepository) CreateRecord(ctx context.Context, rec *personnel.Record) error {
	dm := personnel.RecordToDataModel(rec)
	if err := r.db.WithContext(ctx).Create(dm).Error; err != nil {
		return err
	}
	rec.ID = dm.ID
	return nil
}

func (r *PersonnelRepository) DeleteRecord(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&personnelDatamodel.Record{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return personnel.ErrNotFound
	}
	return nil
}
