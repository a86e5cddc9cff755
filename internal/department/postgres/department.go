package postgres

import (
	"context"

	departmentDatamodel "github.com/frahmantamala/police-portal/internal/core/datamodel/department"
	"github.com/frahmantamala/police-portal/internal/department"
	"gorm.io/gorm"
)

type DepartmentRepository struct {
	db *gorm.DB
}

func NewDepartmentRepository(db *gorm.DB) department.Repository {
	return &DepartmentRepository{db: db}
}

func (r *DepartmentRepository) List(ctx context.Context) ([]*department.Department, error) {
	var rows []*departmentDatamodel.Department
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]*department.Department, 0, len(rows))
	for _, row := range rows {
		out = append(out, department.FromDataModel(row))
	}
	return out, nil
}

func (r *DepartmentRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&departmentDatamodel.Department{}).Count(&count).Error
	return count, err
}

func (r *DepartmentRepository) Create(ctx context.Context, d *department.Department) error {
	dm := department.ToDataModel(d)
	if err := r.db.WithContext(ctx).Create(dm).Error; err != nil {
		return err
	}
	d.ID = dm.ID
	return nil
}
