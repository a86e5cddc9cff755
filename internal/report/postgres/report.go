package postgres

import (
	"context"
	"errors"

	reportDatamodel "github.com/frahmantamala/police-portal/internal/core/datamodel/report"
	"github.com/frahmantamala/police-portal/internal/report"
	"gorm.io/gorm"
)

type ReportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) report.Repository {
	return &ReportRepository{db: db}
}

func (r *ReportRepository) List(ctx context.Context) ([]*report.Report, error) {
	var rows []*reportDatamodel.Report
	if err := r.db.WithContext(ctx).Order("created_at DESC, id DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]*report.Report, 0, len(rows))
	for _, row := range rows {
		out = append(out, report.FromDataModel(row))
	}
	return out, nil
}

func (r *ReportRepository) Create(ctx context.Context, rep *report.Report) error {
	dm := report.ToDataModel(rep)
	if err := r.db.WithContext(ctx).Create(dm).Error; err != nil {
		return err
	}
	rep.ID = dm.ID
	return nil
}

func (r *ReportRepository) UpdateStatus(ctx context.Context, id int64, status report.Status) (*report.Report, error) {
	var dm reportDatamodel.Report
	if err := r.setStatus(ctx, &dm, id, status); err != nil {
		return nil, err
	}
	return report.FromDataModel(&dm), nil
}

func (r *ReportRepository) Delete(ctx context.Context, id int64) error {
	return r.delete(ctx, &reportDatamodel.Report{}, id)
}

func (r *ReportRepository) ListInternal(ctx context.Context) ([]*report.InternalReport, error) {
	var rows []*reportDatamodel.InternalReport
	if err := r.db.WithContext(ctx).Order("created_at DESC, id DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]*report.InternalReport, 0, len(rows))
	for _, row := range rows {
		out = append(out, report.InternalFromDataModel(row))
	}
	return out, nil
}

func (r *ReportRepository) CreateInternal(ctx context.Context, rep *report.InternalReport) error {
	dm := report.InternalToDataModel(rep)
	if err := r.db.WithContext(ctx).Create(dm).Error; err != nil {
		return err
	}
	rep.ID = dm.ID
	return nil
}

func (r *ReportRepository) UpdateInternalStatus(ctx context.Context, id int64, status report.Status) (*report.InternalReport, error) {
	var dm reportDatamodel.InternalReport
	if err := r.setStatus(ctx, &dm, id, status); err != nil {
		return nil, err
	}
	return report.InternalFromDataModel(&dm), nil
}

func (r *ReportRepository) DeleteInternal(ctx context.Context, id int64) error {
	return r.delete(ctx, &reportDatamodel.InternalReport{}, id)
}

func (r *ReportRepository) setStatus(ctx context.Context, dst interface{}, id int64, status report.Status) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(dst, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return report.ErrNotFound
			}
			return err
		}
		if err := tx.Model(dst).Update("status", string(status)).Error; err != nil {
			return err
		}
		return tx.First(dst, id).Error
	})
}

func (r *ReportRepository) delete(ctx context.Context, model interface{}, id int64) error {
	result := r.db.WithContext(ctx).Delete(model, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return report.ErrNotFound
	}
	return nil
}
