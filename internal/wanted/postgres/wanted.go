package postgres

import (
	"context"
	"errors"

	wantedDatamodel "github.com/frahmantamala/police-portal/internal/core/datamodel/wanted"
	"github.com/frahmantamala/police-portal/internal/wanted"
	"gorm.io/gorm"
)

type WantedRepository struct {
	db *gorm.DB
}

func NewWantedRepository(db *gorm.DB) wanted.Repository {
	return &WantedRepository{db: db}
}

func (r *WantedRepository) ListPersons(ctx context.Context) ([]*wanted.Person, error) {
	var rows []*wantedDatamodel.Person
	if err := r.db.WithContext(ctx).Order("created_at DESC, id DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]*wanted.Person, 0, len(rows))
	for _, row := range rows {
		out = append(out, wanted.PersonFromDataModel(row))
	}
	return out, nil
}

func (r *WantedRepository) CreatePerson(ctx context.Context, p *wanted.Person) error {
	dm := wanted.PersonToDataModel(p)
	if err := r.db.WithContext(ctx).Create(dm).Error; err != nil {
		return err
	}
	p.ID = dm.ID
	return nil
}

func (r *WantedRepository) UpdatePerson(ctx context.Context, id int64, changes wanted.Changes) (*wanted.Person, error) {
	var dm wantedDatamodel.Person
	if err := r.update(ctx, &dm, id, changes); err != nil {
		return nil, err
	}
	return wanted.PersonFromDataModel(&dm), nil
}

func (r *WantedRepository) DeletePerson(ctx context.Context, id int64) error {
	return r.delete(ctx, &wantedDatamodel.Person{}, id)
}

func (r *WantedRepository) ListVehicles(ctx context.Context, visibility *wanted.Visibility) ([]*wanted.Vehicle, error) {
	q := r.db.WithContext(ctx).Order("created_at DESC, id DESC")
	if visibility != nil {
		q = q.Where("visibility = ?", string(*visibility))
	}

	var rows []*wantedDatamodel.Vehicle
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]*wanted.Vehicle, 0, len(rows))
	for _, row := range rows {
		out = append(out, wanted.VehicleFromDataModel(row))
	}
	return out, nil
}

func (r *WantedRepository) CreateVehicle(ctx context.Context, v *wanted.Vehicle) error {
	dm := wanted.VehicleToDataModel(v)
	if err := r.db.WithContext(ctx).Create(dm).Error; err != nil {
		return err
	}
	v.ID = dm.ID
	return nil
}

func (r *WantedRepository) UpdateVehicle(ctx context.Context, id int64, changes wanted.Changes) (*wanted.Vehicle, error) {
	var dm wantedDatamodel.Vehicle
	if err := r.update(ctx, &dm, id, changes); err != nil {
		return nil, err
	}
	return wanted.VehicleFromDataModel(&dm), nil
}

func (r *WantedRepository) DeleteVehicle(ctx context.Context, id int64) error {
	return r.delete(ctx, &wantedDatamodel.Vehicle{}, id)
}

// update loads the row into dst, applies changes and reloads it in one transaction.
func (r *WantedRepository) update(ctx context.Context, dst interface{}, id int64, changes wanted.Changes) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(dst, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return wanted.ErrNotFound
			}
			return err
		}
		if len(changes) == 0 {
			return nil
		}
		if err := tx.Model(dst).Updates(map[string]interface{}(changes)).Error; err != nil {
			return err
		}
		return tx.First(dst, id).Error
	})
}

func (r *WantedRepository) delete(ctx context.Context, model interface{}, id int64) error {
	result := r.db.WithContext(ctx).Delete(model, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return wanted.ErrNotFound
	}
	return nil
}
