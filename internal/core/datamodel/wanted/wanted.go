package wanted

import "time"

type Person struct {
	ID        int64     `gorm:"primaryKey"`
	Name      string    `gorm:"column:name;not null"`
	Crime     string    `gorm:"column:crime;not null"`
	Status    string    `gorm:"column:status;not null;default:wanted"`
	ImageURL  *string   `gorm:"column:image_url"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (Person) TableName() string {
	return "wanted_list"
}

type Vehicle struct {
	ID          int64     `gorm:"primaryKey"`
	PlateNumber string    `gorm:"column:plate_number;not null"`
	VehicleType string    `gorm:"column:vehicle_type;not null"`
	Color       *string   `gorm:"column:color"`
	Reason      string    `gorm:"column:reason;not null"`
	Status      string    `gorm:"column:status;not null;default:wanted"`
	Visibility  string    `gorm:"column:visibility;not null;default:public;index"`
	ImageURL    *string   `gorm:"column:image_url"`
	Notes       *string   `gorm:"column:notes"`
	CreatedAt   time.Time `gorm:"column:created_at"`
}

func (Vehicle) TableName() string {
	return "wanted_vehicles"
}
