package department

type Department struct {
	ID          int64  `gorm:"primaryKey"`
	Title       string `gorm:"column:title;not null"`
	Description string `gorm:"column:description;not null"`
	Icon        string `gorm:"column:icon;not null"`
}

func (Department) TableName() string {
	return "departments"
}
