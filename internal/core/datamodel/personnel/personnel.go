package personnel

import "time"

type Personnel struct {
	ID         int64     `gorm:"primaryKey"`
	Name       string    `gorm:"column:name;not null"`
	Rank       string    `gorm:"column:rank;not null"`
	Badge      *string   `gorm:"column:badge"`
	Department string    `gorm:"column:department;not null"`
	Discord    *string   `gorm:"column:discord"`
	JoinDate   time.Time `gorm:"column:join_date"`
	Status     string    `gorm:"column:status;not null;default:active"`
	ImageURL   *string   `gorm:"column:image_url"`
	Notes      *string   `gorm:"column:notes"`
	CreatedAt  time.Time `gorm:"column:created_at"`
}

func (Personnel) TableName() string {
	return "personnel"
}

type Record struct {
	ID          int64     `gorm:"primaryKey"`
	PersonnelID int64     `gorm:"column:personnel_id;not null;index"`
	Type        string    `gorm:"column:type;not null"`
	Title       string    `gorm:"column:title;not null"`
	Description *string   `gorm:"column:description"`
	ImageURL    *string   `gorm:"column:image_url"`
	Date        time.Time `gorm:"column:date"`
	CreatedBy   string    `gorm:"column:created_by"`
	CreatedAt   time.Time `gorm:"column:created_at"`
}

func (Record) TableName() string {
	return "personnel_records"
}
