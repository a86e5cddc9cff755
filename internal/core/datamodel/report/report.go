package report

import "time"

type Report struct {
	ID          int64     `gorm:"primaryKey"`
	Name        string    `gorm:"column:name;not null"`
	Discord     string    `gorm:"column:discord"`
	Content     string    `gorm:"column:content;not null"`
	Attachments []string  `gorm:"column:attachments;serializer:json"`
	Status      string    `gorm:"column:status;not null;default:pending"`
	CreatedAt   time.Time `gorm:"column:created_at"`
}

func (Report) TableName() string {
	return "reports"
}

type InternalReport struct {
	ID              int64     `gorm:"primaryKey"`
	FromPersonnelID int64     `gorm:"column:from_personnel_id;not null;default:0"`
	FromName        string    `gorm:"column:from_name;not null"`
	ToPersonnelID   int64     `gorm:"column:to_personnel_id;not null;default:0"`
	ToName          string    `gorm:"column:to_name;not null"`
	Subject         string    `gorm:"column:subject;not null"`
	Content         string    `gorm:"column:content;not null"`
	Attachment      string    `gorm:"column:attachment;not null"`
	Status          string    `gorm:"column:status;not null;default:pending"`
	CreatedAt       time.Time `gorm:"column:created_at"`
}

func (InternalReport) TableName() string {
	return "internal_reports"
}
