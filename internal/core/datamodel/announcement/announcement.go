package announcement

import "time"

type Announcement struct {
	ID        int64     `gorm:"primaryKey"`
	Title     string    `gorm:"column:title;not null"`
	Content   string    `gorm:"column:content;not null"`
	Type      string    `gorm:"column:type;not null;index"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (Announcement) TableName() string {
	return "announcements"
}
