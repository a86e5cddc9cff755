package passwordreset

import "time"

type Token struct {
	ID         int64      `gorm:"primaryKey"`
	UserID     int64      `gorm:"column:user_id;not null;index"`
	TokenHash  string     `gorm:"column:token_hash;not null;uniqueIndex"`
	ExpiresAt  time.Time  `gorm:"column:expires_at;not null"`
	ConsumedAt *time.Time `gorm:"column:consumed_at"`
	CreatedAt  time.Time  `gorm:"column:created_at"`
}

func (Token) TableName() string {
	return "password_reset_tokens"
}
