package events

import (
	"time"

	"github.com/google/uuid"
)

const EventTypePasswordResetRequested = "password_reset.requested"

// PasswordResetRequested carries the delivery details of a freshly issued
// reset link. The link embeds the raw secret, so the event must not be logged
// with its payload.
type PasswordResetRequested struct {
	ID        string
	Email     string
	Link      string
	ExpiresAt time.Time
	Timestamp time.Time
}

func NewPasswordResetRequested(email, link string, expiresAt time.Time) PasswordResetRequested {
	return PasswordResetRequested{
		ID:        uuid.NewString(),
		Email:     email,
		Link:      link,
		ExpiresAt: expiresAt,
		Timestamp: time.Now().UTC(),
	}
}

func (e PasswordResetRequested) EventType() string {
	return EventTypePasswordResetRequested
}

func (e PasswordResetRequested) EventID() string {
	return e.ID
}

func (e PasswordResetRequested) OccurredAt() time.Time {
	return e.Timestamp
}

func (e PasswordResetRequested) Payload() interface{} {
	return map[string]interface{}{
		"email":      e.Email,
		"expires_at": e.ExpiresAt,
	}
}
