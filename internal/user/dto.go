package user

import (
	"time"

	"github.com/frahmantamala/police-portal/internal/core/permission"
	"github.com/frahmantamala/police-portal/internal/core/rank"
)

type RegisterRequest struct {
	Username    string   `json:"username"`
	Password    string   `json:"password"`
	Rank        string   `json:"rank"`
	Permissions []string `json:"permissions"`
	DisplayName string   `json:"displayName"`
}

// UpdateAccessRequest distinguishes an absent permissions field from an
// explicit empty list.
type UpdateAccessRequest struct {
	Rank        *string   `json:"rank"`
	Permissions *[]string `json:"permissions"`
}

type UpdateEmailRequest struct {
	Email string `json:"email"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// Profile is the identity view returned by login and session checks.
type Profile struct {
	ID           int64                   `json:"id"`
	Username     string                  `json:"username"`
	Rank         rank.Rank               `json:"rank"`
	Permissions  permission.Set          `json:"permissions"`
	DisplayName  string                  `json:"displayName"`
	Capabilities permission.Capabilities `json:"capabilities"`
}

// Summary is the admin listing view. It has no credential fields.
type Summary struct {
	ID          int64          `json:"id"`
	Username    string         `json:"username"`
	Rank        rank.Rank      `json:"rank"`
	Permissions permission.Set `json:"permissions"`
	DisplayName string         `json:"displayName"`
	Email       string         `json:"email,omitempty"`
	CreatedAt   time.Time      `json:"createdAt"`
}

type RegisterResponse struct {
	Success bool    `json:"success"`
	Message string  `json:"message"`
	User    Summary `json:"user"`
}

type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

func (u *User) ToProfile() Profile {
	return Profile{
		ID:           u.ID,
		Username:     u.Username,
		Rank:         u.Rank,
		Permissions:  u.Permissions,
		DisplayName:  u.DisplayName,
		Capabilities: u.Permissions.Capabilities(),
	}
}

func (u *User) ToSummary() Summary {
	return Summary{
		ID:          u.ID,
		Username:    u.Username,
		Rank:        u.Rank,
		Permissions: u.Permissions,
		DisplayName: u.DisplayName,
		Email:       u.Email,
		CreatedAt:   u.CreatedAt,
	}
}
