package session

import (
	"time"

	"webappmanager/internal/models"
)

// Record is the authenticated principal carried by the session cookie.
type Record struct {
	ID        string      `json:"id"`
	Email     string      `json:"email"`
	Name      string      `json:"name"`
	Role      models.Role `json:"role"`
	Avatar    *string     `json:"avatar,omitempty"`
	Phone     *string     `json:"phone,omitempty"`
	ExpiresAt int64       `json:"expiresAt"`
}

// NewRecord builds a record for user expiring ttl after now.
func NewRecord(user models.User, now time.Time, ttl time.Duration) Record {
	return Record{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.DisplayName,
		Role:      user.Role,
		Avatar:    user.AvatarURL,
		Phone:     user.Phone,
		ExpiresAt: now.Add(ttl).UnixMilli(),
	}
}

// Valid reports whether now is strictly before the expiry.
func (r Record) Valid(now time.Time) bool {
	return now.UnixMilli() < r.ExpiresAt
}

func (r Record) ExpiresTime() time.Time {
	return time.UnixMilli(r.ExpiresAt)
}
