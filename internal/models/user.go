package models

import "time"

type UserStatus string

const (
	UserStatusActive    UserStatus = "active"
	UserStatusSuspended UserStatus = "suspended"
)

// User is an account row. PasswordHash holds the encoded argon2id string.
type User struct {
	ID           string
	Email        string
	PasswordHash []byte
	DisplayName  string
	Role         Role
	Status       UserStatus
	AvatarURL    *string
	Phone        *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CanSignIn reports whether the account may start a session.
func (u User) CanSignIn() bool {
	return u.Status == UserStatusActive && u.Role.Valid()
}
