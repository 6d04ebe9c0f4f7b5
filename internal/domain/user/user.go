package user

import (
	"errors"
	"time"
)

const (
	RoleSeeker   = "seeker"
	RoleEmployer = "employer"
)

var (
	ErrNotFound   = errors.New("user not found")
	ErrEmailTaken = errors.New("email already in use")
)

func IsValidRole(role string) bool {
	return role == RoleSeeker || role == RoleEmployer
}

type User struct {
	ID           string    `json:"id"`
	Fullname     string    `json:"fullname"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // never expose hash in JSON
	Phone        string    `json:"phone"`
	Role         string    `json:"role"`
	AvatarURL    string    `json:"avatarUrl,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
