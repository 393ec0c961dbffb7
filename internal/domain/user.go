package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// User represents a registered traveller
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// UserCreate represents user registration data
type UserCreate struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Name     string `json:"name" validate:"required,max=255"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// UserLogin represents login credentials
type UserLogin struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UserInfo is the public view of a user
type UserInfo struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
	Name  string    `json:"name"`
}

// Info strips credential material
func (u *User) Info() UserInfo {
	return UserInfo{ID: u.ID, Email: u.Email, Name: u.Name}
}

// AuthResult is returned by register and login
type AuthResult struct {
	User        UserInfo `json:"user"`
	AccessToken string   `json:"accessToken"`
	ExpiresIn   int64    `json:"expiresIn"`
}

// UserRepository defines the interface for user storage
type UserRepository interface {
	// Create returns ErrUniqueViolation when the email is taken
	Create(ctx context.Context, user *User) error
	// GetByID and GetByEmail return nil, nil when no user matches
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
}
