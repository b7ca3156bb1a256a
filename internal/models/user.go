package models

import (
	"time"
)

// User roles
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents a registered passenger or administrator
type User struct {
	ID          int64      `json:"id" db:"id"`
	Name        string     `json:"name" db:"name"`
	Email       string     `json:"email" db:"email"`
	Password    string     `json:"-" db:"password"` // Never expose in JSON
	PhoneNumber NullString `json:"phone_number,omitempty" db:"phone_number"`
	Gender      NullString `json:"gender,omitempty" db:"gender"`
	City        NullString `json:"city,omitempty" db:"city"`
	State       NullString `json:"state,omitempty" db:"state"`
	Role        string     `json:"role" db:"role"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
}

// RegisterRequest is the payload for user registration
type RegisterRequest struct {
	Name        string `json:"name" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=6"`
	PhoneNumber string `json:"phoneNumber"`
	Gender      string `json:"gender"`
	City        string `json:"city"`
	State       string `json:"state"`
}

// LoginRequest is the payload for user login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the issued token and the authenticated user
type LoginResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}
