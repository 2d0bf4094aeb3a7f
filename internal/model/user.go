package model

import "time"

// User represents a registered phone number in the system
type User struct {
	ID           string    `json:"id"`
	Phone        string    `json:"phone"`
	PasswordHash string    `json:"-"` // Do not expose password hash in JSON responses
	Name         string    `json:"name"`
	Type         string    `json:"type"`
	Latitude     *float64  `json:"latitude,omitempty"`  // Pointer for optional field
	Longitude    *float64  `json:"longitude,omitempty"` // Pointer for optional field
	Street       *string   `json:"street,omitempty"`
	BlockedBy    []string  `json:"-"` // IDs of users whose content is hidden from this user
	IsVerified   bool      `json:"is_verified"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// SignupRequest is used for registering a new user
type SignupRequest struct {
	Phone     string   `json:"phone" binding:"required,min=10"`
	Password  string   `json:"password" binding:"required,min=6"`
	Name      string   `json:"name" binding:"required"`
	Type      string   `json:"type" binding:"required"`
	Latitude  *float64 `json:"latitude" binding:"omitempty,gte=-90,lte=90"`
	Longitude *float64 `json:"longitude" binding:"omitempty,gte=-180,lte=180"`
}

// LoginRequest is used for authenticating an existing user
type LoginRequest struct {
	Phone    string `json:"phone" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UpdateLocationRequest updates a user's stored coordinates and street
type UpdateLocationRequest struct {
	Latitude  float64 `json:"latitude" binding:"required,gte=-90,lte=90"`
	Longitude float64 `json:"longitude" binding:"required,gte=-180,lte=180"`
	Street    string  `json:"street" binding:"required"`
}
