package model

import "time"

// Todo is a task owned by a user, optionally shared with invited users
type Todo struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	Title        string    `json:"title"`
	Completed    bool      `json:"completed"`
	InvitedUsers []string  `json:"invited_users"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// CreateTodoRequest is used for creating a new todo
type CreateTodoRequest struct {
	Title        string   `json:"title" binding:"required"`
	InvitedUsers []string `json:"invited_users" binding:"omitempty,dive,uuid"`
}

// UpdateTodoRequest allows partial updates via pointer fields
type UpdateTodoRequest struct {
	Title        *string   `json:"title,omitempty"`
	Completed    *bool     `json:"completed,omitempty"`
	InvitedUsers *[]string `json:"invited_users,omitempty" binding:"omitempty,dive,uuid"`
}
