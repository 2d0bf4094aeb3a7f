package model

import "time"

// Comment is a short text posted by a user
type Comment struct {
	ID        string    `json:"id"`
	AuthorID  string    `json:"author_id"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateCommentRequest is used for posting a new comment
type CreateCommentRequest struct {
	Body string `json:"body" binding:"required"`
}

// UpdateCommentRequest replaces a comment's body
type UpdateCommentRequest struct {
	Body string `json:"body" binding:"required"`
}
