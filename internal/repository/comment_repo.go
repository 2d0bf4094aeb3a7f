package repository

import (
	"context"
	"errors"
	"fmt"

	"wellsync/internal/model"

	"github.com/jackc/pgx/v5"
)

// CommentRepository defines operations for comment data
type CommentRepository interface {
	Create(ctx context.Context, comment *model.Comment) error
	FindByID(ctx context.Context, id string) (*model.Comment, error)
	FindAll(ctx context.Context) ([]model.Comment, error)
	Update(ctx context.Context, comment *model.Comment) error
}

type commentRepository struct {
	db DB
}

// NewCommentRepository creates a new CommentRepository
func NewCommentRepository(db DB) CommentRepository {
	return &commentRepository{db: db}
}

// Create inserts a new comment into the database
func (r *commentRepository) Create(ctx context.Context, c *model.Comment) error {
	sql := `INSERT INTO comments (id, author_id, body, created_at) VALUES ($1, $2, $3, $4)`
	if _, err := r.db.Exec(ctx, sql, c.ID, c.AuthorID, c.Body, c.CreatedAt); err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}
	return nil
}

// FindByID retrieves a comment by its ID
func (r *commentRepository) FindByID(ctx context.Context, id string) (*model.Comment, error) {
	c := &model.Comment{}
	sql := `SELECT id, author_id, body, created_at FROM comments WHERE id = $1`
	err := r.db.QueryRow(ctx, sql, id).Scan(&c.ID, &c.AuthorID, &c.Body, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("failed to find comment by ID: %w", err)
	}
	return c, nil
}

// FindAll retrieves all comments, newest first
func (r *commentRepository) FindAll(ctx context.Context) ([]model.Comment, error) {
	sql := `SELECT id, author_id, body, created_at FROM comments ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("failed to query comments: %w", err)
	}
	defer rows.Close()

	var comments []model.Comment
	for rows.Next() {
		var c model.Comment
		if err := rows.Scan(&c.ID, &c.AuthorID, &c.Body, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan comment row: %w", err)
		}
		comments = append(comments, c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating comment rows: %w", err)
	}
	return comments, nil
}

// Update replaces a comment's body
func (r *commentRepository) Update(ctx context.Context, c *model.Comment) error {
	sql := `UPDATE comments SET body = $2 WHERE id = $1`
	if _, err := r.db.Exec(ctx, sql, c.ID, c.Body); err != nil {
		return fmt.Errorf("failed to update comment: %w", err)
	}
	return nil
}
