package repository

import (
	"context"
	"errors"
	"fmt"

	"wellsync/internal/model"

	"github.com/jackc/pgx/v5"
)

// TodoRepository defines operations for todo data
type TodoRepository interface {
	Create(ctx context.Context, todo *model.Todo) error
	FindByID(ctx context.Context, id string) (*model.Todo, error)
	FindByUser(ctx context.Context, userID string) ([]model.Todo, error)
	Update(ctx context.Context, todo *model.Todo) error
	Delete(ctx context.Context, id string) error
}

type todoRepository struct {
	db DB
}

// NewTodoRepository creates a new TodoRepository
func NewTodoRepository(db DB) TodoRepository {
	return &todoRepository{db: db}
}

// Create inserts a new todo into the database
func (r *todoRepository) Create(ctx context.Context, t *model.Todo) error {
	sql := `INSERT INTO todos (id, user_id, title, completed, invited_users, created_at, updated_at)
            VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.db.Exec(ctx, sql, t.ID, t.UserID, t.Title, t.Completed, t.InvitedUsers, t.CreatedAt, t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create todo: %w", err)
	}
	return nil
}

// FindByID retrieves a todo by its ID
func (r *todoRepository) FindByID(ctx context.Context, id string) (*model.Todo, error) {
	t := &model.Todo{}
	sql := `SELECT id, user_id, title, completed, invited_users, created_at, updated_at
            FROM todos WHERE id = $1`
	err := r.db.QueryRow(ctx, sql, id).Scan(
		&t.ID, &t.UserID, &t.Title, &t.Completed, &t.InvitedUsers, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("failed to find todo by ID: %w", err)
	}
	return t, nil
}

// FindByUser retrieves todos owned by or shared with a user
func (r *todoRepository) FindByUser(ctx context.Context, userID string) ([]model.Todo, error) {
	sql := `SELECT id, user_id, title, completed, invited_users, created_at, updated_at
            FROM todos WHERE user_id = $1 OR $1 = ANY(invited_users)
            ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, sql, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query todos by user: %w", err)
	}
	defer rows.Close()

	var todos []model.Todo
	for rows.Next() {
		var t model.Todo
		if err := rows.Scan(&t.ID, &t.UserID, &t.Title, &t.Completed, &t.InvitedUsers, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan todo row: %w", err)
		}
		todos = append(todos, t)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating todo rows: %w", err)
	}
	return todos, nil
}

// Update modifies an existing todo
func (r *todoRepository) Update(ctx context.Context, t *model.Todo) error {
	sql := `UPDATE todos SET title = $2, completed = $3, invited_users = $4, updated_at = NOW()
            WHERE id = $1`
	if _, err := r.db.Exec(ctx, sql, t.ID, t.Title, t.Completed, t.InvitedUsers); err != nil {
		return fmt.Errorf("failed to update todo: %w", err)
	}
	return nil
}

// Delete removes a todo
func (r *todoRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM todos WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete todo: %w", err)
	}
	return nil
}
