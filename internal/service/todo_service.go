package service

import (
	"context"
	"fmt"
	"time"

	"wellsync/internal/model"
	"wellsync/internal/repository"

	"github.com/google/uuid"
)

// TodoService defines operations for todos. Authorization happens upstream
// in the permission middleware; these methods only mutate state.
type TodoService interface {
	Create(ctx context.Context, userID string, req model.CreateTodoRequest) (*model.Todo, error)
	ListForUser(ctx context.Context, userID string) ([]model.Todo, error)
	Update(ctx context.Context, todo *model.Todo, req model.UpdateTodoRequest) (*model.Todo, error)
	Delete(ctx context.Context, id string) error
}

type todoService struct {
	repo repository.TodoRepository
}

// NewTodoService creates a new TodoService
func NewTodoService(repo repository.TodoRepository) TodoService {
	return &todoService{repo: repo}
}

func (s *todoService) Create(ctx context.Context, userID string, req model.CreateTodoRequest) (*model.Todo, error) {
	now := time.Now()
	invited := req.InvitedUsers
	if invited == nil {
		invited = []string{}
	}
	todo := &model.Todo{
		ID:           uuid.NewString(),
		UserID:       userID,
		Title:        req.Title,
		Completed:    false,
		InvitedUsers: invited,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, todo); err != nil {
		return nil, fmt.Errorf("failed to create todo in repo: %w", err)
	}
	return todo, nil
}

func (s *todoService) ListForUser(ctx context.Context, userID string) ([]model.Todo, error) {
	todos, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list todos from repo: %w", err)
	}
	return todos, nil
}

func (s *todoService) Update(ctx context.Context, todo *model.Todo, req model.UpdateTodoRequest) (*model.Todo, error) {
	if req.Title != nil {
		todo.Title = *req.Title
	}
	if req.Completed != nil {
		todo.Completed = *req.Completed
	}
	if req.InvitedUsers != nil {
		todo.InvitedUsers = *req.InvitedUsers
	}
	todo.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, todo); err != nil {
		return nil, fmt.Errorf("failed to update todo in repo: %w", err)
	}
	return todo, nil
}

func (s *todoService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete todo in repo: %w", err)
	}
	return nil
}
