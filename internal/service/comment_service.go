package service

import (
	"context"
	"fmt"
	"time"

	"wellsync/internal/model"
	"wellsync/internal/repository"

	"github.com/google/uuid"
)

// CommentService defines operations for comments. Authorization happens
// upstream in the permission middleware.
type CommentService interface {
	Create(ctx context.Context, authorID string, req model.CreateCommentRequest) (*model.Comment, error)
	List(ctx context.Context) ([]model.Comment, error)
	Update(ctx context.Context, comment *model.Comment, req model.UpdateCommentRequest) (*model.Comment, error)
}

type commentService struct {
	repo repository.CommentRepository
}

// NewCommentService creates a new CommentService
func NewCommentService(repo repository.CommentRepository) CommentService {
	return &commentService{repo: repo}
}

func (s *commentService) Create(ctx context.Context, authorID string, req model.CreateCommentRequest) (*model.Comment, error) {
	comment := &model.Comment{
		ID:        uuid.NewString(),
		AuthorID:  authorID,
		Body:      req.Body,
		CreatedAt: time.Now(),
	}
	if err := s.repo.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("failed to create comment in repo: %w", err)
	}
	return comment, nil
}

func (s *commentService) List(ctx context.Context) ([]model.Comment, error) {
	comments, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments from repo: %w", err)
	}
	return comments, nil
}

func (s *commentService) Update(ctx context.Context, comment *model.Comment, req model.UpdateCommentRequest) (*model.Comment, error) {
	comment.Body = req.Body
	if err := s.repo.Update(ctx, comment); err != nil {
		return nil, fmt.Errorf("failed to update comment in repo: %w", err)
	}
	return comment, nil
}
