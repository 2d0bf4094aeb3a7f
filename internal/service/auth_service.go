package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"wellsync/internal/model"
	"wellsync/internal/repository"
	"wellsync/internal/utils"

	"github.com/google/uuid"
)

var (
	ErrUserAlreadyExists  = errors.New("user with this phone number already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid phone number or password")
	ErrInvalidResetToken  = errors.New("invalid or expired reset token")
)

// SignupTokenTTL is the lifetime of the token handed out on signup and login
const SignupTokenTTL = 365 * 24 * time.Hour

// AuthService provides authentication related services
type AuthService interface {
	Signup(ctx context.Context, req model.SignupRequest) (*model.User, string, error)
	Login(ctx context.Context, phone, password string) (*model.User, string, error)
	ResetPassword(ctx context.Context, resetToken, newPassword string) error
	UpdateLocation(ctx context.Context, userID string, req model.UpdateLocationRequest) error
}

type authService struct {
	userRepo repository.UserRepository
	rbacRepo repository.RBACRepository
	jwtUtil  *utils.JWTUtil
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo repository.UserRepository, rbacRepo repository.RBACRepository, jwtUtil *utils.JWTUtil) AuthService {
	return &authService{
		userRepo: userRepo,
		rbacRepo: rbacRepo,
		jwtUtil:  jwtUtil,
	}
}

// Signup creates a new unverified user account and returns a bearer token
func (s *authService) Signup(ctx context.Context, req model.SignupRequest) (*model.User, string, error) {
	existingUser, err := s.userRepo.FindByPhone(ctx, req.Phone)
	if err != nil {
		return nil, "", fmt.Errorf("failed to check existing user: %w", err)
	}
	if existingUser != nil {
		return nil, "", ErrUserAlreadyExists
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := &model.User{
		ID:           uuid.NewString(),
		Phone:        req.Phone,
		PasswordHash: hashedPassword,
		Name:         req.Name,
		Type:         req.Type,
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,
		BlockedBy:    []string{},
		IsVerified:   false,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, "", fmt.Errorf("failed to create user in repository: %w", err)
	}

	// New accounts start with the base role; further roles are assigned out of band
	if err := s.rbacRepo.AssignRoleByName(ctx, user.ID, model.RoleUser); err != nil {
		return nil, "", fmt.Errorf("failed to assign default role: %w", err)
	}

	token, err := s.jwtUtil.GenerateTokenWithTTL(user.ID, user.Phone, SignupTokenTTL)
	if err != nil {
		return nil, "", fmt.Errorf("user created, but failed to generate token: %w", err)
	}

	return user, token, nil
}

// Login authenticates a user and returns a JWT token
func (s *authService) Login(ctx context.Context, phone, password string) (*model.User, string, error) {
	user, err := s.userRepo.FindByPhone(ctx, phone)
	if err != nil {
		return nil, "", fmt.Errorf("error finding user by phone: %w", err)
	}
	if user == nil {
		return nil, "", ErrInvalidCredentials // User not found
	}

	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		return nil, "", ErrInvalidCredentials // Password mismatch
	}

	token, err := s.jwtUtil.GenerateTokenWithTTL(user.ID, user.Phone, SignupTokenTTL)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	return user, token, nil
}

// ResetPassword completes the reset flow: the token comes from a successful
// reset OTP verification and is only valid for a few minutes.
func (s *authService) ResetPassword(ctx context.Context, resetToken, newPassword string) error {
	claims, err := s.jwtUtil.ValidateToken(resetToken)
	if err != nil {
		return ErrInvalidResetToken
	}

	hashedPassword, err := utils.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.userRepo.UpdatePassword(ctx, claims.UserID, hashedPassword); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}

// UpdateLocation stores the user's coordinates and street
func (s *authService) UpdateLocation(ctx context.Context, userID string, req model.UpdateLocationRequest) error {
	if err := s.userRepo.UpdateLocation(ctx, userID, req.Latitude, req.Longitude, req.Street); err != nil {
		return fmt.Errorf("failed to update location: %w", err)
	}
	return nil
}
