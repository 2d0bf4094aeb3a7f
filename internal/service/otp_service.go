package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"wellsync/internal/model"
	"wellsync/internal/provider"
	"wellsync/internal/repository"
	"wellsync/internal/utils"

	"github.com/google/uuid"
)

var (
	ErrOTPNotFound = errors.New("OTP not found")
	ErrOTPExpired  = errors.New("OTP has expired")
	ErrOTPInvalid  = errors.New("invalid OTP")
	ErrOTPDelivery = errors.New("failed to deliver OTP")
)

// OTPCooldownError is returned when a new code is requested before the
// resend cooldown has elapsed
type OTPCooldownError struct {
	WaitSeconds int
}

func (e *OTPCooldownError) Error() string {
	return fmt.Sprintf("please wait %d seconds before requesting a new OTP", e.WaitSeconds)
}

// OTPConfig holds the lifecycle parameters
type OTPConfig struct {
	CodeLength     int
	Expiry         time.Duration
	ResendCooldown time.Duration
	ResetTokenTTL  time.Duration
}

// DefaultOTPConfig returns the standard lifecycle parameters
func DefaultOTPConfig() OTPConfig {
	return OTPConfig{
		CodeLength:     6,
		Expiry:         5 * time.Minute,
		ResendCooldown: 2 * time.Minute,
		ResetTokenTTL:  5 * time.Minute,
	}
}

// OTPService manages the one-time code lifecycle for phone verification and
// password reset. Codes are append-only records: issuing a new code
// supersedes older ones, and only the most recent record is ever eligible
// for verification.
type OTPService interface {
	RequestVerification(ctx context.Context, user *model.User) error
	VerifySignup(ctx context.Context, user *model.User, code string) error
	RequestReset(ctx context.Context, phone string) error
	VerifyReset(ctx context.Context, phone, code string) (string, error)
}

type otpService struct {
	otpRepo  repository.OTPRepository
	userRepo repository.UserRepository
	sender   provider.OTPSender
	jwtUtil  *utils.JWTUtil
	cfg      OTPConfig
	now      func() time.Time
}

// NewOTPService creates a new OTPService
func NewOTPService(otpRepo repository.OTPRepository, userRepo repository.UserRepository, sender provider.OTPSender, jwtUtil *utils.JWTUtil, cfg OTPConfig) OTPService {
	return &otpService{
		otpRepo:  otpRepo,
		userRepo: userRepo,
		sender:   sender,
		jwtUtil:  jwtUtil,
		cfg:      cfg,
		now:      time.Now,
	}
}

// issue obtains a code from the delivery provider and persists a new record,
// unless the latest record is still inside the resend cooldown.
func (s *otpService) issue(ctx context.Context, userID, phone string) error {
	now := s.now()

	latest, err := s.otpRepo.FindLatestByUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to load latest otp: %w", err)
	}
	if latest != nil {
		if cooldownErr := s.cooldownError(latest, now); cooldownErr != nil {
			return cooldownErr
		}
	}

	code, err := s.sender.Send(ctx, phone)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrOTPDelivery, err)
	}

	otp := &model.OTP{
		ID:        uuid.NewString(),
		UserID:    userID,
		Code:      code,
		Status:    model.OTPStatusIssued,
		CreatedAt: now,
	}
	// The insert re-checks the cooldown atomically so two concurrent
	// requests cannot both create a record.
	inserted, err := s.otpRepo.CreateIfCooldownElapsed(ctx, otp, now.Add(-s.cfg.ResendCooldown))
	if err != nil {
		return fmt.Errorf("failed to store otp: %w", err)
	}
	if !inserted {
		latest, err := s.otpRepo.FindLatestByUser(ctx, userID)
		if err != nil {
			return fmt.Errorf("failed to load latest otp: %w", err)
		}
		if latest != nil {
			if cooldownErr := s.cooldownError(latest, s.now()); cooldownErr != nil {
				return cooldownErr
			}
		}
		return &OTPCooldownError{WaitSeconds: 1}
	}
	return nil
}

// cooldownError returns the remaining wait, ceiling-rounded to seconds, or
// nil when the cooldown has elapsed
func (s *otpService) cooldownError(latest *model.OTP, now time.Time) *OTPCooldownError {
	elapsed := now.Sub(latest.CreatedAt)
	if elapsed >= s.cfg.ResendCooldown {
		return nil
	}
	remaining := s.cfg.ResendCooldown - elapsed
	wait := int((remaining + time.Second - 1) / time.Second)
	return &OTPCooldownError{WaitSeconds: wait}
}

// verify checks the supplied code against the user's most recent record and
// closes the record out. Expired codes are consumed: the record is marked
// expired so the same code cannot be retried later. A mismatch leaves the
// record open for retry until expiry.
func (s *otpService) verify(ctx context.Context, userID, code string) (*model.OTP, error) {
	latest, err := s.otpRepo.FindLatestByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load latest otp: %w", err)
	}
	if latest == nil || latest.Status != model.OTPStatusIssued {
		return nil, ErrOTPNotFound
	}

	if s.now().Sub(latest.CreatedAt) > s.cfg.Expiry {
		if err := s.otpRepo.UpdateStatus(ctx, latest.ID, model.OTPStatusExpired); err != nil {
			return nil, fmt.Errorf("failed to expire otp: %w", err)
		}
		return nil, ErrOTPExpired
	}

	if latest.Code != code {
		return nil, ErrOTPInvalid
	}

	if err := s.otpRepo.UpdateStatus(ctx, latest.ID, model.OTPStatusVerified); err != nil {
		return nil, fmt.Errorf("failed to mark otp verified: %w", err)
	}
	latest.Status = model.OTPStatusVerified
	return latest, nil
}

// RequestVerification issues a signup verification code for an unverified user
func (s *otpService) RequestVerification(ctx context.Context, user *model.User) error {
	return s.issue(ctx, user.ID, user.Phone)
}

// VerifySignup verifies a signup code and marks the user verified on success
func (s *otpService) VerifySignup(ctx context.Context, user *model.User, code string) error {
	if _, err := s.verify(ctx, user.ID, code); err != nil {
		return err
	}
	if err := s.userRepo.MarkVerified(ctx, user.ID); err != nil {
		return fmt.Errorf("failed to mark user verified: %w", err)
	}
	return nil
}

// RequestReset issues a password reset code for the user owning the phone
func (s *otpService) RequestReset(ctx context.Context, phone string) error {
	user, err := s.userRepo.FindByPhone(ctx, phone)
	if err != nil {
		return fmt.Errorf("failed to find user by phone: %w", err)
	}
	if user == nil {
		return ErrUserNotFound
	}
	return s.issue(ctx, user.ID, user.Phone)
}

// VerifyReset verifies a reset code and returns a short-lived reset token
// bound to the user
func (s *otpService) VerifyReset(ctx context.Context, phone, code string) (string, error) {
	user, err := s.userRepo.FindByPhone(ctx, phone)
	if err != nil {
		return "", fmt.Errorf("failed to find user by phone: %w", err)
	}
	if user == nil {
		return "", ErrUserNotFound
	}

	if _, err := s.verify(ctx, user.ID, code); err != nil {
		return "", err
	}

	resetToken, err := s.jwtUtil.GenerateTokenWithTTL(user.ID, user.Phone, s.cfg.ResetTokenTTL)
	if err != nil {
		return "", fmt.Errorf("failed to generate reset token: %w", err)
	}
	return resetToken, nil
}
