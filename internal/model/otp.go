package model

import "time"

const (
	OTPStatusIssued   = "issued"
	OTPStatusVerified = "verified"
	OTPStatusExpired  = "expired"
)

// OTP represents a one-time code issued to a user. Records are append-only:
// a newer record supersedes older ones, which stay in place as an audit trail.
type OTP struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Code      string    `json:"-"` // Never expose the code in JSON responses
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// VerifyOTPRequest carries the code supplied by the client
type VerifyOTPRequest struct {
	OTP string `json:"otp" binding:"required,len=6,numeric"`
}

// RequestResetOTPRequest starts the password reset flow
type RequestResetOTPRequest struct {
	Phone string `json:"phone" binding:"required,min=10"`
}

// VerifyResetOTPRequest exchanges a reset code for a short-lived reset token
type VerifyResetOTPRequest struct {
	Phone string `json:"phone" binding:"required,min=10"`
	OTP   string `json:"otp" binding:"required,len=6,numeric"`
}

// ResetPasswordRequest completes the password reset flow
type ResetPasswordRequest struct {
	ResetToken  string `json:"resetToken" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=6"`
}
