package handler

import (
	"errors"
	"net/http"

	"wellsync/internal/middleware"
	"wellsync/internal/model"
	"wellsync/internal/service"

	"github.com/gin-gonic/gin"
)

// OTPHandler handles OTP issuance and verification for both the signup
// verification flow and the password reset flow
type OTPHandler struct {
	service service.OTPService
}

// NewOTPHandler creates a new OTPHandler
func NewOTPHandler(s service.OTPService) *OTPHandler {
	return &OTPHandler{service: s}
}

// otpError maps OTP lifecycle failures onto response outcomes
func otpError(c *gin.Context, err error) {
	var cooldownErr *service.OTPCooldownError
	switch {
	case errors.As(err, &cooldownErr):
		c.JSON(http.StatusTooManyRequests, gin.H{"error": cooldownErr.Error()})
	case errors.Is(err, service.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Phone number not found"})
	case errors.Is(err, service.ErrOTPNotFound):
		c.JSON(http.StatusBadRequest, gin.H{"error": "OTP not found"})
	case errors.Is(err, service.ErrOTPExpired):
		c.JSON(http.StatusBadRequest, gin.H{"error": "OTP has expired"})
	case errors.Is(err, service.ErrOTPInvalid):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid OTP"})
	case errors.Is(err, service.ErrOTPDelivery):
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to send OTP"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// RequestOTP issues a signup verification code for the unverified caller
func (h *OTPHandler) RequestOTP(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.service.RequestVerification(c.Request.Context(), user); err != nil {
		otpError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "OTP has been sent."})
}

// VerifyOTP checks the supplied code and marks the caller's phone verified
func (h *OTPHandler) VerifyOTP(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req model.VerifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	if err := h.service.VerifySignup(c.Request.Context(), user, req.OTP); err != nil {
		otpError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "OTP verified successfully", "is_verified": true})
}

// RequestResetOTP issues a password reset code for the given phone
func (h *OTPHandler) RequestResetOTP(c *gin.Context) {
	var req model.RequestResetOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	if err := h.service.RequestReset(c.Request.Context(), req.Phone); err != nil {
		otpError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "OTP has been sent if the phone number is registered."})
}

// VerifyResetOTP exchanges a valid reset code for a short-lived reset token
func (h *OTPHandler) VerifyResetOTP(c *gin.Context) {
	var req model.VerifyResetOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	resetToken, err := h.service.VerifyReset(c.Request.Context(), req.Phone, req.OTP)
	if err != nil {
		otpError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"resetToken": resetToken})
}
