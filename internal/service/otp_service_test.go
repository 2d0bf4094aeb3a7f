package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"wellsync/internal/model"
	"wellsync/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOTPService(otpRepo *fakeOTPRepo, userRepo *fakeUserRepo, sender *fakeSender, now time.Time) *otpService {
	svc := NewOTPService(otpRepo, userRepo, sender, utils.NewJWTUtil("secret", 24), DefaultOTPConfig()).(*otpService)
	svc.now = func() time.Time { return now }
	return svc
}

func testUser(verified bool) *model.User {
	return &model.User{
		ID:         "5c8f5f59-2b2d-4c11-a7a3-0d3a1f6b2e77",
		Phone:      "1234567890",
		Name:       "Test User",
		IsVerified: verified,
	}
}

func TestOTPService_RequestVerification_CreatesRecord(t *testing.T) {
	otpRepo := &fakeOTPRepo{}
	userRepo := newFakeUserRepo(testUser(false))
	sender := &fakeSender{code: "123456"}
	now := time.Now()
	svc := newTestOTPService(otpRepo, userRepo, sender, now)

	err := svc.RequestVerification(context.Background(), testUser(false))

	assert.NoError(t, err)
	assert.Equal(t, 1, sender.calls)
	require.Len(t, otpRepo.records, 1)
	assert.Equal(t, "123456", otpRepo.records[0].Code)
	assert.Equal(t, model.OTPStatusIssued, otpRepo.records[0].Status)
	assert.Equal(t, now, otpRepo.records[0].CreatedAt)
}

func TestOTPService_RequestVerification_CooldownBlocks(t *testing.T) {
	user := testUser(false)
	now := time.Now()
	otpRepo := &fakeOTPRepo{records: []*model.OTP{{
		ID: "otp-1", UserID: user.ID, Code: "111111", Status: model.OTPStatusIssued,
		CreatedAt: now.Add(-30 * time.Second),
	}}}
	sender := &fakeSender{code: "222222"}
	svc := newTestOTPService(otpRepo, newFakeUserRepo(user), sender, now)

	err := svc.RequestVerification(context.Background(), user)

	var cooldownErr *OTPCooldownError
	require.ErrorAs(t, err, &cooldownErr)
	assert.Equal(t, 90, cooldownErr.WaitSeconds)
	assert.Equal(t, 0, sender.calls, "provider must not be called during cooldown")
	assert.Len(t, otpRepo.records, 1, "no second record may be written")
}

func TestOTPService_RequestVerification_CooldownWaitIsCeiled(t *testing.T) {
	user := testUser(false)
	now := time.Now()
	// 118.2s elapsed of a 120s cooldown leaves 1.8s, reported as 2
	otpRepo := &fakeOTPRepo{records: []*model.OTP{{
		ID: "otp-1", UserID: user.ID, Code: "111111", Status: model.OTPStatusIssued,
		CreatedAt: now.Add(-118200 * time.Millisecond),
	}}}
	svc := newTestOTPService(otpRepo, newFakeUserRepo(user), &fakeSender{code: "222222"}, now)

	err := svc.RequestVerification(context.Background(), user)

	var cooldownErr *OTPCooldownError
	require.ErrorAs(t, err, &cooldownErr)
	assert.Equal(t, 2, cooldownErr.WaitSeconds)
}

func TestOTPService_RequestVerification_AfterCooldownIssuesAgain(t *testing.T) {
	user := testUser(false)
	now := time.Now()
	otpRepo := &fakeOTPRepo{records: []*model.OTP{{
		ID: "otp-1", UserID: user.ID, Code: "111111", Status: model.OTPStatusIssued,
		CreatedAt: now.Add(-3 * time.Minute),
	}}}
	svc := newTestOTPService(otpRepo, newFakeUserRepo(user), &fakeSender{code: "222222"}, now)

	err := svc.RequestVerification(context.Background(), user)

	assert.NoError(t, err)
	assert.Len(t, otpRepo.records, 2)
}

func TestOTPService_RequestVerification_DeliveryFailure(t *testing.T) {
	user := testUser(false)
	otpRepo := &fakeOTPRepo{}
	sender := &fakeSender{err: errors.New("provider unreachable")}
	svc := newTestOTPService(otpRepo, newFakeUserRepo(user), sender, time.Now())

	err := svc.RequestVerification(context.Background(), user)

	assert.ErrorIs(t, err, ErrOTPDelivery)
	assert.Empty(t, otpRepo.records, "no record may be written when delivery fails")
}

func TestOTPService_VerifySignup_Success(t *testing.T) {
	user := testUser(false)
	now := time.Now()
	userRepo := newFakeUserRepo(user)
	otpRepo := &fakeOTPRepo{records: []*model.OTP{{
		ID: "otp-1", UserID: user.ID, Code: "123456", Status: model.OTPStatusIssued,
		CreatedAt: now.Add(-time.Minute),
	}}}
	svc := newTestOTPService(otpRepo, userRepo, &fakeSender{}, now)

	err := svc.VerifySignup(context.Background(), user, "123456")

	assert.NoError(t, err)
	assert.Equal(t, model.OTPStatusVerified, otpRepo.statusOf("otp-1"))
	assert.True(t, userRepo.users[user.ID].IsVerified)
}

func TestOTPService_VerifySignup_ExpiredConsumesCode(t *testing.T) {
	user := testUser(false)
	now := time.Now()
	userRepo := newFakeUserRepo(user)
	otpRepo := &fakeOTPRepo{records: []*model.OTP{{
		ID: "otp-1", UserID: user.ID, Code: "123456", Status: model.OTPStatusIssued,
		CreatedAt: now.Add(-6 * time.Minute),
	}}}
	svc := newTestOTPService(otpRepo, userRepo, &fakeSender{}, now)

	err := svc.VerifySignup(context.Background(), user, "123456")
	assert.ErrorIs(t, err, ErrOTPExpired)
	assert.Equal(t, model.OTPStatusExpired, otpRepo.statusOf("otp-1"))
	assert.False(t, userRepo.users[user.ID].IsVerified)

	// The code is consumed: a second attempt with the same code also fails
	err = svc.VerifySignup(context.Background(), user, "123456")
	assert.ErrorIs(t, err, ErrOTPNotFound)
}

func TestOTPService_VerifySignup_MismatchAllowsRetry(t *testing.T) {
	user := testUser(false)
	now := time.Now()
	userRepo := newFakeUserRepo(user)
	otpRepo := &fakeOTPRepo{records: []*model.OTP{{
		ID: "otp-1", UserID: user.ID, Code: "123456", Status: model.OTPStatusIssued,
		CreatedAt: now.Add(-time.Minute),
	}}}
	svc := newTestOTPService(otpRepo, userRepo, &fakeSender{}, now)

	err := svc.VerifySignup(context.Background(), user, "654321")
	assert.ErrorIs(t, err, ErrOTPInvalid)
	assert.Equal(t, model.OTPStatusIssued, otpRepo.statusOf("otp-1"), "mismatch must leave the record open")

	err = svc.VerifySignup(context.Background(), user, "123456")
	assert.NoError(t, err)
}

func TestOTPService_VerifySignup_OnlyLatestCodeCounts(t *testing.T) {
	user := testUser(false)
	now := time.Now()
	userRepo := newFakeUserRepo(user)
	otpRepo := &fakeOTPRepo{records: []*model.OTP{
		{ID: "otp-old", UserID: user.ID, Code: "111111", Status: model.OTPStatusIssued, CreatedAt: now.Add(-4 * time.Minute)},
		{ID: "otp-new", UserID: user.ID, Code: "222222", Status: model.OTPStatusIssued, CreatedAt: now.Add(-time.Minute)},
	}}
	svc := newTestOTPService(otpRepo, userRepo, &fakeSender{}, now)

	// The superseded code is rejected even though its record still exists
	err := svc.VerifySignup(context.Background(), user, "111111")
	assert.ErrorIs(t, err, ErrOTPInvalid)

	err = svc.VerifySignup(context.Background(), user, "222222")
	assert.NoError(t, err)
	assert.Equal(t, model.OTPStatusIssued, otpRepo.statusOf("otp-old"), "superseded records are never touched")
}

func TestOTPService_VerifySignup_NoRecord(t *testing.T) {
	user := testUser(false)
	svc := newTestOTPService(&fakeOTPRepo{}, newFakeUserRepo(user), &fakeSender{}, time.Now())

	err := svc.VerifySignup(context.Background(), user, "123456")
	assert.ErrorIs(t, err, ErrOTPNotFound)
}

func TestOTPService_RequestReset_UnknownPhone(t *testing.T) {
	svc := newTestOTPService(&fakeOTPRepo{}, newFakeUserRepo(), &fakeSender{code: "123456"}, time.Now())

	err := svc.RequestReset(context.Background(), "0000000000")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestOTPService_VerifyReset_IssuesShortLivedToken(t *testing.T) {
	user := testUser(true)
	now := time.Now()
	otpRepo := &fakeOTPRepo{records: []*model.OTP{{
		ID: "otp-1", UserID: user.ID, Code: "123456", Status: model.OTPStatusIssued,
		CreatedAt: now.Add(-time.Minute),
	}}}
	svc := newTestOTPService(otpRepo, newFakeUserRepo(user), &fakeSender{}, now)

	resetToken, err := svc.VerifyReset(context.Background(), user.Phone, "123456")

	require.NoError(t, err)
	assert.Equal(t, model.OTPStatusVerified, otpRepo.statusOf("otp-1"))

	claims, err := utils.NewJWTUtil("secret", 24).ValidateToken(resetToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.WithinDuration(t, time.Now().Add(5*time.Minute), claims.ExpiresAt.Time, 5*time.Second)
}

func TestOTPService_EndToEnd_SignupVerification(t *testing.T) {
	user := testUser(false)
	userRepo := newFakeUserRepo(user)
	otpRepo := &fakeOTPRepo{}
	sender := &fakeSender{code: "987654"}
	now := time.Now()
	svc := newTestOTPService(otpRepo, userRepo, sender, now)

	require.NoError(t, svc.RequestVerification(context.Background(), user))
	require.Len(t, otpRepo.records, 1)

	err := svc.VerifySignup(context.Background(), user, "987654")
	assert.NoError(t, err)
	assert.True(t, userRepo.users[user.ID].IsVerified)
	assert.Equal(t, model.OTPStatusVerified, otpRepo.records[0].Status)
}
