package service

import (
	"context"
	"testing"
	"time"

	"wellsync/internal/model"
	"wellsync/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAuthService(userRepo *fakeUserRepo, rbacRepo *fakeRBACRepo) AuthService {
	return NewAuthService(userRepo, rbacRepo, utils.NewJWTUtil("secret", 24))
}

func signupReq() model.SignupRequest {
	return model.SignupRequest{
		Phone:    "1234567890",
		Password: "secret1",
		Name:     "Test User",
		Type:     "1",
	}
}

func TestAuthService_Signup(t *testing.T) {
	userRepo := newFakeUserRepo()
	rbacRepo := newFakeRBACRepo()
	svc := newTestAuthService(userRepo, rbacRepo)

	user, token, err := svc.Signup(context.Background(), signupReq())

	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.False(t, user.IsVerified, "new accounts start unverified")
	assert.NotEqual(t, "secret1", user.PasswordHash)
	assert.True(t, utils.CheckPasswordHash("secret1", user.PasswordHash))
	assert.Contains(t, rbacRepo.assigned, user.ID+"/"+model.RoleUser)

	claims, err := utils.NewJWTUtil("secret", 24).ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.Subject)
	assert.WithinDuration(t, time.Now().Add(SignupTokenTTL), claims.ExpiresAt.Time, 5*time.Second)
}

func TestAuthService_Signup_DuplicatePhone(t *testing.T) {
	userRepo := newFakeUserRepo(&model.User{ID: "existing", Phone: "1234567890"})
	svc := newTestAuthService(userRepo, newFakeRBACRepo())

	_, _, err := svc.Signup(context.Background(), signupReq())

	assert.ErrorIs(t, err, ErrUserAlreadyExists)
	assert.Equal(t, 0, userRepo.createCalls, "no row may be created on conflict")
}

func TestAuthService_Login(t *testing.T) {
	hash, _ := utils.HashPassword("secret1")
	user := &model.User{ID: "user-1", Phone: "1234567890", PasswordHash: hash}
	svc := newTestAuthService(newFakeUserRepo(user), newFakeRBACRepo())

	loggedIn, token, err := svc.Login(context.Background(), "1234567890", "secret1")

	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)

	claims, err := utils.NewJWTUtil("secret", 24).ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	hash, _ := utils.HashPassword("secret1")
	user := &model.User{ID: "user-1", Phone: "1234567890", PasswordHash: hash}
	svc := newTestAuthService(newFakeUserRepo(user), newFakeRBACRepo())

	_, _, err := svc.Login(context.Background(), "1234567890", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_Login_UnknownPhone(t *testing.T) {
	svc := newTestAuthService(newFakeUserRepo(), newFakeRBACRepo())

	_, _, err := svc.Login(context.Background(), "0000000000", "secret1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_ResetPassword(t *testing.T) {
	hash, _ := utils.HashPassword("oldpassword")
	user := &model.User{ID: "user-1", Phone: "1234567890", PasswordHash: hash}
	userRepo := newFakeUserRepo(user)
	jwtUtil := utils.NewJWTUtil("secret", 24)
	svc := NewAuthService(userRepo, newFakeRBACRepo(), jwtUtil)

	resetToken, err := jwtUtil.GenerateTokenWithTTL(user.ID, user.Phone, 5*time.Minute)
	require.NoError(t, err)

	err = svc.ResetPassword(context.Background(), resetToken, "newpassword")

	require.NoError(t, err)
	assert.True(t, utils.CheckPasswordHash("newpassword", userRepo.users[user.ID].PasswordHash))
}

func TestAuthService_ResetPassword_ExpiredToken(t *testing.T) {
	jwtUtil := utils.NewJWTUtil("secret", 24)
	userRepo := newFakeUserRepo(&model.User{ID: "user-1", Phone: "1234567890"})
	svc := NewAuthService(userRepo, newFakeRBACRepo(), jwtUtil)

	expired, err := jwtUtil.GenerateTokenWithTTL("user-1", "1234567890", -time.Minute)
	require.NoError(t, err)

	err = svc.ResetPassword(context.Background(), expired, "newpassword")
	assert.ErrorIs(t, err, ErrInvalidResetToken)
}

func TestAuthService_UpdateLocation(t *testing.T) {
	user := &model.User{ID: "user-1", Phone: "1234567890"}
	userRepo := newFakeUserRepo(user)
	svc := newTestAuthService(userRepo, newFakeRBACRepo())

	err := svc.UpdateLocation(context.Background(), user.ID, model.UpdateLocationRequest{
		Latitude:  41.3111,
		Longitude: 69.2797,
		Street:    "Amir Temur Avenue",
	})

	require.NoError(t, err)
	require.NotNil(t, userRepo.users[user.ID].Latitude)
	assert.Equal(t, 41.3111, *userRepo.users[user.ID].Latitude)
	assert.Equal(t, "Amir Temur Avenue", *userRepo.users[user.ID].Street)
}

func TestAuthService_ResetPassword_MalformedToken(t *testing.T) {
	svc := newTestAuthService(newFakeUserRepo(), newFakeRBACRepo())

	err := svc.ResetPassword(context.Background(), "not.a.token", "newpassword")
	assert.ErrorIs(t, err, ErrInvalidResetToken)
}
