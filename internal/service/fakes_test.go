package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"wellsync/internal/model"
)

// fakeUserRepo is an in-memory UserRepository for service tests
type fakeUserRepo struct {
	users       map[string]*model.User // by ID
	createCalls int
}

func newFakeUserRepo(users ...*model.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[string]*model.User)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) Create(_ context.Context, user *model.User) error {
	r.createCalls++
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) FindByPhone(_ context.Context, phone string) (*model.User, error) {
	for _, u := range r.users {
		if u.Phone == phone {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id string) (*model.User, error) {
	return r.users[id], nil
}

func (r *fakeUserRepo) MarkVerified(_ context.Context, id string) error {
	u, ok := r.users[id]
	if !ok {
		return errors.New("no such user")
	}
	u.IsVerified = true
	return nil
}

func (r *fakeUserRepo) UpdatePassword(_ context.Context, id, passwordHash string) error {
	u, ok := r.users[id]
	if !ok {
		return errors.New("no such user")
	}
	u.PasswordHash = passwordHash
	return nil
}

func (r *fakeUserRepo) UpdateLocation(_ context.Context, id string, latitude, longitude float64, street string) error {
	u, ok := r.users[id]
	if !ok {
		return errors.New("no such user")
	}
	u.Latitude = &latitude
	u.Longitude = &longitude
	u.Street = &street
	return nil
}

// fakeOTPRepo is an in-memory OTPRepository for service tests
type fakeOTPRepo struct {
	records []*model.OTP
}

func (r *fakeOTPRepo) CreateIfCooldownElapsed(_ context.Context, otp *model.OTP, threshold time.Time) (bool, error) {
	for _, rec := range r.records {
		if rec.UserID == otp.UserID && rec.CreatedAt.After(threshold) {
			return false, nil
		}
	}
	r.records = append(r.records, otp)
	return true, nil
}

func (r *fakeOTPRepo) FindLatestByUser(_ context.Context, userID string) (*model.OTP, error) {
	var own []*model.OTP
	for _, rec := range r.records {
		if rec.UserID == userID {
			own = append(own, rec)
		}
	}
	if len(own) == 0 {
		return nil, nil
	}
	sort.Slice(own, func(i, j int) bool { return own[i].CreatedAt.After(own[j].CreatedAt) })
	latest := *own[0]
	return &latest, nil
}

func (r *fakeOTPRepo) UpdateStatus(_ context.Context, id, status string) error {
	for _, rec := range r.records {
		if rec.ID == id {
			rec.Status = status
			return nil
		}
	}
	return errors.New("no such otp")
}

func (r *fakeOTPRepo) statusOf(id string) string {
	for _, rec := range r.records {
		if rec.ID == id {
			return rec.Status
		}
	}
	return ""
}

// fakeRBACRepo is an in-memory RBACRepository for service tests
type fakeRBACRepo struct {
	roles    map[string][]model.Role // by user ID
	grants   map[string]bool         // "userID/resource/action"
	assigned []string                // "userID/roleName"
}

func newFakeRBACRepo() *fakeRBACRepo {
	return &fakeRBACRepo{roles: make(map[string][]model.Role), grants: make(map[string]bool)}
}

func (r *fakeRBACRepo) GetUserRoles(_ context.Context, userID string) ([]model.Role, error) {
	return r.roles[userID], nil
}

func (r *fakeRBACRepo) HasUnconditionalGrant(_ context.Context, userID, resource, action string) (bool, error) {
	return r.grants[userID+"/"+resource+"/"+action], nil
}

func (r *fakeRBACRepo) AssignRoleByName(_ context.Context, userID, roleName string) error {
	r.assigned = append(r.assigned, userID+"/"+roleName)
	r.roles[userID] = append(r.roles[userID], model.Role{ID: roleName, Name: roleName})
	return nil
}

func (r *fakeRBACRepo) GetRolePermissions(_ context.Context, _ string) ([]model.RolePermission, error) {
	return nil, nil
}

func (r *fakeRBACRepo) AssignPermissionToRole(_ context.Context, _, _ string, _ bool) error {
	return nil
}

func (r *fakeRBACRepo) SeedDefaults(_ context.Context) error {
	return nil
}

// fakeSender returns a fixed code or a fixed error
type fakeSender struct {
	code  string
	err   error
	calls int
}

func (s *fakeSender) Send(_ context.Context, _ string) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return s.code, nil
}
