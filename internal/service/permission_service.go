package service

import (
	"context"
	"fmt"

	"wellsync/internal/model"
	"wellsync/internal/repository"
)

// PermissionService resolves whether a user may perform an action on a
// resource. Two strategies are combined with a logical OR: the in-memory
// rule table carries the conditional, data-dependent semantics per role,
// while relational role_permissions rows express unconditional grants
// (is_always_allowed). A single permissive role is sufficient. Denial is a
// normal false, never an error; unknown users and roles fail closed.
type PermissionService interface {
	Evaluate(ctx context.Context, user *model.User, resource, action string, data any) (bool, error)
	GetRolePermissions(ctx context.Context, roleID string) ([]model.RolePermission, error)
	AssignPermissionToRole(ctx context.Context, roleID, permissionID string) error
	InitializeDefaults(ctx context.Context) error
}

type permissionService struct {
	rbacRepo repository.RBACRepository
	rules    RuleSet
}

// NewPermissionService creates a new PermissionService backed by the given
// rule table
func NewPermissionService(rbacRepo repository.RBACRepository, rules RuleSet) PermissionService {
	return &permissionService{rbacRepo: rbacRepo, rules: rules}
}

// Evaluate checks (resource, action) for the user. data is the loaded
// resource instance; it must be nil for create actions and non-nil for
// predicate-gated actions on existing resources.
func (s *permissionService) Evaluate(ctx context.Context, user *model.User, resource, action string, data any) (bool, error) {
	if user == nil {
		return false, nil
	}

	roles, err := s.rbacRepo.GetUserRoles(ctx, user.ID)
	if err != nil {
		return false, fmt.Errorf("failed to load user roles: %w", err)
	}

	for _, role := range roles {
		if s.rules.grants(role.Name, resource, action, user, data) {
			return true, nil
		}
	}

	granted, err := s.rbacRepo.HasUnconditionalGrant(ctx, user.ID, resource, action)
	if err != nil {
		return false, fmt.Errorf("failed to check relational grant: %w", err)
	}
	return granted, nil
}

// GetRolePermissions lists a role's relational grants
func (s *permissionService) GetRolePermissions(ctx context.Context, roleID string) ([]model.RolePermission, error) {
	return s.rbacRepo.GetRolePermissions(ctx, roleID)
}

// AssignPermissionToRole adds an unconditional relational grant
func (s *permissionService) AssignPermissionToRole(ctx context.Context, roleID, permissionID string) error {
	return s.rbacRepo.AssignPermissionToRole(ctx, roleID, permissionID, true)
}

// InitializeDefaults seeds the default roles and permissions
func (s *permissionService) InitializeDefaults(ctx context.Context) error {
	return s.rbacRepo.SeedDefaults(ctx)
}
