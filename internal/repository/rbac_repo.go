package repository

import (
	"context"
	"fmt"

	"wellsync/internal/model"

	"github.com/google/uuid"
)

// RBACRepository defines operations for roles, permissions and their links
type RBACRepository interface {
	GetUserRoles(ctx context.Context, userID string) ([]model.Role, error)
	// HasUnconditionalGrant reports whether any of the user's roles holds an
	// is_always_allowed permission row for (resource, action). Unknown users
	// simply have no grants.
	HasUnconditionalGrant(ctx context.Context, userID, resource, action string) (bool, error)
	AssignRoleByName(ctx context.Context, userID, roleName string) error
	GetRolePermissions(ctx context.Context, roleID string) ([]model.RolePermission, error)
	AssignPermissionToRole(ctx context.Context, roleID, permissionID string, isAlwaysAllowed bool) error
	SeedDefaults(ctx context.Context) error
}

type rbacRepository struct {
	db DB
}

// NewRBACRepository creates a new RBACRepository
func NewRBACRepository(db DB) RBACRepository {
	return &rbacRepository{db: db}
}

// GetUserRoles retrieves all roles assigned to a user
func (r *rbacRepository) GetUserRoles(ctx context.Context, userID string) ([]model.Role, error) {
	sql := `SELECT r.id, r.name, r.description FROM roles r
            JOIN user_roles ur ON ur.role_id = r.id
            WHERE ur.user_id = $1
            ORDER BY r.name`
	rows, err := r.db.Query(ctx, sql, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query user roles: %w", err)
	}
	defer rows.Close()

	var roles []model.Role
	for rows.Next() {
		var role model.Role
		if err := rows.Scan(&role.ID, &role.Name, &role.Description); err != nil {
			return nil, fmt.Errorf("failed to scan role row: %w", err)
		}
		roles = append(roles, role)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating role rows: %w", err)
	}
	return roles, nil
}

func (r *rbacRepository) HasUnconditionalGrant(ctx context.Context, userID, resource, action string) (bool, error) {
	sql := `SELECT EXISTS (
                SELECT 1 FROM user_roles ur
                JOIN role_permissions rp ON rp.role_id = ur.role_id
                JOIN permissions p ON p.id = rp.permission_id
                WHERE ur.user_id = $1 AND p.resource = $2 AND p.action = $3
                  AND rp.is_always_allowed
            )`
	var granted bool
	if err := r.db.QueryRow(ctx, sql, userID, resource, action).Scan(&granted); err != nil {
		return false, fmt.Errorf("failed to check permission grant: %w", err)
	}
	return granted, nil
}

// AssignRoleByName links a user to a role, ignoring duplicates
func (r *rbacRepository) AssignRoleByName(ctx context.Context, userID, roleName string) error {
	sql := `INSERT INTO user_roles (user_id, role_id)
            SELECT $1, id FROM roles WHERE name = $2
            ON CONFLICT DO NOTHING`
	if _, err := r.db.Exec(ctx, sql, userID, roleName); err != nil {
		return fmt.Errorf("failed to assign role %q: %w", roleName, err)
	}
	return nil
}

// GetRolePermissions lists a role's permission grants with the permission rows joined in
func (r *rbacRepository) GetRolePermissions(ctx context.Context, roleID string) ([]model.RolePermission, error) {
	sql := `SELECT rp.role_id, rp.permission_id, rp.is_always_allowed, p.id, p.resource, p.action
            FROM role_permissions rp
            JOIN permissions p ON p.id = rp.permission_id
            WHERE rp.role_id = $1
            ORDER BY p.resource, p.action`
	rows, err := r.db.Query(ctx, sql, roleID)
	if err != nil {
		return nil, fmt.Errorf("failed to query role permissions: %w", err)
	}
	defer rows.Close()

	var grants []model.RolePermission
	for rows.Next() {
		var rp model.RolePermission
		var p model.Permission
		if err := rows.Scan(&rp.RoleID, &rp.PermissionID, &rp.IsAlwaysAllowed, &p.ID, &p.Resource, &p.Action); err != nil {
			return nil, fmt.Errorf("failed to scan role permission row: %w", err)
		}
		rp.Permission = &p
		grants = append(grants, rp)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating role permission rows: %w", err)
	}
	return grants, nil
}

// AssignPermissionToRole grants a permission to a role, ignoring duplicates
func (r *rbacRepository) AssignPermissionToRole(ctx context.Context, roleID, permissionID string, isAlwaysAllowed bool) error {
	sql := `INSERT INTO role_permissions (role_id, permission_id, is_always_allowed)
            VALUES ($1, $2, $3)
            ON CONFLICT (role_id, permission_id) DO NOTHING`
	if _, err := r.db.Exec(ctx, sql, roleID, permissionID, isAlwaysAllowed); err != nil {
		return fmt.Errorf("failed to assign permission to role: %w", err)
	}
	return nil
}

var defaultPermissions = []model.Permission{
	{Resource: model.ResourceComments, Action: model.ActionView},
	{Resource: model.ResourceComments, Action: model.ActionCreate},
	{Resource: model.ResourceComments, Action: model.ActionUpdate},
	{Resource: model.ResourceTodos, Action: model.ActionView},
	{Resource: model.ResourceTodos, Action: model.ActionCreate},
	{Resource: model.ResourceTodos, Action: model.ActionUpdate},
	{Resource: model.ResourceTodos, Action: model.ActionDelete},
}

var defaultRoles = []string{model.RoleAdmin, model.RoleModerator, model.RoleUser}

// SeedDefaults inserts the default roles and permissions and grants the admin
// role every permission unconditionally. Safe to run on every startup.
func (r *rbacRepository) SeedDefaults(ctx context.Context) error {
	for _, perm := range defaultPermissions {
		sql := `INSERT INTO permissions (id, resource, action) VALUES ($1, $2, $3)
                ON CONFLICT (resource, action) DO NOTHING`
		if _, err := r.db.Exec(ctx, sql, uuid.NewString(), perm.Resource, perm.Action); err != nil {
			return fmt.Errorf("failed to seed permission %s:%s: %w", perm.Resource, perm.Action, err)
		}
	}

	for _, name := range defaultRoles {
		sql := `INSERT INTO roles (id, name) VALUES ($1, $2)
                ON CONFLICT (name) DO NOTHING`
		if _, err := r.db.Exec(ctx, sql, uuid.NewString(), name); err != nil {
			return fmt.Errorf("failed to seed role %s: %w", name, err)
		}
	}

	sql := `INSERT INTO role_permissions (role_id, permission_id, is_always_allowed)
            SELECT r.id, p.id, TRUE FROM roles r CROSS JOIN permissions p
            WHERE r.name = $1
            ON CONFLICT (role_id, permission_id) DO NOTHING`
	if _, err := r.db.Exec(ctx, sql, model.RoleAdmin); err != nil {
		return fmt.Errorf("failed to grant admin permissions: %w", err)
	}
	return nil
}
