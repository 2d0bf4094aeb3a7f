package model

const (
	RoleAdmin     = "admin"
	RoleModerator = "moderator"
	RoleUser      = "user"
)

const (
	ResourceComments = "comments"
	ResourceTodos    = "todos"
)

const (
	ActionView   = "view"
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

// Role is a named grouping of permissions, assigned to users many-to-many
type Role struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Permission is a (resource, action) pair
type Permission struct {
	ID       string `json:"id"`
	Resource string `json:"resource"`
	Action   string `json:"action"`
}

// RolePermission links a role to a permission. IsAlwaysAllowed marks the
// grant as unconditional; conditional semantics live in the in-memory
// rule table, not in these rows.
type RolePermission struct {
	RoleID          string      `json:"role_id"`
	PermissionID    string      `json:"permission_id"`
	IsAlwaysAllowed bool        `json:"is_always_allowed"`
	Permission      *Permission `json:"permission,omitempty"`
}

// AssignPermissionRequest grants a permission to a role
type AssignPermissionRequest struct {
	PermissionID string `json:"permission_id" binding:"required,uuid"`
}
