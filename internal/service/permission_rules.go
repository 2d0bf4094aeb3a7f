package service

import (
	"slices"

	"wellsync/internal/model"
)

// PermissionCheck is a pure predicate over an immutable user snapshot and a
// loaded resource instance
type PermissionCheck func(user *model.User, data any) bool

// Rule is either a constant grant or a data-dependent predicate. A nil Check
// means the constant Allow applies; a non-nil Check requires loaded resource
// data and fails closed without it.
type Rule struct {
	Allow bool
	Check PermissionCheck
}

// RuleSet maps role -> resource -> action -> rule. Absent entries contribute
// no grant. The table is immutable after initialization.
type RuleSet map[string]map[string]map[string]Rule

func allow() Rule { return Rule{Allow: true} }

func when(check PermissionCheck) Rule { return Rule{Check: check} }

func asComment(data any) *model.Comment {
	c, _ := data.(*model.Comment)
	return c
}

func asTodo(data any) *model.Todo {
	t, _ := data.(*model.Todo)
	return t
}

// DefaultRules returns the built-in role rule table
func DefaultRules() RuleSet {
	return RuleSet{
		model.RoleAdmin: {
			model.ResourceComments: {
				model.ActionView:   allow(),
				model.ActionCreate: allow(),
				model.ActionUpdate: allow(),
			},
			model.ResourceTodos: {
				model.ActionView:   allow(),
				model.ActionCreate: allow(),
				model.ActionUpdate: allow(),
				model.ActionDelete: allow(),
			},
		},
		model.RoleModerator: {
			model.ResourceComments: {
				model.ActionView:   allow(),
				model.ActionCreate: allow(),
				model.ActionUpdate: allow(),
			},
			model.ResourceTodos: {
				model.ActionView:   allow(),
				model.ActionCreate: allow(),
				model.ActionUpdate: allow(),
				model.ActionDelete: when(func(_ *model.User, data any) bool {
					todo := asTodo(data)
					return todo != nil && todo.Completed
				}),
			},
		},
		model.RoleUser: {
			model.ResourceComments: {
				model.ActionView: when(func(user *model.User, data any) bool {
					comment := asComment(data)
					return comment != nil && !slices.Contains(user.BlockedBy, comment.AuthorID)
				}),
				model.ActionCreate: allow(),
				model.ActionUpdate: when(func(user *model.User, data any) bool {
					comment := asComment(data)
					return comment != nil && comment.AuthorID == user.ID
				}),
			},
			model.ResourceTodos: {
				model.ActionView: when(func(user *model.User, data any) bool {
					todo := asTodo(data)
					return todo != nil && !slices.Contains(user.BlockedBy, todo.UserID)
				}),
				model.ActionCreate: allow(),
				model.ActionUpdate: when(func(user *model.User, data any) bool {
					todo := asTodo(data)
					return todo != nil && todoAccessible(user, todo)
				}),
				model.ActionDelete: when(func(user *model.User, data any) bool {
					todo := asTodo(data)
					return todo != nil && todoAccessible(user, todo) && todo.Completed
				}),
			},
		},
	}
}

func todoAccessible(user *model.User, todo *model.Todo) bool {
	return todo.UserID == user.ID || slices.Contains(todo.InvitedUsers, user.ID)
}

// grants evaluates a single role's rule for (resource, action) against the
// optionally loaded data
func (rs RuleSet) grants(role string, resource, action string, user *model.User, data any) bool {
	rule, ok := rs[role][resource][action]
	if !ok {
		return false
	}
	if rule.Check == nil {
		return rule.Allow
	}
	return data != nil && rule.Check(user, data)
}
