// Package authz evaluates the role and ownership policy for every guarded
// operation. It is a pure decision function over a principal, an action and
// the target resource; it never touches storage or the request context.
package authz

import (
	"github.com/taskflow-dev/taskflow/internal/apperrors"
	"github.com/taskflow-dev/taskflow/internal/types"
)

// Principal is the authenticated identity derived from a verified token.
type Principal struct {
	UserID uint
	Email  string
	Role   string
}

func (p Principal) IsAdmin() bool {
	return p.Role == types.RoleAdmin
}

type Action string

const (
	ActionProjectUpdate Action = "project:update"
	ActionProjectDelete Action = "project:delete"
	ActionTaskCreate    Action = "task:create"
	ActionTaskUpdate    Action = "task:update"
	ActionTaskDelete    Action = "task:delete"
	ActionUserList      Action = "user:list"
	ActionUserDelete    Action = "user:delete"
)

// Resource identifies the target of an action. For project and task actions
// OwnerEmail is the email of the parent project's owner; role-gated actions
// carry no owner.
type Resource struct {
	OwnerEmail string
}

var denyMessages = map[Action]string{
	ActionProjectUpdate: "You don't have permission to modify this project",
	ActionProjectDelete: "You don't have permission to modify this project",
	ActionTaskCreate:    "You don't have permission to add tasks to this project",
	ActionTaskUpdate:    "You don't have permission to modify this task",
	ActionTaskDelete:    "You don't have permission to modify this task",
	ActionUserList:      "Access denied: insufficient permissions",
	ActionUserDelete:    "Access denied: insufficient permissions",
}

// Authorize returns nil when the principal may perform the action on the
// resource and a Forbidden error otherwise. Ownership actions allow only the
// resource owner; admin actions allow only the ADMIN role. Unknown actions
// are denied.
func Authorize(principal Principal, action Action, resource Resource) error {
	switch action {
	case ActionProjectUpdate, ActionProjectDelete,
		ActionTaskCreate, ActionTaskUpdate, ActionTaskDelete:
		if resource.OwnerEmail != "" && principal.Email == resource.OwnerEmail {
			return nil
		}
	case ActionUserList, ActionUserDelete:
		if principal.IsAdmin() {
			return nil
		}
	}

	message, ok := denyMessages[action]
	if !ok {
		message = "Access denied: insufficient permissions"
	}
	return apperrors.Forbidden(message)
}
