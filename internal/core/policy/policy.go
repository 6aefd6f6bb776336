// Package policy decides whether an authenticated identity may perform an action.
// It is pure: callers resolve the owner or target of the action and pass it in.
package policy

import (
	"strings"

	"github.com/frahmantamala/idea-portal/internal"
)

type Role string

const (
	RoleUser       Role = "user"
	RoleAdmin      Role = "admin"
	RoleCEO        Role = "ceo"
	RoleHR         Role = "hr"
	RoleSuperAdmin Role = "superadmin"
)

// AssignableRoles are the roles an administrator may grant. superadmin is never granted.
var AssignableRoles = []Role{RoleUser, RoleAdmin, RoleCEO, RoleHR}

func ParseRole(s string) (Role, error) {
	switch r := Role(strings.ToLower(strings.TrimSpace(s))); r {
	case RoleUser, RoleAdmin, RoleCEO, RoleHR, RoleSuperAdmin:
		return r, nil
	}
	return "", internal.ErrInvalidRole
}

// ParseAssignableRole is ParseRole restricted to AssignableRoles.
func ParseAssignableRole(s string) (Role, error) {
	r, err := ParseRole(s)
	if err != nil {
		return "", err
	}
	if r == RoleSuperAdmin {
		return "", internal.NewValidationError("superadmin role cannot be assigned", internal.ErrCodeInvalidRole)
	}
	return r, nil
}

// IsReviewer reports whether r carries administrative privileges.
func (r Role) IsReviewer() bool {
	return r == RoleAdmin || r == RoleSuperAdmin
}

func (r Role) IsExecutive() bool {
	return r == RoleCEO
}

func (r Role) String() string {
	return string(r)
}

// Identity is the verified caller. The zero value is anonymous.
type Identity struct {
	UserID int64
	Email  string
	Role   Role
}

func (i Identity) IsAnonymous() bool {
	return i.UserID <= 0
}

type Action string

const (
	ActionCreateIdea       Action = "idea:create"
	ActionReadIdeas        Action = "idea:read"
	ActionEditIdea         Action = "idea:edit"
	ActionWithdrawIdea     Action = "idea:withdraw"
	ActionBulkUpdateStatus Action = "idea:bulk_status"
	ActionReact            Action = "idea:react"
	ActionComment          Action = "idea:comment"

	ActionReadNotifications Action = "notification:read"
	ActionMarkNotifications Action = "notification:mark_read"

	ActionReadSelf      Action = "user:read_self"
	ActionListUsers     Action = "user:list"
	ActionChangeRole    Action = "user:change_role"
	ActionDeleteUser    Action = "user:delete"
	ActionResetPassword Action = "user:reset_password"
)

// Target carries what an action is aimed at. OwnerID is the owner of the
// idea being acted on; UserID is the account being administered.
type Target struct {
	OwnerID int64
	UserID  int64
}

func OwnedBy(ownerID int64) Target {
	return Target{OwnerID: ownerID}
}

func Account(userID int64) Target {
	return Target{UserID: userID}
}

var reviewerOnly = map[Action]bool{
	ActionBulkUpdateStatus: true,
	ActionListUsers:        true,
	ActionChangeRole:       true,
	ActionDeleteUser:       true,
	ActionResetPassword:    true,
}

var notOnSelf = map[Action]bool{
	ActionChangeRole: true,
	ActionDeleteUser: true,
}

var ownerOrReviewer = map[Action]bool{
	ActionEditIdea:     true,
	ActionWithdrawIdea: true,
}

// Authorize returns nil when id may perform action on target.
func Authorize(id Identity, action Action, target Target) error {
	if id.IsAnonymous() {
		return internal.ErrMissingToken
	}
	if _, err := ParseRole(string(id.Role)); err != nil {
		return internal.ErrInsufficientRole
	}

	if reviewerOnly[action] && !id.Role.IsReviewer() {
		return internal.ErrInsufficientRole
	}
	if notOnSelf[action] && target.UserID == id.UserID {
		return internal.ErrInvalidOperation
	}
	if ownerOrReviewer[action] && target.OwnerID != id.UserID && !id.Role.IsReviewer() {
		return internal.NewForbiddenError("only the owner or an administrator may modify this idea", internal.ErrCodeInsufficientRole)
	}
	return nil
}
