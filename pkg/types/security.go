package types

import (
	"fmt"
	"strings"
)

// UserType is the closed set of user roles the storage layer routes on.
// Guests persist locally only; every other role is backed by the remote
// diagram-sharing service.
type UserType int

// User roles.
const (
	UserTypeGuest UserType = iota
	UserTypeStudent
	UserTypeTeacher
	UserTypeAdmin
)

// String returns the wire name of the user type.
func (u UserType) String() string {
	switch u {
	case UserTypeGuest:
		return "GUEST"
	case UserTypeStudent:
		return "STUDENT"
	case UserTypeTeacher:
		return "TEACHER"
	case UserTypeAdmin:
		return "ADMIN"
	default:
		return fmt.Sprintf("UserType(%d)", int(u))
	}
}

// ParseUserType maps a wire name onto a UserType. Matching is
// case-insensitive.
func ParseUserType(s string) (UserType, error) {
	switch strings.ToUpper(s) {
	case "GUEST":
		return UserTypeGuest, nil
	case "STUDENT":
		return UserTypeStudent, nil
	case "TEACHER":
		return UserTypeTeacher, nil
	case "ADMIN":
		return UserTypeAdmin, nil
	default:
		return UserTypeGuest, fmt.Errorf("unknown user type %q", s)
	}
}

// Security is the capability interface of the session collaborator.
type Security interface {
	// GetUser returns the current user id, or "" when nobody is logged in.
	GetUser() string

	// GetUserType returns the current user's role.
	GetUserType() UserType

	// GetAuthorizationHeader returns the headers to attach to remote
	// calls: a bearer token for authenticated users, an obfuscated user
	// id header for guest-scoped calls.
	GetAuthorizationHeader() map[string]string
}

// Notifier is the capability interface of the user-visible error surface.
// Calls are fire-and-forget.
type Notifier interface {
	NotifyError(message string)
}

// StaticSecurity is a fixed-identity Security implementation, used by the
// CLI (guest mode) and by tests.
type StaticSecurity struct {
	User    string
	Type    UserType
	Headers map[string]string
}

func (s StaticSecurity) GetUser() string       { return s.User }
func (s StaticSecurity) GetUserType() UserType { return s.Type }

func (s StaticSecurity) GetAuthorizationHeader() map[string]string {
	if s.Headers != nil {
		return s.Headers
	}
	if s.Type == UserTypeGuest {
		return map[string]string{"X-User-Id": Obfuscate(s.User)}
	}
	return map[string]string{}
}

// NopNotifier discards all notifications.
type NopNotifier struct{}

func (NopNotifier) NotifyError(string) {}
