package account

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"schoolerp/internal/domain/validation"
)

// Role is the backend's numeric role identifier. The numbering is part of
// the backend contract and must not be renumbered.
type Role int

const (
	RoleNone     Role = 0
	RoleAdmin    Role = 1
	RoleTeacher  Role = 2
	RoleGuardian Role = 3
)

// ValidRoles lists every role the backend issues, in display order.
var ValidRoles = []Role{RoleAdmin, RoleTeacher, RoleGuardian}

// Domain errors
var (
	ErrInvalidRole    = errors.New("role must be 1 (administrator), 2 (teacher) or 3 (guardian)")
	ErrMissingUserID  = errors.New("login response is missing the user id")
	ErrMissingEmail   = errors.New("login response is missing the user email")
	ErrMissingProfile = errors.New("login response is missing the user profile")
)

// Valid reports whether r is one of the roles the backend issues.
func (r Role) Valid() bool {
	return r >= RoleAdmin && r <= RoleGuardian
}

// String returns a stable lowercase identifier.
func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return "admin"
	case RoleTeacher:
		return "teacher"
	case RoleGuardian:
		return "guardian"
	default:
		return "unknown"
	}
}

// Label returns the display name shown next to the user's avatar.
func (r Role) Label() string {
	switch r {
	case RoleAdmin:
		return "Administrator"
	case RoleTeacher:
		return "Teacher"
	case RoleGuardian:
		return "Guardian"
	default:
		return "Unknown"
	}
}

// Color returns the role's accent colour. Unknown roles fall back to the
// administrator colour, matching the avatar fallback.
func (r Role) Color() string {
	switch r {
	case RoleTeacher:
		return "#5c2d91"
	case RoleGuardian:
		return "#107c10"
	default:
		return "#0078d4"
	}
}

// ParseRole accepts a numeric identifier ("1") or a role name ("admin").
// Unrecognised input yields RoleNone.
func ParseRole(s string) Role {
	s = strings.ToLower(strings.TrimSpace(s))
	if n, err := strconv.Atoi(s); err == nil {
		if r := Role(n); r.Valid() {
			return r
		}
		return RoleNone
	}
	for _, r := range ValidRoles {
		if r.String() == s {
			return r
		}
	}
	return RoleNone
}

// User is the profile snapshot kept with the session. The JSON names are the
// ones persisted under the session user key.
type User struct {
	UserID   string `json:"userId"`
	Email    string `json:"email"`
	RoleID   Role   `json:"roleId"`
	FullName string `json:"fullName,omitempty"`
	PhotoURL string `json:"photoUrl,omitempty"`
}

// DisplayName returns the full name, falling back to the email.
// INVARIANT: User fields are not mutated
func (u User) DisplayName() string {
	if strings.TrimSpace(u.FullName) != "" {
		return u.FullName
	}
	return u.Email
}

// Account is a backend user record as returned by the users endpoints.
type Account struct {
	ID        string  `json:"id"`
	Email     string  `json:"email"`
	RoleID    Role    `json:"role_id"`
	FullName  *string `json:"full_name"`
	IsActive  bool    `json:"is_active"`
	CreatedAt string  `json:"created_at"`
}

// Name returns the full name or an empty string.
func (a Account) Name() string {
	if a.FullName == nil {
		return ""
	}
	return *a.FullName
}

// FilterByRole returns the accounts holding role, preserving order.
func FilterByRole(accounts []Account, role Role) []Account {
	var out []Account
	for _, a := range accounts {
		if a.RoleID == role {
			out = append(out, a)
		}
	}
	return out
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Validate checks the credentials are present before they are sent.
func (r LoginRequest) Validate() error {
	return validation.Struct(r)
}

// LoginData is the data member of a successful login envelope. The user
// object's field names vary between backend versions, so it stays untyped
// until ProfileFromLogin maps it.
type LoginData struct {
	Token string         `json:"token"`
	User  map[string]any `json:"user"`
}

// RegisterRequest is the body of POST /auth/register.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	RoleID   Role   `json:"role_id" validate:"required,gte=1,lte=3"`
	FullName string `json:"full_name,omitempty" validate:"max=120"`
}

// Validate checks the registration fields.
func (r RegisterRequest) Validate() error {
	return validation.Struct(r)
}

// UpdateUserRequest is the body of PUT /users/{id}.
type UpdateUserRequest struct {
	FullName string `json:"full_name,omitempty" validate:"max=120"`
	RoleID   Role   `json:"role_id,omitempty" validate:"omitempty,gte=1,lte=3"`
}

// Validate checks the update fields.
func (r UpdateUserRequest) Validate() error {
	return validation.Struct(r)
}

// ProfileFromLogin maps the raw login user object to a profile snapshot.
// Both snake_case (id, role_id, full_name, photo_url) and camelCase
// (userId, roleId, fullName, photoUrl) spellings are accepted.
// PRE: raw is the decoded "user" member of a login response
// POST: Returns a profile with UserID and Email set, or an error
func ProfileFromLogin(raw map[string]any) (User, error) {
	if raw == nil {
		return User{}, ErrMissingProfile
	}
	u := User{
		UserID:   firstString(raw, "id", "userId"),
		Email:    firstString(raw, "email"),
		FullName: firstString(raw, "full_name", "fullName"),
		PhotoURL: firstString(raw, "photo_url", "photoUrl"),
	}
	if u.UserID == "" {
		return User{}, ErrMissingUserID
	}
	if u.Email == "" {
		return User{}, ErrMissingEmail
	}
	for _, key := range []string{"role_id", "roleId"} {
		if v, ok := raw[key]; ok && v != nil {
			u.RoleID = ParseRole(stringify(v))
			break
		}
	}
	return u, nil
}

func firstString(raw map[string]any, keys ...string) string {
	for _, k := range keys {
		if v, ok := raw[k]; ok && v != nil {
			if s := stringify(v); s != "" {
				return s
			}
		}
	}
	return ""
}

// stringify renders JSON scalars; numbers decode as float64.
func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprint(t)
	}
}
