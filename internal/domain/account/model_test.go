package account_test

import (
	"errors"
	"testing"

	"schoolerp/internal/domain/account"
	"schoolerp/internal/domain/validation"
)

// TestRole_Valid verifies only the three backend roles are valid.
func TestRole_Valid(t *testing.T) {
	tests := []struct {
		role account.Role
		want bool
	}{
		{account.RoleNone, false},
		{account.RoleAdmin, true},
		{account.RoleTeacher, true},
		{account.RoleGuardian, true},
		{account.Role(4), false},
		{account.Role(-1), false},
	}
	for _, tt := range tests {
		if got := tt.role.Valid(); got != tt.want {
			t.Errorf("Role(%d).Valid() = %v, want %v", tt.role, got, tt.want)
		}
	}
}

// TestParseRole verifies numeric and named input.
func TestParseRole(t *testing.T) {
	tests := []struct {
		in   string
		want account.Role
	}{
		{"1", account.RoleAdmin},
		{"2", account.RoleTeacher},
		{" 3 ", account.RoleGuardian},
		{"admin", account.RoleAdmin},
		{"Teacher", account.RoleTeacher},
		{"guardian", account.RoleGuardian},
		{"0", account.RoleNone},
		{"9", account.RoleNone},
		{"janitor", account.RoleNone},
		{"", account.RoleNone},
	}
	for _, tt := range tests {
		if got := account.ParseRole(tt.in); got != tt.want {
			t.Errorf("ParseRole(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

// TestRole_LabelAndColor verifies unknown roles do not panic and fall back.
func TestRole_LabelAndColor(t *testing.T) {
	if got := account.RoleGuardian.Label(); got != "Guardian" {
		t.Errorf("Label = %q, want Guardian", got)
	}
	if got := account.Role(7).Label(); got != "Unknown" {
		t.Errorf("Label = %q, want Unknown", got)
	}
	if got := account.Role(7).Color(); got != account.RoleAdmin.Color() {
		t.Errorf("Color = %q, want admin fallback", got)
	}
}

// TestProfileFromLogin_SnakeCase maps the backend's snake_case user object.
func TestProfileFromLogin_SnakeCase(t *testing.T) {
	raw := map[string]any{
		"id":        "u-1",
		"email":     "ana@school.test",
		"role_id":   float64(3),
		"full_name": "Ana Ruiz",
		"photo_url": "/uploads/ana.png",
	}
	u, err := account.ProfileFromLogin(raw)
	if err != nil {
		t.Fatalf("ProfileFromLogin: %v", err)
	}
	want := account.User{UserID: "u-1", Email: "ana@school.test", RoleID: account.RoleGuardian, FullName: "Ana Ruiz", PhotoURL: "/uploads/ana.png"}
	if u != want {
		t.Errorf("got %+v, want %+v", u, want)
	}
}

// TestProfileFromLogin_CamelCase maps the alternative camelCase spelling.
func TestProfileFromLogin_CamelCase(t *testing.T) {
	raw := map[string]any{
		"userId":   float64(42),
		"email":    "t@school.test",
		"roleId":   "2",
		"fullName": "",
	}
	u, err := account.ProfileFromLogin(raw)
	if err != nil {
		t.Fatalf("ProfileFromLogin: %v", err)
	}
	if u.UserID != "42" || u.RoleID != account.RoleTeacher {
		t.Errorf("got %+v", u)
	}
	if u.DisplayName() != "t@school.test" {
		t.Errorf("DisplayName = %q, want email fallback", u.DisplayName())
	}
}

// TestProfileFromLogin_Missing verifies required fields are enforced.
func TestProfileFromLogin_Missing(t *testing.T) {
	if _, err := account.ProfileFromLogin(nil); !errors.Is(err, account.ErrMissingProfile) {
		t.Errorf("nil: err = %v, want ErrMissingProfile", err)
	}
	if _, err := account.ProfileFromLogin(map[string]any{"email": "a@b.c"}); !errors.Is(err, account.ErrMissingUserID) {
		t.Errorf("no id: err = %v, want ErrMissingUserID", err)
	}
	if _, err := account.ProfileFromLogin(map[string]any{"id": "1"}); !errors.Is(err, account.ErrMissingEmail) {
		t.Errorf("no email: err = %v, want ErrMissingEmail", err)
	}
}

// TestProfileFromLogin_UnknownRole keeps the profile but with no role.
func TestProfileFromLogin_UnknownRole(t *testing.T) {
	u, err := account.ProfileFromLogin(map[string]any{"id": "1", "email": "a@b.c", "role_id": float64(8)})
	if err != nil {
		t.Fatalf("ProfileFromLogin: %v", err)
	}
	if u.RoleID != account.RoleNone {
		t.Errorf("RoleID = %v, want RoleNone", u.RoleID)
	}
}

// TestLoginRequest_Validate checks the validator tags.
func TestLoginRequest_Validate(t *testing.T) {
	if err := (account.LoginRequest{Email: "a@b.co", Password: "x"}).Validate(); err != nil {
		t.Errorf("valid request: %v", err)
	}
	err := (account.LoginRequest{Email: "nope"}).Validate()
	var verrs validation.Errors
	if !errors.As(err, &verrs) {
		t.Fatalf("err = %v, want validation.Errors", err)
	}
	if len(verrs) != 2 {
		t.Errorf("len(errors) = %d, want 2 (%v)", len(verrs), verrs)
	}
}

// TestRegisterRequest_Validate rejects out-of-range roles.
func TestRegisterRequest_Validate(t *testing.T) {
	ok := account.RegisterRequest{Email: "p@school.test", Password: "secret1", RoleID: account.RoleGuardian}
	if err := ok.Validate(); err != nil {
		t.Errorf("valid: %v", err)
	}
	bad := ok
	bad.RoleID = 5
	if err := bad.Validate(); err == nil {
		t.Error("expected error for role 5")
	}
}

// TestFilterByRole preserves order.
func TestFilterByRole(t *testing.T) {
	list := []account.Account{
		{ID: "a", RoleID: account.RoleTeacher},
		{ID: "b", RoleID: account.RoleGuardian},
		{ID: "c", RoleID: account.RoleTeacher},
	}
	got := account.FilterByRole(list, account.RoleTeacher)
	if len(got) != 2 || got[0].ID != "a" || got[1].ID != "c" {
		t.Errorf("FilterByRole = %+v", got)
	}
}
