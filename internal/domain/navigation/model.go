// Package navigation holds the static route table and the role filter that
// decides which entries a user sees and may open.
package navigation

import "schoolerp/internal/domain/account"

// Route keys. Each key is also the last path segment of its page.
const (
	KeyDashboard     = "dashboard"
	KeyStudents      = "students"
	KeyFinance       = "finance"
	KeyAcademic      = "academic"
	KeyCommunication = "communication"
	KeyMyChildren    = "my-children"
	KeyMyDebts       = "my-debts"
)

// Entry is one navigation item.
type Entry struct {
	Key         string
	Path        string
	Label       string
	Description string
	Roles       []account.Role
}

// AllowedFor reports whether role may see and open the entry.
// INVARIANT: Entry fields are not mutated
func (e Entry) AllowedFor(role account.Role) bool {
	for _, r := range e.Roles {
		if r == role {
			return true
		}
	}
	return false
}

var (
	all      = []account.Role{account.RoleAdmin, account.RoleTeacher, account.RoleGuardian}
	admin    = []account.Role{account.RoleAdmin}
	staff    = []account.Role{account.RoleAdmin, account.RoleTeacher}
	guardian = []account.Role{account.RoleGuardian}
)

// masterList is the ordered set of every page. Filtering never reorders it.
var masterList = []Entry{
	{Key: KeyDashboard, Path: "/dashboard", Label: "Home", Description: "Overview", Roles: all},
	{Key: KeyStudents, Path: "/students", Label: "Students", Description: "Students, families and accounts", Roles: admin},
	{Key: KeyFinance, Path: "/finance", Label: "Finance", Description: "Fees, debts and payments", Roles: admin},
	{Key: KeyAcademic, Path: "/academic", Label: "Academic", Description: "Courses, grades and attendance", Roles: staff},
	{Key: KeyCommunication, Path: "/communication", Label: "Communication", Description: "News and announcements", Roles: all},
	{Key: KeyMyChildren, Path: "/my-children", Label: "My Children", Description: "Your children's records", Roles: guardian},
	{Key: KeyMyDebts, Path: "/my-debts", Label: "My Debts", Description: "Outstanding fees and payments", Roles: guardian},
}

// MasterList returns a copy of every entry in display order.
func MasterList() []Entry {
	out := make([]Entry, len(masterList))
	copy(out, masterList)
	return out
}

// Filter returns the entries of list allowed for role, in list order.
// Unknown roles match nothing.
func Filter(list []Entry, role account.Role) []Entry {
	out := []Entry{}
	for _, e := range list {
		if e.AllowedFor(role) {
			out = append(out, e)
		}
	}
	return out
}

// ForRole filters the master list for role.
func ForRole(role account.Role) []Entry {
	return Filter(masterList, role)
}

// Modules returns the dashboard's module cards: every allowed entry except
// the dashboard itself.
func Modules(role account.Role) []Entry {
	out := []Entry{}
	for _, e := range ForRole(role) {
		if e.Key != KeyDashboard {
			out = append(out, e)
		}
	}
	return out
}

// Allowed reports whether role is mapped to the route key. Keys missing from
// the master list are never allowed.
func Allowed(role account.Role, key string) bool {
	e, ok := Lookup(key)
	return ok && e.AllowedFor(role)
}

// Capabilities returns the route keys mapped to role, in display order.
func Capabilities(role account.Role) []string {
	entries := ForRole(role)
	keys := make([]string, len(entries))
	for i, e := range entries {
		keys[i] = e.Key
	}
	return keys
}

// Lookup finds an entry by key.
func Lookup(key string) (Entry, bool) {
	for _, e := range masterList {
		if e.Key == key {
			return e, true
		}
	}
	return Entry{}, false
}
