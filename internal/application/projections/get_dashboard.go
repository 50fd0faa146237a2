package projections

import (
	"time"

	"schoolerp/internal/adapters/http/perf"
	"schoolerp/internal/domain/account"
	"schoolerp/internal/domain/navigation"
	"schoolerp/internal/domain/session"
)

// GetDashboardQuery carries input for the dashboard projection.
type GetDashboardQuery struct {
	Session session.Session
	Now     time.Time
}

// GetDashboardDeps holds dependencies for the dashboard projection.
type GetDashboardDeps struct {
	Collector *perf.Collector // optional: nil hides the latency panel
}

// DashboardResult carries the output of the dashboard projection.
type DashboardResult struct {
	Name      string
	Role      account.Role
	RoleLabel string
	RoleColor string
	Modules   []navigation.Entry

	// Token expiry, when the token is a JWT with an exp claim
	HasExpiry bool
	ExpiresAt time.Time
	ExpiresIn time.Duration

	// Admin
	Perf *perf.Snapshot
}

// perfWindow is how far back the admin latency panel looks.
const perfWindow = time.Hour

// QueryGetDashboard builds the greeting, module cards and, for
// administrators, the latency panel.
// PRE: Session is authenticated
// POST: Modules excludes the dashboard entry and follows navigation order
func QueryGetDashboard(query GetDashboardQuery, deps GetDashboardDeps) DashboardResult {
	role := query.Session.Role()
	result := DashboardResult{
		Role:      role,
		RoleLabel: role.Label(),
		RoleColor: role.Color(),
		Modules:   navigation.Modules(role),
	}
	if u := query.Session.User; u != nil {
		result.Name = u.DisplayName()
	}

	if exp, ok := session.TokenExpiry(query.Session.Token); ok {
		result.HasExpiry = true
		result.ExpiresAt = exp
		result.ExpiresIn = max(exp.Sub(query.Now), 0).Round(time.Minute)
	}

	if role == account.RoleAdmin && deps.Collector != nil {
		snap := deps.Collector.Snapshot(query.Now.Add(-perfWindow), 5)
		result.Perf = &snap
	}
	return result
}
