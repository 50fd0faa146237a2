package web

import (
	"net/http"

	"schoolerp/internal/adapters/http/middleware"
	"schoolerp/internal/application/projections"
	"schoolerp/internal/domain/navigation"
)

// handleDashboard renders the greeting, module cards and the admin latency panel.
func (a *app) handleDashboard(w http.ResponseWriter, r *http.Request) {
	result := projections.QueryGetDashboard(
		projections.GetDashboardQuery{Session: middleware.Current(r), Now: timeNow()},
		projections.GetDashboardDeps{Collector: a.collector},
	)
	renderTemplate(w, r, http.StatusOK, "dashboard.html", pageData{
		Title:  "Home",
		Active: navigation.KeyDashboard,
		Data:   result,
	})
}
