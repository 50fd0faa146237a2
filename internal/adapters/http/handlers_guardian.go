package web

import (
	"net/http"

	"schoolerp/internal/adapters/http/middleware"
	"schoolerp/internal/application/projections"
	"schoolerp/internal/domain/navigation"
)

func guardianID(r *http.Request) string {
	if u := middleware.Current(r).User; u != nil {
		return u.UserID
	}
	return ""
}

// handleMyChildren lists the students of every family the guardian heads.
func (a *app) handleMyChildren(w http.ResponseWriter, r *http.Request) {
	result, err := projections.QueryGetMyChildren(r.Context(),
		projections.GetMyChildrenQuery{GuardianID: guardianID(r)},
		projections.GetMyChildrenDeps{Families: a.api.Families, Students: a.api.Students})
	status, errMsg := http.StatusOK, ""
	if err != nil {
		if a.sessionLost(w, r, err) {
			return
		}
		status, errMsg = failureStatus(err), userMessage(err)
	}
	renderTemplate(w, r, status, "my_children.html", pageData{
		Title:  "My Children",
		Active: navigation.KeyMyChildren,
		Error:  errMsg,
		Data:   result,
	})
}

// handleMyDebts lists the debt lines of every family the guardian heads.
func (a *app) handleMyDebts(w http.ResponseWriter, r *http.Request) {
	result, err := projections.QueryGetMyDebts(r.Context(),
		projections.GetMyDebtsQuery{GuardianID: guardianID(r)},
		projections.GetMyDebtsDeps{Families: a.api.Families, Debts: a.api.Finance})
	status, errMsg := http.StatusOK, ""
	if err != nil {
		if a.sessionLost(w, r, err) {
			return
		}
		status, errMsg = failureStatus(err), userMessage(err)
	}
	renderTemplate(w, r, status, "my_debts.html", pageData{
		Title:  "My Debts",
		Active: navigation.KeyMyDebts,
		Error:  errMsg,
		Data:   result,
	})
}
