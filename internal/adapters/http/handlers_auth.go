package web

import (
	"log/slog"
	"net/http"
	"strings"

	"schoolerp/internal/domain/account"
)

type loginForm struct {
	Email string
}

// handleLoginForm renders the login page.
func (a *app) handleLoginForm(w http.ResponseWriter, r *http.Request) {
	renderTemplate(w, r, http.StatusOK, "login.html", pageData{Title: "Sign in", Data: loginForm{}})
}

// handleLogin authenticates against the backend and starts the session.
// PRE: The visitor is logged out
// POST: On success both session keys are stored and the browser goes to /dashboard
func (a *app) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}
	req := account.LoginRequest{
		Email:    strings.TrimSpace(r.FormValue("email")),
		Password: r.FormValue("password"),
	}
	fail := func(status int, msg string) {
		renderTemplate(w, r, status, "login.html", pageData{Title: "Sign in", Error: msg, Data: loginForm{Email: req.Email}})
	}

	env, err := a.api.Auth.Login(r.Context(), req)
	if err != nil {
		slog.Info("auth_event", "event", "login_failed", "email", req.Email, "status", failureStatus(err))
		fail(failureStatus(err), userMessage(err))
		return
	}
	if err := env.Err(); err != nil {
		slog.Info("auth_event", "event", "login_rejected", "email", req.Email)
		fail(http.StatusUnauthorized, err.Error())
		return
	}
	if env.Data.Token == "" {
		fail(http.StatusBadGateway, "The server did not return a session token.")
		return
	}
	user, err := account.ProfileFromLogin(env.Data.User)
	if err != nil {
		slog.Warn("auth_event", "event", "login_bad_profile", "error", err)
		fail(http.StatusBadGateway, "The server returned an incomplete profile.")
		return
	}
	if err := a.session.Login(r.Context(), env.Data.Token, user); err != nil {
		internalError(w, err)
		return
	}
	redirectNotice(w, r, "/dashboard", "Welcome, "+user.DisplayName()+"!")
}

// handleLogout ends the session.
func (a *app) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := a.session.Logout(r.Context()); err != nil {
		internalError(w, err)
		return
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
