package middleware

import (
	"context"
	"net/http"

	"schoolerp/internal/application/session"
	"schoolerp/internal/domain/navigation"
	domainSession "schoolerp/internal/domain/session"
)

// Session returns middleware that puts store into every request context.
// The guards below and the handlers read it through session.FromContext.
func Session(store *session.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(session.WithStore(r.Context(), store)))
		})
	}
}

type snapshotKey struct{}

// withSnapshot pins the session a guard checked to the request.
func withSnapshot(r *http.Request, sess domainSession.Session) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), snapshotKey{}, sess))
}

// Current returns the session snapshot for this request: the one a guard
// checked when there is one, else a fresh read of the store.
func Current(r *http.Request) domainSession.Session {
	if sess, ok := r.Context().Value(snapshotKey{}).(domainSession.Session); ok {
		return sess
	}
	return session.FromContext(r.Context()).Snapshot()
}

// RequireAuth sends logged-out visitors to /login.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := Current(r)
		if !sess.IsAuthenticated() {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, withSnapshot(r, sess))
	})
}

// RequireGuest sends logged-in users away from guest-only pages to /dashboard.
func RequireGuest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if Current(r).IsAuthenticated() {
			http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRoute blocks users whose role is not mapped to the navigation key.
// Logged-out visitors go to /login first.
func RequireRoute(key string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := Current(r)
			if !sess.IsAuthenticated() {
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}
			if !navigation.Allowed(sess.Role(), key) {
				http.Error(w, "Forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, withSnapshot(r, sess))
		})
	}
}
