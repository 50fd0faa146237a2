package web

import (
	"context"
	"crypto/rand"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"schoolerp/internal/adapters/api"
	"schoolerp/internal/adapters/http/middleware"
	"schoolerp/internal/adapters/http/perf"
	"schoolerp/internal/application/session"
	"schoolerp/internal/domain/navigation"
)

// Deps holds everything the dashboard needs.
type Deps struct {
	Session   *session.Store
	API       *api.API
	Collector *perf.Collector

	// CSRFKey is the 32-byte form token secret. When nil a random key is
	// generated, so tokens do not survive a restart.
	CSRFKey        []byte
	Secure         bool
	TrustedOrigins []string

	RateLimit   int // requests per second per client IP
	SlowRequest time.Duration
}

type app struct {
	session   *session.Store
	api       *api.API
	collector *perf.Collector
}

// NewMux wires the dashboard's pages and middleware. ctx bounds the rate
// limiter's background sweep.
func NewMux(ctx context.Context, d Deps) (http.Handler, error) {
	if d.Session == nil || d.API == nil {
		return nil, fmt.Errorf("web: session store and API are required")
	}
	key, err := csrfKey(d.CSRFKey)
	if err != nil {
		return nil, err
	}
	rate := d.RateLimit
	if rate <= 0 {
		rate = 10
	}

	a := &app{session: d.Session, api: d.API, collector: d.Collector}
	limiter := middleware.NewRateLimiter(ctx, rate, time.Second)

	return middleware.Chain(a.routes(),
		middleware.Timing(d.Collector, d.SlowRequest),
		middleware.RateLimit(limiter),
		middleware.SecurityHeaders,
		middleware.NoStore,
		middleware.CSRF(key, d.Secure, d.TrustedOrigins...),
		middleware.Session(d.Session),
	), nil
}

// csrfKey returns key, or a random one when key is unset.
func csrfKey(key []byte) ([]byte, error) {
	if key != nil {
		if len(key) != 32 {
			return nil, fmt.Errorf("web: CSRF key must be 32 bytes, got %d", len(key))
		}
		return key, nil
	}
	key = make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("web: generate CSRF key: %w", err)
	}
	slog.Warn("csrf_key_random", "detail", "form tokens will not survive a restart; set SCHOOLERP_CSRF_KEY")
	return key, nil
}

// routes registers every page. Pages are guarded by the navigation key they
// belong to, so the guard and the menu share one table.
func (a *app) routes() *http.ServeMux {
	mux := http.NewServeMux()
	page := func(key string, h http.HandlerFunc) http.Handler {
		return middleware.RequireRoute(key)(h)
	}

	mux.Handle("GET /login", middleware.RequireGuest(http.HandlerFunc(a.handleLoginForm)))
	mux.Handle("POST /login", middleware.RequireGuest(http.HandlerFunc(a.handleLogin)))
	mux.Handle("POST /logout", middleware.RequireAuth(http.HandlerFunc(a.handleLogout)))

	mux.Handle("GET /dashboard", page(navigation.KeyDashboard, a.handleDashboard))

	mux.Handle("GET /students", page(navigation.KeyStudents, a.handleStudents))
	mux.Handle("POST /students", page(navigation.KeyStudents, a.handleCreateStudent))
	mux.Handle("POST /students/{id}/delete", page(navigation.KeyStudents, a.handleDeleteStudent))
	mux.Handle("POST /families", page(navigation.KeyStudents, a.handleCreateFamily))
	mux.Handle("POST /families/{id}/delete", page(navigation.KeyStudents, a.handleDeleteFamily))
	mux.Handle("POST /users", page(navigation.KeyStudents, a.handleRegisterUser))
	mux.Handle("POST /users/{id}/delete", page(navigation.KeyStudents, a.handleDeleteUser))

	mux.Handle("GET /finance", page(navigation.KeyFinance, a.handleFinance))
	mux.Handle("POST /finance/concepts", page(navigation.KeyFinance, a.handleCreateConcept))
	mux.Handle("POST /finance/fees", page(navigation.KeyFinance, a.handleGenerateFees))
	mux.Handle("POST /finance/payments", page(navigation.KeyFinance, a.handleRegisterPayment))

	mux.Handle("GET /academic", page(navigation.KeyAcademic, a.handleAcademic))
	mux.Handle("POST /academic/courses", page(navigation.KeyAcademic, a.handleCreateCourse))
	mux.Handle("POST /academic/courses/{id}/delete", page(navigation.KeyAcademic, a.handleDeleteCourse))
	mux.Handle("POST /academic/enrollments", page(navigation.KeyAcademic, a.handleCreateEnrollment))
	mux.Handle("POST /academic/enrollments/{id}/delete", page(navigation.KeyAcademic, a.handleDeleteEnrollment))
	mux.Handle("POST /academic/grades", page(navigation.KeyAcademic, a.handleInputGrade))
	mux.Handle("POST /academic/grades/{id}", page(navigation.KeyAcademic, a.handleUpdateGrade))
	mux.Handle("POST /academic/grades/{id}/delete", page(navigation.KeyAcademic, a.handleDeleteGrade))
	mux.Handle("POST /academic/attendance", page(navigation.KeyAcademic, a.handleMarkAttendance))
	mux.Handle("POST /academic/attendance/{id}/delete", page(navigation.KeyAcademic, a.handleDeleteAttendance))

	mux.Handle("GET /communication", page(navigation.KeyCommunication, a.handleCommunication))
	mux.Handle("POST /communication", page(navigation.KeyCommunication, a.handleCreatePost))

	mux.Handle("GET /my-children", page(navigation.KeyMyChildren, a.handleMyChildren))
	mux.Handle("GET /my-debts", page(navigation.KeyMyDebts, a.handleMyDebts))

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte("ok"))
	})

	// Everything else, including "/", lands on the dashboard; its guard
	// takes logged-out visitors on to /login.
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
	})
	return mux
}
