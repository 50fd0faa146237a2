package web

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/csrf"
	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"

	"schoolerp/internal/adapters/api"
	"schoolerp/internal/adapters/http/middleware"
	"schoolerp/internal/domain/account"
	"schoolerp/internal/domain/communication"
	"schoolerp/internal/domain/finance"
	"schoolerp/internal/domain/navigation"
	"schoolerp/internal/domain/validation"
)

//go:embed templates/*.html
var templateFS embed.FS

// mdRenderer is a goldmark instance configured for safe HTML output.
// Raw HTML in markdown input is escaped (WithUnsafe is NOT set).
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

// timeNow is a variable for testability.
var timeNow = time.Now

// pageData is what every template receives.
type pageData struct {
	Title  string
	Active string // navigation key of the current page
	Notice string
	Error  string
	Data   any
}

// internalError logs the real error and returns a generic message to the client.
func internalError(w http.ResponseWriter, err error) {
	slog.Error("internal_error", "error", err.Error())
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

// failureStatus maps a failed backend call to the status the page is
// rendered with.
func failureStatus(err error) int {
	var verrs validation.Errors
	if errors.As(err, &verrs) {
		return http.StatusBadRequest
	}
	var ee *api.EnvelopeError
	if errors.As(err, &ee) {
		return http.StatusUnprocessableEntity
	}
	if code := api.StatusCode(err); code >= 400 && code < 500 {
		return http.StatusUnprocessableEntity
	}
	return http.StatusBadGateway
}

// userMessage is the text shown to the user for a failed backend call:
// validation messages and the backend's own message pass through, transport
// failures do not.
func userMessage(err error) string {
	var verrs validation.Errors
	if errors.As(err, &verrs) {
		return verrs.Error()
	}
	var he *api.HTTPError
	var ee *api.EnvelopeError
	if errors.As(err, &he) || errors.As(err, &ee) {
		return api.Message(err)
	}
	slog.Warn("backend_unreachable", "error", err.Error())
	return "The school server could not be reached. Try again in a moment."
}

// sessionLost redirects to /login when err is a 401. The API client has
// already cleared durable storage; memory is re-read here so the next request
// does not wait on the change signal. It reports whether it wrote a response.
func (a *app) sessionLost(w http.ResponseWriter, r *http.Request, err error) bool {
	if !api.IsUnauthorized(err) {
		return false
	}
	if _, rerr := a.session.Refresh(context.WithoutCancel(r.Context())); rerr != nil {
		slog.Warn("session_refresh_failed", "error", rerr)
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
	return true
}

// redirectNotice sends the browser back to path with a one-off notice.
func redirectNotice(w http.ResponseWriter, r *http.Request, path, notice string) {
	target := path
	if notice != "" {
		sep := "?"
		if strings.Contains(path, "?") {
			sep = "&"
		}
		target += sep + "notice=" + url.QueryEscape(notice)
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func renderTemplate(w http.ResponseWriter, r *http.Request, status int, templateName string, data pageData) {
	sess := middleware.Current(r)
	role := sess.Role()
	if data.Notice == "" {
		data.Notice = r.URL.Query().Get("notice")
	}

	funcMap := template.FuncMap{
		"isLoggedIn":  func() bool { return sess.IsAuthenticated() },
		"currentUser": func() *account.User { return sess.User },
		"currentRole": func() account.Role { return role },
		"navEntries":  func() []navigation.Entry { return navigation.ForRole(role) },
		"csrfField":   func() template.HTML { return csrf.TemplateField(r) },
		"isStaff":     func() bool { return role == account.RoleAdmin || role == account.RoleTeacher },
		"formatDate":  formatDate,
		"money":       money,
		"deref":       deref,
		"debtStatus":  finance.ParseStatus,
		"typeColor":   communication.TypeColor,
		"roleName": func(target *account.Role) string {
			if target == nil {
				return "Everyone"
			}
			return target.Label()
		},
		"renderMarkdown": func(p *string) template.HTML {
			md := deref(p)
			var buf bytes.Buffer
			if err := mdRenderer.Convert([]byte(md), &buf); err != nil {
				return template.HTML(template.HTMLEscapeString(md))
			}
			return template.HTML(buf.String())
		},
		"safeQuery": func(q string) template.URL { return template.URL(q) },
		"add":       func(a, b int) int { return a + b },
		"sub":       func(a, b int) int { return a - b },
	}

	tpl, err := template.New("layout.html").Funcs(funcMap).ParseFS(templateFS, "templates/layout.html", "templates/"+templateName)
	if err != nil {
		internalError(w, err)
		return
	}
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		internalError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

// formatDate renders backend dates as DD/MM/YYYY. Unparseable input is
// shown as-is and empty input as a dash.
func formatDate(v any) string {
	var s string
	switch t := v.(type) {
	case string:
		s = t
	case *string:
		s = deref(t)
	case time.Time:
		if t.IsZero() {
			return "—"
		}
		return t.Format("02/01/2006")
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return "—"
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("02/01/2006")
		}
	}
	return s
}

// money renders an amount in soles. A nil amount is shown as a dash.
func money(v any) string {
	switch t := v.(type) {
	case finance.Amount:
		return "S/ " + t.String()
	case *finance.Amount:
		if t == nil {
			return "—"
		}
		return "S/ " + t.String()
	case float64:
		return "S/ " + finance.Amount(t).String()
	default:
		return "—"
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func isAdmin(r *http.Request) bool {
	return middleware.Current(r).Role() == account.RoleAdmin
}
