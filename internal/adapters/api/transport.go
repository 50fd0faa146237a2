package api

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"schoolerp/internal/adapters/http/perf"
	"schoolerp/internal/adapters/storage/local"
	"schoolerp/internal/domain/session"
)

// RequestIDHeader correlates console logs with backend logs.
const RequestIDHeader = "X-Request-ID"

// authTransport attaches the stored bearer token to every request and turns
// a 401 outside the auth namespace into a logout of every view.
type authTransport struct {
	next       http.RoundTripper
	storage    local.Store
	bus        local.Notifier
	collector  *perf.Collector
	authPrefix string
}

// RoundTrip implements http.RoundTripper. The caller's request is never
// mutated.
func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	out := req.Clone(ctx)

	token, ok, err := t.storage.Get(ctx, session.TokenKey)
	if err != nil {
		slog.Warn("upstream_request", "path", req.URL.Path, "error", "read token: "+err.Error())
	} else if ok && token != "" {
		out.Header.Set("Authorization", "Bearer "+token)
	}
	reqID := out.Header.Get(RequestIDHeader)
	if reqID == "" {
		reqID = uuid.NewString()
		out.Header.Set(RequestIDHeader, reqID)
	}

	start := time.Now()
	resp, err := t.next.RoundTrip(out)
	elapsed := time.Since(start)

	status := 0
	if resp != nil {
		status = resp.StatusCode
	}
	t.observe(req, reqID, status, start, elapsed, err)
	if err != nil {
		return nil, err
	}

	if status == http.StatusUnauthorized && !t.isAuthPath(req.URL.Path) {
		t.forceLogout(ctx, req, reqID)
	}
	return resp, nil
}

func (t *authTransport) isAuthPath(path string) bool {
	return strings.HasPrefix(path, t.authPrefix)
}

// forceLogout clears the stored session and signals every view. It runs even
// when the caller's context is already cancelled.
func (t *authTransport) forceLogout(ctx context.Context, req *http.Request, reqID string) {
	ctx = context.WithoutCancel(ctx)
	if err := t.storage.Remove(ctx, session.TokenKey, session.UserKey); err != nil {
		slog.Error("auth_event", "event", "forced_logout", "path", req.URL.Path, "request_id", reqID, "error", err)
		return
	}
	slog.Info("auth_event", "event", "forced_logout", "path", req.URL.Path, "request_id", reqID)
	if t.bus != nil {
		t.bus.Notify()
	}
}

func (t *authTransport) observe(req *http.Request, reqID string, status int, start time.Time, elapsed time.Duration, err error) {
	durationMs := float64(elapsed.Microseconds()) / 1000.0
	attrs := []any{
		"method", req.Method,
		"path", req.URL.Path,
		"status", status,
		"duration_ms", durationMs,
		"request_id", reqID,
	}
	switch {
	case err != nil:
		slog.Warn("upstream_request", append(attrs, "error", err)...)
	case status >= 500:
		slog.Warn("upstream_request", attrs...)
	default:
		slog.Debug("upstream_request", attrs...)
	}
	t.collector.Record(perf.Entry{
		Kind:       perf.KindUpstream,
		Path:       req.Method + " " + req.URL.Path,
		StatusCode: status,
		DurationMs: durationMs,
		Timestamp:  start,
	})
}
