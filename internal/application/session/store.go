// Package session is the single authority on whether a user is logged in.
// Every page and command reads the session through a Store, and durable
// storage is the source of truth the Store re-derives itself from.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"schoolerp/internal/adapters/storage/local"
	"schoolerp/internal/domain/account"
	domain "schoolerp/internal/domain/session"
)

// Subscriber hands out change-signal subscriptions.
type Subscriber interface {
	Subscribe() (<-chan struct{}, func())
}

// Errors returned by Login.
var (
	ErrEmptyToken = errors.New("session: token is empty")
	ErrEmptyUser  = errors.New("session: user id is empty")
)

// Store holds the current session in memory, mirrored to durable storage.
type Store struct {
	mu      sync.RWMutex
	kv      local.Store
	bus     local.Notifier
	current domain.Session
}

// NewStore hydrates a Store from kv. A missing, partial or corrupt stored
// session hydrates as logged out; only storage I/O failures are errors.
// bus may be nil when no other view needs to hear about changes.
func NewStore(ctx context.Context, kv local.Store, bus local.Notifier) (*Store, error) {
	s := &Store{kv: kv, bus: bus}
	sess, err := load(ctx, kv)
	if err != nil {
		return nil, err
	}
	s.current = sess
	return s, nil
}

// Snapshot returns the token and user as one consistent pair.
func (s *Store) Snapshot() domain.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copySession(s.current)
}

// Token returns the bearer token, or "" when logged out.
func (s *Store) Token() string {
	return s.Snapshot().Token
}

// User returns a copy of the profile, or nil when logged out.
func (s *Store) User() *account.User {
	return s.Snapshot().User
}

// IsAuthenticated reports whether both token and user are present.
func (s *Store) IsAuthenticated() bool {
	return s.Snapshot().IsAuthenticated()
}

// Login persists token and user together, then updates memory. The lock is
// held across both steps so no reader sees one without the other.
// PRE: token is non-empty, user.UserID is non-empty
// POST: Durable storage and memory both hold the new session
func (s *Store) Login(ctx context.Context, token string, user account.User) error {
	if token == "" {
		return ErrEmptyToken
	}
	if user.UserID == "" {
		return ErrEmptyUser
	}
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("session: encode user: %w", err)
	}

	s.mu.Lock()
	err = s.kv.SetMany(ctx, map[string]string{
		domain.TokenKey: token,
		domain.UserKey:  string(raw),
	})
	if err == nil {
		s.current = domain.Session{Token: token, User: &user}
	}
	s.mu.Unlock()
	if err != nil {
		return fmt.Errorf("session: persist login: %w", err)
	}

	slog.Info("auth_event", "event", "login_success", "user_id", user.UserID, "role", user.RoleID.String())
	s.notify()
	return nil
}

// Logout removes both keys from durable storage and clears memory.
// POST: Neither key is stored; IsAuthenticated is false
func (s *Store) Logout(ctx context.Context) error {
	s.mu.Lock()
	prev := s.current
	err := s.kv.Remove(ctx, domain.TokenKey, domain.UserKey)
	if err == nil {
		s.current = domain.Session{}
	}
	s.mu.Unlock()
	if err != nil {
		return fmt.Errorf("session: persist logout: %w", err)
	}

	if prev.User != nil {
		slog.Info("auth_event", "event", "logout", "user_id", prev.User.UserID)
	}
	s.notify()
	return nil
}

// Refresh re-derives memory from durable storage. It reports whether the
// authenticated identity changed.
func (s *Store) Refresh(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, err := load(ctx, s.kv)
	if err != nil {
		return false, err
	}
	changed := !sameSession(s.current, sess)
	s.current = sess
	return changed, nil
}

// Watch re-derives the session on every change signal until ctx is done.
// Run it in its own goroutine.
func (s *Store) Watch(ctx context.Context, sub Subscriber) {
	ch, cancel := sub.Subscribe()
	defer cancel()
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-ch:
			if !ok {
				return
			}
			changed, err := s.Refresh(ctx)
			if err != nil {
				if ctx.Err() == nil {
					slog.Error("storage_signal", "action", "rehydrate", "error", err)
				}
				continue
			}
			if changed {
				sess := s.Snapshot()
				if sess.IsAuthenticated() {
					slog.Info("auth_event", "event", "session_adopted", "user_id", sess.User.UserID)
				} else {
					slog.Info("auth_event", "event", "session_cleared")
				}
			}
		}
	}
}

func (s *Store) notify() {
	if s.bus != nil {
		s.bus.Notify()
	}
}

// load reads both keys. Partial or corrupt state is logged out.
func load(ctx context.Context, kv local.Store) (domain.Session, error) {
	token, ok, err := kv.Get(ctx, domain.TokenKey)
	if err != nil {
		return domain.Session{}, fmt.Errorf("session: read token: %w", err)
	}
	if !ok || token == "" {
		return domain.Session{}, nil
	}
	raw, ok, err := kv.Get(ctx, domain.UserKey)
	if err != nil {
		return domain.Session{}, fmt.Errorf("session: read user: %w", err)
	}
	if !ok {
		return domain.Session{}, nil
	}
	var user account.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		slog.Warn("auth_event", "event", "corrupt_session", "error", err)
		return domain.Session{}, nil
	}
	if user.UserID == "" {
		slog.Warn("auth_event", "event", "corrupt_session", "error", "stored user has no id")
		return domain.Session{}, nil
	}
	return domain.Session{Token: token, User: &user}, nil
}

func copySession(s domain.Session) domain.Session {
	if s.User == nil {
		return s
	}
	u := *s.User
	return domain.Session{Token: s.Token, User: &u}
}

func sameSession(a, b domain.Session) bool {
	if a.Token != b.Token {
		return false
	}
	if a.User == nil || b.User == nil {
		return a.User == b.User
	}
	return *a.User == *b.User
}

type contextKey struct{}

// WithStore returns a context carrying s.
func WithStore(ctx context.Context, s *Store) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}

// FromContext returns the Store carried by ctx. It panics when there is
// none: a page or command wired without a Store is a construction bug.
func FromContext(ctx context.Context) *Store {
	s, ok := ctx.Value(contextKey{}).(*Store)
	if !ok || s == nil {
		panic("session: no Store in context")
	}
	return s
}
