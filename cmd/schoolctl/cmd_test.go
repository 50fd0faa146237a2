package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"schoolerp/internal/adapters/api"
	"schoolerp/internal/adapters/storage"
	"schoolerp/internal/adapters/storage/local"
	"schoolerp/internal/application/session"
	"schoolerp/internal/domain/account"
)

type cliTest struct {
	name       string
	args       []string // without program name
	wantErr    error
	wantErrStr string
}

type route struct {
	status  int
	success bool
	data    any
	message string
}

// setup wires a commandLine to a fake backend answering routes, keyed
// "METHOD /api/path".
func setup(t *testing.T, role account.Role, routes map[string]route) (*commandLine, *session.Store, *bytes.Buffer) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rt, ok := routes[r.Method+" "+r.URL.Path]
		if !ok {
			rt = route{status: http.StatusNotFound, message: "not found"}
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(rt.status)
		json.NewEncoder(w).Encode(map[string]any{"success": rt.success, "data": rt.data, "message": rt.message})
	}))
	t.Cleanup(srv.Close)

	db, err := storage.Open(filepath.Join(t.TempDir(), "cli.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := storage.InitDB(db); err != nil {
		t.Fatalf("InitDB: %v", err)
	}
	kv := local.NewSQLiteStore(db)
	store, err := session.NewStore(context.Background(), kv, nil)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	if role != account.RoleNone {
		user := account.User{UserID: "u1", Email: "ana@school.test", RoleID: role, FullName: "Ana Ruiz"}
		if err := store.Login(context.Background(), "tok", user); err != nil {
			t.Fatalf("Login: %v", err)
		}
	}
	client, err := api.NewClient(api.Options{BaseURL: srv.URL + "/api", Storage: kv})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	out := &bytes.Buffer{}
	return newCommandLine(store, api.New(client), out), store, out
}

func runTests(t *testing.T, cli *commandLine, tests []cliTest) {
	t.Helper()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := cli.run(context.Background(), append([]string{"schoolctl"}, tt.args...))
			switch {
			case tt.wantErr != nil:
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("err = %v, want %v", err, tt.wantErr)
				}
			case tt.wantErrStr != "":
				if err == nil || !strings.Contains(err.Error(), tt.wantErrStr) {
					t.Errorf("err = %v, want it to contain %q", err, tt.wantErrStr)
				}
			default:
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
			}
		})
	}
}

func Test_commandLine_usage(t *testing.T) {
	cli, _, out := setup(t, account.RoleNone, nil)
	runTests(t, cli, []cliTest{
		{name: "no command", args: nil, wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "logged out", args: []string{"students"}, wantErr: errNotLoggedIn},
		{name: "login without email", args: []string{"login"}, wantErr: errHelp},
	})
	if !strings.Contains(out.String(), "report-card -student ID") {
		t.Error("usage does not list report-card")
	}
}

// Test_commandLine_roleGuard verifies commands refuse roles their module is
// not mapped to.
func Test_commandLine_roleGuard(t *testing.T) {
	empty := route{status: http.StatusOK, success: true, data: []any{}}
	routes := map[string]route{
		"GET /api/students":               empty,
		"GET /api/families":               empty,
		"GET /api/communications/feed":    empty,
		"GET /api/families/guardian/u1":   empty,
		"GET /api/finance/concepts":       empty,
		"GET /api/academic/report-card/s": empty,
	}

	teacher, _, _ := setup(t, account.RoleTeacher, routes)
	runTests(t, teacher, []cliTest{
		{name: "teacher students", args: []string{"students"}, wantErrStr: "not available"},
		{name: "teacher concepts", args: []string{"concepts"}, wantErrStr: "not available"},
		{name: "teacher my-debts", args: []string{"my-debts"}, wantErrStr: "not available"},
		{name: "teacher feed", args: []string{"feed"}},
		{name: "teacher nav", args: []string{"nav"}},
	})

	guardian, _, _ := setup(t, account.RoleGuardian, routes)
	runTests(t, guardian, []cliTest{
		{name: "guardian families", args: []string{"families"}, wantErrStr: "not available"},
		{name: "guardian report card", args: []string{"report-card", "-student", "s"}, wantErrStr: "not available"},
		{name: "guardian post", args: []string{"post", "-title", "t", "-body", "b"}, wantErrStr: "not available"},
		{name: "guardian my-children", args: []string{"my-children"}},
		{name: "guardian feed", args: []string{"feed"}},
	})

	admin, _, _ := setup(t, account.RoleAdmin, routes)
	runTests(t, admin, []cliTest{
		{name: "admin students", args: []string{"students"}},
		{name: "admin my-children", args: []string{"my-children"}, wantErrStr: "not available"},
		{name: "admin login", args: []string{"login", "-email", "x@y.z"}, wantErrStr: "already logged in"},
		{name: "bad format", args: []string{"families", "-o", "xml"}, wantErrStr: "unknown output format"},
	})
}

func Test_commandLine_login(t *testing.T) {
	cli, store, out := setup(t, account.RoleNone, map[string]route{
		"POST /api/auth/login": {status: http.StatusOK, success: true, data: map[string]any{
			"token": "jwt",
			"user":  map[string]any{"id": "u7", "email": "rosa@school.test", "role_id": 2, "full_name": "Rosa Díaz"},
		}},
	})
	defer func(orig func(int) ([]byte, error)) { readPasswordFunc = orig }(readPasswordFunc)
	readPasswordFunc = func(int) ([]byte, error) { return []byte("secret"), nil }

	runTests(t, cli, []cliTest{{name: "login", args: []string{"login", "-email", "rosa@school.test"}}})

	if !store.IsAuthenticated() || store.User().UserID != "u7" || store.User().RoleID != account.RoleTeacher {
		t.Fatalf("session after login = %+v", store.Snapshot())
	}
	if !strings.Contains(out.String(), "Welcome, Rosa Díaz!") {
		t.Errorf("output = %q", out.String())
	}
}

func Test_commandLine_loginRejected(t *testing.T) {
	cli, store, _ := setup(t, account.RoleNone, map[string]route{
		"POST /api/auth/login": {status: http.StatusUnauthorized, message: "Invalid credentials"},
	})
	defer func(orig func(int) ([]byte, error)) { readPasswordFunc = orig }(readPasswordFunc)
	readPasswordFunc = func(int) ([]byte, error) { return []byte("wrong"), nil }

	runTests(t, cli, []cliTest{
		{name: "bad password", args: []string{"login", "-email", "rosa@school.test"}, wantErrStr: "Invalid credentials"},
		{name: "bad email", args: []string{"login", "-email", "rosa"}, wantErrStr: "email must be a valid email address"},
	})
	if store.IsAuthenticated() {
		t.Error("rejected login stored a session")
	}
}

func Test_commandLine_logout(t *testing.T) {
	cli, store, _ := setup(t, account.RoleAdmin, nil)
	runTests(t, cli, []cliTest{{name: "logout", args: []string{"logout"}}})
	if store.IsAuthenticated() {
		t.Error("still logged in")
	}
}

func Test_commandLine_output(t *testing.T) {
	routes := map[string]route{
		"GET /api/families/f1": {status: http.StatusOK, success: true, data: map[string]any{"id": "f1"}},
		"GET /api/students/family/f1": {status: http.StatusOK, success: true, data: []map[string]any{
			{"id": "s1", "family_id": "f1", "first_name": "Lucía", "last_name": "Gómez", "document_number": "7123"},
			{"id": "s2", "family_id": "f1", "first_name": "Mateo", "last_name": "Gómez"},
		}},
	}

	t.Run("json", func(t *testing.T) {
		cli, _, out := setup(t, account.RoleAdmin, routes)
		runTests(t, cli, []cliTest{{name: "students", args: []string{"students", "-family", "f1", "-o", "json"}}})
		var got []map[string]any
		if err := json.Unmarshal(out.Bytes(), &got); err != nil {
			t.Fatalf("output is not JSON: %v\n%s", err, out.String())
		}
		if len(got) != 2 || got[0]["id"] != "s1" {
			t.Errorf("got %v", got)
		}
	})

	t.Run("table with search", func(t *testing.T) {
		cli, _, out := setup(t, account.RoleAdmin, routes)
		runTests(t, cli, []cliTest{{name: "students", args: []string{"students", "-family", "f1", "-search", "7123"}}})
		if !strings.Contains(out.String(), "Lucía Gómez") || strings.Contains(out.String(), "Mateo") {
			t.Errorf("output = %q", out.String())
		}
	})

	t.Run("yaml", func(t *testing.T) {
		cli, _, out := setup(t, account.RoleAdmin, nil)
		runTests(t, cli, []cliTest{{name: "whoami", args: []string{"whoami", "-o", "yaml"}}})
		if !strings.Contains(out.String(), "email: ana@school.test") {
			t.Errorf("output = %q", out.String())
		}
	})
}

func Test_commandLine_myDebts(t *testing.T) {
	cli, _, out := setup(t, account.RoleGuardian, map[string]route{
		"GET /api/families/guardian/u1": {status: http.StatusOK, success: true, data: []map[string]any{
			{"id": "f1", "family_code": "FAM-1", "main_guardian_id": "u1"},
		}},
		"GET /api/finance/debts/family/f1": {status: http.StatusOK, success: true, data: []map[string]any{
			{"student_id": "s1", "student_first_name": "Lucía", "fee_id": "d1", "concept_name": "March", "original_amount": 100, "balance": 100, "status": "PENDING"},
			{"student_id": "s1", "student_first_name": "Lucía", "fee_id": "d2", "concept_name": "Books", "original_amount": 50, "balance": 25.5, "status": "PARTIAL"},
		}},
	})
	runTests(t, cli, []cliTest{{name: "my-debts", args: []string{"my-debts"}}})
	for _, want := range []string{"March", "Books", "TOTAL", "S/ 125.50"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}
}

// Test_commandLine_expiredSession verifies a 401 clears the stored session.
func Test_commandLine_expiredSession(t *testing.T) {
	cli, store, _ := setup(t, account.RoleAdmin, map[string]route{
		"GET /api/users": {status: http.StatusUnauthorized, message: "jwt expired"},
	})
	runTests(t, cli, []cliTest{{name: "users", args: []string{"users"}, wantErrStr: "session expired"}})
	if _, err := store.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if store.IsAuthenticated() {
		t.Error("session survived a 401")
	}
}
