package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"schoolerp/internal/domain/academic"
	"schoolerp/internal/domain/account"
	"schoolerp/internal/domain/communication"
	"schoolerp/internal/domain/course"
	"schoolerp/internal/domain/finance"
	"schoolerp/internal/domain/student"
)

type recorded struct {
	method string
	path   string
	body   map[string]any
	ctype  string
}

// TestEndpoints verifies the method, path and body of every façade operation.
func TestEndpoints(t *testing.T) {
	var got recorded
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = recorded{method: r.Method, path: r.URL.EscapedPath(), ctype: r.Header.Get("Content-Type")}
		raw, _ := io.ReadAll(r.Body)
		if len(raw) > 0 {
			json.Unmarshal(raw, &got.body)
		}
		w.Write([]byte(`{"success":true}`))
	}))
	defer srv.Close()

	a := New(newTestClient(t, srv, newMemStore(loggedIn), nil, nil))
	ctx := context.Background()
	teachers := account.RoleTeacher

	tests := []struct {
		name   string
		call   func() error
		method string
		path   string
		body   map[string]any
	}{
		{"Auth.Login", func() error {
			_, err := a.Auth.Login(ctx, account.LoginRequest{Email: "a@b.co", Password: "pw"})
			return err
		}, "POST", "/api/auth/login", map[string]any{"email": "a@b.co", "password": "pw"}},
		{"Auth.Register", func() error {
			_, err := a.Auth.Register(ctx, account.RegisterRequest{Email: "n@b.co", Password: "secret1", RoleID: account.RoleGuardian})
			return err
		}, "POST", "/api/auth/register", map[string]any{"email": "n@b.co", "password": "secret1", "role_id": float64(3)}},
		{"Users.GetAll", func() error { _, err := a.Users.GetAll(ctx); return err }, "GET", "/api/users", nil},
		{"Users.Update", func() error {
			_, err := a.Users.Update(ctx, "u1", account.UpdateUserRequest{FullName: "Ana"})
			return err
		}, "PUT", "/api/users/u1", map[string]any{"full_name": "Ana"}},
		{"Users.Delete", func() error { _, err := a.Users.Delete(ctx, "u1"); return err }, "DELETE", "/api/users/u1", nil},

		{"Families.Create", func() error {
			_, err := a.Families.Create(ctx, student.CreateFamilyRequest{FamilyCode: "F-01", MainGuardianID: "g1"})
			return err
		}, "POST", "/api/families", map[string]any{"family_code": "F-01", "main_guardian_id": "g1"}},
		{"Families.GetByID", func() error { _, err := a.Families.GetByID(ctx, "f1"); return err }, "GET", "/api/families/f1", nil},
		{"Families.GetAll", func() error { _, err := a.Families.GetAll(ctx); return err }, "GET", "/api/families", nil},
		{"Families.GetByGuardian", func() error { _, err := a.Families.GetByGuardian(ctx, "g1"); return err }, "GET", "/api/families/guardian/g1", nil},
		{"Families.Update", func() error {
			_, err := a.Families.Update(ctx, "f1", student.UpdateFamilyRequest{FamilyCode: "F-02"})
			return err
		}, "PUT", "/api/families/f1", map[string]any{"family_code": "F-02"}},
		{"Families.Delete", func() error { _, err := a.Families.Delete(ctx, "f1"); return err }, "DELETE", "/api/families/f1", nil},

		{"Students.GetAll", func() error { _, err := a.Students.GetAll(ctx); return err }, "GET", "/api/students", nil},
		{"Students.Create", func() error {
			_, err := a.Students.Create(ctx, student.CreateStudentRequest{FamilyID: "f1", FirstName: "Luis", LastName: "Paz"})
			return err
		}, "POST", "/api/students", map[string]any{"family_id": "f1", "first_name": "Luis", "last_name": "Paz"}},
		{"Students.GetByID", func() error { _, err := a.Students.GetByID(ctx, "s1"); return err }, "GET", "/api/students/s1", nil},
		{"Students.GetByFamily", func() error { _, err := a.Students.GetByFamily(ctx, "f1"); return err }, "GET", "/api/students/family/f1", nil},
		{"Students.Update", func() error {
			_, err := a.Students.Update(ctx, "s1", student.UpdateStudentRequest{MedicalInfo: "none"})
			return err
		}, "PUT", "/api/students/s1", map[string]any{"medical_info": "none"}},
		{"Students.Delete", func() error { _, err := a.Students.Delete(ctx, "s1"); return err }, "DELETE", "/api/students/s1", nil},

		{"Concepts.Create", func() error {
			_, err := a.Concepts.Create(ctx, finance.CreateConceptRequest{Name: "March", Amount: 150, DueDate: "2026-03-31"})
			return err
		}, "POST", "/api/finance/concepts", map[string]any{"name": "March", "amount": float64(150), "due_date": "2026-03-31"}},
		{"Concepts.GetAll", func() error { _, err := a.Concepts.GetAll(ctx); return err }, "GET", "/api/finance/concepts", nil},
		{"Finance.GenerateFees", func() error {
			_, err := a.Finance.GenerateFees(ctx, finance.GenerateFeesRequest{ConceptID: 4, StudentIDs: []string{"s1", "s2"}})
			return err
		}, "POST", "/api/finance/fees/generate", map[string]any{"concept_id": float64(4), "student_ids": []any{"s1", "s2"}}},
		{"Finance.GetFamilyDebt", func() error { _, err := a.Finance.GetFamilyDebt(ctx, "f1"); return err }, "GET", "/api/finance/debts/family/f1", nil},
		{"Finance.RegisterPayment", func() error {
			_, err := a.Finance.RegisterPayment(ctx, finance.RegisterPaymentRequest{StudentFeeID: "fee1", Amount: 50, PaymentMethod: "cash"})
			return err
		}, "POST", "/api/finance/payments", map[string]any{"student_fee_id": "fee1", "amount": float64(50), "payment_method": "cash"}},

		{"Courses.Create", func() error {
			_, err := a.Courses.Create(ctx, course.CreateCourseRequest{Name: "Math", TeacherID: "t1"})
			return err
		}, "POST", "/api/courses", map[string]any{"name": "Math", "teacher_id": "t1"}},
		{"Courses.GetAll", func() error { _, err := a.Courses.GetAll(ctx); return err }, "GET", "/api/courses", nil},
		{"Courses.Update", func() error {
			_, err := a.Courses.Update(ctx, "c1", course.CreateCourseRequest{Name: "Algebra", TeacherID: "t1"})
			return err
		}, "PUT", "/api/courses/c1", map[string]any{"name": "Algebra", "teacher_id": "t1"}},
		{"Courses.Delete", func() error { _, err := a.Courses.Delete(ctx, "c1"); return err }, "DELETE", "/api/courses/c1", nil},

		{"Enrollments.Create", func() error {
			_, err := a.Enrollments.Create(ctx, course.CreateEnrollmentRequest{StudentID: "s1", CourseID: "c1", Year: 2026})
			return err
		}, "POST", "/api/enrollments", map[string]any{"student_id": "s1", "course_id": "c1", "year": float64(2026)}},
		{"Enrollments.GetByStudent", func() error { _, err := a.Enrollments.GetByStudent(ctx, "s1"); return err }, "GET", "/api/enrollments/student/s1", nil},
		{"Enrollments.GetAll", func() error { _, err := a.Enrollments.GetAll(ctx); return err }, "GET", "/api/enrollments", nil},
		{"Enrollments.Delete", func() error { _, err := a.Enrollments.Delete(ctx, "e1"); return err }, "DELETE", "/api/enrollments/e1", nil},

		{"Academic.InputGrades", func() error {
			_, err := a.Academic.InputGrades(ctx, academic.GradeInput{EnrollmentID: "e1", Unit: "U1", Score: 17.5})
			return err
		}, "POST", "/api/academic/grades", map[string]any{"enrollment_id": "e1", "unit": "U1", "score": 17.5}},
		{"Academic.GetReportCard", func() error { _, err := a.Academic.GetReportCard(ctx, "s1"); return err }, "GET", "/api/academic/report-card/s1", nil},
		{"Academic.MarkAttendance", func() error {
			_, err := a.Academic.MarkAttendance(ctx, academic.AttendanceInput{EnrollmentID: "e1", Date: "2026-03-02", Status: "PRESENT"})
			return err
		}, "POST", "/api/academic/attendance", map[string]any{"enrollment_id": "e1", "date": "2026-03-02", "status": "PRESENT"}},
		{"Academic.UpdateGrade", func() error {
			_, err := a.Academic.UpdateGrade(ctx, "g1", academic.UpdateGradeRequest{Unit: "U2", Score: 12})
			return err
		}, "PUT", "/api/academic/grades/g1", map[string]any{"unit": "U2", "score": float64(12)}},
		{"Academic.DeleteGrade", func() error { _, err := a.Academic.DeleteGrade(ctx, "g1"); return err }, "DELETE", "/api/academic/grades/g1", nil},
		{"Academic.GetAttendance", func() error { _, err := a.Academic.GetAttendance(ctx, "e1"); return err }, "GET", "/api/academic/attendance/enrollment/e1", nil},
		{"Academic.DeleteAttendance", func() error { _, err := a.Academic.DeleteAttendance(ctx, "at1"); return err }, "DELETE", "/api/academic/attendance/at1", nil},

		{"Communication.GetFeed", func() error { _, err := a.Communication.GetFeed(ctx); return err }, "GET", "/api/communications/feed", nil},
		{"Communication.CreatePost", func() error {
			_, err := a.Communication.CreatePost(ctx, communication.CreatePostRequest{Title: "Trip", Body: "Friday", Type: "event", TargetRole: &teachers})
			return err
		}, "POST", "/api/communications", map[string]any{"title": "Trip", "body": "Friday", "type": "event", "target_role": float64(2)}},

		{"escaped id", func() error { _, err := a.Students.GetByID(ctx, "a/b c"); return err }, "GET", "/api/students/a%2Fb%20c", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got = recorded{}
			if err := tt.call(); err != nil {
				t.Fatalf("call: %v", err)
			}
			if got.method != tt.method || got.path != tt.path {
				t.Errorf("request = %s %s, want %s %s", got.method, got.path, tt.method, tt.path)
			}
			if tt.body == nil {
				if got.body != nil {
					t.Errorf("unexpected body %v", got.body)
				}
				return
			}
			if got.ctype != "application/json" {
				t.Errorf("Content-Type = %q", got.ctype)
			}
			want, _ := json.Marshal(tt.body)
			have, _ := json.Marshal(got.body)
			if string(want) != string(have) {
				t.Errorf("body = %s, want %s", have, want)
			}
		})
	}
}

// TestGetReportCard_Nested verifies the nested response shape reaches callers flattened.
func TestGetReportCard_Nested(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true,"data":{"courses":[{"course_id":"c1","course_name":"Math","grades":[{"id":"g1","unit":"U1","score":14},{"id":"g2","unit":"U2","score":16}]}]}}`))
	}))
	defer srv.Close()

	env, err := New(newTestClient(t, srv, newMemStore(loggedIn), nil, nil)).Academic.GetReportCard(context.Background(), "s1")
	if err != nil {
		t.Fatalf("GetReportCard: %v", err)
	}
	if len(env.Data) != 2 || env.Data.Average() != 15 {
		t.Errorf("Data = %+v", env.Data)
	}
}

// TestGetFamilyDebt_StringAmounts verifies amounts sent as strings still total.
func TestGetFamilyDebt_StringAmounts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true,"data":{"items":[{"fee_id":"f1","balance":"100.50","original_amount":"120","status":"partial"},{"fee_id":"f2","balance":20,"original_amount":20,"status":"PENDING"}]}}`))
	}))
	defer srv.Close()

	env, err := New(newTestClient(t, srv, newMemStore(loggedIn), nil, nil)).Finance.GetFamilyDebt(context.Background(), "fam")
	if err != nil {
		t.Fatalf("GetFamilyDebt: %v", err)
	}
	if got := finance.TotalBalance(env.Data); got != 120.5 {
		t.Errorf("TotalBalance = %v, want 120.5", got)
	}
}
