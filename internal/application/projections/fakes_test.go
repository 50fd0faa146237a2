package projections

import (
	"context"
	"errors"

	"schoolerp/internal/adapters/api"
	"schoolerp/internal/domain/academic"
	"schoolerp/internal/domain/finance"
	"schoolerp/internal/domain/student"
)

var errBackend = errors.New("backend unavailable")

func ptr(s string) *string { return &s }

func ok[T any](data T) *api.Envelope[T] {
	return &api.Envelope[T]{Success: true, Data: data}
}

type mockFamilies struct {
	byGuardian map[string][]student.Family
	err        error
}

// GetByGuardian returns the seeded families of a guardian.
// PRE: guardianID is non-empty
// POST: Returns the seeded families or the configured error
func (m *mockFamilies) GetByGuardian(_ context.Context, guardianID string) (*api.Envelope[[]student.Family], error) {
	if m.err != nil {
		return nil, m.err
	}
	return ok(m.byGuardian[guardianID]), nil
}

type mockStudents struct {
	all      []student.Student
	byFamily map[string][]student.Student
	failFor  string
}

// GetAll returns every seeded student.
func (m *mockStudents) GetAll(_ context.Context) (*api.Envelope[[]student.Student], error) {
	return ok(m.all), nil
}

// GetByFamily returns the seeded students of a family.
// PRE: familyID is non-empty
// POST: Returns the seeded students, or a success:false envelope for failFor
func (m *mockStudents) GetByFamily(_ context.Context, familyID string) (*api.Envelope[[]student.Student], error) {
	if familyID == m.failFor {
		return &api.Envelope[[]student.Student]{Success: false, Message: "family not found"}, nil
	}
	return ok(m.byFamily[familyID]), nil
}

type mockDebts struct {
	byFamily map[string]finance.DebtList
	failFor  string
}

// GetFamilyDebt returns the seeded debt lines of a family.
// PRE: familyID is non-empty
// POST: Returns the seeded lines, or a 404 for failFor
func (m *mockDebts) GetFamilyDebt(_ context.Context, familyID string) (*api.Envelope[finance.DebtList], error) {
	if familyID == m.failFor {
		return nil, &api.HTTPError{StatusCode: 404, Method: "GET", Path: "/finance/debts/family/" + familyID}
	}
	return ok(m.byFamily[familyID]), nil
}

type mockReportCards struct {
	cards map[string]academic.ReportCard
}

// GetReportCard returns the seeded card of a student.
func (m *mockReportCards) GetReportCard(_ context.Context, studentID string) (*api.Envelope[academic.ReportCard], error) {
	card, found := m.cards[studentID]
	if !found {
		return nil, errBackend
	}
	return ok(card), nil
}
