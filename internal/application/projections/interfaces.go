package projections

import (
	"context"

	"schoolerp/internal/adapters/api"
	"schoolerp/internal/domain/academic"
	"schoolerp/internal/domain/finance"
	"schoolerp/internal/domain/student"
)

// FamilyLister finds the families a guardian heads.
type FamilyLister interface {
	GetByGuardian(ctx context.Context, guardianID string) (*api.Envelope[[]student.Family], error)
}

// StudentLister reads students, either all of them or one family's.
type StudentLister interface {
	GetAll(ctx context.Context) (*api.Envelope[[]student.Student], error)
	GetByFamily(ctx context.Context, familyID string) (*api.Envelope[[]student.Student], error)
}

// DebtReader reads a family's debt report.
type DebtReader interface {
	GetFamilyDebt(ctx context.Context, familyID string) (*api.Envelope[finance.DebtList], error)
}

// ReportCardReader reads a student's report card.
type ReportCardReader interface {
	GetReportCard(ctx context.Context, studentID string) (*api.Envelope[academic.ReportCard], error)
}

// unwrap turns a transport error or a success:false envelope into one error.
func unwrap[T any](env *api.Envelope[T], err error) (T, error) {
	var zero T
	if err != nil {
		return zero, err
	}
	if err := env.Err(); err != nil {
		return zero, err
	}
	return env.Data, nil
}
