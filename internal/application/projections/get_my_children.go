package projections

import (
	"context"
	"fmt"

	"schoolerp/internal/domain/student"
)

// GetMyChildrenQuery carries the guardian whose children are listed.
type GetMyChildrenQuery struct {
	GuardianID string
}

// GetMyChildrenDeps holds dependencies for the my-children projection.
type GetMyChildrenDeps struct {
	Families FamilyLister
	Students StudentLister
}

// GetMyChildrenResult carries the guardian's families and their students.
type GetMyChildrenResult struct {
	FamilyCodes []string
	Students    []student.Student
}

// QueryGetMyChildren lists every student in every family the guardian heads.
// PRE: GuardianID is the logged-in user's id
// POST: Students are grouped in family order; a guardian with no family gets an empty result
func QueryGetMyChildren(ctx context.Context, query GetMyChildrenQuery, deps GetMyChildrenDeps) (GetMyChildrenResult, error) {
	families, err := unwrap(deps.Families.GetByGuardian(ctx, query.GuardianID))
	if err != nil {
		return GetMyChildrenResult{}, fmt.Errorf("families for guardian: %w", err)
	}

	result := GetMyChildrenResult{FamilyCodes: familyCodes(families)}
	for _, f := range families {
		students, err := unwrap(deps.Students.GetByFamily(ctx, f.ID))
		if err != nil {
			return GetMyChildrenResult{}, fmt.Errorf("students of family %s: %w", f.ID, err)
		}
		result.Students = append(result.Students, students...)
	}
	return result, nil
}

func familyCodes(families []student.Family) []string {
	codes := make([]string, 0, len(families))
	for _, f := range families {
		if c := f.Code(); c != "" {
			codes = append(codes, c)
		}
	}
	return codes
}
