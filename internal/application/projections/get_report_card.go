package projections

import (
	"context"
	"fmt"

	"schoolerp/internal/domain/academic"
)

// GetReportCardQuery carries the student whose report card is shown.
type GetReportCardQuery struct {
	StudentID string
}

// GetReportCardDeps holds dependencies for the report card projection.
type GetReportCardDeps struct {
	Academic ReportCardReader
}

// CourseGrades is one course's block on the report card.
type CourseGrades struct {
	CourseID   string
	CourseName string
	Grades     academic.ReportCard
	Average    float64
}

// GetReportCardResult carries the report card grouped by course.
type GetReportCardResult struct {
	Courses []CourseGrades
	Average float64
}

// QueryGetReportCard fetches a report card and groups its lines by course.
// POST: Courses appear in the order their first grade appears
func QueryGetReportCard(ctx context.Context, query GetReportCardQuery, deps GetReportCardDeps) (GetReportCardResult, error) {
	card, err := unwrap(deps.Academic.GetReportCard(ctx, query.StudentID))
	if err != nil {
		return GetReportCardResult{}, fmt.Errorf("report card for %s: %w", query.StudentID, err)
	}

	index := map[string]int{}
	var courses []CourseGrades
	for _, e := range card {
		i, ok := index[e.CourseID]
		if !ok {
			i = len(courses)
			index[e.CourseID] = i
			name := e.CourseID
			if e.CourseName != nil && *e.CourseName != "" {
				name = *e.CourseName
			}
			courses = append(courses, CourseGrades{CourseID: e.CourseID, CourseName: name})
		}
		courses[i].Grades = append(courses[i].Grades, e)
	}
	for i := range courses {
		courses[i].Average = courses[i].Grades.Average()
	}
	return GetReportCardResult{Courses: courses, Average: card.Average()}, nil
}
