package projections

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"schoolerp/internal/application/listutil"
	"schoolerp/internal/domain/student"
)

// StudentSortColumns are the columns the student list can be sorted by.
var StudentSortColumns = []string{"name", "document", "birth_date"}

// GetStudentListQuery carries list parameters.
type GetStudentListQuery struct {
	listutil.Params
}

// GetStudentListDeps holds dependencies for the student list.
type GetStudentListDeps struct {
	Students StudentLister
}

// GetStudentListResult carries one page of students.
type GetStudentListResult struct {
	Students []student.Student
	Page     listutil.PageInfo
	Params   listutil.Params
}

// QueryGetStudentList fetches every student, then searches, sorts and pages
// locally.
// POST: Students holds at most Params.PerPage rows; Page.Total counts every match
func QueryGetStudentList(ctx context.Context, query GetStudentListQuery, deps GetStudentListDeps) (GetStudentListResult, error) {
	all, err := unwrap(deps.Students.GetAll(ctx))
	if err != nil {
		return GetStudentListResult{}, fmt.Errorf("list students: %w", err)
	}

	matches := student.Search(all, query.Search)
	sortStudents(matches, query.Sort, query.Dir)

	info := listutil.NewPageInfo(query.Page, query.PerPage, len(matches))
	return GetStudentListResult{
		Students: listutil.Paginate(matches, info),
		Page:     info,
		Params:   query.Params,
	}, nil
}

// sortStudents sorts in place. An empty column keeps backend order.
func sortStudents(list []student.Student, col, dir string) {
	var key func(student.Student) string
	switch col {
	case "name":
		key = func(s student.Student) string { return strings.ToLower(s.FullName()) }
	case "document":
		key = func(s student.Student) string { return deref(s.DocumentNumber) }
	case "birth_date":
		key = func(s student.Student) string { return deref(s.BirthDate) }
	default:
		return
	}
	sort.SliceStable(list, func(i, j int) bool {
		if dir == "desc" {
			return key(list[i]) > key(list[j])
		}
		return key(list[i]) < key(list[j])
	})
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
