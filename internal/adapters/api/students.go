package api

import (
	"context"
	"net/http"

	"schoolerp/internal/domain/student"
)

// FamiliesAPI covers /families.
type FamiliesAPI struct{ c *Client }

func (f *FamiliesAPI) Create(ctx context.Context, req student.CreateFamilyRequest) (*Envelope[student.Family], error) {
	return call[student.Family](ctx, f.c, http.MethodPost, "/families", req)
}

func (f *FamiliesAPI) GetByID(ctx context.Context, familyID string) (*Envelope[student.Family], error) {
	return call[student.Family](ctx, f.c, http.MethodGet, "/families/"+id(familyID), nil)
}

func (f *FamiliesAPI) GetAll(ctx context.Context) (*Envelope[[]student.Family], error) {
	return call[[]student.Family](ctx, f.c, http.MethodGet, "/families", nil)
}

// GetByGuardian lists the families whose main guardian is guardianID.
func (f *FamiliesAPI) GetByGuardian(ctx context.Context, guardianID string) (*Envelope[[]student.Family], error) {
	return call[[]student.Family](ctx, f.c, http.MethodGet, "/families/guardian/"+id(guardianID), nil)
}

func (f *FamiliesAPI) Update(ctx context.Context, familyID string, req student.UpdateFamilyRequest) (*Envelope[student.Family], error) {
	return call[student.Family](ctx, f.c, http.MethodPut, "/families/"+id(familyID), req)
}

func (f *FamiliesAPI) Delete(ctx context.Context, familyID string) (*Envelope[Untyped], error) {
	return call[Untyped](ctx, f.c, http.MethodDelete, "/families/"+id(familyID), nil)
}

// StudentsAPI covers /students.
type StudentsAPI struct{ c *Client }

func (s *StudentsAPI) GetAll(ctx context.Context) (*Envelope[[]student.Student], error) {
	return call[[]student.Student](ctx, s.c, http.MethodGet, "/students", nil)
}

func (s *StudentsAPI) Create(ctx context.Context, req student.CreateStudentRequest) (*Envelope[student.Student], error) {
	return call[student.Student](ctx, s.c, http.MethodPost, "/students", req)
}

func (s *StudentsAPI) GetByID(ctx context.Context, studentID string) (*Envelope[student.Student], error) {
	return call[student.Student](ctx, s.c, http.MethodGet, "/students/"+id(studentID), nil)
}

func (s *StudentsAPI) GetByFamily(ctx context.Context, familyID string) (*Envelope[[]student.Student], error) {
	return call[[]student.Student](ctx, s.c, http.MethodGet, "/students/family/"+id(familyID), nil)
}

func (s *StudentsAPI) Update(ctx context.Context, studentID string, req student.UpdateStudentRequest) (*Envelope[student.Student], error) {
	return call[student.Student](ctx, s.c, http.MethodPut, "/students/"+id(studentID), req)
}

func (s *StudentsAPI) Delete(ctx context.Context, studentID string) (*Envelope[Untyped], error) {
	return call[Untyped](ctx, s.c, http.MethodDelete, "/students/"+id(studentID), nil)
}
