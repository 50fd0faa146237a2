package api

import (
	"context"
	"net/http"

	"schoolerp/internal/domain/academic"
	"schoolerp/internal/domain/course"
)

// CoursesAPI covers /courses.
type CoursesAPI struct{ c *Client }

func (a *CoursesAPI) Create(ctx context.Context, req course.CreateCourseRequest) (*Envelope[course.Course], error) {
	return call[course.Course](ctx, a.c, http.MethodPost, "/courses", req)
}

func (a *CoursesAPI) GetAll(ctx context.Context) (*Envelope[[]course.Course], error) {
	return call[[]course.Course](ctx, a.c, http.MethodGet, "/courses", nil)
}

func (a *CoursesAPI) Update(ctx context.Context, courseID string, req course.CreateCourseRequest) (*Envelope[course.Course], error) {
	return call[course.Course](ctx, a.c, http.MethodPut, "/courses/"+id(courseID), req)
}

func (a *CoursesAPI) Delete(ctx context.Context, courseID string) (*Envelope[Untyped], error) {
	return call[Untyped](ctx, a.c, http.MethodDelete, "/courses/"+id(courseID), nil)
}

// EnrollmentsAPI covers /enrollments.
type EnrollmentsAPI struct{ c *Client }

func (a *EnrollmentsAPI) Create(ctx context.Context, req course.CreateEnrollmentRequest) (*Envelope[course.Enrollment], error) {
	return call[course.Enrollment](ctx, a.c, http.MethodPost, "/enrollments", req)
}

func (a *EnrollmentsAPI) GetByStudent(ctx context.Context, studentID string) (*Envelope[[]course.Enrollment], error) {
	return call[[]course.Enrollment](ctx, a.c, http.MethodGet, "/enrollments/student/"+id(studentID), nil)
}

func (a *EnrollmentsAPI) GetAll(ctx context.Context) (*Envelope[[]course.Enrollment], error) {
	return call[[]course.Enrollment](ctx, a.c, http.MethodGet, "/enrollments", nil)
}

func (a *EnrollmentsAPI) Delete(ctx context.Context, enrollmentID string) (*Envelope[Untyped], error) {
	return call[Untyped](ctx, a.c, http.MethodDelete, "/enrollments/"+id(enrollmentID), nil)
}

// AcademicAPI covers grades, report cards and attendance.
type AcademicAPI struct{ c *Client }

// InputGrades records a grade against an enrollment.
func (a *AcademicAPI) InputGrades(ctx context.Context, req academic.GradeInput) (*Envelope[Untyped], error) {
	return call[Untyped](ctx, a.c, http.MethodPost, "/academic/grades", req)
}

// GetReportCard returns a student's grades flattened across courses.
func (a *AcademicAPI) GetReportCard(ctx context.Context, studentID string) (*Envelope[academic.ReportCard], error) {
	return call[academic.ReportCard](ctx, a.c, http.MethodGet, "/academic/report-card/"+id(studentID), nil)
}

// MarkAttendance records one attendance mark.
func (a *AcademicAPI) MarkAttendance(ctx context.Context, req academic.AttendanceInput) (*Envelope[Untyped], error) {
	return call[Untyped](ctx, a.c, http.MethodPost, "/academic/attendance", req)
}

func (a *AcademicAPI) UpdateGrade(ctx context.Context, gradeID string, req academic.UpdateGradeRequest) (*Envelope[Untyped], error) {
	return call[Untyped](ctx, a.c, http.MethodPut, "/academic/grades/"+id(gradeID), req)
}

func (a *AcademicAPI) DeleteGrade(ctx context.Context, gradeID string) (*Envelope[Untyped], error) {
	return call[Untyped](ctx, a.c, http.MethodDelete, "/academic/grades/"+id(gradeID), nil)
}

// GetAttendance lists the marks recorded for an enrollment.
func (a *AcademicAPI) GetAttendance(ctx context.Context, enrollmentID string) (*Envelope[[]academic.Attendance], error) {
	return call[[]academic.Attendance](ctx, a.c, http.MethodGet, "/academic/attendance/enrollment/"+id(enrollmentID), nil)
}

func (a *AcademicAPI) DeleteAttendance(ctx context.Context, attendanceID string) (*Envelope[Untyped], error) {
	return call[Untyped](ctx, a.c, http.MethodDelete, "/academic/attendance/"+id(attendanceID), nil)
}
