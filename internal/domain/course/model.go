package course

import "schoolerp/internal/domain/validation"

// Course is a subject taught by one teacher.
type Course struct {
	ID           string         `json:"id"`
	Name         *string        `json:"name"`
	TeacherID    string         `json:"teacher_id"`
	ScheduleJSON map[string]any `json:"schedule_json"`
}

// Title returns the course name or a placeholder.
func (c Course) Title() string {
	if c.Name == nil || *c.Name == "" {
		return "(untitled course)"
	}
	return *c.Name
}

// Enrollment joins one student to one course for a school year. Grades and
// attendance hang off the enrollment id.
type Enrollment struct {
	ID        string `json:"id"`
	StudentID string `json:"student_id"`
	CourseID  string `json:"course_id"`
	Year      int    `json:"year"`
}

// CreateCourseRequest is the body of POST /courses and PUT /courses/{id}.
type CreateCourseRequest struct {
	Name         string         `json:"name" validate:"required,max=120"`
	TeacherID    string         `json:"teacher_id" validate:"required"`
	ScheduleJSON map[string]any `json:"schedule_json,omitempty"`
}

// Validate checks the request before it is sent.
func (r CreateCourseRequest) Validate() error {
	return validation.Struct(r)
}

// CreateEnrollmentRequest is the body of POST /enrollments.
type CreateEnrollmentRequest struct {
	StudentID string `json:"student_id" validate:"required"`
	CourseID  string `json:"course_id" validate:"required"`
	Year      int    `json:"year" validate:"required,gte=2000,lte=2100"`
}

// Validate checks the request before it is sent.
func (r CreateEnrollmentRequest) Validate() error {
	return validation.Struct(r)
}

// IndexByID maps courses by id for joining enrollments to course names.
func IndexByID(courses []Course) map[string]Course {
	idx := make(map[string]Course, len(courses))
	for _, c := range courses {
		idx[c.ID] = c
	}
	return idx
}
