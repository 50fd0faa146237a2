package academic

import (
	"bytes"
	"encoding/json"
	"fmt"

	"schoolerp/internal/domain/validation"
)

// Grading scale bounds.
const (
	MinScore = 0
	MaxScore = 20
)

// Attendance statuses accepted by the backend.
const (
	AttendancePresent = "PRESENT"
	AttendanceAbsent  = "ABSENT"
	AttendanceLate    = "LATE"
	AttendanceExcused = "EXCUSED"
)

// AttendanceStatuses lists the statuses in form order.
var AttendanceStatuses = []string{AttendancePresent, AttendanceAbsent, AttendanceLate, AttendanceExcused}

// Grade is a score recorded against an enrollment.
type Grade struct {
	ID           string  `json:"id"`
	EnrollmentID string  `json:"enrollment_id"`
	Unit         *string `json:"unit"`
	Score        float64 `json:"score"`
	Comments     *string `json:"comments"`
}

// ReportCardEntry is one grade line of a student's report card.
type ReportCardEntry struct {
	GradeID    string  `json:"grade_id"`
	CourseID   string  `json:"course_id"`
	CourseName *string `json:"course_name"`
	Unit       *string `json:"unit"`
	Score      float64 `json:"score"`
	Comments   *string `json:"comments"`
}

// ReportCard is the data member of GET /academic/report-card/{id}. Three
// shapes are in circulation: a flat array of entries, {"items": [...]}, and
// {"courses": [{"course_id", "course_name", "grades": [...]}]}. All decode
// to the flat form.
type ReportCard []ReportCardEntry

type nestedGrade struct {
	GradeID  string  `json:"grade_id"`
	ID       string  `json:"id"`
	Unit     *string `json:"unit"`
	Score    float64 `json:"score"`
	Comments *string `json:"comments"`
}

type nestedCourse struct {
	CourseID   string        `json:"course_id"`
	CourseName *string       `json:"course_name"`
	Grades     []nestedGrade `json:"grades"`
}

// UnmarshalJSON flattens whichever shape the backend sent.
func (rc *ReportCard) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*rc = nil
		return nil
	}
	if b[0] == '[' {
		var entries []ReportCardEntry
		if err := json.Unmarshal(b, &entries); err != nil {
			return err
		}
		*rc = entries
		return nil
	}

	var obj struct {
		Items   []ReportCardEntry `json:"items"`
		Courses []nestedCourse    `json:"courses"`
	}
	if err := json.Unmarshal(b, &obj); err != nil {
		return fmt.Errorf("report card: %w", err)
	}
	if obj.Items != nil {
		*rc = obj.Items
		return nil
	}
	var flat []ReportCardEntry
	for _, c := range obj.Courses {
		for _, g := range c.Grades {
			id := g.GradeID
			if id == "" {
				id = g.ID
			}
			flat = append(flat, ReportCardEntry{
				GradeID:    id,
				CourseID:   c.CourseID,
				CourseName: c.CourseName,
				Unit:       g.Unit,
				Score:      g.Score,
				Comments:   g.Comments,
			})
		}
	}
	*rc = flat
	return nil
}

// Average returns the mean score, or 0 for an empty card.
func (rc ReportCard) Average() float64 {
	if len(rc) == 0 {
		return 0
	}
	var sum float64
	for _, e := range rc {
		sum += e.Score
	}
	return sum / float64(len(rc))
}

// Attendance is one attendance mark.
type Attendance struct {
	ID           string `json:"id"`
	EnrollmentID string `json:"enrollment_id"`
	Date         string `json:"date"`
	Status       string `json:"status"`
}

// GradeInput is the body of POST /academic/grades.
type GradeInput struct {
	EnrollmentID string  `json:"enrollment_id" validate:"required"`
	Unit         string  `json:"unit" validate:"required,max=60"`
	Score        float64 `json:"score" validate:"gte=0,lte=20"`
	Comments     string  `json:"comments,omitempty" validate:"max=500"`
}

// Validate checks the request before it is sent.
func (r GradeInput) Validate() error {
	return validation.Struct(r)
}

// UpdateGradeRequest is the body of PUT /academic/grades/{id}.
type UpdateGradeRequest struct {
	Unit     string  `json:"unit" validate:"required,max=60"`
	Score    float64 `json:"score" validate:"gte=0,lte=20"`
	Comments string  `json:"comments,omitempty" validate:"max=500"`
}

// Validate checks the request before it is sent.
func (r UpdateGradeRequest) Validate() error {
	return validation.Struct(r)
}

// AttendanceInput is the body of POST /academic/attendance.
type AttendanceInput struct {
	EnrollmentID string `json:"enrollment_id" validate:"required"`
	Date         string `json:"date" validate:"required,datetime=2006-01-02"`
	Status       string `json:"status" validate:"required,oneof=PRESENT ABSENT LATE EXCUSED"`
}

// Validate checks the request before it is sent.
func (r AttendanceInput) Validate() error {
	return validation.Struct(r)
}
