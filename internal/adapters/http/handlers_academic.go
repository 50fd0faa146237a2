package web

import (
	"net/http"
	"net/url"

	"schoolerp/internal/adapters/http/middleware"
	"schoolerp/internal/application/projections"
	"schoolerp/internal/domain/academic"
	"schoolerp/internal/domain/account"
	"schoolerp/internal/domain/course"
	"schoolerp/internal/domain/navigation"
	"schoolerp/internal/domain/student"
)

type enrollmentRow struct {
	course.Enrollment
	CourseName string
}

type academicPage struct {
	Courses            []course.Course
	Students           []student.Student
	Teachers           []account.Account
	AttendanceStatuses []string
	MaxScore           int

	// Selected student
	StudentID   string
	Enrollments []enrollmentRow
	ReportCard  *projections.GetReportCardResult

	// Selected enrollment
	EnrollmentID string
	Attendance   []academic.Attendance
}

// handleAcademic shows courses and, for ?student=ID, that student's
// enrollments and report card; ?enrollment=ID adds its attendance.
func (a *app) handleAcademic(w http.ResponseWriter, r *http.Request) {
	a.renderAcademic(w, r, http.StatusOK, "")
}

func (a *app) renderAcademic(w http.ResponseWriter, r *http.Request, status int, errMsg string) {
	ctx := r.Context()
	q := r.URL.Query()
	data := academicPage{
		AttendanceStatuses: academic.AttendanceStatuses,
		MaxScore:           academic.MaxScore,
		StudentID:          q.Get("student"),
		EnrollmentID:       q.Get("enrollment"),
	}
	var failure error

	courses, err := a.api.Courses.GetAll(ctx)
	if err = outcome(courses, err); err != nil {
		failure = err
	} else {
		data.Courses = courses.Data
	}
	students, err := a.api.Students.GetAll(ctx)
	if err = outcome(students, err); err != nil {
		failure = err
	} else {
		data.Students = students.Data
	}
	// The user list is an administrator endpoint; teachers pick no teacher.
	if isAdmin(r) {
		users, err := a.api.Users.GetAll(ctx)
		if err = outcome(users, err); err != nil {
			failure = err
		} else {
			data.Teachers = account.FilterByRole(users.Data, account.RoleTeacher)
		}
	}

	if data.StudentID != "" {
		names := course.IndexByID(data.Courses)
		enr, err := a.api.Enrollments.GetByStudent(ctx, data.StudentID)
		if err = outcome(enr, err); err != nil {
			failure = err
		} else {
			for _, e := range enr.Data {
				row := enrollmentRow{Enrollment: e, CourseName: e.CourseID}
				if c, ok := names[e.CourseID]; ok {
					row.CourseName = c.Title()
				}
				data.Enrollments = append(data.Enrollments, row)
			}
		}
		card, err := projections.QueryGetReportCard(ctx,
			projections.GetReportCardQuery{StudentID: data.StudentID},
			projections.GetReportCardDeps{Academic: a.api.Academic})
		if err != nil {
			failure = err
		} else {
			data.ReportCard = &card
		}
	}

	if data.EnrollmentID != "" {
		att, err := a.api.Academic.GetAttendance(ctx, data.EnrollmentID)
		if err = outcome(att, err); err != nil {
			failure = err
		} else {
			data.Attendance = att.Data
		}
	}

	if failure != nil {
		if a.sessionLost(w, r, failure) {
			return
		}
		if errMsg == "" {
			errMsg = userMessage(failure)
			status = failureStatus(failure)
		}
	}
	renderTemplate(w, r, status, "academic.html", pageData{
		Title:  "Academic",
		Active: navigation.KeyAcademic,
		Error:  errMsg,
		Data:   data,
	})
}

// academicBack returns to the academic page keeping the student and
// enrollment selection of the submitted form.
func academicBack(r *http.Request) string {
	v := url.Values{}
	if s := r.URL.Query().Get("student"); s != "" {
		v.Set("student", s)
	}
	if e := r.URL.Query().Get("enrollment"); e != "" {
		v.Set("enrollment", e)
	}
	if len(v) == 0 {
		return "/academic"
	}
	return "/academic?" + v.Encode()
}

func (a *app) academicSubmit(w http.ResponseWriter, r *http.Request, notice string, do func() error) {
	a.submit(w, r, academicBack(r), notice, func(status int, msg string) {
		a.renderAcademic(w, r, status, msg)
	}, do)
}

// handleCreateCourse adds a course. Teachers may only create their own.
func (a *app) handleCreateCourse(w http.ResponseWriter, r *http.Request) {
	a.academicSubmit(w, r, "Course saved", func() error {
		req := course.CreateCourseRequest{
			Name:      formString(r, "name"),
			TeacherID: formString(r, "teacher_id"),
		}
		if !isAdmin(r) {
			if u := middleware.Current(r).User; u != nil {
				req.TeacherID = u.UserID
			}
		}
		return outcome(a.api.Courses.Create(r.Context(), req))
	})
}

// handleDeleteCourse removes a course.
func (a *app) handleDeleteCourse(w http.ResponseWriter, r *http.Request) {
	a.academicSubmit(w, r, "Course deleted", func() error {
		return outcome(a.api.Courses.Delete(r.Context(), r.PathValue("id")))
	})
}

// handleCreateEnrollment enrolls a student in a course for a year.
func (a *app) handleCreateEnrollment(w http.ResponseWriter, r *http.Request) {
	a.academicSubmit(w, r, "Enrollment created", func() error {
		year := formInt(r, "year")
		if year == 0 {
			year = timeNow().Year()
		}
		req := course.CreateEnrollmentRequest{
			StudentID: formString(r, "student_id"),
			CourseID:  formString(r, "course_id"),
			Year:      year,
		}
		return outcome(a.api.Enrollments.Create(r.Context(), req))
	})
}

// handleDeleteEnrollment removes an enrollment.
func (a *app) handleDeleteEnrollment(w http.ResponseWriter, r *http.Request) {
	a.academicSubmit(w, r, "Enrollment deleted", func() error {
		return outcome(a.api.Enrollments.Delete(r.Context(), r.PathValue("id")))
	})
}

// handleInputGrade records a grade against an enrollment.
func (a *app) handleInputGrade(w http.ResponseWriter, r *http.Request) {
	a.academicSubmit(w, r, "Grade recorded", func() error {
		req := academic.GradeInput{
			EnrollmentID: formString(r, "enrollment_id"),
			Unit:         formString(r, "unit"),
			Score:        formFloat(r, "score"),
			Comments:     formString(r, "comments"),
		}
		return outcome(a.api.Academic.InputGrades(r.Context(), req))
	})
}

// handleUpdateGrade corrects a recorded grade.
func (a *app) handleUpdateGrade(w http.ResponseWriter, r *http.Request) {
	a.academicSubmit(w, r, "Grade updated", func() error {
		req := academic.UpdateGradeRequest{
			Unit:     formString(r, "unit"),
			Score:    formFloat(r, "score"),
			Comments: formString(r, "comments"),
		}
		return outcome(a.api.Academic.UpdateGrade(r.Context(), r.PathValue("id"), req))
	})
}

// handleDeleteGrade removes a grade.
func (a *app) handleDeleteGrade(w http.ResponseWriter, r *http.Request) {
	a.academicSubmit(w, r, "Grade deleted", func() error {
		return outcome(a.api.Academic.DeleteGrade(r.Context(), r.PathValue("id")))
	})
}

// handleMarkAttendance records one attendance mark.
func (a *app) handleMarkAttendance(w http.ResponseWriter, r *http.Request) {
	a.academicSubmit(w, r, "Attendance recorded", func() error {
		date := formString(r, "date")
		if date == "" {
			date = timeNow().Format("2006-01-02")
		}
		req := academic.AttendanceInput{
			EnrollmentID: formString(r, "enrollment_id"),
			Date:         date,
			Status:       formString(r, "status"),
		}
		return outcome(a.api.Academic.MarkAttendance(r.Context(), req))
	})
}

// handleDeleteAttendance removes an attendance mark.
func (a *app) handleDeleteAttendance(w http.ResponseWriter, r *http.Request) {
	a.academicSubmit(w, r, "Attendance deleted", func() error {
		return outcome(a.api.Academic.DeleteAttendance(r.Context(), r.PathValue("id")))
	})
}
