package web

import (
	"net/http"

	"schoolerp/internal/adapters/http/middleware"
	"schoolerp/internal/application/listutil"
	"schoolerp/internal/application/projections"
	"schoolerp/internal/domain/account"
	"schoolerp/internal/domain/navigation"
	"schoolerp/internal/domain/student"
)

type studentsPage struct {
	List     projections.GetStudentListResult
	Families []student.Family
	Users    []account.Account
	Roles    []account.Role

	// Family lookup
	FamilyQuery    string
	Family         *student.Family
	FamilyStudents []student.Student
}

// handleStudents lists students with search and pagination, families and
// user accounts. ?family=ID looks one family up.
func (a *app) handleStudents(w http.ResponseWriter, r *http.Request) {
	a.renderStudents(w, r, http.StatusOK, "")
}

func (a *app) renderStudents(w http.ResponseWriter, r *http.Request, status int, errMsg string) {
	ctx := r.Context()
	q := r.URL.Query()
	data := studentsPage{Roles: account.ValidRoles, FamilyQuery: q.Get("family")}
	var failure error

	list, err := projections.QueryGetStudentList(ctx,
		projections.GetStudentListQuery{Params: listutil.Parse(q, projections.StudentSortColumns)},
		projections.GetStudentListDeps{Students: a.api.Students})
	if err != nil {
		failure = err
	}
	data.List = list

	families, err := a.api.Families.GetAll(ctx)
	if err = outcome(families, err); err != nil {
		failure = err
	} else {
		data.Families = families.Data
	}

	users, err := a.api.Users.GetAll(ctx)
	if err = outcome(users, err); err != nil {
		failure = err
	} else {
		data.Users = users.Data
	}

	if data.FamilyQuery != "" {
		fam, err := a.api.Families.GetByID(ctx, data.FamilyQuery)
		if err = outcome(fam, err); err != nil {
			failure = err
		} else {
			data.Family = &fam.Data
			kids, err := a.api.Students.GetByFamily(ctx, fam.Data.ID)
			if err = outcome(kids, err); err != nil {
				failure = err
			} else {
				data.FamilyStudents = kids.Data
			}
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
	renderTemplate(w, r, status, "students.html", pageData{
		Title:  "Students",
		Active: navigation.KeyStudents,
		Error:  errMsg,
		Data:   data,
	})
}

// handleCreateStudent registers a student in a family.
func (a *app) handleCreateStudent(w http.ResponseWriter, r *http.Request) {
	a.submit(w, r, "/students", "Student created", func(status int, msg string) {
		a.renderStudents(w, r, status, msg)
	}, func() error {
		req := student.CreateStudentRequest{
			FamilyID:       formString(r, "family_id"),
			FirstName:      formString(r, "first_name"),
			LastName:       formString(r, "last_name"),
			BirthDate:      formString(r, "birth_date"),
			DocumentNumber: formString(r, "document_number"),
			MedicalInfo:    formString(r, "medical_info"),
		}
		return outcome(a.api.Students.Create(r.Context(), req))
	})
}

// handleDeleteStudent removes a student.
func (a *app) handleDeleteStudent(w http.ResponseWriter, r *http.Request) {
	a.submit(w, r, "/students", "Student deleted", func(status int, msg string) {
		a.renderStudents(w, r, status, msg)
	}, func() error {
		return outcome(a.api.Students.Delete(r.Context(), r.PathValue("id")))
	})
}

// handleCreateFamily creates a family headed by a guardian account.
func (a *app) handleCreateFamily(w http.ResponseWriter, r *http.Request) {
	a.submit(w, r, "/students", "Family created", func(status int, msg string) {
		a.renderStudents(w, r, status, msg)
	}, func() error {
		req := student.CreateFamilyRequest{
			FamilyCode:     formString(r, "family_code"),
			MainGuardianID: formString(r, "main_guardian_id"),
		}
		return outcome(a.api.Families.Create(r.Context(), req))
	})
}

// handleDeleteFamily removes a family. The backend refuses while students
// still belong to it.
func (a *app) handleDeleteFamily(w http.ResponseWriter, r *http.Request) {
	a.submit(w, r, "/students", "Family deleted", func(status int, msg string) {
		a.renderStudents(w, r, status, msg)
	}, func() error {
		return outcome(a.api.Families.Delete(r.Context(), r.PathValue("id")))
	})
}

// handleRegisterUser creates a backend account.
func (a *app) handleRegisterUser(w http.ResponseWriter, r *http.Request) {
	a.submit(w, r, "/students", "User registered", func(status int, msg string) {
		a.renderStudents(w, r, status, msg)
	}, func() error {
		req := account.RegisterRequest{
			Email:    formString(r, "email"),
			Password: r.FormValue("password"),
			RoleID:   account.ParseRole(r.FormValue("role_id")),
			FullName: formString(r, "full_name"),
		}
		return outcome(a.api.Auth.Register(r.Context(), req))
	})
}

// handleDeleteUser removes a backend account. Deleting yourself is refused
// here; the backend would end the session on the next call anyway.
func (a *app) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if u := middleware.Current(r).User; u != nil && u.UserID == id {
		a.renderStudents(w, r, http.StatusBadRequest, "You cannot delete your own account.")
		return
	}
	a.submit(w, r, "/students", "User deleted", func(status int, msg string) {
		a.renderStudents(w, r, status, msg)
	}, func() error {
		return outcome(a.api.Users.Delete(r.Context(), id))
	})
}
