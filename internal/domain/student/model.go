package student

import (
	"strings"

	"schoolerp/internal/domain/validation"
)

// Student is a backend student record. Nullable columns are pointers.
type Student struct {
	ID             string  `json:"id"`
	FamilyID       string  `json:"family_id"`
	FirstName      *string `json:"first_name"`
	LastName       *string `json:"last_name"`
	BirthDate      *string `json:"birth_date"`
	DocumentNumber *string `json:"document_number"`
	MedicalInfo    *string `json:"medical_info"`
	FamilyCode     string  `json:"family_code,omitempty"`
	PhotoURL       string  `json:"photo_url,omitempty"`
}

// FullName joins first and last name, skipping missing parts.
// INVARIANT: Student fields are not mutated
func (s Student) FullName() string {
	parts := make([]string, 0, 2)
	for _, p := range []*string{s.FirstName, s.LastName} {
		if p != nil && strings.TrimSpace(*p) != "" {
			parts = append(parts, strings.TrimSpace(*p))
		}
	}
	return strings.Join(parts, " ")
}

// Matches reports whether query appears in the student's name or document
// number, case-insensitively. An empty query matches everything.
func (s Student) Matches(query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	if strings.Contains(strings.ToLower(s.FullName()), q) {
		return true
	}
	return s.DocumentNumber != nil && strings.Contains(strings.ToLower(*s.DocumentNumber), q)
}

// Search filters students by Matches, preserving order.
func Search(students []Student, query string) []Student {
	out := make([]Student, 0, len(students))
	for _, s := range students {
		if s.Matches(query) {
			out = append(out, s)
		}
	}
	return out
}

// Family groups students under a main guardian account.
type Family struct {
	ID             string  `json:"id"`
	FamilyCode     *string `json:"family_code"`
	MainGuardianID string  `json:"main_guardian_id"`
}

// Code returns the family code or an empty string.
func (f Family) Code() string {
	if f.FamilyCode == nil {
		return ""
	}
	return *f.FamilyCode
}

// CreateStudentRequest is the body of POST /students.
type CreateStudentRequest struct {
	FamilyID       string `json:"family_id" validate:"required"`
	FirstName      string `json:"first_name" validate:"required,max=80"`
	LastName       string `json:"last_name" validate:"required,max=80"`
	BirthDate      string `json:"birth_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	DocumentNumber string `json:"document_number,omitempty" validate:"max=40"`
	MedicalInfo    string `json:"medical_info,omitempty" validate:"max=500"`
}

// Validate checks the request before it is sent.
func (r CreateStudentRequest) Validate() error {
	return validation.Struct(r)
}

// UpdateStudentRequest is the body of PUT /students/{id}. Empty fields are
// omitted and left unchanged by the backend.
type UpdateStudentRequest struct {
	FirstName      string `json:"first_name,omitempty" validate:"max=80"`
	LastName       string `json:"last_name,omitempty" validate:"max=80"`
	BirthDate      string `json:"birth_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	DocumentNumber string `json:"document_number,omitempty" validate:"max=40"`
	MedicalInfo    string `json:"medical_info,omitempty" validate:"max=500"`
}

// Validate checks the request before it is sent.
func (r UpdateStudentRequest) Validate() error {
	return validation.Struct(r)
}

// CreateFamilyRequest is the body of POST /families.
type CreateFamilyRequest struct {
	FamilyCode     string `json:"family_code" validate:"required,max=40"`
	MainGuardianID string `json:"main_guardian_id" validate:"required"`
}

// Validate checks the request before it is sent.
func (r CreateFamilyRequest) Validate() error {
	return validation.Struct(r)
}

// UpdateFamilyRequest is the body of PUT /families/{id}.
type UpdateFamilyRequest struct {
	FamilyCode     string `json:"family_code,omitempty" validate:"max=40"`
	MainGuardianID string `json:"main_guardian_id,omitempty"`
}

// Validate checks the request before it is sent.
func (r UpdateFamilyRequest) Validate() error {
	return validation.Struct(r)
}
