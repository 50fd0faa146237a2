package api

import "encoding/json"

// Untyped is the data member of responses the backend does not type.
type Untyped = json.RawMessage

// API groups the typed backend operations by resource.
type API struct {
	Auth          *AuthAPI
	Users         *UsersAPI
	Families      *FamiliesAPI
	Students      *StudentsAPI
	Concepts      *ConceptsAPI
	Finance       *FinanceAPI
	Courses       *CoursesAPI
	Enrollments   *EnrollmentsAPI
	Academic      *AcademicAPI
	Communication *CommunicationAPI
}

// New builds the façade over c.
func New(c *Client) *API {
	return &API{
		Auth:          &AuthAPI{c},
		Users:         &UsersAPI{c},
		Families:      &FamiliesAPI{c},
		Students:      &StudentsAPI{c},
		Concepts:      &ConceptsAPI{c},
		Finance:       &FinanceAPI{c},
		Courses:       &CoursesAPI{c},
		Enrollments:   &EnrollmentsAPI{c},
		Academic:      &AcademicAPI{c},
		Communication: &CommunicationAPI{c},
	}
}
