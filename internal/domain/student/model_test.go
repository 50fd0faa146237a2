package student_test

import (
	"testing"

	"schoolerp/internal/domain/student"
)

func strp(s string) *string { return &s }

// TestStudent_FullName skips nil and blank parts.
func TestStudent_FullName(t *testing.T) {
	tests := []struct {
		name string
		s    student.Student
		want string
	}{
		{"both", student.Student{FirstName: strp("Lucía"), LastName: strp("Paz")}, "Lucía Paz"},
		{"first only", student.Student{FirstName: strp("Lucía")}, "Lucía"},
		{"blank last", student.Student{FirstName: strp("Lucía"), LastName: strp("  ")}, "Lucía"},
		{"none", student.Student{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.s.FullName(); got != tt.want {
				t.Errorf("FullName = %q, want %q", got, tt.want)
			}
		})
	}
}

// TestSearch matches name and document number case-insensitively.
func TestSearch(t *testing.T) {
	list := []student.Student{
		{ID: "1", FirstName: strp("Ana"), LastName: strp("Ruiz"), DocumentNumber: strp("X-100")},
		{ID: "2", FirstName: strp("Bruno"), LastName: strp("Díaz")},
		{ID: "3", FirstName: strp("Carla"), LastName: strp("Anaya"), DocumentNumber: strp("x-200")},
	}
	tests := []struct {
		query string
		want  []string
	}{
		{"", []string{"1", "2", "3"}},
		{"ana", []string{"1", "3"}},
		{"X-2", []string{"3"}},
		{"bruno díaz", []string{"2"}},
		{"zzz", []string{}},
	}
	for _, tt := range tests {
		got := student.Search(list, tt.query)
		if len(got) != len(tt.want) {
			t.Errorf("Search(%q) returned %d results, want %d", tt.query, len(got), len(tt.want))
			continue
		}
		for i := range got {
			if got[i].ID != tt.want[i] {
				t.Errorf("Search(%q)[%d] = %s, want %s", tt.query, i, got[i].ID, tt.want[i])
			}
		}
	}
}

// TestCreateStudentRequest_Validate checks required fields and date format.
func TestCreateStudentRequest_Validate(t *testing.T) {
	ok := student.CreateStudentRequest{FamilyID: "f1", FirstName: "Ana", LastName: "Ruiz", BirthDate: "2015-04-09"}
	if err := ok.Validate(); err != nil {
		t.Errorf("valid request: %v", err)
	}
	badDate := ok
	badDate.BirthDate = "09/04/2015"
	if err := badDate.Validate(); err == nil {
		t.Error("expected error for non-ISO birth date")
	}
	missing := student.CreateStudentRequest{FirstName: "Ana"}
	if err := missing.Validate(); err == nil {
		t.Error("expected error for missing family and last name")
	}
}

// TestFamily_Code handles a nil code.
func TestFamily_Code(t *testing.T) {
	if got := (student.Family{}).Code(); got != "" {
		t.Errorf("Code = %q, want empty", got)
	}
	if got := (student.Family{FamilyCode: strp("FAM-7")}).Code(); got != "FAM-7" {
		t.Errorf("Code = %q, want FAM-7", got)
	}
}
