package validation

import (
	"errors"
	"strings"
	"testing"
)

type sample struct {
	Email  string  `json:"email" validate:"required,email"`
	Name   string  `json:"full_name,omitempty" validate:"max=5"`
	Amount float64 `json:"amount" validate:"gt=0"`
	Kind   string  `json:"kind" validate:"omitempty,oneof=a b"`
	Date   string  `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Hidden string  `json:"-" validate:"required"`
}

func TestStruct(t *testing.T) {
	tests := []struct {
		name string
		in   sample
		want []string
	}{
		{"valid", sample{Email: "a@b.co", Amount: 1, Hidden: "x"}, nil},
		{"missing", sample{}, []string{"email is required", "amount must be greater than 0", "Hidden is required"}},
		{"bad email", sample{Email: "nope", Amount: 1, Hidden: "x"}, []string{"email must be a valid email address"}},
		{"too long", sample{Email: "a@b.co", Name: "Rosalind", Amount: 1, Hidden: "x"}, []string{"full_name must be at most 5"}},
		{"oneof", sample{Email: "a@b.co", Amount: 1, Kind: "z", Hidden: "x"}, []string{"kind must be one of: a, b"}},
		{"date", sample{Email: "a@b.co", Amount: 1, Date: "09/03/2026", Hidden: "x"}, []string{"date must be a date formatted as 2006-01-02"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Struct(tt.in)
			if tt.want == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			var verrs Errors
			if !errors.As(err, &verrs) {
				t.Fatalf("err = %v, want Errors", err)
			}
			if len(verrs) != len(tt.want) {
				t.Errorf("got %d errors (%v), want %d", len(verrs), err, len(tt.want))
			}
			for _, w := range tt.want {
				if !strings.Contains(err.Error(), w) {
					t.Errorf("%q missing %q", err.Error(), w)
				}
			}
		})
	}
}
