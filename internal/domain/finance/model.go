package finance

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"schoolerp/internal/domain/validation"
)

// Amount is a money value. Numeric database columns are sometimes serialised
// as strings, so both forms are accepted.
type Amount float64

// UnmarshalJSON accepts 12.5, "12.5" and null.
func (a *Amount) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*a = 0
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*a = 0
			return nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("amount %q: %w", s, err)
		}
		*a = Amount(f)
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	*a = Amount(f)
	return nil
}

// String formats with two decimals.
func (a Amount) String() string {
	return strconv.FormatFloat(float64(a), 'f', 2, 64)
}

// Status is a fee's payment state.
type Status string

const (
	StatusPaid    Status = "PAID"
	StatusPartial Status = "PARTIAL"
	StatusPending Status = "PENDING"
	StatusOverdue Status = "OVERDUE"
	StatusUnknown Status = ""
)

// ParseStatus normalises both backend vocabularies (paid/partial/pending and
// PAID/PARTIAL/PENDING/OVERDUE).
func ParseStatus(s string) Status {
	switch Status(strings.ToUpper(strings.TrimSpace(s))) {
	case StatusPaid:
		return StatusPaid
	case StatusPartial:
		return StatusPartial
	case StatusPending:
		return StatusPending
	case StatusOverdue:
		return StatusOverdue
	default:
		return StatusUnknown
	}
}

// Label is the display text.
func (s Status) Label() string {
	switch s {
	case StatusPaid:
		return "Paid"
	case StatusPartial:
		return "Partial"
	case StatusPending:
		return "Pending"
	case StatusOverdue:
		return "Overdue"
	default:
		return "Unknown"
	}
}

// Color is the tag colour for the status.
func (s Status) Color() string {
	switch s {
	case StatusPaid:
		return "green"
	case StatusPartial:
		return "orange"
	case StatusPending, StatusOverdue:
		return "red"
	default:
		return "grey"
	}
}

// FeeConcept is a named, priced billing item.
type FeeConcept struct {
	ID      int     `json:"id"`
	Name    *string `json:"name"`
	Amount  *Amount `json:"amount"`
	DueDate *string `json:"due_date"`
}

// StudentFee is one generated charge against a student.
type StudentFee struct {
	ID             string `json:"id"`
	StudentID      string `json:"student_id"`
	ConceptID      int    `json:"concept_id"`
	OriginalAmount Amount `json:"original_amount"`
	Balance        Amount `json:"balance"`
	Status         string `json:"status"`
	CreatedAt      string `json:"created_at"`
}

// Payment is one payment applied to a student fee.
type Payment struct {
	ID             string  `json:"id"`
	StudentFeeID   string  `json:"student_fee_id"`
	AmountPaid     Amount  `json:"amount_paid"`
	PaymentMethod  *string `json:"payment_method"`
	TransactionRef *string `json:"transaction_ref"`
	PaidAt         string  `json:"paid_at"`
}

// FamilyDebt is one line of a family's debt report.
type FamilyDebt struct {
	StudentID        string  `json:"student_id"`
	StudentFirstName *string `json:"student_first_name"`
	StudentLastName  *string `json:"student_last_name"`
	FeeID            string  `json:"fee_id"`
	ConceptName      *string `json:"concept_name"`
	OriginalAmount   Amount  `json:"original_amount"`
	Balance          Amount  `json:"balance"`
	Status           string  `json:"status"`
	DueDate          *string `json:"due_date"`
}

// StudentName joins the student's names.
func (d FamilyDebt) StudentName() string {
	var parts []string
	for _, p := range []*string{d.StudentFirstName, d.StudentLastName} {
		if p != nil && *p != "" {
			parts = append(parts, *p)
		}
	}
	return strings.Join(parts, " ")
}

// State parses the line's status.
func (d FamilyDebt) State() Status {
	return ParseStatus(d.Status)
}

// DebtList is the data member of GET /finance/debts/family/{id}. Backend
// versions disagree on its shape; a bare array and an {"items": [...]} object
// are both accepted.
type DebtList []FamilyDebt

// UnmarshalJSON accepts a bare array, {"items": [...]} or null.
func (l *DebtList) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*l = nil
		return nil
	}
	if b[0] == '[' {
		var items []FamilyDebt
		if err := json.Unmarshal(b, &items); err != nil {
			return err
		}
		*l = items
		return nil
	}
	var wrapped struct {
		Items []FamilyDebt `json:"items"`
	}
	if err := json.Unmarshal(b, &wrapped); err != nil {
		return fmt.Errorf("debt list: %w", err)
	}
	*l = wrapped.Items
	return nil
}

// TotalBalance sums the outstanding balance of every line.
func TotalBalance(debts []FamilyDebt) Amount {
	var total Amount
	for _, d := range debts {
		total += d.Balance
	}
	return total
}

// Outstanding returns the lines that are not fully paid, preserving order.
func Outstanding(debts []FamilyDebt) []FamilyDebt {
	out := make([]FamilyDebt, 0, len(debts))
	for _, d := range debts {
		if d.State() != StatusPaid {
			out = append(out, d)
		}
	}
	return out
}

// CreateConceptRequest is the body of POST /finance/concepts.
type CreateConceptRequest struct {
	Name    string  `json:"name" validate:"required,max=120"`
	Amount  float64 `json:"amount" validate:"gt=0"`
	DueDate string  `json:"due_date" validate:"required,datetime=2006-01-02"`
}

// Validate checks the request before it is sent.
func (r CreateConceptRequest) Validate() error {
	return validation.Struct(r)
}

// GenerateFeesRequest is the body of POST /finance/fees/generate.
type GenerateFeesRequest struct {
	ConceptID  int      `json:"concept_id" validate:"required,gt=0"`
	StudentIDs []string `json:"student_ids" validate:"required,min=1,dive,required"`
}

// Validate checks the request before it is sent.
func (r GenerateFeesRequest) Validate() error {
	return validation.Struct(r)
}

// Payment methods offered by the payment form.
var PaymentMethods = []string{"cash", "transfer", "card"}

// RegisterPaymentRequest is the body of POST /finance/payments.
type RegisterPaymentRequest struct {
	StudentFeeID   string  `json:"student_fee_id" validate:"required"`
	Amount         float64 `json:"amount" validate:"gt=0"`
	PaymentMethod  string  `json:"payment_method" validate:"required,oneof=cash transfer card"`
	TransactionRef string  `json:"transaction_ref,omitempty" validate:"max=80"`
}

// Validate checks the request before it is sent.
func (r RegisterPaymentRequest) Validate() error {
	return validation.Struct(r)
}
