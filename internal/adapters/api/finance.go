package api

import (
	"context"
	"net/http"

	"schoolerp/internal/domain/finance"
)

// ConceptsAPI covers /finance/concepts.
type ConceptsAPI struct{ c *Client }

func (f *ConceptsAPI) Create(ctx context.Context, req finance.CreateConceptRequest) (*Envelope[finance.FeeConcept], error) {
	return call[finance.FeeConcept](ctx, f.c, http.MethodPost, "/finance/concepts", req)
}

func (f *ConceptsAPI) GetAll(ctx context.Context) (*Envelope[[]finance.FeeConcept], error) {
	return call[[]finance.FeeConcept](ctx, f.c, http.MethodGet, "/finance/concepts", nil)
}

// FinanceAPI covers fees, debts and payments. Amounts are computed by the
// backend; the console only passes requests through.
type FinanceAPI struct{ c *Client }

// GenerateFees charges a concept to each listed student.
func (f *FinanceAPI) GenerateFees(ctx context.Context, req finance.GenerateFeesRequest) (*Envelope[Untyped], error) {
	return call[Untyped](ctx, f.c, http.MethodPost, "/finance/fees/generate", req)
}

// GetFamilyDebt returns the debt lines of every student in a family.
func (f *FinanceAPI) GetFamilyDebt(ctx context.Context, familyID string) (*Envelope[finance.DebtList], error) {
	return call[finance.DebtList](ctx, f.c, http.MethodGet, "/finance/debts/family/"+id(familyID), nil)
}

// RegisterPayment applies a payment to a student fee.
func (f *FinanceAPI) RegisterPayment(ctx context.Context, req finance.RegisterPaymentRequest) (*Envelope[Untyped], error) {
	return call[Untyped](ctx, f.c, http.MethodPost, "/finance/payments", req)
}
