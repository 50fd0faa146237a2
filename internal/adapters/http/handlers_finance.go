package web

import (
	"net/http"
	"net/url"

	"schoolerp/internal/domain/finance"
	"schoolerp/internal/domain/navigation"
	"schoolerp/internal/domain/student"
)

type financePage struct {
	Concepts       []finance.FeeConcept
	Families       []student.Family
	Students       []student.Student
	PaymentMethods []string

	// Debt lookup
	FamilyID    string
	Debts       []finance.FamilyDebt
	Total       finance.Amount
	Outstanding int
}

// handleFinance lists fee concepts and, with ?family=ID, that family's debts.
func (a *app) handleFinance(w http.ResponseWriter, r *http.Request) {
	a.renderFinance(w, r, http.StatusOK, "")
}

func (a *app) renderFinance(w http.ResponseWriter, r *http.Request, status int, errMsg string) {
	ctx := r.Context()
	data := financePage{PaymentMethods: finance.PaymentMethods, FamilyID: r.URL.Query().Get("family")}
	var failure error

	concepts, err := a.api.Concepts.GetAll(ctx)
	if err = outcome(concepts, err); err != nil {
		failure = err
	} else {
		data.Concepts = concepts.Data
	}
	families, err := a.api.Families.GetAll(ctx)
	if err = outcome(families, err); err != nil {
		failure = err
	} else {
		data.Families = families.Data
	}
	students, err := a.api.Students.GetAll(ctx)
	if err = outcome(students, err); err != nil {
		failure = err
	} else {
		data.Students = students.Data
	}

	if data.FamilyID != "" {
		debts, err := a.api.Finance.GetFamilyDebt(ctx, data.FamilyID)
		if err = outcome(debts, err); err != nil {
			failure = err
		} else {
			data.Debts = debts.Data
			data.Total = finance.TotalBalance(debts.Data)
			data.Outstanding = len(finance.Outstanding(debts.Data))
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
	renderTemplate(w, r, status, "finance.html", pageData{
		Title:  "Finance",
		Active: navigation.KeyFinance,
		Error:  errMsg,
		Data:   data,
	})
}

// handleCreateConcept adds a billing concept.
func (a *app) handleCreateConcept(w http.ResponseWriter, r *http.Request) {
	a.submit(w, r, "/finance", "Concept created", func(status int, msg string) {
		a.renderFinance(w, r, status, msg)
	}, func() error {
		req := finance.CreateConceptRequest{
			Name:    formString(r, "name"),
			Amount:  formFloat(r, "amount"),
			DueDate: formString(r, "due_date"),
		}
		return outcome(a.api.Concepts.Create(r.Context(), req))
	})
}

// handleGenerateFees charges a concept to the selected students.
func (a *app) handleGenerateFees(w http.ResponseWriter, r *http.Request) {
	a.submit(w, r, "/finance", "Fees generated", func(status int, msg string) {
		a.renderFinance(w, r, status, msg)
	}, func() error {
		req := finance.GenerateFeesRequest{
			ConceptID:  formInt(r, "concept_id"),
			StudentIDs: formList(r, "student_ids"),
		}
		return outcome(a.api.Finance.GenerateFees(r.Context(), req))
	})
}

// handleRegisterPayment applies a payment to a student fee and returns to
// the family's debt view when one was open.
func (a *app) handleRegisterPayment(w http.ResponseWriter, r *http.Request) {
	back := "/finance"
	if fam := r.URL.Query().Get("family"); fam != "" {
		back += "?family=" + url.QueryEscape(fam)
	}
	a.submit(w, r, back, "Payment registered", func(status int, msg string) {
		a.renderFinance(w, r, status, msg)
	}, func() error {
		req := finance.RegisterPaymentRequest{
			StudentFeeID:   formString(r, "student_fee_id"),
			Amount:         formFloat(r, "amount"),
			PaymentMethod:  formString(r, "payment_method"),
			TransactionRef: formString(r, "transaction_ref"),
		}
		return outcome(a.api.Finance.RegisterPayment(r.Context(), req))
	})
}
