package projections

import (
	"context"
	"fmt"
	"log/slog"

	"schoolerp/internal/domain/finance"
)

// GetMyDebtsQuery carries the guardian whose debts are listed.
type GetMyDebtsQuery struct {
	GuardianID string
}

// GetMyDebtsDeps holds dependencies for the my-debts projection.
type GetMyDebtsDeps struct {
	Families FamilyLister
	Debts    DebtReader
}

// GetMyDebtsResult carries every debt line of the guardian's families.
type GetMyDebtsResult struct {
	FamilyCodes []string
	Lines       []finance.FamilyDebt
	Total       finance.Amount
	Outstanding int
}

// QueryGetMyDebts collects the debt report of every family the guardian heads.
// PRE: GuardianID is the logged-in user's id
// POST: Total is the sum of every line's balance
// INVARIANT: A family whose debt report fails is skipped, not fatal; a family
// without generated fees has no report
func QueryGetMyDebts(ctx context.Context, query GetMyDebtsQuery, deps GetMyDebtsDeps) (GetMyDebtsResult, error) {
	families, err := unwrap(deps.Families.GetByGuardian(ctx, query.GuardianID))
	if err != nil {
		return GetMyDebtsResult{}, fmt.Errorf("families for guardian: %w", err)
	}

	result := GetMyDebtsResult{FamilyCodes: familyCodes(families)}
	for _, f := range families {
		lines, err := unwrap(deps.Debts.GetFamilyDebt(ctx, f.ID))
		if err != nil {
			if ctx.Err() != nil {
				return GetMyDebtsResult{}, ctx.Err()
			}
			slog.Debug("family_debt_skipped", "family_id", f.ID, "error", err)
			continue
		}
		result.Lines = append(result.Lines, lines...)
	}
	result.Total = finance.TotalBalance(result.Lines)
	result.Outstanding = len(finance.Outstanding(result.Lines))
	return result, nil
}
