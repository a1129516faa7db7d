package accounting

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SignedAmount returns the contribution of a posting to the balance of an
// account of the given type.
//
// Income accounts accumulate credit minus debit; every other type accumulates
// debit minus credit. Note that the debit-minus-credit rule is applied
// uniformly to all three balance sheet types, so liability and capital
// balances come out debit-normal (a credit-funded capital account reads as a
// negative number). This matches the historical report behavior and is kept
// deliberately; callers must not re-flip the sign for display.
func SignedAmount(accountType AccountType, debit, credit decimal.Decimal) decimal.Decimal {
	if accountType == AccountTypeIncome {
		return credit.Sub(debit)
	}
	return debit.Sub(credit)
}

// AccountBalance is the derived, non-persisted balance of a single account.
// It is only meaningful for the account-type set it was computed against.
type AccountBalance struct {
	AccountID uuid.UUID       `json:"account_id"`
	Code      string          `json:"code"`
	Name      string          `json:"name"`
	Type      AccountType     `json:"type"`
	Balance   decimal.Decimal `json:"balance"`
}

// NewAccountBalance creates a zero balance for the given account
func NewAccountBalance(account *Account) *AccountBalance {
	return &AccountBalance{
		AccountID: account.ID,
		Code:      account.Code,
		Name:      account.Name,
		Type:      account.Type,
		Balance:   decimal.Zero,
	}
}

// Apply folds a single posting into the running balance using the
// type-dependent sign rule.
func (b *AccountBalance) Apply(debit, credit decimal.Decimal) {
	b.Balance = b.Balance.Add(SignedAmount(b.Type, debit, credit))
}
