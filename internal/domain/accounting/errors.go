package accounting

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ImbalanceErrorCode identifies the imbalanced-transaction error to the
// transport layer, distinct from generic validation failures.
const ImbalanceErrorCode = "IMBALANCED_TRANSACTION"

// ImbalanceError signals that a transaction's total debits do not equal its
// total credits. Both totals are carried for diagnosis.
type ImbalanceError struct {
	TotalDebit  decimal.Decimal `json:"total_debit"`
	TotalCredit decimal.Decimal `json:"total_credit"`
}

// NewImbalanceError creates an ImbalanceError with the offending totals
func NewImbalanceError(totalDebit, totalCredit decimal.Decimal) *ImbalanceError {
	return &ImbalanceError{
		TotalDebit:  totalDebit,
		TotalCredit: totalCredit,
	}
}

// Error implements the error interface
func (e *ImbalanceError) Error() string {
	return fmt.Sprintf("Transaction is not balanced: debits %s, credits %s",
		e.TotalDebit.String(), e.TotalCredit.String())
}

// Code returns the domain error code for transport mapping
func (e *ImbalanceError) Code() string {
	return ImbalanceErrorCode
}
