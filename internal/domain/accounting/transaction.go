package accounting

import (
	"fmt"
	"strings"
	"time"

	"github.com/erp/accounting/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MinTransactionLines is the smallest number of lines a double-entry
// transaction can carry.
const MinTransactionLines = 2

// TransactionLine is a single posting within a transaction. Exactly one of
// Debit or Credit must be strictly positive; the other must be exactly zero.
type TransactionLine struct {
	ID        uuid.UUID       `json:"id"`
	AccountID uuid.UUID       `json:"account_id"`
	Debit     decimal.Decimal `json:"debit"`
	Credit    decimal.Decimal `json:"credit"`
}

// Validate checks the line's debit/credit shape. The index is 1-based and is
// included in error messages so callers can point at the offending line.
func (l TransactionLine) Validate(index int) error {
	if l.AccountID == uuid.Nil {
		return shared.NewDomainError("INVALID_INPUT",
			fmt.Sprintf("Line %d must reference an account", index))
	}
	if l.Debit.IsNegative() || l.Credit.IsNegative() {
		return shared.NewDomainError("INVALID_INPUT",
			fmt.Sprintf("Line %d must not carry negative amounts", index))
	}
	debitSet := l.Debit.IsPositive()
	creditSet := l.Credit.IsPositive()
	if debitSet == creditSet {
		return shared.NewDomainError("INVALID_INPUT",
			fmt.Sprintf("Line %d must have a value in either debit or credit, but not both", index))
	}
	return nil
}

// Transaction is an immutable double-entry journal record. Once created it is
// never updated; it can only be hard-deleted.
type Transaction struct {
	shared.BaseEntity
	Date        time.Time         `json:"date"`
	Description string            `json:"description"`
	Lines       []TransactionLine `json:"lines"`
	CreatedBy   uuid.UUID         `json:"created_by"`
}

// NewTransaction creates a balanced transaction. Validation is fail-fast in
// line order: header fields, then each line's shape, then the balance across
// all lines. A zero date defaults to the current time.
func NewTransaction(date time.Time, description string, lines []TransactionLine, createdBy uuid.UUID) (*Transaction, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Transaction description is required")
	}
	if len(lines) < MinTransactionLines {
		return nil, shared.NewDomainError("INVALID_INPUT",
			fmt.Sprintf("Transaction requires at least %d lines", MinTransactionLines))
	}

	totalDebit := decimal.Zero
	totalCredit := decimal.Zero
	stamped := make([]TransactionLine, len(lines))
	for i, line := range lines {
		if err := line.Validate(i + 1); err != nil {
			return nil, err
		}
		if line.ID == uuid.Nil {
			line.ID = uuid.New()
		}
		stamped[i] = line
		totalDebit = totalDebit.Add(line.Debit)
		totalCredit = totalCredit.Add(line.Credit)
	}

	if !totalDebit.Equal(totalCredit) {
		return nil, NewImbalanceError(totalDebit, totalCredit)
	}

	if date.IsZero() {
		date = time.Now()
	}

	return &Transaction{
		BaseEntity:  shared.NewBaseEntity(),
		Date:        date,
		Description: description,
		Lines:       stamped,
		CreatedBy:   createdBy,
	}, nil
}

// TotalDebit sums the debit side of all lines
func (t *Transaction) TotalDebit() decimal.Decimal {
	total := decimal.Zero
	for _, line := range t.Lines {
		total = total.Add(line.Debit)
	}
	return total
}

// TotalCredit sums the credit side of all lines
func (t *Transaction) TotalCredit() decimal.Decimal {
	total := decimal.Zero
	for _, line := range t.Lines {
		total = total.Add(line.Credit)
	}
	return total
}

// IsBalanced reports whether total debits equal total credits
func (t *Transaction) IsBalanced() bool {
	return t.TotalDebit().Equal(t.TotalCredit())
}
