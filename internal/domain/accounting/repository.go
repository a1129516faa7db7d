package accounting

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AccountFilter narrows account queries
type AccountFilter struct {
	// Types restricts results to the given account types; empty means all
	Types []AccountType
}

// AccountRepository persists the chart of accounts. The backing store must
// enforce uniqueness of the normalized code; repository-level existence checks
// are a fast path only.
type AccountRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Account, error)
	FindByCode(ctx context.Context, code string) (*Account, error)
	FindAll(ctx context.Context, filter AccountFilter) ([]Account, error)
	ExistsByCode(ctx context.Context, code string) (bool, error)
	HasChildren(ctx context.Context, id uuid.UUID) (bool, error)
	Save(ctx context.Context, account *Account) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// LedgerEntry is a flattened transaction line used when folding balances.
// It carries only what the fold needs so repositories can stream entries
// instead of materializing whole transactions.
type LedgerEntry struct {
	AccountID uuid.UUID
	Debit     decimal.Decimal
	Credit    decimal.Decimal
}

// TransactionRepository persists the transaction ledger. Transactions are
// written once and hard-deleted; there is no update path.
type TransactionRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Transaction, error)
	FindAll(ctx context.Context) ([]Transaction, error)
	// ForEachEntry streams every line of every transaction to fn in storage
	// order. Iteration stops at the first error fn returns.
	ForEachEntry(ctx context.Context, fn func(entry LedgerEntry) error) error
	Save(ctx context.Context, transaction *Transaction) error
	Delete(ctx context.Context, id uuid.UUID) error
}
