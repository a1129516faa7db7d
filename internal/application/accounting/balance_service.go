package accounting

import (
	"context"
	"sort"

	"github.com/erp/accounting/internal/domain/accounting"
	"github.com/google/uuid"
)

// BalanceAggregator folds the full transaction ledger into per-account signed
// balances. Balances are recomputed from scratch on every call; the cost is
// proportional to the total number of transaction lines in the system.
type BalanceAggregator struct {
	accountRepo     accounting.AccountRepository
	transactionRepo accounting.TransactionRepository
}

// NewBalanceAggregator creates a new BalanceAggregator
func NewBalanceAggregator(
	accountRepo accounting.AccountRepository,
	transactionRepo accounting.TransactionRepository,
) *BalanceAggregator {
	return &BalanceAggregator{
		accountRepo:     accountRepo,
		transactionRepo: transactionRepo,
	}
}

// ComputeBalances returns the signed balance of every account whose type is
// in the requested set, ordered by account code. Accounts with no postings
// are included with a zero balance. Lines posted to accounts outside the
// requested set are skipped.
func (a *BalanceAggregator) ComputeBalances(ctx context.Context, types []accounting.AccountType) ([]accounting.AccountBalance, error) {
	accounts, err := a.accountRepo.FindAll(ctx, accounting.AccountFilter{Types: types})
	if err != nil {
		return nil, err
	}

	balances := make(map[uuid.UUID]*accounting.AccountBalance, len(accounts))
	for i := range accounts {
		balances[accounts[i].ID] = accounting.NewAccountBalance(&accounts[i])
	}

	err = a.transactionRepo.ForEachEntry(ctx, func(entry accounting.LedgerEntry) error {
		if balance, ok := balances[entry.AccountID]; ok {
			balance.Apply(entry.Debit, entry.Credit)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	result := make([]accounting.AccountBalance, 0, len(balances))
	for _, balance := range balances {
		result = append(result, *balance)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Code < result[j].Code
	})
	return result, nil
}
