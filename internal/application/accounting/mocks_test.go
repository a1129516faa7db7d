package accounting

import (
	"context"

	"github.com/erp/accounting/internal/domain/accounting"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockAccountRepository implements accounting.AccountRepository for testing
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) FindByID(ctx context.Context, id uuid.UUID) (*accounting.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accounting.Account), args.Error(1)
}

func (m *MockAccountRepository) FindByCode(ctx context.Context, code string) (*accounting.Account, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accounting.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAll(ctx context.Context, filter accounting.AccountFilter) ([]accounting.Account, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]accounting.Account), args.Error(1)
}

func (m *MockAccountRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockAccountRepository) HasChildren(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockAccountRepository) Save(ctx context.Context, account *accounting.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockTransactionRepository implements accounting.TransactionRepository for testing
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*accounting.Transaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accounting.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) FindAll(ctx context.Context) ([]accounting.Transaction, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]accounting.Transaction), args.Error(1)
}

// ForEachEntry replays the configured entries through fn. Configure with
// On("ForEachEntry", mock.Anything).Return([]accounting.LedgerEntry{...}, nil).
func (m *MockTransactionRepository) ForEachEntry(ctx context.Context, fn func(entry accounting.LedgerEntry) error) error {
	args := m.Called(ctx)
	if entries, ok := args.Get(0).([]accounting.LedgerEntry); ok {
		for _, entry := range entries {
			if err := fn(entry); err != nil {
				return err
			}
		}
	}
	return args.Error(1)
}

func (m *MockTransactionRepository) Save(ctx context.Context, transaction *accounting.Transaction) error {
	args := m.Called(ctx, transaction)
	return args.Error(0)
}

func (m *MockTransactionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// mustAccount builds a valid account for tests
func mustAccount(code, name string, accountType accounting.AccountType) *accounting.Account {
	account, err := accounting.NewAccount(code, name, accountType, nil, false, "")
	if err != nil {
		panic(err)
	}
	return account
}
