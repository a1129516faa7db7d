package accounting

import (
	"strings"

	"github.com/erp/accounting/internal/domain/shared"
	"github.com/google/uuid"
)

// AccountType classifies an account for report placement and balance sign convention
type AccountType string

const (
	AccountTypeAsset     AccountType = "ASSET"
	AccountTypeLiability AccountType = "LIABILITY"
	AccountTypeCapital   AccountType = "CAPITAL"
	AccountTypeIncome    AccountType = "INCOME"
	AccountTypeExpense   AccountType = "EXPENSE"
)

// IsValid checks if the type is a valid AccountType
func (t AccountType) IsValid() bool {
	switch t {
	case AccountTypeAsset, AccountTypeLiability, AccountTypeCapital,
		AccountTypeIncome, AccountTypeExpense:
		return true
	}
	return false
}

// String returns the string representation of AccountType
func (t AccountType) String() string {
	return string(t)
}

// ParseAccountType parses a case-insensitive account type string
func ParseAccountType(s string) (AccountType, error) {
	t := AccountType(strings.ToUpper(strings.TrimSpace(s)))
	if !t.IsValid() {
		return "", shared.NewDomainError("INVALID_INPUT", "Account type must be one of asset, liability, capital, income, expense")
	}
	return t, nil
}

// BalanceSheetTypes returns the account types reported on the balance sheet
func BalanceSheetTypes() []AccountType {
	return []AccountType{AccountTypeAsset, AccountTypeLiability, AccountTypeCapital}
}

// IncomeStatementTypes returns the account types reported on the income statement
func IncomeStatementTypes() []AccountType {
	return []AccountType{AccountTypeIncome, AccountTypeExpense}
}

// NormalizeAccountCode trims and upper-cases an account code.
// Codes are compared in their normalized form, so "cash-01" and "CASH-01"
// refer to the same account.
func NormalizeAccountCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Account is a node in the chart of accounts. The hierarchy is a forest held
// together by weak parent references only: an account stores its parent ID and
// children are found by querying for accounts whose parent matches.
type Account struct {
	shared.BaseEntity
	Code        string      `json:"code"`
	Name        string      `json:"name"`
	Type        AccountType `json:"type"`
	ParentID    *uuid.UUID  `json:"parent_id"`
	IsGroup     bool        `json:"is_group"`
	Description string      `json:"description"`
}

// NewAccount creates a new account. The code is normalized to uppercase and
// the type is fixed for the lifetime of the account.
func NewAccount(code, name string, accountType AccountType, parentID *uuid.UUID, isGroup bool, description string) (*Account, error) {
	code = NormalizeAccountCode(code)
	name = strings.TrimSpace(name)

	if code == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Account code is required")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Account name is required")
	}
	if !accountType.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Account type must be one of asset, liability, capital, income, expense")
	}

	return &Account{
		BaseEntity:  shared.NewBaseEntity(),
		Code:        code,
		Name:        name,
		Type:        accountType,
		ParentID:    parentID,
		IsGroup:     isGroup,
		Description: strings.TrimSpace(description),
	}, nil
}

// ChangeCode replaces the account code, normalizing it. Uniqueness against
// other accounts is the caller's responsibility.
func (a *Account) ChangeCode(code string) error {
	code = NormalizeAccountCode(code)
	if code == "" {
		return shared.NewDomainError("INVALID_INPUT", "Account code is required")
	}
	a.Code = code
	a.Touch()
	return nil
}

// Rename replaces the account name
func (a *Account) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_INPUT", "Account name is required")
	}
	a.Name = name
	a.Touch()
	return nil
}

// SetParent re-parents the account. A nil parent detaches it to the root of
// the forest. Existence of the referenced parent is the caller's responsibility.
func (a *Account) SetParent(parentID *uuid.UUID) {
	a.ParentID = parentID
	a.Touch()
}

// SetGroup marks or unmarks the account as a non-posting summary node.
// This flag is informational only; postings to group accounts are not rejected.
func (a *Account) SetGroup(isGroup bool) {
	a.IsGroup = isGroup
	a.Touch()
}

// SetDescription replaces the free-text description
func (a *Account) SetDescription(description string) {
	a.Description = strings.TrimSpace(description)
	a.Touch()
}
