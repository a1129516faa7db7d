package models

import (
	"time"

	"github.com/erp/accounting/internal/domain/accounting"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AccountModel is the persistence model for chart of accounts entries.
// The unique index on code is the authoritative uniqueness guard; the
// application-level check is only a fast path.
type AccountModel struct {
	BaseModel
	Code        string     `gorm:"type:varchar(50);not null;uniqueIndex:idx_accounts_code"`
	Name        string     `gorm:"type:varchar(200);not null"`
	Type        string     `gorm:"type:varchar(20);not null;index"`
	ParentID    *uuid.UUID `gorm:"type:uuid;index"`
	IsGroup     bool       `gorm:"not null;default:false"`
	Description string     `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (AccountModel) TableName() string {
	return "accounts"
}

// ToDomain converts AccountModel to a domain Account
func (m *AccountModel) ToDomain() *accounting.Account {
	return &accounting.Account{
		BaseEntity:  m.BaseModel.ToDomain(),
		Code:        m.Code,
		Name:        m.Name,
		Type:        accounting.AccountType(m.Type),
		ParentID:    m.ParentID,
		IsGroup:     m.IsGroup,
		Description: m.Description,
	}
}

// AccountModelFromDomain creates an AccountModel from a domain Account
func AccountModelFromDomain(account *accounting.Account) *AccountModel {
	model := &AccountModel{
		Code:        account.Code,
		Name:        account.Name,
		Type:        account.Type.String(),
		ParentID:    account.ParentID,
		IsGroup:     account.IsGroup,
		Description: account.Description,
	}
	model.FromEntity(account.BaseEntity)
	return model
}

// TransactionModel is the persistence model for transaction headers.
// Transactions are immutable once written; only hard deletes touch them.
type TransactionModel struct {
	BaseModel
	Date        time.Time              `gorm:"not null;index"`
	Description string                 `gorm:"type:varchar(500);not null"`
	CreatedBy   uuid.UUID              `gorm:"type:uuid"`
	Lines       []TransactionLineModel `gorm:"foreignKey:TransactionID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (TransactionModel) TableName() string {
	return "transactions"
}

// ToDomain converts TransactionModel to a domain Transaction
func (m *TransactionModel) ToDomain() *accounting.Transaction {
	lines := make([]accounting.TransactionLine, len(m.Lines))
	for i, line := range m.Lines {
		lines[i] = accounting.TransactionLine{
			ID:        line.ID,
			AccountID: line.AccountID,
			Debit:     line.Debit,
			Credit:    line.Credit,
		}
	}
	return &accounting.Transaction{
		BaseEntity:  m.BaseModel.ToDomain(),
		Date:        m.Date,
		Description: m.Description,
		Lines:       lines,
		CreatedBy:   m.CreatedBy,
	}
}

// TransactionModelFromDomain creates a TransactionModel from a domain Transaction
func TransactionModelFromDomain(transaction *accounting.Transaction) *TransactionModel {
	model := &TransactionModel{
		Date:        transaction.Date,
		Description: transaction.Description,
		CreatedBy:   transaction.CreatedBy,
		Lines:       make([]TransactionLineModel, len(transaction.Lines)),
	}
	model.FromEntity(transaction.BaseEntity)
	for i, line := range transaction.Lines {
		model.Lines[i] = TransactionLineModel{
			ID:            line.ID,
			TransactionID: transaction.ID,
			AccountID:     line.AccountID,
			Debit:         line.Debit,
			Credit:        line.Credit,
		}
	}
	return model
}

// TransactionLineModel is the persistence model for individual postings.
// Lines reference accounts weakly: deleting an account leaves its postings
// in place with a dangling account ID.
type TransactionLineModel struct {
	ID            uuid.UUID       `gorm:"type:uuid;primary_key"`
	TransactionID uuid.UUID       `gorm:"type:uuid;not null;index"`
	AccountID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	Debit         decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Credit        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

// TableName returns the table name for GORM
func (TransactionLineModel) TableName() string {
	return "transaction_lines"
}
