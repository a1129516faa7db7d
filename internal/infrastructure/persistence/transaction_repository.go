package persistence

import (
	"context"
	"errors"

	"github.com/erp/accounting/internal/domain/accounting"
	"github.com/erp/accounting/internal/domain/shared"
	"github.com/erp/accounting/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormTransactionRepository implements accounting.TransactionRepository using GORM
type GormTransactionRepository struct {
	db *gorm.DB
}

// NewGormTransactionRepository creates a new GormTransactionRepository
func NewGormTransactionRepository(db *gorm.DB) *GormTransactionRepository {
	return &GormTransactionRepository{db: db}
}

// FindByID finds a transaction with its lines by ID
func (r *GormTransactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*accounting.Transaction, error) {
	var model models.TransactionModel
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll returns every transaction with its lines, newest first
func (r *GormTransactionRepository) FindAll(ctx context.Context) ([]accounting.Transaction, error) {
	var transactionModels []models.TransactionModel
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		Order("date DESC, created_at DESC").
		Find(&transactionModels).Error; err != nil {
		return nil, err
	}
	transactions := make([]accounting.Transaction, len(transactionModels))
	for i, model := range transactionModels {
		transactions[i] = *model.ToDomain()
	}
	return transactions, nil
}

// ForEachEntry streams every posting in the ledger through fn without
// materializing all transactions at once. Iteration stops on the first
// error returned by fn.
func (r *GormTransactionRepository) ForEachEntry(ctx context.Context, fn func(entry accounting.LedgerEntry) error) error {
	rows, err := r.db.WithContext(ctx).
		Model(&models.TransactionLineModel{}).
		Select("account_id", "debit", "credit").
		Rows()
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var entry accounting.LedgerEntry
		if err := rows.Scan(&entry.AccountID, &entry.Debit, &entry.Credit); err != nil {
			return err
		}
		if err := fn(entry); err != nil {
			return err
		}
	}
	return rows.Err()
}

// Save persists a transaction and its lines atomically
func (r *GormTransactionRepository) Save(ctx context.Context, transaction *accounting.Transaction) error {
	model := models.TransactionModelFromDomain(transaction)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(model).Error
	})
}

// Delete hard-deletes a transaction and its lines
func (r *GormTransactionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&models.TransactionModel{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		// The lines are removed explicitly as well; the FK cascade only
		// applies when the constraint is enforced by the database.
		return tx.Delete(&models.TransactionLineModel{}, "transaction_id = ?", id).Error
	})
}
