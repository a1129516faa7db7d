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

// GormAccountRepository implements accounting.AccountRepository using GORM
type GormAccountRepository struct {
	db *gorm.DB
}

// NewGormAccountRepository creates a new GormAccountRepository
func NewGormAccountRepository(db *gorm.DB) *GormAccountRepository {
	return &GormAccountRepository{db: db}
}

// FindByID finds an account by its ID
func (r *GormAccountRepository) FindByID(ctx context.Context, id uuid.UUID) (*accounting.Account, error) {
	var model models.AccountModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByCode finds an account by its normalized code
func (r *GormAccountRepository) FindByCode(ctx context.Context, code string) (*accounting.Account, error) {
	var model models.AccountModel
	if err := r.db.WithContext(ctx).
		Where("code = ?", code).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll returns all accounts matching the filter, ordered by code
func (r *GormAccountRepository) FindAll(ctx context.Context, filter accounting.AccountFilter) ([]accounting.Account, error) {
	var accountModels []models.AccountModel
	query := r.db.WithContext(ctx).Model(&models.AccountModel{})
	if len(filter.Types) > 0 {
		types := make([]string, len(filter.Types))
		for i, accountType := range filter.Types {
			types[i] = accountType.String()
		}
		query = query.Where("type IN ?", types)
	}

	if err := query.Order("code ASC").Find(&accountModels).Error; err != nil {
		return nil, err
	}
	accounts := make([]accounting.Account, len(accountModels))
	for i, model := range accountModels {
		accounts[i] = *model.ToDomain()
	}
	return accounts, nil
}

// ExistsByCode reports whether an account with the given code exists
func (r *GormAccountRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.AccountModel{}).
		Where("code = ?", code).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// HasChildren reports whether any account references the given ID as parent
func (r *GormAccountRepository) HasChildren(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.AccountModel{}).
		Where("parent_id = ?", id).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates an account. A unique index violation on code is
// reported as the domain's already-exists error so concurrent creates with
// the same code fail cleanly.
func (r *GormAccountRepository) Save(ctx context.Context, account *accounting.Account) error {
	model := models.AccountModelFromDomain(account)
	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// Delete removes an account by ID
func (r *GormAccountRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.AccountModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}
