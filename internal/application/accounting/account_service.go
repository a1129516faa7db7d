package accounting

import (
	"context"
	"time"

	"github.com/erp/accounting/internal/domain/accounting"
	"github.com/erp/accounting/internal/domain/shared"
	"github.com/google/uuid"
)

// AccountService provides application-level chart of accounts operations
type AccountService struct {
	accountRepo accounting.AccountRepository
}

// NewAccountService creates a new AccountService
func NewAccountService(accountRepo accounting.AccountRepository) *AccountService {
	return &AccountService{accountRepo: accountRepo}
}

// AccountResponse represents an account in API responses
type AccountResponse struct {
	ID          uuid.UUID  `json:"id"`
	Code        string     `json:"code"`
	Name        string     `json:"name"`
	Type        string     `json:"type"`
	ParentID    *uuid.UUID `json:"parent_id,omitempty"`
	IsGroup     bool       `json:"is_group"`
	Description string     `json:"description,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// CreateAccountRequest represents a request to create an account
type CreateAccountRequest struct {
	Code        string     `json:"code" binding:"required"`
	Name        string     `json:"name" binding:"required"`
	Type        string     `json:"type" binding:"required"`
	ParentID    *uuid.UUID `json:"parent_id"`
	IsGroup     bool       `json:"is_group"`
	Description string     `json:"description"`
}

// UpdateAccountRequest represents a partial account update. Nil fields are
// left untouched. The account type is fixed at creation and cannot be patched.
type UpdateAccountRequest struct {
	Code        *string    `json:"code"`
	Name        *string    `json:"name"`
	Type        *string    `json:"type"`
	ParentID    *uuid.UUID `json:"parent_id"`
	ClearParent bool       `json:"clear_parent"`
	IsGroup     *bool      `json:"is_group"`
	Description *string    `json:"description"`
}

// CreateAccount creates a new account in the chart of accounts.
// The repository's uniqueness check here is a fast path; the database unique
// index on the normalized code is the authoritative guard under concurrency.
func (s *AccountService) CreateAccount(ctx context.Context, req CreateAccountRequest) (*AccountResponse, error) {
	accountType, err := accounting.ParseAccountType(req.Type)
	if err != nil {
		return nil, err
	}

	account, err := accounting.NewAccount(req.Code, req.Name, accountType, req.ParentID, req.IsGroup, req.Description)
	if err != nil {
		return nil, err
	}

	exists, err := s.accountRepo.ExistsByCode(ctx, account.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "An account with this code already exists")
	}

	if req.ParentID != nil {
		if _, err := s.accountRepo.FindByID(ctx, *req.ParentID); err != nil {
			if isNotFound(err) {
				return nil, shared.NewDomainError("NOT_FOUND", "Parent account not found")
			}
			return nil, err
		}
	}

	if err := s.accountRepo.Save(ctx, account); err != nil {
		return nil, err
	}

	return toAccountResponse(account), nil
}

// GetAccount returns a single account by ID
func (s *AccountService) GetAccount(ctx context.Context, id uuid.UUID) (*AccountResponse, error) {
	account, err := s.accountRepo.FindByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, shared.NewDomainError("NOT_FOUND", "Account not found")
		}
		return nil, err
	}
	return toAccountResponse(account), nil
}

// ListAccounts returns all accounts, optionally filtered by type
func (s *AccountService) ListAccounts(ctx context.Context, typeFilter string) ([]AccountResponse, error) {
	filter := accounting.AccountFilter{}
	if typeFilter != "" {
		accountType, err := accounting.ParseAccountType(typeFilter)
		if err != nil {
			return nil, err
		}
		filter.Types = []accounting.AccountType{accountType}
	}

	accounts, err := s.accountRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]AccountResponse, len(accounts))
	for i := range accounts {
		responses[i] = *toAccountResponse(&accounts[i])
	}
	return responses, nil
}

// UpdateAccount applies a partial update to an account
func (s *AccountService) UpdateAccount(ctx context.Context, id uuid.UUID, req UpdateAccountRequest) (*AccountResponse, error) {
	account, err := s.accountRepo.FindByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, shared.NewDomainError("NOT_FOUND", "Account not found")
		}
		return nil, err
	}

	if req.Type != nil {
		requested, err := accounting.ParseAccountType(*req.Type)
		if err != nil {
			return nil, err
		}
		if requested != account.Type {
			return nil, shared.NewDomainError("INVALID_INPUT", "Account type is fixed at creation and cannot be changed")
		}
	}

	if req.Code != nil {
		newCode := accounting.NormalizeAccountCode(*req.Code)
		if newCode != account.Code {
			exists, err := s.accountRepo.ExistsByCode(ctx, newCode)
			if err != nil {
				return nil, err
			}
			if exists {
				return nil, shared.NewDomainError("ALREADY_EXISTS", "An account with this code already exists")
			}
		}
		if err := account.ChangeCode(*req.Code); err != nil {
			return nil, err
		}
	}

	if req.Name != nil {
		if err := account.Rename(*req.Name); err != nil {
			return nil, err
		}
	}

	switch {
	case req.ClearParent:
		account.SetParent(nil)
	case req.ParentID != nil:
		if *req.ParentID == account.ID {
			return nil, shared.NewDomainError("INVALID_INPUT", "An account cannot be its own parent")
		}
		if _, err := s.accountRepo.FindByID(ctx, *req.ParentID); err != nil {
			if isNotFound(err) {
				return nil, shared.NewDomainError("NOT_FOUND", "Parent account not found")
			}
			return nil, err
		}
		account.SetParent(req.ParentID)
	}

	if req.IsGroup != nil {
		account.SetGroup(*req.IsGroup)
	}
	if req.Description != nil {
		account.SetDescription(*req.Description)
	}

	if err := s.accountRepo.Save(ctx, account); err != nil {
		return nil, err
	}

	return toAccountResponse(account), nil
}

// DeleteAccount removes an account. Accounts that still have children cannot
// be deleted; children are never cascaded.
func (s *AccountService) DeleteAccount(ctx context.Context, id uuid.UUID) error {
	hasChildren, err := s.accountRepo.HasChildren(ctx, id)
	if err != nil {
		return err
	}
	if hasChildren {
		return shared.NewDomainError("CONFLICT", "Account cannot be deleted because child accounts reference it")
	}

	if err := s.accountRepo.Delete(ctx, id); err != nil {
		if isNotFound(err) {
			return shared.NewDomainError("NOT_FOUND", "Account not found")
		}
		return err
	}
	return nil
}

func toAccountResponse(account *accounting.Account) *AccountResponse {
	return &AccountResponse{
		ID:          account.ID,
		Code:        account.Code,
		Name:        account.Name,
		Type:        account.Type.String(),
		ParentID:    account.ParentID,
		IsGroup:     account.IsGroup,
		Description: account.Description,
		CreatedAt:   account.CreatedAt,
		UpdatedAt:   account.UpdatedAt,
	}
}

// isNotFound reports whether err is the shared not-found domain error
func isNotFound(err error) bool {
	return err == shared.ErrNotFound
}
