package accounting

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/erp/accounting/internal/domain/accounting"
	"github.com/erp/accounting/internal/domain/shared"
	"github.com/erp/accounting/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LedgerService records and retrieves double-entry transactions
type LedgerService struct {
	transactionRepo accounting.TransactionRepository
	accountRepo     accounting.AccountRepository
}

// NewLedgerService creates a new LedgerService
func NewLedgerService(
	transactionRepo accounting.TransactionRepository,
	accountRepo accounting.AccountRepository,
) *LedgerService {
	return &LedgerService{
		transactionRepo: transactionRepo,
		accountRepo:     accountRepo,
	}
}

// TransactionLineRequest is one posting in a record request
type TransactionLineRequest struct {
	AccountID uuid.UUID       `json:"account_id" binding:"required"`
	Debit     decimal.Decimal `json:"debit"`
	Credit    decimal.Decimal `json:"credit"`
}

// RecordTransactionRequest represents a request to record a transaction
type RecordTransactionRequest struct {
	Date        *time.Time               `json:"date"`
	Description string                   `json:"description" binding:"required"`
	Lines       []TransactionLineRequest `json:"lines" binding:"required"`
	CreatedBy   uuid.UUID                `json:"-"` // acting identity, set by the caller
}

// TransactionLineResponse is one posting in a transaction response, with the
// referenced account resolved for display.
type TransactionLineResponse struct {
	ID          uuid.UUID       `json:"id"`
	AccountID   uuid.UUID       `json:"account_id"`
	AccountCode string          `json:"account_code,omitempty"`
	AccountName string          `json:"account_name,omitempty"`
	AccountType string          `json:"account_type,omitempty"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
}

// TransactionResponse represents a transaction in API responses
type TransactionResponse struct {
	ID          uuid.UUID                 `json:"id"`
	Date        time.Time                 `json:"date"`
	Description string                    `json:"description"`
	Lines       []TransactionLineResponse `json:"lines"`
	TotalDebit  decimal.Decimal           `json:"total_debit"`
	TotalCredit decimal.Decimal           `json:"total_credit"`
	CreatedBy   uuid.UUID                 `json:"created_by"`
	CreatedAt   time.Time                 `json:"created_at"`
}

// RecordTransaction validates and persists a double-entry transaction.
//
// Validation is fail-fast, first violation wins: header fields, then each
// line in order (account existence before debit/credit shape), then the
// balance across all lines. Nothing is persisted until every check passes.
func (s *LedgerService) RecordTransaction(ctx context.Context, req RecordTransactionRequest) (*TransactionResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "transaction", "record")
	defer span.End()

	telemetry.SetAttribute(span, telemetry.SpanAttrLineCount, len(req.Lines))

	if strings.TrimSpace(req.Description) == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Transaction description is required")
	}
	if len(req.Lines) < accounting.MinTransactionLines {
		return nil, shared.NewDomainError("INVALID_INPUT",
			fmt.Sprintf("Transaction requires at least %d lines", accounting.MinTransactionLines))
	}

	totalDebit := decimal.Zero
	totalCredit := decimal.Zero
	lines := make([]accounting.TransactionLine, len(req.Lines))
	accounts := make(map[uuid.UUID]*accounting.Account, len(req.Lines))

	for i, lineReq := range req.Lines {
		index := i + 1

		account, ok := accounts[lineReq.AccountID]
		if !ok {
			var err error
			account, err = s.accountRepo.FindByID(ctx, lineReq.AccountID)
			if err != nil {
				if isNotFound(err) {
					return nil, shared.NewDomainError("NOT_FOUND",
						fmt.Sprintf("Account not found in line %d", index))
				}
				return nil, err
			}
			accounts[lineReq.AccountID] = account
		}

		line := accounting.TransactionLine{
			AccountID: lineReq.AccountID,
			Debit:     lineReq.Debit,
			Credit:    lineReq.Credit,
		}
		if err := line.Validate(index); err != nil {
			return nil, err
		}

		lines[i] = line
		totalDebit = totalDebit.Add(line.Debit)
		totalCredit = totalCredit.Add(line.Credit)
	}

	if !totalDebit.Equal(totalCredit) {
		err := accounting.NewImbalanceError(totalDebit, totalCredit)
		telemetry.RecordError(span, err)
		return nil, err
	}

	var date time.Time
	if req.Date != nil {
		date = *req.Date
	}
	transaction, err := accounting.NewTransaction(date, req.Description, lines, req.CreatedBy)
	if err != nil {
		return nil, err
	}

	if err := s.transactionRepo.Save(ctx, transaction); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	telemetry.AddEvent(span, "transaction_recorded",
		telemetry.SpanAttrTransactionID, transaction.ID.String(),
		telemetry.SpanAttrTotalDebit, totalDebit.String(),
		telemetry.SpanAttrTotalCredit, totalCredit.String(),
	)

	return s.toTransactionResponse(transaction, accounts), nil
}

// GetTransaction returns a single transaction by ID with resolved accounts
func (s *LedgerService) GetTransaction(ctx context.Context, id uuid.UUID) (*TransactionResponse, error) {
	transaction, err := s.transactionRepo.FindByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, shared.NewDomainError("NOT_FOUND", "Transaction not found")
		}
		return nil, err
	}

	accounts, err := s.accountIndex(ctx)
	if err != nil {
		return nil, err
	}
	return s.toTransactionResponse(transaction, accounts), nil
}

// ListTransactions returns every transaction with resolved line accounts
func (s *LedgerService) ListTransactions(ctx context.Context) ([]TransactionResponse, error) {
	transactions, err := s.transactionRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	accounts, err := s.accountIndex(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]TransactionResponse, len(transactions))
	for i := range transactions {
		responses[i] = *s.toTransactionResponse(&transactions[i], accounts)
	}
	return responses, nil
}

// DeleteTransaction hard-deletes a transaction and its lines. There is no
// dependent-data check and no recompute safeguard: reports generated after
// the delete reflect only the surviving transaction set.
func (s *LedgerService) DeleteTransaction(ctx context.Context, id uuid.UUID) error {
	if err := s.transactionRepo.Delete(ctx, id); err != nil {
		if isNotFound(err) {
			return shared.NewDomainError("NOT_FOUND", "Transaction not found")
		}
		return err
	}
	return nil
}

// accountIndex loads all accounts keyed by ID for line resolution
func (s *LedgerService) accountIndex(ctx context.Context) (map[uuid.UUID]*accounting.Account, error) {
	accounts, err := s.accountRepo.FindAll(ctx, accounting.AccountFilter{})
	if err != nil {
		return nil, err
	}
	index := make(map[uuid.UUID]*accounting.Account, len(accounts))
	for i := range accounts {
		index[accounts[i].ID] = &accounts[i]
	}
	return index, nil
}

func (s *LedgerService) toTransactionResponse(transaction *accounting.Transaction, accounts map[uuid.UUID]*accounting.Account) *TransactionResponse {
	lines := make([]TransactionLineResponse, len(transaction.Lines))
	for i, line := range transaction.Lines {
		lineResp := TransactionLineResponse{
			ID:        line.ID,
			AccountID: line.AccountID,
			Debit:     line.Debit,
			Credit:    line.Credit,
		}
		// Account may have been deleted since the transaction was recorded;
		// the line survives with an unresolved reference.
		if account, ok := accounts[line.AccountID]; ok {
			lineResp.AccountCode = account.Code
			lineResp.AccountName = account.Name
			lineResp.AccountType = account.Type.String()
		}
		lines[i] = lineResp
	}

	return &TransactionResponse{
		ID:          transaction.ID,
		Date:        transaction.Date,
		Description: transaction.Description,
		Lines:       lines,
		TotalDebit:  transaction.TotalDebit(),
		TotalCredit: transaction.TotalCredit(),
		CreatedBy:   transaction.CreatedBy,
		CreatedAt:   transaction.CreatedAt,
	}
}
