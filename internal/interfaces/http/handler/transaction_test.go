package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	acctapp "github.com/erp/accounting/internal/application/accounting"
	"github.com/erp/accounting/internal/domain/accounting"
	"github.com/erp/accounting/internal/domain/shared"
	"github.com/erp/accounting/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTransactionTestRouter(transactionRepo *MockTransactionRepository, accountRepo *MockAccountRepository) *gin.Engine {
	service := acctapp.NewLedgerService(transactionRepo, accountRepo)
	h := NewTransactionHandler(service)

	router := gin.New()
	router.POST("/transactions", h.Record)
	router.GET("/transactions", h.List)
	router.GET("/transactions/:id", h.GetByID)
	router.DELETE("/transactions/:id", h.Delete)
	return router
}

func recordRequest(t *testing.T, router *gin.Engine, userID uuid.UUID, body string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/transactions", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	if userID != uuid.Nil {
		req.Header.Set("X-User-ID", userID.String())
	}
	router.ServeHTTP(w, req)
	return w
}

func TestTransactionHandler_Record(t *testing.T) {
	cash := newTestAccount(t, "1000", "Cash", accounting.AccountTypeAsset)
	sales := newTestAccount(t, "4000", "Sales", accounting.AccountTypeIncome)
	userID := uuid.New()

	accountRepo := new(MockAccountRepository)
	accountRepo.On("FindByID", mock.Anything, cash.ID).Return(cash, nil)
	accountRepo.On("FindByID", mock.Anything, sales.ID).Return(sales, nil)

	transactionRepo := new(MockTransactionRepository)
	transactionRepo.On("Save", mock.Anything, mock.AnythingOfType("*accounting.Transaction")).Return(nil)

	router := newTransactionTestRouter(transactionRepo, accountRepo)

	body := fmt.Sprintf(`{
		"description": "Cash sale",
		"lines": [
			{"account_id": %q, "debit": "150.00"},
			{"account_id": %q, "credit": "150.00"}
		]
	}`, cash.ID, sales.ID)

	w := recordRequest(t, router, userID, body)

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)

	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "Cash sale", data["description"])
	assert.Equal(t, "150.00", data["total_debit"])
	assert.Equal(t, "150.00", data["total_credit"])
	assert.Equal(t, userID.String(), data["created_by"])

	lines := data["lines"].([]interface{})
	require.Len(t, lines, 2)
	first := lines[0].(map[string]interface{})
	assert.Equal(t, "1000", first["account_code"])
	assert.Equal(t, "Cash", first["account_name"])

	transactionRepo.AssertExpectations(t)
}

func TestTransactionHandler_Record_NoUserIdentity(t *testing.T) {
	accountRepo := new(MockAccountRepository)
	transactionRepo := new(MockTransactionRepository)
	router := newTransactionTestRouter(transactionRepo, accountRepo)

	body := fmt.Sprintf(`{
		"description": "Cash sale",
		"lines": [
			{"account_id": %q, "debit": "150.00"},
			{"account_id": %q, "credit": "150.00"}
		]
	}`, uuid.New(), uuid.New())

	w := recordRequest(t, router, uuid.Nil, body)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	transactionRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestTransactionHandler_Record_Imbalanced(t *testing.T) {
	cash := newTestAccount(t, "1000", "Cash", accounting.AccountTypeAsset)
	sales := newTestAccount(t, "4000", "Sales", accounting.AccountTypeIncome)

	accountRepo := new(MockAccountRepository)
	accountRepo.On("FindByID", mock.Anything, cash.ID).Return(cash, nil)
	accountRepo.On("FindByID", mock.Anything, sales.ID).Return(sales, nil)

	transactionRepo := new(MockTransactionRepository)
	router := newTransactionTestRouter(transactionRepo, accountRepo)

	body := fmt.Sprintf(`{
		"description": "Does not balance",
		"lines": [
			{"account_id": %q, "debit": "150.00"},
			{"account_id": %q, "credit": "100.00"}
		]
	}`, cash.ID, sales.ID)

	w := recordRequest(t, router, uuid.New(), body)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, dto.ErrCodeImbalanced, resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "150")
	assert.Contains(t, resp.Error.Message, "100")
	transactionRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestTransactionHandler_Record_UnknownAccount(t *testing.T) {
	missingID := uuid.New()
	otherID := uuid.New()

	accountRepo := new(MockAccountRepository)
	accountRepo.On("FindByID", mock.Anything, missingID).Return(nil, shared.ErrNotFound)

	transactionRepo := new(MockTransactionRepository)
	router := newTransactionTestRouter(transactionRepo, accountRepo)

	body := fmt.Sprintf(`{
		"description": "References unknown account",
		"lines": [
			{"account_id": %q, "debit": "50.00"},
			{"account_id": %q, "credit": "50.00"}
		]
	}`, missingID, otherID)

	w := recordRequest(t, router, uuid.New(), body)

	assert.Equal(t, http.StatusNotFound, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, dto.ErrCodeNotFound, resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "line 1")
}

func TestTransactionHandler_Record_MissingDescription(t *testing.T) {
	accountRepo := new(MockAccountRepository)
	transactionRepo := new(MockTransactionRepository)
	router := newTransactionTestRouter(transactionRepo, accountRepo)

	body := fmt.Sprintf(`{
		"lines": [
			{"account_id": %q, "debit": "50.00"},
			{"account_id": %q, "credit": "50.00"}
		]
	}`, uuid.New(), uuid.New())

	w := recordRequest(t, router, uuid.New(), body)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTransactionHandler_GetByID(t *testing.T) {
	cash := newTestAccount(t, "1000", "Cash", accounting.AccountTypeAsset)
	sales := newTestAccount(t, "4000", "Sales", accounting.AccountTypeIncome)

	transaction, err := accounting.NewTransaction(
		time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		"Cash sale",
		[]accounting.TransactionLine{
			{AccountID: cash.ID, Debit: decimal.NewFromInt(150)},
			{AccountID: sales.ID, Credit: decimal.NewFromInt(150)},
		},
		uuid.New(),
	)
	require.NoError(t, err)

	accountRepo := new(MockAccountRepository)
	accountRepo.On("FindAll", mock.Anything, accounting.AccountFilter{}).
		Return([]accounting.Account{*cash, *sales}, nil)

	transactionRepo := new(MockTransactionRepository)
	transactionRepo.On("FindByID", mock.Anything, transaction.ID).Return(transaction, nil)

	router := newTransactionTestRouter(transactionRepo, accountRepo)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/transactions/"+transaction.ID.String(), nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, transaction.ID.String(), data["id"])

	lines := data["lines"].([]interface{})
	require.Len(t, lines, 2)
	second := lines[1].(map[string]interface{})
	assert.Equal(t, "4000", second["account_code"])
	assert.Equal(t, "INCOME", second["account_type"])
}

func TestTransactionHandler_GetByID_NotFound(t *testing.T) {
	id := uuid.New()

	accountRepo := new(MockAccountRepository)
	transactionRepo := new(MockTransactionRepository)
	transactionRepo.On("FindByID", mock.Anything, id).Return(nil, shared.ErrNotFound)

	router := newTransactionTestRouter(transactionRepo, accountRepo)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/transactions/"+id.String(), nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTransactionHandler_GetByID_InvalidID(t *testing.T) {
	accountRepo := new(MockAccountRepository)
	transactionRepo := new(MockTransactionRepository)
	router := newTransactionTestRouter(transactionRepo, accountRepo)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/transactions/not-a-uuid", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTransactionHandler_List(t *testing.T) {
	cash := newTestAccount(t, "1000", "Cash", accounting.AccountTypeAsset)
	sales := newTestAccount(t, "4000", "Sales", accounting.AccountTypeIncome)

	transaction, err := accounting.NewTransaction(
		time.Now(),
		"Cash sale",
		[]accounting.TransactionLine{
			{AccountID: cash.ID, Debit: decimal.NewFromInt(150)},
			{AccountID: sales.ID, Credit: decimal.NewFromInt(150)},
		},
		uuid.New(),
	)
	require.NoError(t, err)

	accountRepo := new(MockAccountRepository)
	accountRepo.On("FindAll", mock.Anything, accounting.AccountFilter{}).
		Return([]accounting.Account{*cash, *sales}, nil)

	transactionRepo := new(MockTransactionRepository)
	transactionRepo.On("FindAll", mock.Anything).Return([]accounting.Transaction{*transaction}, nil)

	router := newTransactionTestRouter(transactionRepo, accountRepo)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/transactions", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp.Data.([]interface{})
	assert.Len(t, data, 1)
}

func TestTransactionHandler_Delete(t *testing.T) {
	id := uuid.New()

	accountRepo := new(MockAccountRepository)
	transactionRepo := new(MockTransactionRepository)
	transactionRepo.On("Delete", mock.Anything, id).Return(nil)

	router := newTransactionTestRouter(transactionRepo, accountRepo)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/transactions/"+id.String(), nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	transactionRepo.AssertExpectations(t)
}

func TestTransactionHandler_Delete_NotFound(t *testing.T) {
	id := uuid.New()

	accountRepo := new(MockAccountRepository)
	transactionRepo := new(MockTransactionRepository)
	transactionRepo.On("Delete", mock.Anything, id).Return(shared.ErrNotFound)

	router := newTransactionTestRouter(transactionRepo, accountRepo)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/transactions/"+id.String(), nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
