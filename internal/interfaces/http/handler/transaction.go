package handler

import (
	acctapp "github.com/erp/accounting/internal/application/accounting"
	"github.com/erp/accounting/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// TransactionHandler handles double-entry transaction API endpoints
type TransactionHandler struct {
	BaseHandler
	ledgerService *acctapp.LedgerService
}

// NewTransactionHandler creates a new TransactionHandler
func NewTransactionHandler(ledgerService *acctapp.LedgerService) *TransactionHandler {
	return &TransactionHandler{
		ledgerService: ledgerService,
	}
}

// RegisterRoutes registers transaction routes on the given group. Reads are
// open to any authenticated role; writes require the admin role.
func (h *TransactionHandler) RegisterRoutes(rg *gin.RouterGroup) {
	transactions := rg.Group("/transactions")
	transactions.GET("", middleware.RequireAnyRole(middleware.RoleAdmin, middleware.RoleEmployee), h.List)
	transactions.GET("/:id", middleware.RequireAnyRole(middleware.RoleAdmin, middleware.RoleEmployee), h.GetByID)
	transactions.POST("", middleware.RequireRole(middleware.RoleAdmin), h.Record)
	transactions.DELETE("/:id", middleware.RequireRole(middleware.RoleAdmin), h.Delete)
}

// Record handles POST /transactions. The acting user from the JWT claims is
// recorded as the transaction's creator.
func (h *TransactionHandler) Record(c *gin.Context) {
	var req acctapp.RecordTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "User identity required to record a transaction")
		return
	}
	req.CreatedBy = userID

	transaction, err := h.ledgerService.RecordTransaction(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, transaction)
}

// GetByID handles GET /transactions/:id
func (h *TransactionHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid transaction ID format")
		return
	}

	transaction, err := h.ledgerService.GetTransaction(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, transaction)
}

// List handles GET /transactions
func (h *TransactionHandler) List(c *gin.Context) {
	transactions, err := h.ledgerService.ListTransactions(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, transactions)
}

// Delete handles DELETE /transactions/:id
func (h *TransactionHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid transaction ID format")
		return
	}

	if err := h.ledgerService.DeleteTransaction(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
