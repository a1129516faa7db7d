package handler

import (
	acctapp "github.com/erp/accounting/internal/application/accounting"
	"github.com/erp/accounting/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AccountHandler handles chart of accounts API endpoints
type AccountHandler struct {
	BaseHandler
	accountService *acctapp.AccountService
}

// NewAccountHandler creates a new AccountHandler
func NewAccountHandler(accountService *acctapp.AccountService) *AccountHandler {
	return &AccountHandler{
		accountService: accountService,
	}
}

// RegisterRoutes registers account routes on the given group. Reads are open
// to any authenticated role; writes require the admin role.
func (h *AccountHandler) RegisterRoutes(rg *gin.RouterGroup) {
	accounts := rg.Group("/accounts")
	accounts.GET("", middleware.RequireAnyRole(middleware.RoleAdmin, middleware.RoleEmployee), h.List)
	accounts.GET("/:id", middleware.RequireAnyRole(middleware.RoleAdmin, middleware.RoleEmployee), h.GetByID)
	accounts.POST("", middleware.RequireRole(middleware.RoleAdmin), h.Create)
	accounts.PUT("/:id", middleware.RequireRole(middleware.RoleAdmin), h.Update)
	accounts.DELETE("/:id", middleware.RequireRole(middleware.RoleAdmin), h.Delete)
}

// Create handles POST /accounts
func (h *AccountHandler) Create(c *gin.Context) {
	var req acctapp.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	account, err := h.accountService.CreateAccount(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, account)
}

// GetByID handles GET /accounts/:id
func (h *AccountHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid account ID format")
		return
	}

	account, err := h.accountService.GetAccount(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, account)
}

// List handles GET /accounts. An optional "type" query parameter filters by
// account type; values are matched case-insensitively.
func (h *AccountHandler) List(c *gin.Context) {
	typeFilter := c.Query("type")

	accounts, err := h.accountService.ListAccounts(c.Request.Context(), typeFilter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, accounts)
}

// Update handles PUT /accounts/:id
func (h *AccountHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid account ID format")
		return
	}

	var req acctapp.UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	account, err := h.accountService.UpdateAccount(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, account)
}

// Delete handles DELETE /accounts/:id
func (h *AccountHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid account ID format")
		return
	}

	if err := h.accountService.DeleteAccount(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
