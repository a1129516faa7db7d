package handler

import (
	acctapp "github.com/erp/accounting/internal/application/accounting"
	"github.com/erp/accounting/internal/interfaces/http/middleware"
	"github.com/erp/accounting/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
)

// ReportHandler handles financial report API endpoints
type ReportHandler struct {
	BaseHandler
	reportService *acctapp.ReportService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reportService *acctapp.ReportService) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
	}
}

// RegisterRoutes mounts the report routes. Reports are read-only and open
// to any authenticated role, so the whole group shares one role check.
func (h *ReportHandler) RegisterRoutes(rg *gin.RouterGroup) {
	router.NewDomainGroup("reports", "/reports").
		Use(middleware.RequireAnyRole(middleware.RoleAdmin, middleware.RoleEmployee)).
		GET("/balance-sheet", h.BalanceSheet).
		GET("/income-statement", h.IncomeStatement).
		RegisterRoutes(rg)
}

// BalanceSheet handles GET /reports/balance-sheet
func (h *ReportHandler) BalanceSheet(c *gin.Context) {
	report, err := h.reportService.GenerateBalanceSheet(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, report)
}

// IncomeStatement handles GET /reports/income-statement
func (h *ReportHandler) IncomeStatement(c *gin.Context) {
	report, err := h.reportService.GenerateIncomeStatement(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, report)
}
