package accounting

import (
	"context"

	"github.com/erp/accounting/internal/domain/accounting"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BalanceSource computes per-account balances for a set of account types
type BalanceSource interface {
	ComputeBalances(ctx context.Context, types []accounting.AccountType) ([]accounting.AccountBalance, error)
}

// ReportService derives the balance sheet and income statement from the
// ledger. Both reports are read-only views of current state; authorization is
// the caller's concern.
type ReportService struct {
	balances BalanceSource
}

// NewReportService creates a new ReportService
func NewReportService(balances BalanceSource) *ReportService {
	return &ReportService{balances: balances}
}

// ReportLine is a single account row in a report
type ReportLine struct {
	ID      uuid.UUID       `json:"id"`
	Code    string          `json:"code"`
	Name    string          `json:"name"`
	Balance decimal.Decimal `json:"balance"`
}

// BalanceSheet groups asset, liability and capital balances with per-type
// totals. Totals follow the uniform debit-minus-credit convention, so the
// liability and capital totals of a conventionally funded business come out
// negative; consumers must not re-interpret the sign.
type BalanceSheet struct {
	Asset          []ReportLine    `json:"asset"`
	Liability      []ReportLine    `json:"liability"`
	Capital        []ReportLine    `json:"capital"`
	TotalAsset     decimal.Decimal `json:"totalAsset"`
	TotalLiability decimal.Decimal `json:"totalLiability"`
	TotalCapital   decimal.Decimal `json:"totalCapital"`
}

// IncomeStatement groups income and expense balances with totals and the
// derived net income.
type IncomeStatement struct {
	Income       []ReportLine    `json:"income"`
	Expense      []ReportLine    `json:"expense"`
	TotalIncome  decimal.Decimal `json:"totalIncome"`
	TotalExpense decimal.Decimal `json:"totalExpense"`
	NetIncome    decimal.Decimal `json:"netIncome"`
}

// GenerateBalanceSheet builds the balance sheet from current ledger state
func (s *ReportService) GenerateBalanceSheet(ctx context.Context) (*BalanceSheet, error) {
	balances, err := s.balances.ComputeBalances(ctx, accounting.BalanceSheetTypes())
	if err != nil {
		return nil, err
	}

	report := &BalanceSheet{
		Asset:          make([]ReportLine, 0),
		Liability:      make([]ReportLine, 0),
		Capital:        make([]ReportLine, 0),
		TotalAsset:     decimal.Zero,
		TotalLiability: decimal.Zero,
		TotalCapital:   decimal.Zero,
	}

	for _, balance := range balances {
		line := toReportLine(balance)
		switch balance.Type {
		case accounting.AccountTypeAsset:
			report.Asset = append(report.Asset, line)
			report.TotalAsset = report.TotalAsset.Add(balance.Balance)
		case accounting.AccountTypeLiability:
			report.Liability = append(report.Liability, line)
			report.TotalLiability = report.TotalLiability.Add(balance.Balance)
		case accounting.AccountTypeCapital:
			report.Capital = append(report.Capital, line)
			report.TotalCapital = report.TotalCapital.Add(balance.Balance)
		}
	}

	return report, nil
}

// GenerateIncomeStatement builds the income statement from current ledger state
func (s *ReportService) GenerateIncomeStatement(ctx context.Context) (*IncomeStatement, error) {
	balances, err := s.balances.ComputeBalances(ctx, accounting.IncomeStatementTypes())
	if err != nil {
		return nil, err
	}

	report := &IncomeStatement{
		Income:       make([]ReportLine, 0),
		Expense:      make([]ReportLine, 0),
		TotalIncome:  decimal.Zero,
		TotalExpense: decimal.Zero,
	}

	for _, balance := range balances {
		line := toReportLine(balance)
		switch balance.Type {
		case accounting.AccountTypeIncome:
			report.Income = append(report.Income, line)
			report.TotalIncome = report.TotalIncome.Add(balance.Balance)
		case accounting.AccountTypeExpense:
			report.Expense = append(report.Expense, line)
			report.TotalExpense = report.TotalExpense.Add(balance.Balance)
		}
	}

	report.NetIncome = report.TotalIncome.Sub(report.TotalExpense)
	return report, nil
}

func toReportLine(balance accounting.AccountBalance) ReportLine {
	return ReportLine{
		ID:      balance.AccountID,
		Code:    balance.Code,
		Name:    balance.Name,
		Balance: balance.Balance,
	}
}
