package service

import (
	"time"

	"finboard/internal/core"
)

// Totals is the derived dashboard projection. It is recomputed from the
// document on every read and never cached or persisted.
type Totals struct {
	CurrentBalance  float64 `json:"currentBalance"`
	TotalIncomeRate float64 `json:"totalIncomeRate"`

	TotalExpenses    float64 `json:"totalExpenses"`
	TotalInvestments float64 `json:"totalInvestments"`
	TotalDebt        float64 `json:"totalDebt"`
	TotalDebtPayment float64 `json:"totalDebtPayment"`

	CurrentMonthPurchasesTotal float64 `json:"currentMonthPurchasesTotal"`
	TotalAllTimePurchases      float64 `json:"totalAllTimePurchases"`
	CurrentMonthInflowsTotal   float64 `json:"currentMonthInflowsTotal"`
	TotalAllTimeInflows        float64 `json:"totalAllTimeInflows"`

	MonthlyRecurringOutflow float64 `json:"monthlyRecurringOutflow"`
	TotalOutflow            float64 `json:"totalOutflow"`
	TotalInflowForStats     float64 `json:"totalInflowForStats"`
	RemainingBalance        float64 `json:"remainingBalance"`
	IsPositive              bool    `json:"isPositive"`
}

// CalculateTotals derives the dashboard aggregates from the document state
// and the current wall-clock date (month granularity).
func CalculateTotals(doc *core.Document, now time.Time) Totals {
	var t Totals

	if balance := doc.BalanceItem(); balance != nil {
		t.CurrentBalance = core.SafeFloat(balance.Amount)
	}
	for _, item := range doc.Income {
		if item.ID == core.BalanceItemID {
			continue
		}
		t.TotalIncomeRate += core.SafeFloat(item.Amount)
	}

	for _, item := range doc.Expenses {
		t.TotalExpenses += core.SafeFloat(item.Amount)
	}
	for _, item := range doc.Investments {
		t.TotalInvestments += core.SafeFloat(item.Amount)
	}
	for _, debt := range doc.Debts {
		t.TotalDebt += core.SafeFloat(debt.Amount)
		t.TotalDebtPayment += core.SafeFloat(debt.MonthlyPayment)
	}

	t.CurrentMonthPurchasesTotal, t.TotalAllTimePurchases = sumDated(doc.Purchases, now)
	t.CurrentMonthInflowsTotal, t.TotalAllTimeInflows = sumDated(doc.OneTimeInflows, now)

	t.MonthlyRecurringOutflow = t.TotalExpenses + t.TotalInvestments + t.TotalDebtPayment
	t.TotalOutflow = t.MonthlyRecurringOutflow + t.CurrentMonthPurchasesTotal
	t.TotalInflowForStats = t.TotalIncomeRate + t.CurrentMonthInflowsTotal
	t.RemainingBalance = t.TotalIncomeRate - t.MonthlyRecurringOutflow
	t.IsPositive = t.RemainingBalance >= 0

	return t
}

// sumDated totals a dated category all-time and filtered to now's month.
// Unparseable dates collapse to the sentinel and drop out of the current-month
// sum only.
func sumDated(items []core.DatedItem, now time.Time) (currentMonth, allTime float64) {
	for _, item := range items {
		amount := core.SafeFloat(item.Amount)
		allTime += amount

		d := core.ItemDate(item.Date)
		if d.Year() == now.Year() && d.Month() == now.Month() {
			currentMonth += amount
		}
	}
	return currentMonth, allTime
}
