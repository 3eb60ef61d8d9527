// Package service holds the ledger service: the monthly balance-update
// engine, the totals projection and the category CRUD operations over the
// single persisted document.
package service

import (
	"log/slog"

	"time"

	"finboard/internal/calendar"
	"finboard/internal/core"
)

// TriggerKind names a monthly trigger applied by the engine.
type TriggerKind string

const (
	TriggerDebtPayment  TriggerKind = "debt_payment"
	TriggerSalaryCredit TriggerKind = "salary_credit"
)

// AppliedTrigger describes one monthly trigger that fired during a load.
type AppliedTrigger struct {
	Kind     TriggerKind
	MonthKey string
	// Amount is the balance delta: negative for the debt payment, positive
	// for the salary credit.
	Amount float64
}

// ApplyMonthlyTriggers evaluates both monthly triggers against the document
// for the given wall-clock date and mutates it in place. Each trigger fires at
// most once per calendar month, guarded by the month keys in the document
// metadata, so re-evaluating on every load is safe.
//
// The debt trigger is evaluated before the salary trigger; both touch the same
// balance item and must be applied sequentially.
func ApplyMonthlyTriggers(doc *core.Document, now time.Time) []AppliedTrigger {
	monthKey := calendar.MonthKey(now)
	balance := doc.BalanceItem()

	var applied []AppliedTrigger

	// Debt payment clears on the last calendar day of the month.
	if calendar.SameDay(now, calendar.EndOfMonth(now)) && doc.Metadata.LastDebtPaymentMonth != monthKey {
		if balance == nil {
			slog.Warn("Debt payment skipped: balance item missing", "month", monthKey)
		} else {
			var totalPayment float64
			for i := range doc.Debts {
				payment := core.SafeFloat(doc.Debts[i].MonthlyPayment)
				totalPayment += payment
				remaining := core.SafeFloat(doc.Debts[i].Amount) - payment
				if remaining < 0 {
					remaining = 0
				}
				doc.Debts[i].Amount = remaining
			}
			balance.Amount = core.SafeFloat(balance.Amount) - totalPayment
			doc.Metadata.LastDebtPaymentMonth = monthKey

			applied = append(applied, AppliedTrigger{
				Kind:     TriggerDebtPayment,
				MonthKey: monthKey,
				Amount:   -totalPayment,
			})
			slog.Info("Monthly debt payment applied",
				"month", monthKey,
				"total_payment", totalPayment,
				"debts", len(doc.Debts))
		}
	}

	// Salary lands on the 3rd-last working day and credits once from that day
	// onward.
	// The comparison is date-granular: SalaryDate is a UTC midnight while now
	// carries the local wall clock, so comparing instants would shift the
	// boundary by the zone offset.
	salaryDate, ok := calendar.SalaryDate(now.Year(), now.Month())
	if ok && calendar.OnOrAfterDay(now, salaryDate) && doc.Metadata.LastBalanceUpdateMonth != monthKey {
		salary := doc.SalaryItem()
		switch {
		case balance == nil:
			slog.Warn("Salary credit skipped: balance item missing", "month", monthKey)
		case salary == nil:
			slog.Warn("Salary credit skipped: salary item missing", "month", monthKey)
		default:
			amount := core.SafeFloat(salary.Amount)
			balance.Amount = core.SafeFloat(balance.Amount) + amount
			doc.Metadata.LastBalanceUpdateMonth = monthKey

			applied = append(applied, AppliedTrigger{
				Kind:     TriggerSalaryCredit,
				MonthKey: monthKey,
				Amount:   amount,
			})
			slog.Info("Monthly salary credited",
				"month", monthKey,
				"salary_date", salaryDate.Format(core.DateLayout),
				"amount", amount)
		}
	}

	return applied
}
