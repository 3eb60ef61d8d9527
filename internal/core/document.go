package core

import (
	"time"
)

const (
	// SalaryItemID identifies the income entry holding the recurring salary rate.
	SalaryItemID = "inc1"
	// BalanceItemID identifies the income entry holding the running account
	// balance. The entry is protected: it cannot be deleted or renamed.
	BalanceItemID = "inc2"
	// BalanceItemName is the fixed display name of the balance entry.
	BalanceItemName = "Current Account Balance"

	// SentinelDate replaces unparseable item dates so they sort far in the past
	// and never match the current month.
	SentinelDate = "1900-01-01"

	// DateLayout is the wire format for item dates.
	DateLayout = "2006-01-02"
)

type (
	// RateItem is a recurring monthly amount (income, expense or investment).
	RateItem struct {
		ID     string  `json:"id"`
		Name   string  `json:"name"`
		Amount float64 `json:"amount"`
	}

	// Debt tracks an outstanding principal and its scheduled monthly payment.
	// Amount only decreases through monthly payments and never drops below zero.
	Debt struct {
		ID             string  `json:"id"`
		Name           string  `json:"name"`
		Amount         float64 `json:"amount"`
		MonthlyPayment float64 `json:"monthlyPayment"`
	}

	// DatedItem is a one-time transaction (purchase or inflow) tied to a date.
	DatedItem struct {
		ID     string  `json:"id"`
		Name   string  `json:"name"`
		Amount float64 `json:"amount"`
		Date   string  `json:"date"`
	}

	// Metadata carries the idempotency guards for the monthly triggers.
	// A value is a YYYY-MM month key, or empty when the trigger has never run.
	Metadata struct {
		LastBalanceUpdateMonth string `json:"last_balance_update_month"`
		LastDebtPaymentMonth   string `json:"last_debt_payment_month"`
	}

	// Document is the single persisted ledger document. One instance exists per
	// deployment; every mutation replaces it wholesale in the store.
	Document struct {
		Income         []RateItem  `json:"income"`
		Expenses       []RateItem  `json:"expenses"`
		Investments    []RateItem  `json:"investments"`
		Debts          []Debt      `json:"debts"`
		Purchases      []DatedItem `json:"purchases"`
		OneTimeInflows []DatedItem `json:"one_time_inflows"`
		Metadata       Metadata    `json:"metadata"`
	}
)

// Category is the closed set of list-valued document fields.
type Category string

const (
	CategoryIncome         Category = "income"
	CategoryExpenses       Category = "expenses"
	CategoryInvestments    Category = "investments"
	CategoryDebts          Category = "debts"
	CategoryPurchases      Category = "purchases"
	CategoryOneTimeInflows Category = "one_time_inflows"
)

// ParseCategory validates a category name from a request.
func ParseCategory(s string) (Category, error) {
	switch c := Category(s); c {
	case CategoryIncome, CategoryExpenses, CategoryInvestments,
		CategoryDebts, CategoryPurchases, CategoryOneTimeInflows:
		return c, nil
	default:
		return "", ErrUnknownCategory
	}
}

// InstantSign returns the balance delta sign for instant categories: +1 for
// one-time inflows, -1 for purchases, 0 for recurring-rate categories.
func (c Category) InstantSign() float64 {
	switch c {
	case CategoryOneTimeInflows:
		return 1
	case CategoryPurchases:
		return -1
	default:
		return 0
	}
}

// IsInstant reports whether items in the category affect the balance
// immediately on add, edit and delete.
func (c Category) IsInstant() bool {
	return c.InstantSign() != 0
}

// BalanceItem returns the protected balance entry, or nil if it is missing.
func (d *Document) BalanceItem() *RateItem {
	return d.incomeByID(BalanceItemID)
}

// SalaryItem returns the recurring salary entry, or nil if it is missing.
func (d *Document) SalaryItem() *RateItem {
	return d.incomeByID(SalaryItemID)
}

func (d *Document) incomeByID(id string) *RateItem {
	for i := range d.Income {
		if d.Income[i].ID == id {
			return &d.Income[i]
		}
	}
	return nil
}

// Normalize coerces every monetary field to a finite number and ensures the
// category slices are non-nil, so a document read from any boundary is always
// well formed and marshals to valid JSON.
func (d *Document) Normalize() {
	if d.Income == nil {
		d.Income = []RateItem{}
	}
	if d.Expenses == nil {
		d.Expenses = []RateItem{}
	}
	if d.Investments == nil {
		d.Investments = []RateItem{}
	}
	if d.Debts == nil {
		d.Debts = []Debt{}
	}
	if d.Purchases == nil {
		d.Purchases = []DatedItem{}
	}
	if d.OneTimeInflows == nil {
		d.OneTimeInflows = []DatedItem{}
	}
	for i := range d.Income {
		d.Income[i].Amount = SafeFloat(d.Income[i].Amount)
	}
	for i := range d.Expenses {
		d.Expenses[i].Amount = SafeFloat(d.Expenses[i].Amount)
	}
	for i := range d.Investments {
		d.Investments[i].Amount = SafeFloat(d.Investments[i].Amount)
	}
	for i := range d.Debts {
		d.Debts[i].Amount = SafeFloat(d.Debts[i].Amount)
		d.Debts[i].MonthlyPayment = SafeFloat(d.Debts[i].MonthlyPayment)
	}
	for i := range d.Purchases {
		d.Purchases[i].Amount = SafeFloat(d.Purchases[i].Amount)
	}
	for i := range d.OneTimeInflows {
		d.OneTimeInflows[i].Amount = SafeFloat(d.OneTimeInflows[i].Amount)
	}
}

// Clone returns a deep copy of the document.
func (d *Document) Clone() *Document {
	c := &Document{
		Income:         append([]RateItem{}, d.Income...),
		Expenses:       append([]RateItem{}, d.Expenses...),
		Investments:    append([]RateItem{}, d.Investments...),
		Debts:          append([]Debt{}, d.Debts...),
		Purchases:      append([]DatedItem{}, d.Purchases...),
		OneTimeInflows: append([]DatedItem{}, d.OneTimeInflows...),
		Metadata:       d.Metadata,
	}
	return c
}

// ItemDate parses an item date, falling back to the sentinel for anything
// unparseable so bad data never breaks month filtering.
func ItemDate(s string) time.Time {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		t, _ = time.Parse(DateLayout, SentinelDate)
	}
	return t
}

// DefaultDocument returns the seed document used when no ledger exists yet or
// the store is unreachable at startup.
func DefaultDocument(now time.Time) *Document {
	today := now.Format(DateLayout)
	return &Document{
		Income: []RateItem{
			{ID: SalaryItemID, Name: "Monthly Salary", Amount: 5000},
			{ID: BalanceItemID, Name: BalanceItemName, Amount: 1000},
		},
		Expenses: []RateItem{
			{ID: "exp1", Name: "Rent", Amount: 1200},
			{ID: "exp2", Name: "Groceries", Amount: 400},
			{ID: "exp3", Name: "Utilities", Amount: 150},
		},
		Investments: []RateItem{
			{ID: "inv1", Name: "Index Funds", Amount: 500},
		},
		Debts: []Debt{
			{ID: "dbt1", Name: "Car Loan", Amount: 6000, MonthlyPayment: 250},
		},
		Purchases: []DatedItem{
			{ID: "pur1", Name: "Office Chair", Amount: 300, Date: today},
		},
		OneTimeInflows: []DatedItem{},
		Metadata:       Metadata{},
	}
}
