package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"finboard/internal/amqp"
	"finboard/internal/core"
	"finboard/internal/store"

	"github.com/google/uuid"
)

// EventPublisher notifies downstream consumers of ledger changes. Publishing
// is best-effort; failures never fail the originating operation.
type EventPublisher interface {
	PublishLedgerEvent(ctx context.Context, ev amqp.LedgerEvent) error
}

// Ledger owns the single in-memory ledger document and serializes every
// access behind a mutex. Each entry point re-evaluates the monthly triggers
// before doing its own work, so the engine runs on every load regardless of
// which endpoint caused it.
type Ledger struct {
	mu     sync.Mutex
	store  store.Store
	events EventPublisher
	now    func() time.Time

	doc   *core.Document
	dirty bool
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithClock overrides the wall-clock source, used by tests to pin dates.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

// WithPublisher attaches an event publisher.
func WithPublisher(pub EventPublisher) Option {
	return func(l *Ledger) { l.events = pub }
}

// NewLedger loads the document from the store, seeding the default document
// when none exists yet. Store connectivity errors are returned to the caller;
// degraded-mode fallback is decided there.
func NewLedger(ctx context.Context, st store.Store, opts ...Option) (*Ledger, error) {
	l := &Ledger{
		store: st,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}

	doc, err := st.Load(ctx)
	switch {
	case err == nil:
		l.doc = doc
	case errors.Is(err, store.ErrNotFound):
		l.doc = core.DefaultDocument(l.now())
		if saveErr := st.Save(ctx, l.doc); saveErr != nil {
			return nil, fmt.Errorf("seed default document: %w", saveErr)
		}
		slog.InfoContext(ctx, "Seeded default ledger document")
	default:
		return nil, fmt.Errorf("load ledger document: %w", err)
	}

	return l, nil
}

// ItemInput is the wire shape of an item in an add request. Numeric fields
// are typed any so malformed values can be coerced instead of failing decode.
type ItemInput struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Amount         any    `json:"amount"`
	MonthlyPayment any    `json:"monthlyPayment"`
	Date           string `json:"date"`
}

// Snapshot re-evaluates the monthly triggers and returns a copy of the
// document plus fresh totals. A failed persist on the read path degrades to a
// warning: the caller still gets consistent data.
func (l *Ledger) Snapshot(ctx context.Context) (*core.Document, Totals, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.refreshLocked(ctx)
	if l.dirty {
		if err := l.persistLocked(ctx); err != nil {
			slog.ErrorContext(ctx, "Persist after monthly trigger failed, continuing in memory", "error", err)
		}
	}

	now := l.now()
	return l.doc.Clone(), CalculateTotals(l.doc, now), nil
}

// Sweep runs the monthly triggers and persists when anything fired. Used by
// the background worker; returns the number of triggers applied.
func (l *Ledger) Sweep(ctx context.Context) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	applied := l.refreshLocked(ctx)
	if l.dirty {
		if err := l.persistLocked(ctx); err != nil {
			return len(applied), err
		}
	}
	return len(applied), nil
}

// Add appends an item to a category, generating an id when absent. Instant
// categories adjust the balance immediately by their signed amount.
func (l *Ledger) Add(ctx context.Context, category string, input ItemInput) (Totals, error) {
	cat, err := core.ParseCategory(category)
	if err != nil {
		return Totals{}, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.refreshLocked(ctx)

	id := input.ID
	if id == "" {
		id = uuid.NewString()
	}
	amount := core.SafeFloat(input.Amount)

	switch cat {
	case core.CategoryIncome:
		l.doc.Income = append(l.doc.Income, core.RateItem{ID: id, Name: input.Name, Amount: amount})
	case core.CategoryExpenses:
		l.doc.Expenses = append(l.doc.Expenses, core.RateItem{ID: id, Name: input.Name, Amount: amount})
	case core.CategoryInvestments:
		l.doc.Investments = append(l.doc.Investments, core.RateItem{ID: id, Name: input.Name, Amount: amount})
	case core.CategoryDebts:
		l.doc.Debts = append(l.doc.Debts, core.Debt{
			ID: id, Name: input.Name, Amount: amount,
			MonthlyPayment: core.SafeFloat(input.MonthlyPayment),
		})
	case core.CategoryPurchases, core.CategoryOneTimeInflows:
		date := input.Date
		if date == "" {
			date = l.now().Format(core.DateLayout)
		}
		item := core.DatedItem{ID: id, Name: input.Name, Amount: amount, Date: date}
		if cat == core.CategoryPurchases {
			l.doc.Purchases = append(l.doc.Purchases, item)
		} else {
			l.doc.OneTimeInflows = append(l.doc.OneTimeInflows, item)
		}
		l.adjustBalanceLocked(cat.InstantSign() * amount)
	}

	return l.finishMutationLocked(ctx, amqp.EventItemAdded, cat, id, amount)
}

// Update sets one field of an item located by id. Numeric fields go through
// the safe parser; an amount change on an instant category moves the balance
// by the signed delta. The balance item's name is immutable.
func (l *Ledger) Update(ctx context.Context, category, id, field string, value any) (Totals, error) {
	cat, err := core.ParseCategory(category)
	if err != nil {
		return Totals{}, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.refreshLocked(ctx)

	if err := l.updateFieldLocked(cat, id, field, value); err != nil {
		return Totals{}, err
	}

	return l.finishMutationLocked(ctx, amqp.EventItemUpdated, cat, id, core.SafeFloat(value))
}

func (l *Ledger) updateFieldLocked(cat core.Category, id, field string, value any) error {
	switch cat {
	case core.CategoryIncome, core.CategoryExpenses, core.CategoryInvestments:
		items := l.rateItemsLocked(cat)
		for i := range items {
			if items[i].ID != id {
				continue
			}
			switch field {
			case "name":
				if cat == core.CategoryIncome && id == core.BalanceItemID {
					return core.ErrBalanceItemProtected
				}
				items[i].Name = stringValue(value)
			case "amount":
				items[i].Amount = core.SafeFloat(value)
			default:
				return core.ErrUnknownField
			}
			return nil
		}
	case core.CategoryDebts:
		for i := range l.doc.Debts {
			if l.doc.Debts[i].ID != id {
				continue
			}
			switch field {
			case "name":
				l.doc.Debts[i].Name = stringValue(value)
			case "amount":
				l.doc.Debts[i].Amount = core.SafeFloat(value)
			case "monthlyPayment":
				l.doc.Debts[i].MonthlyPayment = core.SafeFloat(value)
			default:
				return core.ErrUnknownField
			}
			return nil
		}
	case core.CategoryPurchases, core.CategoryOneTimeInflows:
		items := l.datedItemsLocked(cat)
		for i := range items {
			if items[i].ID != id {
				continue
			}
			switch field {
			case "name":
				items[i].Name = stringValue(value)
			case "date":
				items[i].Date = stringValue(value)
			case "amount":
				newAmount := core.SafeFloat(value)
				l.adjustBalanceLocked(cat.InstantSign() * (newAmount - items[i].Amount))
				items[i].Amount = newAmount
			default:
				return core.ErrUnknownField
			}
			return nil
		}
	}
	return core.ErrItemNotFound
}

// Delete removes an item. Instant categories reverse their original balance
// contribution; the balance item itself is non-deletable.
func (l *Ledger) Delete(ctx context.Context, category, id string) (Totals, error) {
	cat, err := core.ParseCategory(category)
	if err != nil {
		return Totals{}, err
	}
	if cat == core.CategoryIncome && id == core.BalanceItemID {
		return Totals{}, core.ErrBalanceItemProtected
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.refreshLocked(ctx)

	removed := false
	var removedAmount float64
	switch cat {
	case core.CategoryIncome:
		l.doc.Income, removedAmount, removed = removeRateItem(l.doc.Income, id)
	case core.CategoryExpenses:
		l.doc.Expenses, removedAmount, removed = removeRateItem(l.doc.Expenses, id)
	case core.CategoryInvestments:
		l.doc.Investments, removedAmount, removed = removeRateItem(l.doc.Investments, id)
	case core.CategoryDebts:
		for i := range l.doc.Debts {
			if l.doc.Debts[i].ID == id {
				removedAmount = l.doc.Debts[i].Amount
				l.doc.Debts = append(l.doc.Debts[:i], l.doc.Debts[i+1:]...)
				removed = true
				break
			}
		}
	case core.CategoryPurchases:
		l.doc.Purchases, removedAmount, removed = removeDatedItem(l.doc.Purchases, id)
	case core.CategoryOneTimeInflows:
		l.doc.OneTimeInflows, removedAmount, removed = removeDatedItem(l.doc.OneTimeInflows, id)
	}
	if !removed {
		return Totals{}, core.ErrItemNotFound
	}
	if cat.IsInstant() {
		l.adjustBalanceLocked(-cat.InstantSign() * removedAmount)
	}

	return l.finishMutationLocked(ctx, amqp.EventItemDeleted, cat, id, removedAmount)
}

// reloadLocked replaces the in-memory document with the latest persisted
// state. The dashboard server and the balance worker share one store, so
// every entry point starts from what was last saved, not from a startup
// snapshot. Unsaved local changes (a mutation whose persist failed) take
// precedence until they are written; load failures keep the current copy.
func (l *Ledger) reloadLocked(ctx context.Context) {
	if l.dirty {
		return
	}
	doc, err := l.store.Load(ctx)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			slog.WarnContext(ctx, "Store load failed, using in-memory document", "error", err)
		}
		return
	}
	l.doc = doc
}

// refreshLocked reloads the persisted document, runs the monthly triggers
// against the current date, marks the document dirty when anything fired and
// emits the trigger events. Callers hold the mutex.
func (l *Ledger) refreshLocked(ctx context.Context) []AppliedTrigger {
	l.reloadLocked(ctx)
	applied := ApplyMonthlyTriggers(l.doc, l.now())
	if len(applied) > 0 {
		l.dirty = true
	}
	for _, trigger := range applied {
		ev := amqp.NewLedgerEvent(string(trigger.Kind))
		ev.MonthKey = trigger.MonthKey
		ev.Amount = trigger.Amount
		l.publish(ctx, ev)
	}
	return applied
}

// finishMutationLocked persists the document, publishes the mutation event
// and recomputes totals. Persist failures surface to the caller; the mutation
// stays applied in memory so the document remains internally consistent.
func (l *Ledger) finishMutationLocked(ctx context.Context, kind string, cat core.Category, id string, amount float64) (Totals, error) {
	l.dirty = true
	if err := l.persistLocked(ctx); err != nil {
		return Totals{}, err
	}

	ev := amqp.NewLedgerEvent(kind)
	ev.Category = string(cat)
	ev.ItemID = id
	ev.Amount = amount
	l.publish(ctx, ev)

	return CalculateTotals(l.doc, l.now()), nil
}

func (l *Ledger) persistLocked(ctx context.Context) error {
	if err := l.store.Save(ctx, l.doc); err != nil {
		return err
	}
	l.dirty = false
	return nil
}

func (l *Ledger) publish(ctx context.Context, ev amqp.LedgerEvent) {
	if l.events == nil {
		return
	}
	if err := l.events.PublishLedgerEvent(ctx, ev); err != nil {
		slog.ErrorContext(ctx, "Failed to publish ledger event", "kind", ev.Kind, "error", err)
	}
}

// adjustBalanceLocked applies a signed delta to the balance item. A missing
// balance item is logged and skipped, never a crash.
func (l *Ledger) adjustBalanceLocked(delta float64) {
	if delta == 0 {
		return
	}
	balance := l.doc.BalanceItem()
	if balance == nil {
		slog.Warn("Balance adjustment skipped: balance item missing", "delta", delta)
		return
	}
	balance.Amount = core.SafeFloat(balance.Amount) + delta
}

func (l *Ledger) rateItemsLocked(cat core.Category) []core.RateItem {
	switch cat {
	case core.CategoryIncome:
		return l.doc.Income
	case core.CategoryExpenses:
		return l.doc.Expenses
	default:
		return l.doc.Investments
	}
}

func (l *Ledger) datedItemsLocked(cat core.Category) []core.DatedItem {
	if cat == core.CategoryPurchases {
		return l.doc.Purchases
	}
	return l.doc.OneTimeInflows
}

func removeRateItem(items []core.RateItem, id string) ([]core.RateItem, float64, bool) {
	for i := range items {
		if items[i].ID == id {
			amount := items[i].Amount
			return append(items[:i], items[i+1:]...), amount, true
		}
	}
	return items, 0, false
}

func removeDatedItem(items []core.DatedItem, id string) ([]core.DatedItem, float64, bool) {
	for i := range items {
		if items[i].ID == id {
			amount := items[i].Amount
			return append(items[:i], items[i+1:]...), amount, true
		}
	}
	return items, 0, false
}

func stringValue(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
