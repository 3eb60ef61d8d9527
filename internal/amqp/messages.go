package amqp

import (
	"encoding/json"
	"time"
)

// Event kinds published on the ledger exchange.
const (
	EventSalaryCredit = "salary_credit"
	EventDebtPayment  = "debt_payment"
	EventItemAdded    = "item_added"
	EventItemUpdated  = "item_updated"
	EventItemDeleted  = "item_deleted"
)

// LedgerEvent is a lightweight notification emitted after a monthly trigger
// fires or a CRUD mutation is applied. Consumers fetch the current document
// from the API; the event carries only identifiers.
type LedgerEvent struct {
	Kind      string    `json:"kind"`
	Category  string    `json:"category,omitempty"`
	ItemID    string    `json:"item_id,omitempty"`
	MonthKey  string    `json:"month_key,omitempty"`
	Amount    float64   `json:"amount"`
	Timestamp time.Time `json:"timestamp"`
}

// NewLedgerEvent creates an event stamped with the current time.
func NewLedgerEvent(kind string) LedgerEvent {
	return LedgerEvent{Kind: kind, Timestamp: time.Now()}
}

// ToJSON converts the event to JSON bytes.
func (e LedgerEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}
