package store

import (
	"context"
	"errors"
	"math"
	"path/filepath"
	"testing"
	"time"

	"finboard/internal/core"
)

func newTestSQLite(t *testing.T) *SQLite {
	t.Helper()
	st, err := NewSQLite(filepath.Join(t.TempDir(), "ledger.db"))
	if err != nil {
		t.Fatalf("NewSQLite: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func TestSQLiteLoadEmpty(t *testing.T) {
	st := newTestSQLite(t)
	if _, err := st.Load(context.Background()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestSQLiteRoundTrip(t *testing.T) {
	st := newTestSQLite(t)
	doc := core.DefaultDocument(time.Now())
	doc.Metadata.LastBalanceUpdateMonth = "2025-08"

	if err := st.Save(context.Background(), doc); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := st.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.BalanceItem() == nil || got.BalanceItem().Amount != 1000 {
		t.Fatalf("balance item lost in round trip: %+v", got.BalanceItem())
	}
	if got.Metadata.LastBalanceUpdateMonth != "2025-08" {
		t.Fatalf("metadata lost in round trip: %+v", got.Metadata)
	}
	if len(got.Expenses) != len(doc.Expenses) {
		t.Fatalf("expenses = %d items, want %d", len(got.Expenses), len(doc.Expenses))
	}
}

func TestSQLiteUpsert(t *testing.T) {
	st := newTestSQLite(t)
	doc := core.DefaultDocument(time.Now())

	if err := st.Save(context.Background(), doc); err != nil {
		t.Fatalf("first Save: %v", err)
	}
	doc.BalanceItem().Amount = 123
	if err := st.Save(context.Background(), doc); err != nil {
		t.Fatalf("second Save: %v", err)
	}

	got, err := st.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.BalanceItem().Amount != 123 {
		t.Fatalf("balance = %v, want 123 after upsert", got.BalanceItem().Amount)
	}
}

func TestSQLiteNormalizesOnSave(t *testing.T) {
	st := newTestSQLite(t)
	doc := core.DefaultDocument(time.Now())
	doc.BalanceItem().Amount = math.NaN()

	// NaN is not representable in JSON; Save must normalize before encoding
	// instead of failing.
	if err := st.Save(context.Background(), doc); err != nil {
		t.Fatalf("Save with NaN amount: %v", err)
	}
	got, err := st.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.BalanceItem().Amount != 0 {
		t.Fatalf("balance = %v, want 0 after normalization", got.BalanceItem().Amount)
	}
}
