package memory

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"order-dashboard/internal/domain"
	"order-dashboard/internal/storage"
)

func at(day, hour int) time.Time {
	return time.Date(2024, time.January, day, hour, 0, 0, 0, time.UTC)
}

func seededStore(t *testing.T) *OrderStore {
	t.Helper()

	store := NewOrderStore()
	err := store.Add(domain.BrokerShoonya,
		&domain.Order{OrderID: "3", Account: "ACC1", Symbol: "INFY", TransactionType: "B", Status: "REJECTED", CreatedAt: at(5, 11)},
		&domain.Order{OrderID: "1", Account: "ACC1", Symbol: "TCS", TransactionType: "B", Status: "COMPLETE", CreatedAt: at(5, 9), Price: decimal.RequireFromString("3712.5")},
		&domain.Order{OrderID: "2", Account: "ACC1", Symbol: "INFY", TransactionType: "S", Status: "COMPLETE", CreatedAt: at(5, 10)},
		&domain.Order{OrderID: "4", Account: "ACC1", Symbol: "RELIANCE", TransactionType: "B", Status: "OPEN", CreatedAt: at(4, 9)},
		&domain.Order{OrderID: "5", Account: "ACC2", Symbol: "TCS", TransactionType: "S", Status: "COMPLETE", CreatedAt: at(5, 9)},
	)
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	return store
}

func TestOrderStore_Lists(t *testing.T) {
	store := seededStore(t)
	ctx := context.Background()
	b := domain.BrokerShoonya

	accounts, _ := store.ListAccounts(ctx, b)
	if fmt.Sprint(accounts) != "[ACC1 ACC2]" {
		t.Errorf("accounts: got %v", accounts)
	}

	dates, _ := store.ListDates(ctx, b, "ACC1")
	if fmt.Sprint(dates) != "[2024-01-05 2024-01-04]" {
		t.Errorf("dates: got %v", dates)
	}

	symbols, _ := store.ListSymbols(ctx, b, "ACC1", "2024-01-05")
	if fmt.Sprint(symbols) != "[INFY TCS]" {
		t.Errorf("symbols: got %v", symbols)
	}

	statuses, _ := store.ListStatuses(ctx, b, "")
	if fmt.Sprint(statuses) != "[COMPLETE OPEN REJECTED]" {
		t.Errorf("statuses: got %v", statuses)
	}
}

func TestOrderStore_MissingAccountIsEmpty(t *testing.T) {
	store := seededStore(t)
	ctx := context.Background()

	dates, err := store.ListDates(ctx, domain.BrokerShoonya, "")
	if err != nil || dates == nil || len(dates) != 0 {
		t.Errorf("dates: got %v, %v", dates, err)
	}
	symbols, err := store.ListSymbols(ctx, domain.BrokerShoonya, "", "")
	if err != nil || symbols == nil || len(symbols) != 0 {
		t.Errorf("symbols: got %v, %v", symbols, err)
	}
}

func TestOrderStore_ListOrdersFilters(t *testing.T) {
	store := seededStore(t)

	f := domain.NewFilter("ACC1", "2024-01-05", []string{"TCS", "INFY"}, []string{"COMPLETE"})
	orders, err := store.ListOrders(context.Background(), domain.BrokerShoonya, f)
	if err != nil {
		t.Fatalf("ListOrders failed: %v", err)
	}
	if len(orders) != 2 {
		t.Fatalf("expected 2 orders, got %d", len(orders))
	}
	if orders[0]["order_id"] != "1" || orders[1]["order_id"] != "2" {
		t.Errorf("unexpected order: %v, %v", orders[0]["order_id"], orders[1]["order_id"])
	}
	if orders[0]["created_at"] != "2024-01-05T09:00:00+00:00" {
		t.Errorf("created_at not normalized: %v", orders[0]["created_at"])
	}
	if orders[0]["exit_time"] != nil {
		t.Errorf("exit_time should stay nil, got %v", orders[0]["exit_time"])
	}
}

func TestOrderStore_ListOrdersCap(t *testing.T) {
	store := NewOrderStore()
	for i := 0; i < storage.MaxOrderRows+10; i++ {
		o := &domain.Order{OrderID: fmt.Sprintf("%05d", i), Account: "BULK", Symbol: "SBIN", CreatedAt: at(6, 10)}
		if err := store.Add(domain.BrokerShoonya, o); err != nil {
			t.Fatalf("Add failed: %v", err)
		}
	}

	orders, _ := store.ListOrders(context.Background(), domain.BrokerShoonya, domain.Filter{})
	if len(orders) != storage.MaxOrderRows {
		t.Errorf("expected %d orders, got %d", storage.MaxOrderRows, len(orders))
	}
}

func TestOrderStore_Stats(t *testing.T) {
	store := seededStore(t)
	ctx := context.Background()

	stats, _ := store.Stats(ctx, domain.BrokerShoonya, domain.Filter{Account: "ACC1"})
	want := domain.Record{
		"total_orders": int64(4), "buy_orders": int64(3), "sell_orders": int64(1),
		"completed": int64(2), "rejected": int64(1), "unique_symbols": int64(3),
	}
	for k, v := range want {
		if stats[k] != v {
			t.Errorf("%s: got %v, want %v", k, stats[k], v)
		}
	}

	empty, _ := store.Stats(ctx, domain.BrokerShoonya, domain.Filter{Account: "NOBODY"})
	for k, v := range empty {
		if v != int64(0) {
			t.Errorf("%s: expected zero, got %v", k, v)
		}
	}
}

func TestOrderStore_AddInvalid(t *testing.T) {
	store := NewOrderStore()
	err := store.Add(domain.BrokerShoonya, &domain.Order{OrderID: "1"})
	if !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput, got %v", err)
	}
}

func TestOrderStore_LoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "orders.json")
	seed := `[{"order_id":"9","symbol":"TCS","account":"ACC9","price":"10.5","status":"OPEN","created_at":"2024-01-07T09:00:00Z"}]`
	if err := os.WriteFile(path, []byte(seed), 0o644); err != nil {
		t.Fatal(err)
	}

	store := NewOrderStore()
	if err := store.LoadFile(domain.BrokerShoonya, path); err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	accounts, _ := store.ListAccounts(context.Background(), domain.BrokerShoonya)
	if fmt.Sprint(accounts) != "[ACC9]" {
		t.Errorf("accounts: got %v", accounts)
	}

	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := store.LoadFile(domain.BrokerShoonya, bad); !errors.Is(err, storage.ErrMalformedJSON) {
		t.Errorf("Expected ErrMalformedJSON, got %v", err)
	}
}
