package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"sync"

	"order-dashboard/internal/domain"
	"order-dashboard/internal/normalization"
	"order-dashboard/internal/storage"
)

// OrderStore is an in-memory implementation of storage.OrderStore.
// It holds a fixed set of orders per broker and answers with the same
// ordering, filtering and capping rules as the Postgres store.
type OrderStore struct {
	mu   sync.RWMutex
	data map[string][]*domain.Order // keyed by broker id
}

// NewOrderStore creates a new in-memory order store.
func NewOrderStore() *OrderStore {
	return &OrderStore{
		data: make(map[string][]*domain.Order),
	}
}

// Compile-time interface check.
var _ storage.OrderStore = (*OrderStore)(nil)

// Add stores copies of orders under broker b.
func (s *OrderStore) Add(b domain.Broker, orders ...*domain.Order) error {
	for _, o := range orders {
		if o == nil || o.OrderID == "" || o.Account == "" || o.Symbol == "" {
			return storage.ErrInvalidInput
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, o := range orders {
		// Store a copy to prevent external mutation
		c := *o
		s.data[b.ID] = append(s.data[b.ID], &c)
	}
	return nil
}

// LoadFile adds the orders in a JSON array file under broker b.
func (s *OrderStore) LoadFile(b domain.Broker, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read seed file: %w", err)
	}

	var orders []*domain.Order
	if err := json.Unmarshal(data, &orders); err != nil {
		return fmt.Errorf("%w: seed file %s: %w", storage.ErrMalformedJSON, path, err)
	}
	return s.Add(b, orders...)
}

// ListAccounts returns distinct accounts, ascending.
func (s *OrderStore) ListAccounts(_ context.Context, b domain.Broker) ([]string, error) {
	return s.distinct(b, domain.Filter{}, func(o *domain.Order) string { return o.Account }, false), nil
}

// ListDates returns distinct order days for an account, newest first.
func (s *OrderStore) ListDates(_ context.Context, b domain.Broker, account string) ([]string, error) {
	if account == "" {
		return []string{}, nil
	}
	return s.distinct(b, domain.Filter{Account: account},
		func(o *domain.Order) string { return o.CreatedDate().String() }, true), nil
}

// ListSymbols returns distinct symbols for an account, optionally on one day.
func (s *OrderStore) ListSymbols(_ context.Context, b domain.Broker, account, date string) ([]string, error) {
	if account == "" {
		return []string{}, nil
	}
	return s.distinct(b, domain.Filter{Account: account, Date: date},
		func(o *domain.Order) string { return o.Symbol }, false), nil
}

// ListStatuses returns distinct statuses, optionally for one account.
func (s *OrderStore) ListStatuses(_ context.Context, b domain.Broker, account string) ([]string, error) {
	return s.distinct(b, domain.Filter{Account: account},
		func(o *domain.Order) string { return o.Status }, false), nil
}

// ListOrders returns orders matching f ordered by order_id, at most storage.MaxOrderRows.
func (s *OrderStore) ListOrders(_ context.Context, b domain.Broker, f domain.Filter) ([]domain.Record, error) {
	matched := s.match(b, f)
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].OrderID < matched[j].OrderID
	})
	if len(matched) > storage.MaxOrderRows {
		matched = matched[:storage.MaxOrderRows]
	}

	records := make([]domain.Record, 0, len(matched))
	for _, o := range matched {
		records = append(records, o.Record())
	}
	return normalization.Records(records), nil
}

// Stats returns the aggregate for f. Zero matches yield zero counts.
func (s *OrderStore) Stats(_ context.Context, b domain.Broker, f domain.Filter) (domain.Record, error) {
	return domain.ComputeStats(s.match(b, f)), nil
}

func (s *OrderStore) match(b domain.Broker, f domain.Filter) []*domain.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*domain.Order
	for _, o := range s.data[b.ID] {
		if f.Matches(o) {
			out = append(out, o)
		}
	}
	return out
}

func (s *OrderStore) distinct(b domain.Broker, f domain.Filter, key func(*domain.Order) string, desc bool) []string {
	seen := make(map[string]struct{})
	out := []string{}
	for _, o := range s.match(b, f) {
		k := key(o)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	if desc {
		sort.Sort(sort.Reverse(sort.StringSlice(out)))
	} else {
		sort.Strings(out)
	}
	return out
}
