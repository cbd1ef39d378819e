package postgres

import (
	"context"
	"fmt"

	"order-dashboard/internal/domain"
	"order-dashboard/internal/normalization"
	"order-dashboard/internal/observability"
	"order-dashboard/internal/storage"
)

// OrderStore implements storage.OrderStore over a broker orders table.
type OrderStore struct {
	db Querier
}

// NewOrderStore creates a new OrderStore.
func NewOrderStore(db Querier) *OrderStore {
	return &OrderStore{db: db}
}

// Compile-time interface check.
var _ storage.OrderStore = (*OrderStore)(nil)

// ListAccounts returns distinct accounts, ascending.
func (s *OrderStore) ListAccounts(ctx context.Context, b domain.Broker) ([]string, error) {
	return s.listColumn(ctx, b, "accounts", NewQueryBuilder(b).Accounts(), "account")
}

// ListDates returns distinct order days for an account, newest first.
func (s *OrderStore) ListDates(ctx context.Context, b domain.Broker, account string) ([]string, error) {
	q, ok := NewQueryBuilder(b).Dates(account)
	if !ok {
		return []string{}, nil
	}
	return s.listColumn(ctx, b, "dates", q, "order_date")
}

// ListSymbols returns distinct symbols for an account, optionally on one day.
func (s *OrderStore) ListSymbols(ctx context.Context, b domain.Broker, account, date string) ([]string, error) {
	q, ok := NewQueryBuilder(b).Symbols(account, date)
	if !ok {
		return []string{}, nil
	}
	return s.listColumn(ctx, b, "symbols", q, "symbol")
}

// ListStatuses returns distinct statuses, optionally for one account.
func (s *OrderStore) ListStatuses(ctx context.Context, b domain.Broker, account string) ([]string, error) {
	return s.listColumn(ctx, b, "statuses", NewQueryBuilder(b).Statuses(account), "status")
}

// ListOrders returns normalized order records matching f.
func (s *OrderStore) ListOrders(ctx context.Context, b domain.Broker, f domain.Filter) ([]domain.Record, error) {
	records, err := s.query(ctx, b, "orders", NewQueryBuilder(b).Orders(f))
	if err != nil {
		return nil, err
	}
	// The LIMIT already caps the rows; this guards Querier fakes too.
	if len(records) > storage.MaxOrderRows {
		records = records[:storage.MaxOrderRows]
	}
	observability.RecordOrdersReturned(len(records), storage.MaxOrderRows)
	if records == nil {
		return []domain.Record{}, nil
	}
	return normalization.Records(records), nil
}

// Stats returns the aggregate for f, or an empty record if no row came back.
func (s *OrderStore) Stats(ctx context.Context, b domain.Broker, f domain.Filter) (domain.Record, error) {
	records, err := s.query(ctx, b, "stats", NewQueryBuilder(b).Stats(f))
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return domain.Record{}, nil
	}
	return normalization.Record(records[0]), nil
}

func (s *OrderStore) query(ctx context.Context, b domain.Broker, operation string, q Query) ([]domain.Record, error) {
	records, err := s.db.Query(ctx, operation, q)
	if err != nil {
		if isMissingRelationError(err) {
			return nil, fmt.Errorf("orders table %s.%s is missing: %w", domain.Schema, b.Table, err)
		}
		return nil, err
	}
	return records, nil
}

// listColumn runs q and collects the normalized, non-null values of column.
func (s *OrderStore) listColumn(ctx context.Context, b domain.Broker, operation string, q Query, column string) ([]string, error) {
	records, err := s.query(ctx, b, operation, q)
	if err != nil {
		return nil, err
	}

	out := make([]string, 0, len(records))
	for _, r := range records {
		switch v := normalization.Value(r[column]).(type) {
		case nil:
			continue
		case string:
			out = append(out, v)
		default:
			out = append(out, fmt.Sprint(v))
		}
	}
	return out, nil
}
