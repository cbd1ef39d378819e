package storage

import (
	"context"

	"order-dashboard/internal/domain"
)

// MaxOrderRows caps ListOrders. Rows past the cap are not reachable.
const MaxOrderRows = 500

// OrderStore provides read access to a broker orders table.
// Record values are JSON-safe: temporal and numeric values are already normalized.
type OrderStore interface {
	// ListAccounts returns distinct accounts, ascending.
	ListAccounts(ctx context.Context, b domain.Broker) ([]string, error)

	// ListDates returns distinct created_at days (YYYY-MM-DD) for an account, descending.
	// Returns an empty slice when account is empty.
	ListDates(ctx context.Context, b domain.Broker, account string) ([]string, error)

	// ListSymbols returns distinct symbols for an account, optionally narrowed to a day, ascending.
	// Returns an empty slice when account is empty.
	ListSymbols(ctx context.Context, b domain.Broker, account, date string) ([]string, error)

	// ListStatuses returns distinct statuses, optionally for one account, ascending.
	ListStatuses(ctx context.Context, b domain.Broker, account string) ([]string, error)

	// ListOrders returns orders matching f ordered by order_id, at most MaxOrderRows.
	ListOrders(ctx context.Context, b domain.Broker, f domain.Filter) ([]domain.Record, error)

	// Stats returns the stats summary for f.
	// Returns an empty record if the aggregate yields no row.
	Stats(ctx context.Context, b domain.Broker, f domain.Filter) (domain.Record, error)
}
