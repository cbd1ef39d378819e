package postgres

import (
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"

	"order-dashboard/internal/domain"
	"order-dashboard/internal/storage"
)

// Query is a SQL statement with its positional bind arguments.
type Query struct {
	SQL  string
	Args []any
}

// QueryBuilder composes the dashboard queries for one broker table.
// User values are only ever bound as $n arguments; the schema and table
// come from domain constants and are quoted as identifiers.
type QueryBuilder struct {
	table string
}

// NewQueryBuilder creates a builder for the broker's orders table.
func NewQueryBuilder(b domain.Broker) *QueryBuilder {
	return &QueryBuilder{table: pgx.Identifier{domain.Schema, b.Table}.Sanitize()}
}

// args accumulates bind arguments and hands out their placeholders.
type args []any

func (a *args) bind(v any) string {
	*a = append(*a, v)
	return "$" + strconv.Itoa(len(*a))
}

func (a *args) bindAll(values []string) string {
	placeholders := make([]string, len(values))
	for i, v := range values {
		placeholders[i] = a.bind(v)
	}
	return strings.Join(placeholders, ", ")
}

// filterClause maps one optional filter to its SQL condition.
type filterClause struct {
	present func(f domain.Filter) bool
	render  func(f domain.Filter, a *args) string
}

// filterClauses is folded in order over a filter selection.
var filterClauses = []filterClause{
	{
		present: func(f domain.Filter) bool { return f.Account != "" },
		render:  func(f domain.Filter, a *args) string { return "account = " + a.bind(f.Account) },
	},
	{
		present: func(f domain.Filter) bool { return f.Date != "" },
		render:  func(f domain.Filter, a *args) string { return "DATE(created_at) = " + a.bind(f.Date) },
	},
	{
		present: func(f domain.Filter) bool { return len(f.Symbols) > 0 },
		render:  func(f domain.Filter, a *args) string { return "symbol IN (" + a.bindAll(f.Symbols) + ")" },
	},
	{
		present: func(f domain.Filter) bool { return len(f.Statuses) > 0 },
		render:  func(f domain.Filter, a *args) string { return "status IN (" + a.bindAll(f.Statuses) + ")" },
	},
}

// where renders the WHERE clause for f, or "" when no filter is present.
func where(f domain.Filter, a *args) string {
	var conds []string
	for _, c := range filterClauses {
		if c.present(f) {
			conds = append(conds, c.render(f, a))
		}
	}
	if len(conds) == 0 {
		return ""
	}
	return "\nWHERE " + strings.Join(conds, "\n  AND ")
}

func (qb *QueryBuilder) build(head string, f domain.Filter, tail string) Query {
	var a args
	var sb strings.Builder
	sb.WriteString(head)
	sb.WriteString("\nFROM ")
	sb.WriteString(qb.table)
	sb.WriteString(where(f, &a))
	if tail != "" {
		sb.WriteString("\n")
		sb.WriteString(tail)
	}
	return Query{SQL: sb.String(), Args: []any(a)}
}

// Accounts lists distinct accounts.
func (qb *QueryBuilder) Accounts() Query {
	return qb.build("SELECT DISTINCT account", domain.Filter{}, "ORDER BY account")
}

// Dates lists distinct created_at days for an account, newest first.
// ok is false when account is empty: there is nothing to query.
func (qb *QueryBuilder) Dates(account string) (q Query, ok bool) {
	if account == "" {
		return Query{}, false
	}
	return qb.build("SELECT DISTINCT DATE(created_at) AS order_date",
		domain.Filter{Account: account}, "ORDER BY order_date DESC"), true
}

// Symbols lists distinct symbols for an account, optionally on one day.
// ok is false when account is empty.
func (qb *QueryBuilder) Symbols(account, date string) (q Query, ok bool) {
	if account == "" {
		return Query{}, false
	}
	return qb.build("SELECT DISTINCT symbol",
		domain.Filter{Account: account, Date: date}, "ORDER BY symbol"), true
}

// Statuses lists distinct statuses, optionally for one account.
func (qb *QueryBuilder) Statuses(account string) Query {
	return qb.build("SELECT DISTINCT status", domain.Filter{Account: account}, "ORDER BY status")
}

// Orders lists orders matching f, capped at storage.MaxOrderRows.
func (qb *QueryBuilder) Orders(f domain.Filter) Query {
	head := "SELECT\n  " + strings.Join(domain.OrderColumns, ",\n  ")
	tail := "ORDER BY order_id ASC\nLIMIT " + strconv.Itoa(storage.MaxOrderRows)
	return qb.build(head, f, tail)
}

// Stats aggregates the orders matching f into a single row.
func (qb *QueryBuilder) Stats(f domain.Filter) Query {
	head := `SELECT
  COUNT(*) AS ` + domain.StatTotalOrders + `,
  COUNT(CASE WHEN transaction_type = '` + domain.TransactionBuy + `' THEN 1 END) AS ` + domain.StatBuyOrders + `,
  COUNT(CASE WHEN transaction_type = '` + domain.TransactionSell + `' THEN 1 END) AS ` + domain.StatSellOrders + `,
  COUNT(CASE WHEN status = '` + domain.StatusComplete + `' THEN 1 END) AS ` + domain.StatCompleted + `,
  COUNT(CASE WHEN status = '` + domain.StatusRejected + `' THEN 1 END) AS ` + domain.StatRejected + `,
  COUNT(DISTINCT symbol) AS ` + domain.StatUniqueSymbols
	return qb.build(head, f, "")
}
