package domain

import (
	"fmt"
	"strings"
)

// Filter is the request-scoped filter selection.
// Empty fields are absent filters; present filters combine with AND.
type Filter struct {
	Account  string
	Date     string   // YYYY-MM-DD, matched against the day of created_at
	Symbols  []string // IN semantics
	Statuses []string // IN semantics
}

// NewFilter builds a filter from raw parameter values.
// Whitespace is trimmed; empty and repeated list values are dropped.
func NewFilter(account, date string, symbols, statuses []string) Filter {
	return Filter{
		Account:  strings.TrimSpace(account),
		Date:     strings.TrimSpace(date),
		Symbols:  compact(symbols),
		Statuses: compact(statuses),
	}
}

// Validate checks the date format.
func (f Filter) Validate() error {
	if f.Date == "" {
		return nil
	}
	if _, err := ParseDate(f.Date); err != nil {
		return fmt.Errorf("date must be YYYY-MM-DD: %q", f.Date)
	}
	return nil
}

// IsEmpty reports whether no filter is present.
func (f Filter) IsEmpty() bool {
	return f.Account == "" && f.Date == "" && len(f.Symbols) == 0 && len(f.Statuses) == 0
}

// Matches reports whether o satisfies every present filter.
func (f Filter) Matches(o *Order) bool {
	if f.Account != "" && o.Account != f.Account {
		return false
	}
	if f.Date != "" && o.CreatedDate().String() != f.Date {
		return false
	}
	if len(f.Symbols) > 0 && !contains(f.Symbols, o.Symbol) {
		return false
	}
	if len(f.Statuses) > 0 && !contains(f.Statuses, o.Status) {
		return false
	}
	return true
}

func compact(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func contains(values []string, v string) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}
