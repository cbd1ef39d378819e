package normalization

import (
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"order-dashboard/internal/domain"
)

const (
	timestampLayout      = "2006-01-02T15:04:05-07:00"
	timestampMicroLayout = "2006-01-02T15:04:05.000000-07:00"
	localLayout          = "2006-01-02T15:04:05"
	localMicroLayout     = "2006-01-02T15:04:05.000000"

	microsPerDay = int64(24 * time.Hour / time.Microsecond)
)

// Records normalizes every record in place and returns the slice.
func Records(records []domain.Record) []domain.Record {
	for _, r := range records {
		Record(r)
	}
	return records
}

// Record normalizes the values of r in place and returns r.
func Record(r domain.Record) domain.Record {
	for k, v := range r {
		r[k] = Value(v)
	}
	return r
}

// Value converts temporal and numeric driver values into JSON-safe values:
//   - domain.Date: "YYYY-MM-DD"
//   - time.Time: ISO-8601 with offset, microseconds only when non-zero
//   - domain.LocalTime, pgtype.Timestamp: ISO-8601 without offset
//   - pgtype.Interval, time.Duration: "[N day[s], ]H:MM:SS[.ffffff]"
//   - pgtype.Numeric, decimal.Decimal: decimal string keeping its scale
//
// Nil and invalid (NULL) values become nil. Other values pass through.
func Value(v any) any {
	switch x := v.(type) {
	case nil:
		return nil
	case domain.Date:
		return x.String()
	case *domain.Date:
		if x == nil {
			return nil
		}
		return x.String()
	case time.Time:
		return FormatTimestamp(x)
	case *time.Time:
		if x == nil {
			return nil
		}
		return FormatTimestamp(*x)
	case domain.LocalTime:
		return FormatLocalTime(x.Time)
	case pgtype.Date:
		if !x.Valid {
			return nil
		}
		return domain.DateOf(x.Time).String()
	case pgtype.Timestamp:
		if !x.Valid {
			return nil
		}
		return FormatLocalTime(x.Time)
	case pgtype.Timestamptz:
		if !x.Valid {
			return nil
		}
		return FormatTimestamp(x.Time)
	case time.Duration:
		return formatMicros(x.Microseconds())
	case *time.Duration:
		if x == nil {
			return nil
		}
		return formatMicros(x.Microseconds())
	case pgtype.Interval:
		if !x.Valid {
			return nil
		}
		return FormatInterval(x)
	case pgtype.Numeric:
		return numericValue(x)
	case decimal.Decimal:
		return FormatDecimal(x)
	default:
		return v
	}
}

// FormatTimestamp formats t as ISO-8601 with a numeric offset.
func FormatTimestamp(t time.Time) string {
	if t.Nanosecond()/int(time.Microsecond) != 0 {
		return t.Format(timestampMicroLayout)
	}
	return t.Format(timestampLayout)
}

// FormatLocalTime formats a zone-less wall-clock time as ISO-8601 without offset.
func FormatLocalTime(t time.Time) string {
	if t.Nanosecond()/int(time.Microsecond) != 0 {
		return t.Format(localMicroLayout)
	}
	return t.Format(localLayout)
}

// FormatDecimal formats d keeping trailing fractional zeros, so a
// NUMERIC(12,2) value 3712.50 stays "3712.50".
func FormatDecimal(d decimal.Decimal) string {
	if d.Exponent() < 0 {
		return d.StringFixed(-d.Exponent())
	}
	return d.String()
}

// FormatInterval formats a Postgres interval. A month counts as 30 days.
func FormatInterval(iv pgtype.Interval) string {
	days := int64(iv.Months)*30 + int64(iv.Days)
	return formatMicros(days*microsPerDay + iv.Microseconds)
}

// formatMicros renders a signed span of microseconds with a non-negative
// time of day and a (possibly negative) day count.
func formatMicros(total int64) string {
	days := total / microsPerDay
	rem := total % microsPerDay
	if rem < 0 {
		rem += microsPerDay
		days--
	}

	secs := rem / 1_000_000
	micros := rem % 1_000_000
	clock := fmt.Sprintf("%d:%02d:%02d", secs/3600, (secs/60)%60, secs%60)
	if micros != 0 {
		clock += fmt.Sprintf(".%06d", micros)
	}

	if days == 0 {
		return clock
	}
	unit := "days"
	if days == 1 || days == -1 {
		unit = "day"
	}
	return fmt.Sprintf("%d %s, %s", days, unit, clock)
}

func numericValue(n pgtype.Numeric) any {
	if !n.Valid {
		return nil
	}
	if n.NaN {
		return "NaN"
	}
	switch n.InfinityModifier {
	case pgtype.Infinity:
		return "Infinity"
	case pgtype.NegativeInfinity:
		return "-Infinity"
	}
	if n.Int == nil {
		return "0"
	}
	return FormatDecimal(decimal.NewFromBigInt(n.Int, n.Exp))
}
