package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction types as stored in transaction_type.
const (
	TransactionBuy  = "B"
	TransactionSell = "S"
)

// Order statuses counted by the stats summary.
const (
	StatusComplete = "COMPLETE"
	StatusRejected = "REJECTED"
)

// Order represents one row of a broker orders table.
// Rows are written by the order execution system; this service only reads them.
type Order struct {
	OrderID         string          `json:"order_id"`         // unique per row
	Symbol          string          `json:"symbol"`           // trading symbol, e.g. "TCS-EQ"
	Exchange        string          `json:"exchange"`         // NSE | BSE | NFO ...
	TransactionType string          `json:"transaction_type"` // B | S
	Price           decimal.Decimal `json:"price"`
	Qty             int64           `json:"qty"`
	Status          string          `json:"status"`
	OrderType       string          `json:"order_type"`   // LMT | MKT | SL-LMT ...
	ProductType     string          `json:"product_type"` // C | I | M
	OrderTime       *time.Time      `json:"order_time"`   // broker wall-clock time, no zone (nullable)
	Remarks         *string         `json:"remarks"`
	SplRemarks      *string         `json:"spl_remarks"`
	RejectionReason *string         `json:"rejection_reason"`
	Account         string          `json:"account"`
	CreatedAt       time.Time       `json:"created_at"`
	ExitTime        *time.Time      `json:"exit_time"`
	TotalOrderTime  *time.Duration  `json:"total_order_time"`
}

// OrderColumns lists the selected order columns in output order.
var OrderColumns = []string{
	"order_id",
	"symbol",
	"exchange",
	"transaction_type",
	"price",
	"qty",
	"status",
	"order_type",
	"product_type",
	"order_time",
	"remarks",
	"spl_remarks",
	"rejection_reason",
	"account",
	"created_at",
	"exit_time",
	"total_order_time",
}

// Record returns the order as a column-keyed record with native values.
// Nullable columns map to nil when unset.
func (o *Order) Record() Record {
	r := Record{
		"order_id":         o.OrderID,
		"symbol":           o.Symbol,
		"exchange":         o.Exchange,
		"transaction_type": o.TransactionType,
		"price":            o.Price,
		"qty":              o.Qty,
		"status":           o.Status,
		"order_type":       o.OrderType,
		"product_type":     o.ProductType,
		"order_time":       nil,
		"remarks":          nil,
		"spl_remarks":      nil,
		"rejection_reason": nil,
		"account":          o.Account,
		"created_at":       o.CreatedAt,
		"exit_time":        nil,
		"total_order_time": nil,
	}
	if o.OrderTime != nil {
		r["order_time"] = LocalTime{Time: *o.OrderTime}
	}
	if o.Remarks != nil {
		r["remarks"] = *o.Remarks
	}
	if o.SplRemarks != nil {
		r["spl_remarks"] = *o.SplRemarks
	}
	if o.RejectionReason != nil {
		r["rejection_reason"] = *o.RejectionReason
	}
	if o.ExitTime != nil {
		r["exit_time"] = *o.ExitTime
	}
	if o.TotalOrderTime != nil {
		r["total_order_time"] = *o.TotalOrderTime
	}
	return r
}

// CreatedDate returns the calendar day of CreatedAt.
func (o *Order) CreatedDate() Date {
	return DateOf(o.CreatedAt)
}
