package domain

// Stats summary keys, in the order they are selected.
const (
	StatTotalOrders   = "total_orders"
	StatBuyOrders     = "buy_orders"
	StatSellOrders    = "sell_orders"
	StatCompleted     = "completed"
	StatRejected      = "rejected"
	StatUniqueSymbols = "unique_symbols"
)

// ComputeStats aggregates orders into a stats record.
// Zero orders yield zero counts, never nil values.
func ComputeStats(orders []*Order) Record {
	var total, buys, sells, completed, rejected int64
	symbols := make(map[string]struct{})
	for _, o := range orders {
		total++
		switch o.TransactionType {
		case TransactionBuy:
			buys++
		case TransactionSell:
			sells++
		}
		switch o.Status {
		case StatusComplete:
			completed++
		case StatusRejected:
			rejected++
		}
		symbols[o.Symbol] = struct{}{}
	}
	return Record{
		StatTotalOrders:   total,
		StatBuyOrders:     buys,
		StatSellOrders:    sells,
		StatCompleted:     completed,
		StatRejected:      rejected,
		StatUniqueSymbols: int64(len(symbols)),
	}
}
