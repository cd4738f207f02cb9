// Package events carries domain events over RabbitMQ.
package events

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderPlacedQueue is the durable queue order events are published to.
const OrderPlacedQueue = "order.placed"

// OrderPlaced is published after an order commits. It carries enough for
// consumers to notify sellers without reading the database.
type OrderPlaced struct {
	OrderID     int64             `json:"order_id"`
	BuyerID     int64             `json:"buyer_id"`
	TotalAmount decimal.Decimal   `json:"total_amount"`
	Items       []OrderPlacedItem `json:"items"`
	PlacedAt    time.Time         `json:"placed_at"`
}

type OrderPlacedItem struct {
	ProductID   int64           `json:"product_id"`
	ProductName string          `json:"product_name"`
	SellerID    int64           `json:"seller_id"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
}
