package events

import (
	"context"
	"time"
)

// 注文確定イベント。コミット後に発行する（トランザクションには含めない）。
type OrderPlaced struct {
	EventID     string            `json:"event_id"`
	OrderID     int64             `json:"order_id"`
	CustomerID  int64             `json:"customer_id"`
	TotalAmount string            `json:"total_amount"`
	Lines       []OrderPlacedLine `json:"lines"`
	PlacedAt    time.Time         `json:"placed_at"`
}

type OrderPlacedLine struct {
	ProductID       int64  `json:"product_id"`
	Quantity        int64  `json:"quantity"`
	PriceAtPurchase string `json:"price_at_purchase"`
}

type Publisher interface {
	PublishOrderPlaced(ctx context.Context, ev OrderPlaced) error
	Close()
}

// ブローカー未設定のとき用
type NopPublisher struct{}

func (NopPublisher) PublishOrderPlaced(ctx context.Context, ev OrderPlaced) error { return nil }
func (NopPublisher) Close()                                                       {}
