package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 注文の明細。注文と同じトランザクションでしか作られない。
type OrderLine struct {
	ID        int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID   int64 `gorm:"not null;index" json:"order_id"`
	ProductID int64 `gorm:"not null;index" json:"product_id"`
	Quantity  int64 `gorm:"not null" json:"quantity"`
	//確定時点の単価。以後変わらない
	PriceAtPurchase decimal.Decimal `gorm:"type:decimal(10,2);not null;column:price_at_purchase" json:"price_at_purchase"`
	CreatedAt       time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
}
