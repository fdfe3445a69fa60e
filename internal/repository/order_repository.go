package repository

import (
	"context"

	"shop/internal/domain/model"
)

// 注文一覧の絞り込み
type OrderListFilter struct {
	Limit      int
	Offset     int
	CustomerID *int64
	Status     string
}

type OrderRepository interface {
	FindByID(ctx context.Context, orderID int64) (model.Order, error)
	//新しい順で返す
	List(ctx context.Context, f OrderListFilter) ([]model.Order, int64, error)
	Create(ctx context.Context, order model.Order) (int64, error)
	UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus) error
	Delete(ctx context.Context, orderID int64) error
}
