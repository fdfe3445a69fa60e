package repository

import "context"

type InventoryRepository interface {
	// 在庫の現在値を設定
	SetStock(ctx context.Context, productID int64, newStock int64) error

	// 在庫が足りるときだけ減算。足りなければ false（エラーではない）
	DecreaseStockIfEnough(ctx context.Context, productID int64, qty int64) (bool, error)
}
