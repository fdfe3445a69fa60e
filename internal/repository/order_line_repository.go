package repository

import (
	"context"

	"shop/internal/domain/model"
)

type OrderLineRepository interface {
	//orderIDを振ってまとめて作成。親と同じトランザクションで呼ぶこと
	CreateBulk(ctx context.Context, orderID int64, lines []model.OrderLine) error
	ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderLine, error)
	//注文削除時のカスケード用
	DeleteByOrderID(ctx context.Context, orderID int64) error
}
