package repository

import (
	"context"

	"shop/internal/domain/model"
)

// 調整履歴作成
type StockAdjustmentRepository interface {
	Create(ctx context.Context, adjustment model.StockAdjustment) error
}
