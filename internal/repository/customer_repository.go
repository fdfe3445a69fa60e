package repository

import (
	"context"

	"shop/internal/domain/model"
)

// 顧客の永続化の約束。CRUDは共通インターフェースで賄う。
type CustomerRepository interface {
	Crud[model.Customer]

	//メール重複チェック用
	FindByEmail(ctx context.Context, email string) (model.Customer, error)
}
