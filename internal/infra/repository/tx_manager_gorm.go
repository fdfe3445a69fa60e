package repository

import (
	"context"

	repo "shop/internal/repository"

	"gorm.io/gorm"
)

type txReposGorm struct {
	customers   repo.CustomerRepository
	products    repo.ProductRepository
	inventory   repo.InventoryRepository
	orders      repo.OrderRepository
	orderLines  repo.OrderLineRepository
	adjustments repo.StockAdjustmentRepository
}

func (r *txReposGorm) Customers() repo.CustomerRepository               { return r.customers }
func (r *txReposGorm) Products() repo.ProductRepository                 { return r.products }
func (r *txReposGorm) Inventory() repo.InventoryRepository              { return r.inventory }
func (r *txReposGorm) Orders() repo.OrderRepository                     { return r.orders }
func (r *txReposGorm) OrderLines() repo.OrderLineRepository             { return r.orderLines }
func (r *txReposGorm) StockAdjustments() repo.StockAdjustmentRepository { return r.adjustments }

type TxManagerGorm struct {
	db *gorm.DB
}

func NewTxManagerGorm(db *gorm.DB) *TxManagerGorm {
	return &TxManagerGorm{db: db}
}

// fnがエラーを返せばロールバック、nilならコミット。
// キャンセルはctx経由で各repo呼び出しに伝わり、同じくロールバックになる。
func (tm *TxManagerGorm) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return tm.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		//repoはtxを持ったDBで作り直す
		r := &txReposGorm{
			customers:   NewCustomerGormRepository(tx),
			products:    NewProductGormRepository(tx),
			inventory:   NewInventoryGormRepository(tx),
			orders:      NewOrderGormRepository(tx),
			orderLines:  NewOrderLineGormRepository(tx),
			adjustments: NewStockAdjustmentGormRepository(tx),
		}
		return fn(r)
	})
}
