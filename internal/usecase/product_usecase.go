package usecase

import (
	"context"
	"strings"

	"shop/internal/domain/model"
	repo "shop/internal/repository"

	"github.com/shopspring/decimal"
)

type ProductUsecase struct {
	products repo.ProductRepository
	//在庫変更＋調整履歴を同じトランザクションに入れるため
	tx repo.TransactionManager
}

func NewProductUsecase(products repo.ProductRepository, tx repo.TransactionManager) *ProductUsecase {
	return &ProductUsecase{products: products, tx: tx}
}

type ProductInput struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int64           `json:"stock"`
	//在庫を変えたときの理由（履歴用、省略可）
	Reason string `json:"reason,omitempty"`
}

type ProductListOutput struct {
	Items  []model.Product `json:"items"`
	Total  int64           `json:"total"`
	Limit  int             `json:"limit"`
	Offset int             `json:"offset"`
}

func (u *ProductUsecase) List(ctx context.Context, limit int, offset int) (ProductListOutput, error) {
	if limit == 0 {
		limit = 10
	}
	if limit < 1 || limit > 100 {
		return ProductListOutput{}, NewValidationError("invalid limit")
	}
	if offset < 0 {
		return ProductListOutput{}, NewValidationError("invalid offset")
	}

	items, total, err := u.products.List(ctx, limit, offset)
	if err != nil {
		return ProductListOutput{}, newStorageError(err)
	}

	return ProductListOutput{Items: items, Total: total, Limit: limit, Offset: offset}, nil
}

func (u *ProductUsecase) Get(ctx context.Context, productID int64) (model.Product, error) {
	if productID <= 0 {
		return model.Product{}, NewValidationError("invalid id")
	}

	p, err := u.products.FindByID(ctx, productID)
	if err == repo.ErrNotFound {
		return model.Product{}, &NotFoundError{Entity: "product", ID: productID}
	}
	if err != nil {
		return model.Product{}, newStorageError(err)
	}
	return p, nil
}

func (u *ProductUsecase) Create(ctx context.Context, in ProductInput) (model.Product, error) {
	if err := validateProductInput(in); err != nil {
		return model.Product{}, err
	}

	p := model.Product{
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Price:       in.Price,
		Stock:       in.Stock,
	}
	if err := u.products.Create(ctx, &p); err != nil {
		return model.Product{}, newStorageError(err)
	}
	return p, nil
}

// 更新。在庫が変わるときは調整履歴も同じトランザクションで残す。
func (u *ProductUsecase) Update(ctx context.Context, productID int64, in ProductInput) (model.Product, error) {
	if productID <= 0 {
		return model.Product{}, NewValidationError("invalid id")
	}
	if err := validateProductInput(in); err != nil {
		return model.Product{}, err
	}

	var out model.Product

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		p, err := r.Products().FindByID(ctx, productID)
		if err == repo.ErrNotFound {
			return &NotFoundError{Entity: "product", ID: productID}
		}
		if err != nil {
			return newStorageError(err)
		}

		if in.Stock != p.Stock {
			reason := strings.TrimSpace(in.Reason)
			if reason == "" {
				reason = "manual update"
			}

			if err := r.Inventory().SetStock(ctx, productID, in.Stock); err != nil {
				return newStorageError(err)
			}
			if err := r.StockAdjustments().Create(ctx, model.StockAdjustment{
				ProductID: productID,
				Delta:     in.Stock - p.Stock,
				Reason:    reason,
			}); err != nil {
				return newStorageError(err)
			}
		}

		p.Name = strings.TrimSpace(in.Name)
		p.Description = in.Description
		p.Price = in.Price
		p.Stock = in.Stock
		if err := r.Products().Update(ctx, &p); err != nil {
			return newStorageError(err)
		}

		out = p
		return nil
	})

	if err != nil {
		return model.Product{}, err
	}
	return out, nil
}

func (u *ProductUsecase) Delete(ctx context.Context, productID int64) error {
	if productID <= 0 {
		return NewValidationError("invalid id")
	}

	err := u.products.Delete(ctx, productID)
	if err == repo.ErrNotFound {
		return &NotFoundError{Entity: "product", ID: productID}
	}
	if err != nil {
		return newStorageError(err)
	}
	return nil
}

func validateProductInput(in ProductInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return NewValidationError("name required")
	}
	if in.Price.IsNegative() {
		return NewValidationError("price must be >= 0")
	}
	if in.Stock < 0 {
		return NewValidationError("stock must be >= 0")
	}
	return nil
}
