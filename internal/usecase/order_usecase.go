package usecase

import (
	"context"
	"errors"
	"time"

	"shop/internal/domain/model"
	"shop/internal/events"
	"shop/internal/metrics"
	repo "shop/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type OrderUsecase struct {
	tx        repo.TransactionManager
	publisher events.Publisher
	metrics   *metrics.OrderMetrics
}

func NewOrderUsecase(tx repo.TransactionManager, publisher events.Publisher, m *metrics.OrderMetrics) *OrderUsecase {
	return &OrderUsecase{tx: tx, publisher: publisher, metrics: m}
}

type OrderLineInput struct {
	ProductID int64 `json:"product_id"`
	Quantity  int64 `json:"quantity"`
}

type PlaceOrderInput struct {
	CustomerID int64
	Lines      []OrderLineInput
	//空ならpending
	Status string
}

type CustomerSummary struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type OrderLineOutput struct {
	ProductID       int64           `json:"product_id"`
	Quantity        int64           `json:"quantity"`
	PriceAtPurchase decimal.Decimal `json:"price_at_purchase"`
}

type OrderOutput struct {
	ID          int64             `json:"id"`
	CustomerID  int64             `json:"customer_id"`
	Status      string            `json:"status"`
	TotalAmount decimal.Decimal   `json:"total_amount"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
	Customer    *CustomerSummary  `json:"customer,omitempty"`
	Lines       []OrderLineOutput `json:"lines"`
}

// 注文確定。検証→在庫確保→合計計算→保存を1トランザクションで行う。
// 途中で何か失敗したら全部ロールバック（減らした在庫も戻る）。
func (u *OrderUsecase) PlaceOrder(ctx context.Context, in PlaceOrderInput) (OrderOutput, error) {
	if in.CustomerID <= 0 {
		return u.rejectPlace(NewValidationError("invalid customer_id"))
	}
	if len(in.Lines) == 0 {
		return u.rejectPlace(NewValidationError("order must have at least one line"))
	}
	for _, l := range in.Lines {
		if l.ProductID <= 0 {
			return u.rejectPlace(NewValidationError("invalid product_id"))
		}
		if l.Quantity <= 0 {
			return u.rejectPlace(NewValidationError("quantity must be > 0"))
		}
	}

	status := model.OrderStatusPending
	if in.Status != "" {
		s, ok := model.ParseOrderStatus(in.Status)
		if !ok {
			return u.rejectPlace(&InvalidStatusError{Value: in.Status})
		}
		status = s
	}

	started := time.Now()

	var out OrderOutput
	var ev events.OrderPlaced

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		//顧客の存在確認
		customer, err := r.Customers().FindByID(ctx, in.CustomerID)
		if err == repo.ErrNotFound {
			return &NotFoundError{Entity: "customer", ID: in.CustomerID}
		}
		if err != nil {
			return newStorageError(err)
		}

		//商品の存在確認＋価格スナップショット。
		//在庫の事前チェックはあくまで目安（確定は下の減算）
		resolved := make([]model.OrderLine, 0, len(in.Lines))
		for _, l := range in.Lines {
			p, err := r.Products().FindByID(ctx, l.ProductID)
			if err == repo.ErrNotFound {
				return &NotFoundError{Entity: "product", ID: l.ProductID}
			}
			if err != nil {
				return newStorageError(err)
			}
			if p.Stock < l.Quantity {
				return &InsufficientStockError{ProductID: p.ID, Available: p.Stock, Requested: l.Quantity}
			}

			resolved = append(resolved, model.OrderLine{
				ProductID:       l.ProductID,
				Quantity:        l.Quantity,
				PriceAtPurchase: p.Price,
			})
		}

		//在庫確保。1文のUPDATEなので同時実行でも負にならない。
		//足りなければここで中断→ロールバックで先に減らした分も戻る
		for _, l := range resolved {
			ok, err := r.Inventory().DecreaseStockIfEnough(ctx, l.ProductID, l.Quantity)
			if err != nil {
				return newStorageError(err)
			}
			if !ok {
				//availableはエラー表示用に読み直す
				p, err := r.Products().FindByID(ctx, l.ProductID)
				if err != nil && err != repo.ErrNotFound {
					return newStorageError(err)
				}
				return &InsufficientStockError{ProductID: l.ProductID, Available: p.Stock, Requested: l.Quantity}
			}
		}

		//合計 = Σ(snapshot×数量)、2桁で四捨五入
		total := decimal.Zero
		for _, l := range resolved {
			total = total.Add(l.PriceAtPurchase.Mul(decimal.NewFromInt(l.Quantity)))
		}
		total = total.Round(2)

		//ヘッダ→明細の順で保存。明細は採番されたorder_idに紐づける
		orderID, err := r.Orders().Create(ctx, model.Order{
			CustomerID:  in.CustomerID,
			Status:      status,
			TotalAmount: total,
		})
		if err != nil {
			return newStorageError(err)
		}

		if err := r.OrderLines().CreateBulk(ctx, orderID, resolved); err != nil {
			return newStorageError(err)
		}

		created, err := r.Orders().FindByID(ctx, orderID)
		if err != nil {
			return newStorageError(err)
		}
		lines, err := r.OrderLines().ListByOrderID(ctx, orderID)
		if err != nil {
			return newStorageError(err)
		}

		out = toOrderOutput(created, lines, &CustomerSummary{ID: customer.ID, Name: customer.Name, Email: customer.Email})
		ev = toOrderPlacedEvent(created, lines)
		return nil
	})

	if err != nil {
		u.metrics.OrderRejected(rejectReason(err))
		return OrderOutput{}, err
	}

	u.metrics.OrderPlaced(time.Since(started))

	//イベントはコミット後にベストエフォート。失敗しても注文は成立している
	if err := u.publisher.PublishOrderPlaced(ctx, ev); err != nil {
		log.WithError(err).WithField("order_id", out.ID).Warn("failed to publish order placed event")
	}

	return out, nil
}

func (u *OrderUsecase) rejectPlace(err error) (OrderOutput, error) {
	u.metrics.OrderRejected(rejectReason(err))
	return OrderOutput{}, err
}

func rejectReason(err error) string {
	var (
		ve *ValidationError
		nf *NotFoundError
		is *InsufficientStockError
		vs *InvalidStatusError
	)
	switch {
	case errors.As(err, &is):
		return "insufficient_stock"
	case errors.As(err, &nf):
		return "not_found"
	case errors.As(err, &vs):
		return "invalid_status"
	case errors.As(err, &ve):
		return "validation"
	default:
		return "storage"
	}
}

func (u *OrderUsecase) GetOrder(ctx context.Context, orderID int64) (OrderOutput, error) {
	if orderID <= 0 {
		return OrderOutput{}, NewValidationError("invalid id")
	}

	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if err == repo.ErrNotFound {
			return &NotFoundError{Entity: "order", ID: orderID}
		}
		if err != nil {
			return newStorageError(err)
		}

		lines, err := r.OrderLines().ListByOrderID(ctx, orderID)
		if err != nil {
			return newStorageError(err)
		}

		cs, err := customerSummary(ctx, r, o.CustomerID)
		if err != nil {
			return err
		}

		out = toOrderOutput(o, lines, cs)
		return nil
	})

	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

type ListOrdersInput struct {
	Limit      int
	Offset     int
	CustomerID *int64
	Status     string
}

type OrderSummaryOutput struct {
	ID          int64            `json:"id"`
	CustomerID  int64            `json:"customer_id"`
	Status      string           `json:"status"`
	TotalAmount decimal.Decimal  `json:"total_amount"`
	CreatedAt   time.Time        `json:"created_at"`
	Customer    *CustomerSummary `json:"customer,omitempty"`
}

type OrderListOutput struct {
	Items  []OrderSummaryOutput `json:"items"`
	Total  int64                `json:"total"`
	Limit  int                  `json:"limit"`
	Offset int                  `json:"offset"`
}

// 注文一覧。新しい順。
func (u *OrderUsecase) ListOrders(ctx context.Context, in ListOrdersInput) (OrderListOutput, error) {
	if in.Limit == 0 {
		in.Limit = 10
	}
	if in.Limit < 1 || in.Limit > 100 {
		return OrderListOutput{}, NewValidationError("invalid limit")
	}
	if in.Offset < 0 {
		return OrderListOutput{}, NewValidationError("invalid offset")
	}
	if in.CustomerID != nil && *in.CustomerID <= 0 {
		return OrderListOutput{}, NewValidationError("invalid customer_id")
	}
	if in.Status != "" {
		if _, ok := model.ParseOrderStatus(in.Status); !ok {
			return OrderListOutput{}, &InvalidStatusError{Value: in.Status}
		}
	}

	var out OrderListOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, total, err := r.Orders().List(ctx, repo.OrderListFilter{
			Limit:      in.Limit,
			Offset:     in.Offset,
			CustomerID: in.CustomerID,
			Status:     in.Status,
		})
		if err != nil {
			return newStorageError(err)
		}

		//同じ顧客を何度も引かないための小さなキャッシュ
		summaries := map[int64]*CustomerSummary{}

		items := make([]OrderSummaryOutput, 0, len(orders))
		for _, o := range orders {
			cs, cached := summaries[o.CustomerID]
			if !cached {
				cs, err = customerSummary(ctx, r, o.CustomerID)
				if err != nil {
					return err
				}
				summaries[o.CustomerID] = cs
			}

			items = append(items, OrderSummaryOutput{
				ID:          o.ID,
				CustomerID:  o.CustomerID,
				Status:      string(o.Status),
				TotalAmount: o.TotalAmount,
				CreatedAt:   o.CreatedAt,
				Customer:    cs,
			})
		}

		out = OrderListOutput{Items: items, Total: total, Limit: in.Limit, Offset: in.Offset}
		return nil
	})

	if err != nil {
		return OrderListOutput{}, err
	}
	return out, nil
}

// ステータス更新。遷移表は持たない（列挙内ならどこへでも動かせる）。
func (u *OrderUsecase) UpdateOrderStatus(ctx context.Context, orderID int64, newStatus string) (OrderOutput, error) {
	if orderID <= 0 {
		return OrderOutput{}, NewValidationError("invalid id")
	}
	st, ok := model.ParseOrderStatus(newStatus)
	if !ok {
		return OrderOutput{}, &InvalidStatusError{Value: newStatus}
	}

	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if err == repo.ErrNotFound {
			return &NotFoundError{Entity: "order", ID: orderID}
		}
		if err != nil {
			return newStorageError(err)
		}

		if o.Status != st {
			if err := r.Orders().UpdateStatus(ctx, orderID, st); err != nil {
				if err == repo.ErrNotFound {
					return &NotFoundError{Entity: "order", ID: orderID}
				}
				return newStorageError(err)
			}
			o, err = r.Orders().FindByID(ctx, orderID)
			if err != nil {
				return newStorageError(err)
			}
		}

		lines, err := r.OrderLines().ListByOrderID(ctx, orderID)
		if err != nil {
			return newStorageError(err)
		}

		cs, err := customerSummary(ctx, r, o.CustomerID)
		if err != nil {
			return err
		}

		out = toOrderOutput(o, lines, cs)
		return nil
	})

	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

// 注文削除。明細ごと消す。在庫は戻さない。
func (u *OrderUsecase) DeleteOrder(ctx context.Context, orderID int64) error {
	if orderID <= 0 {
		return NewValidationError("invalid id")
	}

	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if _, err := r.Orders().FindByID(ctx, orderID); err != nil {
			if err == repo.ErrNotFound {
				return &NotFoundError{Entity: "order", ID: orderID}
			}
			return newStorageError(err)
		}

		if err := r.OrderLines().DeleteByOrderID(ctx, orderID); err != nil {
			return newStorageError(err)
		}
		if err := r.Orders().Delete(ctx, orderID); err != nil {
			if err == repo.ErrNotFound {
				return &NotFoundError{Entity: "order", ID: orderID}
			}
			return newStorageError(err)
		}
		return nil
	})
}

// 顧客サマリ。顧客が消えていたらnil（注文自体は返す）
func customerSummary(ctx context.Context, r repo.TxRepos, customerID int64) (*CustomerSummary, error) {
	c, err := r.Customers().FindByID(ctx, customerID)
	if err == repo.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, newStorageError(err)
	}
	return &CustomerSummary{ID: c.ID, Name: c.Name, Email: c.Email}, nil
}

func toOrderOutput(o model.Order, lines []model.OrderLine, customer *CustomerSummary) OrderOutput {
	outLines := make([]OrderLineOutput, 0, len(lines))
	for _, l := range lines {
		outLines = append(outLines, OrderLineOutput{
			ProductID:       l.ProductID,
			Quantity:        l.Quantity,
			PriceAtPurchase: l.PriceAtPurchase,
		})
	}

	return OrderOutput{
		ID:          o.ID,
		CustomerID:  o.CustomerID,
		Status:      string(o.Status),
		TotalAmount: o.TotalAmount,
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
		Customer:    customer,
		Lines:       outLines,
	}
}

func toOrderPlacedEvent(o model.Order, lines []model.OrderLine) events.OrderPlaced {
	evLines := make([]events.OrderPlacedLine, 0, len(lines))
	for _, l := range lines {
		evLines = append(evLines, events.OrderPlacedLine{
			ProductID:       l.ProductID,
			Quantity:        l.Quantity,
			PriceAtPurchase: l.PriceAtPurchase.StringFixed(2),
		})
	}

	return events.OrderPlaced{
		EventID:     uuid.NewString(),
		OrderID:     o.ID,
		CustomerID:  o.CustomerID,
		TotalAmount: o.TotalAmount.StringFixed(2),
		Lines:       evLines,
		PlacedAt:    o.CreatedAt,
	}
}
