package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"marketplace/internal/domain/model"
	repo "marketplace/internal/repository"

	"github.com/google/uuid"
)

type OrderUsecase struct {
	tx repo.TransactionManager
}

func NewOrderUsecase(tx repo.TransactionManager) *OrderUsecase {
	return &OrderUsecase{tx: tx}
}

type CheckoutInput struct {
	VendorID        int64
	DeliveryAddress string
	Note            string
	PaymentMethod   string
}

type OrderItemOutput struct {
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	Quantity  int64  `json:"quantity"`
	Subtotal  int64  `json:"subtotal"`
}

type OrderOutput struct {
	ID              int64             `json:"id"`
	Reference       string            `json:"reference"`
	UserID          int64             `json:"user_id"`
	VendorID        int64             `json:"vendor_id"`
	Status          string            `json:"status"`
	TotalPrice      int64             `json:"total_price"`
	PaymentMethod   string            `json:"payment_method"`
	DeliveryAddress string            `json:"delivery_address"`
	Note            string            `json:"note,omitempty"`
	PickupNote      string            `json:"pickup_note,omitempty"`
	PaidAt          *time.Time        `json:"paid_at,omitempty"`
	CompletedAt     *time.Time        `json:"completed_at,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
	Items           []OrderItemOutput `json:"items"`
}

// Checkout はそのストア分のカート明細を注文に変換する。
// 在庫の再チェック＋減算、注文・明細作成、カート掃除までを1トランザクションで行い、
// どれか失敗したら全部戻す（部分的な在庫減算を残さない）。
func (u *OrderUsecase) Checkout(ctx context.Context, userID int64, in CheckoutInput) (OrderOutput, error) {
	if userID <= 0 {
		return OrderOutput{}, errUnauthorized()
	}
	if in.VendorID <= 0 {
		return OrderOutput{}, errValidation("invalid vendor_id")
	}
	if strings.TrimSpace(in.DeliveryAddress) == "" {
		return OrderOutput{}, errValidation("delivery_address is required")
	}
	if strings.TrimSpace(in.PaymentMethod) == "" {
		return OrderOutput{}, errValidation("payment_method is required")
	}

	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		vendor, err := r.Vendors().FindByID(ctx, in.VendorID)
		if errors.Is(err, repo.ErrNotFound) {
			return errNotFound("vendor not found")
		}
		if err != nil {
			return errInternal()
		}

		//カートからこのストアの明細だけ拾う
		allLines, err := r.CartLines().ListByUserID(ctx, userID)
		if err != nil {
			return errInternal()
		}

		type pickedLine struct {
			line    model.CartItem
			product model.Product
		}
		picked := make([]pickedLine, 0, len(allLines))
		for _, line := range allLines {
			p, err := r.Products().FindByID(ctx, line.ProductID)
			if errors.Is(err, repo.ErrNotFound) {
				continue
			}
			if err != nil {
				return errInternal()
			}
			if p.VendorID != in.VendorID {
				continue
			}
			picked = append(picked, pickedLine{line: line, product: p})
		}

		if len(picked) == 0 {
			return errEmptySelection()
		}

		//在庫とステータスを確定時に再チェックして減らす
		orderItems := make([]model.OrderItem, 0, len(picked))
		productIDs := make([]int64, 0, len(picked))
		var total int64 = 0
		now := time.Now()

		for _, pl := range picked {
			if !pl.product.Purchasable(vendor.Status) {
				return errValidation(fmt.Sprintf("product %d is not available", pl.product.ID))
			}

			//条件付きUPDATEでの減算（足りないなら false）。最後の1個の同時購入はここで片方が落ちる。
			ok, err := r.Inventory().DecreaseStockIfEnough(ctx, pl.line.ProductID, pl.line.Quantity)
			if err != nil {
				return errInternal()
			}
			if !ok {
				return errInsufficientStock(pl.line.ProductID)
			}

			//購入時点の名前・単価をスナップショット
			subtotal := pl.product.Price * pl.line.Quantity
			orderItems = append(orderItems, model.OrderItem{
				ProductID:           pl.line.ProductID,
				ProductNameSnapshot: pl.product.Name,
				UnitPriceSnapshot:   pl.product.Price,
				Quantity:            pl.line.Quantity,
				Subtotal:            subtotal,
				CreatedAt:           now,
			})
			productIDs = append(productIDs, pl.line.ProductID)
			total += subtotal
		}

		order := model.Order{
			UserID:          userID,
			VendorID:        in.VendorID,
			Reference:       newOrderReference(),
			Status:          model.OrderStatusPending,
			TotalPrice:      total,
			PaymentMethod:   strings.TrimSpace(in.PaymentMethod),
			DeliveryAddress: strings.TrimSpace(in.DeliveryAddress),
			Note:            strings.TrimSpace(in.Note),
			CreatedAt:       now,
			UpdatedAt:       now,
		}

		orderID, err := r.Orders().Create(ctx, order)
		if err != nil {
			return errInternal()
		}

		if err := r.OrderItems().CreateBulk(ctx, orderID, orderItems); err != nil {
			return errInternal()
		}

		//このストア分だけカートから消す（他ストアの明細は残す）
		if err := r.CartLines().DeleteByUserAndProducts(ctx, userID, productIDs); err != nil {
			return errInternal()
		}

		//ストア側への通知
		if err := r.Notifications().Create(ctx, model.Notification{
			UserID: vendor.UserID,
			Title:  "新しい注文",
			Body:   fmt.Sprintf("注文 %s が入りました（合計 %d）", order.Reference, total),
		}); err != nil {
			return errInternal()
		}

		order.ID = orderID
		out = toOrderOutput(order, orderItems)
		return nil
	})

	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

type CustomerUpdateOrderStatusInput struct {
	Status string
}

// 購入者によるステータス変更。遷移表にない組はInvalidTransitionで弾く。
// paid / completed にはタイムスタンプを刻む。在庫は一切戻さない。
func (u *OrderUsecase) UpdateStatus(ctx context.Context, userID int64, orderID int64, in CustomerUpdateOrderStatusInput) (OrderOutput, error) {
	if userID <= 0 {
		return OrderOutput{}, errUnauthorized()
	}
	if orderID <= 0 {
		return OrderOutput{}, errValidation("invalid order id")
	}

	newStatus, ok := parseOrderStatus(in.Status)
	if !ok {
		return OrderOutput{}, errValidation("invalid status")
	}

	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return errNotFound("order not found")
		}
		if err != nil {
			return errInternal()
		}
		//他人の注文は「存在しない扱い」にする
		if o.UserID != userID {
			return errNotFound("order not found")
		}

		if !model.CanCustomerTransition(o.Status, newStatus) {
			return errInvalidTransition(string(o.Status), string(newStatus))
		}

		now := time.Now()
		var stamps repo.StatusStamps
		switch newStatus {
		case model.OrderStatusPaid:
			stamps.PaidAt = &now
			o.PaidAt = &now
		case model.OrderStatusCompleted:
			stamps.CompletedAt = &now
			o.CompletedAt = &now
		}

		if err := r.Orders().UpdateStatus(ctx, orderID, newStatus, stamps); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return errNotFound("order not found")
			}
			return errInternal()
		}

		//ストア側への通知
		vendor, err := r.Vendors().FindByID(ctx, o.VendorID)
		if err == nil {
			_ = r.Notifications().Create(ctx, model.Notification{
				UserID: vendor.UserID,
				Title:  "注文ステータス変更",
				Body:   fmt.Sprintf("注文 %s が %s になりました", o.Reference, newStatus),
			})
		}

		o.Status = newStatus
		items, err := r.OrderItems().ListByOrderID(ctx, orderID)
		if err != nil {
			return errInternal()
		}
		out = toOrderOutput(o, items)
		return nil
	})

	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

func (u *OrderUsecase) ListMyOrders(ctx context.Context, userID int64, page int, limit int) ([]OrderOutput, error) {
	if userID <= 0 {
		return []OrderOutput{}, errUnauthorized()
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 50
	}

	var outs []OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, _, err := r.Orders().ListByUserID(ctx, userID, page, limit)
		if err != nil {
			return errInternal()
		}

		outs = make([]OrderOutput, 0, len(orders))
		for _, o := range orders {
			items, err := r.OrderItems().ListByOrderID(ctx, o.ID)
			if err != nil {
				return errInternal()
			}
			outs = append(outs, toOrderOutput(o, items))
		}
		return nil
	})

	if err != nil {
		return []OrderOutput{}, err
	}
	return outs, nil
}

func (u *OrderUsecase) GetMyOrderDetail(ctx context.Context, userID int64, orderID int64) (OrderOutput, error) {
	if userID <= 0 {
		return OrderOutput{}, errUnauthorized()
	}
	if orderID <= 0 {
		return OrderOutput{}, errValidation("invalid order id")
	}

	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return errNotFound("order not found")
		}
		if err != nil {
			return errInternal()
		}
		if o.UserID != userID {
			return errNotFound("order not found")
		}

		items, err := r.OrderItems().ListByOrderID(ctx, orderID)
		if err != nil {
			return errInternal()
		}

		out = toOrderOutput(o, items)
		return nil
	})

	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

// 共有用の注文番号。uuid由来で再利用しない。
func newOrderReference() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "ORD-" + strings.ToUpper(raw[:12])
}

func parseOrderStatus(s string) (model.OrderStatus, bool) {
	switch model.OrderStatus(strings.ToUpper(strings.TrimSpace(s))) {
	case model.OrderStatusPending:
		return model.OrderStatusPending, true
	case model.OrderStatusPaid:
		return model.OrderStatusPaid, true
	case model.OrderStatusProcessing:
		return model.OrderStatusProcessing, true
	case model.OrderStatusShipped:
		return model.OrderStatusShipped, true
	case model.OrderStatusCompleted:
		return model.OrderStatusCompleted, true
	case model.OrderStatusCancelled:
		return model.OrderStatusCancelled, true
	default:
		return "", false
	}
}

func toOrderOutput(o model.Order, items []model.OrderItem) OrderOutput {
	outItems := make([]OrderItemOutput, 0, len(items))
	for _, it := range items {
		outItems = append(outItems, OrderItemOutput{
			ProductID: it.ProductID,
			Name:      it.ProductNameSnapshot,
			Price:     it.UnitPriceSnapshot,
			Quantity:  it.Quantity,
			Subtotal:  it.Subtotal,
		})
	}

	return OrderOutput{
		ID:              o.ID,
		Reference:       o.Reference,
		UserID:          o.UserID,
		VendorID:        o.VendorID,
		Status:          string(o.Status),
		TotalPrice:      o.TotalPrice,
		PaymentMethod:   o.PaymentMethod,
		DeliveryAddress: o.DeliveryAddress,
		Note:            o.Note,
		PickupNote:      o.PickupNote,
		PaidAt:          o.PaidAt,
		CompletedAt:     o.CompletedAt,
		CreatedAt:       o.CreatedAt,
		Items:           outItems,
	}
}
