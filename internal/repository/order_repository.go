package repository

import (
	"context"
	"time"

	"marketplace/internal/domain/model"
)

type AdminOrderListFilter struct {
	Page     int
	Limit    int
	Status   string
	UserID   *int64
	VendorID *int64
	From     *time.Time
	To       *time.Time
}

// ステータス更新に付随して書き込むフィールド。nilは据え置き。
type StatusStamps struct {
	PaidAt      *time.Time
	CompletedAt *time.Time
	PickupNote  *string
}

type OrderRepository interface {
	FindByID(ctx context.Context, orderID int64) (model.Order, error)
	ListByUserID(ctx context.Context, userID int64, page int, limit int) ([]model.Order, int64, error)
	ListByVendorID(ctx context.Context, vendorID int64, page int, limit int) ([]model.Order, int64, error)
	Create(ctx context.Context, order model.Order) (int64, error)
	UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus, stamps StatusStamps) error

	//管理者用の注文一覧
	ListAdmin(ctx context.Context, f AdminOrderListFilter) ([]model.Order, int64, error)
}
