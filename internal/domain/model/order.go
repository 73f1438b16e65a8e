package model

import "time"

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "PENDING"
	OrderStatusPaid       OrderStatus = "PAID"
	OrderStatusProcessing OrderStatus = "PROCESSING"
	OrderStatusShipped    OrderStatus = "SHIPPED"
	OrderStatusCompleted  OrderStatus = "COMPLETED"
	OrderStatusCancelled  OrderStatus = "CANCELLED"
)

// 購入者が起こせる遷移の表。handlerやusecaseで個別に分岐しない。
var customerOrderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:    {OrderStatusPaid, OrderStatusCancelled},
	OrderStatusPaid:       {OrderStatusCancelled},
	OrderStatusProcessing: {OrderStatusCompleted},
	OrderStatusShipped:    {OrderStatusCompleted},
}

// CanCustomerTransition は購入者による from→to が許されるかを返す。
func CanCustomerTransition(from, to OrderStatus) bool {
	for _, next := range customerOrderTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ストア側が設定できるステータス。自ストアの注文に限る（所有チェックはusecase側）。
var vendorSettableStatuses = map[OrderStatus]bool{
	OrderStatusProcessing: true,
	OrderStatusShipped:    true,
	OrderStatusCompleted:  true,
	OrderStatusCancelled:  true,
}

func CanVendorSet(to OrderStatus) bool {
	return vendorSettableStatuses[to]
}

// 注文。1注文=1ストア（複数ストアのカートはストアごとに分割して注文する）。
// 明細と購入時単価は作成後に変更されない。
type Order struct {
	ID       int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID   int64 `gorm:"not null;index" json:"user_id"`
	VendorID int64 `gorm:"not null;index" json:"vendor_id"`

	//共有用の注文番号（生成値、再利用しない）
	Reference string `gorm:"type:varchar(32);not null;uniqueIndex" json:"reference"`

	Status          OrderStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	TotalPrice      int64       `gorm:"not null" json:"total_price"`
	PaymentMethod   string      `gorm:"type:varchar(50);not null" json:"payment_method"`
	DeliveryAddress string      `gorm:"type:text;not null" json:"delivery_address"`
	Note            string      `gorm:"type:text" json:"note,omitempty"`

	//PROCESSING時にストアが残せる受け取り場所メモ
	PickupNote string `gorm:"type:text" json:"pickup_note,omitempty"`

	PaidAt      *time.Time `json:"paid_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
