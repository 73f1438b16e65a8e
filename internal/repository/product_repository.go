package repository

import (
	"context"

	"marketplace/internal/domain/model"
)

// 公開一覧の検索条件
type ProductListQuery struct {
	Page     int
	Limit    int
	Q        string
	VendorID *int64
	MinPrice *int64
	MaxPrice *int64
	Sort     string
}

// 管理画面の一覧条件。statusはゼロ値で絞り込みなし。
type ProductAdminFilter struct {
	Page           int
	Limit          int
	VendorID       *int64
	ApprovalStatus model.ApprovalStatus
	PublishStatus  model.PublishStatus
}

// 商品の永続化（保存・取得・審査状態の更新）だけを約束。
type ProductRepository interface {
	//購入可能な商品のみ（publish=ACTIVE / approval=APPROVED / vendor=ACTIVE）
	ListPublic(ctx context.Context, q ProductListQuery) ([]model.Product, int64, error)
	ListByVendorID(ctx context.Context, vendorID int64) ([]model.Product, error)
	ListAdmin(ctx context.Context, f ProductAdminFilter) ([]model.Product, int64, error)
	FindByID(ctx context.Context, id int64) (model.Product, error)

	Create(ctx context.Context, p model.Product) (model.Product, error)
	Update(ctx context.Context, p model.Product) error
	SoftDelete(ctx context.Context, id int64) error

	//審査結果の反映。publishは approval から導いた値を渡す。
	SetModeration(ctx context.Context, productID int64, approval model.ApprovalStatus, publish model.PublishStatus, reason string) error

	//ストア単位の一括反映（却下カスケード・再申請リセット）。reason="" はコメント消去。
	SetModerationByVendorID(ctx context.Context, vendorID int64, approval model.ApprovalStatus, publish model.PublishStatus, reason string) error
}
