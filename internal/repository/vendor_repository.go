package repository

import (
	"context"

	"marketplace/internal/domain/model"
)

type VendorListFilter struct {
	Page   int
	Limit  int
	Status string
}

type VendorRepository interface {
	Create(ctx context.Context, v model.Vendor) (model.Vendor, error)
	FindByID(ctx context.Context, id int64) (model.Vendor, error)
	FindByUserID(ctx context.Context, userID int64) (model.Vendor, error)

	Update(ctx context.Context, v model.Vendor) error

	//ステータス更新。reason="" はコメント消去。
	UpdateStatus(ctx context.Context, vendorID int64, status model.VendorStatus, reason string) error

	ListAdmin(ctx context.Context, f VendorListFilter) ([]model.Vendor, int64, error)
}
