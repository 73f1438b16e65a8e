package repository

import (
	"context"

	"marketplace/internal/domain/model"
)

type CartLineRepository interface {
	ListByUserID(ctx context.Context, userID int64) ([]model.CartItem, error)
	FindByUserAndProduct(ctx context.Context, userID int64, productID int64) (model.CartItem, error)

	// (user, product) で一意。qty は上書き値（加算はusecaseで計算して渡す）。
	Upsert(ctx context.Context, userID int64, productID int64, qty int64) error

	// 無い明細の削除も成功扱い（冪等）。
	DeleteByUserAndProduct(ctx context.Context, userID int64, productID int64) error
	DeleteByUserAndProducts(ctx context.Context, userID int64, productIDs []int64) error
	Clear(ctx context.Context, userID int64) error
}
