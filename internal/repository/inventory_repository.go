package repository

import (
	"context"

	"marketplace/internal/domain/model"
)

type InventoryRepository interface {
	// 在庫が足りるときだけ減算（条件付きUPDATE1文、同時購入でも負にならない）。
	// stock IS NULL（無制限）の商品は減算せず成功扱い。
	DecreaseStockIfEnough(ctx context.Context, productID int64, qty int64) (bool, error)

	// 在庫の現在値を設定。newStock=nil で在庫管理なしに切り替える。
	SetStock(ctx context.Context, productID int64, newStock *int64) error

	// 調整履歴作成
	CreateAdjustment(ctx context.Context, adjustment model.InventoryAdjustment) error
}
