package repository

import (
	"context"
	"errors"
	"strings"

	"marketplace/internal/domain/model"
	repo "marketplace/internal/repository"

	"gorm.io/gorm"
)

type ProductGormRepository struct {
	db *gorm.DB
}

// DI
func NewProductGormRepository(db *gorm.DB) *ProductGormRepository {
	return &ProductGormRepository{db: db}
}

// 購入可能な商品のみを、検索/価格帯/ソート/ページング付きで返す。
// ストアがACTIVEでない商品はここで落ちる（公開の門番はvendor.status）。
func (r *ProductGormRepository) ListPublic(ctx context.Context, q repo.ProductListQuery) ([]model.Product, int64, error) {
	var products []model.Product
	var total int64

	tx := r.db.WithContext(ctx).Model(&model.Product{}).
		Joins("JOIN vendors ON vendors.id = products.vendor_id AND vendors.status = ?", model.VendorStatusActive).
		Where("products.publish_status = ?", model.PublishStatusActive).
		Where("products.approval_status = ?", model.ApprovalStatusApproved)

	if strings.TrimSpace(q.Q) != "" {
		like := "%" + strings.TrimSpace(q.Q) + "%"
		tx = tx.Where("products.name ILIKE ?", like)
	}

	if q.VendorID != nil {
		tx = tx.Where("products.vendor_id = ?", *q.VendorID)
	}

	//価格帯
	if q.MinPrice != nil {
		tx = tx.Where("products.price >= ?", *q.MinPrice)
	}
	if q.MaxPrice != nil {
		tx = tx.Where("products.price <= ?", *q.MaxPrice)
	}

	if err := tx.Count(&total).Error; err != nil {
		return []model.Product{}, 0, err
	}

	switch q.Sort {
	case "price_asc":
		tx = tx.Order("products.price asc").Order("products.id asc")
	case "price_desc":
		tx = tx.Order("products.price desc").Order("products.id desc")
	default:
		tx = tx.Order("products.created_at desc").Order("products.id desc")
	}

	offset := (q.Page - 1) * q.Limit
	if err := tx.Offset(offset).Limit(q.Limit).Find(&products).Error; err != nil {
		return []model.Product{}, 0, err
	}

	return products, total, nil
}

func (r *ProductGormRepository) ListByVendorID(ctx context.Context, vendorID int64) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).
		Where("vendor_id = ?", vendorID).
		Order("id asc").
		Find(&products).Error
	if err != nil {
		return []model.Product{}, err
	}
	return products, nil
}

// 管理画面用の一覧。公開状態に関係なく全商品を対象にする。
func (r *ProductGormRepository) ListAdmin(ctx context.Context, f repo.ProductAdminFilter) ([]model.Product, int64, error) {
	var products []model.Product
	var total int64

	tx := r.db.WithContext(ctx).Model(&model.Product{})

	if f.VendorID != nil {
		tx = tx.Where("vendor_id = ?", *f.VendorID)
	}
	if f.ApprovalStatus != "" {
		tx = tx.Where("approval_status = ?", f.ApprovalStatus)
	}
	if f.PublishStatus != "" {
		tx = tx.Where("publish_status = ?", f.PublishStatus)
	}

	if err := tx.Count(&total).Error; err != nil {
		return []model.Product{}, 0, err
	}

	offset := (f.Page - 1) * f.Limit
	err := tx.Order("id desc").Offset(offset).Limit(f.Limit).Find(&products).Error
	if err != nil {
		return []model.Product{}, 0, err
	}
	return products, total, nil
}

func (r *ProductGormRepository) FindByID(ctx context.Context, id int64) (model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).First(&p, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Product{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Product{}, err
	}
	return p, nil
}

func (r *ProductGormRepository) Create(ctx context.Context, p model.Product) (model.Product, error) {
	if err := r.db.WithContext(ctx).Create(&p).Error; err != nil {
		return model.Product{}, err
	}
	return p, nil
}

func (r *ProductGormRepository) Update(ctx context.Context, p model.Product) error {
	res := r.db.WithContext(ctx).Model(&model.Product{}).Where("id = ?", p.ID).Updates(map[string]interface{}{
		"name":        p.Name,
		"description": p.Description,
		"price":       p.Price,
		"stock":       p.Stock,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *ProductGormRepository) SoftDelete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&model.Product{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 審査結果の反映。却下理由は rejected のときだけ残し、それ以外は消す。
func (r *ProductGormRepository) SetModeration(ctx context.Context, productID int64, approval model.ApprovalStatus, publish model.PublishStatus, reason string) error {
	if approval != model.ApprovalStatusRejected {
		reason = ""
	}
	res := r.db.WithContext(ctx).Model(&model.Product{}).
		Where("id = ?", productID).
		Updates(map[string]interface{}{
			"approval_status":  approval,
			"publish_status":   publish,
			"rejection_reason": reason,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// ストア配下の全商品への一括反映（却下カスケード・再申請リセット）。
// 対象0件でもエラーにしない（商品を持たないストアもある）。
func (r *ProductGormRepository) SetModerationByVendorID(ctx context.Context, vendorID int64, approval model.ApprovalStatus, publish model.PublishStatus, reason string) error {
	if approval != model.ApprovalStatusRejected {
		reason = ""
	}
	res := r.db.WithContext(ctx).Model(&model.Product{}).
		Where("vendor_id = ?", vendorID).
		Updates(map[string]interface{}{
			"approval_status":  approval,
			"publish_status":   publish,
			"rejection_reason": reason,
		})
	return res.Error
}
