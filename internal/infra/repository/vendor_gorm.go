package repository

import (
	"context"
	"errors"

	"marketplace/internal/domain/model"
	repo "marketplace/internal/repository"

	"gorm.io/gorm"
)

type VendorGormRepository struct {
	db *gorm.DB
}

func NewVendorGormRepository(db *gorm.DB) *VendorGormRepository {
	return &VendorGormRepository{db: db}
}

func (r *VendorGormRepository) Create(ctx context.Context, v model.Vendor) (model.Vendor, error) {
	if err := r.db.WithContext(ctx).Create(&v).Error; err != nil {
		return model.Vendor{}, err
	}
	return v, nil
}

func (r *VendorGormRepository) FindByID(ctx context.Context, id int64) (model.Vendor, error) {
	var v model.Vendor
	err := r.db.WithContext(ctx).First(&v, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Vendor{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Vendor{}, err
	}
	return v, nil
}

func (r *VendorGormRepository) FindByUserID(ctx context.Context, userID int64) (model.Vendor, error) {
	var v model.Vendor
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&v).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Vendor{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Vendor{}, err
	}
	return v, nil
}

func (r *VendorGormRepository) Update(ctx context.Context, v model.Vendor) error {
	return r.db.WithContext(ctx).Save(&v).Error
}

// ステータス更新。rejected以外は理由を消す。
func (r *VendorGormRepository) UpdateStatus(ctx context.Context, vendorID int64, status model.VendorStatus, reason string) error {
	if status != model.VendorStatusRejected {
		reason = ""
	}
	res := r.db.WithContext(ctx).Model(&model.Vendor{}).
		Where("id = ?", vendorID).
		Updates(map[string]interface{}{
			"status":           status,
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

func (r *VendorGormRepository) ListAdmin(ctx context.Context, f repo.VendorListFilter) ([]model.Vendor, int64, error) {
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.Limit <= 0 || f.Limit > 100 {
		f.Limit = 50
	}

	q := r.db.WithContext(ctx).Model(&model.Vendor{})
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return []model.Vendor{}, 0, err
	}

	var items []model.Vendor
	offset := (f.Page - 1) * f.Limit
	if err := q.Order("id desc").Limit(f.Limit).Offset(offset).Find(&items).Error; err != nil {
		return []model.Vendor{}, 0, err
	}

	return items, total, nil
}
