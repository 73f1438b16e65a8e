package repository

import (
	"context"
	"errors"

	"marketplace/internal/domain/model"
	repo "marketplace/internal/repository"

	"gorm.io/gorm"
)

type EventGormRepository struct {
	db *gorm.DB
}

func NewEventGormRepository(db *gorm.DB) *EventGormRepository {
	return &EventGormRepository{db: db}
}

func (r *EventGormRepository) Create(ctx context.Context, ev model.Event) (model.Event, error) {
	if err := r.db.WithContext(ctx).Create(&ev).Error; err != nil {
		return model.Event{}, err
	}
	return ev, nil
}

func (r *EventGormRepository) FindByID(ctx context.Context, id int64) (model.Event, error) {
	var ev model.Event
	err := r.db.WithContext(ctx).First(&ev, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Event{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Event{}, err
	}
	return ev, nil
}

func (r *EventGormRepository) List(ctx context.Context, page int, limit int) ([]model.Event, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	var total int64
	if err := r.db.WithContext(ctx).Model(&model.Event{}).Count(&total).Error; err != nil {
		return []model.Event{}, 0, err
	}

	var items []model.Event
	offset := (page - 1) * limit
	err := r.db.WithContext(ctx).
		Order("starts_at desc").
		Limit(limit).
		Offset(offset).
		Find(&items).Error
	if err != nil {
		return []model.Event{}, 0, err
	}
	return items, total, nil
}

type EventRegistrationGormRepository struct {
	db *gorm.DB
}

func NewEventRegistrationGormRepository(db *gorm.DB) *EventRegistrationGormRepository {
	return &EventRegistrationGormRepository{db: db}
}

func (r *EventRegistrationGormRepository) Create(ctx context.Context, reg model.EventRegistration) (model.EventRegistration, error) {
	if err := r.db.WithContext(ctx).Create(&reg).Error; err != nil {
		return model.EventRegistration{}, err
	}
	return reg, nil
}

func (r *EventRegistrationGormRepository) FindByID(ctx context.Context, id int64) (model.EventRegistration, error) {
	var reg model.EventRegistration
	err := r.db.WithContext(ctx).First(&reg, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.EventRegistration{}, repo.ErrNotFound
	}
	if err != nil {
		return model.EventRegistration{}, err
	}
	return reg, nil
}

func (r *EventRegistrationGormRepository) FindByEventAndVendor(ctx context.Context, eventID int64, vendorID int64) (model.EventRegistration, bool, error) {
	var reg model.EventRegistration
	err := r.db.WithContext(ctx).
		Where("event_id = ? AND vendor_id = ?", eventID, vendorID).
		First(&reg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.EventRegistration{}, false, nil
	}
	if err != nil {
		return model.EventRegistration{}, false, err
	}
	return reg, true, nil
}

func (r *EventRegistrationGormRepository) ListByEventID(ctx context.Context, eventID int64) ([]model.EventRegistration, error) {
	var regs []model.EventRegistration
	err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("id asc").
		Find(&regs).Error
	if err != nil {
		return []model.EventRegistration{}, err
	}
	return regs, nil
}

func (r *EventRegistrationGormRepository) UpdateStatus(ctx context.Context, id int64, status model.RegistrationStatus, reason string) error {
	if status != model.RegistrationStatusRejected {
		reason = ""
	}
	res := r.db.WithContext(ctx).Model(&model.EventRegistration{}).
		Where("id = ?", id).
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
