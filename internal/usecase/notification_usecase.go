package usecase

import (
	"context"
	"errors"
	"time"

	"marketplace/internal/domain/model"
	repo "marketplace/internal/repository"
)

type NotificationUsecase struct {
	notifRepo repo.NotificationRepository
}

func NewNotificationUsecase(notifRepo repo.NotificationRepository) *NotificationUsecase {
	return &NotificationUsecase{notifRepo: notifRepo}
}

func (u *NotificationUsecase) ListMy(ctx context.Context, userID int64, page int, limit int) ([]model.Notification, error) {
	if userID <= 0 {
		return nil, errUnauthorized()
	}
	if page <= 0 {
		page = 1
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	items, err := u.notifRepo.ListByUserID(ctx, userID, limit, (page-1)*limit)
	if err != nil {
		return nil, errInternal()
	}
	return items, nil
}

// 既読化。他人の通知は存在しない扱い。
func (u *NotificationUsecase) MarkRead(ctx context.Context, userID int64, notificationID int64) error {
	if userID <= 0 {
		return errUnauthorized()
	}
	err := u.notifRepo.MarkRead(ctx, userID, notificationID, time.Now())
	if errors.Is(err, repo.ErrNotFound) {
		return errNotFound("notification not found")
	}
	if err != nil {
		return errInternal()
	}
	return nil
}
