package repository

import (
	"context"
	"time"

	"marketplace/internal/domain/model"
)

type NotificationRepository interface {
	Create(ctx context.Context, n model.Notification) error
	ListByUserID(ctx context.Context, userID int64, limit int, offset int) ([]model.Notification, error)
	//本人の通知のみ既読にできる
	MarkRead(ctx context.Context, userID int64, notificationID int64, readAt time.Time) error
}
