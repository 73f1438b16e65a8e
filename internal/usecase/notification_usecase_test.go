package usecase_test

import (
	"context"
	"testing"

	"marketplace/internal/domain/model"
	repo "marketplace/internal/repository"
	"marketplace/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestNotificationUsecase_ListMy_DefaultsPaging(t *testing.T) {
	notifs := new(NotificationRepoMock)
	uc := usecase.NewNotificationUsecase(notifs)

	notifs.On("ListByUserID", mock.Anything, int64(7), 20, 0).Return([]model.Notification{
		{ID: 1, UserID: 7, Title: "お知らせ"},
	}, nil)

	items, err := uc.ListMy(context.Background(), 7, 0, 0)

	assert.NoError(t, err)
	assert.Len(t, items, 1)
	notifs.AssertExpectations(t)
}

func TestNotificationUsecase_ListMy_OffsetFromPage(t *testing.T) {
	notifs := new(NotificationRepoMock)
	uc := usecase.NewNotificationUsecase(notifs)

	notifs.On("ListByUserID", mock.Anything, int64(7), 10, 20).Return([]model.Notification{}, nil)

	_, err := uc.ListMy(context.Background(), 7, 3, 10)

	assert.NoError(t, err)
	notifs.AssertExpectations(t)
}

// 他人の通知は存在しない扱い
func TestNotificationUsecase_MarkRead_OthersNotificationIsNotFound(t *testing.T) {
	notifs := new(NotificationRepoMock)
	uc := usecase.NewNotificationUsecase(notifs)

	notifs.On("MarkRead", mock.Anything, int64(7), int64(5), mock.Anything).Return(repo.ErrNotFound)

	err := uc.MarkRead(context.Background(), 7, 5)

	assertKind(t, err, usecase.KindNotFound)
}
