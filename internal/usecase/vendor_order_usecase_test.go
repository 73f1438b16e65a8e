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

func newVendorOrderUsecase(r *TxReposStub) *usecase.VendorOrderUsecase {
	return usecase.NewVendorOrderUsecase(&TxManagerStub{Repos: r}, r.VendorsRepo)
}

func TestVendorOrderUsecase_UpdateStatus_NotAVendor(t *testing.T) {
	r := newTxReposStub()
	uc := newVendorOrderUsecase(r)

	r.VendorsRepo.On("FindByUserID", mock.Anything, int64(7)).Return(model.Vendor{}, repo.ErrNotFound)

	_, err := uc.UpdateStatus(context.Background(), 7, 55, usecase.VendorUpdateOrderStatusInput{Status: "PROCESSING"})

	assertKind(t, err, usecase.KindForbidden)
}

// 他ストアの注文は操作できない
func TestVendorOrderUsecase_UpdateStatus_ForeignOrderIsForbidden(t *testing.T) {
	r := newTxReposStub()
	uc := newVendorOrderUsecase(r)

	r.VendorsRepo.On("FindByUserID", mock.Anything, int64(7)).Return(activeVendor(1), nil)
	r.OrdersRepo.On("FindByID", mock.Anything, int64(55)).Return(model.Order{
		ID: 55, UserID: 8, VendorID: 2, Status: model.OrderStatusPaid,
	}, nil)

	_, err := uc.UpdateStatus(context.Background(), 7, 55, usecase.VendorUpdateOrderStatusInput{Status: "PROCESSING"})

	assertKind(t, err, usecase.KindForbidden)
	r.OrdersRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// ストアが設定できるのは PROCESSING/SHIPPED/COMPLETED/CANCELLED のみ
func TestVendorOrderUsecase_UpdateStatus_PaidIsNotVendorSettable(t *testing.T) {
	r := newTxReposStub()
	uc := newVendorOrderUsecase(r)

	r.VendorsRepo.On("FindByUserID", mock.Anything, int64(7)).Return(activeVendor(1), nil)
	r.OrdersRepo.On("FindByID", mock.Anything, int64(55)).Return(model.Order{
		ID: 55, UserID: 8, VendorID: 1, Status: model.OrderStatusPending,
	}, nil)

	_, err := uc.UpdateStatus(context.Background(), 7, 55, usecase.VendorUpdateOrderStatusInput{Status: "PAID"})

	assertKind(t, err, usecase.KindInvalidTransition)
}

// PROCESSINGでは受け取り場所メモが保存され、購入者へ通知が飛ぶ
func TestVendorOrderUsecase_UpdateStatus_ProcessingStoresPickupNote(t *testing.T) {
	r := newTxReposStub()
	uc := newVendorOrderUsecase(r)

	r.VendorsRepo.On("FindByUserID", mock.Anything, int64(7)).Return(activeVendor(1), nil)
	r.OrdersRepo.On("FindByID", mock.Anything, int64(55)).Return(model.Order{
		ID: 55, UserID: 8, VendorID: 1, Status: model.OrderStatusPaid, Reference: "ORD-ABC",
	}, nil)
	r.OrdersRepo.On("UpdateStatus", mock.Anything, int64(55), model.OrderStatusProcessing,
		mock.MatchedBy(func(s repo.StatusStamps) bool {
			return s.PickupNote != nil && *s.PickupNote == "市場の南口で受け渡し"
		})).Return(nil)
	r.NotifRepo.On("Create", mock.Anything, mock.MatchedBy(func(n model.Notification) bool {
		return n.UserID == 8
	})).Return(nil)
	r.ItemsRepo.On("ListByOrderID", mock.Anything, int64(55)).Return([]model.OrderItem{}, nil)

	out, err := uc.UpdateStatus(context.Background(), 7, 55, usecase.VendorUpdateOrderStatusInput{
		Status:     "PROCESSING",
		PickupNote: " 市場の南口で受け渡し ",
	})

	assert.NoError(t, err)
	assert.Equal(t, "PROCESSING", out.Status)
	assert.Equal(t, "市場の南口で受け渡し", out.PickupNote)
	r.NotifRepo.AssertExpectations(t)
}

// COMPLETEDでCompletedAtが刻まれる
func TestVendorOrderUsecase_UpdateStatus_CompletedStampsTimestamp(t *testing.T) {
	r := newTxReposStub()
	uc := newVendorOrderUsecase(r)

	r.VendorsRepo.On("FindByUserID", mock.Anything, int64(7)).Return(activeVendor(1), nil)
	r.OrdersRepo.On("FindByID", mock.Anything, int64(55)).Return(model.Order{
		ID: 55, UserID: 8, VendorID: 1, Status: model.OrderStatusShipped, Reference: "ORD-ABC",
	}, nil)
	r.OrdersRepo.On("UpdateStatus", mock.Anything, int64(55), model.OrderStatusCompleted,
		mock.MatchedBy(func(s repo.StatusStamps) bool {
			return s.CompletedAt != nil
		})).Return(nil)
	r.NotifRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	r.ItemsRepo.On("ListByOrderID", mock.Anything, int64(55)).Return([]model.OrderItem{}, nil)

	out, err := uc.UpdateStatus(context.Background(), 7, 55, usecase.VendorUpdateOrderStatusInput{Status: "COMPLETED"})

	assert.NoError(t, err)
	assert.NotNil(t, out.CompletedAt)
}

func TestVendorOrderUsecase_List_NotAVendor(t *testing.T) {
	r := newTxReposStub()
	uc := newVendorOrderUsecase(r)

	r.VendorsRepo.On("FindByUserID", mock.Anything, int64(7)).Return(model.Vendor{}, repo.ErrNotFound)

	_, err := uc.List(context.Background(), 7, 1, 20)

	assertKind(t, err, usecase.KindForbidden)
}
