package usecase_test

import (
	"context"
	"strings"
	"testing"

	"marketplace/internal/domain/model"
	repo "marketplace/internal/repository"
	"marketplace/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func checkoutInput(vendorID int64) usecase.CheckoutInput {
	return usecase.CheckoutInput{
		VendorID:        vendorID,
		DeliveryAddress: "Jl. Merdeka No.1",
		PaymentMethod:   "COD",
	}
}

// 正常系：対象ストアの明細だけ注文になり、他ストアの明細はカートに残る
func TestOrderUsecase_Checkout_Success(t *testing.T) {
	r := newTxReposStub()
	uc := usecase.NewOrderUsecase(&TxManagerStub{Repos: r})

	vendor := activeVendor(1)
	r.VendorsRepo.On("FindByID", mock.Anything, int64(1)).Return(vendor, nil)

	//カートには2ストア分の明細が入っている
	r.CartRepo.On("ListByUserID", mock.Anything, int64(7)).Return([]model.CartItem{
		{UserID: 7, ProductID: 10, Quantity: 2},
		{UserID: 7, ProductID: 30, Quantity: 1}, //別ストアの商品
	}, nil)
	r.ProductsRepo.On("FindByID", mock.Anything, int64(10)).Return(purchasableProduct(10, 1, 1500, ptrInt64(5)), nil)
	r.ProductsRepo.On("FindByID", mock.Anything, int64(30)).Return(purchasableProduct(30, 2, 9000, nil), nil)

	r.InvRepo.On("DecreaseStockIfEnough", mock.Anything, int64(10), int64(2)).Return(true, nil)
	r.OrdersRepo.On("Create", mock.Anything, mock.MatchedBy(func(o model.Order) bool {
		return o.UserID == 7 &&
			o.VendorID == 1 &&
			o.Status == model.OrderStatusPending &&
			o.TotalPrice == 3000 &&
			strings.HasPrefix(o.Reference, "ORD-")
	})).Return(int64(55), nil)
	r.ItemsRepo.On("CreateBulk", mock.Anything, int64(55), mock.MatchedBy(func(items []model.OrderItem) bool {
		return len(items) == 1 &&
			items[0].ProductID == 10 &&
			items[0].UnitPriceSnapshot == 1500 &&
			items[0].Quantity == 2 &&
			items[0].Subtotal == 3000
	})).Return(nil)
	//このストア分だけカートから消える
	r.CartRepo.On("DeleteByUserAndProducts", mock.Anything, int64(7), []int64{10}).Return(nil)
	r.NotifRepo.On("Create", mock.Anything, mock.MatchedBy(func(n model.Notification) bool {
		return n.UserID == vendor.UserID
	})).Return(nil)

	out, err := uc.Checkout(context.Background(), 7, checkoutInput(1))

	assert.NoError(t, err)
	assert.Equal(t, int64(55), out.ID)
	assert.Equal(t, "PENDING", out.Status)
	assert.Equal(t, int64(3000), out.TotalPrice)
	r.OrdersRepo.AssertExpectations(t)
	r.ItemsRepo.AssertExpectations(t)
	r.CartRepo.AssertExpectations(t)
}

// 対象ストアの明細がカートに無ければEMPTY_SELECTION
func TestOrderUsecase_Checkout_EmptySelection(t *testing.T) {
	r := newTxReposStub()
	uc := usecase.NewOrderUsecase(&TxManagerStub{Repos: r})

	r.VendorsRepo.On("FindByID", mock.Anything, int64(1)).Return(activeVendor(1), nil)
	r.CartRepo.On("ListByUserID", mock.Anything, int64(7)).Return([]model.CartItem{
		{UserID: 7, ProductID: 30, Quantity: 1}, //別ストアのみ
	}, nil)
	r.ProductsRepo.On("FindByID", mock.Anything, int64(30)).Return(purchasableProduct(30, 2, 9000, nil), nil)

	_, err := uc.Checkout(context.Background(), 7, checkoutInput(1))

	assertKind(t, err, usecase.KindEmptySelection)
}

// 在庫減算が失敗したらINSUFFICIENT_STOCKで全体が失敗する（注文は作られない）
func TestOrderUsecase_Checkout_InsufficientStock(t *testing.T) {
	r := newTxReposStub()
	uc := usecase.NewOrderUsecase(&TxManagerStub{Repos: r})

	r.VendorsRepo.On("FindByID", mock.Anything, int64(1)).Return(activeVendor(1), nil)
	r.CartRepo.On("ListByUserID", mock.Anything, int64(7)).Return([]model.CartItem{
		{UserID: 7, ProductID: 10, Quantity: 9},
	}, nil)
	r.ProductsRepo.On("FindByID", mock.Anything, int64(10)).Return(purchasableProduct(10, 1, 1500, ptrInt64(5)), nil)
	r.InvRepo.On("DecreaseStockIfEnough", mock.Anything, int64(10), int64(9)).Return(false, nil)

	_, err := uc.Checkout(context.Background(), 7, checkoutInput(1))

	assertKind(t, err, usecase.KindInsufficientStock)
	r.OrdersRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	r.CartRepo.AssertNotCalled(t, "DeleteByUserAndProducts", mock.Anything, mock.Anything, mock.Anything)
}

// 確定時に商品が購入不能になっていたら弾く
func TestOrderUsecase_Checkout_ProductNoLongerAvailable(t *testing.T) {
	r := newTxReposStub()
	uc := usecase.NewOrderUsecase(&TxManagerStub{Repos: r})

	p := purchasableProduct(10, 1, 1500, ptrInt64(5))
	p.PublishStatus = model.PublishStatusInactive

	r.VendorsRepo.On("FindByID", mock.Anything, int64(1)).Return(activeVendor(1), nil)
	r.CartRepo.On("ListByUserID", mock.Anything, int64(7)).Return([]model.CartItem{
		{UserID: 7, ProductID: 10, Quantity: 1},
	}, nil)
	r.ProductsRepo.On("FindByID", mock.Anything, int64(10)).Return(p, nil)

	_, err := uc.Checkout(context.Background(), 7, checkoutInput(1))

	assertKind(t, err, usecase.KindValidationFailed)
	r.InvRepo.AssertNotCalled(t, "DecreaseStockIfEnough", mock.Anything, mock.Anything, mock.Anything)
}

func TestOrderUsecase_Checkout_MissingAddress(t *testing.T) {
	uc := usecase.NewOrderUsecase(&TxManagerStub{Repos: newTxReposStub()})

	in := checkoutInput(1)
	in.DeliveryAddress = "  "
	_, err := uc.Checkout(context.Background(), 7, in)

	assertKind(t, err, usecase.KindValidationFailed)
}

// 他人の注文は「存在しない扱い」
func TestOrderUsecase_UpdateStatus_OthersOrderIsNotFound(t *testing.T) {
	r := newTxReposStub()
	uc := usecase.NewOrderUsecase(&TxManagerStub{Repos: r})

	r.OrdersRepo.On("FindByID", mock.Anything, int64(55)).Return(model.Order{
		ID: 55, UserID: 8, VendorID: 1, Status: model.OrderStatusPending,
	}, nil)

	_, err := uc.UpdateStatus(context.Background(), 7, 55, usecase.CustomerUpdateOrderStatusInput{Status: "PAID"})

	assertKind(t, err, usecase.KindNotFound)
}

// 遷移表にない組はINVALID_TRANSITION
func TestOrderUsecase_UpdateStatus_InvalidTransition(t *testing.T) {
	r := newTxReposStub()
	uc := usecase.NewOrderUsecase(&TxManagerStub{Repos: r})

	r.OrdersRepo.On("FindByID", mock.Anything, int64(55)).Return(model.Order{
		ID: 55, UserID: 7, VendorID: 1, Status: model.OrderStatusCancelled,
	}, nil)

	_, err := uc.UpdateStatus(context.Background(), 7, 55, usecase.CustomerUpdateOrderStatusInput{Status: "PAID"})

	assertKind(t, err, usecase.KindInvalidTransition)
	r.OrdersRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// 支払いでPaidAtが刻まれる。キャンセルしても在庫は戻さない。
func TestOrderUsecase_UpdateStatus_PaidStampsTimestamp(t *testing.T) {
	r := newTxReposStub()
	uc := usecase.NewOrderUsecase(&TxManagerStub{Repos: r})

	r.OrdersRepo.On("FindByID", mock.Anything, int64(55)).Return(model.Order{
		ID: 55, UserID: 7, VendorID: 1, Status: model.OrderStatusPending, Reference: "ORD-ABC",
	}, nil)
	r.OrdersRepo.On("UpdateStatus", mock.Anything, int64(55), model.OrderStatusPaid,
		mock.MatchedBy(func(s repo.StatusStamps) bool {
			return s.PaidAt != nil && s.CompletedAt == nil
		})).Return(nil)
	r.VendorsRepo.On("FindByID", mock.Anything, int64(1)).Return(activeVendor(1), nil)
	r.NotifRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	r.ItemsRepo.On("ListByOrderID", mock.Anything, int64(55)).Return([]model.OrderItem{}, nil)

	out, err := uc.UpdateStatus(context.Background(), 7, 55, usecase.CustomerUpdateOrderStatusInput{Status: "PAID"})

	assert.NoError(t, err)
	assert.Equal(t, "PAID", out.Status)
	assert.NotNil(t, out.PaidAt)
	r.InvRepo.AssertNotCalled(t, "SetStock", mock.Anything, mock.Anything, mock.Anything)
}

func TestOrderUsecase_UpdateStatus_CancelDoesNotRestock(t *testing.T) {
	r := newTxReposStub()
	uc := usecase.NewOrderUsecase(&TxManagerStub{Repos: r})

	r.OrdersRepo.On("FindByID", mock.Anything, int64(55)).Return(model.Order{
		ID: 55, UserID: 7, VendorID: 1, Status: model.OrderStatusPaid, Reference: "ORD-ABC",
	}, nil)
	r.OrdersRepo.On("UpdateStatus", mock.Anything, int64(55), model.OrderStatusCancelled,
		mock.MatchedBy(func(s repo.StatusStamps) bool {
			return s.PaidAt == nil && s.CompletedAt == nil
		})).Return(nil)
	r.VendorsRepo.On("FindByID", mock.Anything, int64(1)).Return(activeVendor(1), nil)
	r.NotifRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	r.ItemsRepo.On("ListByOrderID", mock.Anything, int64(55)).Return([]model.OrderItem{}, nil)

	out, err := uc.UpdateStatus(context.Background(), 7, 55, usecase.CustomerUpdateOrderStatusInput{Status: "CANCELLED"})

	assert.NoError(t, err)
	assert.Equal(t, "CANCELLED", out.Status)
	//キャンセルは在庫に一切触らない
	r.InvRepo.AssertNotCalled(t, "DecreaseStockIfEnough", mock.Anything, mock.Anything, mock.Anything)
	r.InvRepo.AssertNotCalled(t, "SetStock", mock.Anything, mock.Anything, mock.Anything)
}

// 明細スナップショットは注文詳細にそのまま出る（後から商品価格が変わっても不変）
func TestOrderUsecase_GetMyOrderDetail_UsesSnapshots(t *testing.T) {
	r := newTxReposStub()
	uc := usecase.NewOrderUsecase(&TxManagerStub{Repos: r})

	r.OrdersRepo.On("FindByID", mock.Anything, int64(55)).Return(model.Order{
		ID: 55, UserID: 7, VendorID: 1, Status: model.OrderStatusPaid, TotalPrice: 3000,
	}, nil)
	r.ItemsRepo.On("ListByOrderID", mock.Anything, int64(55)).Return([]model.OrderItem{
		{OrderID: 55, ProductID: 10, ProductNameSnapshot: "当時の名前", UnitPriceSnapshot: 1500, Quantity: 2, Subtotal: 3000},
	}, nil)

	out, err := uc.GetMyOrderDetail(context.Background(), 7, 55)

	assert.NoError(t, err)
	if assert.Len(t, out.Items, 1) {
		assert.Equal(t, "当時の名前", out.Items[0].Name)
		assert.Equal(t, int64(1500), out.Items[0].Price)
	}
}
