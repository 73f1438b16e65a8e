package usecase_test

import (
	"context"
	"testing"
	"time"

	"marketplace/internal/domain/model"
	repo "marketplace/internal/repository"
	"marketplace/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// AppErrorのkindを確認する共通ヘルパ
func assertKind(t *testing.T, err error, kind string) {
	t.Helper()
	ae, ok := usecase.AsAppError(err)
	if assert.True(t, ok, "expected AppError, got %v", err) {
		assert.Equal(t, kind, ae.Kind)
	}
}

func ptrInt64(v int64) *int64 { return &v }

// =====================
// Repository mocks
// =====================

type ProductRepoMock struct{ mock.Mock }

func (m *ProductRepoMock) ListPublic(ctx context.Context, q repo.ProductListQuery) ([]model.Product, int64, error) {
	args := m.Called(ctx, q)
	items, _ := args.Get(0).([]model.Product)
	return items, args.Get(1).(int64), args.Error(2)
}

func (m *ProductRepoMock) ListAdmin(ctx context.Context, f repo.ProductAdminFilter) ([]model.Product, int64, error) {
	args := m.Called(ctx, f)
	items, _ := args.Get(0).([]model.Product)
	return items, args.Get(1).(int64), args.Error(2)
}

func (m *ProductRepoMock) ListByVendorID(ctx context.Context, vendorID int64) ([]model.Product, error) {
	args := m.Called(ctx, vendorID)
	items, _ := args.Get(0).([]model.Product)
	return items, args.Error(1)
}

func (m *ProductRepoMock) FindByID(ctx context.Context, id int64) (model.Product, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(model.Product)
	return p, args.Error(1)
}

func (m *ProductRepoMock) Create(ctx context.Context, p model.Product) (model.Product, error) {
	args := m.Called(ctx, p)
	created, _ := args.Get(0).(model.Product)
	return created, args.Error(1)
}

func (m *ProductRepoMock) Update(ctx context.Context, p model.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *ProductRepoMock) SoftDelete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *ProductRepoMock) SetModeration(ctx context.Context, productID int64, approval model.ApprovalStatus, publish model.PublishStatus, reason string) error {
	args := m.Called(ctx, productID, approval, publish, reason)
	return args.Error(0)
}

func (m *ProductRepoMock) SetModerationByVendorID(ctx context.Context, vendorID int64, approval model.ApprovalStatus, publish model.PublishStatus, reason string) error {
	args := m.Called(ctx, vendorID, approval, publish, reason)
	return args.Error(0)
}

type VendorRepoMock struct{ mock.Mock }

func (m *VendorRepoMock) Create(ctx context.Context, v model.Vendor) (model.Vendor, error) {
	args := m.Called(ctx, v)
	created, _ := args.Get(0).(model.Vendor)
	return created, args.Error(1)
}

func (m *VendorRepoMock) FindByID(ctx context.Context, id int64) (model.Vendor, error) {
	args := m.Called(ctx, id)
	v, _ := args.Get(0).(model.Vendor)
	return v, args.Error(1)
}

func (m *VendorRepoMock) FindByUserID(ctx context.Context, userID int64) (model.Vendor, error) {
	args := m.Called(ctx, userID)
	v, _ := args.Get(0).(model.Vendor)
	return v, args.Error(1)
}

func (m *VendorRepoMock) Update(ctx context.Context, v model.Vendor) error {
	args := m.Called(ctx, v)
	return args.Error(0)
}

func (m *VendorRepoMock) UpdateStatus(ctx context.Context, vendorID int64, status model.VendorStatus, reason string) error {
	args := m.Called(ctx, vendorID, status, reason)
	return args.Error(0)
}

func (m *VendorRepoMock) ListAdmin(ctx context.Context, f repo.VendorListFilter) ([]model.Vendor, int64, error) {
	args := m.Called(ctx, f)
	items, _ := args.Get(0).([]model.Vendor)
	return items, args.Get(1).(int64), args.Error(2)
}

type CartRepoMock struct{ mock.Mock }

func (m *CartRepoMock) ListByUserID(ctx context.Context, userID int64) ([]model.CartItem, error) {
	args := m.Called(ctx, userID)
	items, _ := args.Get(0).([]model.CartItem)
	return items, args.Error(1)
}

func (m *CartRepoMock) FindByUserAndProduct(ctx context.Context, userID int64, productID int64) (model.CartItem, error) {
	args := m.Called(ctx, userID, productID)
	line, _ := args.Get(0).(model.CartItem)
	return line, args.Error(1)
}

func (m *CartRepoMock) Upsert(ctx context.Context, userID int64, productID int64, qty int64) error {
	args := m.Called(ctx, userID, productID, qty)
	return args.Error(0)
}

func (m *CartRepoMock) DeleteByUserAndProduct(ctx context.Context, userID int64, productID int64) error {
	args := m.Called(ctx, userID, productID)
	return args.Error(0)
}

func (m *CartRepoMock) DeleteByUserAndProducts(ctx context.Context, userID int64, productIDs []int64) error {
	args := m.Called(ctx, userID, productIDs)
	return args.Error(0)
}

func (m *CartRepoMock) Clear(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

type InventoryRepoMock struct{ mock.Mock }

func (m *InventoryRepoMock) DecreaseStockIfEnough(ctx context.Context, productID int64, qty int64) (bool, error) {
	args := m.Called(ctx, productID, qty)
	return args.Bool(0), args.Error(1)
}

func (m *InventoryRepoMock) SetStock(ctx context.Context, productID int64, newStock *int64) error {
	args := m.Called(ctx, productID, newStock)
	return args.Error(0)
}

func (m *InventoryRepoMock) CreateAdjustment(ctx context.Context, adjustment model.InventoryAdjustment) error {
	args := m.Called(ctx, adjustment)
	return args.Error(0)
}

type OrderRepoMock struct{ mock.Mock }

func (m *OrderRepoMock) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	args := m.Called(ctx, orderID)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

func (m *OrderRepoMock) ListByUserID(ctx context.Context, userID int64, page int, limit int) ([]model.Order, int64, error) {
	args := m.Called(ctx, userID, page, limit)
	items, _ := args.Get(0).([]model.Order)
	return items, args.Get(1).(int64), args.Error(2)
}

func (m *OrderRepoMock) ListByVendorID(ctx context.Context, vendorID int64, page int, limit int) ([]model.Order, int64, error) {
	args := m.Called(ctx, vendorID, page, limit)
	items, _ := args.Get(0).([]model.Order)
	return items, args.Get(1).(int64), args.Error(2)
}

func (m *OrderRepoMock) Create(ctx context.Context, order model.Order) (int64, error) {
	args := m.Called(ctx, order)
	return args.Get(0).(int64), args.Error(1)
}

func (m *OrderRepoMock) UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus, stamps repo.StatusStamps) error {
	args := m.Called(ctx, orderID, status, stamps)
	return args.Error(0)
}

func (m *OrderRepoMock) ListAdmin(ctx context.Context, f repo.AdminOrderListFilter) ([]model.Order, int64, error) {
	args := m.Called(ctx, f)
	items, _ := args.Get(0).([]model.Order)
	return items, args.Get(1).(int64), args.Error(2)
}

type OrderItemRepoMock struct{ mock.Mock }

func (m *OrderItemRepoMock) CreateBulk(ctx context.Context, orderID int64, items []model.OrderItem) error {
	args := m.Called(ctx, orderID, items)
	return args.Error(0)
}

func (m *OrderItemRepoMock) ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error) {
	args := m.Called(ctx, orderID)
	items, _ := args.Get(0).([]model.OrderItem)
	return items, args.Error(1)
}

type NotificationRepoMock struct{ mock.Mock }

func (m *NotificationRepoMock) Create(ctx context.Context, n model.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func (m *NotificationRepoMock) ListByUserID(ctx context.Context, userID int64, limit int, offset int) ([]model.Notification, error) {
	args := m.Called(ctx, userID, limit, offset)
	items, _ := args.Get(0).([]model.Notification)
	return items, args.Error(1)
}

func (m *NotificationRepoMock) MarkRead(ctx context.Context, userID int64, notificationID int64, readAt time.Time) error {
	args := m.Called(ctx, userID, notificationID, readAt)
	return args.Error(0)
}

type AuditRepoMock struct{ mock.Mock }

func (m *AuditRepoMock) Create(ctx context.Context, log model.AuditLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *AuditRepoMock) List(ctx context.Context, filter repo.AuditLogFilter) ([]model.AuditLog, error) {
	args := m.Called(ctx, filter)
	items, _ := args.Get(0).([]model.AuditLog)
	return items, args.Error(1)
}

type EventRegRepoMock struct{ mock.Mock }

func (m *EventRegRepoMock) Create(ctx context.Context, reg model.EventRegistration) (model.EventRegistration, error) {
	args := m.Called(ctx, reg)
	created, _ := args.Get(0).(model.EventRegistration)
	return created, args.Error(1)
}

func (m *EventRegRepoMock) FindByID(ctx context.Context, id int64) (model.EventRegistration, error) {
	args := m.Called(ctx, id)
	reg, _ := args.Get(0).(model.EventRegistration)
	return reg, args.Error(1)
}

func (m *EventRegRepoMock) FindByEventAndVendor(ctx context.Context, eventID int64, vendorID int64) (model.EventRegistration, bool, error) {
	args := m.Called(ctx, eventID, vendorID)
	reg, _ := args.Get(0).(model.EventRegistration)
	return reg, args.Bool(1), args.Error(2)
}

func (m *EventRegRepoMock) ListByEventID(ctx context.Context, eventID int64) ([]model.EventRegistration, error) {
	args := m.Called(ctx, eventID)
	items, _ := args.Get(0).([]model.EventRegistration)
	return items, args.Error(1)
}

func (m *EventRegRepoMock) UpdateStatus(ctx context.Context, id int64, status model.RegistrationStatus, reason string) error {
	args := m.Called(ctx, id, status, reason)
	return args.Error(0)
}

type EventRepoMock struct{ mock.Mock }

func (m *EventRepoMock) Create(ctx context.Context, ev model.Event) (model.Event, error) {
	args := m.Called(ctx, ev)
	created, _ := args.Get(0).(model.Event)
	return created, args.Error(1)
}

func (m *EventRepoMock) FindByID(ctx context.Context, id int64) (model.Event, error) {
	args := m.Called(ctx, id)
	ev, _ := args.Get(0).(model.Event)
	return ev, args.Error(1)
}

func (m *EventRepoMock) List(ctx context.Context, page int, limit int) ([]model.Event, int64, error) {
	args := m.Called(ctx, page, limit)
	items, _ := args.Get(0).([]model.Event)
	return items, args.Get(1).(int64), args.Error(2)
}

type UserRepoMock struct{ mock.Mock }

func (m *UserRepoMock) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *UserRepoMock) FindByID(ctx context.Context, userID int64) (*model.User, error) {
	args := m.Called(ctx, userID)
	user, _ := args.Get(0).(*model.User)
	return user, args.Error(1)
}

func (m *UserRepoMock) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	user, _ := args.Get(0).(*model.User)
	return user, args.Error(1)
}

func (m *UserRepoMock) Update(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *UserRepoMock) IncrementTokenVersion(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

type RefreshTokenRepoMock struct{ mock.Mock }

func (m *RefreshTokenRepoMock) Create(ctx context.Context, token *model.RefreshToken) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *RefreshTokenRepoMock) FindByTokenHash(ctx context.Context, tokenHash string) (*model.RefreshToken, error) {
	args := m.Called(ctx, tokenHash)
	token, _ := args.Get(0).(*model.RefreshToken)
	return token, args.Error(1)
}

func (m *RefreshTokenRepoMock) MarkUsed(ctx context.Context, tokenID string, usedAt time.Time) error {
	args := m.Called(ctx, tokenID, usedAt)
	return args.Error(0)
}

func (m *RefreshTokenRepoMock) Revoke(ctx context.Context, tokenID string, revokedAt time.Time) error {
	args := m.Called(ctx, tokenID, revokedAt)
	return args.Error(0)
}

func (m *RefreshTokenRepoMock) DeleteAllByUserID(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// =====================
// TransactionManager stub
// =====================

// fnに渡すTxRepos。テストごとに必要なmockだけ差す。
type TxReposStub struct {
	OrdersRepo    *OrderRepoMock
	ItemsRepo     *OrderItemRepoMock
	CartRepo      *CartRepoMock
	InvRepo       *InventoryRepoMock
	ProductsRepo  *ProductRepoMock
	VendorsRepo   *VendorRepoMock
	NotifRepo     *NotificationRepoMock
	AuditRepo     *AuditRepoMock
	EventRegsRepo *EventRegRepoMock
}

func (s *TxReposStub) Orders() repo.OrderRepository               { return s.OrdersRepo }
func (s *TxReposStub) OrderItems() repo.OrderItemRepository       { return s.ItemsRepo }
func (s *TxReposStub) CartLines() repo.CartLineRepository         { return s.CartRepo }
func (s *TxReposStub) Inventory() repo.InventoryRepository        { return s.InvRepo }
func (s *TxReposStub) Products() repo.ProductRepository           { return s.ProductsRepo }
func (s *TxReposStub) Vendors() repo.VendorRepository             { return s.VendorsRepo }
func (s *TxReposStub) Notifications() repo.NotificationRepository { return s.NotifRepo }
func (s *TxReposStub) AuditLogs() repo.AuditLogRepository         { return s.AuditRepo }
func (s *TxReposStub) EventRegistrations() repo.EventRegistrationRepository {
	return s.EventRegsRepo
}

// fnをそのまま実行するTransactionManager。
// fnがerrorを返したら書き込みが残らない想定なので、テスト側は戻り値だけ見ればよい。
type TxManagerStub struct {
	Repos *TxReposStub
}

func (m *TxManagerStub) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return fn(m.Repos)
}

func newTxReposStub() *TxReposStub {
	return &TxReposStub{
		OrdersRepo:    new(OrderRepoMock),
		ItemsRepo:     new(OrderItemRepoMock),
		CartRepo:      new(CartRepoMock),
		InvRepo:       new(InventoryRepoMock),
		ProductsRepo:  new(ProductRepoMock),
		VendorsRepo:   new(VendorRepoMock),
		NotifRepo:     new(NotificationRepoMock),
		AuditRepo:     new(AuditRepoMock),
		EventRegsRepo: new(EventRegRepoMock),
	}
}
