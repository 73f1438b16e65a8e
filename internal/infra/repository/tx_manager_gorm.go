package repository

import (
	"context"

	repo "marketplace/internal/repository"

	"gorm.io/gorm"
)

type txReposGorm struct {
	orders        repo.OrderRepository
	orderItems    repo.OrderItemRepository
	cartLines     repo.CartLineRepository
	inventory     repo.InventoryRepository
	products      repo.ProductRepository
	vendors       repo.VendorRepository
	notifications repo.NotificationRepository
	auditLogs     repo.AuditLogRepository
	eventRegs     repo.EventRegistrationRepository
}

func (r *txReposGorm) Orders() repo.OrderRepository                           { return r.orders }
func (r *txReposGorm) OrderItems() repo.OrderItemRepository                   { return r.orderItems }
func (r *txReposGorm) CartLines() repo.CartLineRepository                     { return r.cartLines }
func (r *txReposGorm) Inventory() repo.InventoryRepository                    { return r.inventory }
func (r *txReposGorm) Products() repo.ProductRepository                       { return r.products }
func (r *txReposGorm) Vendors() repo.VendorRepository                         { return r.vendors }
func (r *txReposGorm) Notifications() repo.NotificationRepository             { return r.notifications }
func (r *txReposGorm) AuditLogs() repo.AuditLogRepository                     { return r.auditLogs }
func (r *txReposGorm) EventRegistrations() repo.EventRegistrationRepository   { return r.eventRegs }

type TxManagerGorm struct {
	db *gorm.DB
}

func NewTxManagerGorm(db *gorm.DB) *TxManagerGorm {
	return &TxManagerGorm{db: db}
}

func (tm *TxManagerGorm) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return tm.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		//repoはtxを持ったDBで作り直す
		r := &txReposGorm{
			orders:        NewOrderGormRepository(tx),
			orderItems:    NewOrderItemGormRepository(tx),
			cartLines:     NewCartLineGormRepository(tx),
			inventory:     NewInventoryGormRepository(tx),
			products:      NewProductGormRepository(tx),
			vendors:       NewVendorGormRepository(tx),
			notifications: NewNotificationGormRepository(tx),
			auditLogs:     NewAuditLogGormRepository(tx),
			eventRegs:     NewEventRegistrationGormRepository(tx),
		}
		return fn(r)
	})
}
