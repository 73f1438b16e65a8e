package repository

import "context"

// トランザクション内で使う約束
type TxRepos interface {
	Orders() OrderRepository
	OrderItems() OrderItemRepository
	CartLines() CartLineRepository
	Inventory() InventoryRepository
	Products() ProductRepository
	Vendors() VendorRepository
	Notifications() NotificationRepository
	AuditLogs() AuditLogRepository
	EventRegistrations() EventRegistrationRepository
}

// UsecaseからTxの開始/commit/rollbackを隠す。
// fnがerrorを返したら全体rollback（部分書き込みを残さない）。
type TransactionManager interface {
	WithinTx(ctx context.Context, fn func(r TxRepos) error) error
}
