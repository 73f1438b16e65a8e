// Package logkey は構造化ログの属性名を一箇所に集める。
package logkey

const (
	TraceID = "trace_id"
	ERROR   = "error"

	UserID    = "user_id"
	VendorID  = "vendor_id"
	ProductID = "product_id"
	OrderID   = "order_id"
	EventID   = "event_id"

	Method = "method"
	Path   = "path"
	Status = "status"
	Took   = "took_ms"
)
