package model

import "time"

// 管理者操作の種類
type AuditAction string

const (
	AuditActionApproveVendor  AuditAction = "APPROVE_VENDOR"
	AuditActionRejectVendor   AuditAction = "REJECT_VENDOR"
	AuditActionApproveProduct AuditAction = "APPROVE_PRODUCT"
	AuditActionRejectProduct  AuditAction = "REJECT_PRODUCT"
	AuditActionUpdateStock    AuditAction = "UPDATE_STOCK"
	AuditActionDecideEventReg AuditAction = "DECIDE_EVENT_REGISTRATION"
)

// 何に対する操作か
type AuditResourceType string

const (
	AuditResourceVendor   AuditResourceType = "vendor"
	AuditResourceProduct  AuditResourceType = "product"
	AuditResourceOrder    AuditResourceType = "order"
	AuditResourceEventReg AuditResourceType = "event_registration"
)

// 監査ログ（管理者操作ログ）。
// 「誰が」「何を」「どの対象に」「どう変えたか」を残す。
type AuditLog struct {
	ID           int64             `gorm:"primaryKey;autoIncrement" json:"id"`
	ActorUserID  int64             `gorm:"not null;index" json:"actor_user_id"`
	Action       AuditAction       `gorm:"type:varchar(50);not null;index" json:"action"`
	ResourceType AuditResourceType `gorm:"type:varchar(50);not null;index" json:"resource_type"`
	ResourceID   int64             `gorm:"not null;index" json:"resource_id"`

	//変更前後はJSON文字列で保存する。
	BeforeJSON string `gorm:"type:text" json:"before_json"`
	AfterJSON  string `gorm:"type:text" json:"after_json"`

	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
}
