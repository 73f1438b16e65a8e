package model

import "time"

type VendorStatus string

const (
	//申請中（承認待ち）
	VendorStatusPending VendorStatus = "PENDING"
	//承認済み（商品を外部公開できる）
	VendorStatusActive VendorStatus = "ACTIVE"
	//却下（再申請するまで商品は公開されない）
	VendorStatusRejected VendorStatus = "REJECTED"
)

// ストアの状態遷移表。ここ以外で遷移可否を判断しない。
var vendorTransitions = map[VendorStatus][]VendorStatus{
	VendorStatusPending:  {VendorStatusActive, VendorStatusRejected},
	VendorStatusActive:   {VendorStatusRejected},
	VendorStatusRejected: {VendorStatusPending},
}

// CanTransitionTo は s から next への遷移が許されるかを返す。
func (s VendorStatus) CanTransitionTo(next VendorStatus) bool {
	for _, to := range vendorTransitions[s] {
		if to == next {
			return true
		}
	}
	return false
}

// マーケット内のストア。所有ユーザー（User）とは別エンティティ。
type Vendor struct {
	ID              int64        `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID          int64        `gorm:"not null;uniqueIndex" json:"user_id"`
	Name            string       `gorm:"type:varchar(255);not null" json:"name"`
	Description     string       `gorm:"type:text" json:"description"`
	Status          VendorStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	RejectionReason string       `gorm:"type:text" json:"rejection_reason,omitempty"`
	CreatedAt       time.Time    `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time    `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
