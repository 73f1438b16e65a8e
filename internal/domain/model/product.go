package model

import (
	"time"

	"gorm.io/gorm"
)

// 公開ステータス（外部に見せられる状態か）
type PublishStatus string

const (
	PublishStatusPending  PublishStatus = "PENDING"
	PublishStatusActive   PublishStatus = "ACTIVE"
	PublishStatusInactive PublishStatus = "INACTIVE"
)

// 審査ステータス（管理者の判定）
type ApprovalStatus string

const (
	ApprovalStatusPending  ApprovalStatus = "PENDING"
	ApprovalStatusApproved ApprovalStatus = "APPROVED"
	ApprovalStatusRejected ApprovalStatus = "REJECTED"
)

// 審査結果から導かれる公開ステータス。
// approved→active / rejected→inactive / pending→pending の写像はここだけ。
func (a ApprovalStatus) DerivedPublishStatus() PublishStatus {
	switch a {
	case ApprovalStatusApproved:
		return PublishStatusActive
	case ApprovalStatusRejected:
		return PublishStatusInactive
	default:
		return PublishStatusPending
	}
}

type Product struct {
	ID          int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	VendorID    int64  `gorm:"not null;index" json:"vendor_id"`
	Name        string `gorm:"type:varchar(255);not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`
	Price       int64  `gorm:"not null" json:"price"`

	//在庫数。nil は在庫管理なし（無制限）。
	Stock *int64 `gorm:"" json:"stock"`

	PublishStatus   PublishStatus  `gorm:"type:varchar(20);not null;index" json:"publish_status"`
	ApprovalStatus  ApprovalStatus `gorm:"type:varchar(20);not null;index" json:"approval_status"`
	RejectionReason string         `gorm:"type:text" json:"rejection_reason,omitempty"`

	CreatedAt time.Time      `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// 購入可能条件：商品が公開＋承認済み、かつストアがACTIVE。
func (p Product) Purchasable(vendorStatus VendorStatus) bool {
	return p.PublishStatus == PublishStatusActive &&
		p.ApprovalStatus == ApprovalStatusApproved &&
		vendorStatus == VendorStatusActive
}

// 在庫がqty分あるか。Stock=nilは無制限扱い。
func (p Product) HasStock(qty int64) bool {
	return p.Stock == nil || *p.Stock >= qty
}

// 再申請できる状態か（却下または非公開のみ）。
func (p Product) CanResubmit() bool {
	return p.ApprovalStatus == ApprovalStatusRejected || p.PublishStatus == PublishStatusInactive
}
