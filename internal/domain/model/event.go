package model

import "time"

// マーケット主催のイベント（管理者が作成）。
type Event struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Title       string    `gorm:"type:varchar(255);not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	Location    string    `gorm:"type:varchar(255);not null" json:"location"`
	StartsAt    time.Time `gorm:"not null;index" json:"starts_at"`
	EndsAt      time.Time `gorm:"not null" json:"ends_at"`
	CreatedBy   int64     `gorm:"not null" json:"created_by"`
	CreatedAt   time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

// ストアのイベント参加申請。VendorやProductと同じ申請→承認/却下の形。
type RegistrationStatus string

const (
	RegistrationStatusPending  RegistrationStatus = "PENDING"
	RegistrationStatusApproved RegistrationStatus = "APPROVED"
	RegistrationStatusRejected RegistrationStatus = "REJECTED"
)

var registrationTransitions = map[RegistrationStatus][]RegistrationStatus{
	RegistrationStatusPending: {RegistrationStatusApproved, RegistrationStatusRejected},
}

func (s RegistrationStatus) CanTransitionTo(next RegistrationStatus) bool {
	for _, to := range registrationTransitions[s] {
		if to == next {
			return true
		}
	}
	return false
}

type EventRegistration struct {
	ID              int64              `gorm:"primaryKey;autoIncrement" json:"id"`
	EventID         int64              `gorm:"not null;uniqueIndex:idx_event_vendor" json:"event_id"`
	VendorID        int64              `gorm:"not null;uniqueIndex:idx_event_vendor" json:"vendor_id"`
	Status          RegistrationStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	RejectionReason string             `gorm:"type:text" json:"rejection_reason,omitempty"`
	CreatedAt       time.Time          `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time          `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
