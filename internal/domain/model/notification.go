package model

import "time"

// アプリ内通知。審査結果や注文ステータス変更時に作成する。
// 配信（メール等）はこのコアの責務外。
type Notification struct {
	ID        int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    int64      `gorm:"not null;index" json:"user_id"`
	Title     string     `gorm:"type:varchar(255);not null" json:"title"`
	Body      string     `gorm:"type:text" json:"body"`
	ReadAt    *time.Time `json:"read_at,omitempty"`
	CreatedAt time.Time  `gorm:"not null;autoCreateTime;index" json:"created_at"`
}
