package models

import "time"

const (
	MetricWeight = "WEIGHT"
	MetricBP     = "BP"
	MetricHB     = "HB"
	MetricKicks  = "KICKS"
)

// HealthMetric is one discrete vital reading. Rows are append-only; values are
// stored as text because blood pressure readings are composite ("120/80").
type HealthMetric struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index:idx_metrics_user_type" json:"user_id"`
	CheckinID *uint     `gorm:"column:checkin_id" json:"checkin_id,omitempty"`
	Type      string    `gorm:"not null;index:idx_metrics_user_type" json:"type"`
	Value     string    `gorm:"not null" json:"value"`
	Unit      string    `gorm:"not null;default:''" json:"unit"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}
