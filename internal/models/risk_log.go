package models

import "time"

const (
	LevelGreen  = "green"
	LevelYellow = "yellow"
	LevelOrange = "orange"
	LevelRed    = "red"
)

type RiskLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index:idx_risk_logs_user" json:"user_id"`
	Score     int       `gorm:"not null;default:0" json:"score"`
	Level     string    `gorm:"not null;default:green" json:"level"`
	Insight   string    `gorm:"not null;default:''" json:"insight"`
	CreatedAt time.Time `gorm:"not null;index:idx_risk_logs_user" json:"created_at"`
}

// RiskStatusForLevel folds a per-checkin risk level into the coarse status
// shown on the doctor roster.
func RiskStatusForLevel(level string) string {
	switch level {
	case LevelRed:
		return RiskStatusHigh
	case LevelOrange, LevelYellow:
		return RiskStatusElevated
	default:
		return RiskStatusLow
	}
}
