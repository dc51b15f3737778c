package models

import "time"

// Checkin is one submitted daily questionnaire. The (UserID, Day) pair is
// unique: a second submission on the same calendar day must never produce a
// row.
type Checkin struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:uidx_checkin_user_day" json:"user_id"`
	Day       time.Time `gorm:"type:date;not null;uniqueIndex:uidx_checkin_user_day" json:"day"`
	Answers   AnswerSet `gorm:"serializer:json" json:"answers"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}
