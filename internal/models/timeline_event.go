package models

import "time"

const (
	CategoryScan  = "scan"
	CategoryVisit = "visit"
	CategoryLab   = "lab"
	CategoryBirth = "birth"
)

const (
	EventPending   = "pending"
	EventCompleted = "completed"
)

// TimelineEvent is one week-anchored pregnancy milestone. WeekOffset is a
// semantic label fixed at generation time; EventDate carries the logistics and
// may be rescheduled independently.
type TimelineEvent struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"not null;uniqueIndex:uidx_timeline_user_week" json:"user_id"`
	WeekOffset  int       `gorm:"not null;uniqueIndex:uidx_timeline_user_week" json:"week_offset"`
	Title       string    `gorm:"not null;uniqueIndex:uidx_timeline_user_week" json:"title"`
	Category    string    `gorm:"not null" json:"category"`
	Description string    `gorm:"not null;default:''" json:"description"`
	EventDate   time.Time `gorm:"not null" json:"event_date"`
	Status      string    `gorm:"not null;default:pending" json:"status"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
}

type Milestone struct {
	WeekOffset  int
	Title       string
	Category    string
	Description string
}

// DefaultMilestones is the fixed antenatal schedule a fresh timeline is
// generated from.
func DefaultMilestones() []Milestone {
	return []Milestone{
		{WeekOffset: 8, Title: "First Ultrasound (Dating Scan)", Category: CategoryScan, Description: "Confirm due date and check heartbeat."},
		{WeekOffset: 12, Title: "NT Scan & Blood Tests", Category: CategoryScan, Description: "Screen for chromosomal abnormalities."},
		{WeekOffset: 16, Title: "Early Growth Scan (Optional)", Category: CategoryScan, Description: "Check baby's growth progress."},
		{WeekOffset: 20, Title: "Anomaly Scan", Category: CategoryScan, Description: "Detailed check of baby's anatomy."},
		{WeekOffset: 24, Title: "Routine Check-up", Category: CategoryVisit, Description: "Blood pressure and urine test."},
		{WeekOffset: 28, Title: "Glucose Tolerance Test", Category: CategoryLab, Description: "Screening for gestational diabetes."},
		{WeekOffset: 32, Title: "Growth Scan", Category: CategoryScan, Description: "Monitor baby's size and position."},
		{WeekOffset: 36, Title: "GBS Swab & Position Check", Category: CategoryLab, Description: "Test for Group B Strep bacteria."},
		{WeekOffset: 40, Title: "Estimated Due Date", Category: CategoryBirth, Description: "The big day!"},
	}
}
