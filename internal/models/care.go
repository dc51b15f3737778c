package models

import "time"

const (
	CareLinkPending  = "pending"
	CareLinkActive   = "active"
	CareLinkArchived = "archived"
)

// CareLink ties a patient to a doctor. Requested by the patient, accepted or
// archived by the doctor; at most one link per (doctor, patient) pair.
type CareLink struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	DoctorID   uint      `gorm:"not null;uniqueIndex:uidx_care_link_pair" json:"doctor_id"`
	PatientID  uint      `gorm:"not null;uniqueIndex:uidx_care_link_pair" json:"patient_id"`
	Status     string    `gorm:"not null;default:pending" json:"status"`
	AssignedAt time.Time `gorm:"not null" json:"assigned_at"`
}

type Consultation struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	DoctorID  uint      `gorm:"not null;index:idx_consultations_pair" json:"doctor_id"`
	PatientID uint      `gorm:"not null;index:idx_consultations_pair" json:"patient_id"`
	SenderID  uint      `gorm:"not null" json:"sender_id"`
	Message   string    `gorm:"not null" json:"message"`
	IsRead    bool      `gorm:"not null;default:false" json:"is_read"`
	CreatedAt time.Time `gorm:"not null;index:idx_consultations_pair" json:"created_at"`
}
