package models

import "time"

const (
	DocumentTypeLab   = "Lab"
	DocumentTypeScan  = "Scan"
	DocumentTypeRx    = "Rx"
	DocumentTypeOther = "Other"
)

const (
	DocumentPending  = "Pending"
	DocumentAnalyzed = "Analyzed"
)

const (
	DocumentRiskNormal = "Normal"
	DocumentRiskHigh   = "High"
)

// Document is a vault entry. ObjectKey is opaque to the database; the object
// store resolves it to bytes.
type Document struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"not null;index:idx_documents_user" json:"user_id"`
	Title      string    `gorm:"not null" json:"title"`
	ObjectKey  string    `gorm:"not null;uniqueIndex" json:"-"`
	FileType   string    `gorm:"not null;default:Other" json:"file_type"`
	Status     string    `gorm:"not null;default:Pending" json:"status"`
	RiskStatus string    `gorm:"not null;default:Normal" json:"risk_status"`
	UploadedAt time.Time `gorm:"not null;index:idx_documents_user" json:"uploaded_at"`
}

func IsValidDocumentType(fileType string) bool {
	switch fileType {
	case DocumentTypeLab, DocumentTypeScan, DocumentTypeRx, DocumentTypeOther:
		return true
	default:
		return false
	}
}
