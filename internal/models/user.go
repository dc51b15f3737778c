package models

import "time"

const (
	RolePatient = "patient"
	RoleDoctor  = "doctor"
)

const (
	RiskStatusLow      = "low"
	RiskStatusElevated = "elevated"
	RiskStatusHigh     = "high"
)

// GestationDays is the conventional full-term pregnancy length counted from LMP.
const GestationDays = 280

type User struct {
	ID                  uint       `gorm:"primaryKey" json:"id"`
	Email               string     `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash        string     `gorm:"not null" json:"-"`
	RecoveryCodeHash    string     `gorm:"not null;default:''" json:"-"`
	MustChangePassword  bool       `gorm:"not null;default:false" json:"-"`
	Role                string     `gorm:"not null;default:patient" json:"role"`
	Name                string     `gorm:"not null;default:''" json:"name"`
	Language            string     `gorm:"not null;default:en" json:"language"`
	LMP                 *time.Time `gorm:"column:lmp;type:date" json:"lmp,omitempty"`
	CurrentWeek         *int       `gorm:"column:current_week" json:"current_week,omitempty"`
	RiskStatus          string     `gorm:"not null;default:low" json:"risk_status"`
	OnboardingCompleted bool       `gorm:"not null;default:false" json:"onboarding_completed"`
	CreatedAt           time.Time  `gorm:"not null" json:"created_at"`
}

type DoctorProfile struct {
	UserID          uint   `gorm:"primaryKey" json:"user_id"`
	Specialization  string `gorm:"not null;default:''" json:"specialization"`
	HospitalName    string `gorm:"not null;default:''" json:"hospital_name"`
	ExperienceYears int    `gorm:"not null;default:0" json:"experience_years"`
	LicenseNumber   string `gorm:"not null;default:''" json:"license_number"`
	Verified        bool   `gorm:"not null;default:false" json:"verified"`
}
