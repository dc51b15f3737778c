package db

import "gorm.io/gorm"

type Repositories struct {
	Users     *UserRepository
	Doctors   *DoctorRepository
	Timeline  *TimelineRepository
	Checkins  *CheckinRepository
	Metrics   *MetricRepository
	RiskLogs  *RiskLogRepository
	Documents *DocumentRepository
	Care      *CareRepository
}

func NewRepositories(database *gorm.DB) *Repositories {
	return &Repositories{
		Users:     NewUserRepository(database),
		Doctors:   NewDoctorRepository(database),
		Timeline:  NewTimelineRepository(database),
		Checkins:  NewCheckinRepository(database),
		Metrics:   NewMetricRepository(database),
		RiskLogs:  NewRiskLogRepository(database),
		Documents: NewDocumentRepository(database),
		Care:      NewCareRepository(database),
	}
}
