package services

import (
	"sort"
	"time"

	"github.com/pregoway/pregoway/internal/models"
)

type DoctorCheckinReader interface {
	FindByUserAndDayRange(userID uint, dayStart time.Time, dayEnd time.Time) (models.Checkin, bool, error)
	ListByUser(userID uint, limit int) ([]models.Checkin, error)
	CountByUser(userID uint) (int64, error)
}

type DoctorRiskReader interface {
	LatestByUser(userID uint) (models.RiskLog, bool, error)
	ListByUser(userID uint, limit int) ([]models.RiskLog, error)
}

type DoctorUserReader interface {
	FindByID(userID uint) (models.User, error)
}

type DoctorService struct {
	care     CareRepository
	users    DoctorUserReader
	checkins DoctorCheckinReader
	risks    DoctorRiskReader
	location *time.Location
}

func NewDoctorService(
	care CareRepository,
	users DoctorUserReader,
	checkins DoctorCheckinReader,
	risks DoctorRiskReader,
	location *time.Location,
) *DoctorService {
	if location == nil {
		location = time.UTC
	}
	return &DoctorService{
		care:     care,
		users:    users,
		checkins: checkins,
		risks:    risks,
		location: location,
	}
}

// PatientSummary is one roster row on the doctor dashboard.
type PatientSummary struct {
	UserID      uint       `json:"user_id"`
	Name        string     `json:"name"`
	CurrentWeek *int       `json:"current_week"`
	Trimester   int        `json:"trimester"`
	RiskStatus  string     `json:"risk_status"`
	RiskLevel   string     `json:"risk_level"`
	LastCheckin *time.Time `json:"last_checkin"`
	LinkID      uint       `json:"link_id"`
}

// Roster lists the doctor's active patients, highest risk first.
func (service *DoctorService) Roster(doctorID uint, now time.Time) ([]PatientSummary, error) {
	links, err := service.care.ListLinksByDoctor(doctorID, models.CareLinkActive)
	if err != nil {
		return nil, err
	}

	summaries := make([]PatientSummary, 0, len(links))
	for _, link := range links {
		patient, err := service.users.FindByID(link.PatientID)
		if err != nil {
			continue
		}
		summary := PatientSummary{
			UserID:     patient.ID,
			Name:       patient.Name,
			RiskStatus: patient.RiskStatus,
			LinkID:     link.ID,
		}
		if week, known := GestationalWeek(patient.LMP, now, service.location); known {
			summary.CurrentWeek = &week
			summary.Trimester = TrimesterForWeek(week)
		}
		if latest, found, err := service.risks.LatestByUser(patient.ID); err == nil && found {
			summary.RiskLevel = latest.Level
		}
		if recent, err := service.checkins.ListByUser(patient.ID, 1); err == nil && len(recent) > 0 {
			day := recent[0].Day
			summary.LastCheckin = &day
		}
		summaries = append(summaries, summary)
	}

	sort.SliceStable(summaries, func(i, j int) bool {
		return riskRank(summaries[i].RiskStatus) > riskRank(summaries[j].RiskStatus)
	})
	return summaries, nil
}

func riskRank(status string) int {
	switch status {
	case models.RiskStatusHigh:
		return 2
	case models.RiskStatusElevated:
		return 1
	default:
		return 0
	}
}

// DashboardStats summarizes the doctor's panel for the portal home screen.
type DashboardStats struct {
	ActivePatients  int `json:"active_patients"`
	PendingRequests int `json:"pending_requests"`
	HighRisk        int `json:"high_risk"`
	CheckinsToday   int `json:"checkins_today"`
}

func (service *DoctorService) Stats(doctorID uint, now time.Time) (DashboardStats, error) {
	active, err := service.care.ListLinksByDoctor(doctorID, models.CareLinkActive)
	if err != nil {
		return DashboardStats{}, err
	}
	pending, err := service.care.ListLinksByDoctor(doctorID, models.CareLinkPending)
	if err != nil {
		return DashboardStats{}, err
	}

	stats := DashboardStats{
		ActivePatients:  len(active),
		PendingRequests: len(pending),
	}
	dayStart, dayEnd := DayRange(now, service.location)
	for _, link := range active {
		patient, err := service.users.FindByID(link.PatientID)
		if err != nil {
			continue
		}
		if patient.RiskStatus == models.RiskStatusHigh {
			stats.HighRisk++
		}
		if _, found, err := service.checkins.FindByUserAndDayRange(link.PatientID, dayStart, dayEnd); err == nil && found {
			stats.CheckinsToday++
		}
	}
	return stats, nil
}

// PanelAnalytics buckets the active panel by trimester and by risk status.
type PanelAnalytics struct {
	ByTrimester map[int]int    `json:"by_trimester"`
	ByRisk      map[string]int `json:"by_risk"`
}

func (service *DoctorService) Analytics(doctorID uint, now time.Time) (PanelAnalytics, error) {
	links, err := service.care.ListLinksByDoctor(doctorID, models.CareLinkActive)
	if err != nil {
		return PanelAnalytics{}, err
	}

	analytics := PanelAnalytics{
		ByTrimester: map[int]int{},
		ByRisk:      map[string]int{},
	}
	for _, link := range links {
		patient, err := service.users.FindByID(link.PatientID)
		if err != nil {
			continue
		}
		analytics.ByRisk[patient.RiskStatus]++
		if week, known := GestationalWeek(patient.LMP, now, service.location); known {
			analytics.ByTrimester[TrimesterForWeek(week)]++
		}
	}
	return analytics, nil
}

// PatientDetail is the drill-down view for one linked patient.
type PatientDetail struct {
	Patient   PatientSummary   `json:"patient"`
	Checkins  []models.Checkin `json:"checkins"`
	RiskLogs  []models.RiskLog `json:"risk_logs"`
	TotalDays int64            `json:"total_checkins"`
}

// PatientDetail requires an active link; doctors never see unlinked records.
func (service *DoctorService) PatientDetail(doctorID uint, patientID uint, now time.Time) (PatientDetail, error) {
	link, found, err := service.care.FindLink(doctorID, patientID)
	if err != nil {
		return PatientDetail{}, err
	}
	if !found || link.Status != models.CareLinkActive {
		return PatientDetail{}, ErrLinkNotActive
	}

	patient, err := service.users.FindByID(patientID)
	if err != nil {
		return PatientDetail{}, err
	}
	summary := PatientSummary{
		UserID:     patient.ID,
		Name:       patient.Name,
		RiskStatus: patient.RiskStatus,
		LinkID:     link.ID,
	}
	if week, known := GestationalWeek(patient.LMP, now, service.location); known {
		summary.CurrentWeek = &week
		summary.Trimester = TrimesterForWeek(week)
	}

	checkins, err := service.checkins.ListByUser(patientID, 14)
	if err != nil {
		return PatientDetail{}, err
	}
	riskLogs, err := service.risks.ListByUser(patientID, 14)
	if err != nil {
		return PatientDetail{}, err
	}
	total, err := service.checkins.CountByUser(patientID)
	if err != nil {
		return PatientDetail{}, err
	}

	return PatientDetail{
		Patient:   summary,
		Checkins:  checkins,
		RiskLogs:  riskLogs,
		TotalDays: total,
	}, nil
}
