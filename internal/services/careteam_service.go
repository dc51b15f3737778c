package services

import (
	"errors"
	"strings"
	"time"

	"github.com/pregoway/pregoway/internal/models"
)

var (
	ErrDoctorNotFound    = errors.New("doctor not found")
	ErrLinkExists        = errors.New("care link already exists")
	ErrLinkNotFound      = errors.New("care link not found")
	ErrLinkNotActive     = errors.New("care link not active")
	ErrNotLinkOwner      = errors.New("care link belongs to another doctor")
	ErrEmptyMessage      = errors.New("message required")
	ErrMessageTooLong    = errors.New("message too long")
	ErrNotVerifiedDoctor = errors.New("doctor not verified")
)

const maxConsultationMessage = 2000

type CareRepository interface {
	CreateLink(link *models.CareLink) error
	FindLink(doctorID uint, patientID uint) (models.CareLink, bool, error)
	FindLinkByID(linkID uint) (models.CareLink, error)
	UpdateLinkStatus(linkID uint, status string) error
	ListLinksByDoctor(doctorID uint, status string) ([]models.CareLink, error)
	ListLinksByPatient(patientID uint) ([]models.CareLink, error)
	CreateConsultation(entry *models.Consultation) error
	ListConsultations(doctorID uint, patientID uint, limit int) ([]models.Consultation, error)
	CountUnread(doctorID uint, patientID uint, readerID uint) (int64, error)
	MarkRead(doctorID uint, patientID uint, readerID uint) error
}

type DoctorDirectory interface {
	FindProfile(userID uint) (models.DoctorProfile, error)
	ListVerified() ([]models.User, map[uint]models.DoctorProfile, error)
}

type CareUserRepository interface {
	FindByID(userID uint) (models.User, error)
}

type CareTeamService struct {
	care    CareRepository
	doctors DoctorDirectory
	users   CareUserRepository
}

func NewCareTeamService(care CareRepository, doctors DoctorDirectory, users CareUserRepository) *CareTeamService {
	return &CareTeamService{care: care, doctors: doctors, users: users}
}

// DoctorListing is a directory entry patients pick their doctor from.
type DoctorListing struct {
	UserID          uint   `json:"user_id"`
	Name            string `json:"name"`
	Specialization  string `json:"specialization"`
	HospitalName    string `json:"hospital_name"`
	ExperienceYears int    `json:"experience_years"`
}

func (service *CareTeamService) ListDoctors() ([]DoctorListing, error) {
	users, profiles, err := service.doctors.ListVerified()
	if err != nil {
		return nil, err
	}
	listings := make([]DoctorListing, 0, len(users))
	for _, user := range users {
		profile := profiles[user.ID]
		listings = append(listings, DoctorListing{
			UserID:          user.ID,
			Name:            user.Name,
			Specialization:  profile.Specialization,
			HospitalName:    profile.HospitalName,
			ExperienceYears: profile.ExperienceYears,
		})
	}
	return listings, nil
}

// RequestLink creates a pending link from patient to doctor. An archived link
// is reopened as pending rather than duplicated.
func (service *CareTeamService) RequestLink(patientID uint, doctorID uint, now time.Time) (models.CareLink, error) {
	doctor, err := service.users.FindByID(doctorID)
	if err != nil || doctor.Role != models.RoleDoctor {
		return models.CareLink{}, ErrDoctorNotFound
	}
	profile, err := service.doctors.FindProfile(doctorID)
	if err != nil || !profile.Verified {
		return models.CareLink{}, ErrNotVerifiedDoctor
	}

	existing, found, err := service.care.FindLink(doctorID, patientID)
	if err != nil {
		return models.CareLink{}, err
	}
	if found {
		if existing.Status == models.CareLinkArchived {
			if err := service.care.UpdateLinkStatus(existing.ID, models.CareLinkPending); err != nil {
				return models.CareLink{}, err
			}
			existing.Status = models.CareLinkPending
			return existing, nil
		}
		return models.CareLink{}, ErrLinkExists
	}

	link := models.CareLink{
		DoctorID:   doctorID,
		PatientID:  patientID,
		Status:     models.CareLinkPending,
		AssignedAt: now,
	}
	if err := service.care.CreateLink(&link); err != nil {
		return models.CareLink{}, err
	}
	return link, nil
}

// ResolveLink lets the owning doctor accept or archive a request.
func (service *CareTeamService) ResolveLink(doctorID uint, linkID uint, accept bool) (models.CareLink, error) {
	link, err := service.care.FindLinkByID(linkID)
	if err != nil {
		return models.CareLink{}, ErrLinkNotFound
	}
	if link.DoctorID != doctorID {
		return models.CareLink{}, ErrNotLinkOwner
	}
	status := models.CareLinkArchived
	if accept {
		status = models.CareLinkActive
	}
	if link.Status == status {
		return link, nil
	}
	if err := service.care.UpdateLinkStatus(linkID, status); err != nil {
		return models.CareLink{}, err
	}
	link.Status = status
	return link, nil
}

// ArchiveLink ends an active relationship from either side.
func (service *CareTeamService) ArchiveLink(requesterID uint, linkID uint) error {
	link, err := service.care.FindLinkByID(linkID)
	if err != nil {
		return ErrLinkNotFound
	}
	if link.DoctorID != requesterID && link.PatientID != requesterID {
		return ErrNotLinkOwner
	}
	if link.Status == models.CareLinkArchived {
		return nil
	}
	return service.care.UpdateLinkStatus(linkID, models.CareLinkArchived)
}

func (service *CareTeamService) PatientLinks(patientID uint) ([]models.CareLink, error) {
	return service.care.ListLinksByPatient(patientID)
}

// DoctorLinks lists a doctor's links, optionally filtered by status. An empty
// status returns every link regardless of state.
func (service *CareTeamService) DoctorLinks(doctorID uint, status string) ([]models.CareLink, error) {
	return service.care.ListLinksByDoctor(doctorID, status)
}

// RequireActiveLink reports whether the doctor currently cares for the
// patient. Callers use it to gate reads of patient records.
func (service *CareTeamService) RequireActiveLink(doctorID uint, patientID uint) error {
	_, err := service.activeLink(doctorID, patientID)
	return err
}

// activeLink returns the active relationship between the pair, whoever asks.
func (service *CareTeamService) activeLink(doctorID uint, patientID uint) (models.CareLink, error) {
	link, found, err := service.care.FindLink(doctorID, patientID)
	if err != nil {
		return models.CareLink{}, err
	}
	if !found {
		return models.CareLink{}, ErrLinkNotFound
	}
	if link.Status != models.CareLinkActive {
		return models.CareLink{}, ErrLinkNotActive
	}
	return link, nil
}

// SendMessage appends to the consultation thread. Only an active pair may
// exchange messages, and the sender must be one of the two.
func (service *CareTeamService) SendMessage(senderID uint, doctorID uint, patientID uint, message string, now time.Time) (models.Consultation, error) {
	if senderID != doctorID && senderID != patientID {
		return models.Consultation{}, ErrNotLinkOwner
	}
	message = strings.TrimSpace(message)
	if message == "" {
		return models.Consultation{}, ErrEmptyMessage
	}
	if len([]rune(message)) > maxConsultationMessage {
		return models.Consultation{}, ErrMessageTooLong
	}
	if _, err := service.activeLink(doctorID, patientID); err != nil {
		return models.Consultation{}, err
	}

	entry := models.Consultation{
		DoctorID:  doctorID,
		PatientID: patientID,
		SenderID:  senderID,
		Message:   message,
		CreatedAt: now,
	}
	if err := service.care.CreateConsultation(&entry); err != nil {
		return models.Consultation{}, err
	}
	return entry, nil
}

// Thread returns the conversation and marks the reader's side as read.
func (service *CareTeamService) Thread(readerID uint, doctorID uint, patientID uint, limit int) ([]models.Consultation, error) {
	if readerID != doctorID && readerID != patientID {
		return nil, ErrNotLinkOwner
	}
	if _, err := service.activeLink(doctorID, patientID); err != nil {
		return nil, err
	}
	entries, err := service.care.ListConsultations(doctorID, patientID, limit)
	if err != nil {
		return nil, err
	}
	if err := service.care.MarkRead(doctorID, patientID, readerID); err != nil {
		return nil, err
	}
	return entries, nil
}

func (service *CareTeamService) UnreadCount(readerID uint, doctorID uint, patientID uint) (int64, error) {
	if readerID != doctorID && readerID != patientID {
		return 0, ErrNotLinkOwner
	}
	return service.care.CountUnread(doctorID, patientID, readerID)
}
