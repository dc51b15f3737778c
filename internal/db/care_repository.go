package db

import (
	"github.com/pregoway/pregoway/internal/models"
	"gorm.io/gorm"
)

type CareRepository struct {
	database *gorm.DB
}

func NewCareRepository(database *gorm.DB) *CareRepository {
	return &CareRepository{database: database}
}

func (repo *CareRepository) CreateLink(link *models.CareLink) error {
	return withWriteRetry(func() error {
		return repo.database.Create(link).Error
	})
}

func (repo *CareRepository) FindLink(doctorID uint, patientID uint) (models.CareLink, bool, error) {
	link := models.CareLink{}
	result := repo.database.
		Where("doctor_id = ? AND patient_id = ?", doctorID, patientID).
		Limit(1).
		Find(&link)
	if result.Error != nil {
		return models.CareLink{}, false, result.Error
	}
	if result.RowsAffected == 0 {
		return models.CareLink{}, false, nil
	}
	return link, true, nil
}

func (repo *CareRepository) FindLinkByID(linkID uint) (models.CareLink, error) {
	var link models.CareLink
	if err := repo.database.First(&link, linkID).Error; err != nil {
		return models.CareLink{}, err
	}
	return link, nil
}

func (repo *CareRepository) UpdateLinkStatus(linkID uint, status string) error {
	return withWriteRetry(func() error {
		return repo.database.Model(&models.CareLink{}).
			Where("id = ?", linkID).
			Update("status", status).Error
	})
}

func (repo *CareRepository) ListLinksByDoctor(doctorID uint, status string) ([]models.CareLink, error) {
	query := repo.database.Where("doctor_id = ?", doctorID)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	links := make([]models.CareLink, 0)
	if err := query.Order("assigned_at ASC, id ASC").Find(&links).Error; err != nil {
		return nil, err
	}
	return links, nil
}

func (repo *CareRepository) ListLinksByPatient(patientID uint) ([]models.CareLink, error) {
	links := make([]models.CareLink, 0)
	if err := repo.database.
		Where("patient_id = ?", patientID).
		Order("assigned_at ASC, id ASC").
		Find(&links).Error; err != nil {
		return nil, err
	}
	return links, nil
}

func (repo *CareRepository) CountActiveLinksByDoctor(doctorID uint) (int64, error) {
	var count int64
	if err := repo.database.Model(&models.CareLink{}).
		Where("doctor_id = ? AND status = ?", doctorID, models.CareLinkActive).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (repo *CareRepository) CreateConsultation(entry *models.Consultation) error {
	return withWriteRetry(func() error {
		return repo.database.Create(entry).Error
	})
}

func (repo *CareRepository) ListConsultations(doctorID uint, patientID uint, limit int) ([]models.Consultation, error) {
	query := repo.database.
		Where("doctor_id = ? AND patient_id = ?", doctorID, patientID).
		Order("created_at ASC, id ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	entries := make([]models.Consultation, 0)
	if err := query.Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (repo *CareRepository) CountUnread(doctorID uint, patientID uint, readerID uint) (int64, error) {
	var count int64
	if err := repo.database.Model(&models.Consultation{}).
		Where("doctor_id = ? AND patient_id = ? AND sender_id <> ? AND is_read = ?", doctorID, patientID, readerID, false).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (repo *CareRepository) MarkRead(doctorID uint, patientID uint, readerID uint) error {
	return withWriteRetry(func() error {
		return repo.database.Model(&models.Consultation{}).
			Where("doctor_id = ? AND patient_id = ? AND sender_id <> ? AND is_read = ?", doctorID, patientID, readerID, false).
			Update("is_read", true).Error
	})
}
