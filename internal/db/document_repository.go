package db

import (
	"github.com/pregoway/pregoway/internal/models"
	"gorm.io/gorm"
)

type DocumentRepository struct {
	database *gorm.DB
}

func NewDocumentRepository(database *gorm.DB) *DocumentRepository {
	return &DocumentRepository{database: database}
}

func (repo *DocumentRepository) Create(document *models.Document) error {
	return withWriteRetry(func() error {
		return repo.database.Create(document).Error
	})
}

func (repo *DocumentRepository) FindByIDForUser(documentID uint, userID uint) (models.Document, error) {
	var document models.Document
	if err := repo.database.
		Where("id = ? AND user_id = ?", documentID, userID).
		First(&document).Error; err != nil {
		return models.Document{}, err
	}
	return document, nil
}

func (repo *DocumentRepository) FindByObjectKey(objectKey string) (models.Document, error) {
	var document models.Document
	if err := repo.database.
		Where("object_key = ?", objectKey).
		First(&document).Error; err != nil {
		return models.Document{}, err
	}
	return document, nil
}

func (repo *DocumentRepository) ListByUser(userID uint) ([]models.Document, error) {
	documents := make([]models.Document, 0)
	if err := repo.database.
		Where("user_id = ?", userID).
		Order("uploaded_at DESC, id DESC").
		Find(&documents).Error; err != nil {
		return nil, err
	}
	return documents, nil
}

func (repo *DocumentRepository) UpdateAnalysis(documentID uint, userID uint, status string, riskStatus string) error {
	return withWriteRetry(func() error {
		return repo.database.Model(&models.Document{}).
			Where("id = ? AND user_id = ?", documentID, userID).
			Updates(map[string]any{
				"status":      status,
				"risk_status": riskStatus,
			}).Error
	})
}

func (repo *DocumentRepository) Delete(documentID uint, userID uint) error {
	return withWriteRetry(func() error {
		return repo.database.
			Where("id = ? AND user_id = ?", documentID, userID).
			Delete(&models.Document{}).Error
	})
}
