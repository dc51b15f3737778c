package db

import (
	"github.com/pregoway/pregoway/internal/models"
	"gorm.io/gorm"
)

type RiskLogRepository struct {
	database *gorm.DB
}

func NewRiskLogRepository(database *gorm.DB) *RiskLogRepository {
	return &RiskLogRepository{database: database}
}

func (repo *RiskLogRepository) Create(entry *models.RiskLog) error {
	return withWriteRetry(func() error {
		return repo.database.Create(entry).Error
	})
}

func (repo *RiskLogRepository) LatestByUser(userID uint) (models.RiskLog, bool, error) {
	entry := models.RiskLog{}
	result := repo.database.
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(1).
		Find(&entry)
	if result.Error != nil {
		return models.RiskLog{}, false, result.Error
	}
	if result.RowsAffected == 0 {
		return models.RiskLog{}, false, nil
	}
	return entry, true, nil
}

func (repo *RiskLogRepository) ListByUser(userID uint, limit int) ([]models.RiskLog, error) {
	query := repo.database.Where("user_id = ?", userID).Order("created_at DESC, id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	entries := make([]models.RiskLog, 0)
	if err := query.Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
