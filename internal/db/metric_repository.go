package db

import (
	"time"

	"github.com/pregoway/pregoway/internal/models"
	"gorm.io/gorm"
)

type MetricRepository struct {
	database *gorm.DB
}

func NewMetricRepository(database *gorm.DB) *MetricRepository {
	return &MetricRepository{database: database}
}

func (repo *MetricRepository) Create(metric *models.HealthMetric) error {
	return withWriteRetry(func() error {
		return repo.database.Create(metric).Error
	})
}

func (repo *MetricRepository) ListByUser(userID uint, metricType string, limit int) ([]models.HealthMetric, error) {
	query := repo.database.Where("user_id = ?", userID)
	if metricType != "" {
		query = query.Where("type = ?", metricType)
	}
	query = query.Order("created_at DESC, id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	metrics := make([]models.HealthMetric, 0)
	if err := query.Find(&metrics).Error; err != nil {
		return nil, err
	}
	return metrics, nil
}

func (repo *MetricRepository) ListByUserRange(userID uint, fromStart *time.Time, toEnd *time.Time) ([]models.HealthMetric, error) {
	query := repo.database.Model(&models.HealthMetric{}).Where("user_id = ?", userID)
	if fromStart != nil {
		query = query.Where("created_at >= ?", *fromStart)
	}
	if toEnd != nil {
		query = query.Where("created_at < ?", *toEnd)
	}

	metrics := make([]models.HealthMetric, 0)
	if err := query.Order("created_at ASC, id ASC").Find(&metrics).Error; err != nil {
		return nil, err
	}
	return metrics, nil
}

func (repo *MetricRepository) LatestByUserAndType(userID uint, metricType string) (models.HealthMetric, bool, error) {
	metric := models.HealthMetric{}
	result := repo.database.
		Where("user_id = ? AND type = ?", userID, metricType).
		Order("created_at DESC, id DESC").
		Limit(1).
		Find(&metric)
	if result.Error != nil {
		return models.HealthMetric{}, false, result.Error
	}
	if result.RowsAffected == 0 {
		return models.HealthMetric{}, false, nil
	}
	return metric, true, nil
}
