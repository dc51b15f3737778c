package db

import (
	"time"

	"github.com/pregoway/pregoway/internal/models"
	"gorm.io/gorm"
)

type CheckinRepository struct {
	database *gorm.DB
}

func NewCheckinRepository(database *gorm.DB) *CheckinRepository {
	return &CheckinRepository{database: database}
}

func (repo *CheckinRepository) FindByUserAndDayRange(userID uint, dayStart time.Time, dayEnd time.Time) (models.Checkin, bool, error) {
	entry := models.Checkin{}
	result := repo.database.
		Where("user_id = ? AND day >= ? AND day < ?", userID, dayStart, dayEnd).
		Order("day DESC, id DESC").
		Limit(1).
		Find(&entry)
	if result.Error != nil {
		return models.Checkin{}, false, result.Error
	}
	if result.RowsAffected == 0 {
		return models.Checkin{}, false, nil
	}
	return entry, true, nil
}

// CreateWithMetrics stores the check-in and any derived metrics in one transaction.
func (repo *CheckinRepository) CreateWithMetrics(checkin *models.Checkin, metrics []models.HealthMetric) error {
	return withWriteRetry(func() error {
		return repo.database.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(checkin).Error; err != nil {
				return err
			}
			for index := range metrics {
				metrics[index].CheckinID = &checkin.ID
				if err := tx.Create(&metrics[index]).Error; err != nil {
					return err
				}
			}
			return nil
		})
	})
}

func (repo *CheckinRepository) ListByUser(userID uint, limit int) ([]models.Checkin, error) {
	query := repo.database.Where("user_id = ?", userID).Order("day DESC, id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	checkins := make([]models.Checkin, 0)
	if err := query.Find(&checkins).Error; err != nil {
		return nil, err
	}
	return checkins, nil
}

func (repo *CheckinRepository) ListByUserRange(userID uint, fromStart *time.Time, toEnd *time.Time) ([]models.Checkin, error) {
	query := repo.database.Model(&models.Checkin{}).Where("user_id = ?", userID)
	if fromStart != nil {
		query = query.Where("day >= ?", *fromStart)
	}
	if toEnd != nil {
		query = query.Where("day < ?", *toEnd)
	}

	checkins := make([]models.Checkin, 0)
	if err := query.Order("day ASC, id ASC").Find(&checkins).Error; err != nil {
		return nil, err
	}
	return checkins, nil
}

func (repo *CheckinRepository) CountByUser(userID uint) (int64, error) {
	var count int64
	if err := repo.database.Model(&models.Checkin{}).
		Where("user_id = ?", userID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
