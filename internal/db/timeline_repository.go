package db

import (
	"time"

	"github.com/pregoway/pregoway/internal/models"
	"gorm.io/gorm"
)

type TimelineRepository struct {
	database *gorm.DB
}

func NewTimelineRepository(database *gorm.DB) *TimelineRepository {
	return &TimelineRepository{database: database}
}

func (repo *TimelineRepository) ListByUser(userID uint) ([]models.TimelineEvent, error) {
	events := make([]models.TimelineEvent, 0)
	if err := repo.database.
		Where("user_id = ?", userID).
		Order("week_offset ASC, created_at ASC, id ASC").
		Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

func (repo *TimelineRepository) FindByIDForUser(eventID uint, userID uint) (models.TimelineEvent, error) {
	var event models.TimelineEvent
	if err := repo.database.
		Where("id = ? AND user_id = ?", eventID, userID).
		First(&event).Error; err != nil {
		return models.TimelineEvent{}, err
	}
	return event, nil
}

func (repo *TimelineRepository) CreateBatch(events []models.TimelineEvent) error {
	if len(events) == 0 {
		return nil
	}
	return withWriteRetry(func() error {
		return repo.database.Transaction(func(tx *gorm.DB) error {
			for index := range events {
				if err := tx.Create(&events[index]).Error; err != nil {
					return err
				}
			}
			return nil
		})
	})
}

func (repo *TimelineRepository) UpdateStatus(eventID uint, userID uint, status string) error {
	return withWriteRetry(func() error {
		return repo.database.Model(&models.TimelineEvent{}).
			Where("id = ? AND user_id = ?", eventID, userID).
			Update("status", status).Error
	})
}

func (repo *TimelineRepository) UpdateEventDate(eventID uint, userID uint, eventDate time.Time) error {
	return withWriteRetry(func() error {
		return repo.database.Model(&models.TimelineEvent{}).
			Where("id = ? AND user_id = ?", eventID, userID).
			Update("event_date", eventDate).Error
	})
}

func (repo *TimelineRepository) DeleteByIDs(userID uint, eventIDs []uint) error {
	if len(eventIDs) == 0 {
		return nil
	}
	return withWriteRetry(func() error {
		return repo.database.
			Where("user_id = ? AND id IN ?", userID, eventIDs).
			Delete(&models.TimelineEvent{}).Error
	})
}
