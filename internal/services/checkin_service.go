package services

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/pregoway/pregoway/internal/models"
	"github.com/rs/zerolog"
)

var ErrCheckinAlreadyDone = errors.New("check-in already recorded for this day")

type CheckinRepository interface {
	FindByUserAndDayRange(userID uint, dayStart time.Time, dayEnd time.Time) (models.Checkin, bool, error)
	CreateWithMetrics(checkin *models.Checkin, metrics []models.HealthMetric) error
	ListByUser(userID uint, limit int) ([]models.Checkin, error)
	CountByUser(userID uint) (int64, error)
}

type RiskLogRepository interface {
	Create(entry *models.RiskLog) error
	LatestByUser(userID uint) (models.RiskLog, bool, error)
	ListByUser(userID uint, limit int) ([]models.RiskLog, error)
}

type RiskStatusWriter interface {
	UpdateRiskStatus(userID uint, riskStatus string) error
}

type CheckinService struct {
	checkins CheckinRepository
	riskLogs RiskLogRepository
	users    RiskStatusWriter
	scorer   RiskScorer
	location *time.Location
	logger   zerolog.Logger
}

func NewCheckinService(
	checkins CheckinRepository,
	riskLogs RiskLogRepository,
	users RiskStatusWriter,
	scorer RiskScorer,
	location *time.Location,
	logger zerolog.Logger,
) *CheckinService {
	if location == nil {
		location = time.UTC
	}
	return &CheckinService{
		checkins: checkins,
		riskLogs: riskLogs,
		users:    users,
		scorer:   scorer,
		location: location,
		logger:   logger,
	}
}

// HasCheckinForDay reports whether the user already checked in on the civil
// day containing now.
func (service *CheckinService) HasCheckinForDay(userID uint, now time.Time) (bool, error) {
	dayStart, dayEnd := DayRange(now, service.location)
	_, found, err := service.checkins.FindByUserAndDayRange(userID, dayStart, dayEnd)
	return found, err
}

// Submit validates and stores a full day's answers. One check-in per civil
// day; the kick count is mirrored into health metrics in the same
// transaction. Risk scoring runs after the write and never blocks the caller.
func (service *CheckinService) Submit(userID uint, answers models.AnswerSet, now time.Time) (models.Checkin, error) {
	if err := ReplayAnswerSet(answers); err != nil {
		return models.Checkin{}, err
	}

	dayStart, dayEnd := DayRange(now, service.location)
	if _, found, err := service.checkins.FindByUserAndDayRange(userID, dayStart, dayEnd); err != nil {
		return models.Checkin{}, err
	} else if found {
		return models.Checkin{}, ErrCheckinAlreadyDone
	}

	checkin := models.Checkin{
		UserID:    userID,
		Day:       dayStart,
		Answers:   answers,
		CreatedAt: now,
	}
	if err := service.checkins.CreateWithMetrics(&checkin, deriveMetrics(userID, answers, now)); err != nil {
		if isDuplicateDayError(err) {
			return models.Checkin{}, ErrCheckinAlreadyDone
		}
		return models.Checkin{}, err
	}

	go service.scoreCheckin(userID, answers)
	return checkin, nil
}

// isDuplicateDayError recognizes the unique index on (user_id, day) firing
// when a second submission races past the same-day pre-check.
func isDuplicateDayError(err error) bool {
	return strings.Contains(err.Error(), "UNIQUE constraint failed: checkins")
}

// deriveMetrics extracts the vitals a check-in implies. Currently only the
// kick count feeds the metrics history.
func deriveMetrics(userID uint, answers models.AnswerSet, now time.Time) []models.HealthMetric {
	kicks, ok := answers[QuestionKicks]
	if !ok {
		return nil
	}
	value := strings.TrimSpace(kicks.Numeric)
	if _, err := strconv.Atoi(value); err != nil {
		return nil
	}
	return []models.HealthMetric{{
		UserID:    userID,
		Type:      models.MetricKicks,
		Value:     value,
		Unit:      "kicks",
		CreatedAt: now,
	}}
}

func (service *CheckinService) scoreCheckin(userID uint, answers models.AnswerSet) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	assessment, err := service.scorer.Score(ctx, answers)
	if err != nil {
		service.logger.Error().Err(err).Uint("user_id", userID).Msg("risk scoring failed")
		return
	}

	entry := models.RiskLog{
		UserID:    userID,
		Score:     assessment.Score,
		Level:     assessment.Level,
		Insight:   assessment.Insight,
		CreatedAt: time.Now(),
	}
	if err := service.riskLogs.Create(&entry); err != nil {
		service.logger.Error().Err(err).Uint("user_id", userID).Msg("storing risk log failed")
		return
	}
	if err := service.users.UpdateRiskStatus(userID, models.RiskStatusForLevel(assessment.Level)); err != nil {
		service.logger.Error().Err(err).Uint("user_id", userID).Msg("updating risk status failed")
	}
}

func (service *CheckinService) History(userID uint, limit int) ([]models.Checkin, error) {
	return service.checkins.ListByUser(userID, limit)
}

func (service *CheckinService) LatestRisk(userID uint) (models.RiskLog, bool, error) {
	return service.riskLogs.LatestByUser(userID)
}

func (service *CheckinService) RiskHistory(userID uint, limit int) ([]models.RiskLog, error) {
	return service.riskLogs.ListByUser(userID, limit)
}
