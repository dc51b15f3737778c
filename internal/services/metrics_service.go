package services

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pregoway/pregoway/internal/models"
)

var ErrUnknownMetricType = errors.New("unknown metric type")

type MetricRepository interface {
	Create(metric *models.HealthMetric) error
	ListByUser(userID uint, metricType string, limit int) ([]models.HealthMetric, error)
	LatestByUserAndType(userID uint, metricType string) (models.HealthMetric, bool, error)
}

type MetricsService struct {
	metrics  MetricRepository
	location *time.Location
}

func NewMetricsService(metrics MetricRepository, location *time.Location) *MetricsService {
	if location == nil {
		location = time.UTC
	}
	return &MetricsService{metrics: metrics, location: location}
}

func metricUnit(metricType string) (string, bool) {
	switch metricType {
	case models.MetricWeight:
		return "kg", true
	case models.MetricBP:
		return "mmHg", true
	case models.MetricHB:
		return "g/dL", true
	case models.MetricKicks:
		return "kicks", true
	default:
		return "", false
	}
}

// ValidateMetricValue checks a reading's shape before it is stored. Blood
// pressure is a "systolic/diastolic" pair of positive integers with the
// systolic strictly higher; the rest are positive decimal readings, kicks a
// whole count.
func ValidateMetricValue(metricType string, value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return fmt.Errorf("%s: value required", metricType)
	}

	switch metricType {
	case models.MetricBP:
		parts := strings.Split(value, "/")
		if len(parts) != 2 {
			return fmt.Errorf("%s: expected systolic/diastolic, got %q", metricType, value)
		}
		systolic, err := strconv.Atoi(strings.TrimSpace(parts[0]))
		if err != nil {
			return fmt.Errorf("%s: systolic %q is not a number", metricType, parts[0])
		}
		diastolic, err := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil {
			return fmt.Errorf("%s: diastolic %q is not a number", metricType, parts[1])
		}
		if diastolic <= 0 || systolic <= diastolic {
			return fmt.Errorf("%s: %d/%d is not a valid reading", metricType, systolic, diastolic)
		}
	case models.MetricWeight, models.MetricHB:
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil || parsed <= 0 {
			return fmt.Errorf("%s: %q is not a positive reading", metricType, value)
		}
	case models.MetricKicks:
		parsed, err := strconv.Atoi(value)
		if err != nil || parsed < 0 {
			return fmt.Errorf("%s: %q is not a non-negative count", metricType, value)
		}
	default:
		return ErrUnknownMetricType
	}
	return nil
}

// Record validates and stores a reading, stamping the canonical unit.
func (service *MetricsService) Record(userID uint, metricType string, value string, now time.Time) (models.HealthMetric, error) {
	metricType = strings.ToUpper(strings.TrimSpace(metricType))
	unit, known := metricUnit(metricType)
	if !known {
		return models.HealthMetric{}, ErrUnknownMetricType
	}
	value = strings.TrimSpace(value)
	if err := ValidateMetricValue(metricType, value); err != nil {
		return models.HealthMetric{}, err
	}

	metric := models.HealthMetric{
		UserID:    userID,
		Type:      metricType,
		Value:     value,
		Unit:      unit,
		CreatedAt: now,
	}
	if err := service.metrics.Create(&metric); err != nil {
		return models.HealthMetric{}, err
	}
	return metric, nil
}

func (service *MetricsService) History(userID uint, metricType string, limit int) ([]models.HealthMetric, error) {
	metricType = strings.ToUpper(strings.TrimSpace(metricType))
	if metricType != "" {
		if _, known := metricUnit(metricType); !known {
			return nil, ErrUnknownMetricType
		}
	}
	return service.metrics.ListByUser(userID, metricType, limit)
}

func (service *MetricsService) Latest(userID uint, metricType string) (models.HealthMetric, bool, error) {
	metricType = strings.ToUpper(strings.TrimSpace(metricType))
	if _, known := metricUnit(metricType); !known {
		return models.HealthMetric{}, false, ErrUnknownMetricType
	}
	return service.metrics.LatestByUserAndType(userID, metricType)
}
