package services

import (
	"errors"
	"testing"
	"time"

	"github.com/pregoway/pregoway/internal/models"
	"github.com/rs/zerolog"
)

type stubCheckinRepo struct {
	existing      *models.Checkin
	created       *models.Checkin
	createdMetric []models.HealthMetric
	createErr     error
}

func (stub *stubCheckinRepo) FindByUserAndDayRange(uint, time.Time, time.Time) (models.Checkin, bool, error) {
	if stub.existing != nil {
		return *stub.existing, true, nil
	}
	return models.Checkin{}, false, nil
}

func (stub *stubCheckinRepo) CreateWithMetrics(checkin *models.Checkin, metrics []models.HealthMetric) error {
	if stub.createErr != nil {
		return stub.createErr
	}
	checkin.ID = 1
	stub.created = checkin
	stub.createdMetric = metrics
	return nil
}

func (stub *stubCheckinRepo) ListByUser(uint, int) ([]models.Checkin, error) {
	return nil, nil
}

func (stub *stubCheckinRepo) CountByUser(uint) (int64, error) {
	return 0, nil
}

type stubRiskLogRepo struct {
	created *models.RiskLog
	latest  *models.RiskLog
}

func (stub *stubRiskLogRepo) Create(entry *models.RiskLog) error {
	entry.ID = 1
	stub.created = entry
	return nil
}

func (stub *stubRiskLogRepo) LatestByUser(uint) (models.RiskLog, bool, error) {
	if stub.latest == nil {
		return models.RiskLog{}, false, nil
	}
	return *stub.latest, true, nil
}

func (stub *stubRiskLogRepo) ListByUser(uint, int) ([]models.RiskLog, error) {
	return nil, nil
}

type stubRiskStatusWriter struct {
	userID uint
	status string
}

func (stub *stubRiskStatusWriter) UpdateRiskStatus(userID uint, riskStatus string) error {
	stub.userID = userID
	stub.status = riskStatus
	return nil
}

func validAnswers() models.AnswerSet {
	return models.AnswerSet{
		QuestionEnergy:   models.ScaleAnswer(3),
		QuestionHeadache: models.YesNoAnswer(false),
		QuestionKicks:    models.NumericAnswer("12"),
		QuestionSymptoms: models.MultiSelectAnswer([]string{SymptomNone}),
	}
}

func newTestCheckinService(checkins *stubCheckinRepo, riskLogs *stubRiskLogRepo, users *stubRiskStatusWriter) *CheckinService {
	return NewCheckinService(checkins, riskLogs, users, HeuristicScorer{}, time.UTC, zerolog.Nop())
}

func TestSubmitStoresCheckinWithKicksMetric(t *testing.T) {
	repo := &stubCheckinRepo{}
	service := newTestCheckinService(repo, &stubRiskLogRepo{}, &stubRiskStatusWriter{})

	now := time.Date(2025, 7, 2, 14, 30, 0, 0, time.UTC)
	checkin, err := service.Submit(7, validAnswers(), now)
	if err != nil {
		t.Fatalf("Submit() unexpected error: %v", err)
	}
	if got := checkin.Day.Format("2006-01-02"); got != "2025-07-02" {
		t.Fatalf("expected day 2025-07-02, got %s", got)
	}
	if len(repo.createdMetric) != 1 {
		t.Fatalf("expected 1 derived metric, got %d", len(repo.createdMetric))
	}
	metric := repo.createdMetric[0]
	if metric.Type != models.MetricKicks || metric.Value != "12" || metric.Unit != "kicks" {
		t.Fatalf("unexpected derived metric %+v", metric)
	}
}

func TestSubmitRejectsSecondCheckinSameDay(t *testing.T) {
	repo := &stubCheckinRepo{existing: &models.Checkin{ID: 1, UserID: 7}}
	service := newTestCheckinService(repo, &stubRiskLogRepo{}, &stubRiskStatusWriter{})

	_, err := service.Submit(7, validAnswers(), time.Now())
	if !errors.Is(err, ErrCheckinAlreadyDone) {
		t.Fatalf("expected ErrCheckinAlreadyDone, got %v", err)
	}
}

func TestSubmitTranslatesDuplicateDayConstraint(t *testing.T) {
	repo := &stubCheckinRepo{createErr: errors.New("UNIQUE constraint failed: checkins.user_id, checkins.day")}
	service := newTestCheckinService(repo, &stubRiskLogRepo{}, &stubRiskStatusWriter{})

	_, err := service.Submit(7, validAnswers(), time.Now())
	if !errors.Is(err, ErrCheckinAlreadyDone) {
		t.Fatalf("expected ErrCheckinAlreadyDone for a racing duplicate, got %v", err)
	}
}

func TestSubmitRejectsIncompleteAnswers(t *testing.T) {
	service := newTestCheckinService(&stubCheckinRepo{}, &stubRiskLogRepo{}, &stubRiskStatusWriter{})

	answers := validAnswers()
	delete(answers, QuestionSymptoms)
	if _, err := service.Submit(7, answers, time.Now()); err == nil {
		t.Fatal("expected validation error for missing symptoms answer")
	}
}

func TestScoreCheckinWritesLogAndStatus(t *testing.T) {
	riskLogs := &stubRiskLogRepo{}
	users := &stubRiskStatusWriter{}
	service := newTestCheckinService(&stubCheckinRepo{}, riskLogs, users)

	answers := models.AnswerSet{
		QuestionEnergy:           models.ScaleAnswer(2),
		QuestionHeadache:         models.YesNoAnswer(true),
		QuestionHeadacheSeverity: models.ScaleAnswer(9),
		QuestionKicks:            models.NumericAnswer("6"),
		QuestionSymptoms:         models.MultiSelectAnswer([]string{"Vaginal bleeding"}),
	}
	service.scoreCheckin(7, answers)

	if riskLogs.created == nil {
		t.Fatal("expected risk log to be written")
	}
	if riskLogs.created.Level != models.LevelRed {
		t.Fatalf("expected red level, got %s", riskLogs.created.Level)
	}
	if users.status != models.RiskStatusHigh {
		t.Fatalf("expected high risk status, got %q", users.status)
	}
	if users.userID != 7 {
		t.Fatalf("expected status update for user 7, got %d", users.userID)
	}
}
