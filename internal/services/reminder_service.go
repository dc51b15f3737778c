package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pregoway/pregoway/internal/models"
	"github.com/rs/zerolog"
)

// Notifier delivers one reminder to one patient.
type Notifier interface {
	Notify(ctx context.Context, user models.User, message string) error
}

// LogNotifier writes reminders to the application log. It is the default
// delivery channel when no webhook is configured.
type LogNotifier struct {
	logger zerolog.Logger
}

func NewLogNotifier(logger zerolog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (notifier *LogNotifier) Notify(_ context.Context, user models.User, message string) error {
	notifier.logger.Info().
		Uint("user_id", user.ID).
		Str("message", message).
		Msg("reminder")
	return nil
}

// WebhookNotifier posts reminders to an external delivery service, typically
// a push-notification or SMS gateway.
type WebhookNotifier struct {
	client *resty.Client
}

func NewWebhookNotifier(webhookURL string) *WebhookNotifier {
	client := resty.New().
		SetBaseURL(webhookURL).
		SetTimeout(8 * time.Second).
		SetRetryCount(2)
	return &WebhookNotifier{client: client}
}

func (notifier *WebhookNotifier) Notify(ctx context.Context, user models.User, message string) error {
	response, err := notifier.client.R().
		SetContext(ctx).
		SetBody(map[string]any{
			"user_id": user.ID,
			"email":   user.Email,
			"message": message,
		}).
		Post("")
	if err != nil {
		return err
	}
	if response.IsError() {
		return fmt.Errorf("webhook status %d", response.StatusCode())
	}
	return nil
}

type ReminderPatientLister interface {
	ListPatientsWithLMP() ([]models.User, error)
}

type ReminderCheckinReader interface {
	FindByUserAndDayRange(userID uint, dayStart time.Time, dayEnd time.Time) (models.Checkin, bool, error)
}

type ReminderTimelineReader interface {
	ListByUser(userID uint) ([]models.TimelineEvent, error)
}

// ReminderTranslator renders reminder texts in the patient's language.
type ReminderTranslator interface {
	Translate(language string, key string) string
	Translatef(language string, key string, args ...any) string
}

// ReminderService nudges patients who have not checked in by the configured
// hour, and announces milestones coming up in two days. One reminder of each
// kind per patient per day.
type ReminderService struct {
	users    ReminderPatientLister
	checkins ReminderCheckinReader
	timeline ReminderTimelineReader
	notifier Notifier
	messages ReminderTranslator
	location *time.Location
	hour     int
	logger   zerolog.Logger

	mu       sync.Mutex
	sentOn   map[string]time.Time
	interval time.Duration
}

func NewReminderService(
	users ReminderPatientLister,
	checkins ReminderCheckinReader,
	timeline ReminderTimelineReader,
	notifier Notifier,
	messages ReminderTranslator,
	location *time.Location,
	hour int,
	logger zerolog.Logger,
) *ReminderService {
	if location == nil {
		location = time.UTC
	}
	return &ReminderService{
		users:    users,
		checkins: checkins,
		timeline: timeline,
		notifier: notifier,
		messages: messages,
		location: location,
		hour:     hour,
		logger:   logger,
		sentOn:   make(map[string]time.Time),
		interval: time.Hour,
	}
}

func (service *ReminderService) Start(ctx context.Context) {
	ticker := time.NewTicker(service.interval)
	go func() {
		defer ticker.Stop()

		service.run(ctx, time.Now())
		for {
			select {
			case <-ctx.Done():
				return
			case tick := <-ticker.C:
				service.run(ctx, tick)
			}
		}
	}()
}

func (service *ReminderService) run(ctx context.Context, now time.Time) {
	localNow := now.In(service.location)
	if localNow.Hour() < service.hour {
		return
	}

	patients, err := service.users.ListPatientsWithLMP()
	if err != nil {
		service.logger.Error().Err(err).Msg("reminders: listing patients failed")
		return
	}

	today := DateAtLocation(localNow, service.location)
	dayStart, dayEnd := DayRange(localNow, service.location)

	for _, patient := range patients {
		service.remindCheckin(ctx, patient, today, dayStart, dayEnd)
		service.remindMilestones(ctx, patient, today)
	}
}

func (service *ReminderService) remindCheckin(ctx context.Context, patient models.User, today time.Time, dayStart time.Time, dayEnd time.Time) {
	key := fmt.Sprintf("checkin:%d:%s", patient.ID, today.Format("2006-01-02"))
	if !service.shouldSend(key, today) {
		return
	}

	_, done, err := service.checkins.FindByUserAndDayRange(patient.ID, dayStart, dayEnd)
	if err != nil {
		service.logger.Error().Err(err).Uint("user_id", patient.ID).Msg("reminders: check-in lookup failed")
		return
	}
	if done {
		return
	}
	message := service.messages.Translate(patient.Language, "reminder.checkin")
	if err := service.notifier.Notify(ctx, patient, message); err != nil {
		service.logger.Error().Err(err).Uint("user_id", patient.ID).Msg("reminders: check-in nudge failed")
	}
}

func (service *ReminderService) remindMilestones(ctx context.Context, patient models.User, today time.Time) {
	events, err := service.timeline.ListByUser(patient.ID)
	if err != nil {
		service.logger.Error().Err(err).Uint("user_id", patient.ID).Msg("reminders: timeline lookup failed")
		return
	}

	target := today.AddDate(0, 0, 2)
	for _, event := range events {
		if event.Status == models.EventCompleted {
			continue
		}
		eventDay := DateAtLocation(event.EventDate, service.location)
		if !eventDay.Equal(target) {
			continue
		}
		key := fmt.Sprintf("milestone:%d:%d:%s", patient.ID, event.ID, today.Format("2006-01-02"))
		if !service.shouldSend(key, today) {
			continue
		}
		message := service.messages.Translatef(patient.Language, "reminder.milestone", eventDay.Format("Jan 2"), event.Title)
		if err := service.notifier.Notify(ctx, patient, message); err != nil {
			service.logger.Error().Err(err).Uint("user_id", patient.ID).Msg("reminders: milestone notice failed")
		}
	}
}

func (service *ReminderService) shouldSend(key string, today time.Time) bool {
	service.mu.Lock()
	defer service.mu.Unlock()

	if sentOn, ok := service.sentOn[key]; ok && sentOn.Equal(today) {
		return false
	}
	service.sentOn[key] = today
	if len(service.sentOn) > 2000 {
		service.sentOn = make(map[string]time.Time)
	}
	return true
}
