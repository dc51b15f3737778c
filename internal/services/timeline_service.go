package services

import (
	"errors"
	"time"

	"github.com/pregoway/pregoway/internal/models"
)

var ErrEventNotFound = errors.New("timeline event not found")

const (
	DisplayCompleted = "completed"
	DisplayUpcoming  = "upcoming"
	DisplayFuture    = "future"
)

type TimelineRepository interface {
	ListByUser(userID uint) ([]models.TimelineEvent, error)
	FindByIDForUser(eventID uint, userID uint) (models.TimelineEvent, error)
	CreateBatch(events []models.TimelineEvent) error
	UpdateStatus(eventID uint, userID uint, status string) error
	UpdateEventDate(eventID uint, userID uint, eventDate time.Time) error
	DeleteByIDs(userID uint, eventIDs []uint) error
}

type TimelineService struct {
	events   TimelineRepository
	location *time.Location
}

func NewTimelineService(events TimelineRepository, location *time.Location) *TimelineService {
	if location == nil {
		location = time.UTC
	}
	return &TimelineService{events: events, location: location}
}

// EventWithStatus pairs a stored event with its derived display status.
type EventWithStatus struct {
	models.TimelineEvent
	DisplayStatus string `json:"display_status"`
}

// GenerateEvents builds the fixed milestone schedule anchored at lmp. Event
// dates land on the first day of each milestone's week.
func GenerateEvents(userID uint, lmp time.Time, now time.Time, location *time.Location) []models.TimelineEvent {
	anchor := DateAtLocation(lmp, location)
	milestones := models.DefaultMilestones()
	events := make([]models.TimelineEvent, 0, len(milestones))
	for _, milestone := range milestones {
		events = append(events, models.TimelineEvent{
			UserID:      userID,
			WeekOffset:  milestone.WeekOffset,
			Title:       milestone.Title,
			Category:    milestone.Category,
			Description: milestone.Description,
			EventDate:   anchor.AddDate(0, 0, milestone.WeekOffset*7),
			Status:      models.EventPending,
			CreatedAt:   now,
		})
	}
	return events
}

// LoadOrInitialize returns the user's timeline, generating the milestone
// schedule on first access. Duplicate rows sharing (week_offset, title) are
// collapsed to the earliest-created one and the rest deleted.
func (service *TimelineService) LoadOrInitialize(userID uint, lmp *time.Time, now time.Time) ([]EventWithStatus, error) {
	if lmp == nil {
		return []EventWithStatus{}, nil
	}

	events, err := service.events.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	if len(events) == 0 {
		generated := GenerateEvents(userID, *lmp, now, service.location)
		if err := service.events.CreateBatch(generated); err != nil {
			return nil, err
		}
		events, err = service.events.ListByUser(userID)
		if err != nil {
			return nil, err
		}
	}

	events, stale := dedupeEvents(events)
	if len(stale) > 0 {
		if err := service.events.DeleteByIDs(userID, stale); err != nil {
			return nil, err
		}
	}

	week, known := GestationalWeek(lmp, now, service.location)
	decorated := make([]EventWithStatus, 0, len(events))
	for _, event := range events {
		decorated = append(decorated, EventWithStatus{
			TimelineEvent: event,
			DisplayStatus: DeriveDisplayStatus(event, week, known),
		})
	}
	return decorated, nil
}

// dedupeEvents keeps the earliest row per (week_offset, title) pair. The input
// is ordered by week_offset, created_at, id, so the first occurrence wins.
func dedupeEvents(events []models.TimelineEvent) ([]models.TimelineEvent, []uint) {
	type key struct {
		week  int
		title string
	}
	seen := make(map[key]bool, len(events))
	kept := make([]models.TimelineEvent, 0, len(events))
	stale := make([]uint, 0)
	for _, event := range events {
		k := key{week: event.WeekOffset, title: event.Title}
		if seen[k] {
			stale = append(stale, event.ID)
			continue
		}
		seen[k] = true
		kept = append(kept, event)
	}
	return kept, stale
}

// DeriveDisplayStatus maps a stored event onto what the timeline shows.
// Completed events stay completed. A pending event whose week has been reached
// is upcoming, including overdue ones; a pending event past the current week
// is future. With an unknown current week every pending event is future.
func DeriveDisplayStatus(event models.TimelineEvent, currentWeek int, weekKnown bool) string {
	if event.Status == models.EventCompleted {
		return DisplayCompleted
	}
	if !weekKnown {
		return DisplayFuture
	}
	if event.WeekOffset <= currentWeek {
		return DisplayUpcoming
	}
	return DisplayFuture
}

// MarkComplete is idempotent; completing an already completed event is a no-op.
func (service *TimelineService) MarkComplete(userID uint, eventID uint) error {
	return service.setStatus(userID, eventID, models.EventCompleted)
}

// MarkPending reverts a completed event back to pending.
func (service *TimelineService) MarkPending(userID uint, eventID uint) error {
	return service.setStatus(userID, eventID, models.EventPending)
}

func (service *TimelineService) setStatus(userID uint, eventID uint, status string) error {
	event, err := service.events.FindByIDForUser(eventID, userID)
	if err != nil {
		return ErrEventNotFound
	}
	if event.Status == status {
		return nil
	}
	return service.events.UpdateStatus(eventID, userID, status)
}

// Reschedule moves an event's date. The week offset is a semantic label and is
// never recomputed from the new date.
func (service *TimelineService) Reschedule(userID uint, eventID uint, eventDate time.Time) error {
	if _, err := service.events.FindByIDForUser(eventID, userID); err != nil {
		return ErrEventNotFound
	}
	return service.events.UpdateEventDate(eventID, userID, DateAtLocation(eventDate, service.location))
}
