package services

import (
	"errors"
	"strings"
	"time"

	"github.com/pregoway/pregoway/internal/models"
)

var (
	ErrLMPInFuture   = errors.New("lmp cannot be in the future")
	ErrLMPTooOld     = errors.New("lmp is too far in the past")
	ErrNameRequired  = errors.New("name required")
	ErrOnboardingLMP = errors.New("lmp required to complete onboarding")
)

type ProfileUserRepository interface {
	FindByID(userID uint) (models.User, error)
	UpdateByID(userID uint, updates map[string]any) error
}

type ProfileService struct {
	users    ProfileUserRepository
	location *time.Location
}

func NewProfileService(users ProfileUserRepository, location *time.Location) *ProfileService {
	if location == nil {
		location = time.UTC
	}
	return &ProfileService{users: users, location: location}
}

// ValidateLMP bounds the last menstrual period to a plausible window: not in
// the future and no further back than a full term plus a grace month.
func (service *ProfileService) ValidateLMP(lmp time.Time, now time.Time) error {
	day := DateAtLocation(lmp, service.location)
	today := DateAtLocation(now, service.location)
	if day.After(today) {
		return ErrLMPInFuture
	}
	if day.Before(today.AddDate(0, 0, -(models.GestationDays + 30))) {
		return ErrLMPTooOld
	}
	return nil
}

// ProfileUpdate carries the optional fields an update may touch. Nil means
// leave unchanged.
type ProfileUpdate struct {
	Name     *string
	Language *string
	LMP      *time.Time
}

// UpdateProfile applies the changed fields. A new lmp recomputes the stored
// current week; timeline events keep their persisted statuses and dates.
func (service *ProfileService) UpdateProfile(userID uint, update ProfileUpdate, now time.Time) (models.User, error) {
	user, err := service.users.FindByID(userID)
	if err != nil {
		return models.User{}, err
	}

	updates := map[string]any{}
	if update.Name != nil {
		name := strings.TrimSpace(*update.Name)
		if name == "" {
			return models.User{}, ErrNameRequired
		}
		updates["name"] = name
		user.Name = name
	}
	if update.Language != nil {
		updates["language"] = *update.Language
		user.Language = *update.Language
	}

	if update.LMP != nil {
		if err := service.ValidateLMP(*update.LMP, now); err != nil {
			return models.User{}, err
		}
		day := DateAtLocation(*update.LMP, service.location)
		user.LMP = &day
		updates["lmp"] = day

		week, known := GestationalWeek(&day, now, service.location)
		if known {
			user.CurrentWeek = &week
			updates["current_week"] = week
		} else {
			user.CurrentWeek = nil
			updates["current_week"] = nil
		}
	}

	if len(updates) == 0 {
		return user, nil
	}
	if err := service.users.UpdateByID(userID, updates); err != nil {
		return models.User{}, err
	}
	return user, nil
}

// CompleteOnboarding finalizes the first-run flow. The lmp must already be
// set, either at registration or through a profile update.
func (service *ProfileService) CompleteOnboarding(userID uint, now time.Time) (models.User, error) {
	user, err := service.users.FindByID(userID)
	if err != nil {
		return models.User{}, err
	}
	if user.Role == models.RolePatient && user.LMP == nil {
		return models.User{}, ErrOnboardingLMP
	}
	if user.OnboardingCompleted {
		return user, nil
	}
	if err := service.users.UpdateByID(userID, map[string]any{"onboarding_completed": true}); err != nil {
		return models.User{}, err
	}
	user.OnboardingCompleted = true
	return user, nil
}

// RefreshCurrentWeek recomputes and persists the stored week when it has
// drifted from the calendar. Called on profile reads.
func (service *ProfileService) RefreshCurrentWeek(user *models.User, now time.Time) error {
	week, known := GestationalWeek(user.LMP, now, service.location)
	if !known {
		if user.CurrentWeek == nil {
			return nil
		}
		user.CurrentWeek = nil
		return service.users.UpdateByID(user.ID, map[string]any{"current_week": nil})
	}
	if user.CurrentWeek != nil && *user.CurrentWeek == week {
		return nil
	}
	user.CurrentWeek = &week
	return service.users.UpdateByID(user.ID, map[string]any{"current_week": week})
}
