package services

import (
	"math"
	"time"

	"github.com/pregoway/pregoway/internal/models"
)

// daysBetween counts calendar days between two midnight-anchored times.
// Rounding absorbs DST transitions where a civil day is not 24 hours.
func daysBetween(start time.Time, end time.Time) int {
	return int(math.Round(end.Sub(start).Hours() / 24))
}

// GestationalWeek computes the completed week of pregnancy counted from the
// last menstrual period. The week is the number of full 7-day spans elapsed,
// so day 0 through day 6 is week 0. Returns false when lmp is unset or in the
// future.
func GestationalWeek(lmp *time.Time, now time.Time, location *time.Location) (int, bool) {
	if lmp == nil {
		return 0, false
	}
	start := DateAtLocation(*lmp, location)
	today := DateAtLocation(now, location)
	if today.Before(start) {
		return 0, false
	}
	return daysBetween(start, today) / 7, true
}

func DueDate(lmp time.Time, location *time.Location) time.Time {
	return DateAtLocation(lmp, location).AddDate(0, 0, models.GestationDays)
}

// DaysToGo is the count of days until the due date, negative once past it.
func DaysToGo(lmp time.Time, now time.Time, location *time.Location) int {
	due := DueDate(lmp, location)
	today := DateAtLocation(now, location)
	return daysBetween(today, due)
}

// TrimesterForWeek maps a gestational week onto the conventional trimesters.
func TrimesterForWeek(week int) int {
	switch {
	case week < 13:
		return 1
	case week < 27:
		return 2
	default:
		return 3
	}
}
