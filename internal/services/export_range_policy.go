package services

import (
	"errors"
	"strings"
	"time"
)

const exportDateLayout = "2006-01-02"

var (
	ErrExportFromDateInvalid = errors.New("from date must be formatted YYYY-MM-DD")
	ErrExportToDateInvalid   = errors.New("to date must be formatted YYYY-MM-DD")
	ErrExportRangeInvalid    = errors.New("to date is before from date")
)

// ParseExportRange interprets the optional from/to query values as civil days
// in the clinic's timezone. Either bound may be empty for an open-ended range.
func ParseExportRange(rawFrom string, rawTo string, location *time.Location) (*time.Time, *time.Time, error) {
	from, err := parseExportDay(rawFrom, location)
	if err != nil {
		return nil, nil, ErrExportFromDateInvalid
	}
	to, err := parseExportDay(rawTo, location)
	if err != nil {
		return nil, nil, ErrExportToDateInvalid
	}

	if from != nil && to != nil && to.Before(*from) {
		return nil, nil, ErrExportRangeInvalid
	}
	return from, to, nil
}

func parseExportDay(raw string, location *time.Location) (*time.Time, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, nil
	}
	parsed, err := time.ParseInLocation(exportDateLayout, trimmed, location)
	if err != nil {
		return nil, err
	}
	day := DateAtLocation(parsed, location)
	return &day, nil
}
