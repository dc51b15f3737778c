package services

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pregoway/pregoway/internal/models"
	"github.com/xuri/excelize/v2"
)

var ExportCSVHeaders = []string{
	"Date",
	"Energy (1-5)",
	"Headache",
	"Headache severity (1-10)",
	"Kicks",
	"Symptoms",
	"Risk level",
	"Risk score",
}

var ExportMetricHeaders = []string{
	"Recorded at",
	"Type",
	"Value",
	"Unit",
}

type ExportCheckinReader interface {
	ListByUserRange(userID uint, fromStart *time.Time, toEnd *time.Time) ([]models.Checkin, error)
}

type ExportMetricReader interface {
	ListByUserRange(userID uint, fromStart *time.Time, toEnd *time.Time) ([]models.HealthMetric, error)
}

type ExportRiskReader interface {
	ListByUser(userID uint, limit int) ([]models.RiskLog, error)
}

type ExportService struct {
	checkins ExportCheckinReader
	metrics  ExportMetricReader
	risks    ExportRiskReader
	location *time.Location
}

func NewExportService(checkins ExportCheckinReader, metrics ExportMetricReader, risks ExportRiskReader, location *time.Location) *ExportService {
	if location == nil {
		location = time.UTC
	}
	return &ExportService{
		checkins: checkins,
		metrics:  metrics,
		risks:    risks,
		location: location,
	}
}

// ExportEntry is one exported check-in day, flattened for tabular formats.
type ExportEntry struct {
	Date             string   `json:"date"`
	Energy           int      `json:"energy"`
	Headache         bool     `json:"headache"`
	HeadacheSeverity int      `json:"headache_severity"`
	Kicks            string   `json:"kicks"`
	Symptoms         []string `json:"symptoms"`
	RiskLevel        string   `json:"risk_level"`
	RiskScore        int      `json:"risk_score"`
}

type ExportMetricEntry struct {
	RecordedAt string `json:"recorded_at"`
	Type       string `json:"type"`
	Value      string `json:"value"`
	Unit       string `json:"unit"`
}

// endExclusive turns an inclusive "to" day into the repository's half-open
// upper bound.
func endExclusive(to *time.Time) *time.Time {
	if to == nil {
		return nil
	}
	end := to.AddDate(0, 0, 1)
	return &end
}

func (service *ExportService) BuildEntries(userID uint, from *time.Time, to *time.Time) ([]ExportEntry, error) {
	checkins, err := service.checkins.ListByUserRange(userID, from, endExclusive(to))
	if err != nil {
		return nil, err
	}
	riskLogs, err := service.risks.ListByUser(userID, 0)
	if err != nil {
		return nil, err
	}

	riskByDay := make(map[string]models.RiskLog, len(riskLogs))
	for index := len(riskLogs) - 1; index >= 0; index-- {
		entry := riskLogs[index]
		day := DateAtLocation(entry.CreatedAt, service.location).Format(exportDateLayout)
		riskByDay[day] = entry
	}

	entries := make([]ExportEntry, 0, len(checkins))
	for _, checkin := range checkins {
		day := DateAtLocation(checkin.Day, service.location).Format(exportDateLayout)
		entry := ExportEntry{
			Date:     day,
			Energy:   checkin.Answers[QuestionEnergy].Scale,
			Headache: checkin.Answers[QuestionHeadache].YesNo,
			Kicks:    checkin.Answers[QuestionKicks].Numeric,
			Symptoms: checkin.Answers[QuestionSymptoms].Selections,
		}
		if severity, ok := checkin.Answers[QuestionHeadacheSeverity]; ok {
			entry.HeadacheSeverity = severity.Scale
		}
		if entry.Symptoms == nil {
			entry.Symptoms = []string{}
		}
		if risk, ok := riskByDay[day]; ok {
			entry.RiskLevel = risk.Level
			entry.RiskScore = risk.Score
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (service *ExportService) BuildMetricEntries(userID uint, from *time.Time, to *time.Time) ([]ExportMetricEntry, error) {
	metrics, err := service.metrics.ListByUserRange(userID, from, endExclusive(to))
	if err != nil {
		return nil, err
	}
	entries := make([]ExportMetricEntry, 0, len(metrics))
	for _, metric := range metrics {
		entries = append(entries, ExportMetricEntry{
			RecordedAt: metric.CreatedAt.In(service.location).Format(time.RFC3339),
			Type:       metric.Type,
			Value:      metric.Value,
			Unit:       metric.Unit,
		})
	}
	return entries, nil
}

func (entry ExportEntry) Columns() []string {
	return []string{
		entry.Date,
		strconv.Itoa(entry.Energy),
		csvYesNo(entry.Headache),
		severityColumn(entry.Headache, entry.HeadacheSeverity),
		entry.Kicks,
		strings.Join(entry.Symptoms, "; "),
		entry.RiskLevel,
		strconv.Itoa(entry.RiskScore),
	}
}

func csvYesNo(value bool) string {
	if value {
		return "Yes"
	}
	return "No"
}

func severityColumn(headache bool, severity int) string {
	if !headache || severity == 0 {
		return ""
	}
	return strconv.Itoa(severity)
}

// BuildWorkbook renders the export as a spreadsheet with a check-in sheet and
// a vitals sheet.
func (service *ExportService) BuildWorkbook(userID uint, from *time.Time, to *time.Time) (*excelize.File, error) {
	entries, err := service.BuildEntries(userID, from, to)
	if err != nil {
		return nil, err
	}
	metrics, err := service.BuildMetricEntries(userID, from, to)
	if err != nil {
		return nil, err
	}

	workbook := excelize.NewFile()
	const checkinSheet = "Check-ins"
	const metricSheet = "Vitals"

	index, err := workbook.NewSheet(checkinSheet)
	if err != nil {
		return nil, err
	}
	workbook.SetActiveSheet(index)
	if err := workbook.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}

	for column, header := range ExportCSVHeaders {
		cell, err := excelize.CoordinatesToCellName(column+1, 1)
		if err != nil {
			return nil, err
		}
		if err := workbook.SetCellValue(checkinSheet, cell, header); err != nil {
			return nil, err
		}
	}
	for rowIndex, entry := range entries {
		for column, value := range entry.Columns() {
			cell, err := excelize.CoordinatesToCellName(column+1, rowIndex+2)
			if err != nil {
				return nil, err
			}
			if err := workbook.SetCellValue(checkinSheet, cell, value); err != nil {
				return nil, err
			}
		}
	}

	if _, err := workbook.NewSheet(metricSheet); err != nil {
		return nil, err
	}
	for column, header := range ExportMetricHeaders {
		cell, err := excelize.CoordinatesToCellName(column+1, 1)
		if err != nil {
			return nil, err
		}
		if err := workbook.SetCellValue(metricSheet, cell, header); err != nil {
			return nil, err
		}
	}
	for rowIndex, metric := range metrics {
		values := []string{metric.RecordedAt, metric.Type, metric.Value, metric.Unit}
		for column, value := range values {
			cell, err := excelize.CoordinatesToCellName(column+1, rowIndex+2)
			if err != nil {
				return nil, err
			}
			if err := workbook.SetCellValue(metricSheet, cell, value); err != nil {
				return nil, err
			}
		}
	}

	return workbook, nil
}

// ExportFilename builds the attachment name for a download.
func ExportFilename(format string, now time.Time, location *time.Location) string {
	return fmt.Sprintf("pregoway-export-%s.%s", DateAtLocation(now, location).Format(exportDateLayout), format)
}
