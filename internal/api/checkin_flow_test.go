package api

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
)

func validCheckinPayload() map[string]any {
	return map[string]any{
		"answers": map[string]any{
			"energy":            3,
			"headache":          true,
			"headache_severity": 5,
			"kicks":             "12",
			"symptoms":          []string{"None of the above"},
		},
	}
}

func newOnboardedPatientApp(t *testing.T) (*fiber.App, string) {
	t.Helper()

	app, _ := newTestApp(t)
	cookie := registerPatient(t, app, "asha@example.com", "Asha")
	completePatientOnboarding(t, app, cookie, time.Now().UTC().AddDate(0, 0, -26*7))
	return app, cookie
}

func TestCheckinQuestionsIncludeHeadacheFollowUp(t *testing.T) {
	t.Parallel()
	app, authCookie := newOnboardedPatientApp(t)

	response := doRequest(t, app, jsonRequest(t, http.MethodGet, "/api/v1/checkin/questions", nil, authCookie))
	if response.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", response.StatusCode)
	}

	payload := decodeBody(t, response.Body)
	questions, _ := payload["questions"].([]any)
	if len(questions) != 4 {
		t.Fatalf("expected 4 base questions, got %d", len(questions))
	}

	foundFollowUp := false
	for _, entry := range questions {
		question, _ := entry.(map[string]any)
		if question["id"] == "headache" {
			followUp, _ := question["follow_up"].(map[string]any)
			if followUp["id"] == "headache_severity" {
				foundFollowUp = true
			}
		}
	}
	if !foundFollowUp {
		t.Fatal("headache question should carry the severity follow-up")
	}
}

func TestSubmitCheckinOncePerDay(t *testing.T) {
	t.Parallel()
	app, authCookie := newOnboardedPatientApp(t)

	response := doRequest(t, app, jsonRequest(t, http.MethodPost, "/api/v1/checkin", validCheckinPayload(), authCookie))
	if response.StatusCode != http.StatusCreated {
		t.Fatalf("expected status 201 for first check-in, got %d", response.StatusCode)
	}

	response = doRequest(t, app, jsonRequest(t, http.MethodGet, "/api/v1/checkin/today", nil, authCookie))
	payload := decodeBody(t, response.Body)
	if done, _ := payload["done"].(bool); !done {
		t.Fatal("today should report done after a submission")
	}

	response = doRequest(t, app, jsonRequest(t, http.MethodPost, "/api/v1/checkin", validCheckinPayload(), authCookie))
	if response.StatusCode != http.StatusConflict {
		t.Fatalf("expected status 409 for second check-in, got %d", response.StatusCode)
	}
}

func TestSubmitCheckinRejectsMissingFollowUp(t *testing.T) {
	t.Parallel()
	app, authCookie := newOnboardedPatientApp(t)

	response := doRequest(t, app, jsonRequest(t, http.MethodPost, "/api/v1/checkin", map[string]any{
		"answers": map[string]any{
			"energy":   3,
			"headache": true,
			"kicks":    "12",
			"symptoms": []string{"None of the above"},
		},
	}, authCookie))
	if response.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status 400 when severity is missing, got %d", response.StatusCode)
	}
}

func TestCheckinHistoryListsSubmission(t *testing.T) {
	t.Parallel()
	app, authCookie := newOnboardedPatientApp(t)

	doRequest(t, app, jsonRequest(t, http.MethodPost, "/api/v1/checkin", validCheckinPayload(), authCookie))

	response := doRequest(t, app, jsonRequest(t, http.MethodGet, "/api/v1/checkin/history", nil, authCookie))
	if response.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", response.StatusCode)
	}
	payload := decodeBody(t, response.Body)
	checkins, _ := payload["checkins"].([]any)
	if len(checkins) != 1 {
		t.Fatalf("expected 1 check-in in history, got %d", len(checkins))
	}
}

func TestTimelineInitializesMilestones(t *testing.T) {
	t.Parallel()
	app, authCookie := newOnboardedPatientApp(t)

	response := doRequest(t, app, jsonRequest(t, http.MethodGet, "/api/v1/timeline", nil, authCookie))
	if response.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", response.StatusCode)
	}

	payload := decodeBody(t, response.Body)
	events, _ := payload["events"].([]any)
	if len(events) != 9 {
		t.Fatalf("expected 9 milestones on first load, got %d", len(events))
	}

	first, _ := events[0].(map[string]any)
	if first["display_status"] != "upcoming" {
		t.Fatalf("expected the week 8 milestone to display as upcoming at week 26, got %v", first["display_status"])
	}
}

func TestTimelineSurvivesLMPChange(t *testing.T) {
	t.Parallel()
	app, authCookie := newOnboardedPatientApp(t)

	response := doRequest(t, app, jsonRequest(t, http.MethodGet, "/api/v1/timeline", nil, authCookie))
	payload := decodeBody(t, response.Body)
	events, _ := payload["events"].([]any)
	if len(events) != 9 {
		t.Fatalf("expected 9 milestones, got %d", len(events))
	}
	first, _ := events[0].(map[string]any)
	eventID := int(first["id"].(float64))

	response = doRequest(t, app, jsonRequest(t, http.MethodPost, fmt.Sprintf("/api/v1/timeline/%d/complete", eventID), nil, authCookie))
	if response.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200 completing milestone, got %d", response.StatusCode)
	}

	newLMP := time.Now().UTC().AddDate(0, 0, -27*7).Format("2006-01-02")
	response = doRequest(t, app, jsonRequest(t, http.MethodPut, "/api/v1/profile", map[string]any{
		"lmp": newLMP,
	}, authCookie))
	if response.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200 updating lmp, got %d", response.StatusCode)
	}

	response = doRequest(t, app, jsonRequest(t, http.MethodGet, "/api/v1/timeline", nil, authCookie))
	payload = decodeBody(t, response.Body)
	events, _ = payload["events"].([]any)
	if len(events) != 9 {
		t.Fatalf("expected the same 9 milestones after lmp change, got %d", len(events))
	}
	first, _ = events[0].(map[string]any)
	if int(first["id"].(float64)) != eventID {
		t.Fatalf("expected milestone %d to survive the lmp change, got %v", eventID, first["id"])
	}
	if first["status"] != "completed" {
		t.Fatalf("expected completed status to survive the lmp change, got %v", first["status"])
	}
}

func TestMetricsRecordAndHistory(t *testing.T) {
	t.Parallel()
	app, authCookie := newOnboardedPatientApp(t)

	response := doRequest(t, app, jsonRequest(t, http.MethodPost, "/api/v1/metrics", map[string]any{
		"type":  "bp",
		"value": "118/76",
	}, authCookie))
	if response.StatusCode != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", response.StatusCode)
	}

	response = doRequest(t, app, jsonRequest(t, http.MethodPost, "/api/v1/metrics", map[string]any{
		"type":  "BP",
		"value": "76/118",
	}, authCookie))
	if response.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status 400 for inverted reading, got %d", response.StatusCode)
	}

	response = doRequest(t, app, jsonRequest(t, http.MethodGet, "/api/v1/metrics/BP/latest", nil, authCookie))
	payload := decodeBody(t, response.Body)
	metric, _ := payload["metric"].(map[string]any)
	if metric["value"] != "118/76" {
		t.Fatalf("expected latest BP 118/76, got %v", metric["value"])
	}
}
