package api

import (
	"net/http"
	"testing"
	"time"
)

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	t.Parallel()
	app, _ := newTestApp(t)

	registerPatient(t, app, "asha@example.com", "Asha")

	response := doRequest(t, app, jsonRequest(t, http.MethodPost, "/api/v1/auth/register", map[string]any{
		"email":    "asha@example.com",
		"password": "Password1",
		"name":     "Asha",
	}, ""))
	if response.StatusCode != http.StatusConflict {
		t.Fatalf("expected status 409 for duplicate email, got %d", response.StatusCode)
	}
}

func TestRegisterRejectsWeakPassword(t *testing.T) {
	t.Parallel()
	app, _ := newTestApp(t)

	response := doRequest(t, app, jsonRequest(t, http.MethodPost, "/api/v1/auth/register", map[string]any{
		"email":    "asha@example.com",
		"password": "short",
	}, ""))
	if response.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status 400 for weak password, got %d", response.StatusCode)
	}
}

func TestRegisterReturnsRecoveryCode(t *testing.T) {
	t.Parallel()
	app, _ := newTestApp(t)

	response := doRequest(t, app, jsonRequest(t, http.MethodPost, "/api/v1/auth/register", map[string]any{
		"email":    "asha@example.com",
		"password": "Password1",
		"name":     "Asha",
	}, ""))
	if response.StatusCode != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", response.StatusCode)
	}

	payload := decodeBody(t, response.Body)
	code, _ := payload["recovery_code"].(string)
	if len(code) != len("PREGO-XXXX-XXXX-XXXX") {
		t.Fatalf("unexpected recovery code %q", code)
	}
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	t.Parallel()
	app, _ := newTestApp(t)

	registerPatient(t, app, "asha@example.com", "Asha")

	response := doRequest(t, app, jsonRequest(t, http.MethodPost, "/api/v1/auth/login", map[string]any{
		"email":    "asha@example.com",
		"password": "Password2",
	}, ""))
	if response.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected status 401 for wrong password, got %d", response.StatusCode)
	}
}

func TestLoginSetsAuthCookie(t *testing.T) {
	t.Parallel()
	app, _ := newTestApp(t)

	registerPatient(t, app, "asha@example.com", "Asha")

	response := doRequest(t, app, jsonRequest(t, http.MethodPost, "/api/v1/auth/login", map[string]any{
		"email":    "asha@example.com",
		"password": "Password1",
	}, ""))
	if response.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", response.StatusCode)
	}
	authCookieFromResponse(t, response)
}

func TestProtectedRouteRequiresAuth(t *testing.T) {
	t.Parallel()
	app, _ := newTestApp(t)

	response := doRequest(t, app, jsonRequest(t, http.MethodGet, "/api/v1/profile", nil, ""))
	if response.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected status 401 without auth cookie, got %d", response.StatusCode)
	}
}

func TestOnboardingGateBlocksPatientRoutes(t *testing.T) {
	t.Parallel()
	app, _ := newTestApp(t)

	authCookie := registerPatient(t, app, "asha@example.com", "Asha")

	response := doRequest(t, app, jsonRequest(t, http.MethodGet, "/api/v1/timeline", nil, authCookie))
	if response.StatusCode != http.StatusForbidden {
		t.Fatalf("expected status 403 before onboarding, got %d", response.StatusCode)
	}

	lmp := time.Now().UTC().AddDate(0, 0, -26*7)
	completePatientOnboarding(t, app, authCookie, lmp)

	response = doRequest(t, app, jsonRequest(t, http.MethodGet, "/api/v1/timeline", nil, authCookie))
	if response.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200 after onboarding, got %d", response.StatusCode)
	}
}

func TestRecoveryCodeResetFlow(t *testing.T) {
	t.Parallel()
	app, _ := newTestApp(t)

	response := doRequest(t, app, jsonRequest(t, http.MethodPost, "/api/v1/auth/register", map[string]any{
		"email":    "asha@example.com",
		"password": "Password1",
		"name":     "Asha",
	}, ""))
	if response.StatusCode != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", response.StatusCode)
	}
	registerPayload := decodeBody(t, response.Body)
	recoveryCode, _ := registerPayload["recovery_code"].(string)

	response = doRequest(t, app, jsonRequest(t, http.MethodPost, "/api/v1/auth/forgot-password", map[string]any{
		"recovery_code": recoveryCode,
	}, ""))
	if response.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200 for valid recovery code, got %d", response.StatusCode)
	}
	forgotPayload := decodeBody(t, response.Body)
	resetToken, _ := forgotPayload["reset_token"].(string)
	if resetToken == "" {
		t.Fatal("expected a reset token")
	}

	response = doRequest(t, app, jsonRequest(t, http.MethodPost, "/api/v1/auth/reset-password", map[string]any{
		"token":    resetToken,
		"password": "Password2",
	}, ""))
	if response.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200 for reset, got %d", response.StatusCode)
	}

	response = doRequest(t, app, jsonRequest(t, http.MethodPost, "/api/v1/auth/login", map[string]any{
		"email":    "asha@example.com",
		"password": "Password2",
	}, ""))
	if response.StatusCode != http.StatusOK {
		t.Fatalf("expected login with new password to succeed, got %d", response.StatusCode)
	}
}

func TestForgotPasswordRejectsUnknownCode(t *testing.T) {
	t.Parallel()
	app, _ := newTestApp(t)

	response := doRequest(t, app, jsonRequest(t, http.MethodPost, "/api/v1/auth/forgot-password", map[string]any{
		"recovery_code": "PREGO-AAAA-BBBB-CCCC",
	}, ""))
	if response.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected status 401 for unknown recovery code, got %d", response.StatusCode)
	}
}
