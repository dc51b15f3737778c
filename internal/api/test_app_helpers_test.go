package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/pregoway/pregoway/internal/config"
	"github.com/pregoway/pregoway/internal/db"
	"github.com/pregoway/pregoway/internal/i18n"
)

const testSecretKey = "test-secret-key-0123456789abcdef"

func newTestApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	_, testFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("resolve current test file path")
	}
	internalDir := filepath.Dir(filepath.Dir(testFile))
	localesDir := filepath.Join(internalDir, "i18n", "locales")

	tempDir := t.TempDir()
	databasePath := filepath.Join(tempDir, "pregoway-test.db")

	database, err := db.OpenSQLite(databasePath)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := database.DB()
	if err != nil {
		t.Fatalf("open sql db: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	i18nManager, err := i18n.NewManager("en", localesDir)
	if err != nil {
		t.Fatalf("init i18n: %v", err)
	}

	cfg := &config.Config{
		SecretKey:       testSecretKey,
		Timezone:        "UTC",
		DefaultLanguage: "en",
		VaultRoot:       filepath.Join(tempDir, "vault"),
	}

	handler, err := NewHandler(database, cfg, i18nManager, zerolog.Nop())
	if err != nil {
		t.Fatalf("init handler: %v", err)
	}

	app := fiber.New()
	RegisterRoutes(app, handler)
	return app, database
}

func jsonRequest(t *testing.T, method string, path string, payload any, authCookie string) *http.Request {
	t.Helper()

	var body io.Reader
	if payload != nil {
		serialized, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal request payload: %v", err)
		}
		body = bytes.NewReader(serialized)
	}

	request := httptest.NewRequest(method, path, body)
	if payload != nil {
		request.Header.Set("Content-Type", fiber.MIMEApplicationJSON)
	}
	if authCookie != "" {
		request.Header.Set("Cookie", authCookie)
	}
	return request
}

func doRequest(t *testing.T, app *fiber.App, request *http.Request) *http.Response {
	t.Helper()

	response, err := app.Test(request, -1)
	if err != nil {
		t.Fatalf("%s %s failed: %v", request.Method, request.URL.Path, err)
	}
	t.Cleanup(func() {
		_ = response.Body.Close()
	})
	return response
}

func decodeBody(t *testing.T, body io.Reader) map[string]any {
	t.Helper()

	payload := map[string]any{}
	raw, err := io.ReadAll(body)
	if err != nil {
		t.Fatalf("read response body: %v", err)
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		t.Fatalf("decode response body %q: %v", string(raw), err)
	}
	return payload
}

func authCookieFromResponse(t *testing.T, response *http.Response) string {
	t.Helper()

	for _, cookie := range response.Cookies() {
		if cookie.Name == authCookieName && cookie.Value != "" {
			return cookie.Name + "=" + cookie.Value
		}
	}
	t.Fatal("auth cookie is missing in response")
	return ""
}

func registerPatient(t *testing.T, app *fiber.App, email string, name string) string {
	t.Helper()

	response := doRequest(t, app, jsonRequest(t, http.MethodPost, "/api/v1/auth/register", map[string]any{
		"email":    email,
		"password": "Password1",
		"name":     name,
	}, ""))
	if response.StatusCode != http.StatusCreated {
		t.Fatalf("expected register status 201, got %d", response.StatusCode)
	}
	return authCookieFromResponse(t, response)
}

func registerDoctor(t *testing.T, app *fiber.App, database *gorm.DB, email string, name string) string {
	t.Helper()

	response := doRequest(t, app, jsonRequest(t, http.MethodPost, "/api/v1/auth/register", map[string]any{
		"email":          email,
		"password":       "Password1",
		"name":           name,
		"role":           "doctor",
		"specialization": "Obstetrics",
		"license_number": "LIC-1001",
	}, ""))
	if response.StatusCode != http.StatusCreated {
		t.Fatalf("expected register status 201, got %d", response.StatusCode)
	}

	// Verification is an operator step; flip the flag directly.
	if err := database.Exec("UPDATE doctor_profiles SET verified = ? WHERE license_number = ?", true, "LIC-1001").Error; err != nil {
		t.Fatalf("verify doctor: %v", err)
	}
	return authCookieFromResponse(t, response)
}

func completePatientOnboarding(t *testing.T, app *fiber.App, authCookie string, lmp time.Time) {
	t.Helper()

	response := doRequest(t, app, jsonRequest(t, http.MethodPut, "/api/v1/profile", map[string]any{
		"lmp": lmp.Format("2006-01-02"),
	}, authCookie))
	if response.StatusCode != http.StatusOK {
		t.Fatalf("expected profile update status 200, got %d", response.StatusCode)
	}

	response = doRequest(t, app, jsonRequest(t, http.MethodPost, "/api/v1/onboarding/complete", nil, authCookie))
	if response.StatusCode != http.StatusOK {
		t.Fatalf("expected onboarding complete status 200, got %d", response.StatusCode)
	}
}
