package api

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func uploadTestDocument(t *testing.T, app *fiber.App, authCookie string, title string, fileType string, contents string) map[string]any {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	if err := writer.WriteField("title", title); err != nil {
		t.Fatalf("write title field: %v", err)
	}
	if err := writer.WriteField("file_type", fileType); err != nil {
		t.Fatalf("write file_type field: %v", err)
	}
	part, err := writer.CreateFormFile("file", "report.pdf")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write([]byte(contents)); err != nil {
		t.Fatalf("write file contents: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}

	request := httptest.NewRequest(http.MethodPost, "/api/v1/vault", &body)
	request.Header.Set("Content-Type", writer.FormDataContentType())
	request.Header.Set("Cookie", authCookie)

	response := doRequest(t, app, request)
	if response.StatusCode != http.StatusCreated {
		t.Fatalf("expected upload status 201, got %d", response.StatusCode)
	}

	payload := decodeBody(t, response.Body)
	document, _ := payload["document"].(map[string]any)
	if document == nil {
		t.Fatal("expected a document in the upload response")
	}
	return document
}

func TestVaultUploadAndList(t *testing.T) {
	t.Parallel()
	app, authCookie := newOnboardedPatientApp(t)

	document := uploadTestDocument(t, app, authCookie, "First trimester labs", "Lab", "lab results")
	if document["status"] != "Pending" {
		t.Fatalf("expected a fresh document to be Pending, got %v", document["status"])
	}

	response := doRequest(t, app, jsonRequest(t, http.MethodGet, "/api/v1/vault", nil, authCookie))
	payload := decodeBody(t, response.Body)
	documents, _ := payload["documents"].([]any)
	if len(documents) != 1 {
		t.Fatalf("expected 1 document, got %d", len(documents))
	}
}

func TestVaultRejectsUnknownFileType(t *testing.T) {
	t.Parallel()
	app, authCookie := newOnboardedPatientApp(t)

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	_ = writer.WriteField("file_type", "Receipt")
	part, err := writer.CreateFormFile("file", "receipt.pdf")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	_, _ = part.Write([]byte("data"))
	_ = writer.Close()

	request := httptest.NewRequest(http.MethodPost, "/api/v1/vault", &body)
	request.Header.Set("Content-Type", writer.FormDataContentType())
	request.Header.Set("Cookie", authCookie)

	response := doRequest(t, app, request)
	if response.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status 400 for unknown file type, got %d", response.StatusCode)
	}
}

func TestVaultDownloadTokenRoundTrip(t *testing.T) {
	t.Parallel()
	app, authCookie := newOnboardedPatientApp(t)

	document := uploadTestDocument(t, app, authCookie, "Anomaly scan", "Scan", "scan bytes")
	documentID := uint(document["id"].(float64))

	response := doRequest(t, app, jsonRequest(t, http.MethodGet, fmt.Sprintf("/api/v1/vault/%d/download-token", documentID), nil, authCookie))
	if response.StatusCode != http.StatusOK {
		t.Fatalf("expected token status 200, got %d", response.StatusCode)
	}
	payload := decodeBody(t, response.Body)
	token, _ := payload["token"].(string)
	if token == "" {
		t.Fatal("expected a download token")
	}

	// The download route needs no cookie; the token is the credential.
	downloadResponse := doRequest(t, app, jsonRequest(t, http.MethodGet, "/api/v1/vault-download?token="+token, nil, ""))
	if downloadResponse.StatusCode != http.StatusOK {
		t.Fatalf("expected download status 200, got %d", downloadResponse.StatusCode)
	}
	contents, err := io.ReadAll(downloadResponse.Body)
	if err != nil {
		t.Fatalf("read download body: %v", err)
	}
	if string(contents) != "scan bytes" {
		t.Fatalf("expected the stored bytes back, got %q", string(contents))
	}
}

func TestVaultDownloadRejectsGarbageToken(t *testing.T) {
	t.Parallel()
	app, _ := newOnboardedPatientApp(t)

	response := doRequest(t, app, jsonRequest(t, http.MethodGet, "/api/v1/vault-download?token=not-a-token", nil, ""))
	if response.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected status 401 for a garbage token, got %d", response.StatusCode)
	}
}

func TestVaultAnalyzeAndDelete(t *testing.T) {
	t.Parallel()
	app, authCookie := newOnboardedPatientApp(t)

	document := uploadTestDocument(t, app, authCookie, "CBC panel", "Lab", "cbc")
	documentID := uint(document["id"].(float64))

	response := doRequest(t, app, jsonRequest(t, http.MethodPost, fmt.Sprintf("/api/v1/vault/%d/analyze", documentID), map[string]any{
		"risk_status": "High",
	}, authCookie))
	if response.StatusCode != http.StatusOK {
		t.Fatalf("expected analyze status 200, got %d", response.StatusCode)
	}
	payload := decodeBody(t, response.Body)
	analyzed, _ := payload["document"].(map[string]any)
	if analyzed["status"] != "Analyzed" || analyzed["risk_status"] != "High" {
		t.Fatalf("expected Analyzed/High, got %v/%v", analyzed["status"], analyzed["risk_status"])
	}

	response = doRequest(t, app, jsonRequest(t, http.MethodDelete, fmt.Sprintf("/api/v1/vault/%d", documentID), nil, authCookie))
	if response.StatusCode != http.StatusOK {
		t.Fatalf("expected delete status 200, got %d", response.StatusCode)
	}

	response = doRequest(t, app, jsonRequest(t, http.MethodGet, fmt.Sprintf("/api/v1/vault/%d", documentID), nil, authCookie))
	if response.StatusCode != http.StatusNotFound {
		t.Fatalf("expected status 404 after delete, got %d", response.StatusCode)
	}
}
