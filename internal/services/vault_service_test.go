package services

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/pregoway/pregoway/internal/models"
)

type memoryStore struct {
	objects map[string][]byte
}

func newMemoryStore() *memoryStore {
	return &memoryStore{objects: map[string][]byte{}}
}

func (store *memoryStore) Put(key string, reader io.Reader) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	store.objects[key] = data
	return nil
}

func (store *memoryStore) Open(key string) (io.ReadCloser, error) {
	data, ok := store.objects[key]
	if !ok {
		return nil, errors.New("object not found")
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (store *memoryStore) Delete(key string) error {
	delete(store.objects, key)
	return nil
}

type stubDocumentRepo struct {
	created   []models.Document
	createErr error
	analyzed  map[uint]string
}

func (stub *stubDocumentRepo) Create(document *models.Document) error {
	if stub.createErr != nil {
		return stub.createErr
	}
	document.ID = uint(len(stub.created) + 1)
	stub.created = append(stub.created, *document)
	return nil
}

func (stub *stubDocumentRepo) FindByIDForUser(documentID uint, userID uint) (models.Document, error) {
	for _, document := range stub.created {
		if document.ID == documentID && document.UserID == userID {
			return document, nil
		}
	}
	return models.Document{}, errors.New("record not found")
}

func (stub *stubDocumentRepo) ListByUser(userID uint) ([]models.Document, error) {
	out := make([]models.Document, 0)
	for _, document := range stub.created {
		if document.UserID == userID {
			out = append(out, document)
		}
	}
	return out, nil
}

func (stub *stubDocumentRepo) UpdateAnalysis(documentID uint, _ uint, status string, riskStatus string) error {
	if stub.analyzed == nil {
		stub.analyzed = map[uint]string{}
	}
	stub.analyzed[documentID] = status + "/" + riskStatus
	return nil
}

func (stub *stubDocumentRepo) Delete(documentID uint, userID uint) error {
	kept := stub.created[:0]
	for _, document := range stub.created {
		if document.ID == documentID && document.UserID == userID {
			continue
		}
		kept = append(kept, document)
	}
	stub.created = kept
	return nil
}

const testSecret = "0123456789abcdef0123456789abcdef"

func TestUploadStoresObjectAndRow(t *testing.T) {
	t.Parallel()

	store := newMemoryStore()
	repo := &stubDocumentRepo{}
	service := NewVaultService(repo, store, testSecret)

	document, err := service.Upload(7, " Anomaly scan ", models.DocumentTypeScan, 9, strings.NewReader("scan data"), time.Now())
	if err != nil {
		t.Fatalf("Upload() unexpected error: %v", err)
	}
	if document.Title != "Anomaly scan" {
		t.Fatalf("expected trimmed title, got %q", document.Title)
	}
	if document.Status != models.DocumentPending {
		t.Fatalf("expected pending status, got %s", document.Status)
	}
	if _, ok := store.objects[document.ObjectKey]; !ok {
		t.Fatal("expected object stored under key")
	}
}

func TestUploadRejectsInvalidType(t *testing.T) {
	t.Parallel()

	service := NewVaultService(&stubDocumentRepo{}, newMemoryStore(), testSecret)
	_, err := service.Upload(7, "doc", "Invoice", 3, strings.NewReader("abc"), time.Now())
	if !errors.Is(err, ErrDocumentTypeInvalid) {
		t.Fatalf("expected ErrDocumentTypeInvalid, got %v", err)
	}
}

func TestUploadCleansUpObjectOnRowFailure(t *testing.T) {
	t.Parallel()

	store := newMemoryStore()
	repo := &stubDocumentRepo{createErr: errors.New("disk full")}
	service := NewVaultService(repo, store, testSecret)

	if _, err := service.Upload(7, "doc", models.DocumentTypeLab, 3, strings.NewReader("abc"), time.Now()); err == nil {
		t.Fatal("expected error from row insert")
	}
	if len(store.objects) != 0 {
		t.Fatalf("expected orphaned object removed, %d left", len(store.objects))
	}
}

func TestDownloadTokenRoundTrip(t *testing.T) {
	t.Parallel()

	store := newMemoryStore()
	repo := &stubDocumentRepo{}
	service := NewVaultService(repo, store, testSecret)

	uploaded, err := service.Upload(7, "labs", models.DocumentTypeLab, 7, strings.NewReader("results"), time.Now())
	if err != nil {
		t.Fatalf("Upload() unexpected error: %v", err)
	}

	token, document, err := service.DownloadToken(7, uploaded.ID, time.Now())
	if err != nil {
		t.Fatalf("DownloadToken() unexpected error: %v", err)
	}
	if document.ObjectKey != uploaded.ObjectKey {
		t.Fatalf("token issued for wrong object: %s", document.ObjectKey)
	}

	reader, key, err := service.OpenByToken(token)
	if err != nil {
		t.Fatalf("OpenByToken() unexpected error: %v", err)
	}
	defer reader.Close()
	if key != uploaded.ObjectKey {
		t.Fatalf("expected key %s, got %s", uploaded.ObjectKey, key)
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		t.Fatalf("read object: %v", err)
	}
	if string(data) != "results" {
		t.Fatalf("expected object bytes, got %q", string(data))
	}
}

func TestOpenByTokenRejectsTampering(t *testing.T) {
	t.Parallel()

	service := NewVaultService(&stubDocumentRepo{}, newMemoryStore(), testSecret)
	if _, _, err := service.OpenByToken("not-a-token"); !errors.Is(err, ErrDownloadTokenBad) {
		t.Fatalf("expected ErrDownloadTokenBad, got %v", err)
	}

	other := NewVaultService(&stubDocumentRepo{}, newMemoryStore(), testSecret)
	repo := &stubDocumentRepo{}
	store := newMemoryStore()
	issuer := NewVaultService(repo, store, "another-secret-another-secret-32")
	uploaded, err := issuer.Upload(7, "doc", models.DocumentTypeOther, 3, strings.NewReader("abc"), time.Now())
	if err != nil {
		t.Fatalf("Upload() unexpected error: %v", err)
	}
	token, _, err := issuer.DownloadToken(7, uploaded.ID, time.Now())
	if err != nil {
		t.Fatalf("DownloadToken() unexpected error: %v", err)
	}
	if _, _, err := other.OpenByToken(token); !errors.Is(err, ErrDownloadTokenBad) {
		t.Fatalf("expected ErrDownloadTokenBad for foreign signature, got %v", err)
	}
}

func TestMarkAnalyzed(t *testing.T) {
	t.Parallel()

	repo := &stubDocumentRepo{}
	service := NewVaultService(repo, newMemoryStore(), testSecret)

	uploaded, err := service.Upload(7, "labs", models.DocumentTypeLab, 7, strings.NewReader("results"), time.Now())
	if err != nil {
		t.Fatalf("Upload() unexpected error: %v", err)
	}

	document, err := service.MarkAnalyzed(7, uploaded.ID, models.DocumentRiskHigh)
	if err != nil {
		t.Fatalf("MarkAnalyzed() unexpected error: %v", err)
	}
	if document.Status != models.DocumentAnalyzed || document.RiskStatus != models.DocumentRiskHigh {
		t.Fatalf("unexpected document state %+v", document)
	}
	if _, err := service.MarkAnalyzed(7, uploaded.ID, "Scary"); err == nil {
		t.Fatal("expected error for invalid risk status")
	}
}

func TestRemoveDeletesRowAndObject(t *testing.T) {
	t.Parallel()

	store := newMemoryStore()
	repo := &stubDocumentRepo{}
	service := NewVaultService(repo, store, testSecret)

	uploaded, err := service.Upload(7, "doc", models.DocumentTypeRx, 3, strings.NewReader("abc"), time.Now())
	if err != nil {
		t.Fatalf("Upload() unexpected error: %v", err)
	}
	if err := service.Remove(7, uploaded.ID); err != nil {
		t.Fatalf("Remove() unexpected error: %v", err)
	}
	if len(repo.created) != 0 {
		t.Fatal("expected document row removed")
	}
	if len(store.objects) != 0 {
		t.Fatal("expected object removed")
	}
}
