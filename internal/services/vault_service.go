package services

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pregoway/pregoway/internal/models"
)

var (
	ErrDocumentTooLarge    = errors.New("document exceeds size limit")
	ErrDocumentTypeInvalid = errors.New("invalid document type")
	ErrDownloadTokenBad    = errors.New("download token invalid")
)

// MaxDocumentBytes caps a single vault upload.
const MaxDocumentBytes = 15 << 20

const downloadTokenTTL = 10 * time.Minute

// ObjectStore persists document bytes under opaque keys.
type ObjectStore interface {
	Put(key string, reader io.Reader) error
	Open(key string) (io.ReadCloser, error)
	Delete(key string) error
}

// DiskStore keeps objects as files under a root directory. Keys are uuid
// strings so no path traversal is possible after validation.
type DiskStore struct {
	root string
}

func NewDiskStore(root string) (*DiskStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create vault root: %w", err)
	}
	return &DiskStore{root: root}, nil
}

func (store *DiskStore) path(key string) (string, error) {
	if key == "" || strings.ContainsAny(key, `/\`) || strings.Contains(key, "..") {
		return "", fmt.Errorf("invalid object key %q", key)
	}
	return filepath.Join(store.root, key), nil
}

func (store *DiskStore) Put(key string, reader io.Reader) error {
	target, err := store.path(key)
	if err != nil {
		return err
	}
	file, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return err
	}
	if _, err := io.Copy(file, io.LimitReader(reader, MaxDocumentBytes+1)); err != nil {
		file.Close()
		os.Remove(target)
		return err
	}
	return file.Close()
}

func (store *DiskStore) Open(key string) (io.ReadCloser, error) {
	target, err := store.path(key)
	if err != nil {
		return nil, err
	}
	return os.Open(target)
}

func (store *DiskStore) Delete(key string) error {
	target, err := store.path(key)
	if err != nil {
		return err
	}
	err = os.Remove(target)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

type DocumentRepository interface {
	Create(document *models.Document) error
	FindByIDForUser(documentID uint, userID uint) (models.Document, error)
	ListByUser(userID uint) ([]models.Document, error)
	UpdateAnalysis(documentID uint, userID uint, status string, riskStatus string) error
	Delete(documentID uint, userID uint) error
}

type VaultService struct {
	documents DocumentRepository
	store     ObjectStore
	secretKey []byte
}

func NewVaultService(documents DocumentRepository, store ObjectStore, secretKey string) *VaultService {
	return &VaultService{documents: documents, store: store, secretKey: []byte(secretKey)}
}

// Upload stores the bytes first, then the row. A failed row insert removes
// the orphaned object.
func (service *VaultService) Upload(userID uint, title string, fileType string, size int64, reader io.Reader, now time.Time) (models.Document, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		title = "Untitled document"
	}
	if fileType == "" {
		fileType = models.DocumentTypeOther
	}
	if !models.IsValidDocumentType(fileType) {
		return models.Document{}, ErrDocumentTypeInvalid
	}
	if size > MaxDocumentBytes {
		return models.Document{}, ErrDocumentTooLarge
	}

	key := uuid.NewString()
	if err := service.store.Put(key, reader); err != nil {
		return models.Document{}, err
	}

	document := models.Document{
		UserID:     userID,
		Title:      title,
		ObjectKey:  key,
		FileType:   fileType,
		Status:     models.DocumentPending,
		RiskStatus: models.DocumentRiskNormal,
		UploadedAt: now,
	}
	if err := service.documents.Create(&document); err != nil {
		_ = service.store.Delete(key)
		return models.Document{}, err
	}
	return document, nil
}

func (service *VaultService) List(userID uint) ([]models.Document, error) {
	return service.documents.ListByUser(userID)
}

func (service *VaultService) Find(userID uint, documentID uint) (models.Document, error) {
	return service.documents.FindByIDForUser(documentID, userID)
}

// MarkAnalyzed records a review outcome on a pending document.
func (service *VaultService) MarkAnalyzed(userID uint, documentID uint, riskStatus string) (models.Document, error) {
	if riskStatus != models.DocumentRiskNormal && riskStatus != models.DocumentRiskHigh {
		return models.Document{}, fmt.Errorf("invalid document risk status %q", riskStatus)
	}
	document, err := service.documents.FindByIDForUser(documentID, userID)
	if err != nil {
		return models.Document{}, err
	}
	if err := service.documents.UpdateAnalysis(documentID, userID, models.DocumentAnalyzed, riskStatus); err != nil {
		return models.Document{}, err
	}
	document.Status = models.DocumentAnalyzed
	document.RiskStatus = riskStatus
	return document, nil
}

// Remove deletes the row first so a stray object never resurrects a deleted
// document, then best-effort removes the bytes.
func (service *VaultService) Remove(userID uint, documentID uint) error {
	document, err := service.documents.FindByIDForUser(documentID, userID)
	if err != nil {
		return err
	}
	if err := service.documents.Delete(documentID, userID); err != nil {
		return err
	}
	return service.store.Delete(document.ObjectKey)
}

type downloadClaims struct {
	ObjectKey string `json:"key"`
	UserID    uint   `json:"uid"`
	jwt.RegisteredClaims
}

// DownloadToken mints a short-lived signed token granting access to one
// object. Sharing the URL leaks only that object, only briefly.
func (service *VaultService) DownloadToken(userID uint, documentID uint, now time.Time) (string, models.Document, error) {
	document, err := service.documents.FindByIDForUser(documentID, userID)
	if err != nil {
		return "", models.Document{}, err
	}
	claims := downloadClaims{
		ObjectKey: document.ObjectKey,
		UserID:    userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(downloadTokenTTL)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(service.secretKey)
	if err != nil {
		return "", models.Document{}, err
	}
	return token, document, nil
}

// OpenByToken verifies a download token and opens the underlying object.
func (service *VaultService) OpenByToken(token string) (io.ReadCloser, string, error) {
	claims := &downloadClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return service.secretKey, nil
	})
	if err != nil || !parsed.Valid || claims.ObjectKey == "" {
		return nil, "", ErrDownloadTokenBad
	}
	reader, err := service.store.Open(claims.ObjectKey)
	if err != nil {
		return nil, "", err
	}
	return reader, claims.ObjectKey, nil
}
