package api

import (
	"testing"
	"time"

	"github.com/pregoway/pregoway/internal/models"
)

func TestPasswordResetTokenRoundTrip(t *testing.T) {
	t.Parallel()

	handler := &Handler{secretKey: []byte(testSecretKey)}

	token, err := handler.buildPasswordResetToken(42)
	if err != nil {
		t.Fatalf("build reset token: %v", err)
	}

	userID, err := handler.parsePasswordResetToken(token)
	if err != nil {
		t.Fatalf("parse reset token: %v", err)
	}
	if userID != 42 {
		t.Fatalf("expected user id 42, got %d", userID)
	}
}

func TestPasswordResetTokenRejectsAuthToken(t *testing.T) {
	t.Parallel()

	handler := &Handler{secretKey: []byte(testSecretKey)}

	authToken, err := handler.buildToken(&models.User{ID: 42, Role: models.RolePatient}, time.Hour)
	if err != nil {
		t.Fatalf("build auth token: %v", err)
	}

	if _, err := handler.parsePasswordResetToken(authToken); err == nil {
		t.Fatal("an auth token must not pass as a reset token")
	}
}

func TestPasswordResetTokenRejectsForeignSignature(t *testing.T) {
	t.Parallel()

	issuer := &Handler{secretKey: []byte(testSecretKey)}
	verifier := &Handler{secretKey: []byte("another-secret-key-0123456789abcd")}

	token, err := issuer.buildPasswordResetToken(7)
	if err != nil {
		t.Fatalf("build reset token: %v", err)
	}

	if _, err := verifier.parsePasswordResetToken(token); err == nil {
		t.Fatal("a foreign signature must be rejected")
	}
}
