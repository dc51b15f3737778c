package cli

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"gorm.io/gorm"

	"github.com/pregoway/pregoway/internal/db"
	"github.com/pregoway/pregoway/internal/models"
)

// RunVerifyDoctorCommand marks a doctor account as verified so patients can
// find it in the directory. Verification is an operator action; there is no
// self-serve path.
func RunVerifyDoctorCommand(dbPath string, email string) error {
	normalizedEmail := strings.ToLower(strings.TrimSpace(email))
	if normalizedEmail == "" {
		return errors.New("email is required")
	}
	if _, err := mail.ParseAddress(normalizedEmail); err != nil {
		return fmt.Errorf("invalid email address: %w", err)
	}

	database, err := db.OpenSQLite(dbPath)
	if err != nil {
		return fmt.Errorf("database init failed: %w", err)
	}

	var user models.User
	if err := database.Where("email = ?", normalizedEmail).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("user %s not found", normalizedEmail)
		}
		return fmt.Errorf("load user: %w", err)
	}
	if user.Role != models.RoleDoctor {
		return fmt.Errorf("user %s is not a doctor account", normalizedEmail)
	}

	doctors := db.NewDoctorRepository(database)
	profile, err := doctors.FindProfile(user.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("doctor %s has no profile", normalizedEmail)
		}
		return fmt.Errorf("load doctor profile: %w", err)
	}
	if profile.Verified {
		fmt.Printf("Doctor %s is already verified.\n", normalizedEmail)
		return nil
	}

	profile.Verified = true
	if err := doctors.SaveProfile(&profile); err != nil {
		return fmt.Errorf("update doctor profile: %w", err)
	}

	fmt.Printf("Doctor %s verified.\n", normalizedEmail)
	return nil
}
