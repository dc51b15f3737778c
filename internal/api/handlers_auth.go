package api

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/pregoway/pregoway/internal/models"
	"github.com/pregoway/pregoway/internal/security"
	"github.com/pregoway/pregoway/internal/services"
)

const (
	recoveryAttemptLimit  = 5
	recoveryAttemptWindow = 15 * time.Minute
	passwordResetTokenTTL = 30 * time.Minute
	passwordResetPurpose  = "password_reset"
)

type passwordResetClaims struct {
	UserID  uint   `json:"uid"`
	Purpose string `json:"purpose"`
	jwt.RegisteredClaims
}

func (handler *Handler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

func (handler *Handler) Register(c *fiber.Ctx) error {
	input := registerInput{}
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	email, password, err := services.NormalizeCredentialsInput(input.Email, input.Password)
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}
	input.Email = email
	input.Password = password
	input.ConfirmPassword = strings.TrimSpace(input.ConfirmPassword)
	if validationError := validateRegistrationCredentials(input.credentialsInput); validationError != "" {
		return apiError(c, fiber.StatusBadRequest, validationError)
	}

	role := strings.TrimSpace(strings.ToLower(input.Role))
	if role == "" {
		role = models.RolePatient
	}
	if role != models.RolePatient && role != models.RoleDoctor {
		return apiError(c, fiber.StatusBadRequest, "invalid role")
	}

	exists, err := handler.authService.RegistrationEmailExists(input.Email)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to create account")
	}
	if exists {
		return apiError(c, fiber.StatusConflict, "email already exists")
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to secure password")
	}

	recoveryCode, recoveryHash, err := generateRecoveryCodeHash()
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to create recovery code")
	}

	user := models.User{
		Email:            input.Email,
		PasswordHash:     string(passwordHash),
		RecoveryCodeHash: recoveryHash,
		Role:             role,
		Name:             strings.TrimSpace(input.Name),
		Language:         handler.i18n.DefaultLanguage(),
		RiskStatus:       models.RiskStatusLow,
		// Doctors have no pregnancy onboarding to walk through.
		OnboardingCompleted: role == models.RoleDoctor,
		CreatedAt:           time.Now().In(handler.location),
	}
	if err := handler.authService.CreateUser(&user); err != nil {
		return apiError(c, fiber.StatusConflict, "email already exists")
	}

	if role == models.RoleDoctor {
		profile := models.DoctorProfile{
			UserID:          user.ID,
			Specialization:  strings.TrimSpace(input.Specialization),
			HospitalName:    strings.TrimSpace(input.HospitalName),
			ExperienceYears: input.ExperienceYears,
			LicenseNumber:   strings.TrimSpace(input.LicenseNumber),
		}
		if err := handler.repos.Doctors.CreateProfile(&profile); err != nil {
			return apiError(c, fiber.StatusInternalServerError, "failed to create doctor profile")
		}
	}

	if err := handler.setAuthCookie(c, &user, true); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to create session")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"user":          handler.userPayload(&user),
		"recovery_code": recoveryCode,
	})
}

func (handler *Handler) Login(c *fiber.Ctx) error {
	credentials, err := parseCredentials(c)
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	user, err := handler.authService.FindByNormalizedEmail(credentials.Email)
	if err != nil {
		return apiError(c, fiber.StatusUnauthorized, "invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(credentials.Password)); err != nil {
		return apiError(c, fiber.StatusUnauthorized, "invalid credentials")
	}

	if user.MustChangePassword {
		token, err := handler.buildPasswordResetToken(user.ID)
		if err != nil {
			return apiError(c, fiber.StatusInternalServerError, "failed to create reset token")
		}
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error":       "password change required",
			"reset_token": token,
		})
	}

	if err := handler.setAuthCookie(c, &user, credentials.RememberMe); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to create session")
	}

	return c.JSON(fiber.Map{"user": handler.userPayload(&user)})
}

func (handler *Handler) Logout(c *fiber.Ctx) error {
	handler.clearAuthCookie(c)
	return c.JSON(fiber.Map{"ok": true})
}

func (handler *Handler) ForgotPassword(c *fiber.Ctx) error {
	input := forgotPasswordInput{}
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	client := throttleClientKey(c)
	now := time.Now()
	if handler.recoveryLimiter.blocked(client, now) {
		return apiError(c, fiber.StatusTooManyRequests, "too many attempts, try again later")
	}

	code := strings.ToUpper(strings.TrimSpace(input.RecoveryCode))
	if err := services.ValidateRecoveryCodeFormat(code); err != nil {
		handler.recoveryLimiter.recordFailure(client, now)
		return apiError(c, fiber.StatusBadRequest, "invalid recovery code")
	}

	user, err := handler.authService.FindUserByRecoveryCode(code)
	if err != nil {
		handler.recoveryLimiter.recordFailure(client, now)
		if errors.Is(err, services.ErrRecoveryCodeNotFound) {
			return apiError(c, fiber.StatusUnauthorized, "invalid recovery code")
		}
		return apiError(c, fiber.StatusInternalServerError, "failed to verify recovery code")
	}

	token, err := handler.buildPasswordResetToken(user.ID)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to create reset token")
	}

	handler.recoveryLimiter.clear(client)
	return c.JSON(fiber.Map{"reset_token": token})
}

func (handler *Handler) ResetPassword(c *fiber.Ctx) error {
	input := resetPasswordInput{}
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	userID, err := handler.parsePasswordResetToken(strings.TrimSpace(input.Token))
	if err != nil {
		return apiError(c, fiber.StatusUnauthorized, "invalid or expired reset token")
	}

	password := strings.TrimSpace(input.Password)
	if err := services.ValidatePasswordStrength(password); err != nil {
		return apiError(c, fiber.StatusBadRequest, "password must be at least 8 characters with upper, lower and digit")
	}
	if confirm := strings.TrimSpace(input.ConfirmPassword); confirm != "" && confirm != password {
		return apiError(c, fiber.StatusBadRequest, "passwords do not match")
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to secure password")
	}
	if err := handler.authService.UpdatePassword(userID, string(passwordHash), false); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to update password")
	}

	return c.JSON(fiber.Map{"ok": true})
}

func (handler *Handler) ChangePassword(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	input := changePasswordInput{}
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(strings.TrimSpace(input.CurrentPassword))); err != nil {
		return apiError(c, fiber.StatusUnauthorized, "current password is incorrect")
	}

	newPassword := strings.TrimSpace(input.NewPassword)
	if err := services.ValidatePasswordStrength(newPassword); err != nil {
		return apiError(c, fiber.StatusBadRequest, "password must be at least 8 characters with upper, lower and digit")
	}
	if confirm := strings.TrimSpace(input.ConfirmPassword); confirm != "" && confirm != newPassword {
		return apiError(c, fiber.StatusBadRequest, "passwords do not match")
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to secure password")
	}
	if err := handler.authService.UpdatePassword(user.ID, string(passwordHash), false); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to update password")
	}

	return c.JSON(fiber.Map{"ok": true})
}

func (handler *Handler) RegenerateRecoveryCode(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	recoveryCode, recoveryHash, err := generateRecoveryCodeHash()
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to create recovery code")
	}
	if err := handler.authService.UpdateRecoveryCodeHash(user.ID, recoveryHash); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to store recovery code")
	}

	return c.JSON(fiber.Map{"recovery_code": recoveryCode})
}

func generateRecoveryCodeHash() (string, string, error) {
	code, err := security.NewRecoveryCode()
	if err != nil {
		return "", "", err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return "", "", err
	}
	return code, string(hash), nil
}

func (handler *Handler) buildPasswordResetToken(userID uint) (string, error) {
	now := time.Now()
	claims := passwordResetClaims{
		UserID:  userID,
		Purpose: passwordResetPurpose,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(passwordResetTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(handler.secretKey)
}

func (handler *Handler) parsePasswordResetToken(raw string) (uint, error) {
	if raw == "" {
		return 0, errors.New("missing token")
	}
	claims := &passwordResetClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return handler.secretKey, nil
	})
	if err != nil || !token.Valid {
		return 0, errors.New("invalid token")
	}
	if claims.Purpose != passwordResetPurpose || claims.UserID == 0 {
		return 0, errors.New("invalid token")
	}
	if claims.ExpiresAt == nil || claims.ExpiresAt.Time.Before(time.Now()) {
		return 0, errors.New("token expired")
	}
	return claims.UserID, nil
}
