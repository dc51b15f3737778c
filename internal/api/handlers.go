package api

import (
	"errors"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/pregoway/pregoway/internal/config"
	"github.com/pregoway/pregoway/internal/db"
	"github.com/pregoway/pregoway/internal/i18n"
	"github.com/pregoway/pregoway/internal/models"
	"github.com/pregoway/pregoway/internal/services"
)

type Handler struct {
	repos           *db.Repositories
	authService     *services.AuthService
	profileService  *services.ProfileService
	timelineService *services.TimelineService
	checkinService  *services.CheckinService
	metricsService  *services.MetricsService
	vaultService    *services.VaultService
	careService     *services.CareTeamService
	doctorService   *services.DoctorService
	exportService   *services.ExportService
	secretKey       []byte
	location        *time.Location
	cookieSecure    bool
	i18n            *i18n.Manager
	logger          zerolog.Logger
	recoveryLimiter *recoveryThrottle
}

type credentialsInput struct {
	Email           string `json:"email" form:"email"`
	Password        string `json:"password" form:"password"`
	ConfirmPassword string `json:"confirm_password" form:"confirm_password"`
	RememberMe      bool   `json:"remember_me" form:"remember_me"`
}

type registerInput struct {
	credentialsInput
	Name            string `json:"name" form:"name"`
	Role            string `json:"role" form:"role"`
	Specialization  string `json:"specialization" form:"specialization"`
	HospitalName    string `json:"hospital_name" form:"hospital_name"`
	ExperienceYears int    `json:"experience_years" form:"experience_years"`
	LicenseNumber   string `json:"license_number" form:"license_number"`
}

type forgotPasswordInput struct {
	RecoveryCode string `json:"recovery_code" form:"recovery_code"`
}

type resetPasswordInput struct {
	Token           string `json:"token" form:"token"`
	Password        string `json:"password" form:"password"`
	ConfirmPassword string `json:"confirm_password" form:"confirm_password"`
}

type changePasswordInput struct {
	CurrentPassword string `json:"current_password" form:"current_password"`
	NewPassword     string `json:"new_password" form:"new_password"`
	ConfirmPassword string `json:"confirm_password" form:"confirm_password"`
}

type deleteAccountInput struct {
	Password string `json:"password" form:"password"`
}

type profileInput struct {
	Name     *string `json:"name"`
	Language *string `json:"language"`
	LMP      *string `json:"lmp"`
}

type checkinSubmitInput struct {
	Answers models.AnswerSet `json:"answers"`
}

type metricInput struct {
	Type  string `json:"type" form:"type"`
	Value string `json:"value" form:"value"`
}

type rescheduleInput struct {
	EventDate string `json:"event_date" form:"event_date"`
}

type linkRequestInput struct {
	DoctorID uint `json:"doctor_id" form:"doctor_id"`
}

type linkResolveInput struct {
	Accept bool `json:"accept" form:"accept"`
}

type messageInput struct {
	PeerID  uint   `json:"peer_id" form:"peer_id"`
	Message string `json:"message" form:"message"`
}

type analyzeInput struct {
	RiskStatus string `json:"risk_status" form:"risk_status"`
}

func NewHandler(database *gorm.DB, cfg *config.Config, i18nManager *i18n.Manager, logger zerolog.Logger) (*Handler, error) {
	if i18nManager == nil {
		return nil, errors.New("i18n manager is required")
	}
	location := cfg.Location()

	repos := db.NewRepositories(database)

	var scorer services.RiskScorer = services.HeuristicScorer{}
	if cfg.RiskScorerURL != "" {
		scorer = services.NewRemoteScorer(cfg.RiskScorerURL)
	}

	store, err := services.NewDiskStore(cfg.VaultRoot)
	if err != nil {
		return nil, err
	}

	timelineService := services.NewTimelineService(repos.Timeline, location)

	return &Handler{
		repos:           repos,
		authService:     services.NewAuthService(repos.Users),
		profileService:  services.NewProfileService(repos.Users, location),
		timelineService: timelineService,
		checkinService:  services.NewCheckinService(repos.Checkins, repos.RiskLogs, repos.Users, scorer, location, logger),
		metricsService:  services.NewMetricsService(repos.Metrics, location),
		vaultService:    services.NewVaultService(repos.Documents, store, cfg.SecretKey),
		careService:     services.NewCareTeamService(repos.Care, repos.Doctors, repos.Users),
		doctorService:   services.NewDoctorService(repos.Care, repos.Users, repos.Checkins, repos.RiskLogs, location),
		exportService:   services.NewExportService(repos.Checkins, repos.Metrics, repos.RiskLogs, location),
		secretKey:       []byte(cfg.SecretKey),
		location:        location,
		cookieSecure:    cfg.CookieSecure,
		i18n:            i18nManager,
		logger:          logger,
		recoveryLimiter: newRecoveryThrottle(recoveryAttemptLimit, recoveryAttemptWindow),
	}, nil
}
