package db

import (
	"github.com/pregoway/pregoway/internal/models"
	"gorm.io/gorm"
)

type DoctorRepository struct {
	database *gorm.DB
}

func NewDoctorRepository(database *gorm.DB) *DoctorRepository {
	return &DoctorRepository{database: database}
}

func (repo *DoctorRepository) CreateProfile(profile *models.DoctorProfile) error {
	return withWriteRetry(func() error {
		return repo.database.Create(profile).Error
	})
}

func (repo *DoctorRepository) FindProfile(userID uint) (models.DoctorProfile, error) {
	var profile models.DoctorProfile
	if err := repo.database.
		Where("user_id = ?", userID).
		First(&profile).Error; err != nil {
		return models.DoctorProfile{}, err
	}
	return profile, nil
}

func (repo *DoctorRepository) SaveProfile(profile *models.DoctorProfile) error {
	return withWriteRetry(func() error {
		return repo.database.Save(profile).Error
	})
}

// ListVerified returns verified doctors joined with their user rows, for the
// patient-facing doctor directory.
func (repo *DoctorRepository) ListVerified() ([]models.User, map[uint]models.DoctorProfile, error) {
	profiles := make([]models.DoctorProfile, 0)
	if err := repo.database.
		Where("verified = ?", true).
		Find(&profiles).Error; err != nil {
		return nil, nil, err
	}

	byUser := make(map[uint]models.DoctorProfile, len(profiles))
	userIDs := make([]uint, 0, len(profiles))
	for _, profile := range profiles {
		byUser[profile.UserID] = profile
		userIDs = append(userIDs, profile.UserID)
	}
	if len(userIDs) == 0 {
		return []models.User{}, byUser, nil
	}

	users := make([]models.User, 0, len(userIDs))
	if err := repo.database.
		Where("id IN ? AND role = ?", userIDs, models.RoleDoctor).
		Order("name ASC, id ASC").
		Find(&users).Error; err != nil {
		return nil, nil, err
	}
	return users, byUser, nil
}
