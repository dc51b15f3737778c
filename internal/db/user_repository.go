package db

import (
	"github.com/pregoway/pregoway/internal/models"
	"gorm.io/gorm"
)

type UserRepository struct {
	database *gorm.DB
}

func NewUserRepository(database *gorm.DB) *UserRepository {
	return &UserRepository{database: database}
}

func (repo *UserRepository) CountUsers() (int64, error) {
	var count int64
	if err := repo.database.Model(&models.User{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (repo *UserRepository) FindByID(userID uint) (models.User, error) {
	var user models.User
	if err := repo.database.First(&user, userID).Error; err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (repo *UserRepository) FindByNormalizedEmail(email string) (models.User, error) {
	var user models.User
	if err := repo.database.Where("lower(trim(email)) = ?", email).First(&user).Error; err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (repo *UserRepository) ExistsByNormalizedEmail(email string) (bool, error) {
	var matched int64
	if err := repo.database.Model(&models.User{}).
		Where("lower(trim(email)) = ?", email).
		Count(&matched).Error; err != nil {
		return false, err
	}
	return matched > 0, nil
}

func (repo *UserRepository) Create(user *models.User) error {
	return withWriteRetry(func() error {
		return repo.database.Create(user).Error
	})
}

func (repo *UserRepository) Save(user *models.User) error {
	return withWriteRetry(func() error {
		return repo.database.Save(user).Error
	})
}

func (repo *UserRepository) UpdateByID(userID uint, updates map[string]any) error {
	return withWriteRetry(func() error {
		return repo.database.Model(&models.User{}).Where("id = ?", userID).Updates(updates).Error
	})
}

func (repo *UserRepository) UpdatePassword(userID uint, passwordHash string, mustChangePassword bool) error {
	return repo.UpdateByID(userID, map[string]any{
		"password_hash":        passwordHash,
		"must_change_password": mustChangePassword,
	})
}

func (repo *UserRepository) UpdateRecoveryCodeHash(userID uint, recoveryHash string) error {
	return repo.UpdateByID(userID, map[string]any{"recovery_code_hash": recoveryHash})
}

func (repo *UserRepository) UpdateRiskStatus(userID uint, riskStatus string) error {
	return repo.UpdateByID(userID, map[string]any{"risk_status": riskStatus})
}

func (repo *UserRepository) ListWithRecoveryCodeHash() ([]models.User, error) {
	users := make([]models.User, 0)
	if err := repo.database.Where("recovery_code_hash <> ''").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (repo *UserRepository) ListPatientsWithLMP() ([]models.User, error) {
	users := make([]models.User, 0)
	if err := repo.database.
		Where("role = ? AND lmp IS NOT NULL", models.RolePatient).
		Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (repo *UserRepository) DeleteAccountAndRelatedData(userID uint) error {
	return withWriteRetry(func() error {
		return repo.database.Transaction(func(tx *gorm.DB) error {
			for _, record := range []any{
				&models.TimelineEvent{},
				&models.Checkin{},
				&models.HealthMetric{},
				&models.RiskLog{},
				&models.Document{},
			} {
				if err := tx.Where("user_id = ?", userID).Delete(record).Error; err != nil {
					return err
				}
			}
			if err := tx.Where("patient_id = ?", userID).Delete(&models.CareLink{}).Error; err != nil {
				return err
			}
			return tx.Delete(&models.User{}, userID).Error
		})
	})
}
