package repository

import (
	"fmt"
	"time"

	"github.com/Almaty808/Fast-Charge-sub000/internal/config"
	"github.com/Almaty808/Fast-Charge-sub000/internal/models"
	"github.com/Almaty808/Fast-Charge-sub000/internal/store"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Repository - интерфейс для работы с БД
type Repository struct {
	db *gorm.DB
}

// NewPostgresDB создаёт подключение к PostgreSQL
func NewPostgresDB(cfg config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		cfg.Host, cfg.User, cfg.Password, cfg.DBName, cfg.Port, cfg.SSLMode,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	// Автомиграция моделей
	if err := db.AutoMigrate(
		&models.User{},
		&models.OTPCode{},
		&store.KVEntry{},
	); err != nil {
		return nil, err
	}

	return db, nil
}

// NewRepository создаёт новый репозиторий
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// === Users ===

// GetUserByEmail находит пользователя по email
func (r *Repository) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// GetUserByID находит пользователя по ID
func (r *Repository) GetUserByID(id uint) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// CreateUser создаёт нового пользователя
func (r *Repository) CreateUser(user *models.User) error {
	return r.db.Create(user).Error
}

// UpdateUser обновляет данные пользователя
func (r *Repository) UpdateUser(user *models.User) error {
	return r.db.Save(user).Error
}

// === OTP Codes ===

// CreateOTPCode создаёт новый OTP код
func (r *Repository) CreateOTPCode(otp *models.OTPCode) error {
	// Помечаем все старые коды как использованные
	r.db.Model(&models.OTPCode{}).
		Where("user_id = ? AND used = ?", otp.UserID, false).
		Update("used", true)
	return r.db.Create(otp).Error
}

// VerifyOTPCode проверяет OTP код
func (r *Repository) VerifyOTPCode(userID uint, code string) (*models.OTPCode, error) {
	var otp models.OTPCode
	if err := r.db.Where(
		"user_id = ? AND code = ? AND used = ? AND expires_at > ?",
		userID, code, false, time.Now(),
	).First(&otp).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &otp, nil
}

// MarkOTPCodeUsed помечает код как использованный
func (r *Repository) MarkOTPCodeUsed(id uint) error {
	return r.db.Model(&models.OTPCode{}).Where("id = ?", id).Update("used", true).Error
}

// DeleteExpiredOTPCodes удаляет просроченные коды (вызывается из cron)
func (r *Repository) DeleteExpiredOTPCodes() (int64, error) {
	result := r.db.Where("expires_at < ?", time.Now()).Delete(&models.OTPCode{})
	return result.RowsAffected, result.Error
}
