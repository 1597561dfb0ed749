package auth

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/Almaty808/Fast-Charge-sub000/internal/models"
	"github.com/Almaty808/Fast-Charge-sub000/internal/repository"
	"github.com/Almaty808/Fast-Charge-sub000/internal/services/email"
	"github.com/gin-gonic/gin"
)

const (
	// Админские настройки
	adminEmail = "admin@fast-charge.kz"

	// Время жизни OTP кода
	otpExpirationMinutes = 5
)

// AuthHandler - обработчики авторизации
type AuthHandler struct {
	repo  *repository.Repository
	email *email.Service
}

// NewAuthHandler создаёт новый обработчик авторизации
func NewAuthHandler(repo *repository.Repository, emailService *email.Service) *AuthHandler {
	return &AuthHandler{repo: repo, email: emailService}
}

// RequestCodeRequest - запрос на отправку кода
type RequestCodeRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// RequestCode отправляет OTP код на email
func (h *AuthHandler) RequestCode(c *gin.Context) {
	var req RequestCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Введите корректный email"})
		return
	}

	userEmail := strings.ToLower(strings.TrimSpace(req.Email))

	// Находим или создаём пользователя
	user, err := h.repo.GetUserByEmail(userEmail)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка сервера"})
		return
	}

	if user == nil {
		// Создаём нового пользователя
		user = &models.User{
			Email:   userEmail,
			IsAdmin: userEmail == adminEmail,
		}
		if err := h.repo.CreateUser(user); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка создания пользователя"})
			return
		}
	}

	// Генерируем OTP код
	code := GenerateOTPCode()

	// Сохраняем код в БД
	otp := &models.OTPCode{
		UserID:    user.ID,
		Code:      code,
		ExpiresAt: time.Now().Add(otpExpirationMinutes * time.Minute),
	}
	if err := h.repo.CreateOTPCode(otp); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка создания кода"})
		return
	}

	// Отправляем код по email; при отключённом SMTP код остаётся в логе
	if h.email.IsEnabled() {
		if err := h.email.SendOTP(userEmail, code); err != nil {
			log.Printf("[Auth] Ошибка отправки OTP на %s: %v", userEmail, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка отправки кода"})
			return
		}
	} else {
		log.Printf("[Auth] OTP код для %s: %s", userEmail, code)
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Код отправлен на " + userEmail,
		"email":   userEmail,
	})
}

// VerifyCodeRequest - запрос на проверку кода
type VerifyCodeRequest struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code" binding:"required,len=6"`
}

// VerifyCode проверяет OTP код и выдаёт JWT
func (h *AuthHandler) VerifyCode(c *gin.Context) {
	var req VerifyCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Неверный формат запроса"})
		return
	}

	userEmail := strings.ToLower(strings.TrimSpace(req.Email))

	// Находим пользователя
	user, err := h.repo.GetUserByEmail(userEmail)
	if err != nil || user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Пользователь не найден"})
		return
	}

	// Проверяем код
	otp, err := h.repo.VerifyOTPCode(user.ID, req.Code)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка проверки кода"})
		return
	}

	if otp == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Неверный или просроченный код"})
		return
	}

	// Помечаем код как использованный
	h.repo.MarkOTPCodeUsed(otp.ID)

	// Генерируем JWT токен
	token, err := GenerateJWT(user.ID, user.Email, user.FullName, user.IsAdmin, user.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка генерации токена"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user": gin.H{
			"id":        user.ID,
			"email":     user.Email,
			"full_name": user.FullName,
			"is_admin":  user.IsAdmin,
			"role":      user.Role,
		},
	})
}

// GetCurrentUser возвращает данные текущего пользователя
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Не авторизован"})
		return
	}

	user, err := h.repo.GetUserByID(userID.(uint))
	if err != nil || user == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Пользователь не найден"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":        user.ID,
		"email":     user.Email,
		"full_name": user.FullName,
		"is_admin":  user.IsAdmin,
		"role":      user.Role,
	})
}

// UpdateProfileRequest - запрос на обновление профиля
type UpdateProfileRequest struct {
	FullName string `json:"full_name" binding:"required"`
}

// UpdateProfile сохраняет ФИО сотрудника (подставляется в журнал изменений)
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Не авторизован"})
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Укажите ФИО"})
		return
	}

	user, err := h.repo.GetUserByID(userID.(uint))
	if err != nil || user == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Пользователь не найден"})
		return
	}

	user.FullName = strings.TrimSpace(req.FullName)
	if err := h.repo.UpdateUser(user); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка сохранения профиля"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Профиль обновлён"})
}
