package models

import (
	"time"
)

// User - сотрудник, работающий с учётом станций
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Email     string    `gorm:"uniqueIndex;size:255;not null" json:"email"`
	FullName  string    `gorm:"size:255" json:"full_name"` // подставляется в журнал изменений
	IsAdmin   bool      `gorm:"default:false" json:"is_admin"`
	Role      string    `gorm:"size:20;default:'employee'" json:"role"` // admin, employee
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// OTPCode - одноразовый код для входа
type OTPCode struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null" json:"user_id"`
	Code      string    `gorm:"size:6;not null" json:"code"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	Used      bool      `gorm:"default:false" json:"used"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	User      User      `gorm:"foreignKey:UserID" json:"-"`
}
