package models

import (
	"strings"

	"github.com/calzado-next/internal/logger"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	defaultAdminEmail    = "admin@calzado.local"
	defaultAdminPassword = "Admin12345"
)

// InitDefaultAdmin 初始化默认管理员账号（已存在任意管理员时跳过）
func InitDefaultAdmin(db *gorm.DB, email, password string) error {
	var count int64
	if err := db.Model(&User{}).Where("is_admin = ?", true).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		email = defaultAdminEmail
	}
	if password == "" {
		password = defaultAdminPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	var existing User
	err = db.Where("email = ?", email).Limit(1).Find(&existing).Error
	if err != nil {
		return err
	}
	if existing.ID != 0 {
		// 同邮箱普通用户直接提升为管理员
		if err := db.Model(&existing).Update("is_admin", true).Error; err != nil {
			return err
		}
		logger.Warnw("default_admin_promoted", "email", email, "user_id", existing.ID)
		return nil
	}

	admin := User{
		Email:        email,
		PasswordHash: string(hash),
		DisplayName:  "admin",
		IsAdmin:      true,
		Status:       "active",
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}

	if password == defaultAdminPassword {
		logger.Warnw("default_admin_created_with_default_password", "email", email)
		logger.Warnw("default_admin_password_change_required", "email", email)
	} else {
		logger.Warnw("default_admin_created", "email", email, "password_hidden", true)
	}
	return nil
}
