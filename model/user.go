package model

import "gorm.io/gorm"

// 角色
const (
	RoleStudent = "student"
	RoleAdmin   = "admin"
)

// User 用户结构体 (用于登录认证)
type User struct {
	gorm.Model
	Username string `json:"username" gorm:"uniqueIndex;not null"` // 用户名唯一且不为空
	Password string `json:"-" gorm:"not null"`                    // 加密后的密码
	Email    string `json:"email"`
	FullName string `json:"full_name"`
}

// UserRole 用户角色表 (user_roles)，没有记录的用户视为 student
type UserRole struct {
	UserID uint   `json:"user_id" gorm:"primaryKey"`
	Role   string `json:"role" gorm:"not null;default:student"`
}
