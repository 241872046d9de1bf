package db

import (
	"context"
	"errors"

	"campus-navi/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrUserExists 用户名已存在
var ErrUserExists = errors.New("username already exists")

// UserRepo 用户与角色
type UserRepo struct {
	DB *gorm.DB
}

// NewUserRepo 创建仓库
func NewUserRepo(conn *gorm.DB) *UserRepo {
	return &UserRepo{DB: conn}
}

// FindByUsername 按用户名查找
func (r *UserRepo) FindByUsername(ctx context.Context, username string) (model.User, error) {
	var u model.User
	if err := r.DB.WithContext(ctx).Where("username = ?", username).First(&u).Error; err != nil {
		return model.User{}, translate(err)
	}
	return u, nil
}

// Create 新建用户并写入默认角色
func (r *UserRepo) Create(ctx context.Context, u *model.User) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.User{}).Where("username = ?", u.Username).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrUserExists
		}
		if err := tx.Create(u).Error; err != nil {
			return err
		}
		return tx.Create(&model.UserRole{UserID: u.ID, Role: model.RoleStudent}).Error
	})
}

// Role 查询角色，没有记录时返回 student
func (r *UserRepo) Role(ctx context.Context, userID uint) (string, error) {
	var role model.UserRole
	err := r.DB.WithContext(ctx).Where("user_id = ?", userID).First(&role).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.RoleStudent, nil
	}
	if err != nil {
		return "", err
	}
	return role.Role, nil
}

// SetRole 设置用户角色 (seed 命令创建管理员时使用)
func (r *UserRepo) SetRole(ctx context.Context, userID uint, role string) error {
	return r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"role"}),
	}).Create(&model.UserRole{UserID: userID, Role: role}).Error
}
