package db

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"campus-navi/config"
	"campus-navi/data"
	"campus-navi/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// ErrNotFound 记录不存在
var ErrNotFound = errors.New("record not found")

// DB 全局数据库连接 (InitDB 之后可用)
var DB *gorm.DB

// DSN 根据配置拼接 PostgreSQL 连接串
func DSN(cfg config.DBConfig) string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=%s",
		cfg.Host, cfg.User, cfg.Password, cfg.Name, cfg.Port, cfg.TimeZone,
	)
}

// InitDB 连接数据库并自动迁移表结构
// 带重试 (Docker 启动时数据库可能还没准备好)
func InitDB(cfg config.DBConfig) (*gorm.DB, error) {
	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 1
	}

	var conn *gorm.DB
	var err error
	for i := 0; i < maxRetries; i++ {
		conn, err = gorm.Open(postgres.Open(DSN(cfg)), &gorm.Config{})
		if err == nil {
			break
		}
		log.Printf("等待数据库就绪... (%d/%d): %v", i+1, maxRetries, err)
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("无法连接数据库: %w", err)
	}

	if err := Migrate(conn); err != nil {
		return nil, err
	}

	DB = conn
	log.Println("数据库连接并初始化成功！")
	return conn, nil
}

// Migrate 自动迁移模式 (自动创建表结构)
func Migrate(conn *gorm.DB) error {
	err := conn.AutoMigrate(
		&model.User{},
		&model.UserRole{},
		&model.Building{},
		&model.Announcement{},
		&model.Event{},
	)
	if err != nil {
		return fmt.Errorf("数据库迁移失败: %w", err)
	}
	return nil
}

// SeedBuildings 建筑表为空时导入初始数据
// filepath 为空时使用内置的 buildings.json
func SeedBuildings(conn *gorm.DB, filepath string) (int, error) {
	var count int64
	if err := conn.Model(&model.Building{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("统计建筑失败: %w", err)
	}
	if count > 0 {
		return 0, nil
	}

	raw := data.SeedBuildings
	if filepath != "" {
		file, err := os.ReadFile(filepath)
		if err != nil {
			return 0, fmt.Errorf("读取文件失败: %w", err)
		}
		raw = file
	}

	buildings, err := ParseBuildings(raw)
	if err != nil {
		return 0, err
	}
	if len(buildings) == 0 {
		return 0, nil
	}
	if err := conn.CreateInBatches(buildings, 100).Error; err != nil {
		return 0, fmt.Errorf("插入建筑失败: %w", err)
	}
	log.Printf("导入了 %d 栋建筑", len(buildings))
	return len(buildings), nil
}

// ParseBuildings 解析并校验建筑 JSON 数组
func ParseBuildings(raw []byte) ([]model.Building, error) {
	var buildings []model.Building
	if err := json.Unmarshal(raw, &buildings); err != nil {
		return nil, fmt.Errorf("解析 JSON 失败: %w", err)
	}
	for i := range buildings {
		b := &buildings[i]
		if b.Color == "" {
			b.Color = model.DefaultBuildingColor
		}
		if err := b.Validate(); err != nil {
			return nil, fmt.Errorf("建筑 %q 无效: %w", b.Code, err)
		}
	}
	return buildings, nil
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
