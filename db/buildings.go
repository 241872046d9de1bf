package db

import (
	"context"
	"time"

	"campus-navi/model"

	"gorm.io/gorm"
)

// BuildingRepo buildings 表的增删改查
type BuildingRepo struct {
	DB *gorm.DB
}

// NewBuildingRepo 创建仓库
func NewBuildingRepo(conn *gorm.DB) *BuildingRepo {
	return &BuildingRepo{DB: conn}
}

// List 按名称排序列出建筑，activeOnly 时只返回可见建筑
func (r *BuildingRepo) List(ctx context.Context, activeOnly bool) ([]model.Building, error) {
	var buildings []model.Building
	q := r.DB.WithContext(ctx).Order("name")
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	if err := q.Find(&buildings).Error; err != nil {
		return nil, err
	}
	return buildings, nil
}

// Get 根据 ID 获取建筑
func (r *BuildingRepo) Get(ctx context.Context, id uint) (model.Building, error) {
	var b model.Building
	if err := r.DB.WithContext(ctx).First(&b, id).Error; err != nil {
		return model.Building{}, translate(err)
	}
	return b, nil
}

// Create 新建建筑
func (r *BuildingRepo) Create(ctx context.Context, b *model.Building) error {
	return r.DB.WithContext(ctx).Create(b).Error
}

// Update 整条更新
func (r *BuildingRepo) Update(ctx context.Context, b *model.Building) error {
	return affected(r.DB.WithContext(ctx).Model(&model.Building{ID: b.ID}).
		Select("*").Omit("id", "created_at", "created_by").
		Updates(b))
}

// Delete 删除建筑
func (r *BuildingRepo) Delete(ctx context.Context, id uint) error {
	return affected(r.DB.WithContext(ctx).Delete(&model.Building{}, id))
}

// SetActive 切换地图上的可见性
func (r *BuildingRepo) SetActive(ctx context.Context, id uint, active bool) error {
	return r.updateColumns(ctx, id, map[string]any{"is_active": active})
}

// SetPosition 保存编辑器拖拽的位置，只改左上角，不改宽高
func (r *BuildingRepo) SetPosition(ctx context.Context, id uint, x, y float64) error {
	return r.updateColumns(ctx, id, map[string]any{"coord_x": x, "coord_y": y})
}

func (r *BuildingRepo) updateColumns(ctx context.Context, id uint, cols map[string]any) error {
	cols["updated_at"] = time.Now()
	return affected(r.DB.WithContext(ctx).Model(&model.Building{}).Where("id = ?", id).Updates(cols))
}
