package db

import (
	"context"
	"time"

	"campus-navi/model"

	"gorm.io/gorm"
)

// ContentRepo 公告与活动
type ContentRepo struct {
	DB *gorm.DB
}

// NewContentRepo 创建仓库
func NewContentRepo(conn *gorm.DB) *ContentRepo {
	return &ContentRepo{DB: conn}
}

// ListAnnouncements 公告按创建时间倒序；activeOnly 时隐藏停用和已过期的公告
func (r *ContentRepo) ListAnnouncements(ctx context.Context, activeOnly bool) ([]model.Announcement, error) {
	var items []model.Announcement
	q := r.DB.WithContext(ctx).Order("created_at desc")
	if activeOnly {
		q = q.Where("is_active = ?", true).
			Where("expires_at IS NULL OR expires_at > ?", time.Now())
	}
	if err := q.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// CreateAnnouncement 新建公告
func (r *ContentRepo) CreateAnnouncement(ctx context.Context, a *model.Announcement) error {
	return r.DB.WithContext(ctx).Create(a).Error
}

// DeleteAnnouncement 删除公告
func (r *ContentRepo) DeleteAnnouncement(ctx context.Context, id uint) error {
	return affected(r.DB.WithContext(ctx).Delete(&model.Announcement{}, id))
}

// SetAnnouncementActive 切换公告状态
func (r *ContentRepo) SetAnnouncementActive(ctx context.Context, id uint, active bool) error {
	return affected(r.DB.WithContext(ctx).Model(&model.Announcement{}).Where("id = ?", id).Update("is_active", active))
}

// ListEvents 活动按开始时间排序，eventType 非空时按类型过滤
func (r *ContentRepo) ListEvents(ctx context.Context, activeOnly bool, eventType string) ([]model.Event, error) {
	var items []model.Event
	q := r.DB.WithContext(ctx).Order("start_time asc")
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	if eventType != "" {
		q = q.Where("event_type = ?", eventType)
	}
	if err := q.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// CreateEvent 新建活动
func (r *ContentRepo) CreateEvent(ctx context.Context, e *model.Event) error {
	return r.DB.WithContext(ctx).Create(e).Error
}

// DeleteEvent 删除活动
func (r *ContentRepo) DeleteEvent(ctx context.Context, id uint) error {
	return affected(r.DB.WithContext(ctx).Delete(&model.Event{}, id))
}

// SetEventActive 切换活动状态
func (r *ContentRepo) SetEventActive(ctx context.Context, id uint, active bool) error {
	return affected(r.DB.WithContext(ctx).Model(&model.Event{}).Where("id = ?", id).Update("is_active", active))
}

func affected(res *gorm.DB) error {
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
