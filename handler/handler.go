package handler

import (
	"context"
	"strconv"
	"sync/atomic"
	"time"

	"campus-navi/algo"
	"campus-navi/cache"
	"campus-navi/config"
	"campus-navi/model"

	"github.com/gin-gonic/gin"
)

// BuildingStore 建筑存储 (db.BuildingRepo)
type BuildingStore interface {
	List(ctx context.Context, activeOnly bool) ([]model.Building, error)
	Get(ctx context.Context, id uint) (model.Building, error)
	Create(ctx context.Context, b *model.Building) error
	Update(ctx context.Context, b *model.Building) error
	Delete(ctx context.Context, id uint) error
	SetActive(ctx context.Context, id uint, active bool) error
	SetPosition(ctx context.Context, id uint, x, y float64) error
}

// UserStore 用户与角色 (db.UserRepo)
type UserStore interface {
	FindByUsername(ctx context.Context, username string) (model.User, error)
	Create(ctx context.Context, u *model.User) error
	Role(ctx context.Context, userID uint) (string, error)
}

// ContentStore 公告与活动 (db.ContentRepo)
type ContentStore interface {
	ListAnnouncements(ctx context.Context, activeOnly bool) ([]model.Announcement, error)
	CreateAnnouncement(ctx context.Context, a *model.Announcement) error
	DeleteAnnouncement(ctx context.Context, id uint) error
	SetAnnouncementActive(ctx context.Context, id uint, active bool) error
	ListEvents(ctx context.Context, activeOnly bool, eventType string) ([]model.Event, error)
	CreateEvent(ctx context.Context, e *model.Event) error
	DeleteEvent(ctx context.Context, id uint) error
	SetEventActive(ctx context.Context, id uint, active bool) error
}

// Handler 持有所有接口依赖
type Handler struct {
	Buildings BuildingStore
	Users     UserStore
	Content   ContentStore
	Cache     *cache.Buildings

	JWTSecret     []byte
	JWTTTL        time.Duration
	SimSpeed      float64
	FrameInterval time.Duration

	layout atomic.Pointer[algo.CampusMap]
}

// New 创建 Handler
func New(buildings BuildingStore, users UserStore, content ContentStore, layout *algo.CampusMap) *Handler {
	h := &Handler{
		Buildings:     buildings,
		Users:         users,
		Content:       content,
		Cache:         cache.NewBuildings(buildings),
		JWTSecret:     []byte(config.DefaultJWTSecret),
		JWTTTL:        24 * time.Hour,
		SimSpeed:      model.SimulatedSpeed,
		FrameInterval: 16 * time.Millisecond,
	}
	h.layout.Store(layout)
	return h
}

// Layout 当前校园布局
func (h *Handler) Layout() *algo.CampusMap { return h.layout.Load() }

// SetLayout 替换校园布局 (布局文件热加载)
func (h *Handler) SetLayout(m *algo.CampusMap) { h.layout.Store(m) }

// parseID 解析路径参数 :id
func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
