package cache

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"campus-navi/model"
)

// Source 建筑数据来源 (db.BuildingRepo)
type Source interface {
	List(ctx context.Context, activeOnly bool) ([]model.Building, error)
}

// Buildings 可见建筑的内存缓存，导航和地图共用的唯一数据源
// 启动时 Refresh 一次，管理员每次修改后 Invalidate，下次读取时重新拉取
type Buildings struct {
	src Source

	mu        sync.RWMutex
	byName    map[string]model.BuildingRect
	byID      map[uint]model.Building
	list      []model.Building
	stale     bool
	gen       uint64 // Invalidate 每次加一
	refreshed time.Time
}

// NewBuildings 创建缓存 (初始为失效状态)
func NewBuildings(src Source) *Buildings {
	return &Buildings{src: src, stale: true}
}

// Refresh 从数据源重新加载可见建筑
// 读取期间发生的 Invalidate 不会被覆盖: 数据照常装入，但缓存仍保持失效
func (c *Buildings) Refresh(ctx context.Context) error {
	c.mu.RLock()
	gen := c.gen
	c.mu.RUnlock()

	buildings, err := c.src.List(ctx, true)
	if err != nil {
		return err
	}
	byName := make(map[string]model.BuildingRect, len(buildings))
	byID := make(map[uint]model.Building, len(buildings))
	for _, b := range buildings {
		byName[b.Name] = b.BuildingRect()
		byID[b.ID] = b
	}
	sort.Slice(buildings, func(i, j int) bool { return buildings[i].Name < buildings[j].Name })

	c.mu.Lock()
	c.byName = byName
	c.byID = byID
	c.list = buildings
	c.stale = c.gen != gen
	c.refreshed = time.Now()
	c.mu.Unlock()
	return nil
}

// Invalidate 标记缓存失效
func (c *Buildings) Invalidate() {
	c.mu.Lock()
	c.stale = true
	c.gen++
	c.mu.Unlock()
}

// Stale 缓存是否失效
func (c *Buildings) Stale() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.stale
}

// Ensure 失效时重新加载
func (c *Buildings) Ensure(ctx context.Context) error {
	if !c.Stale() {
		return nil
	}
	return c.Refresh(ctx)
}

// Lookup 实现 algo.BuildingLookup
func (c *Buildings) Lookup(name string) (model.BuildingRect, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	b, ok := c.byName[name]
	return b, ok
}

// Get 根据 ID 获取可见建筑
func (c *Buildings) Get(id uint) (model.Building, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	b, ok := c.byID[id]
	return b, ok
}

// List 所有可见建筑 (按名称排序)
func (c *Buildings) List() []model.Building {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]model.Building, len(c.list))
	copy(out, c.list)
	return out
}

// Search 名称或代码包含关键词 (不区分大小写)
func (c *Buildings) Search(query string) []model.Building {
	q := strings.ToLower(query)
	var results []model.Building
	for _, b := range c.List() {
		if strings.Contains(strings.ToLower(b.Name), q) || strings.Contains(strings.ToLower(b.Code), q) {
			results = append(results, b)
		}
	}
	return results
}

// RefreshedAt 最近一次刷新的时间
func (c *Buildings) RefreshedAt() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.refreshed
}
