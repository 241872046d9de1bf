package handler

import (
	"errors"
	"log"
	"net/http"

	"campus-navi/db"
	"campus-navi/model"
	"campus-navi/utils"

	"github.com/gin-gonic/gin"
)

// ActiveRequest 切换可见状态
type ActiveRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}

// PositionRequest 保存建筑位置 (编辑器拖动结束)
type PositionRequest struct {
	X *float64 `json:"x" binding:"required"`
	Y *float64 `json:"y" binding:"required"`
}

// ListAllBuildings 管理员查看所有建筑 (包括隐藏的)
func (h *Handler) ListAllBuildings(c *gin.Context) {
	buildings, err := h.Buildings.List(c.Request.Context(), false)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "查询建筑失败"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":     len(buildings),
		"buildings": buildings,
	})
}

// CreateBuilding 新建建筑
func (h *Handler) CreateBuilding(c *gin.Context) {
	var b model.Building
	if err := c.ShouldBindJSON(&b); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求参数错误: " + err.Error()})
		return
	}
	b.ID = 0
	b.CreatedBy = c.GetString("username")
	applyBuildingDefaults(&b)
	if err := b.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.Buildings.Create(c.Request.Context(), &b); err != nil {
		log.Printf("创建建筑失败: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "创建建筑失败"})
		return
	}
	h.Cache.Invalidate()
	c.JSON(http.StatusCreated, b)
}

// UpdateBuilding 修改建筑
func (h *Handler) UpdateBuilding(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "建筑 ID 无效"})
		return
	}
	var b model.Building
	if err := c.ShouldBindJSON(&b); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求参数错误: " + err.Error()})
		return
	}
	b.ID = id
	applyBuildingDefaults(&b)
	if err := b.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.Buildings.Update(c.Request.Context(), &b); err != nil {
		storeError(c, err, "修改建筑失败")
		return
	}
	h.Cache.Invalidate()
	c.JSON(http.StatusOK, b)
}

// DeleteBuilding 删除建筑
func (h *Handler) DeleteBuilding(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "建筑 ID 无效"})
		return
	}
	if err := h.Buildings.Delete(c.Request.Context(), id); err != nil {
		storeError(c, err, "删除建筑失败")
		return
	}
	h.Cache.Invalidate()
	c.JSON(http.StatusOK, gin.H{"message": "删除成功"})
}

// ToggleBuilding 显示/隐藏建筑
func (h *Handler) ToggleBuilding(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "建筑 ID 无效"})
		return
	}
	var req ActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求参数错误"})
		return
	}
	if err := h.Buildings.SetActive(c.Request.Context(), id, *req.IsActive); err != nil {
		storeError(c, err, "修改建筑失败")
		return
	}
	h.Cache.Invalidate()
	c.JSON(http.StatusOK, gin.H{"id": id, "is_active": *req.IsActive})
}

// SaveBuildingPosition 保存拖动后的位置，服务端再吸附一次网格
func (h *Handler) SaveBuildingPosition(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "建筑 ID 无效"})
		return
	}
	var req PositionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求参数错误"})
		return
	}
	p := model.Point{X: *req.X, Y: *req.Y}
	if !p.IsFinite() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "坐标无效"})
		return
	}
	grid := 0.0
	if m := h.Layout(); m != nil {
		grid = m.GridSize()
	}
	p = utils.SnapPoint(p, grid)

	if err := h.Buildings.SetPosition(c.Request.Context(), id, p.X, p.Y); err != nil {
		storeError(c, err, "保存位置失败")
		return
	}
	h.Cache.Invalidate()
	c.JSON(http.StatusOK, gin.H{"id": id, "x": p.X, "y": p.Y})
}

// RefreshCache 手动刷新建筑缓存
func (h *Handler) RefreshCache(c *gin.Context) {
	if err := h.Cache.Refresh(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "刷新失败"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":        len(h.Cache.List()),
		"refreshed_at": h.Cache.RefreshedAt(),
	})
}

// applyBuildingDefaults 补齐表单默认值 (颜色、坐标)
func applyBuildingDefaults(b *model.Building) {
	if b.Color == "" {
		b.Color = model.DefaultBuildingColor
	}
	if b.Coordinates == (model.Rect{}) {
		b.Coordinates = model.DefaultCoordinates
	}
}

// storeError 存储层错误 -> HTTP 状态码
func storeError(c *gin.Context, err error, msg string) {
	if errors.Is(err, db.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "记录不存在"})
		return
	}
	log.Printf("%s: %v", msg, err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
}
