package handler

import (
	"errors"
	"log"
	"net/http"

	"campus-navi/algo"
	"campus-navi/model"
	"campus-navi/utils"

	"github.com/gin-gonic/gin"
)

// PathRequest 路径规划请求
type PathRequest struct {
	StartID     string       `json:"start_id"`                       // 起点 ID (gate / quad / parking)
	Start       *model.Point `json:"start,omitempty"`                // 起点坐标 (可选，优先于 start_id)
	Destination string       `json:"destination" binding:"required"` // 目的地建筑名称
}

// PathResponse 路径规划响应
type PathResponse struct {
	Found       bool                 `json:"found"`
	Path        model.Path           `json:"path,omitempty"`
	Start       model.Point          `json:"start"`
	Destination *model.BuildingRect  `json:"destination,omitempty"`
	Route       *model.RouteInfo     `json:"route,omitempty"`
	Nearest     *model.NamedLocation `json:"nearest,omitempty"` // 离起点最近的命名位置
	Message     string               `json:"message,omitempty"`
}

// FindPath 路径规划接口
func (h *Handler) FindPath(c *gin.Context) {
	var req PathRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求参数错误: " + err.Error()})
		return
	}

	m := h.Layout()
	if m == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "地图数据未加载"})
		return
	}

	// 如果提供了坐标，直接使用；否则按 ID 查找起点
	var start model.Point
	switch {
	case req.Start != nil:
		if !req.Start.IsFinite() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "起点坐标无效"})
			return
		}
		start = *req.Start
	case req.StartID != "":
		loc, ok := m.StartPoint(req.StartID)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "起点不存在: " + req.StartID})
			return
		}
		start = loc.Point()
	default:
		loc, ok := m.DefaultStart()
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "起点未指定"})
			return
		}
		start = loc.Point()
	}

	if err := h.Cache.Ensure(c.Request.Context()); err != nil {
		log.Printf("刷新建筑缓存失败: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "加载建筑数据失败"})
		return
	}

	// 执行路径生成
	path, err := algo.NewPathBuilder(m).Build(start, req.Destination, h.Cache)
	if errors.Is(err, algo.ErrDestinationNotFound) {
		c.JSON(http.StatusOK, PathResponse{
			Found:   false,
			Start:   start,
			Message: "目的地不存在: " + req.Destination,
		})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	dest, _ := h.Cache.Lookup(req.Destination)
	info := model.EstimateRoute(utils.PathLength(path), h.SimSpeed)
	resp := PathResponse{
		Found:       true,
		Path:        path,
		Start:       start,
		Destination: &dest,
		Route:       &info,
		Message:     "路径规划成功",
	}
	if loc, ok := m.FindNearestLocation(start); ok {
		resp.Nearest = &loc
	}
	c.JSON(http.StatusOK, resp)
}

// GetLayout 获取校园布局 (画布、枢纽、起点、区域、道路)
func (h *Handler) GetLayout(c *gin.Context) {
	m := h.Layout()
	if m == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "地图数据未加载"})
		return
	}
	c.JSON(http.StatusOK, m.Layout)
}

// GetBuildings 获取所有可见建筑
func (h *Handler) GetBuildings(c *gin.Context) {
	if err := h.Cache.Ensure(c.Request.Context()); err != nil {
		log.Printf("刷新建筑缓存失败: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "加载建筑数据失败"})
		return
	}

	buildings := h.Cache.List()
	c.JSON(http.StatusOK, gin.H{
		"count":     len(buildings),
		"buildings": buildings,
	})
}

// GetBuildingByID 根据 ID 获取建筑信息
func (h *Handler) GetBuildingByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "建筑 ID 无效"})
		return
	}
	if err := h.Cache.Ensure(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "加载建筑数据失败"})
		return
	}

	b, ok := h.Cache.Get(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "建筑不存在"})
		return
	}
	c.JSON(http.StatusOK, b)
}

// SearchBuildings 搜索建筑 (名称或代码，不区分大小写)
func (h *Handler) SearchBuildings(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "缺少搜索关键词"})
		return
	}
	if err := h.Cache.Ensure(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "加载建筑数据失败"})
		return
	}

	results := h.Cache.Search(query)
	c.JSON(http.StatusOK, gin.H{
		"query":   query,
		"count":   len(results),
		"results": results,
	})
}
