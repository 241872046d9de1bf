package handler

import (
	"net/http"

	"campus-navi/model"

	"github.com/gin-gonic/gin"
)

// GetAnnouncements 公开公告 (有效且未过期)
func (h *Handler) GetAnnouncements(c *gin.Context) {
	items, err := h.Content.ListAnnouncements(c.Request.Context(), true)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "查询公告失败"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(items), "announcements": items})
}

// ListAllAnnouncements 管理员查看全部公告
func (h *Handler) ListAllAnnouncements(c *gin.Context) {
	items, err := h.Content.ListAnnouncements(c.Request.Context(), false)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "查询公告失败"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(items), "announcements": items})
}

// CreateAnnouncement 发布公告
func (h *Handler) CreateAnnouncement(c *gin.Context) {
	var a model.Announcement
	if err := c.ShouldBindJSON(&a); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求参数错误: " + err.Error()})
		return
	}
	a.ID = 0
	a.CreatedBy = c.GetString("username")
	if a.Type == "" {
		a.Type = "general"
	}
	if a.Priority == "" {
		a.Priority = "normal"
	}
	if err := h.Content.CreateAnnouncement(c.Request.Context(), &a); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "发布公告失败"})
		return
	}
	c.JSON(http.StatusCreated, a)
}

// DeleteAnnouncement 删除公告
func (h *Handler) DeleteAnnouncement(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "公告 ID 无效"})
		return
	}
	if err := h.Content.DeleteAnnouncement(c.Request.Context(), id); err != nil {
		storeError(c, err, "删除公告失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "删除成功"})
}

// ToggleAnnouncement 启用/停用公告
func (h *Handler) ToggleAnnouncement(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "公告 ID 无效"})
		return
	}
	var req ActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求参数错误"})
		return
	}
	if err := h.Content.SetAnnouncementActive(c.Request.Context(), id, *req.IsActive); err != nil {
		storeError(c, err, "修改公告失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "is_active": *req.IsActive})
}

// GetEvents 公开活动，可按 ?type= 过滤
func (h *Handler) GetEvents(c *gin.Context) {
	items, err := h.Content.ListEvents(c.Request.Context(), true, c.Query("type"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "查询活动失败"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(items), "events": items})
}

// ListAllEvents 管理员查看全部活动
func (h *Handler) ListAllEvents(c *gin.Context) {
	items, err := h.Content.ListEvents(c.Request.Context(), false, c.Query("type"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "查询活动失败"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(items), "events": items})
}

// CreateEvent 新建活动
func (h *Handler) CreateEvent(c *gin.Context) {
	var e model.Event
	if err := c.ShouldBindJSON(&e); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求参数错误: " + err.Error()})
		return
	}
	if e.EndTime.Before(e.StartTime) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "结束时间早于开始时间"})
		return
	}
	e.ID = 0
	if err := h.Content.CreateEvent(c.Request.Context(), &e); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "创建活动失败"})
		return
	}
	c.JSON(http.StatusCreated, e)
}

// DeleteEvent 删除活动
func (h *Handler) DeleteEvent(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "活动 ID 无效"})
		return
	}
	if err := h.Content.DeleteEvent(c.Request.Context(), id); err != nil {
		storeError(c, err, "删除活动失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "删除成功"})
}

// ToggleEvent 启用/停用活动
func (h *Handler) ToggleEvent(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "活动 ID 无效"})
		return
	}
	var req ActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求参数错误"})
		return
	}
	if err := h.Content.SetEventActive(c.Request.Context(), id, *req.IsActive); err != nil {
		storeError(c, err, "修改活动失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "is_active": *req.IsActive})
}
