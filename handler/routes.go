package handler

import (
	"net/http"

	"campus-navi/model"

	"github.com/gin-gonic/gin"
)

// CORSMiddleware CORS 跨域中间件
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, PATCH, DELETE")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// SetupRoutes 配置路由
func SetupRoutes(r *gin.Engine, h *Handler) {
	r.Use(CORSMiddleware())

	// 健康检查
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"status":  "ok",
		})
	})

	// 实时导航
	r.GET("/ws/navigate", h.NavigateWS)

	// API 路由组
	api := r.Group("/api")
	{
		// 公开接口 (无需认证)
		api.POST("/login", h.Login)
		api.POST("/register", h.Register)

		// 地图相关接口
		api.GET("/layout", h.GetLayout)
		api.POST("/path/find", h.FindPath)
		api.GET("/buildings", h.GetBuildings)
		api.GET("/buildings/search", h.SearchBuildings)
		api.GET("/buildings/:id", h.GetBuildingByID)

		// 公告与活动
		api.GET("/announcements", h.GetAnnouncements)
		api.GET("/events", h.GetEvents)

		authorized := api.Group("/")
		authorized.Use(h.AuthMiddleware())
		{
			authorized.GET("/session", h.Session)
		}

		admin := api.Group("/admin")
		admin.Use(h.AuthMiddleware(), RequireRole(model.RoleAdmin))
		{
			admin.GET("/buildings", h.ListAllBuildings)
			admin.POST("/buildings", h.CreateBuilding)
			admin.PUT("/buildings/:id", h.UpdateBuilding)
			admin.DELETE("/buildings/:id", h.DeleteBuilding)
			admin.PATCH("/buildings/:id/active", h.ToggleBuilding)
			admin.PUT("/buildings/:id/position", h.SaveBuildingPosition)
			admin.POST("/cache/refresh", h.RefreshCache)

			admin.GET("/announcements", h.ListAllAnnouncements)
			admin.POST("/announcements", h.CreateAnnouncement)
			admin.DELETE("/announcements/:id", h.DeleteAnnouncement)
			admin.PATCH("/announcements/:id/active", h.ToggleAnnouncement)

			admin.GET("/events", h.ListAllEvents)
			admin.POST("/events", h.CreateEvent)
			admin.DELETE("/events/:id", h.DeleteEvent)
			admin.PATCH("/events/:id/active", h.ToggleEvent)
		}
	}
}
