package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"campus-navi/algo"
	"campus-navi/config"
	"campus-navi/db"
	"campus-navi/handler"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "启动 HTTP / WebSocket 服务",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().String("addr", ":8080", "监听地址")
	serveCmd.Flags().String("layout", "", "校园布局 YAML (默认使用内置布局)")
	serveCmd.Flags().Bool("watch", false, "布局文件变化时自动重新加载")
	viper.BindPFlag("server_addr", serveCmd.Flags().Lookup("addr"))
	viper.BindPFlag("layout_file", serveCmd.Flags().Lookup("layout"))
	viper.BindPFlag("watch_layout", serveCmd.Flags().Lookup("watch"))

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	fmt.Println("=== 欢迎使用 Campus Navi - 校园地图导航系统 ===")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// 1. 初始化数据库
	// 连接 PostgreSQL，自动迁移表结构；第一次运行时导入初始建筑数据
	conn, err := db.InitDB(cfg.DB)
	if err != nil {
		return err
	}
	if _, err := db.SeedBuildings(conn, cfg.SeedFile); err != nil {
		return err
	}

	// 2. 加载校园布局
	campus, err := algo.LoadLayout(cfg.LayoutFile)
	if err != nil {
		return fmt.Errorf("加载布局失败: %w", err)
	}
	fmt.Printf("布局加载成功! 起点数: %d, 区域数: %d\n", len(campus.Layout.StartPoints), len(campus.Layout.Zones))

	// 3. 组装 handler
	h := handler.New(db.NewBuildingRepo(conn), db.NewUserRepo(conn), db.NewContentRepo(conn), campus)
	if usingDefaultSecret(cfg) {
		log.Printf("警告: 正在使用默认 jwt_secret，请通过 JWT_SECRET 或配置文件设置")
	}
	h.JWTSecret = []byte(cfg.JWTSecret)
	h.JWTTTL = cfg.JWTTTL
	h.SimSpeed = cfg.SimSpeed
	h.FrameInterval = cfg.FrameInterval

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := h.Cache.Refresh(ctx); err != nil {
		log.Printf("建筑缓存预热失败，将在首次请求时重试: %v", err)
	} else {
		fmt.Printf("建筑加载成功! 建筑数: %d\n", len(h.Cache.List()))
	}

	if cfg.WatchLayout && cfg.LayoutFile != "" {
		go func() {
			if err := algo.WatchLayout(ctx, cfg.LayoutFile, h.SetLayout); err != nil {
				log.Printf("布局监听已停止: %v", err)
			}
		}()
	}

	// 4. 初始化 Gin 引擎并配置路由
	r := gin.Default()
	handler.SetupRoutes(r, h)
	if info, err := os.Stat(cfg.StaticDir); err == nil && info.IsDir() {
		// 静态文件服务 - 提供前端页面
		r.Static("/static", cfg.StaticDir)
		r.GET("/", func(c *gin.Context) {
			c.Redirect(http.StatusFound, "/static/index.html")
		})
	}

	// 5. 启动服务器
	srv := &http.Server{Addr: cfg.ServerAddr, Handler: r}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	fmt.Println("\n服务器启动中...")
	fmt.Printf("访问地址: http://localhost%s\n", cfg.ServerAddr)
	fmt.Println("API 文档:")
	fmt.Println("  - POST   /api/login              - 用户登录")
	fmt.Println("  - POST   /api/register           - 用户注册")
	fmt.Println("  - GET    /api/layout             - 校园布局")
	fmt.Println("  - GET    /api/buildings          - 所有建筑")
	fmt.Println("  - GET    /api/buildings/search   - 搜索建筑")
	fmt.Println("  - POST   /api/path/find          - 路径生成")
	fmt.Println("  - GET    /ws/navigate            - 实时导航")
	fmt.Println("\n按 Ctrl+C 退出")

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("服务器启动失败: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	log.Println("正在关闭服务器...")
	return srv.Shutdown(shutdownCtx)
}

// usingDefaultSecret 是否仍在使用内置的开发密钥
func usingDefaultSecret(cfg config.Config) bool {
	return cfg.JWTSecret == "" || cfg.JWTSecret == config.DefaultJWTSecret
}
