package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"assets-management/config"
	"assets-management/internal/api/handler"
	"assets-management/internal/api/middleware"
	"assets-management/pkg/jwt"
	"assets-management/pkg/redis"
)

// 登录端点速率限制：每 IP 每分钟 10 次
const (
	loginRateLimit  = 10
	loginRateWindow = time.Minute

	// 请求体上限 1MB，本服务无文件上传
	maxBodyBytes = 1 << 20
)

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(maxBodyBytes))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 认证模块（无需认证）
		auth := v1.Group("/auth")
		{
			auth.POST("/login", middleware.RateLimit(rdb, loginRateLimit, loginRateWindow), h.Auth.Login)
			auth.POST("/refresh", h.Auth.Refresh)
		}

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr))
		{
			// 认证模块（需要认证）
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.POST("/auth/change-password", h.Auth.ChangePassword)
			authorized.GET("/auth/check", h.Auth.Check)

			// 用户模块（查询单个用户对任意已认证用户开放，其余仅管理员）
			users := authorized.Group("/users")
			{
				users.GET("/:id", h.User.Get)
				users.GET("", middleware.AdminOnly(), h.User.List)
				users.POST("", middleware.AdminOnly(), h.User.Create)
				users.PUT("/:id", middleware.AdminOnly(), h.User.Update)
				users.DELETE("/:id", middleware.AdminOnly(), h.User.Disable)
				users.GET("/:id/check", middleware.AdminOnly(), h.User.CheckValid)
			}

			// 类别模块（读取开放，创建仅管理员）
			categories := authorized.Group("/categories")
			{
				categories.GET("", h.Category.List)
				categories.GET("/:id", h.Category.Get)
				categories.POST("", middleware.AdminOnly(), h.Category.Create)
			}

			// 资产模块（仅管理员）
			assets := authorized.Group("/assets")
			assets.Use(middleware.AdminOnly())
			{
				assets.GET("", h.Asset.List)
				assets.GET("/:id", h.Asset.Get)
				assets.POST("", h.Asset.Create)
				assets.PUT("/:id", h.Asset.Update)
				assets.DELETE("/:id", h.Asset.Delete)
				assets.GET("/:id/check", h.Asset.CheckValid)
				assets.GET("/:id/history", h.Asset.History)
			}

			// 分配模块（/me 与状态流转对员工开放，其余仅管理员）
			assignments := authorized.Group("/assignments")
			{
				assignments.GET("/me", h.Assignment.MyAssignments)
				assignments.PATCH("/:id/state", h.Assignment.UpdateState)
				assignments.GET("", middleware.AdminOnly(), h.Assignment.List)
				assignments.GET("/:id", middleware.AdminOnly(), h.Assignment.Get)
				assignments.POST("", middleware.AdminOnly(), h.Assignment.Create)
				assignments.PUT("/:id", middleware.AdminOnly(), h.Assignment.Update)
				assignments.DELETE("/:id", middleware.AdminOnly(), h.Assignment.Delete)
			}

			// 归还请求模块（/me 为员工自助入口，其余仅管理员）
			requests := authorized.Group("/requests")
			{
				requests.POST("/me", h.Request.CreateByStaff)
				requests.GET("", middleware.AdminOnly(), h.Request.List)
				requests.POST("", middleware.AdminOnly(), h.Request.Create)
				requests.PATCH("/:id", middleware.AdminOnly(), h.Request.Complete)
				requests.DELETE("/:id", middleware.AdminOnly(), h.Request.Cancel)
			}

			// 报表模块（仅管理员）
			reports := authorized.Group("/reports")
			reports.Use(middleware.AdminOnly())
			{
				reports.GET("", h.Report.Get)
				reports.GET("/export", h.Report.Export)
			}
		}
	}

	return r
}
