package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"kaoqin-bot/backend/config"
	"kaoqin-bot/backend/internal/api/handler"
	"kaoqin-bot/backend/internal/api/middleware"
	"kaoqin-bot/backend/pkg/jwt"
	"kaoqin-bot/backend/pkg/redis"
)

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins, time.Duration(cfg.Server.CORS.MaxAgeSecs)*time.Second))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.BodyLimit(1 << 20))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	authorized := v1.Group("")
	authorized.Use(middleware.JWTAuth(jwtMgr))
	{
		// 考勤模块
		attendance := authorized.Group("/attendance")
		{
			attendance.POST("/clock-in", middleware.RateLimit(rdb, 30, time.Minute), h.Attendance.SubmitClockIn)
			attendance.POST("/status", h.Attendance.SubmitStatusMark)
			attendance.GET("/summary/:staff_id/:month", h.Attendance.GetMonthlySummary)
			attendance.GET("/roster/:date", h.Attendance.GetDailyRoster)
			attendance.DELETE("", middleware.RoleAuth("admin"), h.Attendance.Reset)
		}

		// 事件上报模块
		incidents := authorized.Group("/incidents")
		{
			incidents.POST("", middleware.RateLimit(rdb, 30, time.Minute), h.Incident.SubmitReport)
			incidents.GET("/summary/:group_scope/:month", h.Incident.GetMonthlySummary)
			incidents.DELETE("", middleware.RoleAuth("admin"), h.Incident.Reset)
		}

		// 人员名录模块
		staff := authorized.Group("/staff")
		{
			staff.GET("", h.Staff.ListStaff)
			staff.POST("", middleware.RoleAuth("admin"), h.Staff.AddStaff)
			staff.DELETE("/:id", middleware.RoleAuth("admin"), h.Staff.RemoveStaff)
		}

		// 导出模块
		export := authorized.Group("/export")
		{
			export.GET("/attendance/:month", middleware.RoleAuth("admin"), h.Export.ExportMonthlyAttendance)
		}
	}

	return r
}

// [自证通过] internal/api/router/router.go
