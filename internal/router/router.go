package router

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/gymlog/internal/handler"
)

// Options 汇总路由装配所需的可变配置
type Options struct {
	SessionSecret string
	StaticDir     string
}

// Setup 配置 Gin 引擎和路由
func Setup(a *handler.API, opts Options) *gin.Engine {
	r := gin.Default()

	// 配置会话中间件
	secret := opts.SessionSecret
	if secret == "" {
		secret = "secret"
	}
	store := cookie.NewStore([]byte(secret))
	r.Use(sessions.Sessions("gymlog_session", store))

	// 静态文件服务（上传的头像等）
	if opts.StaticDir != "" {
		r.Static("/static", opts.StaticDir)
	}

	r.GET("/ping", a.Ping)

	// 后台管理路由
	admin := r.Group("/admin")
	{
		admin.POST("/login", handler.Login)
		admin.GET("/logout", handler.Logout)

		// 需要认证的后台路由
		auth := admin.Group("")
		auth.Use(handler.AuthRequired())
		{
			// API路由
			api := auth.Group("/api")
			{
				api.GET("/students", a.ListStudents)
				api.GET("/students/:id", a.GetStudent)
				api.POST("/students", a.CreateStudent)
				api.PUT("/students/:id", a.UpdateStudent)
				api.DELETE("/students/:id", a.DeleteStudent)

				api.GET("/students/:id/exercises", a.GetExercisePlans)
				api.GET("/students/:id/exercises/:day", a.GetExercisePlan)
				api.PUT("/students/:id/exercises/:day", a.SaveExercisePlan)
				api.POST("/students/:id/exercises/:day/toggle", a.ToggleExercise)

				api.GET("/students/:id/diet", a.GetDietPlan)
				api.PUT("/students/:id/diet", a.SaveDietPlan)

				api.GET("/students/:id/supplements", a.GetSupplementPlan)
				api.PUT("/students/:id/supplements", a.SaveSupplementPlan)

				api.GET("/history", a.ListHistory)
				api.GET("/history/grouped", a.ListHistoryGrouped)
				api.DELETE("/history", a.ClearHistory)

				api.GET("/refresh", a.GetRefreshSeq)
				api.GET("/refresh/stream", a.StreamRefresh)

				api.POST("/upload", a.UploadAvatar)
			}
		}
	}

	return r
}
