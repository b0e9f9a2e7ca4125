package app

import (
	"agritrain_backend/internal/middleware"
	"agritrain_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, auth, activity gin.HandlerFunc) {
	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	registerPublicRoutes(router, c)

	// 2. 需要授权的路由
	authGroup := router.Group("/")
	authGroup.Use(auth, activity)
	{
		authGroup.GET("/auth/me", c.auth.Me)
		authGroup.POST("/auth/logout", c.auth.Logout)
		authGroup.POST("/quiz-attempts", c.attempt.Submit)

		// 3. 仅本人可访问的用户数据
		registerSelfRoutes(authGroup, c)
	}
}

func registerPublicRoutes(router *gin.Engine, c *controllers) {
	router.GET("/", c.health.Root)
	router.GET("/health", c.health.HealthCheck)

	auth := router.Group("/auth")
	{
		auth.POST("/register", c.auth.Register)
		auth.POST("/login", c.auth.Login)
	}

	scenarios := router.Group("/scenarios")
	{
		scenarios.GET("", c.scenario.List)
		scenarios.POST("", c.scenario.Create)
		scenarios.GET("/:id", c.scenario.Get)
		scenarios.GET("/:id/quiz", c.quiz.GetForScenario)
		scenarios.POST("/:id/media", c.scenario.UploadMedia)
	}

	quizzes := router.Group("/quizzes")
	{
		quizzes.POST("", c.quiz.Create)
		quizzes.GET("/:id", c.quiz.Get)
	}
}

func registerSelfRoutes(group *gin.RouterGroup, c *controllers) {
	users := group.Group("/users/:id")
	users.Use(middleware.SelfOnly("id"))
	{
		users.GET("/sessions", c.session.List)
		users.GET("/sessions/active", c.session.Active)
		users.GET("/quiz-attempts", c.attempt.List)
		users.GET("/progress", c.progress.List)
		users.POST("/progress", c.progress.Upsert)
	}
}
