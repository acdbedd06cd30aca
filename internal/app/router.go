package app

import (
	"learnmate_backend/docs"
	"learnmate_backend/internal/config"
	"learnmate_backend/internal/middleware"
	"learnmate_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 公共路由(无需登录)
	public := router.Group("/api")
	{
		public.GET("/health", c.health.Health)
		public.POST("/auth/signup", c.auth.Signup)
		public.POST("/auth/login", c.auth.Login)
		public.GET("/quote", c.quote.Weekly)
	}

	// 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		authGroup.GET("/auth/me", c.auth.Me)
		authGroup.GET("/user/stats", c.dashboard.UserStats)
		authGroup.GET("/metrics", c.dashboard.Metrics)

		// 课程
		authGroup.POST("/courses", c.course.Create)
		authGroup.GET("/courses", c.course.List)
		authGroup.GET("/courses/:id", c.course.Get)
		authGroup.PUT("/courses/:id", c.course.Update)
		authGroup.DELETE("/courses/:id", c.course.Delete)
		authGroup.POST("/courses/extract", c.course.Extract)

		// 测验会话
		quizGroup := authGroup.Group("/quiz")
		{
			quizGroup.POST("/sessions", c.quiz.StartSession)
			quizGroup.GET("/sessions/current", c.quiz.GetSession)
			quizGroup.DELETE("/sessions/current", c.quiz.Dispose)
			quizGroup.POST("/sessions/current/answer", c.quiz.Answer)
			quizGroup.POST("/sessions/current/next", c.quiz.Next)
			quizGroup.POST("/sessions/current/previous", c.quiz.Previous)
			quizGroup.POST("/sessions/current/finish", c.quiz.Finish)

			quizGroup.POST("/save-result", c.quiz.SaveResult)
			quizGroup.GET("/history", c.quiz.History)
			quizGroup.DELETE("/history/:id", c.quiz.DeleteAttempt)
			quizGroup.GET("/stats", c.quiz.Stats)
		}

		// 旧客户端兼容：按路径用户查询历史
		authGroup.GET("/quiz-history/:userId", c.quiz.HistoryByUser)

		// 进度
		progressGroup := authGroup.Group("/progress")
		{
			progressGroup.POST("/milestones", c.progress.CreateMilestone)
			progressGroup.GET("/milestones", c.progress.ListMilestones)
			progressGroup.PATCH("/milestones/:id", c.progress.ToggleMilestone)
			progressGroup.DELETE("/milestones/:id", c.progress.DeleteMilestone)
			progressGroup.GET("/weekly", c.progress.Weekly)
		}

		// AI 助教
		authGroup.POST("/ai-assist", c.chat.Assist)
		authGroup.POST("/ai-assist/stream", c.chat.AssistStream)
		authGroup.GET("/chat-history", c.chat.List)
		authGroup.POST("/chat-history", c.chat.Create)
		authGroup.GET("/chat-history/:id", c.chat.Get)
		authGroup.PUT("/chat-history/:id", c.chat.Update)
		authGroup.DELETE("/chat-history/:id", c.chat.Delete)
	}
}
