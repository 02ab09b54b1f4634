package app

import (
	"edulearn_backend/internal/config"
	"edulearn_backend/internal/middleware"
	"edulearn_backend/internal/model"
	"edulearn_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由（无需登录）
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
		public.GET("/leaderboard", c.user.GetLeaderboard)
	}

	// 2. 课程浏览：可选认证，游客可浏览已上架课程，
	// 课时列表只开放首个课时预览
	browse := router.Group("/api")
	browse.Use(middleware.TryAuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		browse.GET("/courses", c.course.ListCourses)
		browse.GET("/courses/:id", c.course.GetCourse)
		browse.GET("/courses/:id/lessons", c.progress.GetCourseLessons)
		browse.GET("/courses/:id/posts", c.discussion.ListPosts)
		browse.GET("/posts/:id", c.discussion.GetPost)
	}

	// 3. 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		// 学生/通用接口
		authGroup.GET("/profile", c.auth.GetProfile)
		authGroup.PUT("/user/profile", c.user.UpdateProfile)
		authGroup.GET("/user/stats", c.user.GetStats)

		// 学习进度（顺序解锁引擎的写路径）
		authGroup.POST("/lessons/:id/complete", c.progress.CompleteLesson)
		authGroup.POST("/lessons/:id/checkpoint", c.progress.SaveCheckpoint)

		// 讨论区交互
		authGroup.POST("/courses/:id/posts", c.discussion.CreatePost)
		authGroup.DELETE("/posts/:id", c.discussion.DeletePost)
		authGroup.POST("/posts/:id/comments", c.discussion.CreateComment)
		authGroup.DELETE("/comments/:id", c.discussion.DeleteComment)

		// 讲师/管理员接口
		instructor := authGroup.Group("/")
		instructor.Use(middleware.RoleMiddleware(model.Instructor))
		{
			instructor.POST("/courses", c.course.CreateCourse)
			instructor.PUT("/courses/:id", c.course.UpdateCourse)
			instructor.DELETE("/courses/:id", c.course.DeleteCourse)
			instructor.POST("/courses/:id/lessons", c.lesson.CreateLesson)
			instructor.PUT("/lessons/:id", c.lesson.UpdateLesson)
			instructor.DELETE("/lessons/:id", c.lesson.DeleteLesson)
			instructor.POST("/lessons/upload", c.lesson.UploadMaterial)
		}
	}
}
