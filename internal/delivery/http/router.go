package http

import (
	"EliteRegistry/internal/delivery/http/controllers"
	"EliteRegistry/internal/delivery/http/controllers/achievement"
	"EliteRegistry/internal/delivery/http/controllers/auth"
	"EliteRegistry/internal/delivery/http/controllers/catalog"
	"EliteRegistry/internal/delivery/http/controllers/certificate"
	"EliteRegistry/internal/delivery/http/controllers/enrollment"
	"EliteRegistry/internal/delivery/http/controllers/middleware"
	"EliteRegistry/internal/delivery/http/controllers/report"
	"EliteRegistry/internal/models"
	"EliteRegistry/internal/service"
	"EliteRegistry/pkg/logger"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Options struct {
	AllowOrigins  []string
	StorageDriver string
}

func InitRoutes(l logger.Log, u service.Collection, opts Options) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     opts.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	statusController := controllers.NewStatusHandler(opts.StorageDriver)
	authController := auth.NewAuthHandler(l, u.Auth)
	authMiddleware := middleware.NewAuthMiddlewareProvider(l, u.Auth)
	catalogController := catalog.NewCatalogHandler(l, u.Catalog)
	enrollmentController := enrollment.NewEnrollmentHandler(l, u.Enrollment)
	certificateController := certificate.NewCertificateHandler(l, u.Certificate)
	achievementController := achievement.NewAchievementHandler(l, u.Achievement)
	reportController := report.NewReportHandler(l, u.Report)

	v1 := r.Group("/v1", middleware.LoggingMiddleware(l))
	{
		v1.GET("/status", statusController.Status)

		v1.GET("/me", authMiddleware.AuthMiddleware, authController.Me)

		authGroup := v1.Group("/auth")
		{
			authGroup.POST("/login", authController.Login)
			authGroup.POST("/register", authController.Register)
			authGroup.POST("/refresh", authController.Refresh)
		}

		courses := v1.Group("/courses")
		{
			courses.GET("", catalogController.ListCourses)
			courses.GET("/search", catalogController.Search)
			courses.GET("/:course_id", catalogController.Course)

			admin := courses.Group("", authMiddleware.AuthMiddleware, middleware.RequireRoles(models.AdminRole))
			{
				admin.PUT("/:course_id", catalogController.UpsertCourse)
				admin.DELETE("/:course_id", catalogController.DeleteCourse)
			}

			learner := courses.Group("", authMiddleware.AuthMiddleware, middleware.RequireRoles(models.StudentRole, models.AdminRole))
			{
				learner.POST("/:course_id/enroll", enrollmentController.Enroll)
				learner.POST("/:course_id/progress", enrollmentController.Progress)
				learner.POST("/:course_id/lessons/:lesson_id/quiz", enrollmentController.SubmitQuiz)
				learner.GET("/:course_id/enrollment", enrollmentController.Enrollment)
				learner.GET("/:course_id/certificate", certificateController.Certificate)
				learner.POST("/:course_id/certificate/publish", certificateController.Publish)
			}
		}

		users := v1.Group("/users/:user_id", authMiddleware.AuthMiddleware)
		{
			self := users.Group("", middleware.RequireSelfOrAdmin("user_id"))
			{
				self.GET("/enrollments", enrollmentController.UserEnrollments)
				self.GET("/achievements", achievementController.Summary)
			}
			users.POST("/achievements", middleware.RequireRoles(models.AdminRole), achievementController.Award)
		}

		v1.GET("/leaderboard", authMiddleware.AuthMiddleware, achievementController.Leaderboard)

		admin := v1.Group("/admin", authMiddleware.AuthMiddleware, middleware.RequireRoles(models.AdminRole))
		{
			admin.GET("/enrollments", enrollmentController.AllEnrollments)
			admin.GET("/stats", reportController.Stats)
			admin.GET("/activity", reportController.Activity)
		}
	}
	return r
}
