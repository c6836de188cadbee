package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/campuscore/placement-backend/internal/config"
	"github.com/campuscore/placement-backend/internal/handler"
	"github.com/campuscore/placement-backend/internal/middleware"
	"github.com/campuscore/placement-backend/internal/response"
	"github.com/campuscore/placement-backend/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Course        *handler.CourseHandler
	Test          *handler.TestHandler
	Question      *handler.QuestionHandler
	Assignment    *handler.AssignmentHandler
	Directory     *handler.DirectoryHandler
	StudentPortal *handler.StudentPortalHandler
	Analytics     *handler.AnalyticsHandler
	Monitor       *handler.MonitorHandler
	Health        *handler.HealthHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	identity *service.IdentityService,
	handlers *Handlers,
	cfg *config.Config,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Health check.
	router.GET("/health", handlers.Health.Health)

	// ─── 1. Trainer Group (JWT + authoring role) ───────────────────────
	trainerAPI := router.Group("/api/v1/trainer")
	trainerAPI.Use(
		middleware.RequireIdentity(identity),
		middleware.RequireAuthor(),
	)
	{
		// Courses
		trainerAPI.GET("/courses", handlers.Course.ListCourses)
		trainerAPI.POST("/courses", handlers.Course.CreateCourse)
		trainerAPI.GET("/courses/:course_id", handlers.Course.GetCourse)
		trainerAPI.PUT("/courses/:course_id", handlers.Course.UpdateCourse)
		trainerAPI.DELETE("/courses/:course_id", handlers.Course.DeleteCourse)

		// Course cohort assignments
		trainerAPI.GET("/courses/:course_id/assignments", handlers.Assignment.GetCourseAssignments)
		trainerAPI.PUT("/courses/:course_id/assignments", handlers.Assignment.SetCourseAssignments)

		// Tests
		trainerAPI.GET("/courses/:course_id/tests", handlers.Test.ListTests)
		trainerAPI.POST("/courses/:course_id/tests", handlers.Test.CreateTest)
		trainerAPI.GET("/tests/:test_id", handlers.Test.GetTest)
		trainerAPI.PUT("/tests/:test_id", handlers.Test.UpdateTest)
		trainerAPI.DELETE("/tests/:test_id", handlers.Test.DeleteTest)
		trainerAPI.POST("/tests/:test_id/publish", handlers.Test.PublishTest)
		trainerAPI.POST("/tests/:test_id/unpublish", handlers.Test.UnpublishTest)
		trainerAPI.GET("/tests/:test_id/results", handlers.Test.GetTestResults)

		// Test cohort assignments and publish window
		trainerAPI.GET("/tests/:test_id/assignments", handlers.Assignment.GetTestAssignments)
		trainerAPI.PUT("/tests/:test_id/assignments", handlers.Assignment.SetTestAssignments)

		// Questions
		trainerAPI.GET("/tests/:test_id/questions", handlers.Question.ListQuestions)
		trainerAPI.POST("/tests/:test_id/questions", handlers.Question.AddQuestions)
		trainerAPI.PUT("/questions/:question_id", handlers.Question.UpdateQuestion)
		trainerAPI.DELETE("/questions/:question_id", handlers.Question.DeleteQuestion)

		// Directory lookups for cohort selection
		trainerAPI.GET("/directory/departments", handlers.Directory.ListDepartments)
		trainerAPI.GET("/directory/departments/:department_id/classes", handlers.Directory.ListClasses)
	}

	// ─── 2. Student Group (JWT + attempt role) ─────────────────────────
	studentAPI := router.Group("/api/v1/student")
	studentAPI.Use(
		middleware.RequireIdentity(identity),
		middleware.RequireStudent(),
	)
	{
		studentAPI.GET("/courses", handlers.StudentPortal.ListCourses)
		studentAPI.GET("/tests", handlers.StudentPortal.ListTests)
		studentAPI.POST("/tests/:test_id/attempts", handlers.StudentPortal.StartAttempt)
		studentAPI.GET("/attempts", handlers.StudentPortal.ListMyAttempts)
		studentAPI.GET("/attempts/:attempt_id", handlers.StudentPortal.GetAttemptResult)
		studentAPI.POST("/attempts/:attempt_id/submit", handlers.StudentPortal.SubmitAttempt)
	}

	// ─── 3. Analytics Group (JWT + viewer role) ────────────────────────
	analyticsAPI := router.Group("/api/v1/analytics")
	analyticsAPI.Use(
		middleware.RequireIdentity(identity),
		middleware.RequireAnalyticsViewer(),
	)
	{
		analyticsAPI.GET("/summary", handlers.Analytics.GetSummary)
		analyticsAPI.GET("/tests", handlers.Analytics.GetPerTest)
		analyticsAPI.GET("/departments", handlers.Analytics.GetPerDepartment)
		analyticsAPI.GET("/courses/:course_id/participation", handlers.Analytics.GetCourseParticipation)
	}

	// ─── 4. WebSocket Group (query-token auth) ─────────────────────────
	ws := router.Group("/ws/v1")
	ws.Use(middleware.RequireWSIdentity(identity))
	{
		ws.GET("/trainer/tests/:test_id/monitor", handlers.Monitor.StreamTestMonitor)
	}

	return router
}
