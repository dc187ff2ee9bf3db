package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/unach/escuela-backend/internal/config"
	"github.com/unach/escuela-backend/internal/handler"
	"github.com/unach/escuela-backend/internal/middleware"
	"github.com/unach/escuela-backend/internal/model"
	"github.com/unach/escuela-backend/internal/response"
	"github.com/unach/escuela-backend/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth     *handler.AuthHandler
	Student  *handler.StudentHandler
	Teacher  *handler.TeacherHandler
	Subject  *handler.SubjectHandler
	Relation *handler.RelationHandler
	Report   *handler.ReportHandler
	Export   *handler.ExportHandler
	Media    *handler.MediaHandler
	Schema   *handler.SchemaHandler
	WS       *handler.WSHandler
	Health   *handler.HealthHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	authService *service.AuthService,
	loginCounter middleware.Counter,
	handlers *Handlers,
	cfg *config.Config,
	log zerolog.Logger,
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
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID", "Content-Disposition"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Apply brotli middleware globally.
	router.Use(middleware.Brotli())

	// Serve uploaded photos statically with aggressive caching (1 year).
	// File names are UUIDs, so a URL never changes content.
	uploadsGroup := router.Group("/uploads")
	uploadsGroup.Use(middleware.CacheControl(31536000))
	{
		uploadsGroup.Static("/", cfg.UploadDir)
	}

	// ─── 1. Public (No Auth) ───────────────────────────────────────────
	router.GET("/health", handlers.Health.Health)

	loginLimiter := middleware.NewRateLimiter(loginCounter, cfg.LoginRateLimit, time.Minute, log)
	router.POST("/login", loginLimiter.Middleware(), handlers.Auth.Login)

	// ─── 2. Authenticated (JWT + revocation + admin role) ──────────────
	api := router.Group("")
	api.Use(
		middleware.RequireJWT(authService),
		middleware.RejectRevokedTokens(authService, log),
		middleware.RequireRole(model.RoleAdmin),
		middleware.NoStore(),
	)
	{
		api.GET("/verify-token", handlers.Auth.VerifyToken)
		api.POST("/logout", handlers.Auth.Logout)

		// Schema bootstrap
		api.POST("/setup-tables", handlers.Schema.EnsureSchema)
		api.POST("/init-db", handlers.Schema.EnsureSchema)

		// Photo uploads
		api.POST("/upload/alumnos", handlers.Media.UploadStudentPhoto)
		api.POST("/upload/maestros", handlers.Media.UploadTeacherPhoto)

		// Students. Static segments are registered before :id.
		students := api.Group("/alumnos")
		{
			students.GET("", handlers.Student.List)
			students.POST("", handlers.Student.Create)
			students.GET("/materias", handlers.Report.EnrollmentDetails)
			students.PUT("/:id", handlers.Student.Update)
			students.DELETE("/:id", handlers.Student.Delete)
			students.GET("/:id/calificaciones", handlers.Report.Transcript)
			students.POST("/:id/materias", handlers.Relation.Enroll)
			students.PUT("/:id/materias/:materiaId", handlers.Relation.UpdateGrade)
			students.DELETE("/:id/materias/:materiaId", handlers.Relation.Unenroll)
		}

		// Teachers
		teachers := api.Group("/maestros")
		{
			teachers.GET("", handlers.Teacher.List)
			teachers.POST("", handlers.Teacher.Create)
			teachers.GET("/materias", handlers.Report.TeacherSubjects)
			teachers.PUT("/:id", handlers.Teacher.Update)
			teachers.DELETE("/:id", handlers.Teacher.Delete)
			teachers.POST("/:id/materias", handlers.Relation.AssignSubject)
			teachers.DELETE("/:id/materias/:materiaId", handlers.Relation.UnassignSubject)
		}

		// Subjects
		subjects := api.Group("/materias")
		{
			subjects.GET("", handlers.Subject.GetAll)
			subjects.POST("", handlers.Subject.Create)
			subjects.GET("/detalles", handlers.Report.SubjectSummaries)
			subjects.PUT("/:id", handlers.Subject.Update)
			subjects.DELETE("/:id", handlers.Subject.Delete)
			subjects.GET("/:id/alumnos", handlers.Report.Roster)
			subjects.GET("/:id/maestros", handlers.Report.SubjectTeachers)
		}

		// Aggregates and exports
		api.GET("/estadisticas", handlers.Report.Statistics)
		api.GET("/reportes/calificaciones", handlers.Export.GradeReport)

		// Change stream (token may travel as ?token=)
		api.GET("/ws/eventos", handlers.WS.ChangeStream)
	}

	return router
}
