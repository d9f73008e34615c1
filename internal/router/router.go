package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/scholartrack/registrar-backend/internal/config"
	"github.com/scholartrack/registrar-backend/internal/handler"
	"github.com/scholartrack/registrar-backend/internal/middleware"
	"github.com/scholartrack/registrar-backend/internal/response"
	"github.com/scholartrack/registrar-backend/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth        *handler.AuthHandler
	User        *handler.UserHandler
	Student     *handler.StudentHandler
	College     *handler.CollegeHandler
	Course      *handler.CourseHandler
	Campus      *handler.LookupHandler
	Scholarship *handler.LookupHandler
	YearLevel   *handler.LookupHandler
	Section     *handler.SectionHandler
	PSGC        *handler.PSGCHandler
	Health      *handler.HealthHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	authService *service.AuthService,
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
	corsConfig.ExposeHeaders = []string{"X-Request-ID", "Content-Disposition"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Health check.
	router.GET("/health", handlers.Health.Health)

	// ─── 1. Public Auth (Rate Limited) ─────────────────────────────────
	authLimiter := middleware.NewRateLimiter(30, time.Minute)
	public := router.Group("/api")
	public.Use(authLimiter.Middleware())
	{
		public.POST("/login", handlers.Auth.Login)
		public.POST("/register", handlers.Auth.Register)
	}

	// ─── 2. Authenticated API ──────────────────────────────────────────
	api := router.Group("/api")
	api.Use(middleware.RequireAuth(authService))
	{
		api.POST("/logout", handlers.Auth.Logout)

		// Own profile
		api.GET("/user", handlers.User.Me)
		api.PUT("/user/profile", handlers.User.UpdateProfile)
		api.PUT("/user/password", handlers.User.UpdatePassword)

		// Students
		api.GET("/students", handlers.Student.ListStudents)
		api.POST("/students", handlers.Student.CreateStudent)
		api.GET("/students/search", handlers.Student.ListStudents)
		api.GET("/students/dashboard", handlers.Student.Dashboard)
		api.POST("/students/import", handlers.Student.ImportStudents)
		api.GET("/students/export", handlers.Student.ExportStudents)
		api.GET("/students/template", handlers.Student.ImportTemplate)
		api.POST("/students/bulk", handlers.Student.BulkDeleteStudents)
		api.POST("/students/bulk-delete", handlers.Student.BulkDeleteStudents)
		api.GET("/students/:id", handlers.Student.GetStudent)
		api.PUT("/students/:id", handlers.Student.UpdateStudent)
		api.DELETE("/students/:id", handlers.Student.DeleteStudent)
		api.GET("/students-trash", handlers.Student.ListTrashed)
		api.POST("/students-restore/:id", handlers.Student.RestoreStudent)
		api.DELETE("/students-force-delete/:id", handlers.Student.ForceDeleteStudent)

		// Colleges (cascading onto courses)
		api.GET("/colleges", handlers.College.ListColleges)
		api.POST("/colleges", handlers.College.CreateCollege)
		api.GET("/colleges/:id", handlers.College.GetCollege)
		api.PUT("/colleges/:id", handlers.College.UpdateCollege)
		api.DELETE("/colleges/:id", handlers.College.DeleteCollege)
		api.GET("/colleges-all", handlers.College.CollegeOptions)
		api.GET("/colleges-trash", handlers.College.ListTrashed)
		api.POST("/colleges-restore/:id", handlers.College.RestoreCollege)
		api.DELETE("/colleges-force-delete/:id", handlers.College.ForceDeleteCollege)

		// Courses
		api.GET("/courses", handlers.Course.ListCourses)
		api.POST("/courses", handlers.Course.CreateCourse)
		api.GET("/courses/by-college/:id", handlers.Course.CoursesByCollege)
		api.GET("/courses/:id", handlers.Course.GetCourse)
		api.PUT("/courses/:id", handlers.Course.UpdateCourse)
		api.DELETE("/courses/:id", handlers.Course.DeleteCourse)
		api.GET("/courses-all", handlers.Course.CourseOptions)
		api.GET("/courses-trash", handlers.Course.ListTrashed)
		api.POST("/courses-restore/:id", handlers.Course.RestoreCourse)
		api.DELETE("/courses-force-delete/:id", handlers.Course.ForceDeleteCourse)

		// Simple reference entities share one handler shape.
		registerLookupRoutes(api, "campuses", handlers.Campus)
		registerLookupRoutes(api, "scholarships", handlers.Scholarship)
		registerLookupRoutes(api, "year-levels", handlers.YearLevel)

		// Sections
		api.GET("/sections", handlers.Section.ListSections)
		api.POST("/sections", handlers.Section.CreateSection)
		api.GET("/sections/:id", handlers.Section.GetSection)
		api.PUT("/sections/:id", handlers.Section.UpdateSection)
		api.DELETE("/sections/:id", handlers.Section.DeleteSection)
		api.GET("/sections-all", handlers.Section.SectionOptions)
		api.GET("/sections-trash", handlers.Section.ListTrashed)
		api.POST("/sections-restore/:id", handlers.Section.RestoreSection)
		api.DELETE("/sections-force-delete/:id", handlers.Section.ForceDeleteSection)

		// Geographic reference proxy. Responses barely change; let clients
		// cache them for an hour on top of the redis cache.
		psgc := api.Group("/psgc")
		psgc.Use(middleware.CacheControl(3600))
		{
			psgc.GET("/provinces", handlers.PSGC.Provinces)
			psgc.GET("/provinces/:code/cities", handlers.PSGC.Cities)
			psgc.GET("/cities/:code/barangays", handlers.PSGC.Barangays)
		}
	}

	return router
}

func registerLookupRoutes(api *gin.RouterGroup, plural string, h *handler.LookupHandler) {
	api.GET("/"+plural, h.List)
	api.POST("/"+plural, h.Create)
	api.GET("/"+plural+"/:id", h.Get)
	api.PUT("/"+plural+"/:id", h.Update)
	api.DELETE("/"+plural+"/:id", h.Delete)
	api.GET("/"+plural+"-all", h.Options)
	api.GET("/"+plural+"-trash", h.ListTrashed)
	api.POST("/"+plural+"-restore/:id", h.Restore)
	api.DELETE("/"+plural+"-force-delete/:id", h.ForceDelete)
}
