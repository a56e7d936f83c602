package server

import (
	"context"
	"net/http"
	"slices"
	"time"

	"campuscrafter.id/academy/internal/auth"
	"campuscrafter.id/academy/internal/config"
	"campuscrafter.id/academy/internal/middleware"
	"campuscrafter.id/academy/internal/ownership"
	"campuscrafter.id/academy/pkg/response"
	"campuscrafter.id/academy/pkg/storage"

	adminHttp "campuscrafter.id/academy/internal/modules/admin/delivery/http"
	adminService "campuscrafter.id/academy/internal/modules/admin/service"

	assignmentHttp "campuscrafter.id/academy/internal/modules/assignment/delivery/http"
	assignmentRepo "campuscrafter.id/academy/internal/modules/assignment/repository"
	assignmentService "campuscrafter.id/academy/internal/modules/assignment/service"

	courseHttp "campuscrafter.id/academy/internal/modules/course/delivery/http"
	courseRepo "campuscrafter.id/academy/internal/modules/course/repository"
	courseService "campuscrafter.id/academy/internal/modules/course/service"

	gradeHttp "campuscrafter.id/academy/internal/modules/grade/delivery/http"
	gradeRepo "campuscrafter.id/academy/internal/modules/grade/repository"
	gradeService "campuscrafter.id/academy/internal/modules/grade/service"

	profileHttp "campuscrafter.id/academy/internal/modules/profile/delivery/http"
	profileService "campuscrafter.id/academy/internal/modules/profile/service"

	searchService "campuscrafter.id/academy/internal/modules/search/service"

	userHttp "campuscrafter.id/academy/internal/modules/user/delivery/http"
	userRepo "campuscrafter.id/academy/internal/modules/user/repository"
	userService "campuscrafter.id/academy/internal/modules/user/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// Repositories is the persistence layer the server is built on.
type Repositories struct {
	Users       userRepo.UserRepository
	Courses     courseRepo.CourseRepository
	Assignments assignmentRepo.AssignmentRepository
	Grades      gradeRepo.GradeRepository
}

func NewRepositories(db *gorm.DB) Repositories {
	return Repositories{
		Users:       userRepo.NewUserRepository(db),
		Courses:     courseRepo.NewCourseRepository(db),
		Assignments: assignmentRepo.NewAssignmentRepository(db),
		Grades:      gradeRepo.NewGradeRepository(db),
	}
}

// Options carries everything NewServer wires together. Redis, Search and Images are
// optional; the features that need them degrade when they are nil.
type Options struct {
	Config *config.Config
	Logger zerolog.Logger
	Repos  Repositories
	Tokens *auth.TokenManager
	Redis  *redis.Client
	Search searchService.CourseIndex
	Images storage.ImageStorage
	// Health reports whether backing stores are reachable.
	Health func(ctx context.Context) error
}

type Server struct {
	engine *gin.Engine
	log    zerolog.Logger
}

func NewServer(opts Options) *Server {
	cfg := opts.Config
	log := opts.Logger
	repos := opts.Repos

	resolver := ownership.NewResolver(repos.Courses, repos.Assignments)

	authSvc := userService.NewAuthService(repos.Users, opts.Tokens, cfg.BcryptCost, log)
	authHandler := userHttp.NewAuthHandler(authSvc)

	courseSvc := courseService.NewCourseService(repos.Courses, resolver, opts.Search, log)
	courseHandler := courseHttp.NewCourseHandler(courseSvc)

	assignmentSvc := assignmentService.NewAssignmentService(repos.Assignments, resolver, log)
	assignmentHandler := assignmentHttp.NewAssignmentHandler(assignmentSvc)

	var feed gradeService.GradeFeed
	if opts.Redis != nil {
		feed = gradeService.NewRedisFeed(opts.Redis)
	}
	gradeSvc := gradeService.NewGradeService(repos.Grades, repos.Users, resolver, feed, log)
	gradeHandler := gradeHttp.NewGradeHandler(gradeSvc, cfg.AllowedOrigins)

	profileSvc := profileService.NewProfileService(repos.Users, authSvc, opts.Images, log)
	profileHandler := profileHttp.NewProfileHandler(profileSvc)

	adminSvc := adminService.NewAdminService(authSvc, repos.Users, repos.Courses, opts.Images, log)
	adminHandler := adminHttp.NewAdminHandler(adminSvc)

	router := gin.New()

	setupCORS(router, cfg.AllowedOrigins)

	router.Use(middleware.RequestLogger(log))
	router.Use(middleware.Recovery())

	authMiddleware := middleware.NewAuthMiddleware(opts.Tokens)

	// Public routes (no auth required)
	router.POST("/register", authHandler.Register)
	router.POST("/login", authHandler.Login)
	router.GET("/healthz", healthHandler(opts.Health))

	// Protected routes (apply auth middleware explicitly)
	protected := router.Group("/api")
	protected.Use(authMiddleware.RequireAuth())
	{
		// Course routes
		protected.POST("/courses", courseHandler.CreateCourse)
		protected.GET("/courses", courseHandler.GetAllCourses)
		protected.GET("/courses/search", courseHandler.SearchCourses)
		protected.GET("/courses/:id", courseHandler.GetCourse)
		protected.PUT("/courses/:id", courseHandler.UpdateCourse)
		protected.DELETE("/courses/:id", courseHandler.DeleteCourse)
		protected.GET("/courses/:id/assignments", assignmentHandler.GetAssignmentsForCourse)
		protected.POST("/courses/:id/assignments", assignmentHandler.CreateAssignment)

		// Assignment routes
		protected.GET("/assignments/:id", assignmentHandler.GetAssignment)
		protected.PUT("/assignments/:id", assignmentHandler.UpdateAssignment)
		protected.DELETE("/assignments/:id", assignmentHandler.DeleteAssignment)
		protected.POST("/assignments/:id/grades", gradeHandler.SubmitGrade)

		// Grade routes
		protected.GET("/students/:id/grades", gradeHandler.GetGradesForStudent)
		protected.GET("/students/:id/grades/ws", gradeHandler.StreamGrades)

		// Profile and user management routes
		protected.GET("/users/:id", profileHandler.GetProfile)
		protected.PUT("/users/:id", profileHandler.UpdateProfile)
		protected.PUT("/users/:id/picture", profileHandler.UploadProfilePicture)
		protected.POST("/users", adminHandler.CreateUser)
		protected.DELETE("/users/:id", adminHandler.DeleteUser)
	}

	router.NoRoute(func(c *gin.Context) {
		response.Message(c, http.StatusNotFound, "Not found")
	})

	return &Server{
		engine: router,
		log:    log,
	}
}

// Handler exposes the router, mainly for httptest.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", addr).Msg("http server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.log.Info().Msg("shutting down http server")
	return srv.Shutdown(shutdownCtx)
}

func healthHandler(check func(ctx context.Context) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		if check != nil {
			if err := check(c.Request.Context()); err != nil {
				zerolog.Ctx(c.Request.Context()).Warn().Err(err).Msg("health check failed")
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

func setupCORS(router *gin.Engine, origins []string) {
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}

	corsConfig := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if slices.Contains(origins, "*") {
		corsConfig.AllowAllOrigins = true
		corsConfig.AllowCredentials = false
	} else {
		corsConfig.AllowOrigins = origins
	}

	router.Use(cors.New(corsConfig))
}
