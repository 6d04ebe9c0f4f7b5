package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hiremesh/jobhub/internal/cache"
	"github.com/hiremesh/jobhub/internal/config"
	"github.com/hiremesh/jobhub/internal/domain/user"
	"github.com/hiremesh/jobhub/internal/http/handlers"
	"github.com/hiremesh/jobhub/internal/http/middlewares"
	"github.com/hiremesh/jobhub/internal/observability"
	"github.com/hiremesh/jobhub/internal/repo/postgres"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

const maxBodyBytes = 1 << 20 // 1 MiB

type Deps struct {
	Cfg   config.Config
	Pool  *pgxpool.Pool
	Cache *cache.Store
	Auth  *middlewares.AuthMiddleware
	JWT   handlers.SessionMinter
}

func NewRouter(deps Deps) *gin.Engine {
	cfg := deps.Cfg

	if cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	promRegistry := prometheus.NewRegistry()
	prom := observability.NewProm(promRegistry)

	r.Use(gin.Recovery())
	r.Use(middlewares.RequestID())
	r.Use(middlewares.RequestLogger())
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddleware(cfg.AllowedOrigins))
	r.Use(middlewares.MaxBodyBytes(maxBodyBytes))
	r.Use(middlewares.RequireJSON())
	r.Use(prom.GinHandleMiddleware())

	if cfg.TracingEnabled {
		r.Use(otelgin.Middleware("jobhub-api"))
	}

	// repositories
	usersRepo := postgres.NewUsersRepo(deps.Pool, prom)
	jobsRepo := postgres.NewJobsRepo(deps.Pool, prom)
	applicationsRepo := postgres.NewApplicationsRepo(deps.Pool, prom)
	savedJobsRepo := postgres.NewSavedJobsRepo(deps.Pool, prom)
	profilesRepo := postgres.NewProfilesRepo(deps.Pool, prom)
	tasksRepo := postgres.NewTasksRepo(deps.Pool, prom)

	// handlers
	healthHandler := handlers.NewHealthHandler(deps.Pool)
	authHandler := handlers.NewAuthHandler(usersRepo, usersRepo, deps.JWT, cfg)
	usersHandler := handlers.NewUsersHandler(usersRepo)
	jobsHandler := handlers.NewJobsHandler(jobsRepo, deps.Cache)
	applicationsHandler := handlers.NewApplicationsHandler(applicationsRepo, jobsRepo, tasksRepo, profilesRepo)
	savedJobsHandler := handlers.NewSavedJobsHandler(savedJobsRepo, jobsRepo)
	profilesHandler := handlers.NewProfilesHandler(profilesRepo, usersRepo)

	// ops
	r.GET("/healthz", healthHandler.Healthz)
	r.GET("/readyz", healthHandler.Readyz)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(promRegistry, promhttp.HandlerOpts{})))

	authLimiter := middlewares.NewRateLimiter(10, time.Minute)

	api := r.Group("/api")

	// auth
	authGroup := api.Group("/auth")
	authGroup.POST("/signup", authLimiter.RateLimiterMiddleware(middlewares.KeyByIP), authHandler.SignUp)
	authGroup.POST("/login", authLimiter.RateLimiterMiddleware(middlewares.KeyByIP), authHandler.Login)
	authGroup.POST("/logout", authHandler.Logout)

	// current user
	api.GET("/user/currentuser", deps.Auth.RequireAuth(), usersHandler.CurrentUser)

	// jobs
	jobs := api.Group("/jobs")
	jobs.GET("", jobsHandler.ListJobs)
	jobs.GET("/my-jobs", deps.Auth.RequireAuth(), deps.Auth.RequireRole(user.RoleEmployer), jobsHandler.MyJobs)
	jobs.GET("/:id", jobsHandler.GetJobByID)
	jobs.POST("", deps.Auth.RequireAuth(), deps.Auth.RequireRole(user.RoleEmployer), jobsHandler.CreateJob)
	jobs.PUT("/:id", deps.Auth.RequireAuth(), deps.Auth.RequireRole(user.RoleEmployer), jobsHandler.UpdateJob)
	jobs.DELETE("/:id", deps.Auth.RequireAuth(), deps.Auth.RequireRole(user.RoleEmployer), jobsHandler.DeleteJob)

	// applications
	applications := api.Group("/applications", deps.Auth.RequireAuth())
	applications.POST("/apply", deps.Auth.RequireRole(user.RoleSeeker), applicationsHandler.Apply)
	applications.GET("/my-applications", deps.Auth.RequireRole(user.RoleSeeker), applicationsHandler.MyApplications)
	applications.GET("/job/:jobId", deps.Auth.RequireRole(user.RoleEmployer), applicationsHandler.ListForJob)
	applications.GET("/employer/all", deps.Auth.RequireRole(user.RoleEmployer), applicationsHandler.AllForEmployer)
	applications.GET("/check/:jobId", deps.Auth.RequireRole(user.RoleSeeker), applicationsHandler.CheckApplied)
	applications.PUT("/:id/status", deps.Auth.RequireRole(user.RoleEmployer), applicationsHandler.UpdateStatus)
	applications.DELETE("/:id", deps.Auth.RequireRole(user.RoleSeeker), applicationsHandler.Withdraw)

	// saved jobs
	saved := api.Group("/savedjobs", deps.Auth.RequireAuth())
	saved.POST("/save", savedJobsHandler.Save)
	saved.GET("/my-saved-jobs", savedJobsHandler.MySavedJobs)
	saved.GET("/saved-ids", savedJobsHandler.SavedIDs)
	saved.GET("/check/:jobId", savedJobsHandler.CheckSaved)
	saved.DELETE("/unsave/:jobId", savedJobsHandler.Unsave)

	// profile
	profileGroup := api.Group("/profile", deps.Auth.RequireAuth())
	profileGroup.GET("/me", profilesHandler.Me)
	profileGroup.PUT("/me", profilesHandler.UpdateMe)

	return r
}
