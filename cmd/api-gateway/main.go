package main

import (
	"context"
	"fmt"
	"log"
	"net/http/pprof"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/collegetimetable/scheduler-api/api/swagger"
	internalhandler "github.com/collegetimetable/scheduler-api/internal/handler"
	internalmiddleware "github.com/collegetimetable/scheduler-api/internal/middleware"
	"github.com/collegetimetable/scheduler-api/internal/models"
	"github.com/collegetimetable/scheduler-api/internal/repository"
	"github.com/collegetimetable/scheduler-api/internal/service"
	"github.com/collegetimetable/scheduler-api/pkg/cache"
	"github.com/collegetimetable/scheduler-api/pkg/config"
	"github.com/collegetimetable/scheduler-api/pkg/database"
	"github.com/collegetimetable/scheduler-api/pkg/jobs"
	"github.com/collegetimetable/scheduler-api/pkg/logger"
	corsmiddleware "github.com/collegetimetable/scheduler-api/pkg/middleware/cors"
	reqidmiddleware "github.com/collegetimetable/scheduler-api/pkg/middleware/requestid"
)

// @title College Timetable Scheduler API
// @version 1.0.0
// @description Constraint-based weekly timetable generation and timetable-input management
// @BasePath /
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	validate := validator.New()

	metricsSvc := service.NewMetricsService()
	metricsHandler := internalhandler.NewMetricsHandler(metricsSvc)

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to initialise database", "error", err)
	}
	defer db.Close()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Health)
	r.GET("/metrics", metricsHandler.Prometheus)
	r.GET("/metrics/summary", metricsHandler.Summary)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
		registerPprof(r)
	}

	api := r.Group(cfg.APIPrefix)

	// --- auth ---

	userRepo := repository.NewUserRepository(db)
	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             "timetable-scheduler",
		Audience:           []string{"timetable-scheduler-clients"},
	})
	authHandler := internalhandler.NewAuthHandler(authSvc)

	authRoutes := api.Group("/auth")
	authRoutes.POST("/login", authHandler.Login)
	authRoutes.POST("/refresh", authHandler.Refresh)
	authRoutes.POST("/forgot-password", authHandler.ForgotPassword)
	authRoutes.POST("/reset-password", authHandler.ResetPassword)
	protectedAuth := authRoutes.Group("")
	protectedAuth.Use(internalmiddleware.JWT(authSvc))
	protectedAuth.POST("/logout", authHandler.Logout)
	protectedAuth.POST("/change-password", authHandler.ChangePassword)
	protectedAuth.GET("/me", authHandler.Me)

	// --- users ---

	userSvc := service.NewUserService(userRepo, validate, logr)
	userHandler := internalhandler.NewUserHandler(userSvc)

	// --- terms ---

	termRepo := repository.NewTermRepository(db)
	termSvc := service.NewTermService(termRepo, validate, logr)
	termHandler := internalhandler.NewTermHandler(termSvc)

	// --- subjects ---

	subjectRepo := repository.NewSubjectRepository(db)
	subjectSvc := service.NewSubjectService(subjectRepo, validate, logr)
	subjectHandler := internalhandler.NewSubjectHandler(subjectSvc)

	// --- courses ---

	courseRepo := repository.NewCourseRepository(db)
	courseSvc := service.NewCourseService(courseRepo, db, validate, logr)
	courseHandler := internalhandler.NewCourseHandler(courseSvc)

	// --- classrooms ---

	classroomRepo := repository.NewClassroomRepository(db)
	classroomSvc := service.NewClassroomService(classroomRepo, validate, logr)
	classroomHandler := internalhandler.NewClassroomHandler(classroomSvc)

	// --- teachers & availability ---

	teacherRepo := repository.NewTeacherRepository(db)
	teacherSvc := service.NewTeacherService(teacherRepo, db, validate, logr)
	teacherHandler := internalhandler.NewTeacherHandler(teacherSvc)

	availabilityRepo := repository.NewTeacherAvailabilityRepository(db)
	availabilitySvc := service.NewTeacherAvailabilityService(teacherRepo, availabilityRepo, validate, logr)
	availabilityHandler := internalhandler.NewTeacherAvailabilityHandler(availabilitySvc)

	// --- cache (optional, backs the scheduler's read-heavy lookups) ---

	var cacheSvc *service.CacheService
	var cacheCloser interface{ Close() error }
	if cfg.Cache.Enabled {
		if client, err := cache.NewRedis(cfg.Redis); err != nil {
			logr.Sugar().Warnw("cache disabled", "error", err)
		} else {
			cacheCloser = client
			cacheRepo := repository.NewCacheRepository(client, logr)
			cacheSvc = service.NewCacheService(cacheRepo, metricsSvc, cfg.Cache.TTL, logr, true)
		}
	}
	if cacheCloser != nil {
		defer cacheCloser.Close()
	}

	// --- schedule generator ---

	var schedulerHandler *internalhandler.ScheduleGeneratorHandler
	var scheduleExportHandler *internalhandler.ScheduleExportHandler
	var generateQueue *jobs.Queue
	if cfg.Scheduler.Enabled {
		semesterScheduleRepo := repository.NewSemesterScheduleRepository(db)
		semesterSlotRepo := repository.NewSemesterScheduleSlotRepository(db)
		semesterSkipRepo := repository.NewSemesterScheduleSkipRepository(db)

		schedulerSvc := service.NewScheduleGeneratorService(
			termRepo,
			courseRepo,
			subjectRepo,
			teacherRepo,
			availabilityRepo,
			classroomRepo,
			semesterScheduleRepo,
			semesterSlotRepo,
			semesterSkipRepo,
			db,
			validate,
			logr,
			service.ScheduleGeneratorConfig{ProposalTTL: cfg.Scheduler.ProposalTTL},
		)
		if cacheSvc != nil {
			schedulerSvc.AttachCache(cacheSvc)
		}

		if cfg.Scheduler.AsyncEnabled {
			queueCfg := jobs.QueueConfig{
				Workers:    cfg.Scheduler.AsyncWorkers,
				BufferSize: cfg.Scheduler.AsyncWorkers * 4,
				MaxRetries: cfg.Scheduler.AsyncMaxRetries,
				RetryDelay: cfg.Scheduler.AsyncRetryDelay,
				Logger:     logr,
			}
			generateQueue = jobs.NewQueue("schedule-generate", schedulerSvc.HandleGenerateJob, queueCfg)
			queueCtx, cancel := context.WithCancel(context.Background())
			generateQueue.Start(queueCtx)
			defer func() {
				cancel()
				generateQueue.Stop()
			}()
			schedulerSvc.AttachQueue(generateQueue)
		}

		schedulerHandler = internalhandler.NewScheduleGeneratorHandler(schedulerSvc)
		exportSvc := service.NewScheduleExportService(semesterScheduleRepo, semesterSlotRepo, courseRepo, teacherRepo, classroomRepo, logr)
		scheduleExportHandler = internalhandler.NewScheduleExportHandler(exportSvc)
	}

	// --- routes ---

	secured := api.Group("")
	secured.Use(internalmiddleware.JWT(authSvc))

	usersGroup := secured.Group("/users")
	usersGroup.Use(internalmiddleware.RBAC(string(models.RoleAdmin)))
	usersGroup.GET("", userHandler.List)
	usersGroup.POST("", userHandler.Create)
	usersGroup.GET("/:id", userHandler.Get)
	usersGroup.PUT("/:id", userHandler.Update)
	usersGroup.DELETE("/:id", userHandler.Delete)

	termsGroup := secured.Group("/terms")
	termsGroup.GET("", termHandler.List)
	termsGroup.GET("/active", termHandler.GetActive)
	termsGroup.POST("", internalmiddleware.RBAC(string(models.RoleAdmin)), termHandler.Create)
	termsGroup.PUT("/:id", internalmiddleware.RBAC(string(models.RoleAdmin)), termHandler.Update)
	termsGroup.POST("/set-active", internalmiddleware.RBAC(string(models.RoleAdmin)), termHandler.SetActive)
	termsGroup.DELETE("/:id", internalmiddleware.RBAC(string(models.RoleAdmin)), termHandler.Delete)

	subjectsGroup := secured.Group("/subjects")
	subjectsGroup.GET("", subjectHandler.List)
	subjectsGroup.GET("/:id", subjectHandler.Get)
	subjectsGroup.POST("", internalmiddleware.RBAC(string(models.RoleAdmin), string(models.RoleScheduler)), subjectHandler.Create)
	subjectsGroup.PUT("/:id", internalmiddleware.RBAC(string(models.RoleAdmin), string(models.RoleScheduler)), subjectHandler.Update)
	subjectsGroup.DELETE("/:id", internalmiddleware.RBAC(string(models.RoleAdmin)), subjectHandler.Delete)

	coursesGroup := secured.Group("/courses")
	coursesGroup.GET("", courseHandler.List)
	coursesGroup.GET("/:id", courseHandler.Get)
	coursesGroup.POST("", internalmiddleware.RBAC(string(models.RoleAdmin), string(models.RoleScheduler)), courseHandler.Create)
	coursesGroup.PUT("/:id", internalmiddleware.RBAC(string(models.RoleAdmin), string(models.RoleScheduler)), courseHandler.Update)
	coursesGroup.DELETE("/:id", internalmiddleware.RBAC(string(models.RoleAdmin)), courseHandler.Delete)

	classroomsGroup := secured.Group("/classrooms")
	classroomsGroup.GET("", classroomHandler.List)
	classroomsGroup.GET("/:id", classroomHandler.Get)
	classroomsGroup.POST("", internalmiddleware.RBAC(string(models.RoleAdmin), string(models.RoleScheduler)), classroomHandler.Create)
	classroomsGroup.PUT("/:id", internalmiddleware.RBAC(string(models.RoleAdmin), string(models.RoleScheduler)), classroomHandler.Update)
	classroomsGroup.DELETE("/:id", internalmiddleware.RBAC(string(models.RoleAdmin)), classroomHandler.Delete)

	teachersGroup := secured.Group("/teachers")
	teachersGroup.GET("", teacherHandler.List)
	teachersGroup.GET("/:id", teacherHandler.Get)
	teachersGroup.POST("", internalmiddleware.RBAC(string(models.RoleAdmin), string(models.RoleScheduler)), teacherHandler.Create)
	teachersGroup.PUT("/:id", internalmiddleware.RBAC(string(models.RoleAdmin), string(models.RoleScheduler)), teacherHandler.Update)
	teachersGroup.DELETE("/:id", internalmiddleware.RBAC(string(models.RoleAdmin)), teacherHandler.Delete)
	teachersGroup.GET("/:id/availability", availabilityHandler.Get)
	teachersGroup.PUT("/:id/availability", internalmiddleware.RBAC(string(models.RoleAdmin), string(models.RoleScheduler)), availabilityHandler.Replace)

	if schedulerHandler != nil {
		schedulesGroup := secured.Group("/schedules")
		schedulerRBAC := internalmiddleware.RBAC(string(models.RoleAdmin), string(models.RoleScheduler))
		schedulesGroup.POST("/generator", schedulerRBAC, schedulerHandler.Generate)
		schedulesGroup.POST("/generator/async", schedulerRBAC, schedulerHandler.GenerateAsync)
		schedulesGroup.GET("/generator/jobs/:jobId", schedulerRBAC, schedulerHandler.JobStatus)
		schedulesGroup.POST("/save", schedulerRBAC, schedulerHandler.Save)
		schedulesGroup.GET("", schedulerHandler.List)
		schedulesGroup.GET("/:id/slots", schedulerHandler.Slots)
		schedulesGroup.GET("/:id/skips", schedulerHandler.Skips)
		schedulesGroup.GET("/:id/occupants", schedulerHandler.Occupants)
		schedulesGroup.GET("/:id/free-rooms", schedulerHandler.FreeRooms)
		schedulesGroup.GET("/:id/assignments", schedulerHandler.Assignments)
		schedulesGroup.DELETE("/:id", internalmiddleware.RBAC(string(models.RoleAdmin)), schedulerHandler.Delete)
		if scheduleExportHandler != nil {
			schedulesGroup.GET("/:id/export.csv", scheduleExportHandler.CSV)
			schedulesGroup.GET("/:id/export.pdf", scheduleExportHandler.PDF)
		}
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}

func registerPprof(r *gin.Engine) {
	group := r.Group("/debug/pprof")
	group.GET("/", gin.WrapF(pprof.Index))
	group.GET("/cmdline", gin.WrapF(pprof.Cmdline))
	group.GET("/profile", gin.WrapF(pprof.Profile))
	group.POST("/symbol", gin.WrapF(pprof.Symbol))
	group.GET("/symbol", gin.WrapF(pprof.Symbol))
	group.GET("/trace", gin.WrapF(pprof.Trace))
	group.GET("/allocs", gin.WrapH(pprof.Handler("allocs")))
	group.GET("/block", gin.WrapH(pprof.Handler("block")))
	group.GET("/goroutine", gin.WrapH(pprof.Handler("goroutine")))
	group.GET("/heap", gin.WrapH(pprof.Handler("heap")))
	group.GET("/mutex", gin.WrapH(pprof.Handler("mutex")))
	group.GET("/threadcreate", gin.WrapH(pprof.Handler("threadcreate")))
}
