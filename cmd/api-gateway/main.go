package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/sis-api/api/swagger"
	internalmiddleware "github.com/noah-isme/sis-api/internal/middleware"
	"github.com/noah-isme/sis-api/internal/repository"
	"github.com/noah-isme/sis-api/internal/service"
	"github.com/noah-isme/sis-api/internal/timetable"
	"github.com/noah-isme/sis-api/pkg/cache"
	"github.com/noah-isme/sis-api/pkg/config"
	"github.com/noah-isme/sis-api/pkg/database"
	"github.com/noah-isme/sis-api/pkg/jobs"
	"github.com/noah-isme/sis-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/sis-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/sis-api/pkg/middleware/requestid"
	"github.com/noah-isme/sis-api/pkg/storage"
	"github.com/noah-isme/sis-api/pkg/validation"
)

// @title School Information System API
// @version 1.0.0
// @description Students, grades, attendance, subject catalog and timetable allocation.
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect database", zap.Error(err))
	}
	defer db.Close()

	if _, err := database.Migrate(db.DB, logr); err != nil {
		logr.Fatal("failed to apply migrations", zap.Error(err))
	}

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable, continuing without cache", zap.Error(err))
		redisClient = nil
	}
	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	defer cacheRepo.Close() //nolint:errcheck

	overrides, err := timetable.ParseWeeklyHours(cfg.Scheduler.WeeklyHours)
	if err != nil {
		logr.Fatal("invalid SCHEDULER_WEEKLY_HOURS", zap.Error(err))
	}

	files, err := storage.NewLocalStorage(cfg.Exports.StorageDir)
	if err != nil {
		logr.Fatal("failed to prepare export storage", zap.Error(err))
	}

	validate := validation.New()
	metrics := service.NewMetricsService()

	userRepo := repository.NewUserRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	subjectRepo := repository.NewSubjectRepository(db)
	sectionRepo := repository.NewSectionRepository(db)
	roomRepo := repository.NewRoomRepository(db)
	scheduleRepo := repository.NewScheduleRepository(db)
	studentSubjectRepo := repository.NewStudentSubjectRepository(db)
	gradeRepo := repository.NewGradeRepository(db)
	attendanceRepo := repository.NewAttendanceRepository(db)
	behaviorRepo := repository.NewBehaviorRepository(db)
	communicationRepo := repository.NewCommunicationRepository(db)
	dashboardRepo := repository.NewDashboardRepository(db)
	exportJobRepo := repository.NewExportJobRepository(db)

	var locker *service.ScheduleRunLocker
	if cfg.Scheduler.SerializeRuns {
		if cacheRepo.Available() {
			locker = service.NewScheduleRunLocker(cacheRepo, cfg.Scheduler.LockTTL, logr)
		} else {
			locker = service.NewScheduleRunLocker(nil, cfg.Scheduler.LockTTL, logr)
		}
	}

	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Dashboard.CacheTTL, logr, cfg.Dashboard.CacheEnabled && cacheRepo.Available())

	authSvc := service.NewAuthService(userRepo, studentRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret: cfg.JWT.Secret,
		AccessTokenExpiry: cfg.JWT.Expiration,
		Issuer:            "sis-api",
	})
	userSvc := service.NewUserService(userRepo, validate, logr)
	studentSvc := service.NewStudentService(studentRepo, sectionRepo, validate, logr)
	subjectSvc := service.NewSubjectService(subjectRepo, userRepo, db, validate, logr)
	sectionSvc := service.NewSectionService(sectionRepo, scheduleRepo, userRepo, validate, logr)
	roomSvc := service.NewRoomService(roomRepo, scheduleRepo, validate, logr)
	gradeSvc := service.NewGradeService(gradeRepo, studentRepo, validate, logr)
	attendanceSvc := service.NewAttendanceService(attendanceRepo, studentRepo, validate, logr)
	behaviorSvc := service.NewBehaviorService(behaviorRepo, studentRepo, validate, logr)
	communicationSvc := service.NewCommunicationService(communicationRepo, studentRepo, validate, logr)
	dashboardSvc := service.NewDashboardService(dashboardRepo, cacheSvc, service.DashboardServiceConfig{CacheTTL: cfg.Dashboard.CacheTTL}, logr)
	scheduleSvc := service.NewScheduleService(sectionRepo, subjectRepo, roomRepo, userRepo, scheduleRepo, db, metrics, service.ScheduleServiceConfig{
		LoadTable: timetable.NewLoadTable(overrides),
		Locker:    locker,
	}, logr)
	enrollmentSvc := service.NewEnrollmentService(studentRepo, sectionRepo, subjectRepo, studentSubjectRepo, db, logr)
	adminSvc := service.NewAdminService(func(ctx context.Context) (int64, error) {
		return database.Migrate(db.DB, logr)
	}, dashboardSvc, cfg.Admin.InitToken, logr)

	exportSvc := service.NewScheduleExportService(scheduleRepo, sectionRepo, exportJobRepo, files,
		storage.NewSignedURLSigner(cfg.Exports.SignedURLSecret, cfg.Exports.SignedURLTTL), metrics,
		service.ScheduleExportConfig{
			APIPrefix:       cfg.APIPrefix,
			ResultTTL:       cfg.Exports.SignedURLTTL,
			CleanupInterval: cfg.Exports.CleanupInterval,
			MaxRetries:      cfg.Exports.WorkerRetries,
		}, logr)
	exportQueue := jobs.NewQueue("schedule-exports", exportSvc.HandleJob, jobs.QueueConfig{
		Workers:    cfg.Exports.WorkerConcurrency,
		MaxRetries: cfg.Exports.WorkerRetries,
		RetryDelay: 2 * time.Second,
		OnGiveUp:   exportSvc.MarkFailed,
		Logger:     logr,
	})
	exportSvc.AttachQueue(exportQueue)

	rootCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	exportQueue.Start(rootCtx)
	exportSvc.RecoverPendingJobs(rootCtx)
	exportSvc.StartCleanup(rootCtx)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(metrics))
	r.Use(internalmiddleware.WithResponseMeta())

	registerRoutes(r, cfg.APIPrefix, routeDeps{
		auth:           authSvc,
		users:          userSvc,
		students:       studentSvc,
		subjects:       subjectSvc,
		sections:       sectionSvc,
		rooms:          roomSvc,
		grades:         gradeSvc,
		attendance:     attendanceSvc,
		behavior:       behaviorSvc,
		communications: communicationSvc,
		dashboard:      dashboardSvc,
		schedules:      scheduleSvc,
		exports:        exportSvc,
		enrollment:     enrollmentSvc,
		admin:          adminSvc,
		metrics:        metrics,
		db:             db,
	})

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-rootCtx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
	exportQueue.Stop()
}
