package main

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sis-api/internal/handler"
	internalmiddleware "github.com/noah-isme/sis-api/internal/middleware"
	"github.com/noah-isme/sis-api/internal/models"
	"github.com/noah-isme/sis-api/internal/service"
)

type routeDeps struct {
	auth           *service.AuthService
	users          *service.UserService
	students       *service.StudentService
	subjects       *service.SubjectService
	sections       *service.SectionService
	rooms          *service.RoomService
	grades         *service.GradeService
	attendance     *service.AttendanceService
	behavior       *service.BehaviorService
	communications *service.CommunicationService
	dashboard      *service.DashboardService
	schedules      *service.ScheduleService
	exports        *service.ScheduleExportService
	enrollment     *service.EnrollmentService
	admin          *service.AdminService
	metrics        *service.MetricsService
	db             handler.Pinger
}

func registerRoutes(r *gin.Engine, prefix string, deps routeDeps) {
	metricsHandler := handler.NewMetricsHandler(deps.metrics, deps.db)
	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	authHandler := handler.NewAuthHandler(deps.auth)
	userHandler := handler.NewUserHandler(deps.users)
	studentHandler := handler.NewStudentHandler(deps.students)
	subjectHandler := handler.NewSubjectHandler(deps.subjects)
	sectionHandler := handler.NewSectionHandler(deps.sections)
	roomHandler := handler.NewRoomHandler(deps.rooms)
	gradeHandler := handler.NewGradeHandler(deps.grades)
	attendanceHandler := handler.NewAttendanceHandler(deps.attendance)
	behaviorHandler := handler.NewBehaviorHandler(deps.behavior)
	communicationHandler := handler.NewCommunicationHandler(deps.communications)
	dashboardHandler := handler.NewDashboardHandler(deps.dashboard)
	scheduleHandler := handler.NewScheduleHandler(deps.schedules, deps.exports)
	exportHandler := handler.NewScheduleExportHandler(deps.exports)
	enrollmentHandler := handler.NewEnrollmentHandler(deps.enrollment)
	adminHandler := handler.NewAdminHandler(deps.admin)

	api := r.Group(prefix)

	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/signup/teacher", authHandler.SignupTeacher)
	api.POST("/auth/signup/parent", authHandler.SignupParent)
	api.POST("/admin/init", adminHandler.Init)
	// Download links are signed, so they work without a bearer token.
	api.GET("/schedule-exports/download/:token", exportHandler.Download)

	secured := api.Group("")
	secured.Use(internalmiddleware.JWT(deps.auth))

	admin := internalmiddleware.AdminOnly()
	staff := internalmiddleware.Staff()
	anyone := internalmiddleware.RequireRoles(models.RoleAdmin, models.RoleTeacher, models.RoleParent)

	secured.GET("/auth/me", authHandler.Me)

	users := secured.Group("/users", admin)
	users.GET("", userHandler.List)
	users.POST("", userHandler.Create)
	users.GET("/:id", userHandler.Get)
	users.PUT("/:id", userHandler.Update)
	users.PATCH("/:id/approval", userHandler.Approve)
	users.DELETE("/:id", userHandler.Delete)

	students := secured.Group("/students")
	students.GET("", anyone, studentHandler.List)
	students.GET("/:id", anyone, studentHandler.Get)
	students.POST("", staff, studentHandler.Create)
	students.PUT("/:id", staff, studentHandler.Update)
	students.DELETE("/:id", admin, studentHandler.Delete)
	students.GET("/:id/subjects", anyone, enrollmentHandler.ListSubjects)
	students.POST("/:id/subjects/auto-enroll", staff, enrollmentHandler.AutoEnroll)

	subjects := secured.Group("/subjects")
	subjects.GET("", anyone, subjectHandler.List)
	subjects.GET("/:id", anyone, subjectHandler.Get)
	subjects.POST("", admin, subjectHandler.Create)
	subjects.PUT("/:id", admin, subjectHandler.Update)
	subjects.DELETE("/:id", admin, subjectHandler.Delete)

	sections := secured.Group("/sections")
	sections.GET("", staff, sectionHandler.List)
	sections.GET("/:id", staff, sectionHandler.Get)
	sections.POST("", admin, sectionHandler.Create)
	sections.PUT("/:id", admin, sectionHandler.Update)
	sections.DELETE("/:id", admin, sectionHandler.Delete)
	sections.POST("/:id/schedule/generate", admin, scheduleHandler.Generate)
	sections.GET("/:id/schedule", anyone, scheduleHandler.SectionTimetable)
	sections.DELETE("/:id/schedule", admin, scheduleHandler.ClearSection)
	sections.GET("/:id/schedule/export", staff, scheduleHandler.Export)

	rooms := secured.Group("/rooms")
	rooms.GET("", staff, roomHandler.List)
	rooms.GET("/:id", staff, roomHandler.Get)
	rooms.POST("", admin, roomHandler.Create)
	rooms.PUT("/:id", admin, roomHandler.Update)
	rooms.DELETE("/:id", admin, roomHandler.Delete)

	schedules := secured.Group("/schedules")
	schedules.GET("", staff, scheduleHandler.List)
	schedules.DELETE("/:id", admin, scheduleHandler.Delete)

	exportsGroup := secured.Group("/schedule-exports", staff)
	exportsGroup.POST("", exportHandler.Create)
	exportsGroup.GET("/:id", exportHandler.Get)

	grades := secured.Group("/grades")
	grades.GET("", anyone, gradeHandler.List)
	grades.POST("", staff, gradeHandler.Create)
	grades.PUT("/:id", staff, gradeHandler.Update)
	grades.DELETE("/:id", staff, gradeHandler.Delete)

	attendance := secured.Group("/attendance")
	attendance.GET("", anyone, attendanceHandler.List)
	attendance.POST("", staff, attendanceHandler.Create)
	attendance.PUT("/:id", staff, attendanceHandler.Update)
	attendance.DELETE("/:id", staff, attendanceHandler.Delete)

	behavior := secured.Group("/behavior-reports")
	behavior.GET("", anyone, behaviorHandler.List)
	behavior.POST("", staff, behaviorHandler.Create)
	behavior.DELETE("/:id", admin, behaviorHandler.Delete)

	communications := secured.Group("/communications", anyone)
	communications.GET("", communicationHandler.List)
	communications.POST("", communicationHandler.Create)

	dashboard := secured.Group("/dashboard", staff)
	dashboard.GET("/stats", dashboardHandler.Stats)
	dashboard.GET("/adviser-insights", dashboardHandler.AdviserInsights)
}
