package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/shiksha-api/internal/middleware"
	"github.com/noah-isme/shiksha-api/internal/models"
)

// Handlers groups every API handler mounted under the API prefix.
type Handlers struct {
	Auth       *AuthHandler
	Homework   *HomeworkHandler
	Quiz       *QuizHandler
	Attendance *AttendanceHandler
	Material   *MaterialHandler
	School     *SchoolHandler
	Analytics  *AnalyticsHandler
	Dashboard  *DashboardHandler
	Files      *FileHandler
}

// RouteMiddleware carries the cross-cutting middleware RegisterRoutes applies.
// Nil entries are skipped.
type RouteMiddleware struct {
	Authenticate gin.HandlerFunc
	LoginLimit   gin.HandlerFunc
	SubmitLimit  gin.HandlerFunc
	Audit        func(action, resource string) gin.HandlerFunc
}

// RegisterRoutes mounts the REST surface on api.
func RegisterRoutes(api *gin.RouterGroup, h Handlers, mw RouteMiddleware) {
	teacher := middleware.RequireRoles(models.RoleTeacher)
	principal := middleware.RequireRoles(models.RolePrincipal)
	student := middleware.RequireRoles(models.RoleStudent)
	audit := func(action, resource string) gin.HandlerFunc {
		if mw.Audit == nil {
			return nil
		}
		return mw.Audit(action, resource)
	}

	auth := api.Group("/auth")
	auth.POST("/register", h.Auth.Register)
	auth.POST("/login", chain(mw.LoginLimit, h.Auth.Login)...)

	school := api.Group("/school")
	school.POST("/register", h.School.Register)
	school.GET("/check-registration", h.School.CheckRegistration)
	api.GET("/settings/school", h.School.Settings)

	api.GET("/files/:token", h.Files.Download)

	secured := api.Group("")
	if mw.Authenticate != nil {
		secured.Use(mw.Authenticate)
	}
	secured.GET("/auth/me", h.Auth.Me)
	secured.PUT("/settings/school", chain(teacher, audit(models.AuditActionUpdate, "school_settings"), h.School.UpdateSettings)...)

	homework := secured.Group("/homework")
	homework.POST("/create", chain(teacher, audit(models.AuditActionCreate, "homework"), h.Homework.Create)...)
	homework.GET("/list", h.Homework.List)
	homework.GET("/students", chain(teacher, h.Homework.Students)...)
	homework.GET("/my-submissions", chain(student, h.Homework.MySubmissions)...)
	homework.POST("/submit", chain(mw.SubmitLimit, h.Homework.Submit)...)
	homework.PUT("/submission/:id/grade", chain(teacher, audit(models.AuditActionGrade, "homework_submission"), h.Homework.Grade)...)
	homework.GET("/:id", h.Homework.Get)
	homework.GET("/:id/submissions", chain(teacher, h.Homework.Submissions)...)
	homework.GET("/:id/submissions/export", chain(teacher, h.Homework.Export)...)

	quiz := secured.Group("/quiz")
	quiz.POST("/create", chain(teacher, audit(models.AuditActionCreate, "quiz"), h.Quiz.Create)...)
	quiz.GET("/list", h.Quiz.List)
	quiz.GET("/my-submissions", chain(student, h.Quiz.MySubmissions)...)
	quiz.POST("/submit", chain(mw.SubmitLimit, h.Quiz.Submit)...)
	quiz.PUT("/submission/:id/feedback", chain(teacher, audit(models.AuditActionGrade, "quiz_submission"), h.Quiz.Feedback)...)
	quiz.GET("/:id", h.Quiz.Get)
	quiz.GET("/:id/submissions", chain(teacher, h.Quiz.Submissions)...)
	quiz.GET("/:id/submissions/export", chain(teacher, h.Quiz.Export)...)

	attendance := secured.Group("/attendance")
	attendance.POST("/mark", chain(student, h.Attendance.Mark)...)
	attendance.GET("/my-records", chain(student, h.Attendance.MyRecords)...)
	attendance.GET("/today-status", chain(student, h.Attendance.TodayStatus)...)
	attendance.GET("/class/:class_section", chain(teacher, h.Attendance.ClassRecords)...)

	materials := secured.Group("/materials")
	materials.POST("/create", chain(teacher, audit(models.AuditActionCreate, "material"), h.Material.Create)...)
	materials.GET("/list", h.Material.List)
	materials.DELETE("/:id", chain(teacher, audit(models.AuditActionDelete, "material"), h.Material.Delete)...)

	principalGroup := secured.Group("/principal", principal)
	principalGroup.GET("/analytics", h.Analytics.Overview)
	principalGroup.GET("/class-performance", h.Analytics.ClassPerformance)
	principalGroup.GET("/teacher-activity", h.Analytics.TeacherActivity)
	principalGroup.GET("/attendance-report", h.Analytics.AttendanceReport)
	principalGroup.GET("/recent-activities", h.Analytics.RecentActivities)

	secured.GET("/dashboard/stats", h.Dashboard.Stats)
}

func chain(handlers ...gin.HandlerFunc) []gin.HandlerFunc {
	out := make([]gin.HandlerFunc, 0, len(handlers))
	for _, h := range handlers {
		if h != nil {
			out = append(out, h)
		}
	}
	return out
}
