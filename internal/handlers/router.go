package handlers

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/hospital-task-points/internal/constants"
	"github.com/yukikurage/hospital-task-points/internal/middleware"
	"github.com/yukikurage/hospital-task-points/internal/models"
	"github.com/yukikurage/hospital-task-points/internal/services"
)

// NewRouter builds the gin engine with every API route.
func NewRouter(svc *services.Services, sessionStore sessions.Store) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID(), middleware.AccessLog())
	r.Use(sessions.Sessions(constants.SessionCookieName, sessionStore))

	authHandler := NewAuthHandler(svc.Auth)
	departmentHandler := NewDepartmentHandler(svc.Department)
	taskHandler := NewTaskHandler(svc.Task)
	submissionHandler := NewSubmissionHandler(svc.Submission)
	settingsHandler := NewSettingsHandler(svc.Settings)
	overviewHandler := NewOverviewHandler(svc.Overview)
	auditHandler := NewAuditHandler(svc.Audit)
	templateHandler := NewTemplateHandler(svc.Template)
	userHandler := NewUserHandler(svc.User)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Hospital task points API is running",
		})
	})

	api := r.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", middleware.RequireAuth(), authHandler.GetCurrentUser)
			auth.GET("/departments", departmentHandler.ListDepartments)
		}

		protected := api.Group("")
		protected.Use(middleware.RequireAuth())
		{
			protected.GET("/departments", departmentHandler.ListDepartments)
			protected.POST("/departments",
				middleware.RequireRole(models.RoleAdministrator, models.RoleCEO),
				departmentHandler.CreateDepartment)

			protected.GET("/tasks", taskHandler.ListStaffTasks)
			protected.GET("/tasks/submissions", submissionHandler.ListMySubmissions)
			protected.POST("/tasks/:id/submit", submissionHandler.Submit)

			protected.POST("/submissions/:id/override", middleware.RequireAdmin(), submissionHandler.Override)
			protected.POST("/submissions/:id/reject", middleware.RequireAdmin(), submissionHandler.Reject)

			protected.GET("/settings", settingsHandler.GetSettings)
			protected.PATCH("/settings",
				middleware.RequireRole(models.RoleAdministrator, models.RoleCEO),
				settingsHandler.UpdateSettings)

			protected.GET("/users/:id/overview", overviewHandler.GetUserOverview)
			protected.GET("/leaderboard/departments", overviewHandler.Leaderboard)
		}

		admin := api.Group("/admin")
		admin.Use(middleware.RequireAuth(), middleware.RequireAdmin())
		{
			admin.GET("/tasks", taskHandler.ListTasks)
			admin.POST("/tasks", taskHandler.CreateTask)
			admin.POST("/tasks/bulk", taskHandler.BulkCreateTasks)
			admin.GET("/tasks/:id", taskHandler.GetTask)
			admin.PATCH("/tasks/:id", taskHandler.UpdateTask)
			admin.POST("/tasks/:id/archive", taskHandler.ArchiveTask)
			admin.DELETE("/tasks/:id/permanent", middleware.RequireRole(models.RoleCEO), taskHandler.DeleteTaskPermanently)

			admin.GET("/staff", overviewHandler.ListStaff)
			admin.GET("/users/:id/submissions", submissionHandler.ListUserSubmissions)
			admin.GET("/reports/departments", overviewHandler.ListDepartmentReports)
			admin.GET("/reports/departments/:id", overviewHandler.GetDepartmentReport)
			admin.GET("/audit", auditHandler.ListAuditLogs)

			admin.GET("/templates", templateHandler.ListTemplates)
			admin.POST("/templates", templateHandler.CreateTemplate)
			admin.GET("/templates/:id", templateHandler.GetTemplate)
			admin.DELETE("/templates/:id", templateHandler.DeleteTemplate)
			admin.POST("/templates/:id/tasks", templateHandler.InstantiateTemplate)
		}

		ceo := api.Group("/ceo")
		ceo.Use(middleware.RequireAuth(), middleware.RequireRole(models.RoleCEO))
		{
			ceo.GET("/users", userHandler.ListUsers)
			ceo.POST("/users", userHandler.CreateUser)
			ceo.GET("/users/:id", userHandler.GetUser)
			ceo.PATCH("/users/:id", userHandler.UpdateUser)
			ceo.DELETE("/users/:id", userHandler.DeactivateUser)
			ceo.DELETE("/users/:id/permanent", userHandler.DeleteUserPermanently)

			ceo.GET("/submissions/recent", submissionHandler.ListRecentSubmissions)
			ceo.GET("/submissions/all", submissionHandler.ListAllSubmissions)
		}
	}

	return r
}
