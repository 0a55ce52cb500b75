package routes

import (
	"sms-portal/internal/handlers"
	"sms-portal/internal/middleware"
	"sms-portal/internal/workflow"

	_ "sms-portal/docs"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

const apiPrefix = "/api"

func SetupRoutes(r *gin.Engine) {
	r.GET("/healthz", handlers.HealthCheck)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group(apiPrefix)
	auth := middleware.RequireAuth()
	submit := handlers.RejectDuringMaintenance()
	approvers := middleware.RequireRole(workflow.RoleDean, workflow.RoleAssistantRegistrar, workflow.RoleViceChancellor)

	api.POST("/auth/login", handlers.Login)
	api.POST("/auth/logout", handlers.Logout)

	societies := api.Group("/societies")
	societies.GET("/public", handlers.ListPublicSocieties)
	societies.GET("/public/:id", handlers.GetPublicSociety)
	societies.GET("/active", handlers.ListActiveSocieties)
	societies.GET("/latest-data", handlers.GetLatestSocietyData)
	societies.GET("/statistics", handlers.GetSocietyStatistics)
	societies.POST("/register", submit, handlers.RegisterSociety)
	societies.GET("/registration/download/:id", middleware.RequireSignedURLOrRole(), handlers.DownloadRegistration)

	renewals := api.Group("/renewals")
	renewals.POST("/submit", submit, handlers.SubmitRenewal)
	renewals.GET("/latest-data", handlers.GetLatestSocietyData)
	renewals.GET("/statistics", handlers.GetRenewalStatistics)
	renewals.GET("/download/:id", middleware.RequireSignedURLOrRole(), handlers.DownloadRenewal)
	renewals.GET("/:id", handlers.GetRenewal)
	renewalsAdmin := renewals.Group("/admin", auth)
	renewalsAdmin.GET("/pending", handlers.ListPendingRenewals)
	renewalsAdmin.GET("/all", handlers.ListAllRenewals)
	renewalsAdmin.POST("/approve/:id", handlers.ApproveRenewal)
	renewalsAdmin.POST("/reject/:id", handlers.RejectRenewal)

	events := api.Group("/events")
	events.POST("/request", submit, handlers.RequestEvent)
	events.POST("/validate-applicant", handlers.ValidateApplicant)
	events.POST("/preview-pdf", handlers.PreviewEventDocument)
	events.GET("/public/upcoming", handlers.UpcomingEvents)
	events.GET("/applicant-details", handlers.GetApplicantDetails)
	events.GET("/download/:id", middleware.RequireSignedURLOrRole(), handlers.DownloadEvent)
	events.GET("/:id", handlers.GetEvent)
	eventsAdmin := events.Group("/admin", auth)
	eventsAdmin.GET("/pending", handlers.ListPendingEvents)
	eventsAdmin.GET("/all", handlers.ListAllEvents)
	eventsAdmin.POST("/approve/:id", handlers.ApproveEvent)
	eventsAdmin.POST("/reject/:id", handlers.RejectEvent)

	admin := api.Group("/admin", auth)
	admin.GET("/user-info", handlers.GetUserInfo)
	admin.GET("/dashboard", handlers.Dashboard)
	admin.GET("/pending-approvals", handlers.PendingApprovals)
	admin.GET("/societies", handlers.AdminSocieties)
	admin.GET("/activity-logs", handlers.ActivityLogs)
	admin.POST("/approve-registration/:id", approvers, handlers.ApproveRegistration)
	admin.POST("/reject-registration/:id", approvers, handlers.RejectRegistration)
	admin.POST("/send-email", handlers.SendEmail)

	ar := admin.Group("/ar", middleware.RequireRole(workflow.RoleAssistantRegistrar))
	ar.POST("/manage-admin/add", handlers.AddAdminUser)
	ar.POST("/manage-admin/toggle-active", handlers.ToggleAdminActive)
	ar.POST("/manage-admin/remove", handlers.RemoveAdminUser)
	ar.GET("/manage-admin/all", handlers.ListAdminUsers)
	ar.POST("/deactivate-lapsed", handlers.DeactivateLapsedSocieties)
	ar.GET("/maintenance", handlers.GetMaintenanceMode)
	ar.POST("/maintenance", handlers.UpdateMaintenanceMode)

	admin.GET("/ss/monitoring-applications", middleware.RequireRole(workflow.RoleStudentService), handlers.MonitoringApplications)

	files := api.Group("/files")
	files.GET("/export/societies", auth, handlers.ExportSocieties)
	files.GET("/verify", handlers.VerifyDocument)

	validation := api.Group("/validation")
	validation.POST("/email", handlers.ValidateEmail)
	validation.POST("/mobile", handlers.ValidateMobile)
	validation.POST("/registration-number", handlers.ValidateRegistrationNumber)
	validation.POST("/bulk-emails", handlers.ValidateBulkEmails)
}
