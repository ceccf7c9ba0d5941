package handler

import (
	"github.com/gin-gonic/gin"
)

// Handlers bundles every route handler for registration.
type Handlers struct {
	Auth          *AuthHandler
	Users         *UserHandler
	Students      *StudentHandler
	Universities  *UniversityHandler
	Programs      *ProgramHandler
	Applications  *ApplicationHandler
	Messages      *MessageHandler
	Notifications *NotificationHandler
	Metrics       *MetricsHandler
}

// RegisterRoutes mounts all API routes under the configured prefix and the
// upload directory as static content.
func RegisterRoutes(r *gin.Engine, prefix, uploadsDir string, h Handlers) {
	r.GET("/health", h.Metrics.Health)
	r.GET("/ready", h.Metrics.Ready)
	r.GET("/metrics", h.Metrics.Prometheus)

	api := r.Group(prefix)

	api.POST("/login", h.Auth.Login)

	users := api.Group("/users")
	{
		users.GET("", h.Users.List)
		users.POST("", h.Users.Create)
		users.PUT("/update-profile", h.Users.UpdateProfile)
		users.DELETE("/:id", h.Users.Delete)
	}

	students := api.Group("/students")
	{
		students.GET("", h.Students.List)
		students.POST("", h.Students.Create)
	}

	universities := api.Group("/universities")
	{
		universities.GET("", h.Universities.List)
		universities.POST("", h.Universities.Create)
		universities.POST("/import", h.Universities.Import)
		universities.PUT("/:id", h.Universities.Update)
		universities.DELETE("/:id", h.Universities.Delete)
	}

	programs := api.Group("/programs")
	{
		programs.GET("", h.Programs.List)
		programs.POST("", h.Programs.Create)
		programs.DELETE("/:id", h.Programs.Delete)
	}

	api.POST("/applications_v2", h.Applications.CreateV2)

	applications := api.Group("/applications")
	{
		applications.GET("", h.Applications.List)
		applications.POST("", h.Applications.Create)
		applications.GET("/export", h.Applications.Export)
		applications.GET("/:id/files", h.Applications.Files)
		applications.POST("/:id/files", h.Applications.AddFiles)
		applications.PUT("/:id/status", h.Applications.UpdateStatus)
		applications.GET("/:id/messages", h.Messages.List)
		applications.POST("/:id/messages", h.Messages.Post)
	}

	notifications := api.Group("/notifications")
	{
		notifications.GET("", h.Notifications.List)
		notifications.PUT("/:id/read", h.Notifications.MarkRead)
	}

	r.Static(prefix+"/uploads", uploadsDir)
}
