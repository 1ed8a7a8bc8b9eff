package routes

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/onurcolak/message-dispatcher/environments"
	"github.com/onurcolak/message-dispatcher/handlers"
	"github.com/onurcolak/message-dispatcher/internal/middlewares"
)

type Handlers struct {
	Health         *handlers.HealthHandler
	Message        *handlers.MessageHandler
	ScheduleConfig *handlers.ScheduleConfigHandler
	Scheduler      *handlers.SchedulerHandler
}

// RegisterRoutes registers all API routes with middleware
func RegisterRoutes(e *echo.Echo, h Handlers, cfg *environments.Config) {
	e.GET("/health", h.Health.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// API v1 base group, every route behind the API token
	v1 := e.Group("/api/v1", middlewares.APIKeyAuth(cfg.Auth.APIToken))

	messages := v1.Group("/messages")

	messages.GET("", h.Message.GetAllMessages)
	messages.POST("", h.Message.CreateMessage)
	messages.POST("/bulk", h.Message.CreateMessagesBulk)
	messages.GET("/stats", h.Message.GetStats)
	messages.GET("/cached", h.Message.GetCachedMessages)
	messages.GET("/:id", h.Message.GetMessage)
	messages.PUT("/:id", h.Message.UpdateMessage)
	messages.DELETE("/:id", h.Message.DeleteMessage)
	messages.POST("/:id/send", h.Message.SendMessage)

	configs := v1.Group("/schedule-configs")

	configs.GET("", h.ScheduleConfig.ListScheduleConfigs)
	configs.GET("/active", h.ScheduleConfig.ListActiveScheduleConfigs)
	configs.GET("/:id", h.ScheduleConfig.GetScheduleConfig)
	configs.POST("", h.ScheduleConfig.CreateScheduleConfig)
	configs.PUT("/:id", h.ScheduleConfig.UpdateScheduleConfig)
	configs.DELETE("/:id", h.ScheduleConfig.DeleteScheduleConfig)

	schedulerGroup := v1.Group("/scheduler")

	schedulerGroup.POST("/start", h.Scheduler.StartScheduler)
	schedulerGroup.POST("/stop", h.Scheduler.StopScheduler)
	schedulerGroup.GET("/status", h.Scheduler.GetSchedulerStatus)
}
