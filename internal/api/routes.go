package api

import (
	"net/http"

	"alcyxob/fitness-schedule/internal/metrics"
	"alcyxob/fitness-schedule/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Services bundles what the HTTP layer depends on.
type Services struct {
	Auth      service.AuthService
	Schedule  service.ScheduleService
	Generator service.GeneratorService
}

func SetupRoutes(
	router *gin.Engine,
	services Services,
	metricsManager *metrics.Manager,
	gatherer prometheus.Gatherer,
) {
	authHandler := NewAuthHandler(services.Auth)
	scheduleHandler := NewScheduleHandler(services.Schedule)
	templateHandler := NewTemplateHandler(services.Generator)

	router.Use(RequestLogger(), RequestMetrics(metricsManager))

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}
	}

	protected := apiV1.Group("")
	protected.Use(AuthMiddleware(services.Auth))
	{
		protected.GET("/me", func(c *gin.Context) {
			userID, ok := currentUserID(c)
			if !ok {
				return
			}
			c.JSON(http.StatusOK, gin.H{"userId": userID.Hex()})
		})
		protected.PUT("/me/preferences", templateHandler.UpdatePreferences)

		scheduleGroup := protected.Group("/schedule")
		{
			scheduleGroup.GET("/week", scheduleHandler.GetWeek)
			scheduleGroup.POST("/week/export", scheduleHandler.ExportWeek)

			scheduleGroup.POST("/items", scheduleHandler.CreateItem)
			scheduleGroup.PUT("/items/:id", scheduleHandler.UpdateItem)
			scheduleGroup.DELETE("/items/:id", scheduleHandler.DeleteItem)

			scheduleGroup.POST("/templates/generate", templateHandler.GenerateTemplates)
			scheduleGroup.POST("/templates", templateHandler.SaveTemplate)
			scheduleGroup.GET("/templates", templateHandler.ListTemplates)
			scheduleGroup.POST("/templates/:id/apply", templateHandler.ApplyTemplate)
		}
	}
}
