package app

import (
	"taqyim_backend/docs"
	"taqyim_backend/internal/middleware"
	"taqyim_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// Middlewares read the active config from the request context.
	router.Use(func(ctx *gin.Context) {
		ctx.Set("config", a.Config)
		ctx.Next()
	})

	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)

		// Session load and registration carry the link token themselves so
		// both participant and group links work.
		public.GET("/delivery/session", c.delivery.GetSession)
		public.POST("/delivery/register", c.delivery.Register)
	}

	delivery := router.Group("/api/delivery")
	delivery.Use(middleware.DeliveryLinkMiddleware(), middleware.RequireParticipant())
	{
		delivery.POST("/start", c.delivery.Start)
		delivery.POST("/answers", c.delivery.SaveAnswer)
		delivery.POST("/navigate", c.delivery.Navigate)
		delivery.POST("/events", c.delivery.ReportEvent)
		delivery.GET("/stream", c.delivery.Stream)
		delivery.POST("/submit", c.scoring.Submit)
	}
}
