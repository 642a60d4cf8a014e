package handlers

import (
	portssvc "github.com/nicolasgrk/gestion-budget-ia/internal/core/ports/services"
	"github.com/nicolasgrk/gestion-budget-ia/internal/middleware"
	"github.com/nicolasgrk/gestion-budget-ia/pkg/config"
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces.
// analysisLimiter throttles the model-backed routes; the plain data routes are
// not rate limited.
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	analysisLimiter *limiter.Limiter,
) {
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	v1 := r.Group("/api/v1")

	registerStatisticsRoutes(v1, services.Statistics)
	registerTransactionRoutes(v1, services.Transaction)
	registerCategoryRoutes(v1, services.Category)

	limited := v1.Group("", middleware.RateLimit(analysisLimiter))
	registerAnalysisRoutes(limited, services.Spending, services.Recurring, services.Forecast)
	registerChatRoutes(limited, services.Chat)
}
