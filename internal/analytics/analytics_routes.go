package analytics

import (
	"github.com/Mostafa-SAID7/paytrack-app/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, logger *zap.Logger) {
	r.GET("/dashboard/stats",
		middleware.ContextLogger(logger),
		middleware.RateLimitByIP(10, 30),
		handler.DashboardStats,
	)
	r.GET("/analytics/departments",
		middleware.ContextLogger(logger),
		middleware.RateLimitByIP(10, 30),
		handler.Departments,
	)
}
