package payroll

import (
	"github.com/Mostafa-SAID7/paytrack-app/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rdb *redis.Client,
	logger *zap.Logger,
) {
	payrolls := r.Group("/payroll")
	payrolls.Use(middleware.ContextLogger(logger))
	{
		payrolls.GET("", middleware.RateLimitByIP(10, 30), handler.GetAll)
		payrolls.GET("/employee/:employeeId", middleware.RateLimitByIP(10, 30), handler.GetByEmployee)
		payrolls.GET("/:id", middleware.RateLimitByIP(10, 30), handler.GetById)

		payrolls.POST("/calculate",
			middleware.RateLimitByIP(2, 10),
			middleware.Idempotency(rdb),
			handler.Calculate,
		)
		payrolls.POST("/run",
			middleware.RateLimitByIP(0.2, 2),
			middleware.Idempotency(rdb),
			handler.Run,
		)
	}
}
