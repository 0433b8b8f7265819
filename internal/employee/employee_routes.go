package employee

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
	employees := r.Group("/employees")
	employees.Use(middleware.ContextLogger(logger))
	{
		employees.GET("",
			middleware.RateLimitByIP(10, 30),
			handler.GetAll,
		)

		employees.GET("/:id",
			middleware.RateLimitByIP(10, 30),
			handler.GetById,
		)

		employees.POST("",
			middleware.RateLimitByIP(2, 10),
			middleware.Idempotency(rdb),
			handler.Create,
		)

		employees.PUT("/:id",
			middleware.RateLimitByIP(2, 10),
			handler.Update,
		)

		employees.DELETE("/:id",
			middleware.RateLimitByIP(1, 5),
			handler.Delete,
		)
	}
}
