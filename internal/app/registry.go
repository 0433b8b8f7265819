package app

import (
	"database/sql"
	"net/http"

	"github.com/Mostafa-SAID7/paytrack-app/internal/analytics"
	"github.com/Mostafa-SAID7/paytrack-app/internal/employee"
	"github.com/Mostafa-SAID7/paytrack-app/internal/messaging/kafka"
	"github.com/Mostafa-SAID7/paytrack-app/internal/middleware"
	"github.com/Mostafa-SAID7/paytrack-app/internal/payroll"
	"github.com/Mostafa-SAID7/paytrack-app/internal/shared/apperror"
	"github.com/Mostafa-SAID7/paytrack-app/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const apiBanner = "PayTrack API v1.0"

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
	logger *zap.Logger,
) {
	// --- Repositories ---
	analyticsRepo := analytics.NewRepository(gormDB)
	employeeRepo := employee.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)
	payrollRepo := payroll.NewRepository(gormDB)

	// --- Services ---
	analyticsService := analytics.NewService(analyticsRepo, rdb, logger)
	employeeService := employee.NewServiceWithOutbox(db, employeeRepo, outboxRepo, rdb, logger)
	payrollService := payroll.NewServiceWithOutbox(db, payrollRepo, employeeRepo, outboxRepo, rdb, logger)

	// --- Handlers ---
	analyticsHandler := analytics.NewHandler(analyticsService, logger)
	employeeHandler := employee.NewHandler(employeeService, logger)
	payrollHandler := payroll.NewHandler(payrollService, logger)

	// --- Routes Registration ---
	router.Use(middleware.RequestID())
	registerRoot(router)

	api := router.Group("/api")
	{
		employee.RegisterRoutes(api, employeeHandler, rdb, logger)
		payroll.RegisterRoutes(api, payrollHandler, rdb, logger)
		analytics.RegisterRoutes(api, analyticsHandler, logger)
	}
}

func registerRoot(router *gin.Engine) {
	router.GET("/api", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": apiBanner})
	})
	router.NoRoute(func(c *gin.Context) {
		response.FromError(c, apperror.RouteNotFound(c.Request.URL.Path))
	})
}
