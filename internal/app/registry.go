package app

import (
	"context"
	"os"

	"hrms-lite/internal/attendance"
	"hrms-lite/internal/employee"
	"hrms-lite/internal/health"
	"hrms-lite/internal/messaging/kafka"
	"hrms-lite/internal/middleware"
	"hrms-lite/internal/shared/connection"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	logger := zap.L()

	db, err := gormDB.DB()
	if err != nil {
		return err
	}

	// --- Repositories ---
	employeeRepo := employee.NewRepository(gormDB)
	attendanceRepo := attendance.NewRepository(gormDB)

	// Outbox hanya aktif saat broker dikonfigurasi dan backend
	// postgres (skema outbox memakai fungsi Postgres).
	driver := connection.DriverName(os.Getenv("DB_DRIVER"))
	var outboxRepo kafka.OutboxRepository
	if os.Getenv("KAFKA_BROKER") != "" && driver == connection.DriverPostgres {
		if err := kafka.EnsureOutboxTable(context.Background(), db); err != nil {
			return err
		}
		outboxRepo = kafka.NewOutboxRepository(db)
		logger.Info("outbox publishing enabled")
	}

	// --- Services ---
	employeeService := employee.NewServiceWithOutbox(db, employeeRepo, outboxRepo)
	attendanceService := attendance.NewServiceWithOutbox(db, attendanceRepo, employeeRepo, outboxRepo, rdb)

	// --- Handlers ---
	employeeHandler := employee.NewHandler(employeeService)
	attendanceHandler := attendance.NewHandlerWithRedis(attendanceService, rdb)
	healthHandler := health.NewHandler(db, driver)

	// --- Routes Registration ---
	router.Use(middleware.CORS())
	router.Use(middleware.RequestID())

	api := router.Group("/api")
	{
		employee.RegisterRoutes(api, employeeHandler, logger)
		attendance.RegisterRoutes(api, attendanceHandler, rdb, logger)
	}

	health.RegisterRoutes(router, healthHandler)

	return nil
}
