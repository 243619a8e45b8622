package app

import (
	"os"

	"hrms-lite/internal/shared/connection"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func dbConfigFromEnv() connection.Config {
	return connection.Config{
		Driver:     os.Getenv("DB_DRIVER"),
		Host:       os.Getenv("DB_HOST"),
		User:       os.Getenv("DB_USER"),
		Password:   os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
		Port:       os.Getenv("DB_PORT"),
		SSLMode:    os.Getenv("DB_SSLMODE"),
		SQLitePath: os.Getenv("SQLITE_PATH"),
	}
}

func BuildApp(router *gin.Engine) error {
	logger := zap.L().Named("app")

	// 1. Setup Infrastructure. Backend dipilih sekali di sini lewat
	// DB_DRIVER; tidak ada branching per-backend di kode query.
	cfg := dbConfigFromEnv()
	gormDB, err := connection.ConnectGORMWithRetry(cfg, 5)
	if err != nil {
		return err
	}
	logger.Info("database connection established",
		zap.String("driver", connection.DriverName(cfg.Driver)),
	)

	if err := migrateSchema(gormDB, connection.DriverName(cfg.Driver)); err != nil {
		return err
	}

	// Redis opsional: tanpa REDIS_ADDR, summary cache dan idempotency
	// dinonaktifkan dan semua query langsung ke database.
	var rdb *redis.Client
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		rdb, err = connection.ConnectRedisWithRetry(addr, 5)
		if err != nil {
			return err
		}
		logger.Info("redis connection established")
	} else {
		logger.Info("REDIS_ADDR not set, cache disabled")
	}

	// Register Modules & Routes
	return registerModules(router, gormDB, rdb)
}
