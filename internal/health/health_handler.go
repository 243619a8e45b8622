package health

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const appVersion = "1.0.0"

type Handler struct {
	db     *sql.DB
	driver string
	logger *zap.Logger
}

func NewHandler(db *sql.DB, driver string, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("health.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("health.handler")
	}
	return &Handler{db: db, driver: driver, logger: l}
}

// Check adalah liveness probe: status + backend database yang dipakai.
// Tidak ada semantik domain di sini.
func (h *Handler) Check(c *gin.Context) {
	status := "healthy"
	httpStatus := http.StatusOK

	if err := h.db.PingContext(c.Request.Context()); err != nil {
		h.logger.Warn("health check db ping failed", zap.Error(err))
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable
	}

	c.JSON(httpStatus, gin.H{
		"status":    status,
		"database":  h.driver,
		"version":   appVersion,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func RegisterRoutes(r *gin.Engine, h *Handler) {
	r.GET("/health", h.Check)
}
