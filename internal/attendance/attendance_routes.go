package attendance

import (
	"hrms-lite/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, rdb *redis.Client, logger *zap.Logger) {
	attendances := r.Group("/attendance")
	attendances.Use(middleware.ContextLogger(logger))
	{
		attendances.GET("", h.GetAll)
		attendances.GET("/employee/:id", h.GetByEmployee)
		attendances.GET("/summary/:id", h.GetEmployeeSummary)
		attendances.GET("/dashboard/summary", h.DashboardSummary)

		attendances.POST("",
			middleware.RateLimitByIP(5, 10),
			h.Mark,
		)

		bulkHandlers := []gin.HandlerFunc{middleware.RateLimitByIP(1, 2)}
		if rdb != nil {
			bulkHandlers = append(bulkHandlers, middleware.Idempotency(rdb))
		}
		bulkHandlers = append(bulkHandlers, h.BulkMark)
		attendances.POST("/bulk", bulkHandlers...)

		attendances.PUT("/:id",
			middleware.RateLimitByIP(5, 10),
			h.Update,
		)

		attendances.DELETE("/:id",
			middleware.RateLimitByIP(2, 5),
			h.Delete,
		)
	}
}
