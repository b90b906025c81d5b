package handler

import (
	"context"
	"net/http"
	"time"

	"clinic-management/pkg/response"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const healthCheckTimeout = 2 * time.Second

type HealthHandler struct {
	db          *gorm.DB
	redisClient *redis.Client
}

func NewHealthHandler(db *gorm.DB, redisClient *redis.Client) *HealthHandler {
	return &HealthHandler{db: db, redisClient: redisClient}
}

// Health reports database and Redis reachability. Redis being down degrades the
// service but does not fail it since workload reads fall back to Postgres.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	status := map[string]string{"database": "up", "redis": "up"}

	sqlDB, err := h.db.DB()
	if err == nil {
		err = sqlDB.PingContext(ctx)
	}
	if err != nil {
		status["database"] = "down"
		response.Error(w, http.StatusServiceUnavailable, "Service unavailable", status)
		return
	}

	if err := h.redisClient.Ping(ctx).Err(); err != nil {
		status["redis"] = "down"
	}

	response.Success(w, http.StatusOK, "OK", status)
}
