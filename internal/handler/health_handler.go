package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/campuscore/placement-backend/internal/response"
)

// HealthHandler reports liveness of the process and its backing stores.
type HealthHandler struct {
	pool      *pgxpool.Pool
	rdb       *redis.Client
	startTime time.Time
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(pool *pgxpool.Pool, rdb *redis.Client) *HealthHandler {
	return &HealthHandler{
		pool:      pool,
		rdb:       rdb,
		startTime: time.Now(),
	}
}

// Health godoc
// GET /health
// Pings PostgreSQL and Redis; degraded dependencies are reported per store.
func (h *HealthHandler) Health(c *gin.Context) {
	ctx := c.Request.Context()

	postgres := "ok"
	if err := h.pool.Ping(ctx); err != nil {
		postgres = "down"
	}

	redisStatus := "ok"
	if err := h.rdb.Ping(ctx).Err(); err != nil {
		redisStatus = "down"
	}

	status := http.StatusOK
	if postgres == "down" || redisStatus == "down" {
		status = http.StatusServiceUnavailable
	}

	response.Success(c, status, gin.H{
		"status":   "up",
		"postgres": postgres,
		"redis":    redisStatus,
		"uptime":   time.Since(h.startTime).Round(time.Second).String(),
	})
}
