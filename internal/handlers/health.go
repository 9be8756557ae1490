package handlers

import (
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/jaatdharmendra53-star/Svbh-help/internal/models"
)

const version = "1.2.0"

var startTime = time.Now()

// HealthHandler provides health check endpoints
type HealthHandler struct {
	db     *pgxpool.Pool
	rdb    *redis.Client
	logger *zap.SugaredLogger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(db *pgxpool.Pool, rdb *redis.Client, logger *zap.SugaredLogger) *HealthHandler {
	return &HealthHandler{db: db, rdb: rdb, logger: logger}
}

// Check handles GET /api/v1/health (liveness probe)
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, models.HealthStatus{
		Status:  "ok",
		Version: version,
		Uptime:  time.Since(startTime).String(),
	})
}

// Ready handles GET /api/v1/health/ready (readiness probe)
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	dbStatus := "connected"
	sessionStatus := "connected"
	ready := true

	if err := h.db.Ping(r.Context()); err != nil {
		dbStatus = "disconnected"
		ready = false
	}
	if err := h.rdb.Ping(r.Context()).Err(); err != nil {
		sessionStatus = "disconnected"
		ready = false
	}

	status := models.HealthStatus{
		Status:   "ready",
		Version:  version,
		Uptime:   time.Since(startTime).String(),
		Database: dbStatus,
		Sessions: sessionStatus,
	}
	if !ready {
		status.Status = "not ready"
		respondJSON(w, http.StatusServiceUnavailable, status)
		return
	}

	respondJSON(w, http.StatusOK, status)
}
