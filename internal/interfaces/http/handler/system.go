package handler

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/fundbilling/backend/internal/infrastructure/logger"
	"github.com/fundbilling/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Pinger reports whether a backing service is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// SystemHandler handles system-related API endpoints
type SystemHandler struct {
	BaseHandler
	startTime     time.Time
	version       string
	database      Pinger
	redis         Pinger
	healthTimeout time.Duration
}

// SystemOption configures a SystemHandler
type SystemOption func(*SystemHandler)

// WithDatabase sets the database checked by Health
func WithDatabase(db Pinger) SystemOption {
	return func(h *SystemHandler) {
		h.database = db
	}
}

// WithRedis sets the Redis client checked by Health. Without it Redis is
// reported as disabled.
func WithRedis(redis Pinger) SystemOption {
	return func(h *SystemHandler) {
		h.redis = redis
	}
}

// WithVersion sets the version reported by GetSystemInfo
func WithVersion(version string) SystemOption {
	return func(h *SystemHandler) {
		h.version = version
	}
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(opts ...SystemOption) *SystemHandler {
	h := &SystemHandler{
		startTime:     time.Now(),
		version:       "1.0.0",
		healthTimeout: 2 * time.Second,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// SystemInfoResponse represents the system information response
type SystemInfoResponse struct {
	Name      string `json:"name"`
	Version   string `json:"version"`
	GoVersion string `json:"go_version"`
	Uptime    string `json:"uptime"`
}

// GetSystemInfo returns basic system information including version and uptime
func (h *SystemHandler) GetSystemInfo(c *gin.Context) {
	h.Success(c, SystemInfoResponse{
		Name:      "Fee Billing API",
		Version:   h.version,
		GoVersion: runtime.Version(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
	})
}

// PingResponse represents the ping response
type PingResponse struct {
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// Ping is a liveness probe
func (h *SystemHandler) Ping(c *gin.Context) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(PingResponse{
		Message:   "pong",
		Timestamp: time.Now().Format(time.RFC3339),
	}))
}

// HealthResponse reports reachability of the backing services
type HealthResponse struct {
	Status   string `json:"status"`
	Time     string `json:"time"`
	Database string `json:"database"`
	Redis    string `json:"redis"`
}

// Health checks the database and Redis. Any failure answers 503.
func (h *SystemHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.healthTimeout)
	defer cancel()

	reqLog := logger.GetGinLogger(c)
	resp := HealthResponse{
		Status:   "healthy",
		Time:     time.Now().Format(time.RFC3339),
		Database: h.check(ctx, reqLog, "database", h.database),
		Redis:    "disabled",
	}
	if h.redis != nil {
		resp.Redis = h.check(ctx, reqLog, "redis", h.redis)
	}

	status := http.StatusOK
	if resp.Database == "error" || resp.Redis == "error" {
		resp.Status = "unhealthy"
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, resp)
}

func (h *SystemHandler) check(ctx context.Context, log *zap.Logger, name string, p Pinger) string {
	if p == nil {
		return "error"
	}
	if err := p.Ping(ctx); err != nil {
		log.Warn("Health check failed", zap.String("dependency", name), zap.Error(err))
		return "error"
	}
	return "ok"
}
