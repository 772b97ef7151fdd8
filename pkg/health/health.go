package health

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/lumee/lumee-platform/pkg/llm"
	"github.com/lumee/lumee-platform/pkg/mqtt"
	"github.com/lumee/lumee-platform/pkg/postgres"
	"github.com/lumee/lumee-platform/pkg/redis"
)

// Checker provides health check functionality for agents
type Checker struct {
	mqtt     mqtt.Client
	redis    redis.Client
	postgres postgres.Client
	llm      llm.Client
	logger   *slog.Logger
}

// NewChecker creates a new health checker. The LLM client may be nil when
// no endpoint is configured; it is then reported as unconfigured.
func NewChecker(mqttClient mqtt.Client, redisClient redis.Client, pgClient postgres.Client, llmClient llm.Client, logger *slog.Logger) *Checker {
	return &Checker{
		mqtt:     mqttClient,
		redis:    redisClient,
		postgres: pgClient,
		llm:      llmClient,
		logger:   logger,
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp string    `json:"timestamp"`
	Services  *Services `json:"services,omitempty"`
}

// Services represents the status of external dependencies
type Services struct {
	Redis    string `json:"redis"`
	MQTT     string `json:"mqtt"`
	Postgres string `json:"postgres"`
	LLM      string `json:"llm"`
}

// HandlerFunc returns an HTTP handler function for health checks
// Returns 200 if the process is alive without checking dependencies,
// keeping the probe cheap for orchestrators
func (h *Checker) HandlerFunc() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response := HealthResponse{
			Status:    "ok",
			Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)

		if err := json.NewEncoder(w).Encode(response); err != nil {
			h.logger.Error("Failed to encode health response", "error", err)
		}
	}
}

// DetailedHandlerFunc returns a handler that also reports dependency state
func (h *Checker) DetailedHandlerFunc() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		services := &Services{
			Redis:    "unknown",
			MQTT:     "unknown",
			Postgres: "unknown",
			LLM:      "unconfigured",
		}

		if h.mqtt != nil && h.mqtt.IsConnected() {
			services.MQTT = "connected"
		} else {
			services.MQTT = "disconnected"
		}

		if h.redis != nil {
			if err := h.redis.Ping(r.Context()); err != nil {
				services.Redis = "disconnected"
			} else {
				services.Redis = "connected"
			}
		}

		if h.postgres != nil {
			status, err := h.postgres.HealthCheck(r.Context())
			if err != nil || !status.Connected {
				services.Postgres = "disconnected"
			} else {
				services.Postgres = "connected"
			}
		}

		if h.llm != nil {
			if err := h.llm.Health(r.Context()); err != nil {
				services.LLM = "disconnected"
			} else {
				services.LLM = "connected"
			}
		}

		status := "ok"
		if services.MQTT == "disconnected" || services.Redis == "disconnected" ||
			services.Postgres == "disconnected" || services.LLM == "disconnected" {
			status = "degraded"
		}

		response := HealthResponse{
			Status:    status,
			Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
			Services:  services,
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)

		if err := json.NewEncoder(w).Encode(response); err != nil {
			h.logger.Error("Failed to encode health response", "error", err)
		}
	}
}
