// internal/app/features/health/health.go
package health

import (
	"context"
	"net/http"
	"sort"

	"github.com/dalemusser/stratatour/internal/app/system/jsonutil"
	"github.com/dalemusser/stratatour/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// Pinger is a dependency that can report whether it is reachable.
type Pinger func(ctx context.Context) error

// Mongo returns a Pinger for the primary of client.
func Mongo(client *mongo.Client) Pinger {
	return func(ctx context.Context) error {
		return client.Ping(ctx, readpref.Primary())
	}
}

// Handler provides health check endpoints.
type Handler struct {
	checks map[string]Pinger
	logger *zap.Logger
}

// NewHandler creates a new health check Handler. checks maps a service
// name such as "mongodb" or "redis" to its probe.
func NewHandler(checks map[string]Pinger, logger *zap.Logger) *Handler {
	return &Handler{checks: checks, logger: logger}
}

// Response represents the health check response.
type Response struct {
	Status   string            `json:"status"`
	Services map[string]string `json:"services,omitempty"`
}

// Routes returns a chi.Router with health check routes mounted.
// Provides /health (full check), /health/ready, and /health/live.
func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Get("/", h.Check)
	r.Get("/ready", h.Ready)
	r.Get("/live", h.Live)
	return r
}

// MountRootEndpoints adds /ready, /readyz and /livez on the root router
// for Kubernetes probes.
func MountRootEndpoints(r chi.Router, h *Handler) {
	r.Get("/ready", h.Ready)
	r.Get("/readyz", h.Ready)
	r.Get("/livez", h.Live)
}

// run pings every dependency in name order and returns the per-service
// status and whether all were reachable.
func (h *Handler) run(ctx context.Context) (map[string]string, bool) {
	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	services := make(map[string]string, len(names))
	healthy := true
	for _, name := range names {
		pctx, cancel := timeouts.WithTimeout(ctx, timeouts.Ping(), h.logger, "health."+name)
		err := h.checks[name](pctx)
		cancel()
		if err != nil {
			healthy = false
			services[name] = "unavailable"
			h.logger.Warn("health check: ping failed", zap.String("service", name), zap.Error(err))
			continue
		}
		services[name] = "ok"
	}
	return services, healthy
}

// Check reports the status of every dependency.
func (h *Handler) Check(w http.ResponseWriter, r *http.Request) {
	services, healthy := h.run(r.Context())
	resp := Response{Status: "ok", Services: services}
	status := http.StatusOK
	if !healthy {
		resp.Status = "degraded"
		status = http.StatusServiceUnavailable
	}
	jsonutil.JSON(w, status, resp)
}

// Ready checks if the service is ready to accept requests.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	if _, healthy := h.run(r.Context()); !healthy {
		jsonutil.JSON(w, http.StatusServiceUnavailable, Response{Status: "not ready"})
		return
	}
	jsonutil.OK(w, Response{Status: "ready"})
}

// Live checks if the process is alive. It never touches dependencies.
func (h *Handler) Live(w http.ResponseWriter, r *http.Request) {
	jsonutil.OK(w, Response{Status: "alive"})
}
