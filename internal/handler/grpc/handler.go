package grpc

import (
	"context"
	"time"

	"github.com/MKhiriev/go-user-auth/internal/logger"
	gogrpc "google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// ServiceName is the health service name reported next to the overall ("")
// status.
const ServiceName = "auth.UserAuth"

// defaultProbeInterval is how often Watch pings the store.
const defaultProbeInterval = 5 * time.Second

// Pinger reports whether the user store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler is the root gRPC transport handler.
//
// It exposes the standard grpc.health.v1 service. The reported status
// follows the user store: SERVING while it answers pings and NOT_SERVING
// otherwise or after Shutdown.
type Handler struct {
	// store is probed by Check and Watch.
	store Pinger

	health *health.Server

	// ProbeInterval is the Watch period.
	ProbeInterval time.Duration

	logger *logger.Logger
}

// NewHandler constructs a [Handler] probing store. Until the first probe the
// status is NOT_SERVING.
func NewHandler(store Pinger, logger *logger.Logger) *Handler {
	logger.Debug().Msg("gRPC handler created")

	h := &Handler{
		store:         store,
		health:        health.NewServer(),
		ProbeInterval: defaultProbeInterval,
		logger:        logger,
	}
	h.setStatus(healthpb.HealthCheckResponse_NOT_SERVING)

	return h
}

// Register attaches the health service to server.
func (h *Handler) Register(server *gogrpc.Server) {
	healthpb.RegisterHealthServer(server, h.health)
}

// Check pings the store once and publishes the result.
func (h *Handler) Check(ctx context.Context) error {
	err := h.store.Ping(ctx)
	if err != nil {
		h.logger.Warn().Err(err).Msg("store ping failed")
		h.setStatus(healthpb.HealthCheckResponse_NOT_SERVING)
		return err
	}

	h.setStatus(healthpb.HealthCheckResponse_SERVING)
	return nil
}

// Watch runs Check immediately and then every ProbeInterval until ctx ends.
func (h *Handler) Watch(ctx context.Context) {
	_ = h.Check(ctx)

	ticker := time.NewTicker(h.ProbeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_ = h.Check(ctx)
		}
	}
}

// Shutdown sets every service to NOT_SERVING and ignores later updates.
func (h *Handler) Shutdown() {
	h.health.Shutdown()
}

func (h *Handler) setStatus(status healthpb.HealthCheckResponse_ServingStatus) {
	h.health.SetServingStatus("", status)
	h.health.SetServingStatus(ServiceName, status)
}
