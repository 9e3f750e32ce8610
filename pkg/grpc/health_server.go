package grpc

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/example/storefront/pkg/config"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// Pinger is a dependency whose reachability decides the serving status.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthServer exposes grpc.health.v1.Health for the whole process and for
// the named service.
type HealthServer struct {
	server *grpc.Server
	health *health.Server
	config *config.ServerConfig
	logger *zap.Logger
}

func NewHealthServer(cfg *config.ServerConfig, logger *zap.Logger) *HealthServer {
	srv := grpc.NewServer()
	hs := health.NewServer()
	healthpb.RegisterHealthServer(srv, hs)
	reflection.Register(srv)

	hs.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	hs.SetServingStatus(cfg.Name, healthpb.HealthCheckResponse_NOT_SERVING)

	return &HealthServer{
		server: srv,
		health: hs,
		config: cfg,
		logger: logger,
	}
}

func (s *HealthServer) Start() error {
	lis, err := net.Listen("tcp", s.config.Addr())
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}
	return s.Serve(lis)
}

func (s *HealthServer) Serve(lis net.Listener) error {
	s.logger.Info("Health service started", zap.String("address", lis.Addr().String()))
	return s.server.Serve(lis)
}

func (s *HealthServer) SetServing(serving bool) {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if serving {
		status = healthpb.HealthCheckResponse_SERVING
	}
	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(s.config.Name, status)
}

// Probe pings every dependency and reports SERVING only if all answer.
func (s *HealthServer) Probe(ctx context.Context, deps map[string]Pinger) bool {
	ok := true
	for name, dep := range deps {
		if err := dep.Ping(ctx); err != nil {
			s.logger.Warn("Dependency unhealthy", zap.String("dependency", name), zap.Error(err))
			ok = false
		}
	}
	s.SetServing(ok)
	return ok
}

// Watch probes deps every interval until ctx is done.
func (s *HealthServer) Watch(ctx context.Context, interval time.Duration, deps map[string]Pinger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		probeCtx, cancel := context.WithTimeout(ctx, interval)
		s.Probe(probeCtx, deps)
		cancel()

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// Stop reports NOT_SERVING and drains in-flight calls.
func (s *HealthServer) Stop() {
	s.health.Shutdown()
	s.server.GracefulStop()
}
