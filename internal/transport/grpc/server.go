// Package grpc serves the standard gRPC health protocol so orchestrators can
// probe the service the same way they probe other gRPC backends.
package grpc

import (
	"context"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// ServiceName is the health service name reported for the marketplace API.
const ServiceName = "rawsy.marketplace"

// Server wraps a grpc.Server with its health state.
type Server struct {
	*grpc.Server
	health *health.Server
}

// NewServer registers health and reflection. Every service starts NOT_SERVING
// until MarkServing is called.
func NewServer(log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	s := grpc.NewServer(grpc.UnaryInterceptor(loggingInterceptor(log.Named("grpc"))))
	h := health.NewServer()
	h.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	h.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_NOT_SERVING)
	healthpb.RegisterHealthServer(s, h)
	reflection.Register(s)
	return &Server{Server: s, health: h}
}

func (s *Server) MarkServing() {
	s.health.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	s.health.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)
}

// Shutdown flips health to NOT_SERVING and stops accepting calls.
func (s *Server) Shutdown() {
	s.health.Shutdown()
	s.GracefulStop()
}

func loggingInterceptor(log *zap.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		if err != nil {
			log.Warn("grpc call failed", zap.String("method", info.FullMethod), zap.Duration("latency", time.Since(start)), zap.Error(err))
		}
		return resp, err
	}
}
