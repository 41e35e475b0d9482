package grpc

import (
	"context"
	"fmt"
	"net"

	"github.com/scienceol/labmate/pkg/middleware/auth"
	"github.com/scienceol/labmate/pkg/middleware/logger"
	ggrpc "google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// ServiceName is reported by the health service next to the overall "" status.
const ServiceName = "labmate.v1.LabMate"

type Server struct {
	*ggrpc.Server
	health *health.Server
}

// New builds the server without listening, tests serve it on a bufconn.
func New(a *auth.Authenticator) *Server {
	s := ggrpc.NewServer(
		ggrpc.UnaryInterceptor(UnaryAuthInterceptor(a)),
		ggrpc.StreamInterceptor(StreamAuthInterceptor(a)),
	)
	reflection.Register(s)

	hs := health.NewServer()
	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(s, hs)

	return &Server{Server: s, health: hs}
}

func NewServer(ctx context.Context, port int, a *auth.Authenticator) (*Server, error) {
	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return nil, fmt.Errorf("failed to listen: %w", err)
	}

	s := New(a)
	go func() {
		logger.Infof(ctx, "gRPC server starting on port %d", port)
		if err := s.Serve(lis); err != nil {
			logger.Errorf(ctx, "gRPC server error: %v", err)
		}
	}()

	return s, nil
}

// GracefulStop marks every service NOT_SERVING before draining.
func (s *Server) GracefulStop() {
	s.health.Shutdown()
	s.Server.GracefulStop()
}
