package grpc

import (
	"context"
	"time"

	"github.com/Abdurahmanit/estate-marketplace/internal/platform/logger"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// Server is the operational gRPC endpoint: health checks and reflection.
type Server struct {
	*grpc.Server
	health      *health.Server
	serviceName string
	logger      *logger.Logger
}

func NewServer(serviceName string, log *logger.Logger) *Server {
	log = log.Named("gRPC")

	srv := grpc.NewServer(
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.ChainUnaryInterceptor(LoggingInterceptor(log)),
	)

	hs := health.NewServer()
	healthpb.RegisterHealthServer(srv, hs)
	reflection.Register(srv)

	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	hs.SetServingStatus(serviceName, healthpb.HealthCheckResponse_SERVING)

	log.Info("gRPC server configured", zap.String("service", serviceName))
	return &Server{Server: srv, health: hs, serviceName: serviceName, logger: log}
}

// Shutdown reports NOT_SERVING and then stops gracefully.
func (s *Server) Shutdown() {
	s.health.Shutdown()
	s.logger.Info("Calling gRPC server's GracefulStop...")
	s.GracefulStop()
	s.logger.Info("gRPC server GracefulStop completed")
}

// LoggingInterceptor logs every unary call with its duration.
func LoggingInterceptor(log *logger.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		duration := time.Since(start)

		if err != nil {
			log.Warn("gRPC request failed", zap.String("method", info.FullMethod), zap.Duration("duration", duration), zap.Error(err))
		} else {
			log.Debug("gRPC request completed", zap.String("method", info.FullMethod), zap.Duration("duration", duration))
		}
		return resp, err
	}
}
