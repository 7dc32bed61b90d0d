package grpc

import (
	"context"
	"net"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

const ServiceName = "yatube"

type App struct {
	srv    *grpc.Server
	health *health.Server
}

func NewGrpc() *App {
	server := &App{
		srv: grpc.NewServer(
			grpc.UnaryInterceptor(unaryInterceptor),
		),
		health: health.NewServer(),
	}

	healthpb.RegisterHealthServer(server.srv, server.health)
	reflection.Register(server.srv)

	server.MarkNotServing()
	return server
}

func (v *App) MarkServing() {
	v.health.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	v.health.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)
}

func (v *App) MarkNotServing() {
	v.health.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	v.health.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_NOT_SERVING)
}

func (v *App) Listen() error {
	listener, err := net.Listen("tcp", viper.GetString("grpc_bind"))
	if err != nil {
		return err
	}

	return v.srv.Serve(listener)
}

// Stop waits for pending calls up to timeout and then drops the rest.
func (v *App) Stop(timeout time.Duration) {
	v.health.Shutdown()

	done := make(chan struct{})
	go func() {
		v.srv.GracefulStop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(timeout):
		v.srv.Stop()
	}
}

func unaryInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	start := time.Now()
	resp, err := handler(ctx, req)
	if err != nil {
		log.Warn().Err(err).Str("method", info.FullMethod).Dur("duration", time.Since(start)).Msg("A gRPC call failed...")
	} else {
		log.Debug().Str("method", info.FullMethod).Dur("duration", time.Since(start)).Msg("Handled a gRPC call.")
	}
	return resp, err
}
