// Package grpc runs the gRPC side of the account server. It serves the
// standard grpc.health.v1 protocol, with the serving status following a
// periodic database ping.
package grpc

import (
	"context"
	"net"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"

	"github.com/dmitrijs2005/accountd/internal/logging"
)

// ServiceName is reported alongside the overall ("") status.
const ServiceName = "accountd"

// Pinger reports store reachability. *sql.DB satisfies it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type GRPCServer struct {
	address  string
	logger   logging.Logger
	store    Pinger
	interval time.Duration
	health   *health.Server
}

func NewGRPCServer(address string, l logging.Logger, store Pinger, interval time.Duration) *GRPCServer {
	hs := health.NewServer()
	hs.SetServingStatus("", grpc_health_v1.HealthCheckResponse_NOT_SERVING)
	hs.SetServingStatus(ServiceName, grpc_health_v1.HealthCheckResponse_NOT_SERVING)

	return &GRPCServer{
		address:  address,
		logger:   l.With("module", "grpc_server"),
		store:    store,
		interval: interval,
		health:   hs,
	}
}

func (s *GRPCServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve accepts connections on l until ctx is cancelled.
func (s *GRPCServer) Serve(ctx context.Context, l net.Listener) error {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.loggingInterceptor))
	grpc_health_v1.RegisterHealthServer(srv, s.health)

	// stops the watcher and the stopper goroutine when Serve returns
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go s.watch(ctx)

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		s.health.Shutdown()
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", l.Addr().String())

	return srv.Serve(l)
}

// watch pings the store right away and then every interval.
func (s *GRPCServer) watch(ctx context.Context) {
	t := time.NewTicker(s.interval)
	defer t.Stop()

	serving := false
	for {
		ok := s.check(ctx)
		if ok != serving {
			s.logger.Info(ctx, "health status changed", "serving", ok)
			serving = ok
		}

		select {
		case <-ctx.Done():
			return
		case <-t.C:
		}
	}
}

func (s *GRPCServer) check(ctx context.Context) bool {
	pingCtx, cancel := context.WithTimeout(ctx, min(s.interval, 5*time.Second))
	defer cancel()

	status := grpc_health_v1.HealthCheckResponse_SERVING
	err := s.store.PingContext(pingCtx)
	if err != nil {
		if ctx.Err() != nil {
			return false
		}
		s.logger.Warn(ctx, "database ping failed", "error", err)
		status = grpc_health_v1.HealthCheckResponse_NOT_SERVING
	}

	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(ServiceName, status)
	return err == nil
}
