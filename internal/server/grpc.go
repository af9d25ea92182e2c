package server

import (
	"context"
	"errors"
	"net"

	"github.com/MKhiriev/go-user-auth/internal/config"
	myGRPC "github.com/MKhiriev/go-user-auth/internal/handler/grpc"
	"github.com/MKhiriev/go-user-auth/internal/logger"

	"google.golang.org/grpc"
)

type grpcServer struct {
	handler *myGRPC.Handler

	address         string
	server          *grpc.Server
	gRPCNetListener net.Listener

	// stopWatch ends the store probe; watchDone is closed when it returned.
	stopWatch context.CancelFunc
	watchDone chan struct{}

	logger *logger.Logger
}

func newGRPCServer(handler *myGRPC.Handler, cfg config.Server, logger *logger.Logger) *grpcServer {
	server := grpc.NewServer()
	handler.Register(server)

	return &grpcServer{
		handler: handler,
		address: cfg.GRPCAddress,
		server:  server,
		logger:  logger,
	}
}

// listen binds the address and starts probing the store.
func (g *grpcServer) listen() error {
	ln, err := net.Listen("tcp", g.address)
	if err != nil {
		return err
	}
	g.gRPCNetListener = ln

	ctx, cancel := context.WithCancel(context.Background())
	g.stopWatch = cancel
	g.watchDone = make(chan struct{})
	go func() {
		defer close(g.watchDone)
		g.handler.Watch(ctx)
	}()

	return nil
}

func (g *grpcServer) RunServer() {
	g.logger.Info().Str("address", g.gRPCNetListener.Addr().String()).Msg("gRPC server listening")
	if err := g.server.Serve(g.gRPCNetListener); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		g.logger.Err(err).Msg("gRPC server Serve")
	}
}

// Shutdown reports NOT_SERVING first so probes see the server leave before
// connections are drained.
func (g *grpcServer) Shutdown() {
	g.logger.Info().Msg("gRPC server Shutdown")
	g.handler.Shutdown()
	if g.stopWatch != nil {
		g.stopWatch()
		<-g.watchDone
	}
	g.server.GracefulStop()
}
