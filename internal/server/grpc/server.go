package grpc

import (
	"context"
	"net"

	"github.com/rcornejom06/authcore/internal/logging"
	"github.com/rcornejom06/authcore/internal/server/auth"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// Authenticator verifies the value of an authorization header.
type Authenticator interface {
	Authenticate(header string) (*auth.Principal, error)
}

// DefaultPublicMethods can be called without a token.
var DefaultPublicMethods = []string{
	healthpb.Health_Check_FullMethodName,
	healthpb.Health_Watch_FullMethodName,
	"/grpc.health.v1.Health/List",
}

// GRPCServer serves the health service publicly and server reflection to
// callers holding a valid bearer token.
type GRPCServer struct {
	address string
	logger  logging.Logger
	authn   Authenticator
	public  map[string]struct{}
	health  *health.Server
}

func NewGRPCServer(address string, l logging.Logger, authn Authenticator, publicMethods ...string) *GRPCServer {
	if len(publicMethods) == 0 {
		publicMethods = DefaultPublicMethods
	}
	public := make(map[string]struct{}, len(publicMethods))
	for _, m := range publicMethods {
		public[m] = struct{}{}
	}
	return &GRPCServer{
		address: address,
		logger:  l.With("module", "grpc_server"),
		authn:   authn,
		public:  public,
		health:  health.NewServer(),
	}
}

func (s *GRPCServer) Run(ctx context.Context) error {
	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

func (s *GRPCServer) Serve(ctx context.Context, listen net.Listener) error {
	srv := grpc.NewServer(
		grpc.ChainUnaryInterceptor(s.accessTokenInterceptor),
		grpc.ChainStreamInterceptor(s.streamAccessTokenInterceptor),
	)

	healthpb.RegisterHealthServer(srv, s.health)
	reflection.Register(srv)
	s.health.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		s.health.Shutdown()
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", listen.Addr().String())

	// starts accepting incoming connections
	if err := srv.Serve(listen); err != nil {
		return err
	}
	return nil
}
