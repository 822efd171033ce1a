package grpc

import (
	"context"

	"github.com/rcornejom06/authcore/internal/common"
	"github.com/rcornejom06/authcore/internal/server/auth"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

func (s *GRPCServer) accessTokenInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	if _, ok := s.public[info.FullMethod]; ok {
		return handler(ctx, req)
	}
	ctx, err := s.authenticate(ctx, info.FullMethod)
	if err != nil {
		return nil, err
	}
	return handler(ctx, req)
}

// authStream overrides the context of a server stream.
type authStream struct {
	grpc.ServerStream
	ctx context.Context
}

func (a *authStream) Context() context.Context { return a.ctx }

func (s *GRPCServer) streamAccessTokenInterceptor(srv any, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
	if _, ok := s.public[info.FullMethod]; ok {
		return handler(srv, ss)
	}
	ctx, err := s.authenticate(ss.Context(), info.FullMethod)
	if err != nil {
		return err
	}
	return handler(srv, &authStream{ServerStream: ss, ctx: ctx})
}

// authenticate verifies the authorization metadata and returns a context
// carrying the principal.
func (s *GRPCServer) authenticate(ctx context.Context, method string) (context.Context, error) {
	var header string
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if values := md.Get(common.AuthorizationMetadataKey); len(values) > 0 {
			header = values[0]
		}
	}

	p, err := s.authn.Authenticate(header)
	if err != nil {
		kind := common.Classify(err)
		s.logger.Warn(ctx, "auth rejected", "kind", kind, "method", method)
		return nil, toStatus(kind)
	}
	return auth.WithPrincipal(ctx, p), nil
}

func toStatus(kind common.Kind) error {
	switch kind {
	case common.KindMalformedAuthHeader, common.KindTokenInvalid, common.KindTokenExpired:
		return status.Error(codes.Unauthenticated, string(kind))
	default:
		return status.Error(codes.Internal, string(common.KindInternal))
	}
}
