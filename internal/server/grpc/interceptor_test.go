package grpc

import (
	"context"
	"testing"
	"time"

	"github.com/rcornejom06/authcore/internal/common"
	"github.com/rcornejom06/authcore/internal/logging"
	"github.com/rcornejom06/authcore/internal/server/auth"
	"github.com/rcornejom06/authcore/internal/server/models"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

const protectedMethod = "/authcore.v1.Accounts/Get"

type tokenAuthenticator struct {
	tokens *auth.TokenManager
}

func (a tokenAuthenticator) Authenticate(header string) (*auth.Principal, error) {
	return a.tokens.Verify(header)
}

func newTestServer(t *testing.T, secret string) (*GRPCServer, *auth.TokenManager) {
	t.Helper()
	tm, err := auth.NewTokenManager([]byte(secret), time.Hour, nil)
	if err != nil {
		t.Fatalf("NewTokenManager error: %v", err)
	}
	return NewGRPCServer("127.0.0.1:0", logging.Nop{}, tokenAuthenticator{tokens: tm}), tm
}

func issue(t *testing.T, tm *auth.TokenManager) string {
	t.Helper()
	tok, err := tm.Issue(&models.PublicAccount{ID: "user-123", Email: "a@x.com", DisplayName: "Ana"})
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}
	return tok
}

func withAuth(value string) context.Context {
	md := metadata.New(map[string]string{common.AuthorizationMetadataKey: value})
	return metadata.NewIncomingContext(context.Background(), md)
}

func TestInterceptor_PublicMethodSkipsAuth(t *testing.T) {
	s, _ := newTestServer(t, "secret")

	info := &grpc.UnaryServerInfo{FullMethod: DefaultPublicMethods[0]}
	handlerCalled := false
	h := func(ctx context.Context, req any) (any, error) {
		handlerCalled = true
		return "ok", nil
	}

	resp, err := s.accessTokenInterceptor(context.Background(), nil, info, h)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !handlerCalled || resp != "ok" {
		t.Fatalf("handler not called or bad resp: %v", resp)
	}
}

func TestInterceptor_MissingToken(t *testing.T) {
	s, _ := newTestServer(t, "secret")
	info := &grpc.UnaryServerInfo{FullMethod: protectedMethod}

	h := func(ctx context.Context, req any) (any, error) {
		t.Fatal("handler should not be called when token missing")
		return nil, nil
	}

	_, err := s.accessTokenInterceptor(context.Background(), nil, info, h)
	if status.Code(err) != codes.Unauthenticated {
		t.Fatalf("expected Unauthenticated, got %v", status.Code(err))
	}
	if msg := status.Convert(err).Message(); msg != string(common.KindMalformedAuthHeader) {
		t.Fatalf("unexpected message %q", msg)
	}
}

func TestInterceptor_InvalidToken(t *testing.T) {
	s, _ := newTestServer(t, "secret")
	_, other := newTestServer(t, "other-secret")
	info := &grpc.UnaryServerInfo{FullMethod: protectedMethod}

	h := func(ctx context.Context, req any) (any, error) {
		t.Fatal("handler should not be called for invalid token")
		return nil, nil
	}

	_, err := s.accessTokenInterceptor(withAuth("Bearer "+issue(t, other)), nil, info, h)
	if status.Code(err) != codes.Unauthenticated {
		t.Fatalf("expected Unauthenticated, got %v", status.Code(err))
	}
	if msg := status.Convert(err).Message(); msg != string(common.KindTokenInvalid) {
		t.Fatalf("unexpected message %q", msg)
	}
}

func TestInterceptor_ValidToken_SetsPrincipal(t *testing.T) {
	s, tm := newTestServer(t, "super-secret")
	info := &grpc.UnaryServerInfo{FullMethod: protectedMethod}

	var got *auth.Principal
	h := func(ctx context.Context, req any) (any, error) {
		got, _ = auth.PrincipalFromContext(ctx)
		return "ok", nil
	}

	resp, err := s.accessTokenInterceptor(withAuth("Bearer "+issue(t, tm)), nil, info, h)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp != "ok" {
		t.Fatalf("unexpected handler resp: %v", resp)
	}
	if got == nil || got.UserID != "user-123" {
		t.Fatalf("principal not propagated in context: %+v", got)
	}
}

type fakeStream struct {
	grpc.ServerStream
	ctx context.Context
}

func (f fakeStream) Context() context.Context { return f.ctx }

func TestStreamInterceptor(t *testing.T) {
	s, tm := newTestServer(t, "secret")
	info := &grpc.StreamServerInfo{FullMethod: protectedMethod}

	err := s.streamAccessTokenInterceptor(nil, fakeStream{ctx: context.Background()}, info, func(any, grpc.ServerStream) error {
		t.Fatal("handler should not be called without a token")
		return nil
	})
	if status.Code(err) != codes.Unauthenticated {
		t.Fatalf("expected Unauthenticated, got %v", err)
	}

	var got *auth.Principal
	err = s.streamAccessTokenInterceptor(nil, fakeStream{ctx: withAuth("Bearer " + issue(t, tm))}, info, func(_ any, ss grpc.ServerStream) error {
		got, _ = auth.PrincipalFromContext(ss.Context())
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil || got.Email != "a@x.com" {
		t.Fatalf("principal not propagated: %+v", got)
	}
}

func TestToStatus(t *testing.T) {
	if status.Code(toStatus(common.KindTokenExpired)) != codes.Unauthenticated {
		t.Fatal("expired token must be Unauthenticated")
	}
	if status.Code(toStatus(common.KindStoreUnavailable)) != codes.Internal {
		t.Fatal("non-auth failures must be Internal")
	}
}
