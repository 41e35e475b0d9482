package grpc

import (
	"context"
	"strings"

	"github.com/scienceol/labmate/pkg/middleware/auth"
	"github.com/scienceol/labmate/pkg/middleware/logger"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// skipAuth returns true for services that should not require authentication.
func skipAuth(fullMethod string) bool {
	return strings.HasPrefix(fullMethod, "/grpc.reflection.") ||
		strings.HasPrefix(fullMethod, "/grpc.health.")
}

func extractAndValidateToken(ctx context.Context, a *auth.Authenticator) (*auth.UserInfo, error) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "missing metadata")
	}

	values := md.Get("authorization")
	if len(values) == 0 {
		return nil, status.Error(codes.Unauthenticated, "missing authorization header")
	}

	token, err := auth.ParseHeader(values[0])
	if err != nil {
		return nil, status.Error(codes.Unauthenticated, "invalid authorization format")
	}

	user, err := a.Verify(ctx, token)
	if err != nil {
		logger.Errorf(ctx, "gRPC auth: bearer token validation failed: %v", err)
		return nil, status.Error(codes.Unauthenticated, "invalid token")
	}
	return user, nil
}

func UnaryAuthInterceptor(a *auth.Authenticator) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		if skipAuth(info.FullMethod) {
			return handler(ctx, req)
		}
		user, err := extractAndValidateToken(ctx, a)
		if err != nil {
			return nil, err
		}
		return handler(auth.WithUser(ctx, user), req)
	}
}

func StreamAuthInterceptor(a *auth.Authenticator) grpc.StreamServerInterceptor {
	return func(srv any, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
		if skipAuth(info.FullMethod) {
			return handler(srv, ss)
		}
		user, err := extractAndValidateToken(ss.Context(), a)
		if err != nil {
			return err
		}
		wrapped := &wrappedStream{ServerStream: ss, ctx: auth.WithUser(ss.Context(), user)}
		return handler(srv, wrapped)
	}
}

type wrappedStream struct {
	grpc.ServerStream
	ctx context.Context
}

func (w *wrappedStream) Context() context.Context {
	return w.ctx
}
