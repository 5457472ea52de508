package auth

import (
	"context"
	"errors"
	"log"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
)

// Resolver maps a session token to a principal.
type Resolver interface {
	Resolve(ctx context.Context, token string) (*Principal, error)
}

// NewUnaryAuthInterceptor returns a gRPC unary interceptor that extracts a Bearer
// token from incoming metadata and, when it resolves, injects the Principal into the context.
// Calls without a valid token proceed anonymously; handlers decide via RequireIdentity.
func NewUnaryAuthInterceptor(resolver Resolver) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		token, err := TokenFromMD(ctx)
		if err != nil {
			return handler(ctx, req)
		}
		p, err := resolver.Resolve(ctx, token)
		if err != nil {
			if !errors.Is(err, ErrNoSession) {
				log.Printf("grpc %s: resolve session: %v", info.FullMethod, err)
			}
			return handler(ctx, req)
		}
		return handler(WithPrincipal(ctx, p), req)
	}
}

// TokenFromMD extracts a Bearer token from gRPC metadata.
func TokenFromMD(ctx context.Context) (string, error) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return "", errors.New("missing metadata")
	}
	vals := md.Get("authorization")
	if len(vals) == 0 {
		return "", errors.New("missing authorization")
	}
	return BearerToken(vals[0])
}

// BearerToken returns the token part of an "Authorization: Bearer <token>" value.
func BearerToken(header string) (string, error) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", errors.New("invalid authorization header")
	}
	tok := strings.TrimSpace(parts[1])
	if tok == "" {
		return "", errors.New("empty bearer token")
	}
	return tok, nil
}
