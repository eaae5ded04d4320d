package grpc

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

const RequestIDMetadataKey = "x-request-id"

type ctxKey int

const ctxKeyRequestID ctxKey = iota

func RequestIDFromContext(ctx context.Context) string {
	v, _ := ctx.Value(ctxKeyRequestID).(string)
	return v
}

// RequestTimeoutInterceptor applies a default deadline to calls that arrive without one.
func RequestTimeoutInterceptor(timeout time.Duration) grpc.UnaryServerInterceptor {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		if _, ok := ctx.Deadline(); ok {
			return handler(ctx, req)
		}
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		return handler(ctx, req)
	}
}

// RequestIDInterceptor reuses the incoming x-request-id or mints one, and
// echoes it back in the response headers.
func RequestIDInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		id := ""
		if md, ok := metadata.FromIncomingContext(ctx); ok {
			if vals := md.Get(RequestIDMetadataKey); len(vals) > 0 {
				id = strings.TrimSpace(vals[0])
			}
		}
		if id == "" {
			id = uuid.NewString()
		}
		_ = grpc.SetHeader(ctx, metadata.Pairs(RequestIDMetadataKey, id))
		return handler(context.WithValue(ctx, ctxKeyRequestID, id), req)
	}
}

type rpcObserver interface {
	ObserveRPC(method, code string, seconds float64)
}

// ObservabilityInterceptor records latency per method and status code and
// writes one debug line per call.
func ObservabilityInterceptor(obs rpcObserver, log *slog.Logger) grpc.UnaryServerInterceptor {
	if log == nil {
		log = slog.Default()
	}
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		elapsed := time.Since(start)
		code := status.Code(err).String()

		if obs != nil {
			obs.ObserveRPC(info.FullMethod, code, elapsed.Seconds())
		}
		log.DebugContext(
			ctx,
			"rpc handled",
			slog.String("method", info.FullMethod),
			slog.String("code", code),
			slog.Duration("elapsed", elapsed),
			slog.String("request_id", RequestIDFromContext(ctx)),
		)
		return resp, err
	}
}
