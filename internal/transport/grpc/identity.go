package grpc

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"bookwise/backend/internal/domain"
	"bookwise/backend/internal/store"
)

// UserIDMetadataKey carries the authenticated caller id, set by the gateway in front of this service.
const UserIDMetadataKey = "x-user-id"

func callerID(ctx context.Context) (int64, bool) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return 0, false
	}
	values := md.Get(UserIDMetadataKey)
	if len(values) == 0 {
		return 0, false
	}
	id, err := strconv.ParseInt(strings.TrimSpace(values[0]), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// resolveCaller turns the caller id into an identity with the role from the directory.
func resolveCaller(ctx context.Context, dir store.UserDirectory) (domain.Identity, error) {
	id, ok := callerID(ctx)
	if !ok {
		return domain.Identity{}, status.Error(codes.Unauthenticated, "caller identity is required")
	}
	u, err := dir.GetUser(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Identity{}, status.Error(codes.Unauthenticated, "unknown caller")
	}
	if err != nil {
		return domain.Identity{}, err
	}
	return u.Identity(), nil
}

// caller resolves the identity, converting directory faults into a gRPC status.
func caller(ctx context.Context, dir store.UserDirectory, log *slog.Logger) (domain.Identity, error) {
	id, err := resolveCaller(ctx, dir)
	if err == nil {
		return id, nil
	}
	if _, ok := status.FromError(err); ok {
		log.Info("caller rejected", slog.String("code", status.Code(err).String()))
		return domain.Identity{}, err
	}
	return domain.Identity{}, toStatus(log, err)
}
