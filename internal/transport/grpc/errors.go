package grpc

import (
	"context"
	"errors"
	"log/slog"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"bookwise/backend/internal/service/providers"
	"bookwise/backend/internal/service/reviews"
	"bookwise/backend/internal/service/scheduling"
	"bookwise/backend/internal/store"
)

// toStatus maps service errors onto gRPC codes. Rejections are logged at Info
// and keep their message; anything else is logged at Error and hidden.
func toStatus(log *slog.Logger, err error, attrs ...any) error {
	code, msg := classify(err)
	if code == codes.Internal {
		log.Error("request failed", append([]any{slog.Any("err", err)}, attrs...)...)
		return status.Error(codes.Internal, "internal error")
	}
	log.Info("request rejected", append([]any{slog.String("code", code.String()), slog.String("reason", msg)}, attrs...)...)
	return status.Error(code, msg)
}

func classify(err error) (codes.Code, string) {
	var (
		schedVal *scheduling.ValidationError
		revVal   *reviews.ValidationError
		provVal  *providers.ValidationError
	)
	switch {
	case errors.As(err, &schedVal):
		return codes.InvalidArgument, schedVal.Error()
	case errors.As(err, &revVal):
		return codes.InvalidArgument, revVal.Error()
	case errors.As(err, &provVal):
		return codes.InvalidArgument, provVal.Error()
	case errors.Is(err, scheduling.ErrOutsideAvailability):
		return codes.FailedPrecondition, "The provider is not available at that time. Pick a time within their working hours."
	case errors.Is(err, store.ErrConflict):
		return codes.FailedPrecondition, "That time slot is already booked. Pick a different time."
	case errors.Is(err, scheduling.ErrInvalidTransition):
		return codes.FailedPrecondition, err.Error()
	case errors.Is(err, reviews.ErrAlreadyReviewed), errors.Is(err, reviews.ErrNotReviewable):
		return codes.FailedPrecondition, err.Error()
	case errors.Is(err, store.ErrNotFound):
		return codes.NotFound, "not found"
	case errors.Is(err, scheduling.ErrForbidden), errors.Is(err, reviews.ErrForbidden), errors.Is(err, providers.ErrForbidden):
		return codes.PermissionDenied, err.Error()
	case errors.Is(err, context.DeadlineExceeded):
		return codes.DeadlineExceeded, "request timed out"
	case errors.Is(err, context.Canceled):
		return codes.Canceled, "request cancelled"
	default:
		return codes.Internal, "internal error"
	}
}
