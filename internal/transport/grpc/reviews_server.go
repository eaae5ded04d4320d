package grpc

import (
	"context"
	"log/slog"

	"bookwise/backend/internal/domain"
	"bookwise/backend/internal/store"
)

type ReviewServer struct {
	svc   reviewService
	users store.UserDirectory
	log   *slog.Logger
}

type reviewService interface {
	Submit(ctx context.Context, caller domain.Identity, appointmentID int64, rating int, comment string) (domain.Review, error)
	Eligible(ctx context.Context, caller domain.Identity, appointmentID int64) (bool, error)
	Received(ctx context.Context, userID int64) ([]domain.Review, error)
	Written(ctx context.Context, userID int64) ([]domain.Review, error)
	AverageRating(ctx context.Context, userID int64) (float64, int, error)
}

func NewReviewServer(svc reviewService, users store.UserDirectory, log *slog.Logger) *ReviewServer {
	if log == nil {
		log = slog.Default()
	}
	return &ReviewServer{svc: svc, users: users, log: log.With(slog.String("component", "grpc.reviews"))}
}

func (s *ReviewServer) SubmitReview(ctx context.Context, req *SubmitReviewRequest) (*ReviewResponse, error) {
	log := s.log.With(slog.String("rpc", "SubmitReview"))
	who, err := caller(ctx, s.users, log)
	if err != nil {
		return nil, err
	}
	r, err := s.svc.Submit(ctx, who, req.AppointmentID, req.Rating, req.Comment)
	if err != nil {
		return nil, toStatus(log, err, slog.Int64("appointment_id", req.AppointmentID), slog.Int64("caller_id", who.UserID))
	}
	return &ReviewResponse{Review: toReviews([]domain.Review{r})[0]}, nil
}

func (s *ReviewServer) CanReview(ctx context.Context, req *AppointmentIDRequest) (*CanReviewResponse, error) {
	log := s.log.With(slog.String("rpc", "CanReview"))
	who, err := caller(ctx, s.users, log)
	if err != nil {
		return nil, err
	}
	ok, err := s.svc.Eligible(ctx, who, req.AppointmentID)
	if err != nil {
		return nil, toStatus(log, err, slog.Int64("appointment_id", req.AppointmentID))
	}
	return &CanReviewResponse{CanReview: ok}, nil
}

func (s *ReviewServer) ListReceivedReviews(ctx context.Context, req *UserIDRequest) (*ListReviewsResponse, error) {
	rows, err := s.svc.Received(ctx, req.UserID)
	if err != nil {
		return nil, toStatus(s.log.With(slog.String("rpc", "ListReceivedReviews")), err, slog.Int64("user_id", req.UserID))
	}
	return &ListReviewsResponse{Reviews: toReviews(rows)}, nil
}

func (s *ReviewServer) ListWrittenReviews(ctx context.Context, _ *Empty) (*ListReviewsResponse, error) {
	log := s.log.With(slog.String("rpc", "ListWrittenReviews"))
	who, err := caller(ctx, s.users, log)
	if err != nil {
		return nil, err
	}
	rows, err := s.svc.Written(ctx, who.UserID)
	if err != nil {
		return nil, toStatus(log, err, slog.Int64("caller_id", who.UserID))
	}
	return &ListReviewsResponse{Reviews: toReviews(rows)}, nil
}

func (s *ReviewServer) GetRating(ctx context.Context, req *UserIDRequest) (*RatingResponse, error) {
	avg, n, err := s.svc.AverageRating(ctx, req.UserID)
	if err != nil {
		return nil, toStatus(s.log.With(slog.String("rpc", "GetRating")), err, slog.Int64("user_id", req.UserID))
	}
	return &RatingResponse{UserID: req.UserID, Average: avg, Count: n}, nil
}
