package reviews

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"bookwise/backend/internal/domain"
	"bookwise/backend/internal/store"
)

var (
	ErrForbidden       = errors.New("caller did not take part in this appointment")
	ErrNotReviewable   = errors.New("appointment cannot be reviewed")
	ErrAlreadyReviewed = errors.New("appointment already reviewed by this user")
)

type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string {
	return e.msg
}

// AppointmentReader is the slice of the scheduling engine reviews depend on.
type AppointmentReader interface {
	Get(ctx context.Context, id int64) (domain.Appointment, error)
}

type Service struct {
	repo  store.ReviewRepository
	appts AppointmentReader
	now   func() time.Time
	log   *slog.Logger
}

func NewService(repo store.ReviewRepository, appts AppointmentReader, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		repo:  repo,
		appts: appts,
		now:   time.Now,
		log:   log.With(slog.String("component", "reviews")),
	}
}

func (s *Service) Submit(ctx context.Context, caller domain.Identity, appointmentID int64, rating int, comment string) (domain.Review, error) {
	if rating < 1 || rating > 5 {
		return domain.Review{}, &ValidationError{msg: "rating must be between 1 and 5"}
	}

	appt, reviewed, err := s.reviewTarget(ctx, caller, appointmentID)
	if err != nil {
		return domain.Review{}, err
	}

	if _, err := s.repo.Find(ctx, appointmentID, caller.UserID); err == nil {
		return domain.Review{}, ErrAlreadyReviewed
	} else if !errors.Is(err, store.ErrNotFound) {
		return domain.Review{}, err
	}

	out, err := s.repo.Create(ctx, domain.Review{
		AppointmentID: appt.ID,
		ReviewerID:    caller.UserID,
		ReviewedID:    reviewed,
		Rating:        rating,
		Comment:       strings.TrimSpace(comment),
		CreatedAt:     s.now().UTC(),
	})
	if errors.Is(err, store.ErrConflict) {
		return domain.Review{}, ErrAlreadyReviewed
	}
	if err != nil {
		return domain.Review{}, err
	}

	s.log.Info(
		"review submitted",
		slog.Int64("appointment_id", appt.ID),
		slog.Int64("reviewer_id", caller.UserID),
		slog.Int("rating", rating),
	)
	return out, nil
}

// Eligible reports whether caller may still review the appointment.
func (s *Service) Eligible(ctx context.Context, caller domain.Identity, appointmentID int64) (bool, error) {
	if _, _, err := s.reviewTarget(ctx, caller, appointmentID); err != nil {
		if errors.Is(err, ErrForbidden) || errors.Is(err, ErrNotReviewable) {
			return false, nil
		}
		return false, err
	}
	_, err := s.repo.Find(ctx, appointmentID, caller.UserID)
	switch {
	case err == nil:
		return false, nil
	case errors.Is(err, store.ErrNotFound):
		return true, nil
	default:
		return false, err
	}
}

func (s *Service) Received(ctx context.Context, userID int64) ([]domain.Review, error) {
	return s.repo.ListReceived(ctx, userID)
}

func (s *Service) Written(ctx context.Context, userID int64) ([]domain.Review, error) {
	return s.repo.ListWritten(ctx, userID)
}

// AverageRating is 0 when the user has no reviews.
func (s *Service) AverageRating(ctx context.Context, userID int64) (float64, int, error) {
	rows, err := s.repo.ListReceived(ctx, userID)
	if err != nil {
		return 0, 0, err
	}
	if len(rows) == 0 {
		return 0, 0, nil
	}
	total := 0
	for _, r := range rows {
		total += r.Rating
	}
	return float64(total) / float64(len(rows)), len(rows), nil
}

// reviewTarget returns the appointment and the party the caller would review.
func (s *Service) reviewTarget(ctx context.Context, caller domain.Identity, appointmentID int64) (domain.Appointment, int64, error) {
	appt, err := s.appts.Get(ctx, appointmentID)
	if err != nil {
		return domain.Appointment{}, 0, err
	}
	if !appt.HasParticipant(caller.UserID) {
		return domain.Appointment{}, 0, ErrForbidden
	}
	if appt.Status != domain.StatusCompleted {
		return domain.Appointment{}, 0, ErrNotReviewable
	}
	reviewed, ok := appt.Counterpart(caller.UserID)
	if !ok || reviewed == caller.UserID {
		return domain.Appointment{}, 0, ErrNotReviewable
	}
	return appt, reviewed, nil
}
