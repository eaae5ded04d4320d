package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/uptrace/bun"

	"bookwise/backend/internal/domain"
	"bookwise/backend/internal/store"
)

type ReviewRepo struct {
	db *bun.DB
}

func NewReviewRepo(db *bun.DB) *ReviewRepo {
	return &ReviewRepo{db: db}
}

// Create relies on the (appointment_id, reviewer_id) unique constraint, so a
// duplicate review surfaces as store.ErrConflict.
func (r *ReviewRepo) Create(ctx context.Context, review domain.Review) (domain.Review, error) {
	m := domain.Review{
		AppointmentID: review.AppointmentID,
		ReviewerID:    review.ReviewerID,
		ReviewedID:    review.ReviewedID,
		Rating:        review.Rating,
		Comment:       review.Comment,
		CreatedAt:     review.CreatedAt,
	}
	if _, err := r.db.NewInsert().Model(&m).Returning("*").Exec(ctx); err != nil {
		return domain.Review{}, mapWriteError(err)
	}
	return m, nil
}

func (r *ReviewRepo) Find(ctx context.Context, appointmentID, reviewerID int64) (domain.Review, error) {
	var m domain.Review
	err := r.db.NewSelect().
		Model(&m).
		Where("appointment_id = ?", appointmentID).
		Where("reviewer_id = ?", reviewerID).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Review{}, store.ErrNotFound
	}
	if err != nil {
		return domain.Review{}, err
	}
	return m, nil
}

func (r *ReviewRepo) ListReceived(ctx context.Context, userID int64) ([]domain.Review, error) {
	return r.list(ctx, "reviewed_id = ?", userID)
}

func (r *ReviewRepo) ListWritten(ctx context.Context, userID int64) ([]domain.Review, error) {
	return r.list(ctx, "reviewer_id = ?", userID)
}

func (r *ReviewRepo) list(ctx context.Context, where string, userID int64) ([]domain.Review, error) {
	rows := make([]domain.Review, 0)
	err := r.db.NewSelect().
		Model(&rows).
		Where(where, userID).
		OrderExpr("created_at DESC, id DESC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return rows, nil
}
