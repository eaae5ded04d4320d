package reviews

import (
	"context"
	"errors"
	"testing"
	"time"

	"bookwise/backend/internal/domain"
	"bookwise/backend/internal/store"
)

type fakeRepo struct {
	createFn       func(ctx context.Context, review domain.Review) (domain.Review, error)
	findFn         func(ctx context.Context, appointmentID, reviewerID int64) (domain.Review, error)
	listReceivedFn func(ctx context.Context, userID int64) ([]domain.Review, error)
	listWrittenFn  func(ctx context.Context, userID int64) ([]domain.Review, error)
}

func (f *fakeRepo) Create(ctx context.Context, review domain.Review) (domain.Review, error) {
	if f.createFn == nil {
		panic("Create not configured")
	}
	return f.createFn(ctx, review)
}

func (f *fakeRepo) Find(ctx context.Context, appointmentID, reviewerID int64) (domain.Review, error) {
	if f.findFn == nil {
		panic("Find not configured")
	}
	return f.findFn(ctx, appointmentID, reviewerID)
}

func (f *fakeRepo) ListReceived(ctx context.Context, userID int64) ([]domain.Review, error) {
	if f.listReceivedFn == nil {
		panic("ListReceived not configured")
	}
	return f.listReceivedFn(ctx, userID)
}

func (f *fakeRepo) ListWritten(ctx context.Context, userID int64) ([]domain.Review, error) {
	if f.listWrittenFn == nil {
		panic("ListWritten not configured")
	}
	return f.listWrittenFn(ctx, userID)
}

type fakeAppointments map[int64]domain.Appointment

func (f fakeAppointments) Get(ctx context.Context, id int64) (domain.Appointment, error) {
	a, ok := f[id]
	if !ok {
		return domain.Appointment{}, store.ErrNotFound
	}
	return a, nil
}

func notReviewed(ctx context.Context, appointmentID, reviewerID int64) (domain.Review, error) {
	return domain.Review{}, store.ErrNotFound
}

func testAppointments() fakeAppointments {
	provider := int64(2)
	return fakeAppointments{
		1: {ID: 1, UserID: 5, ProviderID: &provider, Status: domain.StatusCompleted},
		2: {ID: 2, UserID: 5, ProviderID: &provider, Status: domain.StatusConfirmed},
		3: {ID: 3, UserID: 5, Status: domain.StatusCompleted},
	}
}

var consumer = domain.Identity{UserID: 5, Role: domain.RoleConsumer}

func TestServiceSubmit_CreatesReviewOfCounterpart(t *testing.T) {
	var got domain.Review
	svc := NewService(&fakeRepo{
		findFn: notReviewed,
		createFn: func(ctx context.Context, review domain.Review) (domain.Review, error) {
			got = review
			review.ID = 10
			return review, nil
		},
	}, testAppointments(), nil)
	svc.now = func() time.Time { return time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC) }

	out, err := svc.Submit(context.Background(), consumer, 1, 4, "  lovely  ")
	if err != nil {
		t.Fatalf("Submit error: %v", err)
	}
	if out.ID != 10 {
		t.Fatalf("id = %d, want 10", out.ID)
	}
	if got.ReviewerID != 5 || got.ReviewedID != 2 || got.Comment != "lovely" || got.Rating != 4 {
		t.Fatalf("review = %+v", got)
	}

	provider := domain.Identity{UserID: 2, Role: domain.RoleProvider}
	if _, err := svc.Submit(context.Background(), provider, 1, 5, ""); err != nil {
		t.Fatalf("provider Submit error: %v", err)
	}
	if got.ReviewedID != 5 {
		t.Fatalf("provider reviewed %d, want 5", got.ReviewedID)
	}
}

func TestServiceSubmit_Rejections(t *testing.T) {
	svc := NewService(&fakeRepo{
		findFn: func(ctx context.Context, appointmentID, reviewerID int64) (domain.Review, error) {
			if appointmentID == 1 && reviewerID == 2 {
				return domain.Review{ID: 1}, nil
			}
			return domain.Review{}, store.ErrNotFound
		},
		createFn: func(ctx context.Context, review domain.Review) (domain.Review, error) {
			return domain.Review{}, store.ErrConflict
		},
	}, testAppointments(), nil)

	tests := []struct {
		name    string
		caller  domain.Identity
		id      int64
		rating  int
		wantErr error
	}{
		{"missing appointment", consumer, 99, 5, store.ErrNotFound},
		{"stranger", domain.Identity{UserID: 7}, 1, 5, ErrForbidden},
		{"not completed", consumer, 2, 5, ErrNotReviewable},
		{"no counterpart", consumer, 3, 5, ErrNotReviewable},
		{"already reviewed", domain.Identity{UserID: 2, Role: domain.RoleProvider}, 1, 5, ErrAlreadyReviewed},
		{"race on unique index", consumer, 1, 5, ErrAlreadyReviewed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Submit(context.Background(), tt.caller, tt.id, tt.rating, "")
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}

	for _, rating := range []int{0, 6} {
		_, err := svc.Submit(context.Background(), consumer, 1, rating, "")
		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("rating %d err = %v, want *ValidationError", rating, err)
		}
	}
}

func TestServiceEligible(t *testing.T) {
	svc := NewService(&fakeRepo{
		findFn: func(ctx context.Context, appointmentID, reviewerID int64) (domain.Review, error) {
			if reviewerID == 2 {
				return domain.Review{ID: 1}, nil
			}
			return domain.Review{}, store.ErrNotFound
		},
	}, testAppointments(), nil)
	ctx := context.Background()

	if ok, err := svc.Eligible(ctx, consumer, 1); err != nil || !ok {
		t.Fatalf("Eligible = %v, %v; want true", ok, err)
	}
	if ok, err := svc.Eligible(ctx, domain.Identity{UserID: 2, Role: domain.RoleProvider}, 1); err != nil || ok {
		t.Fatalf("reviewed Eligible = %v, %v; want false", ok, err)
	}
	if ok, err := svc.Eligible(ctx, consumer, 2); err != nil || ok {
		t.Fatalf("confirmed Eligible = %v, %v; want false", ok, err)
	}
	if _, err := svc.Eligible(ctx, consumer, 99); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("missing Eligible err = %v, want ErrNotFound", err)
	}
}

func TestServiceAverageRating(t *testing.T) {
	svc := NewService(&fakeRepo{
		listReceivedFn: func(ctx context.Context, userID int64) ([]domain.Review, error) {
			if userID != 2 {
				return nil, nil
			}
			return []domain.Review{{Rating: 5}, {Rating: 4}, {Rating: 3}, {Rating: 4}}, nil
		},
	}, testAppointments(), nil)

	avg, n, err := svc.AverageRating(context.Background(), 2)
	if err != nil {
		t.Fatalf("AverageRating error: %v", err)
	}
	if avg != 4 || n != 4 {
		t.Fatalf("average = %v over %d, want 4 over 4", avg, n)
	}

	avg, n, err = svc.AverageRating(context.Background(), 9)
	if err != nil || avg != 0 || n != 0 {
		t.Fatalf("empty average = %v, %d, %v", avg, n, err)
	}
}
