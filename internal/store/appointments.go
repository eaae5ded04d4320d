package store

import (
	"context"

	"bookwise/backend/internal/domain"
)

// Snapshot is the whole persisted appointment collection. LastID is the
// highest id ever issued, so ids stay unique after the newest record is cancelled.
type Snapshot struct {
	Appointments []domain.Appointment
	LastID       int64
}

// MaxID returns the larger of LastID and the highest id present.
func (s Snapshot) MaxID() int64 {
	max := s.LastID
	for _, a := range s.Appointments {
		if a.ID > max {
			max = a.ID
		}
	}
	return max
}

// AppointmentStore is the load-all/save-all persistence collaborator of the scheduling engine.
type AppointmentStore interface {
	LoadAll(ctx context.Context) (Snapshot, error)
	SaveAll(ctx context.Context, snap Snapshot) error
}

// UserDirectory resolves users, their roles and their provider profile.
type UserDirectory interface {
	GetUser(ctx context.Context, userID int64) (domain.User, error)
}

type ProviderRepository interface {
	UserDirectory
	// ListByCategory returns the providers of one service category with their services, ordered by id.
	ListByCategory(ctx context.Context, category string) ([]domain.User, error)
	UpdateAvailability(ctx context.Context, providerID int64, availability domain.WeeklyAvailability) error
	AddService(ctx context.Context, svc domain.Service) (domain.Service, error)
	DeleteService(ctx context.Context, providerID, serviceID int64) error
}

type ReviewRepository interface {
	Create(ctx context.Context, review domain.Review) (domain.Review, error)
	Find(ctx context.Context, appointmentID, reviewerID int64) (domain.Review, error)
	ListReceived(ctx context.Context, userID int64) ([]domain.Review, error)
	ListWritten(ctx context.Context, userID int64) ([]domain.Review, error)
}
