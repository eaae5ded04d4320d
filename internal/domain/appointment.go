package domain

import (
	"context"
	"time"

	"github.com/uptrace/bun"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusDeclined  Status = "declined"
	StatusCompleted Status = "completed"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusDeclined, StatusCompleted:
		return true
	default:
		return false
	}
}

// Terminal reports whether no further status change is allowed.
func (s Status) Terminal() bool {
	return s == StatusDeclined || s == StatusCompleted
}

type Appointment struct {
	bun.BaseModel `bun:"table:appointments"`

	ID          int64      `bun:"id,pk"`
	Type        string     `bun:"type,notnull"`
	DateTime    time.Time  `bun:"scheduled_at,notnull"`
	Notes       string     `bun:"notes"`
	UserID      int64      `bun:"user_id,notnull"`
	ProviderID  *int64     `bun:"provider_id"`
	ServiceID   *int64     `bun:"service_id"`
	ServiceName *string    `bun:"service_name"`
	ServiceCost *float64   `bun:"service_cost"`
	Status      Status     `bun:"status,notnull"`
	CreatedAt   time.Time  `bun:"created_at,notnull"`
	CompletedAt *time.Time `bun:"completed_at"`
}

func (a *Appointment) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	switch query.(type) {
	case *bun.InsertQuery:
		if a.CreatedAt.IsZero() {
			a.CreatedAt = Naive(time.Now())
		}
		if a.Status == "" {
			a.Status = StatusPending
		}
	}
	return nil
}

// BoundTo reports whether the appointment is scoped to the given provider.
func (a Appointment) BoundTo(providerID int64) bool {
	return a.ProviderID != nil && *a.ProviderID == providerID
}

// HasParticipant reports whether userID is the consumer or the bound provider.
func (a Appointment) HasParticipant(userID int64) bool {
	return a.UserID == userID || a.BoundTo(userID)
}

// Counterpart returns the other participant of the appointment, as seen from userID.
func (a Appointment) Counterpart(userID int64) (int64, bool) {
	switch {
	case a.UserID == userID:
		if a.ProviderID == nil {
			return 0, false
		}
		return *a.ProviderID, true
	case a.BoundTo(userID):
		return a.UserID, true
	default:
		return 0, false
	}
}

// SameSlot reports whether two appointments occupy the same instant. Only
// exact equality counts; adjacent minutes never collide.
func SameSlot(a, b time.Time) bool {
	return a.Equal(b)
}

// ServiceSnapshot is the denormalized copy of a provider service taken at booking time.
type ServiceSnapshot struct {
	ID   int64
	Name string
	Cost *float64
}

var AppointmentTypes = map[string]string{
	"hair":     "Hair Salon",
	"nails":    "Nail Salon",
	"massage":  "Massage Therapy",
	"training": "Personal Training",
	"spa":      "Spa Treatment",
	"other":    "Other",
}

// TypeLabel resolves a short type key to its display label. Unknown keys are
// returned unchanged so free-text types survive.
func TypeLabel(key string) string {
	if label, ok := AppointmentTypes[key]; ok {
		return label
	}
	return key
}
