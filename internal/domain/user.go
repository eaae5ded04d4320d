package domain

import (
	"context"
	"time"

	"github.com/uptrace/bun"
)

type Role string

const (
	RoleConsumer Role = "consumer"
	RoleProvider Role = "provider"
)

// Identity is the caller of a state-changing operation, as resolved by the user directory.
type Identity struct {
	UserID int64
	Role   Role
}

func (i Identity) IsProvider() bool {
	return i.Role == RoleProvider
}

type User struct {
	bun.BaseModel `bun:"table:users"`

	ID              int64              `bun:"id,pk,autoincrement"`
	Role            Role               `bun:"role,notnull"`
	Name            string             `bun:"name,notnull"`
	ServiceCategory string             `bun:"service_category,notnull"`
	Availability    WeeklyAvailability `bun:"availability,type:jsonb"`
	Services        []Service          `bun:"rel:has-many,join:id=provider_id"`
	CreatedAt       time.Time          `bun:"created_at,notnull"`
}

func (u *User) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	switch query.(type) {
	case *bun.InsertQuery:
		if u.CreatedAt.IsZero() {
			u.CreatedAt = time.Now().UTC()
		}
	}
	return nil
}

func (u User) Identity() Identity {
	return Identity{UserID: u.ID, Role: u.Role}
}

// Service finds one of the provider's services by id.
func (u User) Service(id int64) (Service, bool) {
	for _, s := range u.Services {
		if s.ID == id {
			return s, true
		}
	}
	return Service{}, false
}

const DefaultCurrency = "RSD"

type Service struct {
	bun.BaseModel `bun:"table:provider_services"`

	ProviderID  int64     `bun:"provider_id,pk"`
	ID          int64     `bun:"id,pk"`
	Name        string    `bun:"name,notnull"`
	Cost        float64   `bun:"cost,notnull"`
	Currency    string    `bun:"currency,notnull"`
	Description string    `bun:"description"`
	ImageURL    *string   `bun:"image_url"`
	CreatedAt   time.Time `bun:"created_at,notnull"`
}

func (s *Service) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	switch query.(type) {
	case *bun.InsertQuery:
		if s.CreatedAt.IsZero() {
			s.CreatedAt = time.Now().UTC()
		}
		if s.Currency == "" {
			s.Currency = DefaultCurrency
		}
	}
	return nil
}

// Snapshot copies the fields an appointment keeps about the booked service.
func (s Service) Snapshot() ServiceSnapshot {
	cost := s.Cost
	return ServiceSnapshot{ID: s.ID, Name: s.Name, Cost: &cost}
}

type Review struct {
	bun.BaseModel `bun:"table:reviews"`

	ID            int64     `bun:"id,pk,autoincrement"`
	AppointmentID int64     `bun:"appointment_id,notnull"`
	ReviewerID    int64     `bun:"reviewer_id,notnull"`
	ReviewedID    int64     `bun:"reviewed_id,notnull"`
	Rating        int       `bun:"rating,notnull"`
	Comment       string    `bun:"comment"`
	CreatedAt     time.Time `bun:"created_at,notnull"`
}

func (r *Review) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	switch query.(type) {
	case *bun.InsertQuery:
		if r.CreatedAt.IsZero() {
			r.CreatedAt = time.Now().UTC()
		}
	}
	return nil
}
