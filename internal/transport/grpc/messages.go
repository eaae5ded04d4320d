package grpc

import (
	"bookwise/backend/internal/domain"
)

type Appointment struct {
	ID          int64    `json:"id"`
	Type        string   `json:"type"`
	DateTime    string   `json:"datetime"`
	Notes       string   `json:"notes"`
	UserID      int64    `json:"user_id"`
	ProviderID  *int64   `json:"provider_id"`
	ServiceID   *int64   `json:"service_id,omitempty"`
	ServiceName *string  `json:"service_name,omitempty"`
	ServiceCost *float64 `json:"service_cost,omitempty"`
	Status      string   `json:"status"`
	CreatedAt   string   `json:"created_at"`
	CompletedAt *string  `json:"completed_at,omitempty"`
}

type CreateAppointmentRequest struct {
	Type       string `json:"type"`
	Date       string `json:"date"`
	Time       string `json:"time"`
	Notes      string `json:"notes"`
	ProviderID *int64 `json:"provider_id,omitempty"`
	ServiceID  *int64 `json:"service_id,omitempty"`
}

type AppointmentResponse struct {
	Appointment Appointment `json:"appointment"`
}

type ListAppointmentsRequest struct {
	Date string `json:"date,omitempty"`
}

type ListAppointmentsResponse struct {
	Appointments []Appointment `json:"appointments"`
}

type AppointmentIDRequest struct {
	AppointmentID int64 `json:"appointment_id"`
}

type Empty struct{}

type ListAppointmentTypesResponse struct {
	Types map[string]string `json:"types"`
}

type Service struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Cost        float64 `json:"cost"`
	Currency    string  `json:"currency"`
	Description string  `json:"description,omitempty"`
	ImageURL    *string `json:"image_url,omitempty"`
}

type Provider struct {
	ID              int64                     `json:"id"`
	Name            string                    `json:"name"`
	ServiceCategory string                    `json:"service_category,omitempty"`
	Availability    domain.WeeklyAvailability `json:"availability"`
	Services        []Service                 `json:"services"`
}

type GetProviderRequest struct {
	ProviderID int64 `json:"provider_id"`
}

type ProviderResponse struct {
	Provider Provider `json:"provider"`
}

type ListProvidersRequest struct {
	Category string `json:"category"`
}

type RatedProvider struct {
	Provider      Provider `json:"provider"`
	AverageRating float64  `json:"average_rating"`
	TotalReviews  int      `json:"total_reviews"`
}

type PriceRange struct {
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Currency string  `json:"currency,omitempty"`
}

type ListProvidersResponse struct {
	Category   string          `json:"category"`
	Providers  []RatedProvider `json:"providers"`
	PriceRange *PriceRange     `json:"price_range,omitempty"`
}

type UpdateAvailabilityRequest struct {
	Availability domain.WeeklyAvailability `json:"availability"`
}

type UpdateAvailabilityResponse struct {
	Availability domain.WeeklyAvailability `json:"availability"`
}

type AddServiceRequest struct {
	Name        string   `json:"name"`
	Cost        *float64 `json:"cost"`
	Currency    string   `json:"currency,omitempty"`
	Description string   `json:"description,omitempty"`
	ImageURL    *string  `json:"image_url,omitempty"`
}

type ServiceResponse struct {
	Service Service `json:"service"`
}

type DeleteServiceRequest struct {
	ServiceID int64 `json:"service_id"`
}

type Review struct {
	ID            int64  `json:"id"`
	AppointmentID int64  `json:"appointment_id"`
	ReviewerID    int64  `json:"reviewer_id"`
	ReviewedID    int64  `json:"reviewed_id"`
	Rating        int    `json:"rating"`
	Comment       string `json:"comment"`
	CreatedAt     string `json:"created_at"`
}

type SubmitReviewRequest struct {
	AppointmentID int64  `json:"appointment_id"`
	Rating        int    `json:"rating"`
	Comment       string `json:"comment"`
}

type ReviewResponse struct {
	Review Review `json:"review"`
}

type CanReviewResponse struct {
	CanReview bool `json:"can_review"`
}

type UserIDRequest struct {
	UserID int64 `json:"user_id"`
}

type ListReviewsResponse struct {
	Reviews []Review `json:"reviews"`
}

type RatingResponse struct {
	UserID  int64   `json:"user_id"`
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}

func toAppointment(a domain.Appointment) Appointment {
	out := Appointment{
		ID:          a.ID,
		Type:        a.Type,
		DateTime:    domain.FormatISO(a.DateTime),
		Notes:       a.Notes,
		UserID:      a.UserID,
		ProviderID:  a.ProviderID,
		ServiceID:   a.ServiceID,
		ServiceName: a.ServiceName,
		ServiceCost: a.ServiceCost,
		Status:      string(a.Status),
		CreatedAt:   domain.FormatISO(a.CreatedAt),
	}
	if a.CompletedAt != nil {
		s := domain.FormatISO(*a.CompletedAt)
		out.CompletedAt = &s
	}
	return out
}

func toAppointments(appts []domain.Appointment) []Appointment {
	out := make([]Appointment, 0, len(appts))
	for _, a := range appts {
		out = append(out, toAppointment(a))
	}
	return out
}

func toService(s domain.Service) Service {
	return Service{
		ID:          s.ID,
		Name:        s.Name,
		Cost:        s.Cost,
		Currency:    s.Currency,
		Description: s.Description,
		ImageURL:    s.ImageURL,
	}
}

func toProvider(u domain.User) Provider {
	services := make([]Service, 0, len(u.Services))
	for _, s := range u.Services {
		services = append(services, toService(s))
	}
	availability := u.Availability
	if availability == nil {
		availability = domain.WeeklyAvailability{}
	}
	return Provider{ID: u.ID, Name: u.Name, ServiceCategory: u.ServiceCategory, Availability: availability, Services: services}
}

func toReviews(rows []domain.Review) []Review {
	out := make([]Review, 0, len(rows))
	for _, r := range rows {
		out = append(out, Review{
			ID:            r.ID,
			AppointmentID: r.AppointmentID,
			ReviewerID:    r.ReviewerID,
			ReviewedID:    r.ReviewedID,
			Rating:        r.Rating,
			Comment:       r.Comment,
			CreatedAt:     domain.FormatISO(r.CreatedAt),
		})
	}
	return out
}
