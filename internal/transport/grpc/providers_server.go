package grpc

import (
	"context"
	"log/slog"

	"bookwise/backend/internal/domain"
	"bookwise/backend/internal/service/providers"
	"bookwise/backend/internal/store"
)

type ProviderServer struct {
	svc   providerService
	users store.UserDirectory
	log   *slog.Logger
}

type providerService interface {
	Provider(ctx context.Context, providerID int64) (domain.User, error)
	Browse(ctx context.Context, category string) (providers.Listing, error)
	UpdateAvailability(ctx context.Context, caller domain.Identity, availability domain.WeeklyAvailability) (domain.WeeklyAvailability, error)
	AddService(ctx context.Context, caller domain.Identity, in providers.AddServiceInput) (domain.Service, error)
	DeleteService(ctx context.Context, caller domain.Identity, serviceID int64) error
}

func NewProviderServer(svc providerService, users store.UserDirectory, log *slog.Logger) *ProviderServer {
	if log == nil {
		log = slog.Default()
	}
	return &ProviderServer{svc: svc, users: users, log: log.With(slog.String("component", "grpc.providers"))}
}

func (s *ProviderServer) GetProvider(ctx context.Context, req *GetProviderRequest) (*ProviderResponse, error) {
	u, err := s.svc.Provider(ctx, req.ProviderID)
	if err != nil {
		return nil, toStatus(s.log.With(slog.String("rpc", "GetProvider")), err, slog.Int64("provider_id", req.ProviderID))
	}
	return &ProviderResponse{Provider: toProvider(u)}, nil
}

// ListProviders is public: browsing needs no caller identity.
func (s *ProviderServer) ListProviders(ctx context.Context, req *ListProvidersRequest) (*ListProvidersResponse, error) {
	listing, err := s.svc.Browse(ctx, req.Category)
	if err != nil {
		return nil, toStatus(s.log.With(slog.String("rpc", "ListProviders")), err, slog.String("category", req.Category))
	}
	out := &ListProvidersResponse{Category: listing.Category, Providers: make([]RatedProvider, 0, len(listing.Providers))}
	for _, p := range listing.Providers {
		out.Providers = append(out.Providers, RatedProvider{
			Provider:      toProvider(p.Provider),
			AverageRating: p.AverageRating,
			TotalReviews:  p.ReviewCount,
		})
	}
	if pr := listing.PriceRange; pr != nil {
		out.PriceRange = &PriceRange{Min: pr.Min, Max: pr.Max, Currency: pr.Currency}
	}
	return out, nil
}

func (s *ProviderServer) UpdateAvailability(ctx context.Context, req *UpdateAvailabilityRequest) (*UpdateAvailabilityResponse, error) {
	log := s.log.With(slog.String("rpc", "UpdateAvailability"))
	who, err := caller(ctx, s.users, log)
	if err != nil {
		return nil, err
	}
	out, err := s.svc.UpdateAvailability(ctx, who, req.Availability)
	if err != nil {
		return nil, toStatus(log, err, slog.Int64("caller_id", who.UserID))
	}
	return &UpdateAvailabilityResponse{Availability: out}, nil
}

func (s *ProviderServer) AddService(ctx context.Context, req *AddServiceRequest) (*ServiceResponse, error) {
	log := s.log.With(slog.String("rpc", "AddService"))
	who, err := caller(ctx, s.users, log)
	if err != nil {
		return nil, err
	}
	svc, err := s.svc.AddService(ctx, who, providers.AddServiceInput{
		Name:        req.Name,
		Cost:        req.Cost,
		Currency:    req.Currency,
		Description: req.Description,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		return nil, toStatus(log, err, slog.Int64("caller_id", who.UserID))
	}
	return &ServiceResponse{Service: toService(svc)}, nil
}

func (s *ProviderServer) DeleteService(ctx context.Context, req *DeleteServiceRequest) (*Empty, error) {
	log := s.log.With(slog.String("rpc", "DeleteService"))
	who, err := caller(ctx, s.users, log)
	if err != nil {
		return nil, err
	}
	if err := s.svc.DeleteService(ctx, who, req.ServiceID); err != nil {
		return nil, toStatus(log, err, slog.Int64("caller_id", who.UserID), slog.Int64("service_id", req.ServiceID))
	}
	return &Empty{}, nil
}
