package providers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"bookwise/backend/internal/domain"
	"bookwise/backend/internal/store"
)

var ErrForbidden = errors.New("only providers can manage a provider profile")

type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string {
	return e.msg
}

// RatingSource reports a user's average rating and review count. reviews.Service implements it.
type RatingSource interface {
	AverageRating(ctx context.Context, userID int64) (float64, int, error)
}

type Service struct {
	repo    store.ProviderRepository
	ratings RatingSource
	log     *slog.Logger
}

func NewService(repo store.ProviderRepository, ratings RatingSource, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{repo: repo, ratings: ratings, log: log.With(slog.String("component", "providers"))}
}

// Provider returns the provider's profile. Non-provider users are reported as not found.
func (s *Service) Provider(ctx context.Context, providerID int64) (domain.User, error) {
	u, err := s.repo.GetUser(ctx, providerID)
	if err != nil {
		return domain.User{}, err
	}
	if u.Role != domain.RoleProvider {
		return domain.User{}, store.ErrNotFound
	}
	return u, nil
}

// UpdateAvailability replaces the caller's weekly schedule. Keys are
// normalized to lowercase weekday names; hours are stored as given.
func (s *Service) UpdateAvailability(ctx context.Context, caller domain.Identity, availability domain.WeeklyAvailability) (domain.WeeklyAvailability, error) {
	if !caller.IsProvider() {
		return nil, ErrForbidden
	}

	normalized := make(domain.WeeklyAvailability, len(availability))
	for key, day := range availability {
		name := strings.ToLower(strings.TrimSpace(key))
		if !domain.IsWeekdayName(name) {
			return nil, &ValidationError{msg: fmt.Sprintf("unknown weekday %q", key)}
		}
		if _, dup := normalized[name]; dup {
			return nil, &ValidationError{msg: fmt.Sprintf("weekday %q given twice", name)}
		}
		normalized[name] = domain.DayAvailability{
			Enabled: day.Enabled,
			Start:   strings.TrimSpace(day.Start),
			End:     strings.TrimSpace(day.End),
		}
	}

	if err := s.repo.UpdateAvailability(ctx, caller.UserID, normalized); err != nil {
		return nil, err
	}
	s.log.Info("availability updated", slog.Int64("provider_id", caller.UserID), slog.Int("days", len(normalized)))
	return normalized, nil
}

type AddServiceInput struct {
	Name        string
	Cost        *float64
	Currency    string
	Description string
	ImageURL    *string
}

func (s *Service) AddService(ctx context.Context, caller domain.Identity, in AddServiceInput) (domain.Service, error) {
	if !caller.IsProvider() {
		return domain.Service{}, ErrForbidden
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return domain.Service{}, &ValidationError{msg: "name is required"}
	}
	if in.Cost == nil {
		return domain.Service{}, &ValidationError{msg: "cost is required"}
	}
	if *in.Cost < 0 || math.IsNaN(*in.Cost) || math.IsInf(*in.Cost, 0) {
		return domain.Service{}, &ValidationError{msg: "cost must be a non-negative number"}
	}

	currency := strings.ToUpper(strings.TrimSpace(in.Currency))
	if currency == "" {
		currency = domain.DefaultCurrency
	}

	out, err := s.repo.AddService(ctx, domain.Service{
		ProviderID:  caller.UserID,
		Name:        name,
		Cost:        *in.Cost,
		Currency:    currency,
		Description: strings.TrimSpace(in.Description),
		ImageURL:    in.ImageURL,
	})
	if err != nil {
		return domain.Service{}, err
	}
	s.log.Info("service added", slog.Int64("provider_id", caller.UserID), slog.Int64("service_id", out.ID))
	return out, nil
}

func (s *Service) DeleteService(ctx context.Context, caller domain.Identity, serviceID int64) error {
	if !caller.IsProvider() {
		return ErrForbidden
	}
	if err := s.repo.DeleteService(ctx, caller.UserID, serviceID); err != nil {
		return err
	}
	s.log.Info("service deleted", slog.Int64("provider_id", caller.UserID), slog.Int64("service_id", serviceID))
	return nil
}

type RatedProvider struct {
	Provider      domain.User
	AverageRating float64
	ReviewCount   int
}

// PriceRange spans the costs of every service offered in a category.
// Currency is empty when the services are priced in more than one currency.
type PriceRange struct {
	Min      float64
	Max      float64
	Currency string
}

type Listing struct {
	Category  string
	Providers []RatedProvider
	// PriceRange is nil when no provider in the category offers a service.
	PriceRange *PriceRange
}

// Browse lists the providers of a service category with their ratings and
// the category's price range.
func (s *Service) Browse(ctx context.Context, category string) (Listing, error) {
	category = strings.ToLower(strings.TrimSpace(category))
	if category == "" {
		return Listing{}, &ValidationError{msg: "category is required"}
	}

	users, err := s.repo.ListByCategory(ctx, category)
	if err != nil {
		return Listing{}, err
	}

	out := Listing{Category: category, Providers: make([]RatedProvider, 0, len(users))}
	for _, u := range users {
		entry := RatedProvider{Provider: u}
		if s.ratings != nil {
			avg, count, err := s.ratings.AverageRating(ctx, u.ID)
			if err != nil {
				return Listing{}, fmt.Errorf("rating for provider %d: %w", u.ID, err)
			}
			entry.AverageRating, entry.ReviewCount = avg, count
		}
		out.Providers = append(out.Providers, entry)
	}
	out.PriceRange = priceRange(users)
	return out, nil
}

func priceRange(users []domain.User) *PriceRange {
	var pr *PriceRange
	for _, u := range users {
		for _, svc := range u.Services {
			if pr == nil {
				pr = &PriceRange{Min: svc.Cost, Max: svc.Cost, Currency: svc.Currency}
				continue
			}
			pr.Min = math.Min(pr.Min, svc.Cost)
			pr.Max = math.Max(pr.Max, svc.Cost)
			if pr.Currency != svc.Currency {
				pr.Currency = ""
			}
		}
	}
	return pr
}
