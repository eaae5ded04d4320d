package grpc

import (
	"context"
	"log/slog"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"bookwise/backend/internal/domain"
	"bookwise/backend/internal/service/scheduling"
	"bookwise/backend/internal/store"
)

type SchedulingServer struct {
	engine    schedulingEngine
	providers providerDirectory
	users     store.UserDirectory
	log       *slog.Logger
}

type schedulingEngine interface {
	Create(ctx context.Context, in scheduling.CreateInput) (domain.Appointment, error)
	List(ctx context.Context, dateFilter string) []domain.Appointment
	Get(ctx context.Context, id int64) (domain.Appointment, error)
	ListForProvider(ctx context.Context, providerID int64) []domain.Appointment
	ListForUser(ctx context.Context, userID int64) []domain.Appointment
	Types() map[string]string
	CancelAs(ctx context.Context, caller domain.Identity, id int64) error
	Confirm(ctx context.Context, caller domain.Identity, id int64) (domain.Appointment, error)
	Decline(ctx context.Context, caller domain.Identity, id int64) (domain.Appointment, error)
	Complete(ctx context.Context, caller domain.Identity, id int64) (domain.Appointment, error)
}

type providerDirectory interface {
	Provider(ctx context.Context, providerID int64) (domain.User, error)
}

func NewSchedulingServer(engine schedulingEngine, providers providerDirectory, users store.UserDirectory, log *slog.Logger) *SchedulingServer {
	if log == nil {
		log = slog.Default()
	}
	return &SchedulingServer{
		engine:    engine,
		providers: providers,
		users:     users,
		log:       log.With(slog.String("component", "grpc.scheduling")),
	}
}

// CreateAppointment books for the caller. With a provider, the provider's
// availability and the chosen service are read fresh for this request.
func (s *SchedulingServer) CreateAppointment(ctx context.Context, req *CreateAppointmentRequest) (*AppointmentResponse, error) {
	log := s.log.With(slog.String("rpc", "CreateAppointment"))

	who, err := caller(ctx, s.users, log)
	if err != nil {
		return nil, err
	}
	if req.ServiceID != nil && req.ProviderID == nil {
		log.Warn("invalid request", slog.String("reason", "service_without_provider"), slog.Int64("user_id", who.UserID))
		return nil, status.Error(codes.InvalidArgument, "service_id requires provider_id")
	}

	in := scheduling.CreateInput{
		Type:       req.Type,
		Date:       req.Date,
		Time:       req.Time,
		Notes:      req.Notes,
		UserID:     who.UserID,
		ProviderID: req.ProviderID,
	}

	if req.ProviderID != nil {
		provider, err := s.providers.Provider(ctx, *req.ProviderID)
		if err != nil {
			return nil, toStatus(log, err, slog.Int64("provider_id", *req.ProviderID))
		}
		in.Availability = provider.Availability
		if in.Availability == nil {
			in.Availability = domain.WeeklyAvailability{}
		}
		if req.ServiceID != nil {
			svc, ok := provider.Service(*req.ServiceID)
			if !ok {
				log.Info("service not found", slog.Int64("provider_id", provider.ID), slog.Int64("service_id", *req.ServiceID))
				return nil, status.Error(codes.NotFound, "service not found")
			}
			snap := svc.Snapshot()
			in.Service = &snap
		}
	}

	appt, err := s.engine.Create(ctx, in)
	if err != nil {
		return nil, toStatus(log, err, slog.Int64("user_id", who.UserID), slog.String("date", req.Date), slog.String("time", req.Time))
	}
	return &AppointmentResponse{Appointment: toAppointment(appt)}, nil
}

func (s *SchedulingServer) ListAppointments(ctx context.Context, req *ListAppointmentsRequest) (*ListAppointmentsResponse, error) {
	appts := s.engine.List(ctx, req.Date)
	s.log.Debug("appointments listed", slog.String("rpc", "ListAppointments"), slog.String("date", req.Date), slog.Int("count", len(appts)))
	return &ListAppointmentsResponse{Appointments: toAppointments(appts)}, nil
}

func (s *SchedulingServer) GetAppointment(ctx context.Context, req *AppointmentIDRequest) (*AppointmentResponse, error) {
	appt, err := s.engine.Get(ctx, req.AppointmentID)
	if err != nil {
		return nil, toStatus(s.log.With(slog.String("rpc", "GetAppointment")), err, slog.Int64("appointment_id", req.AppointmentID))
	}
	return &AppointmentResponse{Appointment: toAppointment(appt)}, nil
}

// ListMyAppointments returns a provider's bookings, or a consumer's own.
func (s *SchedulingServer) ListMyAppointments(ctx context.Context, _ *Empty) (*ListAppointmentsResponse, error) {
	who, err := caller(ctx, s.users, s.log.With(slog.String("rpc", "ListMyAppointments")))
	if err != nil {
		return nil, err
	}
	var appts []domain.Appointment
	if who.IsProvider() {
		appts = s.engine.ListForProvider(ctx, who.UserID)
	} else {
		appts = s.engine.ListForUser(ctx, who.UserID)
	}
	return &ListAppointmentsResponse{Appointments: toAppointments(appts)}, nil
}

func (s *SchedulingServer) ListAppointmentTypes(ctx context.Context, _ *Empty) (*ListAppointmentTypesResponse, error) {
	return &ListAppointmentTypesResponse{Types: s.engine.Types()}, nil
}

func (s *SchedulingServer) CancelAppointment(ctx context.Context, req *AppointmentIDRequest) (*Empty, error) {
	log := s.log.With(slog.String("rpc", "CancelAppointment"))
	who, err := caller(ctx, s.users, log)
	if err != nil {
		return nil, err
	}
	if err := s.engine.CancelAs(ctx, who, req.AppointmentID); err != nil {
		return nil, toStatus(log, err, slog.Int64("appointment_id", req.AppointmentID), slog.Int64("caller_id", who.UserID))
	}
	return &Empty{}, nil
}

func (s *SchedulingServer) ConfirmAppointment(ctx context.Context, req *AppointmentIDRequest) (*AppointmentResponse, error) {
	return s.transition(ctx, "ConfirmAppointment", req, s.engine.Confirm)
}

func (s *SchedulingServer) DeclineAppointment(ctx context.Context, req *AppointmentIDRequest) (*AppointmentResponse, error) {
	return s.transition(ctx, "DeclineAppointment", req, s.engine.Decline)
}

func (s *SchedulingServer) CompleteAppointment(ctx context.Context, req *AppointmentIDRequest) (*AppointmentResponse, error) {
	return s.transition(ctx, "CompleteAppointment", req, s.engine.Complete)
}

func (s *SchedulingServer) transition(
	ctx context.Context,
	rpc string,
	req *AppointmentIDRequest,
	apply func(ctx context.Context, caller domain.Identity, id int64) (domain.Appointment, error),
) (*AppointmentResponse, error) {
	log := s.log.With(slog.String("rpc", rpc))
	who, err := caller(ctx, s.users, log)
	if err != nil {
		return nil, err
	}
	appt, err := apply(ctx, who, req.AppointmentID)
	if err != nil {
		return nil, toStatus(log, err, slog.Int64("appointment_id", req.AppointmentID), slog.Int64("caller_id", who.UserID))
	}
	return &AppointmentResponse{Appointment: toAppointment(appt)}, nil
}
