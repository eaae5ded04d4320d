package scheduling

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"bookwise/backend/internal/domain"
	"bookwise/backend/internal/store"
)

var tracer = otel.Tracer("bookwise/scheduling")

// Recorder receives booking and transition outcomes. metrics.SchedulingMetrics implements it.
type Recorder interface {
	ObserveBooking(result string)
	ObserveTransition(transition, result string)
}

type Option func(*Engine)

func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

func WithLogger(log *slog.Logger) Option {
	return func(e *Engine) {
		if log != nil {
			e.log = log
		}
	}
}

func WithRecorder(r Recorder) Option {
	return func(e *Engine) {
		e.recorder = r
	}
}

// Engine owns the appointment collection. All operations hold one mutex for
// their whole read-modify-persist cycle.
type Engine struct {
	mu     sync.Mutex
	repo   store.AppointmentStore
	appts  []domain.Appointment
	lastID int64

	now      func() time.Time
	log      *slog.Logger
	recorder Recorder
}

// NewEngine loads the persisted collection once. A corrupt collection is
// returned as a *store.CorruptRecordError.
func NewEngine(ctx context.Context, repo store.AppointmentStore, opts ...Option) (*Engine, error) {
	e := &Engine{
		repo: repo,
		now:  time.Now,
		log:  slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.log = e.log.With(slog.String("component", "scheduling.engine"))

	snap, err := repo.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load appointments: %w", err)
	}
	e.appts = append([]domain.Appointment(nil), snap.Appointments...)
	e.lastID = snap.MaxID()

	e.log.Info("appointments loaded", slog.Int("count", len(e.appts)), slog.Int64("last_id", e.lastID))
	return e, nil
}

type CreateInput struct {
	Type   string
	Date   string
	Time   string
	Notes  string
	UserID int64

	ProviderID *int64
	// Availability is the provider's schedule as read by the caller for this
	// request; nil skips the availability check.
	Availability domain.WeeklyAvailability
	Service      *domain.ServiceSnapshot
}

func (e *Engine) Create(ctx context.Context, in CreateInput) (domain.Appointment, error) {
	ctx, span := tracer.Start(ctx, "scheduling.Create", trace.WithAttributes(attribute.Int64("user_id", in.UserID)))
	defer span.End()

	appt, err := e.create(ctx, in)
	e.observeBooking(err)
	if err != nil {
		span.SetAttributes(attribute.String("rejection", Reason(err)))
	}
	return appt, err
}

func (e *Engine) create(ctx context.Context, in CreateInput) (domain.Appointment, error) {
	if in.UserID <= 0 {
		return domain.Appointment{}, validationError("user_id is required")
	}
	at, err := domain.ParseDateTime(in.Date, in.Time)
	if err != nil {
		return domain.Appointment{}, validationError("date must be YYYY-MM-DD and time HH:MM")
	}

	if in.ProviderID != nil && in.Availability != nil {
		decision := in.Availability.Evaluate(at)
		if decision.Reason == domain.AvailabilityMalformedHours {
			e.log.Warn(
				"provider availability is malformed; admitting booking",
				slog.Int64("provider_id", *in.ProviderID),
				slog.String("weekday", domain.WeekdayName(at.Weekday())),
			)
		}
		if !decision.Admitted {
			return domain.Appointment{}, ErrOutsideAvailability
		}
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.hasConflict(at, in.ProviderID) {
		return domain.Appointment{}, store.ErrConflict
	}

	appt := domain.Appointment{
		ID:         e.lastID + 1,
		Type:       domain.TypeLabel(strings.TrimSpace(in.Type)),
		DateTime:   at,
		Notes:      in.Notes,
		UserID:     in.UserID,
		ProviderID: copyInt64(in.ProviderID),
		Status:     domain.StatusPending,
		CreatedAt:  domain.Naive(e.now()),
	}
	if in.Service != nil {
		id := in.Service.ID
		name := in.Service.Name
		appt.ServiceID = &id
		appt.ServiceName = &name
		if in.Service.Cost != nil {
			cost := *in.Service.Cost
			appt.ServiceCost = &cost
		}
	}

	next := make([]domain.Appointment, len(e.appts), len(e.appts)+1)
	copy(next, e.appts)
	next = append(next, appt)
	if err := e.commit(ctx, next, appt.ID); err != nil {
		return domain.Appointment{}, err
	}

	e.log.Info(
		"appointment created",
		slog.Int64("appointment_id", appt.ID),
		slog.Int64("user_id", appt.UserID),
		slog.Time("datetime", appt.DateTime),
	)
	return appt, nil
}

// hasConflict checks the exact-datetime rule. With a provider the scope is
// that provider's appointments; without one it is every appointment.
func (e *Engine) hasConflict(at time.Time, providerID *int64) bool {
	for _, existing := range e.appts {
		if providerID != nil && !existing.BoundTo(*providerID) {
			continue
		}
		if domain.SameSlot(existing.DateTime, at) {
			return true
		}
	}
	return false
}

// List returns every appointment sorted by datetime, or only those on
// dateFilter (YYYY-MM-DD). A malformed filter matches nothing.
func (e *Engine) List(ctx context.Context, dateFilter string) []domain.Appointment {
	e.mu.Lock()
	defer e.mu.Unlock()

	if strings.TrimSpace(dateFilter) == "" {
		return sortedCopy(e.appts, nil)
	}
	day, err := domain.ParseDate(dateFilter)
	if err != nil {
		return []domain.Appointment{}
	}
	return sortedCopy(e.appts, func(a domain.Appointment) bool {
		return domain.SameDate(a.DateTime, day)
	})
}

func (e *Engine) ListForProvider(ctx context.Context, providerID int64) []domain.Appointment {
	e.mu.Lock()
	defer e.mu.Unlock()

	return sortedCopy(e.appts, func(a domain.Appointment) bool {
		return a.BoundTo(providerID)
	})
}

func (e *Engine) ListForUser(ctx context.Context, userID int64) []domain.Appointment {
	e.mu.Lock()
	defer e.mu.Unlock()

	return sortedCopy(e.appts, func(a domain.Appointment) bool {
		return a.UserID == userID
	})
}

func (e *Engine) Get(ctx context.Context, id int64) (domain.Appointment, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	i := e.indexOf(id)
	if i < 0 {
		return domain.Appointment{}, store.ErrNotFound
	}
	return e.appts[i], nil
}

// Types returns the type key to label table.
func (e *Engine) Types() map[string]string {
	out := make(map[string]string, len(domain.AppointmentTypes))
	for k, v := range domain.AppointmentTypes {
		out[k] = v
	}
	return out
}

// Cancel removes the appointment outright and reports whether it existed.
func (e *Engine) Cancel(ctx context.Context, id int64) (bool, error) {
	ctx, span := tracer.Start(ctx, "scheduling.Cancel", trace.WithAttributes(attribute.Int64("appointment_id", id)))
	defer span.End()

	e.mu.Lock()
	defer e.mu.Unlock()

	i := e.indexOf(id)
	if i < 0 {
		return false, nil
	}
	if err := e.commit(ctx, without(e.appts, i), e.lastID); err != nil {
		return false, err
	}
	e.log.Info("appointment cancelled", slog.Int64("appointment_id", id))
	return true, nil
}

// CancelAs cancels on behalf of a participant. Completed appointments stay.
func (e *Engine) CancelAs(ctx context.Context, caller domain.Identity, id int64) error {
	ctx, span := tracer.Start(ctx, "scheduling.CancelAs", trace.WithAttributes(attribute.Int64("appointment_id", id)))
	defer span.End()

	e.mu.Lock()
	defer e.mu.Unlock()

	err := e.cancelAs(ctx, caller, id)
	e.observeTransition("cancel", err)
	return err
}

func (e *Engine) cancelAs(ctx context.Context, caller domain.Identity, id int64) error {
	i := e.indexOf(id)
	if i < 0 {
		return store.ErrNotFound
	}
	appt := e.appts[i]
	if !appt.HasParticipant(caller.UserID) {
		return ErrForbidden
	}
	if appt.Status == domain.StatusCompleted {
		return invalidTransition("completed appointments cannot be cancelled")
	}
	if err := e.commit(ctx, without(e.appts, i), e.lastID); err != nil {
		return err
	}
	e.log.Info("appointment cancelled", slog.Int64("appointment_id", id), slog.Int64("caller_id", caller.UserID))
	return nil
}

func (e *Engine) Confirm(ctx context.Context, caller domain.Identity, id int64) (domain.Appointment, error) {
	return e.transition(ctx, "confirm", caller, id, func(a *domain.Appointment, _ time.Time) error {
		if a.Status != domain.StatusPending {
			return invalidTransition("only pending appointments can be confirmed")
		}
		a.Status = domain.StatusConfirmed
		return nil
	})
}

func (e *Engine) Decline(ctx context.Context, caller domain.Identity, id int64) (domain.Appointment, error) {
	return e.transition(ctx, "decline", caller, id, func(a *domain.Appointment, _ time.Time) error {
		if a.Status != domain.StatusPending {
			return invalidTransition("only pending appointments can be declined")
		}
		a.Status = domain.StatusDeclined
		return nil
	})
}

// Complete is the only transition gated by the clock: the scheduled time must have been reached.
func (e *Engine) Complete(ctx context.Context, caller domain.Identity, id int64) (domain.Appointment, error) {
	return e.transition(ctx, "complete", caller, id, func(a *domain.Appointment, now time.Time) error {
		if a.Status != domain.StatusConfirmed {
			return invalidTransition("only confirmed appointments can be completed")
		}
		if now.Before(a.DateTime) {
			return invalidTransition("appointment cannot be completed before its scheduled time")
		}
		a.Status = domain.StatusCompleted
		a.CompletedAt = &now
		return nil
	})
}

func (e *Engine) transition(ctx context.Context, name string, caller domain.Identity, id int64, apply func(a *domain.Appointment, now time.Time) error) (domain.Appointment, error) {
	ctx, span := tracer.Start(ctx, "scheduling."+name, trace.WithAttributes(
		attribute.Int64("appointment_id", id),
		attribute.Int64("caller_id", caller.UserID),
	))
	defer span.End()

	e.mu.Lock()
	defer e.mu.Unlock()

	appt, err := e.applyTransition(ctx, caller, id, apply)
	e.observeTransition(name, err)
	if err != nil {
		span.SetAttributes(attribute.String("rejection", Reason(err)))
		return domain.Appointment{}, err
	}

	e.log.Info(
		"appointment status changed",
		slog.String("transition", name),
		slog.Int64("appointment_id", appt.ID),
		slog.String("status", string(appt.Status)),
	)
	return appt, nil
}

func (e *Engine) applyTransition(ctx context.Context, caller domain.Identity, id int64, apply func(a *domain.Appointment, now time.Time) error) (domain.Appointment, error) {
	i := e.indexOf(id)
	if i < 0 {
		return domain.Appointment{}, store.ErrNotFound
	}
	if err := authorizeProvider(caller, e.appts[i]); err != nil {
		return domain.Appointment{}, err
	}

	updated := e.appts[i]
	if err := apply(&updated, domain.Naive(e.now())); err != nil {
		return domain.Appointment{}, err
	}

	next := make([]domain.Appointment, len(e.appts))
	copy(next, e.appts)
	next[i] = updated
	if err := e.commit(ctx, next, e.lastID); err != nil {
		return domain.Appointment{}, err
	}
	return updated, nil
}

// commit persists next and swaps it in only when the save succeeded.
func (e *Engine) commit(ctx context.Context, next []domain.Appointment, lastID int64) error {
	if err := e.repo.SaveAll(ctx, store.Snapshot{Appointments: next, LastID: lastID}); err != nil {
		e.log.Error("appointments save failed", slog.Any("err", err))
		return fmt.Errorf("save appointments: %w", err)
	}
	e.appts = next
	e.lastID = lastID
	return nil
}

func (e *Engine) indexOf(id int64) int {
	for i, a := range e.appts {
		if a.ID == id {
			return i
		}
	}
	return -1
}

func (e *Engine) observeBooking(err error) {
	if e.recorder == nil {
		return
	}
	e.recorder.ObserveBooking(Reason(err))
}

func (e *Engine) observeTransition(name string, err error) {
	if e.recorder == nil {
		return
	}
	e.recorder.ObserveTransition(name, Reason(err))
}

func sortedCopy(appts []domain.Appointment, keep func(domain.Appointment) bool) []domain.Appointment {
	out := make([]domain.Appointment, 0, len(appts))
	for _, a := range appts {
		if keep == nil || keep(a) {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].DateTime.Equal(out[j].DateTime) {
			return out[i].ID < out[j].ID
		}
		return out[i].DateTime.Before(out[j].DateTime)
	})
	return out
}

func without(appts []domain.Appointment, i int) []domain.Appointment {
	out := make([]domain.Appointment, 0, len(appts)-1)
	out = append(out, appts[:i]...)
	return append(out, appts[i+1:]...)
}

func copyInt64(v *int64) *int64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
