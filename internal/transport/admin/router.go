// Package admin serves the operator HTTP surface: probes, metrics, and
// token-guarded maintenance of the appointment collection.
package admin

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"bookwise/backend/internal/domain"
)

// ReadyCheck is a named dependency check for /readyz.
type ReadyCheck struct {
	Name  string
	Check func(context.Context) error
}

type appointmentAdmin interface {
	List(ctx context.Context, dateFilter string) []domain.Appointment
	Cancel(ctx context.Context, id int64) (bool, error)
}

type Config struct {
	Appointments appointmentAdmin
	Metrics      http.Handler
	Checks       []ReadyCheck
	// Token guards /admin routes; empty disables them.
	Token  string
	Logger *slog.Logger
}

func NewRouter(cfg Config) http.Handler {
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	log = log.With(slog.String("component", "http.admin"))

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeText(w, http.StatusOK, "ok")
	})
	r.Get("/readyz", readyHandler(cfg.Checks))
	if cfg.Metrics != nil {
		r.Handle("/metrics", cfg.Metrics)
	}

	if cfg.Token != "" && cfg.Appointments != nil {
		h := &appointmentsHandler{appts: cfg.Appointments, log: log}
		r.Route("/admin/appointments", func(r chi.Router) {
			r.Use(requireToken(cfg.Token))
			r.Get("/", h.list)
			r.Delete("/{id}", h.cancel)
		})
	}
	return r
}

func readyHandler(checks []ReadyCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var failures []string
		for _, check := range checks {
			if check.Check == nil {
				continue
			}
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			err := check.Check(ctx)
			cancel()
			if err != nil {
				name := check.Name
				if name == "" {
					name = "dependency"
				}
				failures = append(failures, name+": "+err.Error())
			}
		}
		if len(failures) > 0 {
			writeText(w, http.StatusServiceUnavailable, strings.Join(failures, "; "))
			return
		}
		writeText(w, http.StatusOK, "ok")
	}
}

func requireToken(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := r.Header.Get("X-Admin-Token")
			if subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

type appointmentsHandler struct {
	appts appointmentAdmin
	log   *slog.Logger
}

type appointmentView struct {
	ID         int64  `json:"id"`
	Type       string `json:"type"`
	DateTime   string `json:"datetime"`
	UserID     int64  `json:"user_id"`
	ProviderID *int64 `json:"provider_id"`
	Status     string `json:"status"`
}

func (h *appointmentsHandler) list(w http.ResponseWriter, r *http.Request) {
	appts := h.appts.List(r.Context(), r.URL.Query().Get("date"))
	out := make([]appointmentView, 0, len(appts))
	for _, a := range appts {
		out = append(out, appointmentView{
			ID:         a.ID,
			Type:       a.Type,
			DateTime:   domain.FormatISO(a.DateTime),
			UserID:     a.UserID,
			ProviderID: a.ProviderID,
			Status:     string(a.Status),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"appointments": out})
}

func (h *appointmentsHandler) cancel(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "id must be a positive integer"})
		return
	}
	deleted, err := h.appts.Cancel(r.Context(), id)
	if err != nil {
		h.log.Error("admin cancel failed", slog.Any("err", err), slog.Int64("appointment_id", id))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}
	if !deleted {
		writeJSON(w, http.StatusNotFound, map[string]any{"deleted": false})
		return
	}
	h.log.Info("appointment removed by operator", slog.Int64("appointment_id", id), slog.String("request_id", middleware.GetReqID(r.Context())))
	writeJSON(w, http.StatusOK, map[string]any{"deleted": true})
}

func writeText(w http.ResponseWriter, code int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(code)
	_, _ = w.Write([]byte(body))
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
