package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"

	"bookwise/backend/internal/domain"
	"bookwise/backend/internal/store"
)

const appointmentSequence = "appointments"

type sequenceRow struct {
	bun.BaseModel `bun:"table:appointment_sequence"`

	Name   string `bun:"name,pk"`
	LastID int64  `bun:"last_id,notnull"`
}

// AppointmentRepo stores the appointment collection in the appointments table.
// SaveAll rewrites the table inside one transaction.
type AppointmentRepo struct {
	db *bun.DB
}

func NewAppointmentRepo(db *bun.DB) *AppointmentRepo {
	return &AppointmentRepo{db: db}
}

func (r *AppointmentRepo) LoadAll(ctx context.Context) (store.Snapshot, error) {
	var rows []domain.Appointment
	if err := r.db.NewSelect().Model(&rows).OrderExpr("id ASC").Scan(ctx); err != nil {
		return store.Snapshot{}, err
	}

	seq := sequenceRow{Name: appointmentSequence}
	err := r.db.NewSelect().Model(&seq).WherePK().Scan(ctx)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return store.Snapshot{}, err
	}
	return toSnapshot(rows, seq.LastID)
}

func (r *AppointmentRepo) SaveAll(ctx context.Context, snap store.Snapshot) error {
	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if err := lockCollection(ctx, tx); err != nil {
			return err
		}
		if _, err := tx.NewDelete().Model((*domain.Appointment)(nil)).Where("TRUE").Exec(ctx); err != nil {
			return err
		}
		if len(snap.Appointments) > 0 {
			rows := make([]domain.Appointment, len(snap.Appointments))
			copy(rows, snap.Appointments)
			if _, err := tx.NewInsert().Model(&rows).Exec(ctx); err != nil {
				return err
			}
		}
		seq := sequenceRow{Name: appointmentSequence, LastID: snap.MaxID()}
		_, err := tx.NewInsert().
			Model(&seq).
			On("CONFLICT (name) DO UPDATE").
			Set("last_id = GREATEST(appointment_sequence.last_id, EXCLUDED.last_id)").
			Exec(ctx)
		return err
	})
	return mapWriteError(err)
}

func lockCollection(ctx context.Context, tx bun.Tx) error {
	_, err := tx.NewRaw("SELECT pg_advisory_xact_lock(hashtext(?))", appointmentSequence).Exec(ctx)
	return err
}

// toSnapshot validates rows read back from the table. Timestamps are stored
// without zone, so they are re-normalized to naive values.
func toSnapshot(rows []domain.Appointment, lastID int64) (store.Snapshot, error) {
	snap := store.Snapshot{Appointments: make([]domain.Appointment, 0, len(rows)), LastID: lastID}
	for i, a := range rows {
		if !a.Status.Valid() {
			return store.Snapshot{}, &store.CorruptRecordError{Index: i, Reason: fmt.Sprintf("unknown status %q", a.Status)}
		}
		a.DateTime = domain.Naive(a.DateTime)
		a.CreatedAt = domain.Naive(a.CreatedAt)
		if a.CompletedAt != nil {
			completed := domain.Naive(*a.CompletedAt)
			a.CompletedAt = &completed
		}
		snap.Appointments = append(snap.Appointments, a)
	}
	snap.LastID = snap.MaxID()
	return snap, nil
}
