package store

import (
	"bytes"
	"encoding/json"
	"fmt"

	"bookwise/backend/internal/domain"
)

type appointmentRecord struct {
	ID          int64    `json:"id"`
	Type        string   `json:"type"`
	DateTime    string   `json:"datetime"`
	Notes       string   `json:"notes"`
	UserID      *int64   `json:"user_id"`
	ProviderID  *int64   `json:"provider_id"`
	ServiceID   *int64   `json:"service_id,omitempty"`
	ServiceName *string  `json:"service_name,omitempty"`
	ServiceCost *float64 `json:"service_cost,omitempty"`
	Status      string   `json:"status"`
	CreatedAt   string   `json:"created_at"`
	CompletedAt *string  `json:"completed_at,omitempty"`
}

type snapshotDocument struct {
	LastID       int64               `json:"last_id"`
	Appointments []appointmentRecord `json:"appointments"`
}

// EncodeSnapshot serializes a snapshot with zone-less ISO-8601 date-times.
func EncodeSnapshot(snap Snapshot) ([]byte, error) {
	doc := snapshotDocument{
		LastID:       snap.MaxID(),
		Appointments: make([]appointmentRecord, 0, len(snap.Appointments)),
	}
	for _, a := range snap.Appointments {
		userID := a.UserID
		rec := appointmentRecord{
			ID:          a.ID,
			Type:        a.Type,
			DateTime:    domain.FormatISO(a.DateTime),
			Notes:       a.Notes,
			UserID:      &userID,
			ProviderID:  a.ProviderID,
			ServiceID:   a.ServiceID,
			ServiceName: a.ServiceName,
			ServiceCost: a.ServiceCost,
			Status:      string(a.Status),
			CreatedAt:   domain.FormatISO(a.CreatedAt),
		}
		if a.CompletedAt != nil {
			s := domain.FormatISO(*a.CompletedAt)
			rec.CompletedAt = &s
		}
		doc.Appointments = append(doc.Appointments, rec)
	}
	return json.MarshalIndent(doc, "", "  ")
}

// DecodeSnapshot parses the snapshot document. The legacy format, a bare JSON
// array of appointment records, is accepted too. Empty input is an empty snapshot.
func DecodeSnapshot(data []byte) (Snapshot, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return Snapshot{}, nil
	}

	var doc snapshotDocument
	if trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &doc.Appointments); err != nil {
			return Snapshot{}, &CorruptRecordError{Index: -1, Reason: err.Error()}
		}
	} else if err := json.Unmarshal(trimmed, &doc); err != nil {
		return Snapshot{}, &CorruptRecordError{Index: -1, Reason: err.Error()}
	}

	snap := Snapshot{
		LastID:       doc.LastID,
		Appointments: make([]domain.Appointment, 0, len(doc.Appointments)),
	}
	seen := make(map[int64]struct{}, len(doc.Appointments))
	for i, rec := range doc.Appointments {
		a, err := rec.toDomain()
		if err != nil {
			return Snapshot{}, &CorruptRecordError{Index: i, Reason: err.Error()}
		}
		if _, dup := seen[a.ID]; dup {
			return Snapshot{}, &CorruptRecordError{Index: i, Reason: fmt.Sprintf("duplicate id %d", a.ID)}
		}
		seen[a.ID] = struct{}{}
		snap.Appointments = append(snap.Appointments, a)
	}
	snap.LastID = snap.MaxID()
	return snap, nil
}

func (r appointmentRecord) toDomain() (domain.Appointment, error) {
	if r.ID <= 0 {
		return domain.Appointment{}, fmt.Errorf("invalid id %d", r.ID)
	}
	if r.UserID == nil {
		return domain.Appointment{}, fmt.Errorf("missing user_id")
	}
	at, err := domain.ParseISO(r.DateTime)
	if err != nil {
		return domain.Appointment{}, fmt.Errorf("datetime %q: %w", r.DateTime, err)
	}
	created, err := domain.ParseISO(r.CreatedAt)
	if err != nil {
		return domain.Appointment{}, fmt.Errorf("created_at %q: %w", r.CreatedAt, err)
	}

	status := domain.Status(r.Status)
	if status == "" {
		status = domain.StatusPending
	}
	if !status.Valid() {
		return domain.Appointment{}, fmt.Errorf("unknown status %q", r.Status)
	}

	a := domain.Appointment{
		ID:          r.ID,
		Type:        r.Type,
		DateTime:    at,
		Notes:       r.Notes,
		UserID:      *r.UserID,
		ProviderID:  r.ProviderID,
		ServiceID:   r.ServiceID,
		ServiceName: r.ServiceName,
		ServiceCost: r.ServiceCost,
		Status:      status,
		CreatedAt:   created,
	}
	if r.CompletedAt != nil {
		completed, err := domain.ParseISO(*r.CompletedAt)
		if err != nil {
			return domain.Appointment{}, fmt.Errorf("completed_at %q: %w", *r.CompletedAt, err)
		}
		a.CompletedAt = &completed
	}
	return a, nil
}
