package store

import (
	"errors"
	"testing"
	"time"

	"bookwise/backend/internal/domain"
)

func TestSnapshotRoundTripPreservesMinutePrecision(t *testing.T) {
	provider := int64(2)
	serviceID := int64(1)
	serviceName := "Cut & style"
	cost := 2500.0
	completed := time.Date(2024, 6, 1, 11, 2, 33, 0, time.UTC)

	in := Snapshot{
		LastID: 9,
		Appointments: []domain.Appointment{
			{
				ID:          3,
				Type:        "Hair Salon",
				DateTime:    time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC),
				Notes:       "first visit",
				UserID:      5,
				ProviderID:  &provider,
				ServiceID:   &serviceID,
				ServiceName: &serviceName,
				ServiceCost: &cost,
				Status:      domain.StatusCompleted,
				CreatedAt:   time.Date(2024, 5, 20, 8, 15, 42, 0, time.UTC),
				CompletedAt: &completed,
			},
			{
				ID:        4,
				Type:      "Other",
				DateTime:  time.Date(2024, 6, 1, 10, 1, 0, 0, time.UTC),
				UserID:    6,
				Status:    domain.StatusPending,
				CreatedAt: time.Date(2024, 5, 21, 9, 0, 0, 0, time.UTC),
			},
		},
	}

	data, err := EncodeSnapshot(in)
	if err != nil {
		t.Fatalf("EncodeSnapshot error: %v", err)
	}
	out, err := DecodeSnapshot(data)
	if err != nil {
		t.Fatalf("DecodeSnapshot error: %v", err)
	}

	if out.LastID != 9 {
		t.Fatalf("LastID = %d, want 9", out.LastID)
	}
	if len(out.Appointments) != len(in.Appointments) {
		t.Fatalf("len = %d, want %d", len(out.Appointments), len(in.Appointments))
	}
	for i := range in.Appointments {
		want := in.Appointments[i]
		got := out.Appointments[i]
		if !got.DateTime.Truncate(time.Minute).Equal(want.DateTime.Truncate(time.Minute)) {
			t.Fatalf("[%d] datetime = %v, want %v", i, got.DateTime, want.DateTime)
		}
		if got.ID != want.ID || got.UserID != want.UserID || got.Status != want.Status || got.Type != want.Type {
			t.Fatalf("[%d] record mismatch: got %+v want %+v", i, got, want)
		}
	}

	first := out.Appointments[0]
	if first.ProviderID == nil || *first.ProviderID != provider {
		t.Fatalf("provider_id not preserved: %v", first.ProviderID)
	}
	if first.ServiceCost == nil || *first.ServiceCost != cost {
		t.Fatalf("service_cost not preserved: %v", first.ServiceCost)
	}
	if first.CompletedAt == nil || !first.CompletedAt.Equal(completed) {
		t.Fatalf("completed_at not preserved: %v", first.CompletedAt)
	}
	if out.Appointments[1].ProviderID != nil || out.Appointments[1].CompletedAt != nil {
		t.Fatalf("absent optional fields must stay absent")
	}
}

func TestDecodeSnapshot_LegacyArray(t *testing.T) {
	legacy := `[
  {"id": 1, "type": "Hair Salon", "datetime": "2024-06-01 10:00:00", "notes": "", "created_at": "2024-05-30 12:00:01.123456", "user_id": 4, "provider_id": 2, "status": "pending"},
  {"id": 2, "type": "Spa Treatment", "datetime": "2024-06-02T09:30:00", "notes": "x", "created_at": "2024-05-30T12:00:02", "user_id": 4, "provider_id": null, "status": "confirmed"}
]`
	snap, err := DecodeSnapshot([]byte(legacy))
	if err != nil {
		t.Fatalf("DecodeSnapshot error: %v", err)
	}
	if len(snap.Appointments) != 2 {
		t.Fatalf("len = %d, want 2", len(snap.Appointments))
	}
	if snap.LastID != 2 {
		t.Fatalf("LastID = %d, want 2", snap.LastID)
	}
	if got := snap.Appointments[0].DateTime; !got.Equal(time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)) {
		t.Fatalf("datetime = %v", got)
	}
	if snap.Appointments[1].ProviderID != nil {
		t.Fatalf("null provider_id should decode as absent")
	}
}

func TestDecodeSnapshot_CorruptRecord(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", `{"appointments": [`},
		{"unknown status", `[{"id": 1, "datetime": "2024-06-01T10:00:00", "created_at": "2024-06-01T10:00:00", "user_id": 1, "status": "cancelled"}]`},
		{"bad datetime", `[{"id": 1, "datetime": "June 1st", "created_at": "2024-06-01T10:00:00", "user_id": 1, "status": "pending"}]`},
		{"missing user", `[{"id": 1, "datetime": "2024-06-01T10:00:00", "created_at": "2024-06-01T10:00:00", "status": "pending"}]`},
		{"duplicate id", `[{"id": 1, "datetime": "2024-06-01T10:00:00", "created_at": "2024-06-01T10:00:00", "user_id": 1}, {"id": 1, "datetime": "2024-06-01T11:00:00", "created_at": "2024-06-01T10:00:00", "user_id": 1}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeSnapshot([]byte(tt.data))
			var cErr *CorruptRecordError
			if !errors.As(err, &cErr) {
				t.Fatalf("error = %v, want *CorruptRecordError", err)
			}
		})
	}
}

func TestDecodeSnapshot_EmptyInput(t *testing.T) {
	snap, err := DecodeSnapshot([]byte("  \n"))
	if err != nil {
		t.Fatalf("DecodeSnapshot error: %v", err)
	}
	if len(snap.Appointments) != 0 || snap.LastID != 0 {
		t.Fatalf("expected empty snapshot, got %+v", snap)
	}
}
