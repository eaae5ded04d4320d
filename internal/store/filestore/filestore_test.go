package filestore

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"bookwise/backend/internal/domain"
	"bookwise/backend/internal/store"
)

func TestStore_MissingFileIsEmpty(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "appointments.json"))
	snap, err := s.LoadAll(context.Background())
	if err != nil {
		t.Fatalf("LoadAll error: %v", err)
	}
	if len(snap.Appointments) != 0 || snap.LastID != 0 {
		t.Fatalf("expected empty snapshot, got %+v", snap)
	}
}

func TestStore_SaveThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "appointments.json")
	s := New(path)
	provider := int64(2)

	in := store.Snapshot{
		LastID: 5,
		Appointments: []domain.Appointment{
			{
				ID:         3,
				Type:       "Massage Therapy",
				DateTime:   time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC),
				UserID:     7,
				ProviderID: &provider,
				Status:     domain.StatusConfirmed,
				CreatedAt:  time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC),
			},
		},
	}
	if err := s.SaveAll(context.Background(), in); err != nil {
		t.Fatalf("SaveAll error: %v", err)
	}

	out, err := New(path).LoadAll(context.Background())
	if err != nil {
		t.Fatalf("LoadAll error: %v", err)
	}
	if out.LastID != 5 || len(out.Appointments) != 1 {
		t.Fatalf("snapshot = %+v", out)
	}
	got := out.Appointments[0]
	if got.ID != 3 || got.Status != domain.StatusConfirmed || got.ProviderID == nil || *got.ProviderID != 2 {
		t.Fatalf("appointment = %+v", got)
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatalf("ReadDir error: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("temp files left behind: %d entries", len(entries))
	}
}

func TestStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "appointments.json")
	if err := os.WriteFile(path, []byte(`[{"id": 1, "datetime": "soon", "created_at": "", "user_id": 1}]`), 0o644); err != nil {
		t.Fatalf("WriteFile error: %v", err)
	}
	_, err := New(path).LoadAll(context.Background())
	var cErr *store.CorruptRecordError
	if !errors.As(err, &cErr) {
		t.Fatalf("error = %v, want *store.CorruptRecordError", err)
	}
}
