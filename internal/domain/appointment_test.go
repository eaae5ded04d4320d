package domain

import (
	"testing"
	"time"
)

func TestTypeLabel(t *testing.T) {
	if got := TypeLabel("hair"); got != "Hair Salon" {
		t.Fatalf("TypeLabel(hair) = %q, want %q", got, "Hair Salon")
	}
	if got := TypeLabel("Deep Tissue 60"); got != "Deep Tissue 60" {
		t.Fatalf("unknown key should pass through, got %q", got)
	}
}

func TestAppointmentParticipants(t *testing.T) {
	provider := int64(7)
	withProvider := Appointment{UserID: 3, ProviderID: &provider}
	withoutProvider := Appointment{UserID: 3}

	if !withProvider.HasParticipant(3) || !withProvider.HasParticipant(7) {
		t.Fatalf("both consumer and provider should be participants")
	}
	if withProvider.HasParticipant(9) {
		t.Fatalf("stranger must not be a participant")
	}
	if other, ok := withProvider.Counterpart(3); !ok || other != 7 {
		t.Fatalf("Counterpart(consumer) = %d,%v, want 7,true", other, ok)
	}
	if other, ok := withProvider.Counterpart(7); !ok || other != 3 {
		t.Fatalf("Counterpart(provider) = %d,%v, want 3,true", other, ok)
	}
	if _, ok := withoutProvider.Counterpart(3); ok {
		t.Fatalf("provider-less appointment has no counterpart")
	}
}

func TestStatusTerminal(t *testing.T) {
	tests := []struct {
		status   Status
		terminal bool
	}{
		{StatusPending, false},
		{StatusConfirmed, false},
		{StatusDeclined, true},
		{StatusCompleted, true},
	}
	for _, tt := range tests {
		if tt.status.Terminal() != tt.terminal {
			t.Fatalf("%s.Terminal() = %v, want %v", tt.status, !tt.terminal, tt.terminal)
		}
		if !tt.status.Valid() {
			t.Fatalf("%s should be valid", tt.status)
		}
	}
	if Status("cancelled").Valid() {
		t.Fatalf("cancelled is not a stored status")
	}
}

func TestParseDateTime(t *testing.T) {
	got, err := ParseDateTime("2024-06-01", "10:00")
	if err != nil {
		t.Fatalf("ParseDateTime error: %v", err)
	}
	want := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("ParseDateTime = %v, want %v", got, want)
	}

	bad := [][2]string{
		{"2024-13-01", "10:00"},
		{"2024-06-01", "25:00"},
		{"06/01/2024", "10:00"},
		{"2024-06-01", ""},
		{"", "10:00"},
	}
	for _, in := range bad {
		if _, err := ParseDateTime(in[0], in[1]); err == nil {
			t.Fatalf("ParseDateTime(%q, %q) expected error", in[0], in[1])
		}
	}
}

func TestParseISO_AcceptsLegacyVariants(t *testing.T) {
	want := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	for _, in := range []string{"2024-06-01T10:00:00", "2024-06-01 10:00:00", "2024-06-01T10:00", "2024-06-01T10:00:00.123456"} {
		got, err := ParseISO(in)
		if err != nil {
			t.Fatalf("ParseISO(%q) error: %v", in, err)
		}
		if !got.Truncate(time.Minute).Equal(want) {
			t.Fatalf("ParseISO(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNaiveKeepsWallClock(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	in := time.Date(2024, 6, 1, 10, 30, 15, 999, loc)
	got := Naive(in)
	if got.Location() != time.UTC || got.Hour() != 10 || got.Minute() != 30 || got.Nanosecond() != 0 {
		t.Fatalf("Naive(%v) = %v", in, got)
	}
}
