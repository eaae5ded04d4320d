package redisstore

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"bookwise/backend/internal/domain"
	"bookwise/backend/internal/store"
)

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return New(client, ""), mr
}

func TestStore_EmptyKey(t *testing.T) {
	s, _ := newTestStore(t)
	snap, err := s.LoadAll(context.Background())
	require.NoError(t, err)
	require.Empty(t, snap.Appointments)
	require.Zero(t, snap.LastID)
}

func TestStore_SaveThenLoad(t *testing.T) {
	s, mr := newTestStore(t)
	ctx := context.Background()

	in := store.Snapshot{
		LastID: 4,
		Appointments: []domain.Appointment{
			{ID: 4, Type: "Spa Treatment", DateTime: time.Date(2024, 6, 3, 14, 30, 0, 0, time.UTC), UserID: 9, Status: domain.StatusPending, CreatedAt: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)},
		},
	}
	require.NoError(t, s.SaveAll(ctx, in))
	require.True(t, mr.Exists(DefaultKey))

	out, err := s.LoadAll(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(4), out.LastID)
	require.Len(t, out.Appointments, 1)
	require.Equal(t, "Spa Treatment", out.Appointments[0].Type)
	require.True(t, out.Appointments[0].DateTime.Equal(in.Appointments[0].DateTime))

	require.NoError(t, s.SaveAll(ctx, store.Snapshot{LastID: 4}))
	out, err = s.LoadAll(ctx)
	require.NoError(t, err)
	require.Empty(t, out.Appointments)
	require.Equal(t, int64(4), out.LastID)
}

func TestStore_CorruptValue(t *testing.T) {
	s, mr := newTestStore(t)
	require.NoError(t, mr.Set(DefaultKey, "{not json"))

	_, err := s.LoadAll(context.Background())
	var cErr *store.CorruptRecordError
	require.ErrorAs(t, err, &cErr)
}

func TestStore_Ping(t *testing.T) {
	s, mr := newTestStore(t)
	require.NoError(t, s.Ping(context.Background()))
	mr.Close()
	require.Error(t, s.Ping(context.Background()))
}
