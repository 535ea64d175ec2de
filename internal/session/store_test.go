package session

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/ZainManzoor2003/mehndi-sub003/internal/booking"
	"github.com/ZainManzoor2003/mehndi-sub003/internal/validate"
	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetRoundTrip(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	store := NewStore(rdb)

	st := &State{
		ID:        "s1",
		UserID:    "u1",
		Step:      validate.StepEvent,
		Draft:     &booking.Draft{FirstName: "Ayesha", DesignStyle: booking.StyleBridal},
		CreatedAt: time.Date(2026, 8, 28, 9, 0, 0, 0, time.UTC),
	}
	raw, err := json.Marshal(st)
	require.NoError(t, err)

	mock.ExpectGet("wizard:s1").SetVal(string(raw))

	got, err := store.Get(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, st, got)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetMissingSession(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	store := NewStore(rdb)

	mock.ExpectGet("wizard:gone").RedisNil()

	_, err := store.Get(context.Background(), "gone")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSaveWritesWholeSessionWithTTL(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	store := NewStore(rdb)

	st := &State{ID: "s1", UserID: "u1", Step: validate.StepContact, Draft: &booking.Draft{}}
	raw, err := json.Marshal(st)
	require.NoError(t, err)

	mock.ExpectSet("wizard:s1", string(raw), draftTTL).SetVal("OK")

	require.NoError(t, store.Save(context.Background(), st))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAcquireBusyFlag(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	store := NewStore(rdb)

	mock.ExpectSetNX("busy:s1", "1", busyTTL).SetVal(true)
	mock.ExpectDel("busy:s1").SetVal(1)

	release, err := store.Acquire(context.Background(), "s1")
	require.NoError(t, err)
	release()
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAcquireWhileBusy(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	store := NewStore(rdb)

	mock.ExpectSetNX("busy:s1", "1", busyTTL).SetVal(false)

	_, err := store.Acquire(context.Background(), "s1")
	assert.ErrorIs(t, err, ErrBusy)
}
