// Package session persists wizard drafts. Each wizard or edit session owns
// exactly one draft; steps replace the whole stored value, so there is no
// shared mutable state between surfaces.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ZainManzoor2003/mehndi-sub003/internal/booking"
	"github.com/ZainManzoor2003/mehndi-sub003/internal/validate"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var (
	ErrNotFound = errors.New("wizard session not found")

	// ErrBusy means a mutating action for this session is already in
	// flight. This is the UI-level mutex: it stops double submission from
	// one session, nothing more.
	ErrBusy = errors.New("another action is already in progress")
)

const (
	draftTTL = 24 * time.Hour
	busyTTL  = 2 * time.Minute
)

// State is one wizard session: the draft plus the step the client is on.
type State struct {
	ID        string         `json:"id"`
	UserID    string         `json:"userId"`
	Step      validate.Step  `json:"step"`
	Draft     *booking.Draft `json:"draft"`
	CreatedAt time.Time      `json:"createdAt"`
}

// Store keeps sessions in Redis under a TTL; an abandoned wizard simply
// expires, no cleanup pass needed.
type Store struct {
	rdb *redis.Client
}

func NewStore(rdb *redis.Client) *Store {
	return &Store{rdb: rdb}
}

func draftKey(id string) string { return "wizard:" + id }
func busyKey(id string) string  { return "busy:" + id }

// Start creates a session. draft may be a blank draft or one seeded from an
// existing pending booking for editing.
func (s *Store) Start(ctx context.Context, userID string, draft *booking.Draft) (*State, error) {
	st := &State{
		ID:        uuid.NewString(),
		UserID:    userID,
		Step:      validate.StepContact,
		Draft:     draft,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.Save(ctx, st); err != nil {
		return nil, err
	}
	return st, nil
}

func (s *Store) Get(ctx context.Context, id string) (*State, error) {
	raw, err := s.rdb.Get(ctx, draftKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	var st State
	if err := json.Unmarshal(raw, &st); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &st, nil
}

// Save writes the whole session back and refreshes its TTL.
func (s *Store) Save(ctx context.Context, st *State) error {
	raw, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := s.rdb.Set(ctx, draftKey(st.ID), string(raw), draftTTL).Err(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	if err := s.rdb.Del(ctx, draftKey(id)).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// Acquire takes the busy flag for id, which may be a wizard session or a
// booking mid-mutation. The returned release must be called once the mutation
// settles; the TTL is only a backstop against a crashed handler leaving the
// flag set forever.
func (s *Store) Acquire(ctx context.Context, id string) (func(), error) {
	ok, err := s.rdb.SetNX(ctx, busyKey(id), "1", busyTTL).Result()
	if err != nil {
		return nil, fmt.Errorf("acquire session lock: %w", err)
	}
	if !ok {
		return nil, ErrBusy
	}
	return func() {
		s.rdb.Del(context.Background(), busyKey(id))
	}, nil
}
