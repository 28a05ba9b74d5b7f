package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/entangled/event"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "nested", "scores.db"), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRecordAndTop(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()

	for _, r := range []Result{
		{Session: "a", Score: 5, Placed: 3},
		{Session: "b", Score: 12, Placed: 7},
		{Session: "c", Score: 5, Placed: 4},
	} {
		require.NoError(t, s.Record(ctx, r))
	}

	top, err := s.Top(ctx, 2)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "b", top[0].Session)
	assert.Equal(t, 12, top[0].Score)
	assert.Equal(t, "a", top[1].Session)
	assert.False(t, top[0].FinishedAt.IsZero())

	all, err := s.Top(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestReopenKeepsRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scores.db")
	s, err := Open(path, zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, s.Record(context.Background(), Result{Session: "x", Score: 1, Placed: 1}))
	require.NoError(t, s.Close())

	s, err = Open(path, zerolog.Nop())
	require.NoError(t, err)
	defer s.Close()
	top, err := s.Top(context.Background(), 10)
	require.NoError(t, err)
	assert.Len(t, top, 1)
}

func TestFinishListenerWritesAfterPlacement(t *testing.T) {
	s := openTemp(t)
	bus := event.NewBus()
	score := 3
	l := NewFinishListener(s, "session-1", func() Result { return Result{Score: score, Placed: 2} })
	_, err := bus.Register(l, "")
	require.NoError(t, err)

	require.NoError(t, bus.Send(event.ToAll(event.EventGameFinished, 0, nil)))
	score = 6
	require.NoError(t, bus.Send(event.ToAll(event.EventHexagonPlaced, 0, nil)))
	require.NoError(t, bus.Send(event.ToAll(event.EventHexagonPlaced, 0, nil)))

	top, err := s.Top(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, "session-1", top[0].Session)
	assert.Equal(t, 6, top[0].Score)
}

func TestFinishListenerSkipsAfterReset(t *testing.T) {
	s := openTemp(t)
	bus := event.NewBus()
	l := NewFinishListener(s, "s", func() Result { return Result{Score: 1} })
	_, err := bus.Register(l, "")
	require.NoError(t, err)

	require.NoError(t, bus.Send(event.ToAll(event.EventGameFinished, 0, nil)))
	require.NoError(t, bus.Send(event.ToAll(event.EventGameReset, 0, nil)))
	require.NoError(t, bus.Send(event.ToAll(event.EventHexagonPlaced, 0, nil)))

	top, err := s.Top(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, top)
}
