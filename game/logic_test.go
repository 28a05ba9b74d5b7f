package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/entangled/chain"
	"github.com/lixenwraith/entangled/event"
	"github.com/lixenwraith/entangled/geometry"
	"github.com/lixenwraith/entangled/hexagon"
	"github.com/lixenwraith/entangled/tilemap"
)

var straight = [hexagon.LineCount][2]int{{0, 7}, {1, 6}, {2, 9}, {3, 8}, {4, 11}, {5, 10}}

// enclosedBoard is a single playable cell ringed by finish markers
func enclosedBoard(t *testing.T) *tilemap.Map {
	t.Helper()
	m, err := tilemap.FromRows([]string{"111", "121", "111"})
	require.NoError(t, err)
	return m
}

// corridorBoard is four playable cells on row 1, ringed by finish markers
func corridorBoard(t *testing.T) *tilemap.Map {
	t.Helper()
	m, err := tilemap.FromRows([]string{"111111", "122221", "111111"})
	require.NoError(t, err)
	return m
}

func newSession(t *testing.T, board *tilemap.Map, start geometry.Cell, entry int) (*Game, *recorder) {
	t.Helper()
	opts := DefaultOptions()
	opts.Seed = 42
	opts.Start = start
	opts.StartEntry = entry
	opts.AutoStart = true

	g, err := NewGame(board, opts)
	require.NoError(t, err)

	rec := &recorder{}
	_, err = g.Bus.Register(rec, TagScore)
	require.NoError(t, err)

	require.NoError(t, g.Start())
	require.Equal(t, StateAwaiting, g.Logic.State())
	rec.Reset()
	return g, rec
}

// outbound drops score totals so assertions follow the logic's own emissions
func outbound(r *recorder) []event.EventType {
	var out []event.EventType
	for _, t := range r.Types() {
		if t != event.EventScoreChanged {
			out = append(out, t)
		}
	}
	return out
}

// putStraight stores a straight hexagon at col of row 1
func putStraight(t *testing.T, g *Game, col int) *hexagon.Hexagon {
	t.Helper()
	h, err := hexagon.New(straight)
	require.NoError(t, err)
	c := geometry.Cell{Row: 1, Col: col}
	h.SetPosition(c)
	require.NoError(t, g.Logic.Board().Place(c, h))
	return h
}

func TestPlaceNextToFinishEndsGame(t *testing.T) {
	g, rec := newSession(t, enclosedBoard(t), geometry.Cell{Row: 1, Col: 1}, 0)

	require.NoError(t, g.Command(event.EventPlace))

	assert.Equal(t, []event.EventType{event.EventIncreaseScore, event.EventGameFinished, event.EventHexagonPlaced}, outbound(rec))
	assert.Equal(t, []int{1}, rec.IntPayloads(event.EventIncreaseScore))
	assert.Equal(t, StateFinished, g.Logic.State())
	assert.True(t, g.Logic.Finished())
	assert.True(t, g.Finished.Visible())
	assert.Equal(t, 1, g.Score.Total())
}

func TestPlaceAlongChainScoresPerHop(t *testing.T) {
	g, rec := newSession(t, corridorBoard(t), geometry.Cell{Row: 1, Col: 1}, 9)
	l := g.Logic

	first := putStraight(t, g, 1)
	first.SetColor(hexagon.ColorActive)
	l.active = first
	second := putStraight(t, g, 2)
	third := putStraight(t, g, 3)
	require.NoError(t, l.refreshPreview())

	preview, ok := l.Preview()
	require.True(t, ok)
	assert.Equal(t, geometry.Cell{Row: 1, Col: 4}, preview)
	assert.Equal(t, hexagon.Preview, second.Connection(9))

	require.NoError(t, g.Command(event.EventPlace))

	assert.Equal(t, []int{1, 2, 3}, rec.IntPayloads(event.EventIncreaseScore))
	assert.Equal(t, event.EventHexagonPlaced, outbound(rec)[3])
	assert.Len(t, outbound(rec), 4)
	assert.Equal(t, []int{1, 3, 6}, rec.IntPayloads(event.EventScoreChanged))

	assert.Equal(t, hexagon.Active, second.Connection(9))
	assert.Equal(t, hexagon.Active, third.Connection(9))
	assert.Equal(t, hexagon.ColorPlaced, first.Color())
	assert.Equal(t, 3, l.Multiplier())
	assert.Equal(t, 3, l.Path().Len())

	spawned, ok := l.Board().Placed(geometry.Cell{Row: 1, Col: 4})
	require.True(t, ok)
	assert.Same(t, spawned, l.Active())
	assert.Equal(t, 9, l.Entry())
	assert.Equal(t, StateAwaiting, l.State())
}

func TestSwitchSwapsActiveAndSpare(t *testing.T) {
	start := geometry.Cell{Row: 1, Col: 1}
	g, rec := newSession(t, enclosedBoard(t), start, 0)
	l := g.Logic
	active, spare := l.Active(), l.Spare()
	spareCell := spare.Position()

	require.NoError(t, g.Command(event.EventSwitch))

	assert.Equal(t, []event.EventType{event.EventHexagonSwitched}, outbound(rec))
	assert.Same(t, spare, l.Active())
	assert.Same(t, active, l.Spare())
	assert.Equal(t, start, l.Active().Position())
	assert.Equal(t, spareCell, l.Spare().Position())
	assert.Equal(t, hexagon.Preview, l.Active().Connection(0))
	assert.Equal(t, hexagon.Inactive, l.Spare().Connection(0))

	placed, ok := l.Board().Placed(start)
	require.True(t, ok)
	assert.Same(t, spare, placed)
}

func TestSwitchWhileFinishedIsIgnored(t *testing.T) {
	g, rec := newSession(t, enclosedBoard(t), geometry.Cell{Row: 1, Col: 1}, 0)
	l := g.Logic
	require.NoError(t, g.Command(event.EventPlace))
	require.True(t, l.Finished())

	active, spare := l.Active(), l.Spare()
	activeCell, spareCell := active.Position(), spare.Position()
	rec.Reset()

	assert.False(t, l.Accepts(event.EventSwitch))
	assert.False(t, l.Accepts(event.EventPlace))
	assert.True(t, l.Accepts(event.EventNewGame))

	require.NoError(t, g.Command(event.EventSwitch))
	require.NoError(t, g.Command(event.EventRotateLeft))
	require.NoError(t, g.Command(event.EventPlace))

	assert.Empty(t, rec.Events)
	assert.Same(t, active, l.Active())
	assert.Same(t, spare, l.Spare())
	assert.Equal(t, activeCell, active.Position())
	assert.Equal(t, spareCell, spare.Position())
	assert.Zero(t, active.Rotation())
}

func TestNewGameRestoresFreshState(t *testing.T) {
	start := geometry.Cell{Row: 1, Col: 1}
	g, rec := newSession(t, enclosedBoard(t), start, 0)
	l := g.Logic

	require.NoError(t, g.Command(event.EventPlace))
	fresh := outbound(rec)
	require.True(t, l.Finished())

	rec.Reset()
	require.NoError(t, g.Command(event.EventNewGame))

	assert.Contains(t, rec.Types(), event.EventGameReset)
	assert.Equal(t, StateAwaiting, l.State())
	assert.Equal(t, 1, l.Board().PlacedCount())
	assert.Equal(t, 1, l.Multiplier())
	assert.Equal(t, 0, l.Entry())
	assert.Equal(t, 0, g.Score.Total())
	assert.False(t, g.Finished.Visible())
	assert.Equal(t, start, l.Active().Position())

	rec.Reset()
	require.NoError(t, g.Command(event.EventPlace))
	assert.Equal(t, fresh, outbound(rec))
	assert.Equal(t, []int{1}, rec.IntPayloads(event.EventIncreaseScore))
}

func TestNewGameAfterChainResetsMultiplier(t *testing.T) {
	g, rec := newSession(t, corridorBoard(t), geometry.Cell{Row: 1, Col: 1}, 9)
	l := g.Logic
	first := putStraight(t, g, 1)
	l.active = first
	putStraight(t, g, 2)
	require.NoError(t, g.Command(event.EventPlace))
	require.Equal(t, 2, l.Multiplier())

	rec.Reset()
	require.NoError(t, g.Command(event.EventNewGame))

	assert.Equal(t, 1, l.Multiplier())
	assert.Equal(t, 1, l.Board().PlacedCount())
	assert.Equal(t, []int{0}, rec.IntPayloads(event.EventScoreChanged))
}

func TestCommandsBeforeStartAreIgnored(t *testing.T) {
	opts := DefaultOptions()
	opts.Seed = 1
	g, err := NewGame(tilemap.Default(), opts)
	require.NoError(t, err)

	rec := &recorder{}
	_, err = g.Bus.Register(rec, "")
	require.NoError(t, err)

	for _, c := range []event.EventType{event.EventRotateLeft, event.EventPlace, event.EventSwitch, event.EventMapAnimated} {
		require.NoError(t, g.Command(c))
	}
	assert.Empty(t, rec.Events)
	assert.Equal(t, StateLoading, g.Logic.State())
	assert.Nil(t, g.Logic.Active())

	require.NoError(t, g.Start())
	assert.Equal(t, StateLoading, g.Logic.State())

	require.NoError(t, g.Command(event.EventMapAnimated))
	assert.Equal(t, StateAwaiting, g.Logic.State())
	assert.Equal(t, []event.EventType{event.EventMapReady}, rec.Types())
	assert.Equal(t, opts.Start, g.Logic.Active().Position())
	assert.Equal(t, opts.Spare, g.Logic.Spare().Position())
	assert.Equal(t, 1, g.Logic.Board().PlacedCount())
}

func TestRotateMovesActiveAndPreview(t *testing.T) {
	g, rec := newSession(t, tilemap.Default(), geometry.Cell{Row: 4, Col: 3}, 2)
	l := g.Logic

	require.NoError(t, g.Command(event.EventRotateRight))
	assert.Equal(t, 60, l.Active().Rotation())
	require.NoError(t, g.Command(event.EventRotateLeft))
	require.NoError(t, g.Command(event.EventRotateLeft))
	assert.Equal(t, -60, l.Active().Rotation())

	assert.Equal(t, []event.EventType{event.EventHexagonRotated, event.EventHexagonRotated, event.EventHexagonRotated}, rec.Types())
	assert.Equal(t, hexagon.Preview, l.Active().Connection(2))

	exit, err := l.Active().ExitPoint(2)
	require.NoError(t, err)
	side := geometry.SideOf(exit)
	want, err := geometry.NeighborBySide(4, 3, side)
	require.NoError(t, err)
	preview, ok := l.Preview()
	require.True(t, ok)
	assert.Equal(t, want, preview)
}

func TestDefaultBoardPlacementsNeverFail(t *testing.T) {
	for seed := uint64(1); seed <= 20; seed++ {
		opts := DefaultOptions()
		opts.Seed = seed
		opts.AutoStart = true
		g, err := NewGame(tilemap.Default(), opts)
		require.NoError(t, err)
		require.NoError(t, g.Start())

		for i := 0; i < 200 && !g.Logic.Finished(); i++ {
			if i%3 == 0 {
				require.NoError(t, g.Command(event.EventRotateRight), "seed %d", seed)
			}
			require.NoError(t, g.Command(event.EventPlace), "seed %d step %d", seed, i)
		}
		assert.True(t, g.Logic.Finished(), "seed %d", seed)
	}
}

func TestInvalidOptions(t *testing.T) {
	bus := event.NewBus()

	opts := DefaultOptions()
	opts.Start = geometry.Cell{Row: 0, Col: 0}
	_, err := New(bus, tilemap.Default(), opts)
	assert.ErrorIs(t, err, ErrInvalidOptions)

	opts = DefaultOptions()
	opts.StartEntry = 12
	_, err = New(bus, tilemap.Default(), opts)
	assert.ErrorIs(t, err, ErrInvalidOptions)

	opts = DefaultOptions()
	opts.PoolSize = 10
	_, err = New(bus, tilemap.Default(), opts)
	assert.ErrorIs(t, err, ErrInvalidOptions)
	assert.Zero(t, bus.Len())
}

func TestOpenBoundaryBoardIsRejected(t *testing.T) {
	bus := event.NewBus()
	open, err := tilemap.New([][]tilemap.Marker{{1, 2, 2, 2, 2, 1}})
	require.NoError(t, err)

	opts := DefaultOptions()
	opts.Start = geometry.Cell{Row: 0, Col: 1}
	_, err = New(bus, open, opts)
	assert.ErrorIs(t, err, ErrInvalidOptions)
	assert.ErrorIs(t, err, tilemap.ErrOpenBoundary)

	_, err = New(bus, nil, opts)
	assert.ErrorIs(t, err, ErrInvalidOptions)
	assert.Zero(t, bus.Len())
}

func TestFailedPlaceCommitsNothing(t *testing.T) {
	g, rec := newSession(t, corridorBoard(t), geometry.Cell{Row: 1, Col: 1}, 9)
	l := g.Logic

	// Two u-turn hexagons bounce the path between (1,1) and (1,2) forever
	uturn := [hexagon.LineCount][2]int{{0, 1}, {2, 3}, {4, 5}, {6, 7}, {8, 9}, {10, 11}}
	first, err := hexagon.New(uturn)
	require.NoError(t, err)
	first.SetPosition(geometry.Cell{Row: 1, Col: 1})
	require.NoError(t, l.Board().Place(first.Position(), first))
	second, err := hexagon.New(uturn)
	require.NoError(t, err)
	second.SetPosition(geometry.Cell{Row: 1, Col: 2})
	require.NoError(t, l.Board().Place(second.Position(), second))
	l.active, l.entry = first, 2

	err = g.Command(event.EventPlace)
	require.ErrorIs(t, err, chain.ErrCycle)

	assert.NotEqual(t, hexagon.Active, first.Connection(2))
	assert.NotEqual(t, hexagon.Active, second.Connection(8))
	assert.Empty(t, rec.Events)
	assert.Equal(t, 1, l.Multiplier())
	assert.Zero(t, l.Path().Len())
	assert.Equal(t, 2, l.Board().PlacedCount())
	assert.Equal(t, StateAwaiting, l.State())
}

func TestRemoveTearsDownLogic(t *testing.T) {
	g, _ := newSession(t, enclosedBoard(t), geometry.Cell{Row: 1, Col: 1}, 0)

	assert.True(t, g.Bus.Remove(g.Logic))
	assert.Zero(t, g.Logic.Board().PlacedCount())
	assert.Nil(t, g.Logic.Active())
}

func TestSnapshot(t *testing.T) {
	g, _ := newSession(t, enclosedBoard(t), geometry.Cell{Row: 1, Col: 1}, 0)
	require.NoError(t, g.Command(event.EventRotateRight))

	s := g.Snapshot()
	assert.Equal(t, StateAwaiting, s.State)
	assert.Equal(t, 1, s.Multiplier)
	require.NotNil(t, s.Active)
	assert.Equal(t, 60, s.Active.Rotation)
	assert.Len(t, s.Active.Lines, hexagon.LineCount)
	require.NotNil(t, s.Spare)
	require.NotNil(t, s.Preview)
	assert.Len(t, s.Placed, 1)
}
