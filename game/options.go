package game

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/lixenwraith/entangled/geometry"
	"github.com/lixenwraith/entangled/tilemap"
)

// Options configures a Logic instance
type Options struct {
	Logger zerolog.Logger

	Seed       uint64        // 0 seeds from the clock
	PoolSize   int           // Connection points drawn per pairing
	Start      geometry.Cell // Cell of the first active hexagon
	StartEntry int           // Entry point of the first active hexagon
	Spare      geometry.Cell // Display cell of the spare hexagon, off the playable area

	// AutoStart fires map-animated right after init, for hosts without a map animation
	AutoStart bool
}

// DefaultOptions matches the default 9x9 board: start beside the center finish tile, facing it
func DefaultOptions() Options {
	return Options{
		Logger:     zerolog.Nop(),
		PoolSize:   geometry.ConnectionPointCount,
		Start:      geometry.Cell{Row: 4, Col: 3},
		StartEntry: 2,
		Spare:      geometry.Cell{Row: 0, Col: 8},
	}
}

func (o Options) validate(board *tilemap.Map) error {
	if board == nil {
		return fmt.Errorf("%w: no board", ErrInvalidOptions)
	}
	if err := board.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidOptions, err)
	}
	if o.PoolSize != geometry.ConnectionPointCount {
		return fmt.Errorf("%w: pool size %d", ErrInvalidOptions, o.PoolSize)
	}
	if o.StartEntry < 0 || o.StartEntry >= geometry.ConnectionPointCount {
		return fmt.Errorf("%w: start entry %d", ErrInvalidOptions, o.StartEntry)
	}
	if board.Tile(o.Start) != tilemap.Playable {
		return fmt.Errorf("%w: start %s is %s", ErrInvalidOptions, o.Start, board.Tile(o.Start))
	}
	return nil
}
