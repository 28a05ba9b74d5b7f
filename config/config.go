// Package config resolves runtime settings from layered sources
// Later sources win: defaults, TOML file, dotenv file and environment, command-line flags
package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/rs/zerolog"

	"github.com/lixenwraith/entangled/game"
	"github.com/lixenwraith/entangled/geometry"
	"github.com/lixenwraith/entangled/tilemap"
)

var ErrInvalid = errors.New("invalid configuration")

// Config holds every tunable of the binaries
type Config struct {
	SideLength           float64 `toml:"side_length"`
	DecorativeSideLength float64 `toml:"decorative_side_length"`
	PoolSize             int     `toml:"pool_size"`
	Seed                 uint64  `toml:"seed"` // 0 seeds from the clock

	Start      geometry.Cell `toml:"start"`
	StartEntry int           `toml:"start_entry"`
	Spare      geometry.Cell `toml:"spare"`

	// Map rows as digit strings; MapFile takes precedence when set
	Map     []string `toml:"map"`
	MapFile string   `toml:"map_file"`

	Listen   string `toml:"listen"`
	Database string `toml:"database"`
	LogLevel string `toml:"log_level"`
	Debug    bool   `toml:"debug"`
}

// Default returns the settings of the standard board
func Default() Config {
	return Config{
		SideLength:           40,
		DecorativeSideLength: 200,
		PoolSize:             geometry.ConnectionPointCount,
		Start:                geometry.Cell{Row: 4, Col: 3},
		StartEntry:           2,
		Spare:                geometry.Cell{Row: 0, Col: 8},
		Map:                  tilemap.FormatRows(tilemap.DefaultTiles()),
		Listen:               ":8080",
		Database:             "data/entangled.db",
		LogLevel:             "info",
	}
}

// LoadFile overlays a TOML file; keys absent from the file keep their value
func (c *Config) LoadFile(path string) error {
	md, err := toml.DecodeFile(path, c)
	if err != nil {
		return fmt.Errorf("decode config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("%w: unknown keys in %s: %v", ErrInvalid, path, undecoded)
	}
	return nil
}

// Board builds and validates the configured map
func (c Config) Board() (*tilemap.Map, error) {
	if c.MapFile != "" {
		return tilemap.LoadFile(c.MapFile)
	}
	if len(c.Map) == 0 {
		return tilemap.Default(), nil
	}
	return tilemap.FromRows(c.Map)
}

// Level parses the log level
func (c Config) Level() (zerolog.Level, error) {
	lvl, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("%w: log level %q", ErrInvalid, c.LogLevel)
	}
	return lvl, nil
}

// GameOptions converts the settings for game.New
func (c Config) GameOptions(log zerolog.Logger) game.Options {
	opts := game.DefaultOptions()
	opts.Logger = log
	opts.Seed = c.Seed
	opts.PoolSize = c.PoolSize
	opts.Start = c.Start
	opts.StartEntry = c.StartEntry
	opts.Spare = c.Spare
	return opts
}

// Validate checks ranges and that the start cell is playable on the configured map
func (c Config) Validate() error {
	if c.SideLength <= 0 || c.DecorativeSideLength <= 0 {
		return fmt.Errorf("%w: side lengths must be positive", ErrInvalid)
	}
	if c.PoolSize != geometry.ConnectionPointCount {
		return fmt.Errorf("%w: pool size %d, want %d", ErrInvalid, c.PoolSize, geometry.ConnectionPointCount)
	}
	if c.StartEntry < 0 || c.StartEntry >= geometry.ConnectionPointCount {
		return fmt.Errorf("%w: start entry %d", ErrInvalid, c.StartEntry)
	}
	if _, err := c.Level(); err != nil {
		return err
	}

	board, err := c.Board()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if board.Tile(c.Start) != tilemap.Playable {
		return fmt.Errorf("%w: start %s is %s", ErrInvalid, c.Start, board.Tile(c.Start))
	}
	return nil
}

// ParseCell reads "row,col"
func ParseCell(s string) (geometry.Cell, error) {
	row, col, ok := strings.Cut(s, ",")
	if !ok {
		return geometry.Cell{}, fmt.Errorf("%w: cell %q, want row,col", ErrInvalid, s)
	}
	r, err := strconv.Atoi(strings.TrimSpace(row))
	if err != nil {
		return geometry.Cell{}, fmt.Errorf("%w: cell row %q", ErrInvalid, row)
	}
	cc, err := strconv.Atoi(strings.TrimSpace(col))
	if err != nil {
		return geometry.Cell{}, fmt.Errorf("%w: cell col %q", ErrInvalid, col)
	}
	return geometry.Cell{Row: r, Col: cc}, nil
}
