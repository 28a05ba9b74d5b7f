package tilemap

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// File is the on-disk layout of a map definition
//
//	rows = [
//	  "001111100",
//	  "001222210",
//	]
type File struct {
	Name string   `toml:"name"`
	Rows []string `toml:"rows"`
}

// ParseRows converts digit strings into marker rows
func ParseRows(rows []string) ([][]Marker, error) {
	out := make([][]Marker, 0, len(rows))
	for r, line := range rows {
		row := make([]Marker, 0, len(line))
		for c, ch := range line {
			if ch < '0' || ch > '9' {
				return nil, fmt.Errorf("%w: %q at (%d,%d)", ErrBadMarker, ch, r, c)
			}
			row = append(row, Marker(ch-'0'))
		}
		out = append(out, row)
	}
	return out, nil
}

// FormatRows is the inverse of ParseRows
func FormatRows(tiles [][]Marker) []string {
	out := make([]string, len(tiles))
	for r, row := range tiles {
		b := make([]byte, len(row))
		for c, m := range row {
			b[c] = byte('0' + m)
		}
		out[r] = string(b)
	}
	return out
}

// FromRows parses, builds and validates a map
func FromRows(rows []string) (*Map, error) {
	tiles, err := ParseRows(rows)
	if err != nil {
		return nil, err
	}
	m, err := New(tiles)
	if err != nil {
		return nil, err
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// LoadFile reads a TOML map definition
func LoadFile(path string) (*Map, error) {
	var f File
	if _, err := toml.DecodeFile(path, &f); err != nil {
		return nil, fmt.Errorf("decode map %s: %w", path, err)
	}
	m, err := FromRows(f.Rows)
	if err != nil {
		return nil, fmt.Errorf("map %s: %w", path, err)
	}
	return m, nil
}
