package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// EnvPrefix namespaces every environment key
const EnvPrefix = "ENTANGLED_"

// ApplyEnv overlays ENTANGLED_* variables
// Values from dotenv files fill in what the process environment leaves unset; missing files are skipped
// LOG_LEVEL is honored when ENTANGLED_LOG_LEVEL is absent
func (c *Config) ApplyEnv(files ...string) error {
	fileVars := make(map[string]string)
	for _, f := range files {
		vars, err := godotenv.Read(f)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return fmt.Errorf("read env file %s: %w", f, err)
		}
		for k, v := range vars {
			if _, seen := fileVars[k]; !seen {
				fileVars[k] = v
			}
		}
	}

	lookup := func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := fileVars[key]
		return v, ok
	}
	return c.applyLookup(lookup)
}

func (c *Config) applyLookup(lookup func(string) (string, bool)) error {
	get := func(name string) (string, bool) {
		v, ok := lookup(EnvPrefix + name)
		return strings.TrimSpace(v), ok && strings.TrimSpace(v) != ""
	}

	if v, ok := get("SIDE_LENGTH"); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return envError("SIDE_LENGTH", v)
		}
		c.SideLength = f
	}
	if v, ok := get("SEED"); ok {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return envError("SEED", v)
		}
		c.Seed = n
	}
	if v, ok := get("START"); ok {
		cell, err := ParseCell(v)
		if err != nil {
			return err
		}
		c.Start = cell
	}
	if v, ok := get("START_ENTRY"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return envError("START_ENTRY", v)
		}
		c.StartEntry = n
	}
	if v, ok := get("SPARE"); ok {
		cell, err := ParseCell(v)
		if err != nil {
			return err
		}
		c.Spare = cell
	}
	if v, ok := get("MAP"); ok {
		c.Map = strings.Split(v, "/")
	}
	if v, ok := get("MAP_FILE"); ok {
		c.MapFile = v
	}
	if v, ok := get("LISTEN"); ok {
		c.Listen = v
	}
	if v, ok := get("DATABASE"); ok {
		c.Database = v
	}

	if v, ok := get("LOG_LEVEL"); ok {
		c.LogLevel = v
	} else if v, ok := lookup("LOG_LEVEL"); ok && v != "" {
		c.LogLevel = v
	}

	if v, ok := get("DEBUG"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return envError("DEBUG", v)
		}
		c.Debug = b
	}
	return nil
}

func envError(name, value string) error {
	return fmt.Errorf("%w: %s%s=%q", ErrInvalid, EnvPrefix, name, value)
}
