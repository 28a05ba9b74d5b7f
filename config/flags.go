package config

import (
	"flag"
	"strings"
)

// binder copies one flag-backed field from the scratch config into the resolved one
type binder func(dst, src *Config)

func (c *Config) bindFlags(fs *flag.FlagSet) map[string]binder {
	def := Default()
	b := make(map[string]binder)

	fs.Float64Var(&c.SideLength, "side", def.SideLength, "hexagon side length in pixels")
	b["side"] = func(dst, src *Config) { dst.SideLength = src.SideLength }

	fs.Uint64Var(&c.Seed, "seed", 0, "random seed, 0 for time based")
	b["seed"] = func(dst, src *Config) { dst.Seed = src.Seed }

	fs.Func("start", "start cell as row,col (default 4,3)", func(s string) error {
		cell, err := ParseCell(s)
		c.Start = cell
		return err
	})
	b["start"] = func(dst, src *Config) { dst.Start = src.Start }

	fs.IntVar(&c.StartEntry, "entry", def.StartEntry, "entry point of the first hexagon")
	b["entry"] = func(dst, src *Config) { dst.StartEntry = src.StartEntry }

	fs.Func("spare", "spare cell as row,col (default 0,8)", func(s string) error {
		cell, err := ParseCell(s)
		c.Spare = cell
		return err
	})
	b["spare"] = func(dst, src *Config) { dst.Spare = src.Spare }

	fs.Func("map", "map rows separated by '/'", func(s string) error {
		c.Map = strings.Split(s, "/")
		return nil
	})
	b["map"] = func(dst, src *Config) { dst.Map = src.Map }

	fs.StringVar(&c.MapFile, "map-file", "", "TOML map file")
	b["map-file"] = func(dst, src *Config) { dst.MapFile = src.MapFile }

	fs.StringVar(&c.Listen, "listen", def.Listen, "server listen address")
	b["listen"] = func(dst, src *Config) { dst.Listen = src.Listen }

	fs.StringVar(&c.Database, "db", def.Database, "SQLite score database path")
	b["db"] = func(dst, src *Config) { dst.Database = src.Database }

	fs.StringVar(&c.LogLevel, "log-level", def.LogLevel, "log level")
	b["log-level"] = func(dst, src *Config) { dst.LogLevel = src.LogLevel }

	fs.BoolVar(&c.Debug, "debug", false, "enable debug logging")
	b["debug"] = func(dst, src *Config) { dst.Debug = src.Debug }

	return b
}

// Resolve layers every source for a binary named name and validates the result
// -config names the TOML file, -env the dotenv file
func Resolve(name string, args []string) (Config, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	path := fs.String("config", "", "TOML configuration file")
	envFile := fs.String("env", ".env", "dotenv file")

	var scratch Config
	binders := scratch.bindFlags(fs)
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	cfg := Default()
	if *path != "" {
		if err := cfg.LoadFile(*path); err != nil {
			return Config{}, err
		}
	}
	if err := cfg.ApplyEnv(*envFile); err != nil {
		return Config{}, err
	}

	fs.Visit(func(f *flag.Flag) {
		if apply, ok := binders[f.Name]; ok {
			apply(&cfg, &scratch)
		}
	})

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
