package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/lixenwraith/entangled/config"
	"github.com/lixenwraith/entangled/server"
	"github.com/lixenwraith/entangled/store"
)

func main() {
	cfg, err := config.Resolve("entangled-server", os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(2)
	}

	level, err := cfg.Level()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(2)
	}
	zerolog.SetGlobalLevel(level)
	log := zerolog.New(os.Stderr).With().Timestamp().Str("service", "entangled").Logger()
	if cfg.Debug {
		log = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func run(cfg config.Config, log zerolog.Logger) error {
	var scores *store.Store
	if cfg.Database != "" {
		s, err := store.Open(cfg.Database, log)
		if err != nil {
			return err
		}
		defer s.Close()
		scores = s
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(cfg, scores, log)
	return srv.ListenAndServe(ctx, cfg.Listen)
}
