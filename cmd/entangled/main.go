package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/gdamore/tcell/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/lixenwraith/entangled/config"
	"github.com/lixenwraith/entangled/event"
	"github.com/lixenwraith/entangled/game"
	"github.com/lixenwraith/entangled/render"
	"github.com/lixenwraith/entangled/store"
)

// eventLogSize is the number of recent events shown in the side panel
const eventLogSize = 6

func main() {
	cfg, err := config.Resolve("entangled", os.Args[1:])
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
	log, logFile := setupLogging(cfg.Debug, level)
	if logFile != nil {
		defer logFile.Close()
	}

	if err := run(cfg, log); err != nil {
		fmt.Fprintf(os.Stderr, "entangled: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, log zerolog.Logger) error {
	board, err := cfg.Board()
	if err != nil {
		return err
	}

	g, err := game.NewGame(board, cfg.GameOptions(log))
	if err != nil {
		return err
	}
	eventLog := render.NewEventLog(eventLogSize)
	if _, err := g.Bus.Register(eventLog, game.TagScore); err != nil {
		return err
	}

	// Scores are optional; the game runs without a database
	if cfg.Database != "" {
		if scores, err := store.Open(cfg.Database, log); err != nil {
			log.Warn().Err(err).Msg("score store unavailable")
		} else {
			defer scores.Close()
			fl := store.NewFinishListener(scores, uuid.NewString(), func() store.Result {
				return store.Result{Score: g.Score.Total(), Placed: g.Logic.Board().PlacedCount()}
			})
			if _, err := g.Bus.Register(fl, ""); err != nil {
				return err
			}
		}
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	// Normal exit terminal cleanup
	defer screen.Fini()

	// Panic Recovery: restore the terminal before reporting the crash
	defer func() {
		if r := recover(); r != nil {
			screen.Fini()
			fmt.Fprintf(os.Stderr, "\n\x1b[31mENTANGLED CRASHED: %v\x1b[0m\n", r)
			fmt.Fprintf(os.Stderr, "Stack Trace:\n%s\n", debug.Stack())
			os.Exit(1)
		}
	}()

	renderer := render.NewTerminalRenderer(screen)

	if err := g.Start(); err != nil {
		return err
	}
	// The board is drawn once before the first hexagon appears
	renderer.RenderFrame(g, eventLog)
	if err := g.Command(event.EventMapAnimated); err != nil {
		return err
	}
	renderer.RenderFrame(g, eventLog)

	for {
		switch ev := screen.PollEvent().(type) {
		case *tcell.EventResize:
			screen.Sync()
		case *tcell.EventKey:
			t, quit := render.KeyCommand(ev)
			if quit {
				log.Info().Int("score", g.Score.Total()).Msg("quit")
				return nil
			}
			if t == event.EventNone {
				continue
			}
			if err := g.Command(t); err != nil {
				log.Error().Err(err).Str("command", t.String()).Msg("command failed")
			}
		case nil:
			return nil
		}
		renderer.RenderFrame(g, eventLog)
	}
}
